package main

import (
	"fmt"

	"github.com/Faultbox/mmdcodec/pkg/pmd"
	"github.com/Faultbox/mmdcodec/pkg/vmd"
)

// maxProblems caps the report per file.
const maxProblems = 50

// rotationTolerance is how far a rotation norm may drift from 1.
const rotationTolerance = 1e-3

type problems []string

func (p *problems) addf(format string, args ...any) {
	if len(*p) < maxProblems {
		*p = append(*p, fmt.Sprintf(format, args...))
	}
}

// checkModel reports dangling indices and inconsistent counts.
func checkModel(m *pmd.Model) []string {
	var p problems
	bones := len(m.Bones)
	boneRef := func(idx uint16) bool {
		return idx == pmd.NoBone || int(idx) < bones
	}

	for i, v := range m.Vertices {
		if int(v.Bones[0]) >= bones || int(v.Bones[1]) >= bones {
			p.addf("vertex %d: bone %v out of range", i, v.Bones)
		}
		if v.Weight > 100 {
			p.addf("vertex %d: weight %d above 100", i, v.Weight)
		}
	}
	for i, s := range m.Surfaces {
		for _, idx := range s {
			if int(idx) >= len(m.Vertices) {
				p.addf("surface %d: vertex %d out of range", i, idx)
			}
		}
	}

	var covered int
	for _, mat := range m.Materials {
		covered += int(mat.IndexCount)
	}
	if covered != len(m.Surfaces)*3 {
		p.addf("materials cover %d indices, surfaces have %d", covered, len(m.Surfaces)*3)
	}

	for i, b := range m.Bones {
		if !boneRef(b.Parent) {
			p.addf("bone %d %q: parent %d out of range", i, b.Name, b.Parent)
		}
		if b.Tail != 0 && !boneRef(b.Tail) {
			p.addf("bone %d %q: tail %d out of range", i, b.Name, b.Tail)
		}
		if b.IKTarget != 0 && !boneRef(b.IKTarget) {
			p.addf("bone %d %q: ik target %d out of range", i, b.Name, b.IKTarget)
		}
	}
	for i, ik := range m.IKs {
		if int(ik.Bone) >= bones || int(ik.Target) >= bones {
			p.addf("ik %d: bone %d or target %d out of range", i, ik.Bone, ik.Target)
		}
		if int(ik.ChainLength) != len(ik.Chain) {
			p.addf("ik %d: chain length %d, %d links", i, ik.ChainLength, len(ik.Chain))
		}
		for _, link := range ik.Chain {
			if int(link) >= bones {
				p.addf("ik %d: chain bone %d out of range", i, link)
			}
		}
	}

	if len(m.Morphs) > 0 {
		base := m.Morphs[0]
		if base.Kind != pmd.MorphBase {
			p.addf("morph 0 %q: kind %s, want Base", base.Name, base.Kind)
		}
		for _, v := range base.Vertices {
			if int(v.Index) >= len(m.Vertices) {
				p.addf("base morph: vertex %d out of range", v.Index)
			}
		}
		for i, morph := range m.Morphs[1:] {
			for _, v := range morph.Vertices {
				if int(v.Index) >= len(base.Vertices) {
					p.addf("morph %d %q: base index %d out of range", i+1, morph.Name, v.Index)
				}
			}
		}
	}
	for _, idx := range m.MorphOrder {
		if int(idx) >= len(m.Morphs) {
			p.addf("morph order: morph %d out of range", idx)
		}
	}

	for i, g := range m.GroupedBones {
		if int(g.Bone) >= bones {
			p.addf("grouped bone %d: bone %d out of range", i, g.Bone)
		}
		if g.Group == 0 || int(g.Group) > len(m.BoneGroups) {
			p.addf("grouped bone %d: group %d out of range", i, g.Group)
		}
	}

	for i, r := range m.RigidBodies {
		if !boneRef(r.Bone) {
			p.addf("rigid body %d %q: bone %d out of range", i, r.Name, r.Bone)
		}
	}
	for i, j := range m.Joints {
		if int(j.RigidA) >= len(m.RigidBodies) || int(j.RigidB) >= len(m.RigidBodies) {
			p.addf("joint %d %q: rigid bodies %d/%d out of range", i, j.Name, j.RigidA, j.RigidB)
		}
	}
	return p
}

// checkMotion reports curves off the control point grid and keyframes that
// do not belong in the file type.
func checkMotion(m *vmd.Motion) []string {
	var p problems
	for i, k := range m.BoneMotions {
		if !k.Interpolation.Valid() {
			p.addf("bone key %d %q frame %d: control point above %d", i, k.Name, k.Frame, vmd.BezierMax)
		}
		if !k.Rotation.IsUnit(rotationTolerance) {
			p.addf("bone key %d %q frame %d: rotation not normalized", i, k.Name, k.Frame)
		}
	}
	for i, k := range m.CameraMotions {
		if !k.Interpolation.Valid() {
			p.addf("camera key %d frame %d: control point above %d", i, k.Frame, vmd.BezierMax)
		}
	}
	for i, k := range m.ShadowMotions {
		if k.Mode == vmd.ShadowUnknown {
			p.addf("shadow key %d frame %d: unknown mode %d", i, k.Frame, k.RawMode)
		}
	}
	if m.IsStageAct() && (len(m.BoneMotions) > 0 || len(m.MorphMotions) > 0) {
		p.addf("stage act carries %d bone and %d morph keys", len(m.BoneMotions), len(m.MorphMotions))
	}
	return p
}
