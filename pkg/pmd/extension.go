package pmd

import (
	"strings"

	"github.com/Faultbox/mmdcodec/pkg/binio"
)

// engMorphCount is the number of English morph names; the base morph has none.
func (p *Parser) engMorphCount() int {
	if p.morphCount <= 1 {
		return 0
	}
	return p.morphCount - 1
}

func (p *Parser) parseEngList() error {
	present, err := p.cur.ReadBool()
	if err != nil {
		return err
	}
	if !present {
		return nil
	}
	if p.eng == nil {
		span := int64(NameLength+DescriptionLength) +
			int64(p.boneCount)*NameLength +
			int64(p.engMorphCount())*NameLength +
			int64(p.boneGroupCount)*BoneGroupNameLength
		return p.cur.Skip(span)
	}

	f := binio.NewFields(p.cur)
	name := f.Text(p.text, NameLength)
	desc := f.Text(p.text, DescriptionLength)
	if err := f.Err(); err != nil {
		return err
	}
	if err := p.eng.EngModelInfo(name, normalizeNewlines(desc)); err != nil {
		return err
	}

	if err := loop(p.eng, StageEngBone, p.boneCount, func(int) error {
		name, err := p.text.Decode(p.cur, NameLength)
		if err != nil {
			return err
		}
		return p.eng.EngBoneName(name)
	}); err != nil {
		return err
	}
	if err := loop(p.eng, StageEngMorph, p.engMorphCount(), func(int) error {
		name, err := p.text.Decode(p.cur, NameLength)
		if err != nil {
			return err
		}
		return p.eng.EngMorphName(name)
	}); err != nil {
		return err
	}
	return loop(p.eng, StageEngBoneGroup, p.boneGroupCount, func(int) error {
		name, err := p.text.Decode(p.cur, BoneGroupNameLength)
		if err != nil {
			return err
		}
		return p.eng.EngBoneGroupName(strings.TrimSuffix(name, "\n"))
	})
}

func (p *Parser) parseToonList() error {
	if p.toon == nil {
		return p.cur.Skip(ToonCount * ToonFileLength)
	}
	return loop(p.toon, StageToon, ToonCount, func(int) error {
		name, err := p.text.Decode(p.cur, ToonFileLength)
		if err != nil {
			return err
		}
		return p.toon.ToonFile(name)
	})
}

func (p *Parser) parseRigidList() error {
	count, err := p.cur.ReadUint32AsInt64()
	if err != nil {
		return err
	}
	if p.rigid == nil {
		return p.cur.Skip(count * rigidBodySize)
	}
	return loop(p.rigid, StageRigidBody, binio.Count(count), func(int) error {
		f := binio.NewFields(p.cur)
		r := RigidBody{
			Name:           f.Text(p.text, NameLength),
			Bone:           f.Uint16(),
			Group:          f.Uint8(),
			CollisionMask:  f.Uint16(),
			Shape:          RigidShape(f.Uint8()),
			Size:           f.Vec3(),
			Position:       f.Vec3(),
			Rotation:       f.Vec3(),
			Mass:           f.Float32(),
			LinearDamping:  f.Float32(),
			AngularDamping: f.Float32(),
			Restitution:    f.Float32(),
			Friction:       f.Float32(),
			Behavior:       RigidBehavior(f.Uint8()),
		}
		if err := f.Err(); err != nil {
			return err
		}
		return p.rigid.RigidBody(r)
	})
}

func (p *Parser) parseJointList() error {
	count, err := p.cur.ReadUint32AsInt64()
	if err != nil {
		return err
	}
	if p.joint == nil {
		return p.cur.Skip(count * jointSize)
	}
	return loop(p.joint, StageJoint, binio.Count(count), func(int) error {
		f := binio.NewFields(p.cur)
		j := Joint{
			Name:           f.Text(p.text, NameLength),
			RigidA:         f.Uint32(),
			RigidB:         f.Uint32(),
			Position:       f.Vec3(),
			Rotation:       f.Vec3(),
			PositionMin:    f.Vec3(),
			PositionMax:    f.Vec3(),
			RotationMin:    f.Vec3(),
			RotationMax:    f.Vec3(),
			SpringPosition: f.Vec3(),
			SpringRotation: f.Vec3(),
		}
		if err := f.Err(); err != nil {
			return err
		}
		return p.joint.Joint(j)
	})
}
