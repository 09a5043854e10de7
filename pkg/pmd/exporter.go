package pmd

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Faultbox/mmdcodec/pkg/binio"
	"github.com/Faultbox/mmdcodec/pkg/encoding"
)

// DefaultToonFiles are the toon textures MikuMikuDance ships with.
var DefaultToonFiles = [ToonCount]string{
	"toon01.bmp", "toon02.bmp", "toon03.bmp", "toon04.bmp", "toon05.bmp",
	"toon06.bmp", "toon07.bmp", "toon08.bmp", "toon09.bmp", "toon10.bmp",
}

// Exporter serializes a Model to PMD bytes, always writing every
// extension section.
type Exporter struct {
	w    *binio.Writer
	text *encoding.TextEncoder
	err  error
}

// NewExporter creates an exporter writing Shift_JIS text to w.
func NewExporter(w io.Writer) *Exporter {
	return &Exporter{
		w:    binio.NewWriter(w),
		text: encoding.NewTextEncoder(encoding.Default()),
	}
}

// SetCodec replaces the text encoding.
func (e *Exporter) SetCodec(codec encoding.Codec) {
	e.text = encoding.NewTextEncoder(codec)
}

// Export writes m.
func (e *Exporter) Export(m *Model) error {
	if err := checkCounts(m); err != nil {
		return err
	}
	e.w.WriteBytes(Magic[:])
	e.writeText(m.Name, NameLength)
	e.writeText(toCRLF(m.Description), DescriptionLength)

	e.writeShapes(m)
	e.writeMaterials(m)
	e.writeBones(m)
	e.writeMorphs(m)
	e.writeGroups(m)

	e.writeEnglish(m)
	e.writeToons(m)
	e.writeRigidBodies(m)
	e.writeJoints(m)

	if e.err != nil {
		return e.err
	}
	return e.w.Err()
}

func checkCounts(m *Model) error {
	limits := []struct {
		what  string
		count int
		max   int
	}{
		{"bones", len(m.Bones), 0xFFFF},
		{"ik entries", len(m.IKs), 0xFFFF},
		{"morphs", len(m.Morphs), 0xFFFF},
		{"morph order entries", len(m.MorphOrder), 0xFF},
		{"bone groups", len(m.BoneGroups), 0xFF},
	}
	for _, l := range limits {
		if l.count > l.max {
			return fmt.Errorf("%w: %d %s exceed the format limit of %d", binio.ErrMalformed, l.count, l.what, l.max)
		}
	}
	for i, ik := range m.IKs {
		if len(ik.Chain) > 0xFF {
			return fmt.Errorf("%w: ik %d chain has %d bones", binio.ErrMalformed, i, len(ik.Chain))
		}
	}
	return nil
}

func (e *Exporter) writeText(s string, size int) {
	if e.err != nil {
		return
	}
	e.err = e.text.Write(e.w, s, size, 0x00)
}

func (e *Exporter) writeShapes(m *Model) {
	w := e.w
	w.WriteUint32(uint32(len(m.Vertices)))
	for _, v := range m.Vertices {
		w.WriteVec3(v.Position)
		w.WriteVec3(v.Normal)
		w.WriteVec2(v.UV)
		w.WriteUint16(v.Bones[0])
		w.WriteUint16(v.Bones[1])
		w.WriteUint8(v.Weight)
		w.WriteBool(v.NoEdge)
	}
	w.WriteUint32(uint32(len(m.Surfaces) * 3))
	for _, s := range m.Surfaces {
		w.WriteUint16(s[0])
		w.WriteUint16(s[1])
		w.WriteUint16(s[2])
	}
}

func (e *Exporter) writeMaterials(m *Model) {
	w := e.w
	w.WriteUint32(uint32(len(m.Materials)))
	for _, mat := range m.Materials {
		w.WriteVec3(mat.Diffuse)
		w.WriteFloat32(mat.Alpha)
		w.WriteFloat32(mat.Shininess)
		w.WriteVec3(mat.Specular)
		w.WriteVec3(mat.Ambient)
		w.WriteUint8(mat.ToonIndex)
		w.WriteBool(mat.Edge)
		w.WriteUint32(mat.IndexCount)
		e.writeText(JoinShadingFile(mat.Texture, mat.SphereMap), TextureLength)
	}
}

func (e *Exporter) writeBones(m *Model) {
	w := e.w
	w.WriteUint16(uint16(len(m.Bones)))
	for _, b := range m.Bones {
		e.writeText(b.Name, NameLength)
		w.WriteUint16(b.Parent)
		w.WriteUint16(b.Tail)
		w.WriteUint8(uint8(b.Kind))
		w.WriteUint16(b.IKTarget)
		w.WriteVec3(b.Position)
	}
	w.WriteUint16(uint16(len(m.IKs)))
	for _, ik := range m.IKs {
		w.WriteUint16(ik.Bone)
		w.WriteUint16(ik.Target)
		w.WriteUint8(uint8(len(ik.Chain)))
		w.WriteUint16(ik.Iterations)
		w.WriteFloat32(ik.Weight)
		for _, c := range ik.Chain {
			w.WriteUint16(c)
		}
	}
}

func (e *Exporter) writeMorphs(m *Model) {
	w := e.w
	w.WriteUint16(uint16(len(m.Morphs)))
	for _, morph := range m.Morphs {
		e.writeText(morph.Name, NameLength)
		w.WriteUint32(uint32(len(morph.Vertices)))
		w.WriteUint8(uint8(morph.Kind))
		for _, v := range morph.Vertices {
			w.WriteUint32(v.Index)
			w.WriteVec3(v.Offset)
		}
	}
	w.WriteUint8(uint8(len(m.MorphOrder)))
	for _, idx := range m.MorphOrder {
		w.WriteUint16(idx)
	}
}

func (e *Exporter) writeGroups(m *Model) {
	w := e.w
	w.WriteUint8(uint8(len(m.BoneGroups)))
	for _, g := range m.BoneGroups {
		e.writeText(g.Name+"\n", BoneGroupNameLength)
	}
	w.WriteUint32(uint32(len(m.GroupedBones)))
	for _, g := range m.GroupedBones {
		w.WriteUint16(g.Bone)
		w.WriteUint8(g.Group)
	}
}

func (e *Exporter) writeEnglish(m *Model) {
	e.w.WriteBool(m.HasEnglish)
	if !m.HasEnglish {
		return
	}
	e.writeText(m.EngName, NameLength)
	e.writeText(toCRLF(m.EngDescription), DescriptionLength)
	for _, b := range m.Bones {
		e.writeText(b.EngName, NameLength)
	}
	for i := 1; i < len(m.Morphs); i++ {
		e.writeText(m.Morphs[i].EngName, NameLength)
	}
	for _, g := range m.BoneGroups {
		e.writeText(g.EngName+"\n", BoneGroupNameLength)
	}
}

func (e *Exporter) writeToons(m *Model) {
	for i := 0; i < ToonCount; i++ {
		name := DefaultToonFiles[i]
		if i < len(m.ToonFiles) {
			name = m.ToonFiles[i]
		}
		e.writeText(name, ToonFileLength)
	}
}

func (e *Exporter) writeRigidBodies(m *Model) {
	w := e.w
	w.WriteUint32(uint32(len(m.RigidBodies)))
	for _, r := range m.RigidBodies {
		e.writeText(r.Name, NameLength)
		w.WriteUint16(r.Bone)
		w.WriteUint8(r.Group)
		w.WriteUint16(r.CollisionMask)
		w.WriteUint8(uint8(r.Shape))
		w.WriteVec3(r.Size)
		w.WriteVec3(r.Position)
		w.WriteVec3(r.Rotation)
		w.WriteVec(r.Mass, r.LinearDamping, r.AngularDamping, r.Restitution, r.Friction)
		w.WriteUint8(uint8(r.Behavior))
	}
}

func (e *Exporter) writeJoints(m *Model) {
	w := e.w
	w.WriteUint32(uint32(len(m.Joints)))
	for _, j := range m.Joints {
		e.writeText(j.Name, NameLength)
		w.WriteUint32(j.RigidA)
		w.WriteUint32(j.RigidB)
		w.WriteVec3(j.Position)
		w.WriteVec3(j.Rotation)
		w.WriteVec3(j.PositionMin)
		w.WriteVec3(j.PositionMax)
		w.WriteVec3(j.RotationMin)
		w.WriteVec3(j.RotationMax)
		w.WriteVec3(j.SpringPosition)
		w.WriteVec3(j.SpringRotation)
	}
}

// toCRLF restores the on-disk line breaks of a description.
func toCRLF(s string) string {
	return strings.ReplaceAll(normalizeNewlines(s), "\n", "\r\n")
}

// Encode serializes m to a byte slice.
func Encode(m *Model) ([]byte, error) {
	var buf bytes.Buffer
	if err := NewExporter(&buf).Export(m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile serializes m to path.
func WriteFile(path string, m *Model) error {
	data, err := Encode(m)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
