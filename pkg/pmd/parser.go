package pmd

import (
	"io"
	"strings"

	"github.com/Faultbox/mmdcodec/pkg/binio"
	"github.com/Faultbox/mmdcodec/pkg/encoding"
)

// Parser reads one PMD stream and reports its contents to handlers.
// A Parser is single-use and must not be shared between goroutines.
type Parser struct {
	cur  *binio.Cursor
	text *encoding.TextDecoder

	basic    BasicHandler
	shape    ShapeHandler
	material MaterialHandler
	bone     BoneHandler
	morph    MorphHandler
	eng      EngHandler
	toon     ToonHandler
	rigid    RigidHandler
	joint    JointHandler

	// Counts later sections depend on.
	boneCount      int
	morphCount     int
	boneGroupCount int
}

// NewParser creates a parser reading Shift_JIS text from r.
func NewParser(r io.Reader) *Parser {
	return &Parser{
		cur:  binio.NewCursor(r),
		text: encoding.NewNameDecoder(),
	}
}

// SetCodec replaces the text encoding used for names. Zero-chop stays
// enabled, so codecs that are not zero-safe are rejected.
func (p *Parser) SetCodec(codec encoding.Codec) error {
	text := encoding.NewTextDecoder(codec)
	if err := text.SetZeroChop(true); err != nil {
		return err
	}
	p.text = text
	return nil
}

// SetTextDecoder replaces the name decoder, including its zero-chop mode.
func (p *Parser) SetTextDecoder(d *encoding.TextDecoder) { p.text = d }

// SetHandler registers h for every section.
func (p *Parser) SetHandler(h Handler) {
	p.basic = h
	p.shape = h
	p.material = h
	p.bone = h
	p.morph = h
	p.eng = h
	p.toon = h
	p.rigid = h
	p.joint = h
}

// SetBasicHandler registers the lifecycle and header handler.
func (p *Parser) SetBasicHandler(h BasicHandler) { p.basic = h }

// SetShapeHandler registers the vertex and surface handler.
func (p *Parser) SetShapeHandler(h ShapeHandler) { p.shape = h }

// SetMaterialHandler registers the material handler.
func (p *Parser) SetMaterialHandler(h MaterialHandler) { p.material = h }

// SetBoneHandler registers the bone, IK and bone group handler.
func (p *Parser) SetBoneHandler(h BoneHandler) { p.bone = h }

// SetMorphHandler registers the morph handler.
func (p *Parser) SetMorphHandler(h MorphHandler) { p.morph = h }

// SetEngHandler registers the English name handler.
func (p *Parser) SetEngHandler(h EngHandler) { p.eng = h }

// SetToonHandler registers the toon texture handler.
func (p *Parser) SetToonHandler(h ToonHandler) { p.toon = h }

// SetRigidHandler registers the rigid body handler.
func (p *Parser) SetRigidHandler(h RigidHandler) { p.rigid = h }

// SetJointHandler registers the joint handler.
func (p *Parser) SetJointHandler(h JointHandler) { p.joint = h }

// Position returns the number of bytes consumed.
func (p *Parser) Position() int64 {
	return p.cur.Position()
}

// section parses one part of the file.
type section func(*Parser) error

// baseSections are present in every PMD file.
var baseSections = []section{
	(*Parser).parseHeader,
	(*Parser).parseModelInfo,
	(*Parser).parseVertexList,
	(*Parser).parseSurfaceList,
	(*Parser).parseMaterialList,
	(*Parser).parseBoneList,
	(*Parser).parseIKList,
	(*Parser).parseMorphList,
	(*Parser).parseMorphOrderList,
	(*Parser).parseBoneGroupList,
	(*Parser).parseGroupedBoneList,
}

// extensionSections were appended to the format over time. Each is read
// only when unread bytes remain after its predecessor.
var extensionSections = []section{
	(*Parser).parseEngList,
	(*Parser).parseToonList,
	(*Parser).parseRigidList,
	(*Parser).parseJointList,
}

// Parse reads the whole stream. The first failure stops the parse; handlers
// keep every event received up to that point.
func (p *Parser) Parse() error {
	basic := p.basicHandler()
	if err := basic.ParseStart(); err != nil {
		return err
	}
	for _, s := range baseSections {
		if err := s(p); err != nil {
			return err
		}
	}
	for _, s := range extensionSections {
		more, err := p.cur.HasMore()
		if err != nil {
			return err
		}
		if !more {
			break
		}
		if err := s(p); err != nil {
			return err
		}
	}
	more, err := p.cur.HasMore()
	if err != nil {
		return err
	}
	return basic.ParseEnd(more)
}

func (p *Parser) basicHandler() BasicHandler {
	if p.basic == nil {
		return NopHandler{}
	}
	return p.basic
}

func (p *Parser) parseHeader() error {
	start := p.cur.Position()
	var magic [len(Magic)]byte
	if err := p.cur.ReadFull(magic[:]); err != nil {
		return err
	}
	if magic != Magic {
		return binio.MalformedErr(start, ErrInvalidMagic)
	}
	return nil
}

func (p *Parser) parseModelInfo() error {
	f := binio.NewFields(p.cur)
	name := f.Text(p.text, NameLength)
	desc := f.Text(p.text, DescriptionLength)
	if err := f.Err(); err != nil {
		return err
	}
	return p.basicHandler().ModelInfo(name, normalizeNewlines(desc))
}

func (p *Parser) parseVertexList() error {
	count, err := p.cur.ReadUint32AsInt64()
	if err != nil {
		return err
	}
	if p.shape == nil {
		return p.cur.Skip(count * vertexSize)
	}
	return loop(p.shape, StageVertex, binio.Count(count), func(int) error {
		f := binio.NewFields(p.cur)
		v := Vertex{
			Position: f.Vec3(),
			Normal:   f.Vec3(),
			UV:       f.Vec2(),
			Bones:    [2]uint16{f.Uint16(), f.Uint16()},
			Weight:   f.Uint8(),
			NoEdge:   f.Bool(),
		}
		if err := f.Err(); err != nil {
			return err
		}
		return p.shape.Vertex(v)
	})
}

func (p *Parser) parseSurfaceList() error {
	start := p.cur.Position()
	indices, err := p.cur.ReadUint32AsInt64()
	if err != nil {
		return err
	}
	if indices%3 != 0 {
		return binio.MalformedErr(start, ErrSurfaceCount)
	}
	count := indices / 3
	if p.shape == nil {
		return p.cur.Skip(count * surfaceSize)
	}
	return loop(p.shape, StageSurface, binio.Count(count), func(int) error {
		f := binio.NewFields(p.cur)
		s := Surface{f.Uint16(), f.Uint16(), f.Uint16()}
		if err := f.Err(); err != nil {
			return err
		}
		return p.shape.Surface(s)
	})
}

func (p *Parser) parseMaterialList() error {
	count, err := p.cur.ReadUint32AsInt64()
	if err != nil {
		return err
	}
	if p.material == nil {
		return p.cur.Skip(count * materialSize)
	}
	return loop(p.material, StageMaterial, binio.Count(count), func(int) error {
		f := binio.NewFields(p.cur)
		m := Material{
			Diffuse:    f.Vec3(),
			Alpha:      f.Float32(),
			Shininess:  f.Float32(),
			Specular:   f.Vec3(),
			Ambient:    f.Vec3(),
			ToonIndex:  f.Uint8(),
			Edge:       f.Bool(),
			IndexCount: f.Uint32(),
		}
		m.Texture, m.SphereMap = SplitShadingFile(f.Text(p.text, TextureLength))
		if err := f.Err(); err != nil {
			return err
		}
		return p.material.Material(m)
	})
}

func (p *Parser) parseBoneList() error {
	count, err := p.cur.ReadUint16AsInt()
	if err != nil {
		return err
	}
	p.boneCount = count
	if p.bone == nil {
		return p.cur.Skip(int64(count) * boneSize)
	}
	return loop(p.bone, StageBone, count, func(int) error {
		f := binio.NewFields(p.cur)
		b := Bone{
			Name:     f.Text(p.text, NameLength),
			Parent:   f.Uint16(),
			Tail:     f.Uint16(),
			Kind:     BoneKind(f.Uint8()),
			IKTarget: f.Uint16(),
			Position: f.Vec3(),
		}
		if err := f.Err(); err != nil {
			return err
		}
		return p.bone.Bone(b)
	})
}

func (p *Parser) parseIKList() error {
	count, err := p.cur.ReadUint16AsInt()
	if err != nil {
		return err
	}
	if p.bone == nil {
		for i := 0; i < count; i++ {
			f := binio.NewFields(p.cur)
			f.Skip(4)
			chain := f.Uint8()
			f.Skip(6 + 2*int64(chain))
			if err := f.Err(); err != nil {
				return err
			}
		}
		return nil
	}
	return loop(p.bone, StageIK, count, func(int) error {
		f := binio.NewFields(p.cur)
		ik := IK{
			Bone:        f.Uint16(),
			Target:      f.Uint16(),
			ChainLength: f.Uint8(),
			Iterations:  f.Uint16(),
			Weight:      f.Float32(),
		}
		if err := f.Err(); err != nil {
			return err
		}
		if err := p.bone.IK(ik); err != nil {
			return err
		}
		return loop(p.bone, StageIKChain, int(ik.ChainLength), func(int) error {
			idx, err := p.cur.ReadUint16()
			if err != nil {
				return err
			}
			return p.bone.IKChain(idx)
		})
	})
}

func (p *Parser) parseMorphList() error {
	count, err := p.cur.ReadUint16AsInt()
	if err != nil {
		return err
	}
	p.morphCount = count
	if p.morph == nil {
		for i := 0; i < count; i++ {
			f := binio.NewFields(p.cur)
			f.Skip(NameLength)
			vertices := f.Uint32()
			f.Skip(1 + int64(vertices)*morphVertexSize)
			if err := f.Err(); err != nil {
				return err
			}
		}
		return nil
	}
	return loop(p.morph, StageMorph, count, func(int) error {
		f := binio.NewFields(p.cur)
		m := Morph{
			Name:        f.Text(p.text, NameLength),
			VertexCount: f.Uint32(),
			Kind:        MorphKind(f.Uint8()),
		}
		if err := f.Err(); err != nil {
			return err
		}
		if err := p.morph.Morph(m); err != nil {
			return err
		}
		return loop(p.morph, StageMorphVertex, binio.Count(int64(m.VertexCount)), func(int) error {
			f := binio.NewFields(p.cur)
			v := MorphVertex{Index: f.Uint32(), Offset: f.Vec3()}
			if err := f.Err(); err != nil {
				return err
			}
			return p.morph.MorphVertex(v)
		})
	})
}

func (p *Parser) parseMorphOrderList() error {
	count, err := p.cur.ReadUint8()
	if err != nil {
		return err
	}
	if p.morph == nil {
		return p.cur.Skip(int64(count) * 2)
	}
	return loop(p.morph, StageMorphOrder, int(count), func(int) error {
		idx, err := p.cur.ReadUint16()
		if err != nil {
			return err
		}
		return p.morph.MorphOrder(idx)
	})
}

func (p *Parser) parseBoneGroupList() error {
	count, err := p.cur.ReadUint8()
	if err != nil {
		return err
	}
	p.boneGroupCount = int(count)
	if p.bone == nil {
		return p.cur.Skip(int64(count) * BoneGroupNameLength)
	}
	return loop(p.bone, StageBoneGroup, int(count), func(int) error {
		name, err := p.text.Decode(p.cur, BoneGroupNameLength)
		if err != nil {
			return err
		}
		return p.bone.BoneGroup(strings.TrimSuffix(name, "\n"))
	})
}

func (p *Parser) parseGroupedBoneList() error {
	count, err := p.cur.ReadUint32AsInt64()
	if err != nil {
		return err
	}
	if p.bone == nil {
		return p.cur.Skip(count * groupedBoneSize)
	}
	return loop(p.bone, StageGroupedBone, binio.Count(count), func(int) error {
		f := binio.NewFields(p.cur)
		g := GroupedBone{Bone: f.Uint16(), Group: f.Uint8()}
		if err := f.Err(); err != nil {
			return err
		}
		return p.bone.GroupedBone(g)
	})
}

// normalizeNewlines converts CRLF line breaks to LF.
func normalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}
