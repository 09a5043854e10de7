package vmd

import "github.com/Faultbox/mmdcodec/pkg/binio"

// parseBasic reads the header, the model name and the bone and morph
// keyframes. The model name is returned for the stage act decision.
func (p *Parser) parseBasic() (string, error) {
	if err := p.parseHeader(); err != nil {
		return "", err
	}
	name, err := p.text.Decode(p.cur, ModelNameLength)
	if err != nil {
		return "", err
	}
	if err := p.basicHandler().ModelName(name); err != nil {
		return "", err
	}
	if err := p.parseBoneMotionList(); err != nil {
		return "", err
	}
	if err := p.parseMorphMotionList(); err != nil {
		return "", err
	}
	return name, nil
}

func (p *Parser) parseBoneMotionList() error {
	count, err := p.cur.ReadUint32AsInt64()
	if err != nil {
		return err
	}
	if p.basic == nil {
		return p.cur.Skip(count * boneMotionSize)
	}
	var block [BoneInterpolationSize]byte
	return loop(p.basic, StageBoneMotion, binio.Count(count), func(int) error {
		f := binio.NewFields(p.cur)
		m := BoneMotion{
			Name:     f.Text(p.text, NameLength),
			Frame:    f.Uint32(),
			Position: f.Vec3(),
			Rotation: f.Quat(),
		}
		if err := f.Err(); err != nil {
			return err
		}
		start := p.cur.Position()
		if err := p.cur.ReadFull(block[:]); err != nil {
			return err
		}
		if p.strict {
			if err := VerifyBoneInterpolation(block[:]); err != nil {
				return binio.MalformedErr(start, err)
			}
		}
		m.Interpolation = DecodeBoneInterpolation(block[:])
		return p.basic.BoneMotion(m)
	})
}

func (p *Parser) parseMorphMotionList() error {
	count, err := p.cur.ReadUint32AsInt64()
	if err != nil {
		return err
	}
	if p.basic == nil {
		return p.cur.Skip(count * morphMotionSize)
	}
	return loop(p.basic, StageMorphMotion, binio.Count(count), func(int) error {
		f := binio.NewFields(p.cur)
		m := MorphMotion{
			Name:   f.Text(p.text, NameLength),
			Frame:  f.Uint32(),
			Weight: f.Float32(),
		}
		if err := f.Err(); err != nil {
			return err
		}
		return p.basic.MorphMotion(m)
	})
}

func (e *Exporter) exportBasic(m *Motion) {
	e.w.WriteBytes(header())
	e.writeText(m.ModelName, ModelNameLength)

	e.w.WriteUint32(uint32(len(m.BoneMotions)))
	var block [BoneInterpolationSize]byte
	for _, bm := range m.BoneMotions {
		e.writeText(bm.Name, NameLength)
		e.w.WriteUint32(bm.Frame)
		e.w.WriteVec3(bm.Position)
		e.w.WriteQuat(bm.Rotation)
		EncodeBoneInterpolation(bm.Interpolation, block[:])
		e.w.WriteBytes(block[:])
	}

	e.w.WriteUint32(uint32(len(m.MorphMotions)))
	for _, mm := range m.MorphMotions {
		e.writeText(mm.Name, NameLength)
		e.w.WriteUint32(mm.Frame)
		e.w.WriteFloat32(mm.Weight)
	}
}

// header returns the 30-byte signature field.
func header() []byte {
	b := make([]byte, HeaderLength)
	copy(b, Magic)
	return b
}
