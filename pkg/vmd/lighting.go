package vmd

import "github.com/Faultbox/mmdcodec/pkg/binio"

// parseLighting reads the light keyframes and, when bytes remain, the
// self-shadow keyframes. Older files end before the shadow section.
func (p *Parser) parseLighting() error {
	if err := p.parseLuminousList(); err != nil {
		return err
	}
	more, err := p.cur.HasMore()
	if err != nil || !more {
		return err
	}
	return p.parseShadowList()
}

func (p *Parser) parseLuminousList() error {
	count, err := p.cur.ReadUint32AsInt64()
	if err != nil {
		return err
	}
	if p.lighting == nil {
		return p.cur.Skip(count * luminousMotionSize)
	}
	return loop(p.lighting, StageLuminousMotion, binio.Count(count), func(int) error {
		f := binio.NewFields(p.cur)
		m := LuminousMotion{
			Frame:     f.Uint32(),
			Color:     f.Vec3(),
			Direction: f.Vec3(),
		}
		if err := f.Err(); err != nil {
			return err
		}
		return p.lighting.LuminousMotion(m)
	})
}

func (p *Parser) parseShadowList() error {
	count, err := p.cur.ReadUint32AsInt64()
	if err != nil {
		return err
	}
	if p.lighting == nil {
		return p.cur.Skip(count * shadowMotionSize)
	}
	return loop(p.lighting, StageShadowMotion, binio.Count(count), func(int) error {
		f := binio.NewFields(p.cur)
		m := ShadowMotion{Frame: f.Uint32(), RawMode: f.Uint8()}
		m.Mode = decodeShadowMode(m.RawMode)
		m.Scope = f.Float32()
		if err := f.Err(); err != nil {
			return err
		}
		return p.lighting.ShadowMotion(m)
	})
}

func (e *Exporter) exportLighting(m *Motion) {
	e.w.WriteUint32(uint32(len(m.LuminousMotions)))
	for _, lm := range m.LuminousMotions {
		e.w.WriteUint32(lm.Frame)
		e.w.WriteVec3(lm.Color)
		e.w.WriteVec3(lm.Direction)
	}
}

func (e *Exporter) exportShadow(m *Motion) {
	e.w.WriteUint32(uint32(len(m.ShadowMotions)))
	for _, sm := range m.ShadowMotions {
		e.w.WriteUint32(sm.Frame)
		mode := uint8(sm.Mode)
		if sm.Mode == ShadowUnknown {
			mode = sm.RawMode
		}
		e.w.WriteUint8(mode)
		e.w.WriteFloat32(sm.Scope)
	}
}
