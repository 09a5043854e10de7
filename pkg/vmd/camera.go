package vmd

import "github.com/Faultbox/mmdcodec/pkg/binio"

func (p *Parser) parseCamera() error {
	count, err := p.cur.ReadUint32AsInt64()
	if err != nil {
		return err
	}
	if p.camera == nil {
		return p.cur.Skip(count * cameraMotionSize)
	}
	var block [CameraInterpolationSize]byte
	return loop(p.camera, StageCameraMotion, binio.Count(count), func(int) error {
		f := binio.NewFields(p.cur)
		m := CameraMotion{
			Frame:    f.Uint32(),
			Range:    f.Float32(),
			Target:   f.Vec3(),
			Rotation: f.Vec3(),
		}
		f.Bytes(block[:])
		m.Angle = f.Uint32()
		m.Perspective = !f.Bool()
		if err := f.Err(); err != nil {
			return err
		}
		m.Interpolation = DecodeCameraInterpolation(block[:])
		return p.camera.CameraMotion(m)
	})
}

func (e *Exporter) exportCamera(m *Motion) {
	e.w.WriteUint32(uint32(len(m.CameraMotions)))
	var block [CameraInterpolationSize]byte
	for _, cm := range m.CameraMotions {
		e.w.WriteUint32(cm.Frame)
		e.w.WriteFloat32(cm.Range)
		e.w.WriteVec3(cm.Target)
		e.w.WriteVec3(cm.Rotation)
		EncodeCameraInterpolation(cm.Interpolation, block[:])
		e.w.WriteBytes(block[:])
		e.w.WriteUint32(cm.Angle)
		// Stored inverted: 0 means perspective is on.
		e.w.WriteBool(!cm.Perspective)
	}
}
