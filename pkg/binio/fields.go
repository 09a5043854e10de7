package binio

import "github.com/Faultbox/mmdcodec/pkg/math"

// TextSource decodes a fixed-length text field from a Cursor.
type TextSource interface {
	Decode(c *Cursor, n int) (string, error)
}

// Fields reads a run of record fields, keeping the first error. Once an
// error is recorded every later read returns a zero value without touching
// the cursor, so the error keeps the position where it was detected.
type Fields struct {
	c   *Cursor
	err error
}

// NewFields starts a field run on c.
func NewFields(c *Cursor) *Fields {
	return &Fields{c: c}
}

// Err returns the first error encountered.
func (f *Fields) Err() error {
	return f.err
}

// Uint8 reads one byte.
func (f *Fields) Uint8() uint8 {
	if f.err != nil {
		return 0
	}
	v, err := f.c.ReadUint8()
	f.err = err
	return v
}

// Bool reads one boolean byte.
func (f *Fields) Bool() bool {
	return f.Uint8() != 0
}

// Uint16 reads a 16-bit value.
func (f *Fields) Uint16() uint16 {
	if f.err != nil {
		return 0
	}
	v, err := f.c.ReadUint16()
	f.err = err
	return v
}

// Uint32 reads a 32-bit value.
func (f *Fields) Uint32() uint32 {
	if f.err != nil {
		return 0
	}
	v, err := f.c.ReadUint32()
	f.err = err
	return v
}

// Float32 reads a single-precision float.
func (f *Fields) Float32() float32 {
	if f.err != nil {
		return 0
	}
	v, err := f.c.ReadFloat32()
	f.err = err
	return v
}

// Vec2 reads two floats.
func (f *Fields) Vec2() math.Vec2 {
	return math.Vec2{X: f.Float32(), Y: f.Float32()}
}

// Vec3 reads three floats.
func (f *Fields) Vec3() math.Vec3 {
	return math.Vec3{X: f.Float32(), Y: f.Float32(), Z: f.Float32()}
}

// Quat reads four floats in X, Y, Z, W order.
func (f *Fields) Quat() math.Quat {
	return math.Quat{X: f.Float32(), Y: f.Float32(), Z: f.Float32(), W: f.Float32()}
}

// Bytes fills dst.
func (f *Fields) Bytes(dst []byte) {
	if f.err != nil {
		return
	}
	f.err = f.c.ReadFull(dst)
}

// Text decodes an n-byte text field.
func (f *Fields) Text(src TextSource, n int) string {
	if f.err != nil {
		return ""
	}
	s, err := src.Decode(f.c, n)
	f.err = err
	return s
}

// Skip advances n bytes.
func (f *Fields) Skip(n int64) {
	if f.err != nil {
		return
	}
	f.err = f.c.Skip(n)
}
