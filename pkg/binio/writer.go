package binio

import (
	"encoding/binary"
	"io"
	"math"

	mmath "github.com/Faultbox/mmdcodec/pkg/math"
)

// Writer is the little-endian counterpart of Cursor used by exporters.
// The first write error is kept and every later write becomes a no-op,
// so callers may check Err once after a batch of writes.
type Writer struct {
	dst     io.Writer
	pos     int64
	err     error
	scratch [8]byte
}

// NewWriter wraps dst.
func NewWriter(dst io.Writer) *Writer {
	return &Writer{dst: dst}
}

// Position returns the number of bytes written so far.
func (w *Writer) Position() int64 {
	return w.pos
}

// Err returns the first error encountered.
func (w *Writer) Err() error {
	return w.err
}

// WriteBytes writes b as-is.
func (w *Writer) WriteBytes(b []byte) {
	if w.err != nil || len(b) == 0 {
		return
	}
	n, err := w.dst.Write(b)
	w.pos += int64(n)
	if err == nil && n < len(b) {
		err = io.ErrShortWrite
	}
	w.err = err
}

// WriteUint8 writes one byte.
func (w *Writer) WriteUint8(v uint8) {
	w.scratch[0] = v
	w.WriteBytes(w.scratch[:1])
}

// WriteBool writes 0x01 for true and 0x00 for false.
func (w *Writer) WriteBool(v bool) {
	if v {
		w.WriteUint8(1)
		return
	}
	w.WriteUint8(0)
}

// WriteUint16 writes a little-endian 16-bit value.
func (w *Writer) WriteUint16(v uint16) {
	binary.LittleEndian.PutUint16(w.scratch[:2], v)
	w.WriteBytes(w.scratch[:2])
}

// WriteInt16 writes a little-endian signed 16-bit value.
func (w *Writer) WriteInt16(v int16) {
	w.WriteUint16(uint16(v))
}

// WriteUint32 writes a little-endian 32-bit value.
func (w *Writer) WriteUint32(v uint32) {
	binary.LittleEndian.PutUint32(w.scratch[:4], v)
	w.WriteBytes(w.scratch[:4])
}

// WriteInt32 writes a little-endian signed 32-bit value.
func (w *Writer) WriteInt32(v int32) {
	w.WriteUint32(uint32(v))
}

// WriteFloat32 writes a little-endian IEEE-754 single.
func (w *Writer) WriteFloat32(v float32) {
	w.WriteUint32(math.Float32bits(v))
}

// WriteVec writes each float of v in order.
func (w *Writer) WriteVec(v ...float32) {
	for _, f := range v {
		w.WriteFloat32(f)
	}
}

// WriteVec2 writes X, Y.
func (w *Writer) WriteVec2(v mmath.Vec2) {
	w.WriteVec(v.X, v.Y)
}

// WriteVec3 writes X, Y, Z.
func (w *Writer) WriteVec3(v mmath.Vec3) {
	w.WriteVec(v.X, v.Y, v.Z)
}

// WriteQuat writes X, Y, Z, W.
func (w *Writer) WriteQuat(q mmath.Quat) {
	w.WriteVec(q.X, q.Y, q.Z, q.W)
}
