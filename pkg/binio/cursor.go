package binio

import (
	"encoding/binary"
	"io"
	"math"
)

// Cursor is a forward-only reader over a byte source that tracks its
// absolute position and supports one byte of lookahead.
//
// A Cursor and its scratch buffer belong to one parse at a time.
type Cursor struct {
	src     io.Reader
	pos     int64
	peeked  bool
	pending byte
	scratch [8]byte
	skipBuf []byte
}

// NewCursor wraps src.
func NewCursor(src io.Reader) *Cursor {
	return &Cursor{src: src}
}

// Position returns the number of bytes consumed so far.
func (c *Cursor) Position() int64 {
	return c.pos
}

// HasMore reports whether at least one more byte can be read.
// The peeked byte is not consumed.
func (c *Cursor) HasMore() (bool, error) {
	if c.peeked {
		return true, nil
	}
	var one [1]byte
	for {
		n, err := c.src.Read(one[:])
		if n == 1 {
			c.pending = one[0]
			c.peeked = true
			return true, nil
		}
		if err == io.EOF {
			return false, nil
		}
		if err != nil {
			return false, err
		}
	}
}

// Skip advances exactly n bytes.
func (c *Cursor) Skip(n int64) error {
	if n <= 0 {
		return nil
	}
	if s, ok := c.src.(io.Seeker); ok && !c.peeked {
		if skipped, err := c.seekSkip(s, n); err == nil {
			c.pos += skipped
			if skipped < n {
				return Exhausted(c.pos)
			}
			return nil
		}
	}
	if c.skipBuf == nil {
		c.skipBuf = make([]byte, 4096)
	}
	for n > 0 {
		chunk := int64(len(c.skipBuf))
		if n < chunk {
			chunk = n
		}
		if err := c.ReadFull(c.skipBuf[:chunk]); err != nil {
			return err
		}
		n -= chunk
	}
	return nil
}

// seekSkip moves a seekable source forward, clamping to its end.
func (c *Cursor) seekSkip(s io.Seeker, n int64) (int64, error) {
	cur, err := s.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, err
	}
	end, err := s.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, err
	}
	target := cur + n
	if target > end {
		target = end
	}
	if _, err := s.Seek(target, io.SeekStart); err != nil {
		return 0, err
	}
	return target - cur, nil
}

// ReadFull fills buf completely, retrying short reads.
func (c *Cursor) ReadFull(buf []byte) error {
	if len(buf) == 0 {
		return nil
	}
	off := 0
	if c.peeked {
		buf[0] = c.pending
		c.peeked = false
		c.pos++
		off = 1
	}
	for off < len(buf) {
		n, err := c.src.Read(buf[off:])
		off += n
		c.pos += int64(n)
		if off == len(buf) {
			break
		}
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return Exhausted(c.pos)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// ReadBytes reads exactly n bytes into a new slice.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if err := c.ReadFull(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func (c *Cursor) fill(n int) ([]byte, error) {
	b := c.scratch[:n]
	if err := c.ReadFull(b); err != nil {
		return nil, err
	}
	return b, nil
}

// ReadUint8 reads one unsigned byte.
func (c *Cursor) ReadUint8() (uint8, error) {
	b, err := c.fill(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadInt8 reads one signed byte.
func (c *Cursor) ReadInt8() (int8, error) {
	v, err := c.ReadUint8()
	return int8(v), err
}

// ReadBool reads one byte; 0x00 is false and anything else true.
func (c *Cursor) ReadBool() (bool, error) {
	v, err := c.ReadUint8()
	return v != 0, err
}

// ReadInt16 reads a little-endian signed 16-bit integer.
func (c *Cursor) ReadInt16() (int16, error) {
	b, err := c.fill(2)
	if err != nil {
		return 0, err
	}
	return int16(binary.LittleEndian.Uint16(b)), nil
}

// ReadUint16 reads a little-endian 16-bit value without sign extension.
func (c *Cursor) ReadUint16() (uint16, error) {
	b, err := c.fill(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// ReadUint16AsInt reads a 16-bit value widened to int, never negative.
func (c *Cursor) ReadUint16AsInt() (int, error) {
	v, err := c.ReadUint16()
	return int(v), err
}

// ReadInt32 reads a little-endian signed 32-bit integer.
func (c *Cursor) ReadInt32() (int32, error) {
	b, err := c.fill(4)
	if err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(b)), nil
}

// ReadUint32 reads a little-endian 32-bit value without sign extension.
func (c *Cursor) ReadUint32() (uint32, error) {
	b, err := c.fill(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// ReadUint32AsInt64 reads a 32-bit value widened to int64, never negative.
func (c *Cursor) ReadUint32AsInt64() (int64, error) {
	v, err := c.ReadUint32()
	return int64(v), err
}

// ReadFloat32 reads a little-endian IEEE-754 single.
func (c *Cursor) ReadFloat32() (float32, error) {
	b, err := c.fill(4)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(b)), nil
}

// ReadVec reads len(dst) consecutive floats into dst.
func (c *Cursor) ReadVec(dst []float32) error {
	for i := range dst {
		v, err := c.ReadFloat32()
		if err != nil {
			return err
		}
		dst[i] = v
	}
	return nil
}
