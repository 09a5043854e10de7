package encoding

import (
	"bytes"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/Faultbox/mmdcodec/pkg/binio"
	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// maxUTF8PerByte bounds the UTF-8 output produced per source byte for every
// registered codec.
const maxUTF8PerByte = 3

// ErrZeroChopUnsafe is returned when zero-chop is requested for a codec whose
// multi-byte units may contain 0x00.
var ErrZeroChopUnsafe = errors.New("zero-chop unsafe for encoding")

// TextDecoder decodes fixed-length text fields read from a Cursor.
type TextDecoder struct {
	codec    Codec
	dec      *encoding.Decoder
	zeroChop bool
	raw      []byte
	out      []byte
}

// NewTextDecoder creates a decoder for codec with zero-chop disabled.
func NewTextDecoder(codec Codec) *TextDecoder {
	return &TextDecoder{
		codec: codec,
		dec:   codec.Encoding.NewDecoder(),
	}
}

// NewNameDecoder returns a zero-chopping decoder for the default codec, the
// setup both file formats use for their fixed-width names.
func NewNameDecoder() *TextDecoder {
	d := NewTextDecoder(Default())
	d.zeroChop = true
	return d
}

// Codec returns the configured codec.
func (d *TextDecoder) Codec() Codec {
	return d.codec
}

// ZeroChop reports whether zero-chop mode is enabled.
func (d *TextDecoder) ZeroChop() bool {
	return d.zeroChop
}

// SetZeroChop toggles truncation at the first 0x00 byte.
func (d *TextDecoder) SetZeroChop(on bool) error {
	if on && !d.codec.ZeroSafe {
		return fmt.Errorf("%w: %s", ErrZeroChopUnsafe, d.codec.Name)
	}
	d.zeroChop = on
	return nil
}

// Decode reads exactly n bytes from c and decodes them. In zero-chop mode the
// text ends at the first 0x00 but all n bytes are still consumed.
func (d *TextDecoder) Decode(c *binio.Cursor, n int) (string, error) {
	start := c.Position()
	if cap(d.raw) < n {
		d.raw = make([]byte, n)
	}
	raw := d.raw[:n]
	if err := c.ReadFull(raw); err != nil {
		return "", err
	}
	if d.zeroChop {
		if i := bytes.IndexByte(raw, 0); i >= 0 {
			raw = raw[:i]
		}
	}
	return d.DecodeBytes(raw, start)
}

// DecodeBytes decodes src; start is the stream position of src[0] and is
// used to tag failures.
func (d *TextDecoder) DecodeBytes(src []byte, start int64) (string, error) {
	if len(src) == 0 {
		return "", nil
	}
	need := len(src)*maxUTF8PerByte + 1
	if cap(d.out) < need {
		d.out = make([]byte, need)
	}
	dst := d.out[:need]

	d.dec.Reset()
	nDst, nSrc, err := d.dec.Transform(dst, src, true)
	if err != nil {
		return "", binio.Malformed(start+int64(nSrc), "%s decode: %v", d.codec.Name, err)
	}
	out := dst[:nDst]
	if bytes.ContainsRune(out, utf8.RuneError) {
		return "", binio.Malformed(start+int64(d.locate(src)), "unmappable %s sequence", d.codec.Name)
	}
	return string(out), nil
}

// locate returns how many source bytes decode cleanly before the first
// unmappable sequence.
func (d *TextDecoder) locate(src []byte) int {
	d.dec.Reset()
	var buf [utf8.UTFMax]byte
	consumed := 0
	for consumed < len(src) {
		nDst, nSrc, err := d.dec.Transform(buf[:], src[consumed:], true)
		if bytes.ContainsRune(buf[:nDst], utf8.RuneError) {
			return consumed
		}
		consumed += nSrc
		if nSrc == 0 || (err != nil && err != transform.ErrShortDst) {
			break
		}
	}
	return consumed
}
