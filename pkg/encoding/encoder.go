package encoding

import (
	"errors"
	"fmt"

	"github.com/Faultbox/mmdcodec/pkg/binio"
	"golang.org/x/text/transform"
)

// ErrTextTooLong is returned when encoded text does not fit its field.
var ErrTextTooLong = errors.New("text too long for field")

// TextEncoder encodes strings into fixed-length fields.
type TextEncoder struct {
	codec Codec
}

// NewTextEncoder creates an encoder for codec.
func NewTextEncoder(codec Codec) *TextEncoder {
	return &TextEncoder{codec: codec}
}

// Encode returns s encoded into exactly size bytes. The byte after the text
// is 0x00 and the remainder is filled with filler.
func (e *TextEncoder) Encode(s string, size int, filler byte) ([]byte, error) {
	encoded, _, err := transform.Bytes(e.codec.Encoding.NewEncoder(), []byte(s))
	if err != nil {
		return nil, fmt.Errorf("%w: encoding %q as %s: %v", binio.ErrMalformed, s, e.codec.Name, err)
	}
	if len(encoded) > size {
		return nil, fmt.Errorf("%w: %w: %q needs %d bytes, field holds %d",
			binio.ErrMalformed, ErrTextTooLong, s, len(encoded), size)
	}
	out := make([]byte, size)
	copy(out, encoded)
	for i := len(encoded) + 1; i < size; i++ {
		out[i] = filler
	}
	return out, nil
}

// Write encodes s and writes the field to w.
func (e *TextEncoder) Write(w *binio.Writer, s string, size int, filler byte) error {
	b, err := e.Encode(s, size, filler)
	if err != nil {
		return err
	}
	w.WriteBytes(b)
	return w.Err()
}
