package vmd

import (
	"bytes"
	"io"
	"os"

	"github.com/Faultbox/mmdcodec/pkg/binio"
	"github.com/Faultbox/mmdcodec/pkg/encoding"
)

// Exporter serializes a Motion to VMD bytes.
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

// Export writes m. The camera and lighting sections are written when the
// motion carries them or has keyframes for them; the shadow section only
// follows a lighting section.
func (e *Exporter) Export(m *Motion) error {
	shadow := m.HasShadow || len(m.ShadowMotions) > 0
	lighting := shadow || m.HasLighting || len(m.LuminousMotions) > 0
	camera := lighting || m.HasCamera || len(m.CameraMotions) > 0

	e.exportBasic(m)
	if camera {
		e.exportCamera(m)
	}
	if lighting {
		e.exportLighting(m)
	}
	if shadow {
		e.exportShadow(m)
	}
	if e.err != nil {
		return e.err
	}
	return e.w.Err()
}

func (e *Exporter) writeText(s string, size int) {
	if e.err != nil {
		return
	}
	e.err = e.text.Write(e.w, s, size, nameFiller)
}

// Encode serializes m to a byte slice.
func Encode(m *Motion) ([]byte, error) {
	var buf bytes.Buffer
	if err := NewExporter(&buf).Export(m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile serializes m to path.
func WriteFile(path string, m *Motion) error {
	data, err := Encode(m)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
