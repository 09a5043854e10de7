package vmd

import (
	"io"

	"github.com/Faultbox/mmdcodec/pkg/binio"
	"github.com/Faultbox/mmdcodec/pkg/encoding"
)

// Parser reads one VMD stream and reports its contents to handlers.
// A Parser is single-use and must not be shared between goroutines.
type Parser struct {
	cur    *binio.Cursor
	text   *encoding.TextDecoder
	strict bool

	basic    BasicHandler
	camera   CameraHandler
	lighting LightingHandler
}

// NewParser creates a strict parser reading Shift_JIS text from r.
func NewParser(r io.Reader) *Parser {
	return &Parser{
		cur:    binio.NewCursor(r),
		text:   encoding.NewNameDecoder(),
		strict: true,
	}
}

// SetStrictMode toggles verification of the redundant interpolation copies.
// Strict mode also reads camera and lighting sections of model motions.
func (p *Parser) SetStrictMode(on bool) { p.strict = on }

// StrictMode reports whether strict mode is enabled.
func (p *Parser) StrictMode() bool { return p.strict }

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
	p.camera = h
	p.lighting = h
}

// SetBasicHandler registers the lifecycle, bone and morph handler.
func (p *Parser) SetBasicHandler(h BasicHandler) { p.basic = h }

// SetCameraHandler registers the camera handler.
func (p *Parser) SetCameraHandler(h CameraHandler) { p.camera = h }

// SetLightingHandler registers the light and shadow handler.
func (p *Parser) SetLightingHandler(h LightingHandler) { p.lighting = h }

// Position returns the number of bytes consumed.
func (p *Parser) Position() int64 {
	return p.cur.Position()
}

// Parse reads the whole stream. The first failure stops the parse; handlers
// keep every event received up to that point.
//
// Camera and lighting sections are read for stage act files, and for every
// file in strict mode since some model motion producers write them anyway.
// Each is read only when unread bytes remain.
func (p *Parser) Parse() error {
	basic := p.basicHandler()
	if err := basic.ParseStart(); err != nil {
		return err
	}
	name, err := p.parseBasic()
	if err != nil {
		return err
	}
	if p.strict || IsStageActName(name) {
		for _, parse := range []func() error{p.parseCamera, p.parseLighting} {
			more, err := p.cur.HasMore()
			if err != nil {
				return err
			}
			if !more {
				break
			}
			if err := parse(); err != nil {
				return err
			}
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
	var header [HeaderLength]byte
	if err := p.cur.ReadFull(header[:]); err != nil {
		return err
	}
	if string(header[:len(Magic)]) != Magic || header[len(Magic)] != 0 {
		return binio.MalformedErr(start, ErrInvalidMagic)
	}
	return nil
}
