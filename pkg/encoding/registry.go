package encoding

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/unicode"
)

// DefaultName is the encoding used by PMD and VMD text fields.
const DefaultName = "shift_jis"

// ErrUnknownEncoding is returned by Lookup for unregistered names.
var ErrUnknownEncoding = errors.New("unknown text encoding")

// Codec is a registered text encoding.
type Codec struct {
	Name     string
	Encoding encoding.Encoding
	// ZeroSafe is false when 0x00 can occur inside a multi-byte unit,
	// which makes zero-chop decoding unsound.
	ZeroSafe bool
}

var codecs = map[string]Codec{
	"shift_jis":    {Name: "shift_jis", Encoding: japanese.ShiftJIS, ZeroSafe: true},
	"euc-jp":       {Name: "euc-jp", Encoding: japanese.EUCJP, ZeroSafe: true},
	"euc-kr":       {Name: "euc-kr", Encoding: korean.EUCKR, ZeroSafe: true},
	"windows-1252": {Name: "windows-1252", Encoding: charmap.Windows1252, ZeroSafe: true},
	"utf-16le":     {Name: "utf-16le", Encoding: unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM), ZeroSafe: false},
}

var aliases = map[string]string{
	"sjis":        "shift_jis",
	"shift-jis":   "shift_jis",
	"windows-31j": "shift_jis",
	"cp932":       "shift_jis",
	"eucjp":       "euc-jp",
	"euckr":       "euc-kr",
	"cp1252":      "windows-1252",
	"utf16le":     "utf-16le",
}

// Lookup returns the codec registered under name (case-insensitive).
func Lookup(name string) (Codec, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = DefaultName
	}
	if alias, ok := aliases[key]; ok {
		key = alias
	}
	c, ok := codecs[key]
	if !ok {
		return Codec{}, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
	}
	return c, nil
}

// Default returns the Shift_JIS codec.
func Default() Codec {
	return codecs[DefaultName]
}
