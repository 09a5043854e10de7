package encoding

import (
	"bytes"
	"errors"
	"testing"

	"github.com/Faultbox/mmdcodec/pkg/binio"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{"", "shift_jis", false},
		{"Shift_JIS", "shift_jis", false},
		{"cp932", "shift_jis", false},
		{"EUC-KR", "euc-kr", false},
		{"windows-1252", "windows-1252", false},
		{"utf16le", "utf-16le", false},
		{"klingon", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Lookup(tt.name)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownEncoding) {
					t.Errorf("expected ErrUnknownEncoding, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if c.Name != tt.want {
				t.Errorf("got %s, want %s", c.Name, tt.want)
			}
		})
	}
}

func TestTextEncoder_Encode(t *testing.T) {
	e := NewTextEncoder(Default())

	got, err := e.Encode("AB", 6, 0xFD)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{'A', 'B', 0x00, 0xFD, 0xFD, 0xFD}
	if !bytes.Equal(got, want) {
		t.Errorf("got % X, want % X", got, want)
	}

	got, err = e.Encode("センター", 8, 0x00)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, []byte{0x83, 0x5A, 0x83, 0x93, 0x83, 0x5E, 0x81, 0x5B}) {
		t.Errorf("exact-fit field = % X", got)
	}
}

func TestTextEncoder_TooLong(t *testing.T) {
	e := NewTextEncoder(Default())
	_, err := e.Encode("abcdef", 5, 0)
	if !errors.Is(err, ErrTextTooLong) || !errors.Is(err, binio.ErrMalformed) {
		t.Errorf("expected ErrTextTooLong wrapped in ErrMalformed, got %v", err)
	}
}

func TestTextEncoder_Unmappable(t *testing.T) {
	e := NewTextEncoder(Default())
	if _, err := e.Encode("😀", 20, 0); !errors.Is(err, binio.ErrMalformed) {
		t.Errorf("expected ErrMalformed for emoji, got %v", err)
	}
}

func TestNormalizeAssetPath(t *testing.T) {
	if got := NormalizeAssetPath(`Tex\Face.BMP`); got != "tex/face.bmp" {
		t.Errorf("got %q", got)
	}
}
