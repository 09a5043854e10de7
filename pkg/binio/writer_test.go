package binio

import (
	"bytes"
	"errors"
	"testing"
)

func TestWriter_LittleEndian(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.WriteUint8(0xAB)
	w.WriteBool(true)
	w.WriteBool(false)
	w.WriteInt16(-2)
	w.WriteUint16(0x1234)
	w.WriteInt32(-1)
	w.WriteUint32(0x01020304)
	w.WriteFloat32(1.0)
	if err := w.Err(); err != nil {
		t.Fatal(err)
	}

	want := []byte{
		0xAB, 0x01, 0x00,
		0xFE, 0xFF,
		0x34, 0x12,
		0xFF, 0xFF, 0xFF, 0xFF,
		0x04, 0x03, 0x02, 0x01,
		0x00, 0x00, 0x80, 0x3F,
	}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("got % X\nwant % X", buf.Bytes(), want)
	}
	if w.Position() != int64(len(want)) {
		t.Errorf("Position = %d, want %d", w.Position(), len(want))
	}
}

type failWriter struct{ n int }

var errDisk = errors.New("disk full")

func (f *failWriter) Write(p []byte) (int, error) {
	f.n++
	return 0, errDisk
}

func TestWriter_StickyError(t *testing.T) {
	fw := &failWriter{}
	w := NewWriter(fw)
	w.WriteUint32(1)
	w.WriteUint32(2)
	w.WriteBytes([]byte("abc"))
	if !errors.Is(w.Err(), errDisk) {
		t.Errorf("expected sticky error, got %v", w.Err())
	}
	if fw.n != 1 {
		t.Errorf("writes after failure should be skipped, got %d calls", fw.n)
	}
}

func TestPosError(t *testing.T) {
	err := Malformed(42, "bad %s", "thing")
	if !errors.Is(err, ErrMalformed) {
		t.Error("Malformed should wrap ErrMalformed")
	}
	if errors.Is(err, ErrExhausted) {
		t.Error("Malformed should not match ErrExhausted")
	}
	if got := err.Error(); got != "malformed format at position 42: bad thing" {
		t.Errorf("Error() = %q", got)
	}

	cause := errors.New("invalid magic")
	err = MalformedErr(7, cause)
	if !errors.Is(err, ErrMalformed) || !errors.Is(err, cause) {
		t.Errorf("MalformedErr should match both kind and cause: %v", err)
	}
	if pos, ok := Position(err); !ok || pos != 7 {
		t.Errorf("Position = %d, %v", pos, ok)
	}
}
