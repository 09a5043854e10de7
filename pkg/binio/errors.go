// Package binio provides little-endian primitive I/O for MMD binary formats.
package binio

import (
	"errors"
	"fmt"
)

// Failure kinds. Every engine error wraps exactly one of these.
var (
	ErrExhausted = errors.New("source exhausted")
	ErrMalformed = errors.New("malformed format")
)

// PosError tags a failure with the absolute byte position where it was detected.
type PosError struct {
	Pos    int64
	Err    error
	Detail string
}

func (e *PosError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%v at position %d", e.Err, e.Pos)
	}
	return fmt.Sprintf("%v at position %d: %s", e.Err, e.Pos, e.Detail)
}

func (e *PosError) Unwrap() error {
	return e.Err
}

// Exhausted returns an ErrExhausted failure tagged at pos.
func Exhausted(pos int64) error {
	return &PosError{Pos: pos, Err: ErrExhausted}
}

// Malformed returns an ErrMalformed failure tagged at pos.
func Malformed(pos int64, format string, args ...any) error {
	return &PosError{Pos: pos, Err: ErrMalformed, Detail: fmt.Sprintf(format, args...)}
}

// MalformedErr tags a more specific sentinel (which should itself describe
// the format violation) at pos, keeping ErrMalformed in the chain.
func MalformedErr(pos int64, cause error) error {
	return &PosError{Pos: pos, Err: fmt.Errorf("%w: %w", ErrMalformed, cause)}
}

// Position reports the tagged position of err, if it carries one.
func Position(err error) (int64, bool) {
	var pe *PosError
	if errors.As(err, &pe) {
		return pe.Pos, true
	}
	return 0, false
}
