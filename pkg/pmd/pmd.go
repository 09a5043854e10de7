// Package pmd implements an event-driven parser and an exporter for the
// PMD (Polygon Model Data) model format.
//
// The Parser reads sections in file order and reports each record to the
// handler registered for that section. Sections without a handler are
// skipped byte-exactly. Builder is a handler that assembles a Model.
package pmd

import "errors"

// Magic is the 7-byte file signature: "Pmd" followed by float32 1.0.
var Magic = [7]byte{0x50, 0x6D, 0x64, 0x00, 0x00, 0x80, 0x3F}

// Version is the only PMD version.
const Version float32 = 1.0

// Fixed field widths in bytes.
const (
	NameLength          = 20
	DescriptionLength   = 256
	TextureLength       = 20
	BoneGroupNameLength = 50
	ToonFileLength      = 100
	ToonCount           = 10
)

// Record sizes in bytes.
const (
	vertexSize      = 38
	surfaceSize     = 6
	materialSize    = 70
	boneSize        = 39
	morphVertexSize = 16
	groupedBoneSize = 3
	rigidBodySize   = 83
	jointSize       = 124
)

// NoBone marks an absent bone reference.
const NoBone uint16 = 0xFFFF

// NoToon marks a material without a toon texture.
const NoToon uint8 = 0xFF

// PMD format errors. Parse failures wrap these together with
// binio.ErrMalformed.
var (
	ErrInvalidMagic = errors.New("invalid PMD magic: expected 'Pmd' v1.0")
	ErrSurfaceCount = errors.New("surface index count not a multiple of 3")
)
