// Package vmd implements an event-driven parser and an exporter for the
// VMD (Vocaloid Motion Data) keyframe format.
//
// A file holds bone and morph keyframes for one model, or camera and
// lighting keyframes for the stage. Three sub-parsers share one cursor:
// basic (bone and morph motions), camera, and lighting (luminous and
// shadow). Each has a matching sub-exporter.
package vmd

import "errors"

// Magic is the signature at the start of the 30-byte header field.
const Magic = "Vocaloid Motion Data 0002"

// StageActName is the model name of camera and lighting motion files.
const StageActName = "カメラ・照明"

// Fixed field widths in bytes.
const (
	HeaderLength    = 30
	ModelNameLength = 20
	NameLength      = 15
)

// Record sizes in bytes.
const (
	boneMotionSize     = 111
	morphMotionSize    = 23
	cameraMotionSize   = 61
	luminousMotionSize = 28
	shadowMotionSize   = 9
)

// nameFiller pads name fields after the terminating zero byte.
const nameFiller byte = 0xFD

// VMD format errors. Parse failures wrap these together with
// binio.ErrMalformed.
var (
	ErrInvalidMagic  = errors.New("invalid VMD magic: expected 'Vocaloid Motion Data 0002'")
	ErrInterpolation = errors.New("interpolation copies do not match")
)

// IsStageActName reports whether name marks a camera and lighting motion.
func IsStageActName(name string) bool {
	return name == StageActName
}
