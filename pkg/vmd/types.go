package vmd

import (
	"fmt"

	"github.com/Faultbox/mmdcodec/pkg/math"
)

// BoneMotion is one bone keyframe.
type BoneMotion struct {
	Name          string
	Frame         uint32
	Position      math.Vec3
	Rotation      math.Quat
	Interpolation BoneInterpolation
}

// MorphMotion is one morph weight keyframe.
type MorphMotion struct {
	Name   string
	Frame  uint32
	Weight float32
}

// CameraMotion is one camera keyframe.
type CameraMotion struct {
	Frame uint32
	// Range is the raw distance to the target. Negative values place the
	// camera in front of the target.
	Range         float32
	Target        math.Vec3
	Rotation      math.Vec3 // Latitude, longitude, roll in radians
	Interpolation CameraInterpolation
	Angle         uint32 // Vertical field of view in degrees
	Perspective   bool
}

// LuminousMotion is one directional light keyframe.
type LuminousMotion struct {
	Frame     uint32
	Color     math.Vec3
	Direction math.Vec3
}

// ShadowMode is the self-shadow mode of a shadow keyframe.
type ShadowMode uint8

const (
	ShadowNone    ShadowMode = 0
	ShadowMode1   ShadowMode = 1
	ShadowMode2   ShadowMode = 2
	ShadowUnknown ShadowMode = 0xFF
)

// decodeShadowMode maps unrecognized bytes to ShadowUnknown.
func decodeShadowMode(b uint8) ShadowMode {
	switch m := ShadowMode(b); m {
	case ShadowNone, ShadowMode1, ShadowMode2:
		return m
	default:
		return ShadowUnknown
	}
}

func (m ShadowMode) String() string {
	switch m {
	case ShadowNone:
		return "None"
	case ShadowMode1:
		return "Mode1"
	case ShadowMode2:
		return "Mode2"
	case ShadowUnknown:
		return "Unknown"
	default:
		return fmt.Sprintf("ShadowMode(%d)", uint8(m))
	}
}

// ShadowMotion is one self-shadow keyframe.
type ShadowMotion struct {
	Frame uint32
	Mode  ShadowMode
	// RawMode is the mode byte as stored, kept so unknown modes survive
	// export.
	RawMode uint8
	// Scope is the raw shadow range parameter.
	Scope float32
}
