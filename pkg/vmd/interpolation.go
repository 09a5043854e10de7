package vmd

import "fmt"

// Bezier holds the two free control points of a cubic curve whose end
// points are fixed at (0,0) and (127,127).
type Bezier struct {
	P1X, P1Y, P2X, P2Y uint8
}

// LinearBezier is the curve MikuMikuDance writes for linear motion.
var LinearBezier = Bezier{P1X: 20, P1Y: 20, P2X: 107, P2Y: 107}

// BezierMax is the largest valid control point coordinate.
const BezierMax = 127

// Valid reports whether every coordinate lies on the [0,127] grid.
func (b Bezier) Valid() bool {
	return b.P1X <= BezierMax && b.P1Y <= BezierMax && b.P2X <= BezierMax && b.P2Y <= BezierMax
}

// IsLinear reports whether the curve is a straight line.
func (b Bezier) IsLinear() bool {
	return b.P1X == b.P1Y && b.P2X == b.P2Y
}

// Interpolation block sizes in bytes.
const (
	BoneInterpolationSize   = 64
	CameraInterpolationSize = 24

	// boneRowSize is the size of the real data at the start of a bone block.
	boneRowSize = 16
)

// BoneInterpolation holds the curves of a bone keyframe.
type BoneInterpolation struct {
	X, Y, Z, R Bezier
}

// LinearBoneInterpolation uses LinearBezier on every channel.
var LinearBoneInterpolation = BoneInterpolation{
	X: LinearBezier, Y: LinearBezier, Z: LinearBezier, R: LinearBezier,
}

func (ip *BoneInterpolation) channels() [4]*Bezier {
	return [4]*Bezier{&ip.X, &ip.Y, &ip.Z, &ip.R}
}

// Valid reports whether every channel is valid.
func (ip BoneInterpolation) Valid() bool {
	return ip.X.Valid() && ip.Y.Valid() && ip.Z.Valid() && ip.R.Valid()
}

// DecodeBoneInterpolation reads the curves from the first 16 bytes of a
// 64-byte block. Byte c holds P1X of channel c, 4+c P1Y, 8+c P2X and 12+c P2Y.
func DecodeBoneInterpolation(block []byte) BoneInterpolation {
	var ip BoneInterpolation
	for c, b := range ip.channels() {
		b.P1X = block[c]
		b.P1Y = block[4+c]
		b.P2X = block[8+c]
		b.P2Y = block[12+c]
	}
	return ip
}

// EncodeBoneInterpolation writes the full 64-byte block, including the three
// redundant copies, into dst.
func EncodeBoneInterpolation(ip BoneInterpolation, dst []byte) {
	row := dst[:boneRowSize]
	for c, b := range ip.channels() {
		row[c] = b.P1X
		row[4+c] = b.P1Y
		row[8+c] = b.P2X
		row[12+c] = b.P2Y
	}
	for k := 1; k < BoneInterpolationSize/boneRowSize; k++ {
		for i := 0; i < boneRowSize; i++ {
			dst[k*boneRowSize+i] = redundantByte(row, k, i)
		}
	}
}

// redundantByte is byte i of copy k: the real row shifted left by k, then
// 0x01, then zeros.
func redundantByte(row []byte, k, i int) byte {
	switch {
	case i < boneRowSize-k:
		return row[i+k]
	case i == boneRowSize-k:
		return 0x01
	default:
		return 0x00
	}
}

// VerifyBoneInterpolation checks the three redundant copies of a 64-byte
// block against its first 16 bytes.
func VerifyBoneInterpolation(block []byte) error {
	row := block[:boneRowSize]
	for k := 1; k < BoneInterpolationSize/boneRowSize; k++ {
		for i := 0; i < boneRowSize; i++ {
			off := k*boneRowSize + i
			if want := redundantByte(row, k, i); block[off] != want {
				return fmt.Errorf("%w: byte %d is 0x%02X, want 0x%02X", ErrInterpolation, off, block[off], want)
			}
		}
	}
	return nil
}

// CameraInterpolation holds the curves of a camera keyframe.
type CameraInterpolation struct {
	X, Y, Z, R, Range, Angle Bezier
}

// LinearCameraInterpolation uses LinearBezier on every channel.
var LinearCameraInterpolation = CameraInterpolation{
	X: LinearBezier, Y: LinearBezier, Z: LinearBezier,
	R: LinearBezier, Range: LinearBezier, Angle: LinearBezier,
}

func (ip *CameraInterpolation) channels() [6]*Bezier {
	return [6]*Bezier{&ip.X, &ip.Y, &ip.Z, &ip.R, &ip.Range, &ip.Angle}
}

// Valid reports whether every channel is valid.
func (ip CameraInterpolation) Valid() bool {
	for _, b := range ip.channels() {
		if !b.Valid() {
			return false
		}
	}
	return true
}

// DecodeCameraInterpolation reads a 24-byte block where each channel is
// stored as P1X, P2X, P1Y, P2Y.
func DecodeCameraInterpolation(block []byte) CameraInterpolation {
	var ip CameraInterpolation
	for c, b := range ip.channels() {
		b.P1X = block[4*c]
		b.P2X = block[4*c+1]
		b.P1Y = block[4*c+2]
		b.P2Y = block[4*c+3]
	}
	return ip
}

// EncodeCameraInterpolation writes a 24-byte block into dst.
func EncodeCameraInterpolation(ip CameraInterpolation, dst []byte) {
	for c, b := range ip.channels() {
		dst[4*c] = b.P1X
		dst[4*c+1] = b.P2X
		dst[4*c+2] = b.P1Y
		dst[4*c+3] = b.P2Y
	}
}
