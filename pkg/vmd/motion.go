package vmd

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/Faultbox/mmdcodec/pkg/binio"
	"github.com/Faultbox/mmdcodec/pkg/encoding"
	"github.com/tiendc/go-deepcopy"
)

// Motion is a fully assembled VMD file.
type Motion struct {
	ModelName string `yaml:"model_name"`

	BoneMotions  []BoneMotion  `yaml:"bone_motions"`
	MorphMotions []MorphMotion `yaml:"morph_motions"`

	CameraMotions   []CameraMotion   `yaml:"camera_motions,omitempty"`
	LuminousMotions []LuminousMotion `yaml:"luminous_motions,omitempty"`
	ShadowMotions   []ShadowMotion   `yaml:"shadow_motions,omitempty"`

	// Section presence, kept so empty sections survive a round trip.
	HasCamera   bool `yaml:"has_camera"`
	HasLighting bool `yaml:"has_lighting"`
	HasShadow   bool `yaml:"has_shadow"`

	// TrailingData is set when unknown bytes followed the last parsed section.
	TrailingData bool `yaml:"trailing_data,omitempty"`
}

// IsStageAct reports whether the motion targets the camera and lighting.
func (m *Motion) IsStageAct() bool {
	return IsStageActName(m.ModelName)
}

// Clone returns a deep copy of the motion.
func (m *Motion) Clone() (*Motion, error) {
	var dst Motion
	if err := deepcopy.Copy(&dst, m); err != nil {
		return nil, fmt.Errorf("cloning motion: %w", err)
	}
	return &dst, nil
}

// MaxFrame returns the highest frame number of any keyframe.
func (m *Motion) MaxFrame() uint32 {
	var last uint32
	bump := func(f uint32) {
		if f > last {
			last = f
		}
	}
	for _, k := range m.BoneMotions {
		bump(k.Frame)
	}
	for _, k := range m.MorphMotions {
		bump(k.Frame)
	}
	for _, k := range m.CameraMotions {
		bump(k.Frame)
	}
	for _, k := range m.LuminousMotions {
		bump(k.Frame)
	}
	for _, k := range m.ShadowMotions {
		bump(k.Frame)
	}
	return last
}

// BoneNames returns the distinct bone names in keyframe order.
func (m *Motion) BoneNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, k := range m.BoneMotions {
		if !seen[k.Name] {
			seen[k.Name] = true
			names = append(names, k.Name)
		}
	}
	return names
}

// NormalizeRotations rescales bone rotations whose norm drifted more than eps
// from 1 and returns how many keys changed. A zero rotation becomes identity.
func (m *Motion) NormalizeRotations(eps float32) int {
	changed := 0
	for i := range m.BoneMotions {
		k := &m.BoneMotions[i]
		if !k.Rotation.IsUnit(eps) {
			k.Rotation = k.Rotation.Normalize()
			changed++
		}
	}
	return changed
}

// Builder is a Handler that assembles a Motion from parse events.
type Builder struct {
	NopHandler
	motion *Motion
}

var _ Handler = (*Builder)(nil)

// NewBuilder creates a builder with an empty motion.
func NewBuilder() *Builder {
	return &Builder{motion: &Motion{}}
}

// Motion returns the motion assembled so far.
func (b *Builder) Motion() *Motion {
	return b.motion
}

func (b *Builder) LoopStart(s Stage, count int) error {
	m := b.motion
	switch s {
	case StageBoneMotion:
		m.BoneMotions = make([]BoneMotion, 0, binio.CapHint(count))
	case StageMorphMotion:
		m.MorphMotions = make([]MorphMotion, 0, binio.CapHint(count))
	case StageCameraMotion:
		m.HasCamera = true
		m.CameraMotions = make([]CameraMotion, 0, binio.CapHint(count))
	case StageLuminousMotion:
		m.HasLighting = true
		m.LuminousMotions = make([]LuminousMotion, 0, binio.CapHint(count))
	case StageShadowMotion:
		m.HasShadow = true
		m.ShadowMotions = make([]ShadowMotion, 0, binio.CapHint(count))
	}
	return nil
}

func (b *Builder) ParseEnd(hasMoreData bool) error {
	b.motion.TrailingData = hasMoreData
	return nil
}

func (b *Builder) ModelName(name string) error {
	b.motion.ModelName = name
	return nil
}

func (b *Builder) BoneMotion(m BoneMotion) error {
	b.motion.BoneMotions = append(b.motion.BoneMotions, m)
	return nil
}

func (b *Builder) MorphMotion(m MorphMotion) error {
	b.motion.MorphMotions = append(b.motion.MorphMotions, m)
	return nil
}

func (b *Builder) CameraMotion(m CameraMotion) error {
	b.motion.CameraMotions = append(b.motion.CameraMotions, m)
	return nil
}

func (b *Builder) LuminousMotion(m LuminousMotion) error {
	b.motion.LuminousMotions = append(b.motion.LuminousMotions, m)
	return nil
}

func (b *Builder) ShadowMotion(m ShadowMotion) error {
	b.motion.ShadowMotions = append(b.motion.ShadowMotions, m)
	return nil
}

// Options controls ParseReader.
type Options struct {
	// Lenient disables strict mode.
	Lenient bool
	// Codec overrides the Shift_JIS default when its Encoding is set.
	Codec encoding.Codec
}

// ParseReader parses a VMD stream into a Motion.
func ParseReader(r io.Reader, opts Options) (*Motion, error) {
	b := NewBuilder()
	p := NewParser(r)
	p.SetStrictMode(!opts.Lenient)
	if opts.Codec.Encoding != nil {
		if err := p.SetCodec(opts.Codec); err != nil {
			return nil, err
		}
	}
	p.SetHandler(b)
	if err := p.Parse(); err != nil {
		return nil, err
	}
	return b.Motion(), nil
}

// Parse parses strict VMD data from a byte slice.
func Parse(data []byte) (*Motion, error) {
	return ParseReader(bytes.NewReader(data), Options{})
}

// ParseFile parses a VMD file from disk in strict mode.
func ParseFile(path string) (*Motion, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading VMD file: %w", err)
	}
	return Parse(data)
}
