package pmd

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/Faultbox/mmdcodec/pkg/binio"
	"github.com/Faultbox/mmdcodec/pkg/stage"
	"github.com/tiendc/go-deepcopy"
)

// ModelBone is a bone with its optional English name.
type ModelBone struct {
	Bone    `yaml:",inline"`
	EngName string `yaml:"eng_name,omitempty"`
}

// ModelIK is an IK entry with its chain.
type ModelIK struct {
	IK    `yaml:",inline"`
	Chain []uint16 `yaml:"chain"`
}

// ModelMorph is a morph with its vertex displacements.
type ModelMorph struct {
	Morph    `yaml:",inline"`
	EngName  string        `yaml:"eng_name,omitempty"`
	Vertices []MorphVertex `yaml:"vertices"`
}

// BoneGroup is a named bone display group.
type BoneGroup struct {
	Name    string `yaml:"name"`
	EngName string `yaml:"eng_name,omitempty"`
}

// Model is a fully assembled PMD file.
type Model struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`

	Vertices  []Vertex   `yaml:"vertices"`
	Surfaces  []Surface  `yaml:"surfaces"`
	Materials []Material `yaml:"materials"`

	Bones        []ModelBone   `yaml:"bones"`
	IKs          []ModelIK     `yaml:"iks"`
	Morphs       []ModelMorph  `yaml:"morphs"`
	MorphOrder   []uint16      `yaml:"morph_order"`
	BoneGroups   []BoneGroup   `yaml:"bone_groups"`
	GroupedBones []GroupedBone `yaml:"grouped_bones"`

	// HasEnglish is set when the file carries English names.
	HasEnglish     bool   `yaml:"has_english"`
	EngName        string `yaml:"eng_name,omitempty"`
	EngDescription string `yaml:"eng_description,omitempty"`

	ToonFiles   []string    `yaml:"toon_files"`
	RigidBodies []RigidBody `yaml:"rigid_bodies"`
	Joints      []Joint     `yaml:"joints"`

	// TrailingData is set when unknown bytes followed the last section.
	TrailingData bool `yaml:"trailing_data,omitempty"`
}

// Clone returns a deep copy of the model.
func (m *Model) Clone() (*Model, error) {
	var dst Model
	if err := deepcopy.Copy(&dst, m); err != nil {
		return nil, fmt.Errorf("cloning model: %w", err)
	}
	return &dst, nil
}

// BoneIndex returns the index of the first bone named name, or -1.
func (m *Model) BoneIndex(name string) int {
	for i := range m.Bones {
		if m.Bones[i].Name == name {
			return i
		}
	}
	return -1
}

// MorphIndex returns the index of the first morph named name, or -1.
func (m *Model) MorphIndex(name string) int {
	for i := range m.Morphs {
		if m.Morphs[i].Name == name {
			return i
		}
	}
	return -1
}

// Builder is a Handler that assembles a Model from parse events.
type Builder struct {
	stage.Counter[Stage]
	model *Model
}

var _ Handler = (*Builder)(nil)

// NewBuilder creates a builder with an empty model.
func NewBuilder() *Builder {
	return &Builder{model: &Model{}}
}

// Model returns the model assembled so far. After a failed parse it holds
// everything received before the failure.
func (b *Builder) Model() *Model {
	return b.model
}

func (b *Builder) LoopStart(s Stage, count int) error {
	b.Start(s)
	if count < 0 {
		return nil
	}
	m := b.model
	switch s {
	case StageVertex:
		m.Vertices = make([]Vertex, 0, binio.CapHint(count))
	case StageSurface:
		m.Surfaces = make([]Surface, 0, binio.CapHint(count))
	case StageMaterial:
		m.Materials = make([]Material, 0, binio.CapHint(count))
	case StageBone:
		m.Bones = make([]ModelBone, 0, binio.CapHint(count))
	case StageIK:
		m.IKs = make([]ModelIK, 0, binio.CapHint(count))
	case StageIKChain:
		if n := len(m.IKs); n > 0 {
			m.IKs[n-1].Chain = make([]uint16, 0, binio.CapHint(count))
		}
	case StageMorph:
		m.Morphs = make([]ModelMorph, 0, binio.CapHint(count))
	case StageMorphVertex:
		if n := len(m.Morphs); n > 0 {
			m.Morphs[n-1].Vertices = make([]MorphVertex, 0, binio.CapHint(count))
		}
	case StageMorphOrder:
		m.MorphOrder = make([]uint16, 0, binio.CapHint(count))
	case StageBoneGroup:
		m.BoneGroups = make([]BoneGroup, 0, binio.CapHint(count))
	case StageGroupedBone:
		m.GroupedBones = make([]GroupedBone, 0, binio.CapHint(count))
	case StageToon:
		m.ToonFiles = make([]string, 0, binio.CapHint(count))
	case StageRigidBody:
		m.RigidBodies = make([]RigidBody, 0, binio.CapHint(count))
	case StageJoint:
		m.Joints = make([]Joint, 0, binio.CapHint(count))
	}
	return nil
}

func (b *Builder) LoopNext(s Stage) error {
	b.Next(s)
	return nil
}

func (b *Builder) LoopEnd(Stage) error { return nil }

func (b *Builder) ParseStart() error { return nil }

func (b *Builder) ParseEnd(hasMoreData bool) error {
	b.model.TrailingData = hasMoreData
	return nil
}

func (b *Builder) ModelInfo(name, description string) error {
	b.model.Name = name
	b.model.Description = description
	return nil
}

func (b *Builder) Vertex(v Vertex) error {
	b.model.Vertices = append(b.model.Vertices, v)
	return nil
}

func (b *Builder) Surface(s Surface) error {
	b.model.Surfaces = append(b.model.Surfaces, s)
	return nil
}

func (b *Builder) Material(m Material) error {
	b.model.Materials = append(b.model.Materials, m)
	return nil
}

func (b *Builder) Bone(bone Bone) error {
	b.model.Bones = append(b.model.Bones, ModelBone{Bone: bone})
	return nil
}

func (b *Builder) IK(ik IK) error {
	b.model.IKs = append(b.model.IKs, ModelIK{IK: ik})
	return nil
}

func (b *Builder) IKChain(bone uint16) error {
	n := len(b.model.IKs)
	if n == 0 {
		return fmt.Errorf("%w: ik chain outside ik entry", binio.ErrMalformed)
	}
	b.model.IKs[n-1].Chain = append(b.model.IKs[n-1].Chain, bone)
	return nil
}

func (b *Builder) BoneGroup(name string) error {
	b.model.BoneGroups = append(b.model.BoneGroups, BoneGroup{Name: name})
	return nil
}

func (b *Builder) GroupedBone(g GroupedBone) error {
	b.model.GroupedBones = append(b.model.GroupedBones, g)
	return nil
}

func (b *Builder) Morph(m Morph) error {
	b.model.Morphs = append(b.model.Morphs, ModelMorph{Morph: m})
	return nil
}

func (b *Builder) MorphVertex(v MorphVertex) error {
	n := len(b.model.Morphs)
	if n == 0 {
		return fmt.Errorf("%w: morph vertex outside morph", binio.ErrMalformed)
	}
	b.model.Morphs[n-1].Vertices = append(b.model.Morphs[n-1].Vertices, v)
	return nil
}

func (b *Builder) MorphOrder(morph uint16) error {
	b.model.MorphOrder = append(b.model.MorphOrder, morph)
	return nil
}

func (b *Builder) EngModelInfo(name, description string) error {
	b.model.HasEnglish = true
	b.model.EngName = name
	b.model.EngDescription = description
	return nil
}

func (b *Builder) EngBoneName(name string) error {
	i := b.Index(StageEngBone)
	if i >= len(b.model.Bones) {
		return fmt.Errorf("%w: english name for bone %d of %d", binio.ErrMalformed, i, len(b.model.Bones))
	}
	b.model.Bones[i].EngName = name
	return nil
}

// EngMorphName names morphs starting at index 1; the base morph has no
// English name.
func (b *Builder) EngMorphName(name string) error {
	i := b.Index(StageEngMorph) + 1
	if i >= len(b.model.Morphs) {
		return fmt.Errorf("%w: english name for morph %d of %d", binio.ErrMalformed, i, len(b.model.Morphs))
	}
	b.model.Morphs[i].EngName = name
	return nil
}

func (b *Builder) EngBoneGroupName(name string) error {
	i := b.Index(StageEngBoneGroup)
	if i >= len(b.model.BoneGroups) {
		return fmt.Errorf("%w: english name for bone group %d of %d", binio.ErrMalformed, i, len(b.model.BoneGroups))
	}
	b.model.BoneGroups[i].EngName = name
	return nil
}

func (b *Builder) ToonFile(name string) error {
	b.model.ToonFiles = append(b.model.ToonFiles, name)
	return nil
}

func (b *Builder) RigidBody(r RigidBody) error {
	b.model.RigidBodies = append(b.model.RigidBodies, r)
	return nil
}

func (b *Builder) Joint(j Joint) error {
	b.model.Joints = append(b.model.Joints, j)
	return nil
}

// ParseReader parses a PMD stream into a Model.
func ParseReader(r io.Reader) (*Model, error) {
	b := NewBuilder()
	p := NewParser(r)
	p.SetHandler(b)
	if err := p.Parse(); err != nil {
		return nil, err
	}
	return b.Model(), nil
}

// Parse parses PMD data from a byte slice.
func Parse(data []byte) (*Model, error) {
	return ParseReader(bytes.NewReader(data))
}

// ParseFile parses a PMD file from disk.
func ParseFile(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading PMD file: %w", err)
	}
	return Parse(data)
}
