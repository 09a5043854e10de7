package pmd

import "github.com/Faultbox/mmdcodec/pkg/stage"

// LoopHandler receives loop notifications for PMD stages.
type LoopHandler = stage.LoopHandler[Stage]

// BasicHandler receives the parse lifecycle and the model header.
type BasicHandler interface {
	LoopHandler
	ParseStart() error
	// ParseEnd reports whether unread bytes follow the last known section.
	ParseEnd(hasMoreData bool) error
	ModelInfo(name, description string) error
}

// ShapeHandler receives vertices (StageVertex) and triangles (StageSurface).
type ShapeHandler interface {
	LoopHandler
	Vertex(v Vertex) error
	Surface(s Surface) error
}

// MaterialHandler receives materials (StageMaterial).
type MaterialHandler interface {
	LoopHandler
	Material(m Material) error
}

// BoneHandler receives bones (StageBone), IK entries (StageIK) with their
// nested chains (StageIKChain), bone group names (StageBoneGroup) and group
// membership (StageGroupedBone).
type BoneHandler interface {
	LoopHandler
	Bone(b Bone) error
	IK(ik IK) error
	IKChain(bone uint16) error
	BoneGroup(name string) error
	GroupedBone(g GroupedBone) error
}

// MorphHandler receives morphs (StageMorph) with their nested vertices
// (StageMorphVertex) and the morph display order (StageMorphOrder).
type MorphHandler interface {
	LoopHandler
	Morph(m Morph) error
	MorphVertex(v MorphVertex) error
	MorphOrder(morph uint16) error
}

// EngHandler receives the optional English names. EngModelInfo is only
// called when the file carries them.
type EngHandler interface {
	LoopHandler
	EngModelInfo(name, description string) error
	EngBoneName(name string) error
	EngMorphName(name string) error
	EngBoneGroupName(name string) error
}

// ToonHandler receives the custom toon texture file names (StageToon).
type ToonHandler interface {
	LoopHandler
	ToonFile(name string) error
}

// RigidHandler receives rigid bodies (StageRigidBody).
type RigidHandler interface {
	LoopHandler
	RigidBody(r RigidBody) error
}

// JointHandler receives joints (StageJoint).
type JointHandler interface {
	LoopHandler
	Joint(j Joint) error
}

// Handler is the union of every PMD handler capability.
type Handler interface {
	BasicHandler
	ShapeHandler
	MaterialHandler
	BoneHandler
	MorphHandler
	EngHandler
	ToonHandler
	RigidHandler
	JointHandler
}

// NopHandler implements Handler and ignores every event. Embed it to
// implement only the callbacks of interest.
type NopHandler struct {
	stage.Nop[Stage]
}

var _ Handler = NopHandler{}

func (NopHandler) ParseStart() error                 { return nil }
func (NopHandler) ParseEnd(bool) error               { return nil }
func (NopHandler) ModelInfo(string, string) error    { return nil }
func (NopHandler) Vertex(Vertex) error               { return nil }
func (NopHandler) Surface(Surface) error             { return nil }
func (NopHandler) Material(Material) error           { return nil }
func (NopHandler) Bone(Bone) error                   { return nil }
func (NopHandler) IK(IK) error                       { return nil }
func (NopHandler) IKChain(uint16) error              { return nil }
func (NopHandler) BoneGroup(string) error            { return nil }
func (NopHandler) GroupedBone(GroupedBone) error     { return nil }
func (NopHandler) Morph(Morph) error                 { return nil }
func (NopHandler) MorphVertex(MorphVertex) error     { return nil }
func (NopHandler) MorphOrder(uint16) error           { return nil }
func (NopHandler) EngModelInfo(string, string) error { return nil }
func (NopHandler) EngBoneName(string) error          { return nil }
func (NopHandler) EngMorphName(string) error         { return nil }
func (NopHandler) EngBoneGroupName(string) error     { return nil }
func (NopHandler) ToonFile(string) error             { return nil }
func (NopHandler) RigidBody(RigidBody) error         { return nil }
func (NopHandler) Joint(Joint) error                 { return nil }
