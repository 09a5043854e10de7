package vmd

import "github.com/Faultbox/mmdcodec/pkg/stage"

// LoopHandler receives loop notifications for VMD stages.
type LoopHandler = stage.LoopHandler[Stage]

// BasicHandler receives the parse lifecycle, the model name and the bone
// (StageBoneMotion) and morph (StageMorphMotion) keyframes.
type BasicHandler interface {
	LoopHandler
	ParseStart() error
	// ParseEnd reports whether unread bytes follow the last parsed section.
	ParseEnd(hasMoreData bool) error
	ModelName(name string) error
	BoneMotion(m BoneMotion) error
	MorphMotion(m MorphMotion) error
}

// CameraHandler receives camera keyframes (StageCameraMotion).
type CameraHandler interface {
	LoopHandler
	CameraMotion(m CameraMotion) error
}

// LightingHandler receives light (StageLuminousMotion) and self-shadow
// (StageShadowMotion) keyframes.
type LightingHandler interface {
	LoopHandler
	LuminousMotion(m LuminousMotion) error
	ShadowMotion(m ShadowMotion) error
}

// Handler is the union of every VMD handler capability.
type Handler interface {
	BasicHandler
	CameraHandler
	LightingHandler
}

// NopHandler implements Handler and ignores every event.
type NopHandler struct {
	stage.Nop[Stage]
}

var _ Handler = NopHandler{}

func (NopHandler) ParseStart() error                   { return nil }
func (NopHandler) ParseEnd(bool) error                 { return nil }
func (NopHandler) ModelName(string) error              { return nil }
func (NopHandler) BoneMotion(BoneMotion) error         { return nil }
func (NopHandler) MorphMotion(MorphMotion) error       { return nil }
func (NopHandler) CameraMotion(CameraMotion) error     { return nil }
func (NopHandler) LuminousMotion(LuminousMotion) error { return nil }
func (NopHandler) ShadowMotion(ShadowMotion) error     { return nil }
