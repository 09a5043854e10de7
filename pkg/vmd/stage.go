package vmd

import (
	"fmt"

	"github.com/Faultbox/mmdcodec/pkg/stage"
)

// Stage identifies a repeated structure in a VMD file.
type Stage uint8

const (
	StageBoneMotion Stage = iota
	StageMorphMotion
	StageCameraMotion
	StageLuminousMotion
	StageShadowMotion
)

var stageNames = [...]string{
	StageBoneMotion:     "bone-motion",
	StageMorphMotion:    "morph-motion",
	StageCameraMotion:   "camera-motion",
	StageLuminousMotion: "luminous-motion",
	StageShadowMotion:   "shadow-motion",
}

// String returns the stage name.
func (s Stage) String() string {
	if int(s) < len(stageNames) {
		return stageNames[s]
	}
	return fmt.Sprintf("Stage(%d)", uint8(s))
}

// loop drives one loop stage on h.
func loop(h LoopHandler, s Stage, count int, each func(int) error) error {
	return stage.Run(h, s, count, each)
}
