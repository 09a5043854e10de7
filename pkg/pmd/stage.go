package pmd

import (
	"fmt"

	"github.com/Faultbox/mmdcodec/pkg/stage"
)

// Stage identifies a repeated structure in a PMD file.
type Stage uint8

const (
	StageVertex Stage = iota
	StageSurface
	StageMaterial
	StageBone
	StageIK
	StageIKChain
	StageMorph
	StageMorphVertex
	StageMorphOrder
	StageBoneGroup
	StageGroupedBone
	StageEngBone
	StageEngMorph
	StageEngBoneGroup
	StageToon
	StageRigidBody
	StageJoint
)

var stageNames = [...]string{
	StageVertex:       "vertex",
	StageSurface:      "surface",
	StageMaterial:     "material",
	StageBone:         "bone",
	StageIK:           "ik",
	StageIKChain:      "ik-chain",
	StageMorph:        "morph",
	StageMorphVertex:  "morph-vertex",
	StageMorphOrder:   "morph-order",
	StageBoneGroup:    "bone-group",
	StageGroupedBone:  "grouped-bone",
	StageEngBone:      "eng-bone",
	StageEngMorph:     "eng-morph",
	StageEngBoneGroup: "eng-bone-group",
	StageToon:         "toon",
	StageRigidBody:    "rigid-body",
	StageJoint:        "joint",
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
