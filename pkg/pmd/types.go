package pmd

import (
	"fmt"

	"github.com/Faultbox/mmdcodec/pkg/math"
)

// Vertex is a skinned vertex blended between two bones.
type Vertex struct {
	Position math.Vec3
	Normal   math.Vec3
	UV       math.Vec2
	Bones    [2]uint16
	Weight   uint8 // Influence of Bones[0], 0-100
	NoEdge   bool  // Edge outline disabled
}

// Surface is one triangle as three vertex indices.
type Surface [3]uint16

// Material describes how a consecutive run of surfaces is shaded.
type Material struct {
	Diffuse    math.Vec3
	Alpha      float32
	Shininess  float32
	Specular   math.Vec3
	Ambient    math.Vec3
	ToonIndex  uint8 // NoToon for none
	Edge       bool
	IndexCount uint32 // Surface indices covered (3 per triangle)
	Texture    string
	SphereMap  string
}

// BoneKind is the bone type code.
type BoneKind uint8

const (
	BoneRotate         BoneKind = 0
	BoneRotateMove     BoneKind = 1
	BoneIK             BoneKind = 2
	BoneUnknown        BoneKind = 3
	BoneIKAffected     BoneKind = 4
	BoneRotateAffected BoneKind = 5
	BoneIKTarget       BoneKind = 6
	BoneHidden         BoneKind = 7
	BoneTwist          BoneKind = 8
	BoneRotateFollow   BoneKind = 9
)

// String returns a human-readable bone kind name.
func (k BoneKind) String() string {
	switch k {
	case BoneRotate:
		return "Rotate"
	case BoneRotateMove:
		return "RotateMove"
	case BoneIK:
		return "IK"
	case BoneUnknown:
		return "Unknown"
	case BoneIKAffected:
		return "IKAffected"
	case BoneRotateAffected:
		return "RotateAffected"
	case BoneIKTarget:
		return "IKTarget"
	case BoneHidden:
		return "Hidden"
	case BoneTwist:
		return "Twist"
	case BoneRotateFollow:
		return "RotateFollow"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(k))
	}
}

// Bone is a skeleton joint. Its index is its position in the bone list.
type Bone struct {
	Name     string
	Parent   uint16 // NoBone for roots
	Tail     uint16
	Kind     BoneKind
	IKTarget uint16
	Position math.Vec3
}

// IK is an inverse-kinematics solver entry. The chain bone indices follow
// as separate IKChain events.
type IK struct {
	Bone        uint16
	Target      uint16
	ChainLength uint8
	Iterations  uint16
	Weight      float32
}

// MorphKind is the morph panel category.
type MorphKind uint8

const (
	MorphBase  MorphKind = 0
	MorphBrow  MorphKind = 1
	MorphEye   MorphKind = 2
	MorphLip   MorphKind = 3
	MorphOther MorphKind = 4
)

// String returns a human-readable morph kind name.
func (k MorphKind) String() string {
	switch k {
	case MorphBase:
		return "Base"
	case MorphBrow:
		return "Brow"
	case MorphEye:
		return "Eye"
	case MorphLip:
		return "Lip"
	case MorphOther:
		return "Other"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(k))
	}
}

// Morph is a vertex morph header. Morph 0 is the base morph whose vertex
// indices address the mesh; other morphs index into the base morph.
type Morph struct {
	Name        string
	VertexCount uint32
	Kind        MorphKind
}

// MorphVertex is a displacement of one vertex.
type MorphVertex struct {
	Index  uint32
	Offset math.Vec3
}

// GroupedBone assigns a bone to a display group.
type GroupedBone struct {
	Bone  uint16
	Group uint8 // 1-based bone group index
}

// RigidShape is the collision shape of a rigid body.
type RigidShape uint8

const (
	ShapeSphere  RigidShape = 0
	ShapeBox     RigidShape = 1
	ShapeCapsule RigidShape = 2
)

// String returns a human-readable shape name.
func (s RigidShape) String() string {
	switch s {
	case ShapeSphere:
		return "Sphere"
	case ShapeBox:
		return "Box"
	case ShapeCapsule:
		return "Capsule"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(s))
	}
}

// RigidBehavior controls how a rigid body follows its bone.
type RigidBehavior uint8

const (
	BehaviorFollowBone     RigidBehavior = 0
	BehaviorPhysics        RigidBehavior = 1
	BehaviorPhysicsAligned RigidBehavior = 2
)

// String returns a human-readable behavior name.
func (b RigidBehavior) String() string {
	switch b {
	case BehaviorFollowBone:
		return "FollowBone"
	case BehaviorPhysics:
		return "Physics"
	case BehaviorPhysicsAligned:
		return "PhysicsAligned"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(b))
	}
}

// RigidBody is a physics body attached to a bone.
type RigidBody struct {
	Name           string
	Bone           uint16
	Group          uint8
	CollisionMask  uint16
	Shape          RigidShape
	Size           math.Vec3
	Position       math.Vec3
	Rotation       math.Vec3
	Mass           float32
	LinearDamping  float32
	AngularDamping float32
	Restitution    float32
	Friction       float32
	Behavior       RigidBehavior
}

// Joint is a spring constraint between two rigid bodies.
type Joint struct {
	Name           string
	RigidA         uint32
	RigidB         uint32
	Position       math.Vec3
	Rotation       math.Vec3
	PositionMin    math.Vec3
	PositionMax    math.Vec3
	RotationMin    math.Vec3
	RotationMax    math.Vec3
	SpringPosition math.Vec3
	SpringRotation math.Vec3
}
