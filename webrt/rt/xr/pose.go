package xr

import (
	"github.com/gekko3d/remotegl/webrt/rt/core"

	"github.com/go-gl/mathgl/mgl32"
)

// RigidTransform is a position and orientation, with the matrix both
// describe.
type RigidTransform struct {
	Position    mgl32.Vec3
	Orientation mgl32.Quat
	Matrix      mgl32.Mat4
}

func NewRigidTransform(position mgl32.Vec3, orientation mgl32.Quat) RigidTransform {
	m := orientation.Normalize().Mat4()
	m.SetCol(3, position.Vec4(1))
	return RigidTransform{Position: position, Orientation: orientation.Normalize(), Matrix: m}
}

func RigidTransformFromMatrix(m mgl32.Mat4) RigidTransform {
	position, orientation, _ := core.Decompose(m)
	return RigidTransform{Position: position, Orientation: orientation, Matrix: m}
}

func IdentityTransform() RigidTransform {
	return RigidTransform{Orientation: mgl32.QuatIdent(), Matrix: mgl32.Ident4()}
}

func (t RigidTransform) Inverse() RigidTransform {
	return RigidTransformFromMatrix(t.Matrix.Inv())
}

type Pose struct {
	Transform        RigidTransform
	EmulatedPosition bool
}

type View struct {
	Eye        Eye
	Index      uint32
	Projection mgl32.Mat4
	Transform  RigidTransform
}

type ViewerPose struct {
	Pose
	Views []View
}

type JointPose struct {
	Pose
	Radius float32
}
