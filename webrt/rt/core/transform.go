package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Decompose splits an affine matrix into translation, rotation and scale such
// that m == T * R * S.
func Decompose(m mgl32.Mat4) (mgl32.Vec3, mgl32.Quat, mgl32.Vec3) {
	translation := m.Col(3).Vec3()
	scale := mgl32.Vec3{
		m.Col(0).Vec3().Len(),
		m.Col(1).Vec3().Len(),
		m.Col(2).Vec3().Len(),
	}

	var rot mgl32.Mat3
	for c := 0; c < 3; c++ {
		col := m.Col(c).Vec3()
		if scale[c] != 0 {
			col = col.Mul(1 / scale[c])
		}
		rot.SetCol(c, col)
	}
	return translation, mgl32.Mat4ToQuat(rot.Mat4()).Normalize(), scale
}

// Compose is the inverse of Decompose.
func Compose(translation mgl32.Vec3, rotation mgl32.Quat, scale mgl32.Vec3) mgl32.Mat4 {
	t := mgl32.Translate3D(translation.X(), translation.Y(), translation.Z())
	r := rotation.Mat4()
	s := mgl32.Scale3D(scale.X(), scale.Y(), scale.Z())
	return t.Mul4(r).Mul4(s)
}

// BaseToLeftHanded mirrors a base (object-to-world) matrix across the XY plane:
// the z translation and the x/y rotation axes flip sign.
func BaseToLeftHanded(base mgl32.Mat4) mgl32.Mat4 {
	translation, rotation, scale := Decompose(base)
	translation[2] = -translation[2]
	rotation.V[0] = -rotation.V[0]
	rotation.V[1] = -rotation.V[1]
	return Compose(translation, rotation, scale)
}

// ProjectionToLeftHanded negates the third column.
func ProjectionToLeftHanded(projection mgl32.Mat4) mgl32.Mat4 {
	for i := 8; i < 12; i++ {
		projection[i] = -projection[i]
	}
	return projection
}

// ViewWithOffset returns the view matrix of an eye whose world-from-view base
// is inverse(view), as seen from a content space placed at offset.
func ViewWithOffset(view, offset mgl32.Mat4, rightHanded bool) mgl32.Mat4 {
	viewBase := view.Inv()
	var worldToLocal mgl32.Mat4
	if rightHanded {
		worldToLocal = offset.Inv()
	} else {
		worldToLocal = BaseToLeftHanded(offset).Inv()
		viewBase = BaseToLeftHanded(viewBase)
	}
	return worldToLocal.Mul4(viewBase).Inv()
}

// ApproxEqual compares matrices element-wise.
func ApproxEqual(a, b mgl32.Mat4, eps float32) bool {
	for i := range a {
		if float32(math.Abs(float64(a[i]-b[i]))) > eps {
			return false
		}
	}
	return true
}
