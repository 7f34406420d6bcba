package placeholder

import (
	"github.com/gekko3d/remotegl/webrt/rt/core"

	"github.com/go-gl/mathgl/mgl32"
)

// Eye is the live camera state of one view.
type Eye struct {
	View       mgl32.Mat4
	Projection mgl32.Mat4
}

// Resolver fills placeholders on the host side. Offset is the content's local
// transform times the origin matrix; identity places content at the tracking
// origin.
type Resolver struct {
	Eyes   []Eye
	Offset mgl32.Mat4
}

func NewResolver(eyes ...Eye) *Resolver {
	return &Resolver{Eyes: eyes, Offset: mgl32.Ident4()}
}

func (r *Resolver) eye(i int) Eye {
	if i < 0 || i >= len(r.Eyes) {
		return Eye{View: mgl32.Ident4(), Projection: mgl32.Ident4()}
	}
	return r.Eyes[i]
}

func (r *Resolver) projection(eye Eye, rightHanded bool) mgl32.Mat4 {
	if rightHanded {
		return eye.Projection
	}
	return core.ProjectionToLeftHanded(eye.Projection)
}

func (r *Resolver) view(eye Eye, rightHanded bool) mgl32.Mat4 {
	return core.ViewWithOffset(eye.View, r.Offset, rightHanded)
}

// Resolve computes the matrix g stands for, as seen by eye eyeIndex.
// NotSet resolves to identity.
func (r *Resolver) Resolve(g Graph, eyeIndex int) mgl32.Mat4 {
	rightHanded := g.Handedness == RightHanded

	var m mgl32.Mat4
	switch g.ID {
	case ProjectionMatrix:
		m = r.projection(r.eye(eyeIndex), rightHanded)
	case ViewMatrix:
		m = r.view(r.eye(eyeIndex), rightHanded)
	case ViewProjectionMatrix:
		eye := r.eye(eyeIndex)
		m = r.projection(eye, rightHanded).Mul4(r.view(eye, rightHanded))
	case ViewProjectionMatrixForRightEye:
		eye := r.eye(1)
		m = r.projection(eye, rightHanded).Mul4(r.view(eye, rightHanded))
	default:
		m = mgl32.Ident4()
	}
	if g.Inverse {
		m = m.Inv()
	}
	return m
}

// ResolveMultiview resolves g once per eye, in view order.
func (r *Resolver) ResolveMultiview(g Graph) []mgl32.Mat4 {
	out := make([]mgl32.Mat4, len(r.Eyes))
	for i := range r.Eyes {
		out[i] = r.Resolve(g, i)
	}
	return out
}
