package xr

import (
	"testing"

	"github.com/gekko3d/remotegl/webrt/rt/core"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshotAt(x float32) *Snapshot {
	return &Snapshot{
		ViewerBase: mgl32.Translate3D(x, 1.6, 0),
		LocalBase:  mgl32.Translate3D(x, 0, 0),
		Views: []ViewData{
			{Index: 0, View: mgl32.Translate3D(0.03, -1.6, 0), Projection: mgl32.Perspective(1.5, 1, 0.1, 100)},
			{Index: 1, View: mgl32.Translate3D(-0.03, -1.6, 0), Projection: mgl32.Perspective(1.4, 1, 0.1, 100)},
		},
	}
}

func TestPoseRecomputedOncePerFrameID(t *testing.T) {
	s := newReferenceSpace(Local)
	assert.Equal(t, int64(-1), s.LastFrameID())

	require.NoError(t, s.EnsurePoseUpdated(1, snapshotAt(1)))
	assert.Equal(t, mgl32.Translate3D(1, 0, 0), s.BaseMatrix())

	require.NoError(t, s.EnsurePoseUpdated(1, snapshotAt(5)))
	assert.Equal(t, mgl32.Translate3D(1, 0, 0), s.BaseMatrix())

	require.NoError(t, s.EnsurePoseUpdated(2, snapshotAt(5)))
	assert.Equal(t, mgl32.Translate3D(5, 0, 0), s.BaseMatrix())
	assert.Equal(t, int64(2), s.LastFrameID())
}

func TestInverseBaseMatrixIsReadThrough(t *testing.T) {
	s := newReferenceSpace(Viewer)
	require.NoError(t, s.EnsurePoseUpdated(1, snapshotAt(2)))

	first := s.InverseBaseMatrix()
	second := s.InverseBaseMatrix()
	assert.Equal(t, first, second)
	assert.True(t, core.ApproxEqual(mgl32.Translate3D(-2, -1.6, 0), first, 1e-5))

	require.NoError(t, s.EnsurePoseUpdated(2, snapshotAt(3)))
	assert.True(t, core.ApproxEqual(mgl32.Translate3D(-3, -1.6, 0), s.InverseBaseMatrix(), 1e-5))
}

func TestReferenceSpaceTypes(t *testing.T) {
	snap := snapshotAt(1)
	snap.FloorOffset = 1.2

	for typ, want := range map[ReferenceSpaceType]mgl32.Mat4{
		Viewer:       mgl32.Translate3D(1, 1.6, 0),
		Local:        mgl32.Translate3D(1, 0, 0),
		LocalFloor:   mgl32.Translate3D(1, -1.2, 0),
		BoundedFloor: mgl32.Translate3D(1, -1.2, 0),
		Unbounded:    mgl32.Translate3D(1, 0, 0),
	} {
		s := newReferenceSpace(typ)
		require.NoError(t, s.EnsurePoseUpdated(1, snap), typ.String())
		assert.True(t, core.ApproxEqual(want, s.BaseMatrix(), 1e-5), typ.String())
	}
}

func TestOffsetReferenceSpace(t *testing.T) {
	local := newReferenceSpace(Local)
	moved := local.GetOffsetReferenceSpace(NewRigidTransform(mgl32.Vec3{0, 0, -2}, mgl32.QuatIdent()))
	assert.Equal(t, Local, moved.Type())

	require.NoError(t, moved.EnsurePoseUpdated(1, snapshotAt(1)))
	assert.True(t, core.ApproxEqual(mgl32.Translate3D(1, 0, -2), moved.BaseMatrix(), 1e-5))
}

func TestViewSpaceReadsItsEye(t *testing.T) {
	snap := snapshotAt(0)
	right := newViewSpace(EyeRight, false)
	require.NoError(t, right.EnsurePoseUpdated(1, snap))
	assert.True(t, core.ApproxEqual(mgl32.Translate3D(0.03, 1.6, 0), right.BaseMatrix(), 1e-5))
	assert.Equal(t, snap.Views[1].Projection, right.ProjectionMatrix())

	none := newViewSpace(EyeNone, false)
	require.NoError(t, none.EnsurePoseUpdated(1, snap))
	assert.Equal(t, mgl32.Ident4(), none.BaseMatrix())
}

func TestMultipassViewSpaceRejectsOtherEye(t *testing.T) {
	snap := snapshotAt(0)
	snap.ViewIndex = 0
	right := newViewSpace(EyeRight, true)

	err := right.EnsurePoseUpdated(1, snap)
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Equal(t, int64(-1), right.LastFrameID())

	snap.ViewIndex = 1
	require.NoError(t, right.EnsurePoseUpdated(1, snap))
	assert.Equal(t, int64(1), right.LastFrameID())
}

func TestRigidTransformInverse(t *testing.T) {
	rot := mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0})
	tr := NewRigidTransform(mgl32.Vec3{1, 2, 3}, rot)
	round := tr.Matrix.Mul4(tr.Inverse().Matrix)
	assert.True(t, core.ApproxEqual(mgl32.Ident4(), round, 1e-5))
	assert.True(t, tr.Position.ApproxEqual(mgl32.Vec3{1, 2, 3}))
}
