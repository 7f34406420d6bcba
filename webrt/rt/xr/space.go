package xr

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Space is a coordinate frame whose base matrix (space to tracking origin)
// is recomputed at most once per frame id.
type Space interface {
	SubType() SpaceSubType
	IsReferenceSpace() bool
	BaseMatrix() mgl32.Mat4
	InverseBaseMatrix() mgl32.Mat4
	EnsurePoseUpdated(frameID int64, snap *Snapshot) error
	space() *spaceState
}

type spaceState struct {
	subType      SpaceSubType
	isReference  bool
	base         mgl32.Mat4
	lastFrameID  int64
	inverse      mgl32.Mat4
	inverseDirty bool
}

func newSpaceState(subType SpaceSubType, isReference bool) spaceState {
	return spaceState{
		subType:      subType,
		isReference:  isReference,
		base:         mgl32.Ident4(),
		lastFrameID:  -1,
		inverseDirty: true,
	}
}

func (s *spaceState) space() *spaceState { return s }

func (s *spaceState) SubType() SpaceSubType { return s.subType }

func (s *spaceState) IsReferenceSpace() bool { return s.isReference }

func (s *spaceState) BaseMatrix() mgl32.Mat4 { return s.base }

// InverseBaseMatrix inverts the base matrix on first use after a pose
// update and serves the cached value until the next one.
func (s *spaceState) InverseBaseMatrix() mgl32.Mat4 {
	if s.inverseDirty {
		s.inverse = s.base.Inv()
		s.inverseDirty = false
	}
	return s.inverse
}

// LastFrameID is -1 until the first update.
func (s *spaceState) LastFrameID() int64 { return s.lastFrameID }

// ensure runs compute once per distinct frame id. compute reports whether it
// produced a new base; a failed compute leaves the gate open.
func (s *spaceState) ensure(frameID int64, compute func() (mgl32.Mat4, bool, error)) error {
	if frameID == s.lastFrameID {
		return nil
	}
	base, ok, err := compute()
	if err != nil {
		return err
	}
	s.lastFrameID = frameID
	if ok {
		s.base = base
		s.inverseDirty = true
	}
	return nil
}

// relative is the pose of space in base's coordinates.
func relative(space, base Space) mgl32.Mat4 {
	return base.InverseBaseMatrix().Mul4(space.BaseMatrix())
}

type ReferenceSpace struct {
	spaceState
	kind ReferenceSpaceType
	// offset is applied on top of the tracked origin.
	offset mgl32.Mat4
}

func newReferenceSpace(kind ReferenceSpaceType) *ReferenceSpace {
	return &ReferenceSpace{
		spaceState: newSpaceState(SubTypeUnset, true),
		kind:       kind,
		offset:     mgl32.Ident4(),
	}
}

func (r *ReferenceSpace) Type() ReferenceSpaceType { return r.kind }

// OffsetMatrix is the accumulated offset from GetOffsetReferenceSpace.
func (r *ReferenceSpace) OffsetMatrix() mgl32.Mat4 { return r.offset }

// GetOffsetReferenceSpace returns a new space of the same type whose origin
// is moved by transform relative to r.
func (r *ReferenceSpace) GetOffsetReferenceSpace(transform RigidTransform) *ReferenceSpace {
	child := newReferenceSpace(r.kind)
	child.offset = r.offset.Mul4(transform.Matrix)
	return child
}

func (r *ReferenceSpace) EnsurePoseUpdated(frameID int64, snap *Snapshot) error {
	return r.ensure(frameID, func() (mgl32.Mat4, bool, error) {
		var origin mgl32.Mat4
		switch r.kind {
		case Viewer:
			origin = snap.ViewerBase
		case Local:
			origin = snap.LocalBase
		case LocalFloor, BoundedFloor:
			origin = snap.LocalBase.Mul4(mgl32.Translate3D(0, -snap.FloorOffset, 0))
		case Unbounded:
			// No anchors yet: the local origin stands in.
			origin = snap.LocalBase
		default:
			return mgl32.Mat4{}, false, fmt.Errorf("%w: reference space %s", ErrNotSupported, r.kind)
		}
		return origin.Mul4(r.offset), true, nil
	})
}

// ViewSpace follows one eye's camera.
type ViewSpace struct {
	spaceState
	eye        Eye
	projection mgl32.Mat4
	// multipass sessions only carry the current eye per frame.
	multipass bool
}

func newViewSpace(eye Eye, multipass bool) *ViewSpace {
	return &ViewSpace{
		spaceState: newSpaceState(SubTypeUnset, false),
		eye:        eye,
		projection: mgl32.Ident4(),
		multipass:  multipass,
	}
}

func (v *ViewSpace) Eye() Eye { return v.eye }

func (v *ViewSpace) ProjectionMatrix() mgl32.Mat4 { return v.projection }

func (v *ViewSpace) EnsurePoseUpdated(frameID int64, snap *Snapshot) error {
	return v.ensure(frameID, func() (mgl32.Mat4, bool, error) {
		if v.eye == EyeNone {
			return mgl32.Mat4{}, false, nil
		}
		index := uint32(v.eye)
		if v.multipass && snap.ViewIndex != index {
			return mgl32.Mat4{}, false, fmt.Errorf("%w: %s view space updated during view %d",
				ErrInvalidState, v.eye, snap.ViewIndex)
		}
		view, ok := snap.View(index)
		if !ok {
			return mgl32.Mat4{}, false, fmt.Errorf("%w: no view %d in frame", ErrInvalidState, index)
		}
		v.projection = view.Projection
		return view.View.Inv(), true, nil
	})
}

// JointSpace follows one joint of a tracked hand.
type JointSpace struct {
	spaceState
	source *InputSource
	joint  int
	radius float32
}

func (j *JointSpace) Joint() int { return j.joint }

func (j *JointSpace) JointName() string { return JointNames[j.joint] }

func (j *JointSpace) InputSource() *InputSource { return j.source }

// Radius of the joint as of the last update.
func (j *JointSpace) Radius() float32 { return j.radius }

func (j *JointSpace) EnsurePoseUpdated(frameID int64, snap *Snapshot) error {
	return j.ensure(frameID, func() (mgl32.Mat4, bool, error) {
		in, ok := snap.Input(j.source.ID)
		if !ok || !in.Enabled {
			return mgl32.Mat4{}, false, fmt.Errorf("%w: input source %s is not tracked", ErrTemporalFence, j.source.ID)
		}
		state := in.Joints[j.joint]
		j.radius = state.Radius
		return state.Base, true, nil
	})
}

// TargetRayOrGripSpace follows an input source's target ray or grip.
type TargetRayOrGripSpace struct {
	spaceState
	source *InputSource
}

func (t *TargetRayOrGripSpace) InputSource() *InputSource { return t.source }

func (t *TargetRayOrGripSpace) EnsurePoseUpdated(frameID int64, snap *Snapshot) error {
	return t.ensure(frameID, func() (mgl32.Mat4, bool, error) {
		in, ok := snap.Input(t.source.ID)
		if !ok || !in.Enabled {
			return mgl32.Mat4{}, false, fmt.Errorf("%w: input source %s is not tracked", ErrTemporalFence, t.source.ID)
		}
		if t.subType == SubTypeGrip {
			return in.GripBase, true, nil
		}
		return in.TargetRayBase, true, nil
	})
}
