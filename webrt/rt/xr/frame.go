package xr

import (
	"fmt"
	"time"

	"github.com/gekko3d/remotegl/webrt/rt/cmdbuf"

	"github.com/go-gl/mathgl/mgl32"
)

// TargetFrameTime is the budget of one animation frame at 45 fps.
const TargetFrameTime = time.Second / 45

// Frame is valid for the duration of one animation frame callback round.
// Every pose query after that fails with ErrTemporalFence.
type Frame struct {
	ID        int64
	StereoID  uint32
	Timestamp float64

	session        *Session
	req            *FrameRequest
	active         bool
	animationFrame bool
	started        time.Time
}

func newFrame(s *Session, req *FrameRequest) *Frame {
	return &Frame{
		ID:        req.FrameID,
		StereoID:  req.StereoID,
		Timestamp: req.Timestamp,
		session:   s,
		req:       req,
	}
}

func (f *Frame) Session() *Session { return f.session }

func (f *Frame) Active() bool { return f.active }

func (f *Frame) AnimationFrame() bool { return f.animationFrame }

// ViewIndex is the view the host renders with this frame.
func (f *Frame) ViewIndex() uint32 { return f.req.ViewIndex }

// meta is the frame annotation carried by GL commands issued in this frame.
func (f *Frame) meta() cmdbuf.FrameMeta {
	return cmdbuf.FrameMeta{
		Active:    f.active,
		SessionID: f.session.id,
		StereoID:  f.StereoID,
		ViewIndex: f.req.ViewIndex,
		FrameID:   f.ID,
	}
}

func (f *Frame) start() {
	f.active = true
	f.animationFrame = true
	f.started = f.session.clock()
}

func (f *Frame) end() {
	f.active = false
	threshold := TargetFrameTime
	if f.session.multipass {
		threshold /= 2
	}
	if took := f.session.clock().Sub(f.started); took > threshold {
		f.session.log.Warnf("long frame #%d on session %d view %d: %s > %s",
			f.ID, f.session.id, f.req.ViewIndex, took, threshold)
	}
}

func (f *Frame) check(op string) error {
	if !f.active {
		return fmt.Errorf("%s: %w (frame #%d)", op, ErrTemporalFence, f.ID)
	}
	return nil
}

func (f *Frame) update(spaces ...Space) error {
	for _, s := range spaces {
		if err := s.EnsurePoseUpdated(f.ID, &f.req.Snapshot); err != nil {
			return err
		}
	}
	return nil
}

// GetPose returns the pose of space relative to base.
func (f *Frame) GetPose(space, base Space) (*Pose, error) {
	if err := f.check("getPose"); err != nil {
		return nil, err
	}
	if space == nil || base == nil {
		return nil, fmt.Errorf("getPose: %w: space and base are required", ErrInvalidState)
	}
	if err := f.update(base, space); err != nil {
		return nil, fmt.Errorf("getPose: %w", err)
	}
	return &Pose{Transform: RigidTransformFromMatrix(relative(space, base))}, nil
}

// GetViewerPose returns the viewer's pose relative to ref, with one view per
// eye (only the current eye on multipass sessions).
func (f *Frame) GetViewerPose(ref *ReferenceSpace) (*ViewerPose, error) {
	if err := f.check("getViewerPose"); err != nil {
		return nil, err
	}
	if ref == nil {
		return nil, fmt.Errorf("getViewerPose: %w: reference space is required", ErrInvalidState)
	}
	viewer := f.session.viewerSpace
	if err := f.update(ref, viewer); err != nil {
		return nil, fmt.Errorf("getViewerPose: %w", err)
	}

	pose := &ViewerPose{Pose: Pose{Transform: RigidTransformFromMatrix(relative(viewer, ref))}}
	snap := &f.req.Snapshot
	for _, v := range snap.Views {
		if f.session.multipass && v.Index != snap.ViewIndex {
			continue
		}
		pose.Views = append(pose.Views, View{
			Eye:        EyeForView(v.Index),
			Index:      v.Index,
			Projection: v.Projection,
			Transform:  RigidTransformFromMatrix(ref.InverseBaseMatrix().Mul4(v.View.Inv())),
		})
	}
	return pose, nil
}

// GetJointPose returns the pose of a hand joint relative to base, which must
// be a reference space. The joint's input source must still be live.
func (f *Frame) GetJointPose(joint *JointSpace, base Space) (*JointPose, error) {
	if err := f.check("getJointPose"); err != nil {
		return nil, err
	}
	if joint == nil || base == nil {
		return nil, fmt.Errorf("getJointPose: %w: joint and base are required", ErrInvalidState)
	}
	if joint.source.released || f.session.inputs.ByID(joint.source.ID) != joint.source {
		return nil, fmt.Errorf("getJointPose: %w: input source %s does not exist", ErrTemporalFence, joint.source.ID)
	}
	if !base.IsReferenceSpace() {
		return nil, fmt.Errorf("getJointPose: %w: base must be a reference space", ErrInvalidState)
	}
	if err := f.update(joint, base); err != nil {
		return nil, fmt.Errorf("getJointPose: %w", err)
	}
	return &JointPose{
		Pose:   Pose{Transform: RigidTransformFromMatrix(relative(joint, base))},
		Radius: joint.radius,
	}, nil
}

// FillPoses writes the pose matrix of every space relative to base into out.
func (f *Frame) FillPoses(spaces []Space, base Space, out []mgl32.Mat4) error {
	if err := f.check("fillPoses"); err != nil {
		return err
	}
	if base == nil {
		return fmt.Errorf("fillPoses: %w: base is required", ErrInvalidState)
	}
	if len(out) < len(spaces) {
		return fmt.Errorf("fillPoses: %w: %d matrices for %d spaces", ErrInvalidState, len(out), len(spaces))
	}
	if err := f.update(base); err != nil {
		return fmt.Errorf("fillPoses: %w", err)
	}
	for i, s := range spaces {
		if err := f.update(s); err != nil {
			return fmt.Errorf("fillPoses: %w", err)
		}
		out[i] = relative(s, base)
	}
	return nil
}

// FillJointRadii writes the radius of every joint into out.
func (f *Frame) FillJointRadii(joints []*JointSpace, out []float32) error {
	if err := f.check("fillJointRadii"); err != nil {
		return err
	}
	if len(out) < len(joints) {
		return fmt.Errorf("fillJointRadii: %w: %d slots for %d joints", ErrInvalidState, len(out), len(joints))
	}
	for i, j := range joints {
		if err := f.update(j); err != nil {
			return fmt.Errorf("fillJointRadii: %w", err)
		}
		out[i] = j.radius
	}
	return nil
}
