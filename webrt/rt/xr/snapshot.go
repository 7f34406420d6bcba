package xr

import (
	"github.com/go-gl/mathgl/mgl32"
)

// JointCount is the number of tracked joints per hand.
const JointCount = 25

// JointNames lists the hand joints in index order.
var JointNames = [JointCount]string{
	"wrist",
	"thumb-metacarpal", "thumb-phalanx-proximal", "thumb-phalanx-distal", "thumb-tip",
	"index-finger-metacarpal", "index-finger-phalanx-proximal", "index-finger-phalanx-intermediate",
	"index-finger-phalanx-distal", "index-finger-tip",
	"middle-finger-metacarpal", "middle-finger-phalanx-proximal", "middle-finger-phalanx-intermediate",
	"middle-finger-phalanx-distal", "middle-finger-tip",
	"ring-finger-metacarpal", "ring-finger-phalanx-proximal", "ring-finger-phalanx-intermediate",
	"ring-finger-phalanx-distal", "ring-finger-tip",
	"pinky-finger-metacarpal", "pinky-finger-phalanx-proximal", "pinky-finger-phalanx-intermediate",
	"pinky-finger-phalanx-distal", "pinky-finger-tip",
}

// JointIndex returns the index of a named joint.
func JointIndex(name string) (int, bool) {
	for i, n := range JointNames {
		if n == name {
			return i, true
		}
	}
	return -1, false
}

// ViewData is one eye's camera for the current frame.
type ViewData struct {
	Index      uint32
	View       mgl32.Mat4
	Projection mgl32.Mat4
}

type JointState struct {
	Base   mgl32.Mat4
	Radius float32
}

// InputState is the device's view of one input source for a frame.
type InputState struct {
	ID             InputSourceID
	Enabled        bool
	Handedness     Handedness
	TargetRayMode  TargetRayMode
	Profiles       []string
	TargetRayBase  mgl32.Mat4
	GripBase       mgl32.Mat4
	Joints         [JointCount]JointState
	PrimaryPressed bool
	SqueezePressed bool
}

// Snapshot is the device state of one frame. Nothing in this package
// modifies it.
type Snapshot struct {
	ViewerBase mgl32.Mat4
	LocalBase  mgl32.Mat4
	// FloorOffset is the height of the local origin above the floor.
	FloorOffset float32
	Views       []ViewData
	ViewIndex   uint32
	Inputs      []InputState
}

// View returns the view with the given index.
func (s *Snapshot) View(index uint32) (ViewData, bool) {
	for _, v := range s.Views {
		if v.Index == index {
			return v, true
		}
	}
	return ViewData{}, false
}

// Input returns the state of an input source, enabled or not.
func (s *Snapshot) Input(id InputSourceID) (*InputState, bool) {
	for i := range s.Inputs {
		if s.Inputs[i].ID == id {
			return &s.Inputs[i], true
		}
	}
	return nil, false
}

// FrameRequest is one animation frame tick from the device. FrameID
// increases monotonically per session.
type FrameRequest struct {
	FrameID   int64
	StereoID  uint32
	SessionID uint32
	// Timestamp in milliseconds.
	Timestamp float64
	Snapshot
}
