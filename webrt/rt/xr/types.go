// Package xr is the WebXR side of the runtime: sessions, animation frames,
// coordinate spaces and input sources. Pose data arrives once per frame as a
// read-only Snapshot; spaces recompute lazily against it, gated by frame id.
package xr

import (
	"errors"
	"fmt"

	"github.com/gekko3d/remotegl/webrt/rt/cmdbuf"
)

var (
	// ErrTemporalFence is returned for pose queries outside the animation
	// frame that produced them, and for joints of absent input sources.
	ErrTemporalFence = errors.New("xr: frame is not active")
	ErrSessionEnded  = errors.New("xr: session has ended")
	ErrNotSupported  = errors.New("xr: not supported")
	ErrInvalidState  = errors.New("xr: invalid state")
)

type SessionMode = cmdbuf.SessionMode

const (
	ImmersiveAR = cmdbuf.SessionImmersiveAR
	ImmersiveVR = cmdbuf.SessionImmersiveVR
	Inline      = cmdbuf.SessionInline
)

func ParseSessionMode(s string) (SessionMode, error) {
	switch s {
	case "immersive-ar":
		return ImmersiveAR, nil
	case "immersive-vr":
		return ImmersiveVR, nil
	case "inline":
		return Inline, nil
	}
	return 0, fmt.Errorf("%w: session mode %q", ErrNotSupported, s)
}

type ReferenceSpaceType int

const (
	Viewer ReferenceSpaceType = iota
	Local
	LocalFloor
	BoundedFloor
	Unbounded
)

var referenceSpaceNames = [...]string{
	Viewer:       "viewer",
	Local:        "local",
	LocalFloor:   "local-floor",
	BoundedFloor: "bounded-floor",
	Unbounded:    "unbounded",
}

func (t ReferenceSpaceType) String() string {
	if int(t) < len(referenceSpaceNames) {
		return referenceSpaceNames[t]
	}
	return fmt.Sprintf("ReferenceSpaceType(%d)", int(t))
}

func ParseReferenceSpaceType(s string) (ReferenceSpaceType, error) {
	for i, name := range referenceSpaceNames {
		if name == s {
			return ReferenceSpaceType(i), nil
		}
	}
	return 0, fmt.Errorf("%w: reference space %q", ErrNotSupported, s)
}

type Eye int

const (
	EyeLeft Eye = iota
	EyeRight
	EyeNone
)

func (e Eye) String() string {
	switch e {
	case EyeLeft:
		return "left"
	case EyeRight:
		return "right"
	}
	return "none"
}

// EyeForView maps a view index to its eye.
func EyeForView(index uint32) Eye {
	switch index {
	case 0:
		return EyeLeft
	case 1:
		return EyeRight
	}
	return EyeNone
}

type SpaceSubType int

const (
	SubTypeUnset SpaceSubType = iota - 1
	SubTypeGrip
	SubTypeTargetRay
)

type Handedness int

const (
	HandLeft Handedness = iota
	HandRight
	HandNone
)

func (h Handedness) String() string {
	switch h {
	case HandLeft:
		return "left"
	case HandRight:
		return "right"
	}
	return "none"
}

type TargetRayMode int

const (
	TargetRayGaze TargetRayMode = iota
	TargetRayTrackedPointer
	TargetRayScreen
	TargetRayTransientPointer
)

func (m TargetRayMode) String() string {
	switch m {
	case TargetRayGaze:
		return "gaze"
	case TargetRayTrackedPointer:
		return "tracked-pointer"
	case TargetRayScreen:
		return "screen"
	case TargetRayTransientPointer:
		return "transient-pointer"
	}
	return "unknown"
}

type EnvironmentBlendMode int

const (
	BlendOpaque EnvironmentBlendMode = iota
	BlendAdditive
	BlendAlphaBlend
)

func (m EnvironmentBlendMode) String() string {
	switch m {
	case BlendAdditive:
		return "additive"
	case BlendAlphaBlend:
		return "alpha-blend"
	}
	return "opaque"
}

type VisibilityState int

const (
	Visible VisibilityState = iota
	VisibleBlurred
	Hidden
)

func (v VisibilityState) String() string {
	switch v {
	case VisibleBlurred:
		return "visible-blurred"
	case Hidden:
		return "hidden"
	}
	return "visible"
}
