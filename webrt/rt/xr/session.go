package xr

import (
	"context"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/gekko3d/remotegl/webrt/rt/cmdbuf"
	"github.com/gekko3d/remotegl/webrt/rt/core"
	"github.com/gekko3d/remotegl/webrt/rt/events"

	"github.com/google/uuid"
)

const (
	EventEnd                = "end"
	EventVisibilityChange   = "visibilitychange"
	EventInputSourcesChange = "inputsourceschange"
	EventSelectStart        = "selectstart"
	EventSelect             = "select"
	EventSelectEnd          = "selectend"
	EventSqueezeStart       = "squeezestart"
	EventSqueeze            = "squeeze"
	EventSqueezeEnd         = "squeezeend"
)

const (
	DefaultDepthNear = 0.1
	DefaultDepthFar  = 1000

	minInlineFOV = 0.01
	maxInlineFOV = 3.13
)

// Event is delivered to session listeners. Only the fields relevant to Type
// are set.
type Event struct {
	Type        string
	Session     *Session
	Frame       *Frame
	InputSource *InputSource
	Added       []*InputSource
	Removed     []*InputSource
}

type FrameCallback func(timestamp float64, frame *Frame)

type frameCallback struct {
	handle    uint32
	fn        FrameCallback
	cancelled bool
}

type RenderState struct {
	BaseLayer                 *WebGLLayer
	DepthNear                 float32
	DepthFar                  float32
	InlineVerticalFieldOfView float32
}

// RenderStateInit holds the fields to change. Nil fields keep their value.
type RenderStateInit struct {
	BaseLayer                 *WebGLLayer
	DepthNear                 *float32
	DepthFar                  *float32
	InlineVerticalFieldOfView *float32
}

type SessionInit struct {
	RequiredFeatures []string
	OptionalFeatures []string
}

func DefaultSessionInit() SessionInit {
	return SessionInit{RequiredFeatures: []string{"viewer"}}
}

// Session is one XR presentation. All methods run on the engine goroutine.
type Session struct {
	id          uint32
	instance    uuid.UUID
	mode        SessionMode
	multipass   bool
	contentSize float32
	features    []string

	system *System
	log    core.Logger
	clock  func() time.Time

	ended       bool
	renderState RenderState
	pending     *RenderState

	nextHandle       uint32
	pendingCallbacks []*frameCallback
	currentCallbacks []*frameCallback
	frame            *Frame

	viewerSpace *ReferenceSpace
	viewSpaces  [2]*ViewSpace
	inputs      InputSourceArray
	events      *events.Target[*Event]
	visibility  VisibilityState
}

func newSession(x *System, res *cmdbuf.RequestSessionResponse, mode SessionMode, init SessionInit) *Session {
	s := &Session{
		id:          res.SessionID,
		instance:    uuid.New(),
		mode:        mode,
		multipass:   res.Multipass,
		contentSize: res.RecommendedContentSize,
		features:    enabledFeatures(init),
		system:      x,
		log:         x.log,
		clock:       x.clock,
		events:      events.NewTarget[*Event](x.loop),
		renderState: RenderState{DepthNear: DefaultDepthNear, DepthFar: DefaultDepthFar},
	}
	if mode == Inline {
		s.renderState.InlineVerticalFieldOfView = math.Pi / 2
	}
	s.viewerSpace = newReferenceSpace(Viewer)
	s.viewSpaces[EyeLeft] = newViewSpace(EyeLeft, s.multipass)
	s.viewSpaces[EyeRight] = newViewSpace(EyeRight, s.multipass)
	return s
}

func enabledFeatures(init SessionInit) []string {
	var out []string
	for _, f := range append(slices.Clone(init.RequiredFeatures), init.OptionalFeatures...) {
		if !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}

func (s *Session) ID() uint32 { return s.id }

func (s *Session) InstanceID() uuid.UUID { return s.instance }

func (s *Session) Mode() SessionMode { return s.mode }

func (s *Session) Immersive() bool { return s.mode != Inline }

func (s *Session) Multipass() bool { return s.multipass }

func (s *Session) RecommendedContentSize() float32 { return s.contentSize }

func (s *Session) EnabledFeatures() []string { return slices.Clone(s.features) }

func (s *Session) Ended() bool { return s.ended }

func (s *Session) RenderState() RenderState { return s.renderState }

func (s *Session) InputSources() *InputSourceArray { return &s.inputs }

func (s *Session) VisibilityState() VisibilityState { return s.visibility }

func (s *Session) EnvironmentBlendMode() EnvironmentBlendMode {
	if s.mode == ImmersiveAR {
		return BlendAlphaBlend
	}
	return BlendOpaque
}

// ViewSpace returns the view space that follows eye.
func (s *Session) ViewSpace(eye Eye) *ViewSpace {
	if eye != EyeLeft && eye != EyeRight {
		return nil
	}
	return s.viewSpaces[eye]
}

// On registers a listener for one of the Event* types.
func (s *Session) On(typ string, fn events.Listener[*Event]) func() {
	return s.events.On(typ, fn)
}

func (s *Session) dispatch(ctx context.Context, ev *Event) {
	ev.Session = s
	if !s.events.Dispatch(ctx, ev.Type, ev) {
		s.log.Warnf("session %d: %s event dropped", s.id, ev.Type)
	}
}

// SetVisibilityState is driven by the device.
func (s *Session) SetVisibilityState(ctx context.Context, v VisibilityState) {
	if v == s.visibility {
		return
	}
	s.visibility = v
	s.dispatch(ctx, &Event{Type: EventVisibilityChange})
}

// RequestAnimationFrame schedules fn for the next frame and returns a
// handle for CancelAnimationFrame.
func (s *Session) RequestAnimationFrame(fn FrameCallback) (uint32, error) {
	if s.ended {
		return 0, ErrSessionEnded
	}
	if fn == nil {
		return 0, fmt.Errorf("%w: nil frame callback", ErrInvalidState)
	}
	s.nextHandle++
	s.pendingCallbacks = append(s.pendingCallbacks, &frameCallback{handle: s.nextHandle, fn: fn})
	return s.nextHandle, nil
}

// CancelAnimationFrame drops a pending callback, or stops a callback of the
// running frame from being called.
func (s *Session) CancelAnimationFrame(handle uint32) {
	for i, cb := range s.pendingCallbacks {
		if cb.handle == handle {
			s.pendingCallbacks = slices.Delete(s.pendingCallbacks, i, i+1)
			return
		}
	}
	for _, cb := range s.currentCallbacks {
		if cb.handle == handle {
			cb.cancelled = true
			return
		}
	}
}

// RequestReferenceSpace creates a reference space. Inline sessions only
// offer the viewer space unless other types were requested as features;
// floor and unbounded spaces always need their feature.
func (s *Session) RequestReferenceSpace(typ ReferenceSpaceType) (*ReferenceSpace, error) {
	if s.ended {
		return nil, ErrSessionEnded
	}
	switch typ {
	case Viewer:
	case Local:
		if !s.Immersive() && !slices.Contains(s.features, typ.String()) {
			return nil, fmt.Errorf("%w: %s space on an inline session", ErrNotSupported, typ)
		}
	case LocalFloor, BoundedFloor, Unbounded:
		if !slices.Contains(s.features, typ.String()) {
			return nil, fmt.Errorf("%w: %s space was not requested", ErrNotSupported, typ)
		}
	default:
		return nil, fmt.Errorf("%w: reference space %d", ErrNotSupported, int(typ))
	}
	return newReferenceSpace(typ), nil
}

// UpdateRenderState queues a render state change for the next frame.
func (s *Session) UpdateRenderState(init RenderStateInit) error {
	if s.ended {
		return ErrSessionEnded
	}
	if init.BaseLayer != nil && init.BaseLayer.session != s {
		return fmt.Errorf("%w: base layer belongs to another session", ErrInvalidState)
	}
	fov := init.InlineVerticalFieldOfView
	if fov != nil {
		if s.Immersive() {
			return fmt.Errorf("%w: inlineVerticalFieldOfView on an immersive session", ErrInvalidState)
		}
		clamped := min(max(*fov, minInlineFOV), maxInlineFOV)
		fov = &clamped
	}

	if s.pending == nil {
		next := s.renderState
		s.pending = &next
	}
	if init.BaseLayer != nil {
		s.pending.BaseLayer = init.BaseLayer
	}
	if init.DepthNear != nil {
		s.pending.DepthNear = *init.DepthNear
	}
	if init.DepthFar != nil {
		s.pending.DepthFar = *init.DepthFar
	}
	if fov != nil {
		s.pending.InlineVerticalFieldOfView = *fov
	}
	return nil
}

// OnFrame runs one animation frame: it applies the pending render state,
// starts the frame, reconciles input sources, calls the callbacks requested
// before the frame and ends it. Frames for other sessions are ignored.
func (s *Session) OnFrame(ctx context.Context, req *FrameRequest) {
	if s.ended {
		s.log.Debugf("session %d: frame #%d skipped, session ended", s.id, req.FrameID)
		return
	}
	if req.SessionID != s.id {
		s.log.Debugf("session %d: frame #%d belongs to session %d", s.id, req.FrameID, req.SessionID)
		return
	}

	if s.pending != nil {
		prev := s.renderState.BaseLayer
		s.renderState = *s.pending
		s.pending = nil
		if prev != nil && prev != s.renderState.BaseLayer {
			prev.detach()
		}
		s.system.updateRenderState(ctx, s)
	}
	layer := s.renderState.BaseLayer
	if layer == nil {
		s.log.Debugf("session %d: frame #%d skipped, no base layer", s.id, req.FrameID)
		return
	}

	s.currentCallbacks = s.pendingCallbacks
	s.pendingCallbacks = nil

	frame := newFrame(s, req)
	s.frame = frame
	frame.start()
	layer.begin(frame)
	defer func() {
		s.currentCallbacks = nil
		frame.end()
		layer.finish()
		s.frame = nil
	}()

	s.inputs.Reconcile(&req.Snapshot,
		func(removed []*InputSource) {
			s.dispatch(ctx, &Event{Type: EventInputSourcesChange, Frame: frame, Removed: removed})
		},
		func(added []*InputSource) {
			s.dispatch(ctx, &Event{Type: EventInputSourcesChange, Frame: frame, Added: added})
		})
	for _, edge := range s.inputs.actionEdges(&req.Snapshot) {
		s.dispatch(ctx, &Event{Type: edge.Type, Frame: frame, InputSource: edge.Source})
	}

	for _, cb := range s.currentCallbacks {
		if !cb.cancelled {
			s.runCallback(cb, req.Timestamp, frame)
		}
	}
}

// runCallback calls one frame callback. A panic is logged and the remaining
// callbacks of the frame still run.
func (s *Session) runCallback(cb *frameCallback, ts float64, frame *Frame) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Errorf("session %d: frame #%d callback %d panicked: %v", s.id, frame.ID, cb.handle, r)
		}
	}()
	cb.fn(ts, frame)
}

// End stops the session. Further frames are ignored and the base layer is
// detached from its context.
func (s *Session) End(ctx context.Context) error {
	if s.ended {
		return nil
	}
	s.ended = true
	s.pendingCallbacks = nil
	if layer := s.renderState.BaseLayer; layer != nil {
		layer.detach()
	}
	for _, src := range s.inputs.sources {
		src.released = true
	}
	s.inputs.sources = nil
	err := s.system.endSession(ctx, s)
	s.dispatch(ctx, &Event{Type: EventEnd})
	return err
}
