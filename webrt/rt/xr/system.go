package xr

import (
	"context"
	"fmt"
	"time"

	"github.com/gekko3d/remotegl/webrt/rt/channel"
	"github.com/gekko3d/remotegl/webrt/rt/cmdbuf"
	"github.com/gekko3d/remotegl/webrt/rt/core"
	"github.com/gekko3d/remotegl/webrt/rt/events"
	"github.com/gekko3d/remotegl/webrt/rt/gl"
)

type SystemOptions struct {
	// Loop receives frames delivered from other goroutines. A private loop
	// is created when nil.
	Loop            *events.Loop
	Logger          core.Logger
	ResponseTimeout time.Duration
	Clock           func() time.Time
}

// System requests sessions from the XR device and routes frame ticks to
// them. Apart from Deliver, it is used from the engine goroutine only.
type System struct {
	ch       gl.Sender
	loop     *events.Loop
	log      core.Logger
	timeout  time.Duration
	clock    func() time.Time
	sessions map[uint32]*Session
}

func NewSystem(ch gl.Sender, opts SystemOptions) *System {
	x := &System{
		ch:       ch,
		loop:     opts.Loop,
		log:      core.OrNop(opts.Logger),
		timeout:  opts.ResponseTimeout,
		clock:    opts.Clock,
		sessions: make(map[uint32]*Session),
	}
	if x.loop == nil {
		x.loop = events.NewLoop(events.Options{Logger: x.log})
	}
	if x.timeout <= 0 {
		x.timeout = channel.DefaultResponseTimeout
	}
	if x.clock == nil {
		x.clock = time.Now
	}
	return x
}

func (x *System) Loop() *events.Loop { return x.loop }

func (x *System) IsSessionSupported(ctx context.Context, mode SessionMode) (bool, error) {
	res, err := x.ch.SendAndWait(ctx, &cmdbuf.IsSessionSupportedRequest{Mode: mode},
		cmdbuf.CmdXRIsSessionSupportedRes, x.timeout)
	if err != nil {
		return false, fmt.Errorf("isSessionSupported(%s): %w", mode, err)
	}
	return res.(*cmdbuf.IsSessionSupportedResponse).Supported, nil
}

// RequestSession asks the device for a session. A refusal is
// ErrNotSupported.
func (x *System) RequestSession(ctx context.Context, mode SessionMode, init SessionInit) (*Session, error) {
	res, err := x.ch.SendAndWait(ctx, &cmdbuf.RequestSessionRequest{
		Mode:             mode,
		RequiredFeatures: init.RequiredFeatures,
		OptionalFeatures: init.OptionalFeatures,
	}, cmdbuf.CmdXRRequestSessionRes, x.timeout)
	if err != nil {
		return nil, fmt.Errorf("requestSession(%s): %w", mode, err)
	}
	sr := res.(*cmdbuf.RequestSessionResponse)
	if !sr.Success || sr.SessionID == 0 {
		return nil, fmt.Errorf("requestSession(%s): %w", mode, ErrNotSupported)
	}
	if _, dup := x.sessions[sr.SessionID]; dup {
		return nil, fmt.Errorf("requestSession(%s): %w: session %d already open", mode, ErrInvalidState, sr.SessionID)
	}
	s := newSession(x, sr, mode, init)
	x.sessions[s.id] = s
	x.log.Infof("xr session %d (%s) started, instance %s", s.id, mode, s.instance)
	return s, nil
}

func (x *System) Session(id uint32) *Session { return x.sessions[id] }

// Deliver hands a frame tick to the engine goroutine. It is safe to call
// from any goroutine and never blocks; false means the frame was dropped.
func (x *System) Deliver(req *FrameRequest) bool {
	if req == nil {
		return true
	}
	return x.loop.Post(func(ctx context.Context) {
		x.DispatchFrame(ctx, req)
	})
}

// DispatchFrame routes req to its session on the calling goroutine. Ticks
// without a session id or for unknown sessions are skipped.
func (x *System) DispatchFrame(ctx context.Context, req *FrameRequest) {
	if req.SessionID == 0 {
		x.log.Debugf("frame #%d skipped, no session id", req.FrameID)
		return
	}
	s, ok := x.sessions[req.SessionID]
	if !ok {
		x.log.Debugf("frame #%d skipped, session %d is not open", req.FrameID, req.SessionID)
		return
	}
	s.OnFrame(ctx, req)
}

func (x *System) updateRenderState(ctx context.Context, s *Session) {
	rs := s.renderState
	req := &cmdbuf.UpdateRenderStateRequest{
		SessionID:                 s.id,
		DepthNear:                 rs.DepthNear,
		DepthFar:                  rs.DepthFar,
		InlineVerticalFieldOfView: rs.InlineVerticalFieldOfView,
	}
	if rs.BaseLayer != nil {
		req.LayerContextID = rs.BaseLayer.ctx.ID()
	}
	if err := x.ch.Send(ctx, req); err != nil {
		x.log.Warnf("session %d: render state not sent: %v", s.id, err)
	}
}

func (x *System) endSession(ctx context.Context, s *Session) error {
	delete(x.sessions, s.id)
	if err := x.ch.Send(ctx, &cmdbuf.EndSessionRequest{SessionID: s.id}); err != nil {
		return fmt.Errorf("end session %d: %w", s.id, err)
	}
	x.log.Infof("xr session %d ended", s.id)
	return nil
}
