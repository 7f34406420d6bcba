package xr

import (
	"fmt"

	"github.com/gekko3d/remotegl/webrt/rt/cmdbuf"
	"github.com/gekko3d/remotegl/webrt/rt/gl"
)

type LayerInit struct {
	Antialias              bool
	Depth                  bool
	Stencil                bool
	Alpha                  bool
	IgnoreDepthValues      bool
	FramebufferScaleFactor float32
}

func DefaultLayerInit() LayerInit {
	return LayerInit{Antialias: true, Depth: true, Alpha: true, FramebufferScaleFactor: 1}
}

// WebGLLayer connects a session to the GL context it renders with. While an
// animation frame runs, the context stamps its commands with the frame.
type WebGLLayer struct {
	session *Session
	ctx     *gl.Context
	init    LayerInit
	frame   *Frame
}

// NewWebGLLayer attaches ctx to the session. The context must have been
// made XR compatible.
func NewWebGLLayer(s *Session, ctx *gl.Context, init LayerInit) (*WebGLLayer, error) {
	if s == nil || ctx == nil {
		return nil, fmt.Errorf("%w: layer needs a session and a context", ErrInvalidState)
	}
	if s.ended {
		return nil, ErrSessionEnded
	}
	if ctx.IsContextLost() {
		return nil, fmt.Errorf("%w: context is lost", ErrInvalidState)
	}
	if !ctx.GetContextAttributes().XRCompatible {
		return nil, fmt.Errorf("%w: context is not XR compatible", ErrInvalidState)
	}
	if init.FramebufferScaleFactor <= 0 {
		init.FramebufferScaleFactor = 1
	}
	l := &WebGLLayer{session: s, ctx: ctx, init: init}
	ctx.BindFrameSource(l)
	return l, nil
}

func (l *WebGLLayer) Session() *Session { return l.session }

func (l *WebGLLayer) Context() *gl.Context { return l.ctx }

func (l *WebGLLayer) Antialias() bool { return l.init.Antialias }

func (l *WebGLLayer) IgnoreDepthValues() bool { return l.init.IgnoreDepthValues }

func (l *WebGLLayer) FramebufferWidth() int32 {
	return int32(float32(l.ctx.DrawingBufferWidth()) * l.init.FramebufferScaleFactor)
}

func (l *WebGLLayer) FramebufferHeight() int32 {
	return int32(float32(l.ctx.DrawingBufferHeight()) * l.init.FramebufferScaleFactor)
}

// GetViewport splits the framebuffer side by side for stereo sessions and
// gives multipass views the whole of it.
func (l *WebGLLayer) GetViewport(v View) cmdbuf.Viewport {
	w, h := l.FramebufferWidth(), l.FramebufferHeight()
	if l.session.multipass || v.Eye == EyeNone {
		return cmdbuf.Viewport{Width: w, Height: h}
	}
	half := w / 2
	return cmdbuf.Viewport{X: int32(v.Eye) * half, Width: half, Height: h}
}

// ActiveFrame implements gl.FrameSource.
func (l *WebGLLayer) ActiveFrame() (cmdbuf.FrameMeta, bool) {
	if l.frame == nil || !l.frame.active {
		return cmdbuf.FrameMeta{}, false
	}
	return l.frame.meta(), true
}

func (l *WebGLLayer) begin(f *Frame) { l.frame = f }

func (l *WebGLLayer) finish() { l.frame = nil }

// detach unbinds the layer from its context.
func (l *WebGLLayer) detach() {
	l.frame = nil
	l.ctx.BindFrameSource(nil)
}
