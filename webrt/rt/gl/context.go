// Package gl implements the WebGL and WebGL2 rendering contexts on top of the
// command channel. Calls become command buffers executed by the host; the
// context keeps just enough local state to answer the queries that must not
// cost a round trip.
package gl

import (
	"context"
	"fmt"
	"time"

	"github.com/gekko3d/remotegl/webrt/rt/channel"
	"github.com/gekko3d/remotegl/webrt/rt/cmdbuf"
	"github.com/gekko3d/remotegl/webrt/rt/core"
	"github.com/gekko3d/remotegl/webrt/rt/handle"
	"github.com/gekko3d/remotegl/webrt/rt/placeholder"

	"github.com/google/uuid"
	"go.uber.org/atomic"
)

type ContextAttributes = cmdbuf.ContextAttributes

func DefaultContextAttributes() ContextAttributes {
	return ContextAttributes{
		Alpha:           true,
		Depth:           true,
		Antialias:       true,
		XRCompatible:    true,
		PowerPreference: "default",
	}
}

// Sender is the part of *channel.Channel a context needs.
type Sender interface {
	Send(ctx context.Context, req cmdbuf.Request, opts ...channel.SendOption) error
	SendAndWait(ctx context.Context, req cmdbuf.Request, want cmdbuf.CommandType,
		timeout time.Duration, opts ...channel.SendOption) (cmdbuf.Response, error)
}

// Allocator hands out object and context ids. *handle.Allocator satisfies it.
type Allocator interface {
	NewHandle(kind handle.Kind) handle.Handle
	NextContextID() (uint8, error)
	ReleaseContextID(id uint8)
}

// FrameSource reports the XR animation frame currently running for a
// context, if any. The XR layer that renders into the context provides it.
type FrameSource interface {
	ActiveFrame() (cmdbuf.FrameMeta, bool)
}

type Options struct {
	Attributes      ContextAttributes
	Names           *placeholder.NameTable
	Logger          core.Logger
	InitTimeout     time.Duration
	ResponseTimeout time.Duration
}

// Context is a WebGL1 rendering context. It is driven from a single
// goroutine.
type Context struct {
	id       uint8
	instance uuid.UUID
	webgl2   bool

	ch    Sender
	alloc Allocator
	names *placeholder.NameTable
	log   core.Logger

	base   context.Context
	cancel context.CancelFunc
	lost   bool

	attrs           ContextAttributes
	responseTimeout time.Duration

	drawingBuffer cmdbuf.Viewport
	viewport      cmdbuf.Viewport
	scissor       cmdbuf.Viewport
	limits        cmdbuf.ContextLimits
	limits2       cmdbuf.Context2Limits
	vendor        string
	version       string
	renderer      string

	state      ClientState
	unpack     UnpackState
	enabled    map[uint32]bool
	lastError  uint32
	handedness placeholder.Handedness
	frames     FrameSource
	painted    atomic.Bool

	programs           *handle.Table[*Program]
	shaders            *handle.Table[*Shader]
	buffers            *handle.Table[*Buffer]
	framebuffers       *handle.Table[*Framebuffer]
	renderbuffers      *handle.Table[*Renderbuffer]
	textures           *handle.Table[*Texture]
	vertexArrays       *handle.Table[*VertexArray]
	queries            *handle.Table[*Query]
	samplers           *handle.Table[*Sampler]
	transformFeedbacks *handle.Table[*TransformFeedback]
}

// NewContext opens a WebGL1 context on the host. It blocks until the host
// answers with the drawing buffer size and limits; a timeout is fatal.
func NewContext(ctx context.Context, ch Sender, alloc Allocator, opts Options) (*Context, error) {
	return newContext(ctx, ch, alloc, opts, false)
}

func newContext(ctx context.Context, ch Sender, alloc Allocator, opts Options, webgl2 bool) (*Context, error) {
	id, err := alloc.NextContextID()
	if err != nil {
		return nil, fmt.Errorf("gl: new context: %w", err)
	}
	base, cancel := context.WithCancel(context.WithoutCancel(ctx))
	c := &Context{
		id:                 id,
		instance:           uuid.New(),
		webgl2:             webgl2,
		ch:                 ch,
		alloc:              alloc,
		names:              opts.Names,
		log:                core.OrNop(opts.Logger),
		base:               base,
		cancel:             cancel,
		attrs:              opts.Attributes,
		responseTimeout:    opts.ResponseTimeout,
		state:              newClientState(),
		unpack:             DefaultUnpackState(),
		enabled:            map[uint32]bool{Dither: true},
		programs:           handle.NewTable[*Program](handle.Program),
		shaders:            handle.NewTable[*Shader](handle.Shader),
		buffers:            handle.NewTable[*Buffer](handle.Buffer),
		framebuffers:       handle.NewTable[*Framebuffer](handle.Framebuffer),
		renderbuffers:      handle.NewTable[*Renderbuffer](handle.Renderbuffer),
		textures:           handle.NewTable[*Texture](handle.Texture),
		vertexArrays:       handle.NewTable[*VertexArray](handle.VertexArray),
		queries:            handle.NewTable[*Query](handle.Query),
		samplers:           handle.NewTable[*Sampler](handle.Sampler),
		transformFeedbacks: handle.NewTable[*TransformFeedback](handle.TransformFeedback),
	}
	if c.names == nil {
		c.names = placeholder.NewDefaultNameTable()
	}
	if c.responseTimeout <= 0 {
		c.responseTimeout = channel.DefaultResponseTimeout
	}
	initTimeout := opts.InitTimeout
	if initTimeout <= 0 {
		initTimeout = channel.DefaultInitTimeout
	}

	req := &cmdbuf.ContextInitRequest{Op: cmdbuf.CmdWebGLContextInit, Attributes: c.attrs}
	want := cmdbuf.CmdWebGLContextInitRes
	if webgl2 {
		req.Op, want = cmdbuf.CmdWebGL2ContextInit, cmdbuf.CmdWebGL2ContextInitRes
	}
	req.ContextID = c.id

	start := time.Now()
	res, err := ch.SendAndWait(ctx, req, want, initTimeout)
	if err != nil {
		cancel()
		alloc.ReleaseContextID(c.id)
		return nil, fmt.Errorf("gl: initialize context %d: %w", c.id, err)
	}
	init := res.(*cmdbuf.ContextInitResponse)
	c.drawingBuffer = init.DrawingViewport
	c.viewport = init.DrawingViewport
	c.scissor = init.DrawingViewport
	c.limits = init.Limits
	c.limits2 = init.Limits2
	c.vendor, c.version, c.renderer = init.Vendor, init.Version, init.Renderer
	c.log.Infof("gl: context %d (%s) ready in %s: %dx%d %s", c.id, c.instance,
		time.Since(start).Round(time.Millisecond), init.DrawingViewport.Width, init.DrawingViewport.Height, c.renderer)
	return c, nil
}

func (c *Context) ID() uint8 {
	return c.id
}

// InstanceID identifies this context in logs across reconnects.
func (c *Context) InstanceID() uuid.UUID {
	return c.instance
}

func (c *Context) IsWebGL2() bool {
	return c.webgl2
}

func (c *Context) Limits() cmdbuf.ContextLimits {
	return c.limits
}

func (c *Context) GetContextAttributes() ContextAttributes {
	return c.attrs
}

func (c *Context) DrawingBufferWidth() int32 {
	return c.drawingBuffer.Width
}

func (c *Context) DrawingBufferHeight() int32 {
	return c.drawingBuffer.Height
}

func (c *Context) IsContextLost() bool {
	return c.lost
}

// BindFrameSource attaches the XR layer that renders into this context. Pass
// nil to detach.
func (c *Context) BindFrameSource(src FrameSource) {
	c.frames = src
}

func (c *Context) activeFrame() (cmdbuf.FrameMeta, bool) {
	if c.frames == nil {
		return cmdbuf.FrameMeta{}, false
	}
	return c.frames.ActiveFrame()
}

// InXRFrame reports whether an XR animation frame is running on this context.
func (c *Context) InXRFrame() bool {
	_, ok := c.activeFrame()
	return ok
}

// SetDefaultCoordHandedness sets the handedness stamped on matrix
// placeholders. Accepts "left" or "right".
func (c *Context) SetDefaultCoordHandedness(s string) error {
	h, err := placeholder.ParseHandedness(s)
	if err != nil {
		return c.invalid("setDefaultCoordHandedness", "%v", err)
	}
	c.handedness = h
	return nil
}

func (c *Context) DefaultCoordHandedness() placeholder.Handedness {
	return c.handedness
}

func (c *Context) MakeXRCompatible() error {
	c.attrs.XRCompatible = true
	return c.setup(&cmdbuf.MakeXRCompatibleRequest{})
}

// stream sends a per-frame call. Inside an XR frame it carries the frame
// metadata, and draw calls are followed by a flush.
func (c *Context) stream(req cmdbuf.Request) error {
	if c.lost {
		return ErrContextLost
	}
	req.Header().ContextID = c.id
	if meta, ok := c.activeFrame(); ok {
		return c.ch.Send(c.base, req, channel.WithFrame(meta))
	}
	return c.ch.Send(c.base, req)
}

// setup sends a resource call that is not tied to a frame.
func (c *Context) setup(req cmdbuf.Request) error {
	if c.lost {
		return ErrContextLost
	}
	req.Header().ContextID = c.id
	return c.ch.Send(c.base, req)
}

func (c *Context) query(req cmdbuf.Request, want cmdbuf.CommandType) (cmdbuf.Response, error) {
	if c.lost {
		return nil, ErrContextLost
	}
	req.Header().ContextID = c.id
	res, err := c.ch.SendAndWait(c.base, req, want, c.responseTimeout)
	if err != nil {
		c.log.Warnf("gl: context %d: %s failed: %v", c.id, req.Type(), err)
		return nil, err
	}
	return res, nil
}

func (c *Context) queryValue(req cmdbuf.Request, want cmdbuf.CommandType) (int32, error) {
	res, err := c.query(req, want)
	if err != nil {
		return 0, err
	}
	return res.(*cmdbuf.ParameterResponse).Value, nil
}

func (c *Context) queryText(req cmdbuf.Request, want cmdbuf.CommandType) (string, error) {
	res, err := c.query(req, want)
	if err != nil {
		return "", err
	}
	return res.(*cmdbuf.TextResponse).Text, nil
}

func (c *Context) Flush() error {
	return c.stream(&cmdbuf.FlushRequest{})
}

func (c *Context) Finish() error {
	return c.stream(&cmdbuf.FinishRequest{})
}

// GetError returns and clears the local error slot. When it is empty the
// host is asked.
func (c *Context) GetError() (uint32, error) {
	if c.lastError != NoError {
		code := c.lastError
		c.lastError = NoError
		return code, nil
	}
	v, err := c.queryValue(&cmdbuf.EnumRequest{Op: cmdbuf.CmdGetError}, cmdbuf.CmdGetErrorRes)
	return uint32(v), err
}

// Close marks the context lost and releases every object it owns. The host
// is not contacted.
func (c *Context) Close() error {
	if c.lost {
		return nil
	}
	c.lost = true
	c.cancel()
	c.alloc.ReleaseContextID(c.id)
	n := c.programs.Release() + c.shaders.Release() + c.buffers.Release() +
		c.framebuffers.Release() + c.renderbuffers.Release() + c.textures.Release() +
		c.vertexArrays.Release() + c.queries.Release() + c.samplers.Release() +
		c.transformFeedbacks.Release()
	c.state = newClientState()
	c.log.Debugf("gl: context %d closed, released %d objects", c.id, n)
	return nil
}
