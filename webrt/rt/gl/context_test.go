package gl_test

import (
	"context"
	"testing"
	"time"

	"github.com/gekko3d/remotegl/webrt/rt/channel"
	"github.com/gekko3d/remotegl/webrt/rt/channel/channeltest"
	"github.com/gekko3d/remotegl/webrt/rt/cmdbuf"
	"github.com/gekko3d/remotegl/webrt/rt/gl"
	"github.com/gekko3d/remotegl/webrt/rt/handle"
	"github.com/gekko3d/remotegl/webrt/rt/placeholder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFrame struct {
	meta   cmdbuf.FrameMeta
	active bool
}

func (f *fakeFrame) ActiveFrame() (cmdbuf.FrameMeta, bool) {
	return f.meta, f.active
}

func initHandler(op cmdbuf.CommandType) channeltest.Handler {
	return func(req cmdbuf.Request) cmdbuf.Response {
		return &cmdbuf.ContextInitResponse{
			Op:              op,
			DrawingViewport: cmdbuf.Viewport{Width: 800, Height: 600},
			Limits: cmdbuf.ContextLimits{
				MaxCombinedTextureImageUnits: 32,
				MaxVertexAttribs:             16,
				MaxTextureSize:               4096,
			},
			Limits2:  cmdbuf.Context2Limits{MaxDrawBuffers: 4, MaxUniformBlockSize: 1 << 16},
			Vendor:   "remotegl",
			Renderer: "fake host",
			Version:  "WebGL 1.0",
		}
	}
}

func newHost() (*channeltest.Host, *channel.Channel, *handle.Allocator) {
	alloc := handle.NewAllocator(handle.DefaultReservedIDs)
	host := channeltest.NewHost()
	host.Handle(cmdbuf.CmdWebGLContextInit, initHandler(cmdbuf.CmdWebGLContextInitRes))
	host.Handle(cmdbuf.CmdWebGL2ContextInit, initHandler(cmdbuf.CmdWebGL2ContextInitRes))
	return host, channel.New(host, channel.Options{IDs: alloc}), alloc
}

func newContext(t *testing.T) (*gl.Context, *channeltest.Host) {
	t.Helper()
	host, ch, alloc := newHost()
	c, err := gl.NewContext(context.Background(), ch, alloc, gl.Options{ResponseTimeout: 50 * time.Millisecond})
	require.NoError(t, err)
	host.Reset()
	return c, host
}

func linkedProgram(t *testing.T, c *gl.Context, host *channeltest.Host, res *cmdbuf.LinkProgramResponse) *gl.Program {
	t.Helper()
	host.Handle(cmdbuf.CmdLinkProgram, func(cmdbuf.Request) cmdbuf.Response { return res })
	p, err := c.CreateProgram()
	require.NoError(t, err)
	require.NoError(t, c.LinkProgram(p))
	return p
}

func TestNewContextReadsLimits(t *testing.T) {
	c, _ := newContext(t)

	assert.NotZero(t, c.ID())
	assert.Equal(t, int32(800), c.DrawingBufferWidth())
	assert.Equal(t, int32(600), c.DrawingBufferHeight())
	assert.Equal(t, int32(16), c.Limits().MaxVertexAttribs)
	renderer, err := c.GetParameter(gl.Renderer)
	require.NoError(t, err)
	assert.Equal(t, "fake host", renderer)
}

func TestNewContextTimesOut(t *testing.T) {
	alloc := handle.NewAllocator(handle.DefaultReservedIDs)
	host := channeltest.NewHost()
	ch := channel.New(host, channel.Options{IDs: alloc})

	_, err := gl.NewContext(context.Background(), ch, alloc, gl.Options{InitTimeout: 20 * time.Millisecond})
	assert.ErrorIs(t, err, channel.ErrProtocolTimeout)
}

func TestBindAfterDeleteIsNoop(t *testing.T) {
	c, host := newContext(t)

	b, err := c.CreateBuffer()
	require.NoError(t, err)
	require.NoError(t, c.BindBuffer(gl.ArrayBuffer, b))
	assert.Same(t, b, c.State().ArrayBuffer)

	require.NoError(t, c.DeleteBuffer(b))
	assert.True(t, b.IsDeleted())
	assert.False(t, c.IsBuffer(b))

	other, err := c.CreateBuffer()
	require.NoError(t, err)
	require.NoError(t, c.BindBuffer(gl.ArrayBuffer, other))
	before := host.Count(cmdbuf.CmdBindBuffer)

	require.NoError(t, c.BindBuffer(gl.ArrayBuffer, b))
	require.NoError(t, c.DeleteBuffer(b))
	assert.Same(t, other, c.State().ArrayBuffer)
	assert.Equal(t, before, host.Count(cmdbuf.CmdBindBuffer))
	assert.Equal(t, 1, host.Count(cmdbuf.CmdDeleteBuffer))
}

func TestUseDeletedProgramIsNoop(t *testing.T) {
	c, host := newContext(t)

	p, err := c.CreateProgram()
	require.NoError(t, err)
	require.NoError(t, c.UseProgram(p))
	require.NoError(t, c.DeleteProgram(p))
	require.NoError(t, c.UseProgram(p))
	require.NoError(t, c.LinkProgram(p))

	assert.Same(t, p, c.State().Program)
	assert.Equal(t, 1, host.Count(cmdbuf.CmdUseProgram))
	assert.Zero(t, host.Count(cmdbuf.CmdLinkProgram))
}

func TestHandleIDsSkipReservedRange(t *testing.T) {
	c, host := newContext(t)

	b, err := c.CreateBuffer()
	require.NoError(t, err)
	assert.Greater(t, b.ID(), uint32(handle.DefaultReservedIDs))

	req := host.Last().(*cmdbuf.ObjectRequest)
	assert.Equal(t, b.ID(), req.ID)
	assert.Equal(t, c.ID(), req.ContextID)
}

func TestLinkStatusComesFromCache(t *testing.T) {
	c, host := newContext(t)

	vs, err := c.CreateShader(gl.VertexShader)
	require.NoError(t, err)
	fs, err := c.CreateShader(gl.FragmentShader)
	require.NoError(t, err)
	p, err := c.CreateProgram()
	require.NoError(t, err)
	for _, s := range []*gl.Shader{vs, fs} {
		require.NoError(t, c.ShaderSource(s, "void main() {}"))
		require.NoError(t, c.CompileShader(s))
		require.NoError(t, c.AttachShader(p, s))
	}
	host.Handle(cmdbuf.CmdLinkProgram, func(cmdbuf.Request) cmdbuf.Response {
		return &cmdbuf.LinkProgramResponse{Success: true}
	})
	require.NoError(t, c.LinkProgram(p))

	status, err := c.GetProgramParameter(p, gl.LinkStatus)
	require.NoError(t, err)
	assert.Equal(t, int32(1), status)
	assert.Equal(t, 1, host.Count(cmdbuf.CmdLinkProgram))
	assert.Zero(t, host.Count(cmdbuf.CmdGetProgramParameter))
}

func TestLinkFailureSetsStatusFalse(t *testing.T) {
	c, host := newContext(t)
	p := linkedProgram(t, c, host, &cmdbuf.LinkProgramResponse{Success: false})

	status, err := c.GetProgramParameter(p, gl.LinkStatus)
	require.NoError(t, err)
	assert.Zero(t, status)
	assert.False(t, p.LinkStatus())
}

func TestLinkTimeout(t *testing.T) {
	c, _ := newContext(t)

	p, err := c.CreateProgram()
	require.NoError(t, err)
	err = c.LinkProgram(p)
	assert.ErrorIs(t, err, channel.ErrProtocolTimeout)
	assert.False(t, p.LinkStatus())
}

func TestLinkPopulatesLocations(t *testing.T) {
	c, host := newContext(t)
	p := linkedProgram(t, c, host, &cmdbuf.LinkProgramResponse{
		Success:         true,
		ActiveAttribs:   []cmdbuf.ActiveInfo{{Name: "position", Size: 1, Type: 0x8B51}},
		ActiveUniforms:  []cmdbuf.ActiveInfo{{Name: "lights[0]", Size: 3, Type: 0x8B52}},
		AttribLocations: []cmdbuf.AttribLocation{{Name: "position", Location: 2}},
		UniformLocations: []cmdbuf.UniformLocation{
			{Name: "lights[0]", Location: 5, Size: 3},
			{Name: "color", Location: 1, Size: 1},
			{Name: "broken", Location: 9, Size: 2},
		},
	})

	assert.Equal(t, int32(2), c.GetAttribLocation(p, "position"))
	assert.Equal(t, int32(-1), c.GetAttribLocation(p, "normal"))

	info, ok := c.GetActiveAttrib(p, 0)
	require.True(t, ok)
	assert.Equal(t, "position", info.Name)
	_, ok = c.GetActiveUniform(p, 1)
	assert.False(t, ok)

	for name, want := range map[string]int32{"lights": 5, "lights[0]": 5, "lights[1]": 6, "lights[2]": 7, "color": 1} {
		loc := c.GetUniformLocation(p, name)
		require.NotNil(t, loc, name)
		assert.Equal(t, want, loc.Location, name)
	}
	assert.Equal(t, "lights", c.GetUniformLocation(p, "lights[2]").Name)
	assert.Nil(t, c.GetUniformLocation(p, "lights[3]"))
	assert.Nil(t, c.GetUniformLocation(p, "broken"))
}

func TestViewMatrixLiteralOutsideFrame(t *testing.T) {
	c, host := newContext(t)
	p := linkedProgram(t, c, host, &cmdbuf.LinkProgramResponse{
		Success:          true,
		UniformLocations: []cmdbuf.UniformLocation{{Name: "viewMatrix", Location: 3, Size: 1}},
	})
	loc := c.GetUniformLocation(p, "viewMatrix")
	matrix := make([]float32, 16)
	matrix[0], matrix[5], matrix[10], matrix[15] = 1, 1, 1, 1

	c.BindFrameSource(&fakeFrame{active: false})
	require.NoError(t, c.UniformMatrix4fv(loc, false, matrix))

	req := host.Last().(*cmdbuf.UniformMatrixRequest)
	assert.False(t, req.IsPlaceholder())
	assert.Equal(t, matrix, req.Values)
	assert.False(t, req.Frame.Active)
}

func TestViewMatrixPlaceholderInsideFrame(t *testing.T) {
	c, host := newContext(t)
	p := linkedProgram(t, c, host, &cmdbuf.LinkProgramResponse{
		Success: true,
		UniformLocations: []cmdbuf.UniformLocation{
			{Name: "viewMatrix", Location: 3, Size: 1},
			{Name: "modelMatrix", Location: 4, Size: 1},
		},
	})
	meta := cmdbuf.FrameMeta{Active: true, SessionID: 1, StereoID: 7, ViewIndex: 0, FrameID: 42}
	c.BindFrameSource(&fakeFrame{meta: meta, active: true})
	require.NoError(t, c.SetDefaultCoordHandedness("left"))
	matrix := make([]float32, 16)

	require.NoError(t, c.UniformMatrix4fv(c.GetUniformLocation(p, "viewMatrix"), false, matrix))
	req := host.Last().(*cmdbuf.UniformMatrixRequest)
	assert.Equal(t, placeholder.Graph{ID: placeholder.ViewMatrix, Handedness: placeholder.LeftHanded}, req.Graph)
	assert.Empty(t, req.Values)
	assert.Equal(t, meta, req.Frame)

	require.NoError(t, c.UniformMatrix4fv(c.GetUniformLocation(p, "modelMatrix"), false, matrix))
	req = host.Last().(*cmdbuf.UniformMatrixRequest)
	assert.False(t, req.IsPlaceholder())
	assert.Len(t, req.Values, 16)
}

func TestCustomNameTable(t *testing.T) {
	host, ch, alloc := newHost()
	names := placeholder.NewNameTable(placeholder.Entry{Name: "u_proj", ID: placeholder.ProjectionMatrix})
	c, err := gl.NewContext(context.Background(), ch, alloc, gl.Options{Names: names})
	require.NoError(t, err)

	p := linkedProgram(t, c, host, &cmdbuf.LinkProgramResponse{
		Success: true,
		UniformLocations: []cmdbuf.UniformLocation{
			{Name: "u_proj", Location: 0, Size: 1},
			{Name: "projection", Location: 1, Size: 1},
		},
	})
	c.BindFrameSource(&fakeFrame{meta: cmdbuf.FrameMeta{Active: true}, active: true})

	require.NoError(t, c.UniformMatrix4fv(c.GetUniformLocation(p, "u_proj"), false, make([]float32, 16)))
	assert.Equal(t, placeholder.ProjectionMatrix, host.Last().(*cmdbuf.UniformMatrixRequest).Graph.ID)

	require.NoError(t, c.UniformMatrix4fv(c.GetUniformLocation(p, "projection"), false, make([]float32, 16)))
	assert.False(t, host.Last().(*cmdbuf.UniformMatrixRequest).IsPlaceholder())
}

func TestUniformShapeViolation(t *testing.T) {
	c, host := newContext(t)
	p := linkedProgram(t, c, host, &cmdbuf.LinkProgramResponse{
		Success:          true,
		UniformLocations: []cmdbuf.UniformLocation{{Name: "m", Location: 0, Size: 1}},
	})
	loc := c.GetUniformLocation(p, "m")
	host.Reset()

	assert.ErrorIs(t, c.UniformMatrix4fv(loc, false, make([]float32, 15)), gl.ErrInvalidArgument)
	assert.ErrorIs(t, c.UniformMatrix3fv(loc, false, nil), gl.ErrInvalidArgument)
	assert.ErrorIs(t, c.Uniform3fv(loc, []float32{1, 2}), gl.ErrInvalidArgument)
	assert.Empty(t, host.Requests())

	code, err := c.GetError()
	require.NoError(t, err)
	assert.Equal(t, uint32(gl.InvalidValue), code)

	host.Handle(cmdbuf.CmdGetError, func(cmdbuf.Request) cmdbuf.Response {
		return &cmdbuf.ParameterResponse{Op: cmdbuf.CmdGetErrorRes, Value: gl.NoError}
	})
	code, err = c.GetError()
	require.NoError(t, err)
	assert.Equal(t, uint32(gl.NoError), code)
	assert.Equal(t, 1, host.Count(cmdbuf.CmdGetError))
}

func TestNilUniformLocationIsIgnored(t *testing.T) {
	c, host := newContext(t)
	require.NoError(t, c.Uniform1f(nil, 1))
	require.NoError(t, c.Uniform4fv(nil, []float32{1, 2, 3, 4}))
	assert.Empty(t, host.Requests())
}

func TestFirstPaintSentOnce(t *testing.T) {
	c, host := newContext(t)

	require.NoError(t, c.DrawArrays(4, 0, 3))
	require.NoError(t, c.DrawElements(4, 6, gl.UnsignedShort, 0))
	require.NoError(t, c.DrawArrays(4, 0, 3))

	assert.Equal(t, 1, host.Count(cmdbuf.CmdPaintingMetrics))
	metric := host.OfType(cmdbuf.CmdPaintingMetrics)[0].(*cmdbuf.PaintingMetricsRequest)
	assert.Equal(t, cmdbuf.MetricsFirstContentfulPaint, metric.Category)
}

func TestDrawInsideFrameIsFlushed(t *testing.T) {
	c, host := newContext(t)
	c.BindFrameSource(&fakeFrame{meta: cmdbuf.FrameMeta{Active: true, FrameID: 3}, active: true})

	require.NoError(t, c.Enable(gl.DepthTest))
	require.NoError(t, c.Clear(gl.ColorBufferBit|gl.DepthBufferBit))
	require.NoError(t, c.DrawArrays(4, 0, 3))

	assert.Equal(t, []cmdbuf.CommandType{
		cmdbuf.CmdEnable,
		cmdbuf.CmdClear, cmdbuf.CmdFlush,
		cmdbuf.CmdDrawArrays, cmdbuf.CmdFlush,
		cmdbuf.CmdPaintingMetrics,
	}, host.Types())
	for _, r := range host.Requests()[:5] {
		assert.Equal(t, int64(3), r.Header().Frame.FrameID)
	}
	assert.False(t, host.Last().Header().Frame.Active)
}

func TestViewportAnsweredLocally(t *testing.T) {
	c, host := newContext(t)

	v, err := c.GetParameter(gl.Viewport)
	require.NoError(t, err)
	assert.Equal(t, []int32{0, 0, 800, 600}, v)

	require.NoError(t, c.Viewport(10, 20, 300, 200))
	require.NoError(t, c.Scissor(1, 2, 3, 4))
	v, err = c.GetParameter(gl.Viewport)
	require.NoError(t, err)
	assert.Equal(t, []int32{10, 20, 300, 200}, v)
	v, err = c.GetParameter(gl.ScissorBox)
	require.NoError(t, err)
	assert.Equal(t, []int32{1, 2, 3, 4}, v)

	limit, err := c.GetParameter(gl.MaxTextureSize)
	require.NoError(t, err)
	assert.Equal(t, int32(4096), limit)

	assert.Zero(t, host.Count(cmdbuf.CmdGetIntegerv))
}

func TestGetParameterRoundTrip(t *testing.T) {
	c, host := newContext(t)
	host.Handle(cmdbuf.CmdGetFloatv, func(req cmdbuf.Request) cmdbuf.Response {
		return &cmdbuf.ValuesResponse{Op: cmdbuf.CmdGetFloatvRes, Floats: []float32{0, 1}}
	})
	host.Handle(cmdbuf.CmdGetIntegerv, func(req cmdbuf.Request) cmdbuf.Response {
		return &cmdbuf.ValuesResponse{Op: cmdbuf.CmdGetIntegervRes, Ints: []int32{0x0405}}
	})

	v, err := c.GetParameter(gl.DepthRange)
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 1}, v)

	v, err = c.GetParameter(0x0B45) // CULL_FACE_MODE
	require.NoError(t, err)
	assert.Equal(t, int32(0x0405), v)
}

func TestIsEnabledIsLocal(t *testing.T) {
	c, host := newContext(t)

	assert.True(t, c.IsEnabled(gl.Dither))
	assert.False(t, c.IsEnabled(gl.Blend))
	require.NoError(t, c.Enable(gl.Blend))
	assert.True(t, c.IsEnabled(gl.Blend))
	v, err := c.GetParameter(gl.Blend)
	require.NoError(t, err)
	assert.Equal(t, true, v)
	require.NoError(t, c.Disable(gl.Blend))
	assert.False(t, c.IsEnabled(gl.Blend))
	assert.Equal(t, 2, len(host.Requests()))
}

func TestPixelStoreFlipsUploads(t *testing.T) {
	c, host := newContext(t)
	require.NoError(t, c.PixelStorei(gl.UnpackFlipY, 1))
	assert.Zero(t, host.Count(cmdbuf.CmdPixelStorei))

	pixels := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	require.NoError(t, c.TexImage2D(gl.Texture2D, 0, gl.RGBA, 1, 2, 0, gl.RGBA, gl.UnsignedByte, pixels))

	req := host.Last().(*cmdbuf.TexImage2DRequest)
	assert.Equal(t, []byte{5, 6, 7, 8, 1, 2, 3, 4}, req.Pixels)
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8}, pixels)

	require.NoError(t, c.PixelStorei(gl.UnpackAlignment, 1))
	assert.Equal(t, 1, host.Count(cmdbuf.CmdPixelStorei))
	assert.ErrorIs(t, c.PixelStorei(gl.UnpackAlignment, 3), gl.ErrInvalidArgument)
}

func TestWithBoundFramebufferRestores(t *testing.T) {
	c, _ := newContext(t)
	a, err := c.CreateFramebuffer()
	require.NoError(t, err)
	b, err := c.CreateFramebuffer()
	require.NoError(t, err)
	require.NoError(t, c.BindFramebuffer(gl.FramebufferTarget, a))

	var inside *gl.Framebuffer
	require.NoError(t, c.WithBoundFramebuffer(b, func() error {
		inside = c.State().Framebuffer
		return nil
	}))
	assert.Same(t, b, inside)
	assert.Same(t, a, c.State().Framebuffer)
}

func TestCloseReleasesObjects(t *testing.T) {
	c, host := newContext(t)
	b, err := c.CreateBuffer()
	require.NoError(t, err)
	tex, err := c.CreateTexture()
	require.NoError(t, err)
	sent := len(host.Requests())

	require.NoError(t, c.Close())
	assert.True(t, c.IsContextLost())
	assert.True(t, b.IsDeleted())
	assert.True(t, tex.IsDeleted())
	assert.Equal(t, sent, len(host.Requests()))

	_, err = c.CreateBuffer()
	assert.ErrorIs(t, err, gl.ErrContextLost)
	assert.NoError(t, c.BindBuffer(gl.ArrayBuffer, b))
}

func TestCheckFramebufferStatus(t *testing.T) {
	c, host := newContext(t)
	host.Handle(cmdbuf.CmdCheckFramebufferStatus, func(cmdbuf.Request) cmdbuf.Response {
		return &cmdbuf.ParameterResponse{Op: cmdbuf.CmdCheckFramebufferStatusRes, Value: gl.FramebufferComplete}
	})

	status, err := c.CheckFramebufferStatus(gl.FramebufferTarget)
	require.NoError(t, err)
	assert.Equal(t, uint32(gl.FramebufferComplete), status)
}

func TestActiveTextureKeepsUnitBindings(t *testing.T) {
	c, host := newContext(t)
	a, err := c.CreateTexture()
	require.NoError(t, err)
	b, err := c.CreateTexture()
	require.NoError(t, err)

	require.NoError(t, c.BindTexture(gl.Texture2D, a))
	require.NoError(t, c.ActiveTexture(gl.Texture0+1))
	assert.Nil(t, c.State().Textures[gl.Texture2D])
	require.NoError(t, c.BindTexture(gl.Texture2D, b))

	require.NoError(t, c.ActiveTexture(gl.Texture0))
	assert.Same(t, a, c.State().Textures[gl.Texture2D])
	assert.Same(t, b, c.State().TextureOn(gl.Texture0+1, gl.Texture2D))

	assert.ErrorIs(t, c.ActiveTexture(gl.Texture0+32), gl.ErrInvalidArgument)
	assert.Equal(t, uint32(gl.Texture0), c.State().ActiveTexture)
	assert.Equal(t, 2, host.Count(cmdbuf.CmdActiveTexture))
}

func TestEnableOnLostContextKeepsLocalState(t *testing.T) {
	c, _ := newContext(t)
	require.NoError(t, c.Enable(gl.DepthTest))
	require.NoError(t, c.Close())

	assert.ErrorIs(t, c.Enable(gl.CullFace), gl.ErrContextLost)
	assert.ErrorIs(t, c.Disable(gl.DepthTest), gl.ErrContextLost)
	assert.False(t, c.IsEnabled(gl.CullFace))
	assert.True(t, c.IsEnabled(gl.DepthTest))
}
