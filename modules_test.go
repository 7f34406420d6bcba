package remotegl

import (
	"context"
	"testing"

	"github.com/gekko3d/remotegl/webrt/rt/channel/channeltest"
	"github.com/gekko3d/remotegl/webrt/rt/cmdbuf"
	"github.com/gekko3d/remotegl/webrt/rt/gl"
	"github.com/gekko3d/remotegl/webrt/rt/xr"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeHost() *channeltest.Host {
	host := channeltest.NewHost()
	host.Handle(cmdbuf.CmdWebGLContextInit, func(cmdbuf.Request) cmdbuf.Response {
		return &cmdbuf.ContextInitResponse{
			Op:              cmdbuf.CmdWebGLContextInitRes,
			DrawingViewport: cmdbuf.Viewport{Width: 640, Height: 480},
		}
	})
	host.Handle(cmdbuf.CmdWebGL2ContextInit, func(cmdbuf.Request) cmdbuf.Response {
		return &cmdbuf.ContextInitResponse{
			Op:              cmdbuf.CmdWebGL2ContextInitRes,
			DrawingViewport: cmdbuf.Viewport{Width: 640, Height: 480},
		}
	})
	host.Handle(cmdbuf.CmdXRRequestSession, func(cmdbuf.Request) cmdbuf.Response {
		return &cmdbuf.RequestSessionResponse{Success: true, SessionID: 3}
	})
	return host
}

func buildApp(t *testing.T, frames chan *xr.FrameRequest) (*App, *channeltest.Host, *prometheus.Registry) {
	t.Helper()
	host := fakeHost()
	reg := prometheus.NewRegistry()
	app := NewAppBuilder().UseModule(
		EventsModule{QueueSize: 8, Registerer: reg, Namespace: "test"},
		ChannelModule{Transport: host, Registerer: reg, Namespace: "test"},
		GraphicsModule{},
		XRModule{Frames: frames},
	).Build()
	return app, host, reg
}

func xrFrame(id int64) *xr.FrameRequest {
	return &xr.FrameRequest{
		FrameID:   id,
		SessionID: 3,
		Snapshot: xr.Snapshot{
			ViewerBase: mgl32.Ident4(),
			LocalBase:  mgl32.Ident4(),
			Views:      []xr.ViewData{{Index: 0, View: mgl32.Ident4(), Projection: mgl32.Ident4()}},
		},
	}
}

func startSession(t *testing.T, app *App) (*xr.Session, *int) {
	t.Helper()
	ctx := context.Background()
	g, ok := Resource[Graphics](app)
	require.True(t, ok)
	sys, ok := Resource[xr.System](app)
	require.True(t, ok)

	c, err := g.NewContext(ctx)
	require.NoError(t, err)
	assert.Same(t, c, g.Context(c.ID()))

	s, err := sys.RequestSession(ctx, xr.ImmersiveVR, xr.DefaultSessionInit())
	require.NoError(t, err)
	layer, err := xr.NewWebGLLayer(s, c, xr.DefaultLayerInit())
	require.NoError(t, err)
	require.NoError(t, s.UpdateRenderState(xr.RenderStateInit{BaseLayer: layer}))

	calls := new(int)
	var tick xr.FrameCallback
	tick = func(float64, *xr.Frame) {
		*calls++
		_, err := s.RequestAnimationFrame(tick)
		assert.NoError(t, err)
	}
	_, err = s.RequestAnimationFrame(tick)
	require.NoError(t, err)
	return s, calls
}

func TestModulesWireFramesFromFeed(t *testing.T) {
	frames := make(chan *xr.FrameRequest, 4)
	app, host, _ := buildApp(t, frames)
	_, calls := startSession(t, app)

	frames <- xrFrame(1)
	frames <- xrFrame(2)
	app.Tick()
	assert.Equal(t, 1, *calls)
	app.Tick()
	assert.Equal(t, 2, *calls)

	feed, ok := Resource[XRFeed](app)
	require.True(t, ok)
	assert.Equal(t, uint64(2), feed.Received())
	assert.Equal(t, 1, host.Count(cmdbuf.CmdXRUpdateRenderState))
}

func TestModulesDeliverThroughLoop(t *testing.T) {
	app, _, reg := buildApp(t, nil)
	_, calls := startSession(t, app)
	sys, _ := Resource[xr.System](app)

	done := make(chan bool)
	go func() { done <- sys.Deliver(xrFrame(1)) }()
	require.True(t, <-done)
	assert.Zero(t, *calls)

	app.Tick()
	assert.Equal(t, 1, *calls)

	loop, _ := Resource[EngineLoop](app)
	assert.Equal(t, uint64(1), loop.Handled())
	n, err := testutil.GatherAndCount(reg, "test_events_posted_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestModulesCloseOnShutdown(t *testing.T) {
	app, host, _ := buildApp(t, nil)
	g, _ := Resource[Graphics](app)
	c, err := g.NewContext(context.Background())
	require.NoError(t, err)

	app.UseSystem(System(func(cmd *Commands) { cmd.Stop() }))
	require.NoError(t, app.Run(context.Background()))

	assert.True(t, c.IsContextLost())
	assert.Empty(t, g.Contexts())
	_, err = host.Recv(context.Background())
	assert.Error(t, err)
}

func TestSingleHost(t *testing.T) {
	assert.Panics(t, func() {
		NewAppBuilder().UseModule(
			ChannelModule{Name: "a", Transport: fakeHost()},
			ChannelModule{Name: "b", Transport: fakeHost()},
		).Build()
	})
}

func TestGraphicsNeedsChannel(t *testing.T) {
	assert.PanicsWithValue(t, "GraphicsModule: install ChannelModule first", func() {
		NewAppBuilder().UseModule(GraphicsModule{}).Build()
	})
}

func TestGraphicsDropsClosedContexts(t *testing.T) {
	app, _, _ := buildApp(t, nil)
	g, _ := Resource[Graphics](app)
	ctx := context.Background()

	a, err := g.NewContext(ctx)
	require.NoError(t, err)
	require.NoError(t, a.Close())
	b, err := g.NewContext2(ctx)
	require.NoError(t, err)

	assert.Equal(t, []*gl.Context{b.Context}, g.Contexts())
	assert.Nil(t, g.Context(a.ID()))
}
