package remotegl

import (
	"context"
	"time"

	"github.com/gekko3d/remotegl/webrt/rt/xr"
)

// XRFeed buffers frame ticks for the Frame stage.
type XRFeed struct {
	frames   <-chan *xr.FrameRequest
	perTick  int
	received uint64
}

func (f *XRFeed) Received() uint64 { return f.received }

// XRModule installs the XR system and the Frame stage, right before Render.
// It needs the ChannelModule and the EventsModule. Frames arrive either through Frames, read on the engine
// goroutine during the Frame stage, or through xr.System.Deliver from any
// goroutine.
type XRModule struct {
	Frames          <-chan *xr.FrameRequest
	FramesPerTick   int
	ResponseTimeout time.Duration
}

func (m XRModule) Install(app *App, cmd *Commands) {
	host, ok := Resource[Host](app)
	if !ok {
		panic("XRModule: install ChannelModule first")
	}
	loop, ok := Resource[EngineLoop](app)
	if !ok {
		panic("XRModule: install EventsModule first")
	}
	sys := xr.NewSystem(host.Channel, xr.SystemOptions{
		Loop:            loop.Loop,
		Logger:          app.Logger(),
		ResponseTimeout: m.ResponseTimeout,
	})
	cmd.AddResources(sys)
	if !app.HasStage(Frame) {
		app.UseStage(Frame, BeforeStage(Render))
	}

	if m.Frames != nil {
		perTick := m.FramesPerTick
		if perTick <= 0 {
			perTick = 1
		}
		cmd.AddResources(&XRFeed{frames: m.Frames, perTick: perTick})
		app.UseSystem(System(xrFrameSystem).InStage(Frame).RunAlways())
	}
}

func xrFrameSystem(ctx context.Context, feed *XRFeed, sys *xr.System) {
	for i := 0; i < feed.perTick; i++ {
		select {
		case req, ok := <-feed.frames:
			if !ok {
				feed.frames = nil
				return
			}
			feed.received++
			sys.DispatchFrame(ctx, req)
		default:
			return
		}
	}
}
