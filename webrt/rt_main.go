package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	remotegl "github.com/gekko3d/remotegl"
	"github.com/gekko3d/remotegl/webrt/rt/gl"
	"github.com/gekko3d/remotegl/webrt/rt/xr"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := flag.String("config", remotegl.DefaultConfigPath(), "Path of the TOML config")
	writeConfig := flag.Bool("write-config", false, "Write the default config to -config and exit")
	url := flag.String("url", "", "Host websocket URL, overrides the config")
	debug := flag.Bool("debug", false, "Enable debug logging")
	synthetic := flag.Bool("synthetic-frames", true, "Feed frames from a fake head pose")
	flag.Parse()

	if *writeConfig {
		if err := remotegl.SaveConfig(*configPath, remotegl.DefaultConfig()); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	cfg, err := remotegl.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *url != "" {
		cfg.Channel.URL = *url
	}
	if *debug {
		cfg.Log.Debug = true
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, cfg, *synthetic); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// The demo walks through three states: the scene is set up on the engine
// goroutine, frames render until the session ends, then Run returns.
const (
	stateSetup remotegl.State = iota
	stateImmersive
	stateEnded
)

// demo is the App resource shared by the lifecycle systems.
type demo struct {
	cfg     remotegl.Config
	session *xr.Session
	ready   chan uint32
	ended   bool
	err     error
}

func run(ctx context.Context, cfg remotegl.Config, synthetic bool) error {
	names, err := cfg.NameTable()
	if err != nil {
		return err
	}
	transport, err := remotegl.DialHost(ctx, cfg.Channel)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	app := remotegl.NewAppBuilder().UseStates(stateSetup, stateEnded).UseModule(
		remotegl.LoggingModule{Prefix: cfg.Log.Prefix, Debug: cfg.Log.Debug, Zap: cfg.Log.Zap},
		remotegl.TimeModule{TargetFPS: cfg.XR.TargetFPS},
		remotegl.EventsModule{
			QueueSize:  cfg.Events.QueueSize,
			DrainMax:   cfg.Events.DrainMax,
			Registerer: reg,
			Namespace:  cfg.Metrics.Namespace,
		},
		remotegl.ChannelModule{
			Transport:   transport,
			ReservedIDs: cfg.Resources.ReservedIDs,
			Registerer:  reg,
			Namespace:   cfg.Metrics.Namespace,
		},
		remotegl.GraphicsModule{
			Names:           names,
			InitTimeout:     cfg.Channel.InitTimeout.Duration,
			ResponseTimeout: cfg.Channel.ResponseTimeout.Duration,
		},
		remotegl.XRModule{ResponseTimeout: cfg.Channel.ResponseTimeout.Duration},
	).Build()
	log := app.Logger()
	runID := uuid.New()
	log.Infof("run %s: host %s", runID, cfg.Channel.URL)

	d := &demo{cfg: cfg, ready: make(chan uint32, 1)}
	app.Commands().AddResources(d)
	app.UseSystem(remotegl.System(enterSetup).InState(remotegl.OnEnter(stateSetup)))
	app.UseSystem(remotegl.System(watchSession).InState(remotegl.OnExecute(stateImmersive)))
	app.UseSystem(remotegl.System(func(cmd *remotegl.Commands) {
		cmd.Logger().Infof("run %s: session over", runID)
	}).InState(remotegl.OnExit(stateEnded)))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// the other goroutines stop with the app
		defer cancel()
		if err := app.Run(gctx); err != nil {
			return err
		}
		return d.err
	})
	if cfg.Metrics.Listen != "" {
		g.Go(func() error { return serveMetrics(gctx, cfg.Metrics.Listen, reg) })
	}
	if synthetic {
		sys, _ := remotegl.Resource[xr.System](app)
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return nil
			case id := <-d.ready:
				return feedFrames(gctx, sys, id, cfg.XR.TargetFPS)
			}
		})
	}
	return g.Wait()
}

func enterSetup(ctx context.Context, cmd *remotegl.Commands, d *demo, graphics *remotegl.Graphics, sys *xr.System) {
	session, err := setupScene(ctx, cmd.Logger(), graphics, sys, d.cfg)
	if err != nil {
		d.err = err
		cmd.ChangeState(stateEnded)
		return
	}
	d.session = session
	session.On(xr.EventEnd, func(context.Context, *xr.Event) { d.ended = true })
	d.ready <- session.ID()
	cmd.ChangeState(stateImmersive)
}

func watchSession(cmd *remotegl.Commands, d *demo) {
	if d.ended {
		cmd.ChangeState(stateEnded)
	}
}

// setupScene opens a context, starts an immersive session and clears the
// layer every frame with the camera placed by the host.
func setupScene(ctx context.Context, log remotegl.Logger, graphics *remotegl.Graphics, sys *xr.System,
	cfg remotegl.Config) (*xr.Session, error) {
	c, err := graphics.NewContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.SetDefaultCoordHandedness(cfg.XR.DefaultHandedness); err != nil {
		return nil, err
	}
	ok, err := sys.IsSessionSupported(ctx, xr.ImmersiveVR)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("host does not support %s sessions", xr.ImmersiveVR)
	}
	session, err := sys.RequestSession(ctx, xr.ImmersiveVR, xr.SessionInit{
		RequiredFeatures: []string{"viewer", "local"},
		OptionalFeatures: []string{"local-floor", "hand-tracking"},
	})
	if err != nil {
		return nil, err
	}
	layer, err := xr.NewWebGLLayer(session, c, xr.DefaultLayerInit())
	if err != nil {
		return nil, err
	}
	if err := session.UpdateRenderState(xr.RenderStateInit{BaseLayer: layer}); err != nil {
		return nil, err
	}
	local, err := session.RequestReferenceSpace(xr.Local)
	if err != nil {
		return nil, err
	}

	var onFrame xr.FrameCallback
	onFrame = func(ts float64, frame *xr.Frame) {
		if _, err := session.RequestAnimationFrame(onFrame); err != nil {
			log.Warnf("frame #%d: %v", frame.ID, err)
			return
		}
		pose, err := frame.GetViewerPose(local)
		if err != nil {
			log.Debugf("frame #%d: no viewer pose: %v", frame.ID, err)
			return
		}
		for _, view := range pose.Views {
			vp := layer.GetViewport(view)
			if err := c.Viewport(vp.X, vp.Y, vp.Width, vp.Height); err != nil {
				log.Warnf("viewport: %v", err)
				return
			}
			if err := c.ClearColor(0.1, 0.1, 0.12, 1); err != nil {
				log.Warnf("clear color: %v", err)
				return
			}
			if err := c.Clear(gl.ColorBufferBit | gl.DepthBufferBit); err != nil {
				log.Warnf("clear: %v", err)
				return
			}
		}
	}
	if _, err := session.RequestAnimationFrame(onFrame); err != nil {
		return nil, err
	}
	session.On(xr.EventInputSourcesChange, func(_ context.Context, ev *xr.Event) {
		log.Infof("input sources: +%d -%d", len(ev.Added), len(ev.Removed))
	})
	return session, nil
}

func serveMetrics(ctx context.Context, addr string, reg *prometheus.Registry) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	select {
	case err := <-errc:
		return fmt.Errorf("metrics server: %w", err)
	case <-ctx.Done():
		shutdown, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdown)
	}
}

// feedFrames plays a head bobbing in place, as a device without a host
// would report it.
func feedFrames(ctx context.Context, sys *xr.System, sessionID uint32, fps int) error {
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()
	start := time.Now()
	var id int64
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			id++
			t := now.Sub(start).Seconds()
			head := mgl32.Translate3D(0, 1.6+0.02*float32(math.Sin(t)), 0)
			proj := mgl32.Perspective(mgl32.DegToRad(90), 1, 0.1, 1000)
			sys.Deliver(&xr.FrameRequest{
				FrameID:   id,
				StereoID:  uint32(id),
				SessionID: sessionID,
				Timestamp: float64(now.Sub(start).Milliseconds()),
				Snapshot: xr.Snapshot{
					ViewerBase: head,
					LocalBase:  mgl32.Ident4(),
					Views: []xr.ViewData{
						{Index: 0, View: head.Mul4(mgl32.Translate3D(-0.032, 0, 0)).Inv(), Projection: proj},
						{Index: 1, View: head.Mul4(mgl32.Translate3D(0.032, 0, 0)).Inv(), Projection: proj},
					},
				},
			})
		}
	}
}
