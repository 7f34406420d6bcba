package remotegl

import (
	"context"

	"github.com/gekko3d/remotegl/webrt/rt/events"

	"github.com/prometheus/client_golang/prometheus"
)

// EngineLoop carries work from other goroutines onto the engine goroutine.
// The Events stage drains it every tick.
type EngineLoop struct {
	*events.Loop
	DrainMax int
}

type EventsModule struct {
	QueueSize int
	// DrainMax caps the tasks run per tick; 0 drains what is queued.
	DrainMax   int
	Registerer prometheus.Registerer
	Namespace  string
}

func (m EventsModule) Install(app *App, cmd *Commands) {
	opts := events.Options{QueueSize: m.QueueSize, Logger: app.Logger()}
	if m.Registerer != nil {
		opts.Metrics = events.NewMetrics(m.Registerer, m.Namespace)
	}
	cmd.AddResources(&EngineLoop{Loop: events.NewLoop(opts), DrainMax: m.DrainMax})
	app.UseSystem(System(drainSystem).InStage(Events).RunAlways())
}

func drainSystem(ctx context.Context, loop *EngineLoop) {
	loop.Drain(ctx, loop.DrainMax)
}
