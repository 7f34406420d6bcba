package remotegl

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/gekko3d/remotegl/webrt/rt/gl"
	"github.com/gekko3d/remotegl/webrt/rt/placeholder"
)

// Graphics creates rendering contexts on the host and keeps them until the
// App shuts down. All of its methods run on the engine goroutine.
type Graphics struct {
	host     *Host
	names    *placeholder.NameTable
	log      Logger
	opts     gl.Options
	contexts map[uint8]*gl.Context
}

// NewContext creates a WebGL1 context sharing the App's name table.
func (g *Graphics) NewContext(ctx context.Context) (*gl.Context, error) {
	c, err := gl.NewContext(ctx, g.host.Channel, g.host.IDs, g.opts)
	if err != nil {
		return nil, fmt.Errorf("graphics: %w", err)
	}
	g.register(c)
	return c, nil
}

// NewContext2 creates a WebGL2 context.
func (g *Graphics) NewContext2(ctx context.Context) (*gl.Context2, error) {
	c, err := gl.NewContext2(ctx, g.host.Channel, g.host.IDs, g.opts)
	if err != nil {
		return nil, fmt.Errorf("graphics: %w", err)
	}
	g.register(c.Context)
	return c, nil
}

// register drops contexts closed by their owner, whose ids the allocator may
// hand out again, then records c.
func (g *Graphics) register(c *gl.Context) {
	for id, old := range g.contexts {
		if old.IsContextLost() {
			delete(g.contexts, id)
		}
	}
	g.contexts[c.ID()] = c
}

func (g *Graphics) Context(id uint8) *gl.Context { return g.contexts[id] }

// Contexts lists the open contexts by id.
func (g *Graphics) Contexts() []*gl.Context {
	out := make([]*gl.Context, 0, len(g.contexts))
	for _, c := range g.contexts {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// Names is the uniform name table contexts recognise camera matrices by.
func (g *Graphics) Names() *placeholder.NameTable { return g.names }

// Close releases every context.
func (g *Graphics) Close() error {
	var first error
	g.log.Debugf("graphics: releasing %d contexts", len(g.contexts))
	for _, c := range g.Contexts() {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
		delete(g.contexts, c.ID())
	}
	return first
}

// GraphicsModule installs Graphics. It needs the ChannelModule.
type GraphicsModule struct {
	Names           *placeholder.NameTable
	Attributes      *gl.ContextAttributes
	InitTimeout     time.Duration
	ResponseTimeout time.Duration
}

func (m GraphicsModule) Install(app *App, cmd *Commands) {
	host, ok := Resource[Host](app)
	if !ok {
		panic("GraphicsModule: install ChannelModule first")
	}
	names := m.Names
	if names == nil {
		names = placeholder.NewDefaultNameTable()
	}
	attrs := gl.DefaultContextAttributes()
	if m.Attributes != nil {
		attrs = *m.Attributes
	}
	g := &Graphics{
		host:  host,
		names: names,
		log:   app.Logger(),
		opts: gl.Options{
			Attributes:      attrs,
			Names:           names,
			Logger:          app.Logger(),
			InitTimeout:     m.InitTimeout,
			ResponseTimeout: m.ResponseTimeout,
		},
		contexts: make(map[uint8]*gl.Context),
	}
	cmd.AddResources(g)
	cmd.OnClose(g.Close)
}
