package remotegl

import (
	"context"
	"fmt"
	"time"

	"github.com/gekko3d/remotegl/webrt/rt/channel"
	"github.com/gekko3d/remotegl/webrt/rt/handle"

	"github.com/prometheus/client_golang/prometheus"
)

// Host is the connection to the rendering host: the command channel and the
// id allocator every object created over it draws from.
type Host struct {
	Name    string
	Channel *channel.Channel
	IDs     *handle.Allocator
	Metrics *channel.Metrics
}

// ChannelModule connects the App to a host over Transport.
type ChannelModule struct {
	Name        string
	Transport   channel.Transport
	ReservedIDs uint32
	// Registerer receives the channel metrics; nil disables them.
	Registerer prometheus.Registerer
	Namespace  string
}

func (m ChannelModule) Install(app *App, cmd *Commands) {
	if m.Transport == nil {
		panic("ChannelModule: no transport")
	}
	name := m.Name
	if name == "" {
		name = "host"
	}
	ensureSingleHost(app, name)

	reserved := m.ReservedIDs
	if reserved == 0 {
		reserved = handle.DefaultReservedIDs
	}
	host := &Host{Name: name, IDs: handle.NewAllocator(reserved)}
	if m.Registerer != nil {
		host.Metrics = channel.NewMetrics(m.Registerer, m.Namespace)
	}
	host.Channel = channel.New(m.Transport, channel.Options{
		IDs:     host.IDs,
		Logger:  app.Logger(),
		Metrics: host.Metrics,
	})
	cmd.AddResources(host)
	cmd.OnClose(host.Channel.Close)
	app.Logger().Infof("connected to %s, ids above %d", name, reserved)
}

// DialHost opens the websocket transport named by cfg.
func DialHost(ctx context.Context, cfg ChannelConfig) (channel.Transport, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("dial host: no url configured")
	}
	wait := cfg.DialTimeout.Duration
	if wait <= 0 {
		wait = 10 * time.Second
	}
	t, err := channel.DialWebSocket(ctx, cfg.URL, channel.DialOptions{MaxElapsed: wait})
	if err != nil {
		return nil, fmt.Errorf("dial host %s: %w", cfg.URL, err)
	}
	return t, nil
}
