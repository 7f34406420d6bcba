package remotegl

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Profiler keeps the duration of every stage of the last tick plus named
// counters set by systems.
type Profiler struct {
	Scopes     map[string]time.Duration
	StartTimes map[string]time.Time
	Counts     map[string]int
	Order      []string

	now func() time.Time
}

func NewProfiler() *Profiler {
	return &Profiler{
		Scopes:     make(map[string]time.Duration),
		StartTimes: make(map[string]time.Time),
		Counts:     make(map[string]int),
		Order:      make([]string, 0),
		now:        time.Now,
	}
}

func (p *Profiler) BeginScope(name string) {
	p.StartTimes[name] = p.now()
	for _, n := range p.Order {
		if n == name {
			return
		}
	}
	p.Order = append(p.Order, name)
}

func (p *Profiler) EndScope(name string) {
	if start, ok := p.StartTimes[name]; ok {
		p.Scopes[name] = p.now().Sub(start)
	}
}

func (p *Profiler) SetCount(name string, count int) {
	p.Counts[name] = count
}

// Reset zeroes the timings and keeps the scope order.
func (p *Profiler) Reset() {
	for k := range p.Scopes {
		p.Scopes[k] = 0
	}
}

func (p *Profiler) StatsString() string {
	var sb strings.Builder

	sb.WriteString("Timings:\n")
	for _, name := range p.Order {
		ms := float64(p.Scopes[name].Microseconds()) / 1000.0
		sb.WriteString(fmt.Sprintf("  %-15s: %.2f ms\n", name, ms))
	}

	sb.WriteString("Stats:\n")
	keys := make([]string, 0, len(p.Counts))
	for k := range p.Counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		sb.WriteString(fmt.Sprintf("  %-15s: %d\n", k, p.Counts[k]))
	}
	return sb.String()
}

// ProfilerModule times every stage and logs the stats at debug level every
// LogEvery ticks.
type ProfilerModule struct {
	LogEvery uint64
}

func (m ProfilerModule) Install(app *App, cmd *Commands) {
	p := NewProfiler()
	cmd.AddResources(p)
	app.profiler = p
	if m.LogEvery > 0 {
		every := m.LogEvery
		app.UseSystem(System(func(cmd *Commands, p *Profiler) {
			if cmd.app.ticks%every == 0 {
				collectCounts(cmd.app, p)
				cmd.Logger().Debugf("tick %d\n%s", cmd.app.ticks, p.StatsString())
			}
		}).InStage(Finale).RunAlways())
	}
}

func collectCounts(app *App, p *Profiler) {
	if loop, ok := Resource[EngineLoop](app); ok {
		p.SetCount("queued", loop.Len())
		p.SetCount("dropped", int(loop.Dropped()))
	}
	if g, ok := Resource[Graphics](app); ok {
		p.SetCount("contexts", len(g.contexts))
	}
}
