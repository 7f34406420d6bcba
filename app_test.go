package remotegl

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sceneConfig struct {
	name string
}

type frameStats struct {
	frames int
}

func TestApp_StateTransitionRunsExitThenEnter(t *testing.T) {
	app := NewAppBuilder().UseStates(0, 2).Build()
	var trace []string
	app.UseSystem(System(func() { trace = append(trace, "exit0") }).InState(OnExit(0)))
	app.UseSystem(System(func() { trace = append(trace, "enter1") }).InState(OnEnter(1)))

	app.Commands().ChangeState(1)
	assert.Equal(t, State(1), app.nextState)
	assert.True(t, app.stateTransitioning)
	assert.Empty(t, trace)

	assert.True(t, app.Tick())
	assert.Equal(t, State(1), app.state)
	assert.False(t, app.stateTransitioning)
	assert.Equal(t, []string{"exit0", "enter1"}, trace)
}

func TestApp_addResources(t *testing.T) {
	app := NewAppBuilder().Build()
	cfg := &sceneConfig{name: "lobby"}
	app.addResources(cfg, &frameStats{})

	assert.Contains(t, app.resources, reflect.TypeOf(cfg).Elem())
	require.PanicsWithValue(t, fmt.Sprintf("%s is already in resources", reflect.TypeOf(cfg)), func() {
		app.addResources(&sceneConfig{name: "other"})
	})
	got, ok := Resource[sceneConfig](app)
	require.True(t, ok)
	assert.Same(t, cfg, got)
}

type recordingLogger struct {
	nopLogger
	errors []string
}

func (l *recordingLogger) Errorf(format string, args ...any) {
	l.errors = append(l.errors, fmt.Sprintf(format, args...))
}

func TestApp_TickRunsStagesInOrder(t *testing.T) {
	app := NewAppBuilder().Build()
	var order []string
	app.UseSystem(System(func() { order = append(order, "render") }).InStage(Render))
	app.UseSystem(System(func() { order = append(order, "events") }).InStage(Events))
	app.UseSystem(System(func() { order = append(order, "update") }))

	assert.True(t, app.Tick())
	assert.Equal(t, []string{"events", "update", "render"}, order)
	assert.Equal(t, uint64(1), app.Ticks())
}

func TestApp_SystemArguments(t *testing.T) {
	log := &recordingLogger{}
	app := NewAppBuilder().Build()
	app.addResources(log, &sceneConfig{name: "lobby"})

	var got *sceneConfig
	app.UseSystem(System(func(ctx context.Context, r *sceneConfig, cmd *Commands) error {
		assert.NotNil(t, ctx)
		got = r
		cmd.Stop()
		return errors.New("boom")
	}))

	assert.False(t, app.Tick())
	assert.Equal(t, "lobby", got.name)
	require.Len(t, log.errors, 1)
	assert.Contains(t, log.errors[0], "boom")
}

func TestApp_UnresolvedDependencyPanics(t *testing.T) {
	app := NewAppBuilder().Build()
	app.UseSystem(System(func(*frameStats) {}))
	assert.Panics(t, func() { app.Tick() })
}

func TestApp_RunUntilFinalState(t *testing.T) {
	app := NewAppBuilder().UseStates(0, 2).Build()
	var trace []string
	app.UseSystem(System(func(cmd *Commands) {
		trace = append(trace, "enter0")
		cmd.ChangeState(1)
	}).InState(OnEnter(0)))
	app.UseSystem(System(func(cmd *Commands) {
		trace = append(trace, "exec1")
		cmd.ChangeState(2)
	}).InState(OnExecute(1)))
	app.UseSystem(System(func() { trace = append(trace, "exit2") }).InState(OnExit(2)))

	var closed []int
	cmd := app.Commands()
	cmd.OnClose(func() error { closed = append(closed, 1); return nil })
	cmd.OnClose(func() error { closed = append(closed, 2); return nil })

	require.NoError(t, app.Run(context.Background()))
	assert.Equal(t, []string{"enter0", "exec1", "exit2"}, trace)
	assert.Equal(t, []int{2, 1}, closed)
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	app := NewAppBuilder().Build()
	ctx, cancel := context.WithCancel(context.Background())
	app.UseSystem(System(func() { cancel() }))

	assert.ErrorIs(t, app.Run(ctx), context.Canceled)
	assert.Equal(t, uint64(1), app.Ticks())
}

func TestResource(t *testing.T) {
	app := NewAppBuilder().Build()
	_, ok := Resource[frameStats](app)
	assert.False(t, ok)

	r := &frameStats{frames: 3}
	app.Commands().AddResources(r)
	got, ok := Resource[frameStats](app)
	require.True(t, ok)
	assert.Same(t, r, got)
}

func TestTimeModulePaces(t *testing.T) {
	now := time.Unix(100, 0)
	var slept []time.Duration
	app := NewAppBuilder().UseModule(TimeModule{
		TargetFPS: 50,
		Now:       func() time.Time { return now },
		Sleep:     func(d time.Duration) { slept = append(slept, d); now = now.Add(d) },
	}).Build()
	app.UseSystem(System(func() { now = now.Add(5 * time.Millisecond) }))

	app.Tick()
	app.Tick()

	clock, ok := Resource[Time](app)
	require.True(t, ok)
	assert.Equal(t, uint64(2), clock.Frame)
	assert.Equal(t, 20*time.Millisecond, clock.Dt)
	assert.Equal(t, []time.Duration{15 * time.Millisecond, 15 * time.Millisecond}, slept)
}

func TestProfilerTimesStages(t *testing.T) {
	app := NewAppBuilder().UseModule(ProfilerModule{}).Build()
	p, ok := Resource[Profiler](app)
	require.True(t, ok)
	now := time.Unix(0, 0)
	p.now = func() time.Time { return now }
	app.UseSystem(System(func() { now = now.Add(3 * time.Millisecond) }).InStage(Render))

	app.Tick()
	assert.Equal(t, 3*time.Millisecond, p.Scopes[Render.Name])
	assert.Zero(t, p.Scopes[Update.Name])
	assert.Len(t, p.Order, len(DefaultStages))
	assert.Contains(t, p.StatsString(), "Render")
}
