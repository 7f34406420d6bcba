package remotegl

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingModule notes its install and registers a closer.
type recordingModule struct {
	name  string
	trace *[]string
}

func (m recordingModule) Install(app *App, cmd *Commands) {
	*m.trace = append(*m.trace, "install "+m.name)
	cmd.OnClose(func() error {
		*m.trace = append(*m.trace, "close "+m.name)
		return nil
	})
}

func stageNames(stages []Stage) []string {
	names := make([]string, len(stages))
	for i, s := range stages {
		names[i] = s.Name
	}
	return names
}

func TestBuildLaysOutDefaultStages(t *testing.T) {
	app := NewAppBuilder().Build()

	assert.Equal(t, stageNames(DefaultStages), app.Stages())
	assert.False(t, app.HasStage(Frame))
	assert.False(t, app.stateful)
}

func TestBuildInstallsModulesInOrderAndClosesInReverse(t *testing.T) {
	var trace []string
	app := NewAppBuilder().UseModule(
		recordingModule{name: "events", trace: &trace},
		recordingModule{name: "channel", trace: &trace},
		recordingModule{name: "xr", trace: &trace},
	).Build()
	assert.Equal(t, []string{"install events", "install channel", "install xr"}, trace)

	app.UseSystem(System(func(cmd *Commands) { cmd.Stop() }))
	require.NoError(t, app.Run(context.Background()))
	assert.Equal(t, []string{
		"install events", "install channel", "install xr",
		"close xr", "close channel", "close events",
	}, trace)
}

func TestXRModuleInsertsFrameStage(t *testing.T) {
	app := NewAppBuilder().UseModule(
		EventsModule{QueueSize: 4},
		ChannelModule{Transport: fakeHost()},
		XRModule{},
	).Build()

	assert.Equal(t, []string{
		Prelude.Name, Events.Name, PreUpdate.Name, Update.Name, PostUpdate.Name,
		Frame.Name, Render.Name, Finale.Name,
	}, app.Stages())
	_, ok := Resource[EngineLoop](app)
	assert.True(t, ok)
}

func TestXRModuleNeedsItsDependencies(t *testing.T) {
	assert.PanicsWithValue(t, "XRModule: install ChannelModule first", func() {
		NewAppBuilder().UseModule(EventsModule{QueueSize: 4}, XRModule{}).Build()
	})
	assert.PanicsWithValue(t, "XRModule: install EventsModule first", func() {
		NewAppBuilder().UseModule(ChannelModule{Transport: fakeHost()}, XRModule{}).Build()
	})
}

func TestUseStage(t *testing.T) {
	app := NewAppBuilder().Build()
	sync := Stage{Name: "Sync"}
	app.UseStage(sync, AfterStage(Prelude))
	app.UseStage(Frame, BeforeStage(Render))

	var order []string
	app.UseSystem(System(func() { order = append(order, "frame") }).InStage(Frame))
	app.UseSystem(System(func() { order = append(order, "sync") }).InStage(sync))
	app.UseSystem(System(func() { order = append(order, "update") }))
	app.Tick()

	assert.Equal(t, []string{"sync", "update", "frame"}, order)
	assert.Equal(t, "Sync", app.Stages()[1])
	assert.Panics(t, func() { app.UseStage(Stage{Name: "Late"}, AfterStage(Stage{Name: "Missing"})) })
	assert.Panics(t, func() { app.UseStage(Frame, BeforeStage(Finale)) })
}

func TestUseStatesPreparesEveryStage(t *testing.T) {
	app := NewAppBuilder().UseStates(1, 3).Build()

	assert.True(t, app.stateful)
	for _, stage := range DefaultStages {
		require.Contains(t, app.systems, stage.Name)
		assert.Len(t, app.systems[stage.Name], 3, stage.Name)
	}
	assert.Panics(t, func() { app.UseSystem(System(func() {}).InState(OnEnter(4))) })

	stateless := NewAppBuilder().Build()
	assert.Panics(t, func() { stateless.UseSystem(System(func() {}).InState(OnEnter(1))) })
}
