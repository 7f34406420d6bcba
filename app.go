package remotegl

import (
	"context"
	"fmt"
	"reflect"
	"runtime"
)

type systemFn any

// Module installs resources and systems into an App.
type Module interface {
	Install(app *App, cmd *Commands)
}

// App owns the engine goroutine: every system runs on it, one stage after
// the other, once per tick.
type App struct {
	stateful           bool
	stateTransitioning bool
	initialState       State
	finalState         State
	nextState          State
	state              State
	stages             []Stage
	systems            map[string]map[State]map[statePhase][]systemFn
	systemsStateless   map[string][]systemFn
	resources          map[reflect.Type]any

	ctx      context.Context
	ticks    uint64
	stopped  bool
	closers  []func() error
	profiler *Profiler
}

func (app *App) Commands() *Commands {
	return &Commands{
		app: app,
	}
}

// Context is the context systems receive. It is only valid while Run is
// running.
func (app *App) Context() context.Context {
	if app.ctx == nil {
		return context.Background()
	}
	return app.ctx
}

func (app *App) Ticks() uint64 { return app.ticks }

// Run ticks until ctx is cancelled, a system stops the app or the final
// state is reached. Closers registered by modules run on the way out.
func (app *App) Run(ctx context.Context) error {
	app.ctx = ctx
	if loop, ok := Resource[EngineLoop](app); ok {
		app.ctx = loop.Own(ctx)
	}
	defer app.close()

	if app.stateful {
		app.Logger().Infof("running in stateful mode, state %d", app.initialState)
		app.state = app.initialState
		app.callSystems(app.state, enter)
	} else {
		app.Logger().Debugf("running in stateless mode")
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !app.Tick() {
			return nil
		}
	}
}

// Tick runs every stage once and reports whether the app should keep
// running.
func (app *App) Tick() bool {
	app.ticks++
	app.callSystems(app.state, execute)

	if app.stateful {
		if app.stateTransitioning {
			app.stateTransitioning = false
			app.executeChangeState(app.nextState)
		}
		if app.state == app.finalState {
			app.callSystems(app.state, exit)
			return false
		}
	}
	return !app.stopped
}

func (app *App) callSystems(state State, phase statePhase) {
	for _, stage := range app.stages {
		if app.profiler != nil && execute == phase {
			app.profiler.BeginScope(stage.Name)
		}
		if execute == phase {
			for _, system := range app.systemsStateless[stage.Name] {
				app.callSystem(system)
			}
		}

		if app.stateful {
			if systemsInStage, ok := app.systems[stage.Name]; ok {
				if systemsInState, ok := systemsInStage[state]; ok {
					for _, system := range systemsInState[phase] {
						app.callSystem(system)
					}
				}
			}
		}
		if app.profiler != nil && execute == phase {
			app.profiler.EndScope(stage.Name)
		}
	}
}

func (app *App) changeState(newState State) {
	app.nextState = newState
	app.stateTransitioning = true
}

func (app *App) executeChangeState(newState State) {
	app.callSystems(app.state, exit)
	app.state = newState
	app.callSystems(app.state, enter)
}

func (app *App) addResources(resources ...any) *App {
	for _, resource := range resources {
		resourceType := reflect.TypeOf(resource)
		if _, ok := app.resources[resourceType.Elem()]; ok {
			panic(fmt.Sprintf("%s is already in resources", resourceType))
		}

		app.resources[resourceType.Elem()] = resource
	}
	return app
}

func (app *App) onClose(fn func() error) {
	app.closers = append(app.closers, fn)
}

func (app *App) close() {
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i](); err != nil {
			app.Logger().Warnf("shutdown: %v", err)
		}
	}
	app.closers = nil
}

// Resource returns the resource of type T.
func Resource[T any](app *App) (*T, bool) {
	r, ok := app.resources[reflect.TypeOf((*T)(nil)).Elem()]
	if !ok {
		return nil, false
	}
	return r.(*T), true
}

var (
	typeOfCommands = reflect.TypeOf(Commands{})
	typeOfContext  = reflect.TypeOf((*context.Context)(nil)).Elem()
	typeOfError    = reflect.TypeOf((*error)(nil)).Elem()
)

// callSystem resolves the system's arguments (*Commands, context.Context or
// resource pointers) and logs a returned error.
func (app *App) callSystem(system systemFn) {
	systemType := reflect.TypeOf(system)
	systemValue := reflect.ValueOf(system)

	args := make([]reflect.Value, systemType.NumIn())

	for i := 0; i < systemType.NumIn(); i++ {
		argType := systemType.In(i)
		if argType == typeOfContext {
			args[i] = reflect.ValueOf(app.Context())
			continue
		}
		if argType.Kind() != reflect.Pointer {
			app.unresolved(systemValue, systemType, argType)
		}
		underlyingType := argType.Elem()

		if underlyingType == typeOfCommands {
			args[i] = reflect.ValueOf(&Commands{app: app})
		} else if resource, argIsResource := app.resources[underlyingType]; argIsResource {
			resourceVal := reflect.ValueOf(resource)
			args[i] = reflect.NewAt(underlyingType, resourceVal.UnsafePointer())
		} else {
			app.unresolved(systemValue, systemType, argType)
		}
	}
	out := systemValue.Call(args)
	if len(out) == 1 && systemType.Out(0) == typeOfError && !out[0].IsNil() {
		app.Logger().Errorf("system %s: %v", runtime.FuncForPC(systemValue.Pointer()).Name(), out[0].Interface())
	}
}

func (app *App) unresolved(systemValue reflect.Value, systemType, argType reflect.Type) {
	msg := fmt.Sprintf("Unable to resolve System dependency.\nSystem: %s\nSystem type: %s\nDependency: %s",
		runtime.FuncForPC(systemValue.Pointer()).Name(),
		fmt.Sprint(systemType),
		fmt.Sprint(argType),
	)
	app.Logger().Errorf("%s", msg)
	panic(msg)
}
