package remotegl

// Commands is handed to modules and systems to change the App.
type Commands struct {
	app *App
}

func (cmd *Commands) ChangeState(newState State) *Commands {
	cmd.app.changeState(newState)
	return cmd
}

func (cmd *Commands) AddResources(resources ...any) *Commands {
	cmd.app.addResources(resources...)
	return cmd
}

// UseSystem schedules a system that runs every tick in the Update stage.
func (cmd *Commands) UseSystem(system systemFn) *Commands {
	cmd.app.UseSystem(System(system).RunAlways())
	return cmd
}

// Stop ends Run after the current tick.
func (cmd *Commands) Stop() {
	cmd.app.stopped = true
}

// OnClose registers fn to run when Run returns, in reverse order of
// registration.
func (cmd *Commands) OnClose(fn func() error) {
	cmd.app.onClose(fn)
}

func (cmd *Commands) Logger() Logger {
	return cmd.app.Logger()
}
