package backdrop

type Commands struct {
	app *App
}

func (cmd *Commands) AddResources(resources ...any) *Commands {
	cmd.app.addResources(resources...)
	return cmd
}

// Exit stops the app after the current frame.
func (cmd *Commands) Exit() {
	cmd.app.exitReq = true
}

// OnTeardown registers fn to run when the app is dismantled. Hooks run in
// reverse order of registration.
func (cmd *Commands) OnTeardown(fn func()) *Commands {
	cmd.app.teardown = append(cmd.app.teardown, fn)
	return cmd
}

func (cmd *Commands) Logger() Logger {
	return cmd.app.Logger()
}
