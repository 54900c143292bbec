package backdrop

// OneShotPresenter finishes its work in one successful Present, like a
// gradient written to disk.
type OneShotPresenter interface {
	GradientPresenter
	Done() bool
}

// LiveSurface is implemented by renderers that keep a window or screen open
// while falling back, so the app keeps running until the user quits.
type LiveSurface interface {
	LiveSurface() bool
}

// FallbackBackground is the resource behind a backdrop without particles.
type FallbackBackground struct {
	Presenter    GradientPresenter
	Presented    uint64
	ExitWhenDone bool
	failed       bool
}

// FallbackModule presents the gradient once per frame at a paced rate. With
// ExitWhenDone a one-shot presenter stops the app once it is done, since
// nothing is left on screen to keep alive.
type FallbackModule struct {
	Presenter    GradientPresenter
	FPS          int
	ExitWhenDone bool
}

func (mod FallbackModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&FallbackBackground{Presenter: mod.Presenter, ExitWhenDone: mod.ExitWhenDone})
	app.UseSystem(System(fallbackSystem).InStage(Render))
	usePacer(app, mod.FPS)
}

// fallbackSystem reports only the first failure; the background is cosmetic
// and later frames simply try again.
func fallbackSystem(t *Time, bg *FallbackBackground, cmd *Commands) {
	oneShot, isOneShot := bg.Presenter.(OneShotPresenter)
	if err := bg.Presenter.Present(t.Elapsed); err != nil {
		if !bg.failed {
			cmd.Logger().Errorf("Fallback background: %v", err)
			bg.failed = true
		}
		if isOneShot && bg.ExitWhenDone {
			cmd.Exit()
		}
		return
	}
	bg.Presented++
	if isOneShot && bg.ExitWhenDone && oneShot.Done() {
		cmd.Logger().Infof("Fallback background saved, nothing left to show")
		cmd.Exit()
	}
}
