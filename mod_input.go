package backdrop

import "github.com/gekko3d/backdrop/field"

// InputModule provides the field.Tracker every input source writes into.
// With MouseInfluence off no pointer or scroll sample is ever recorded.
type InputModule struct {
	MouseInfluence bool
}

func (mod InputModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(field.NewTracker(mod.MouseInfluence))
	if !mod.MouseInfluence {
		app.Logger().Debugf("Mouse influence disabled, pointer and scroll are ignored")
	}
}
