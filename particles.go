package backdrop

import (
	"math/rand"
	"time"

	"github.com/gekko3d/backdrop/field"
	"github.com/google/uuid"
)

// ParticleField is the live particle state of an accelerated backdrop and the
// frame derived from it this refresh.
type ParticleField struct {
	ID      uuid.UUID
	Store   *field.Store
	Updater *field.Updater
	Frame   field.Frame
	Steps   uint64
}

// ParticleFieldModule installs the store, the per-frame update in Update and
// the hand-off to Sink in Render.
type ParticleFieldModule struct {
	Count        int
	ParticleSize float32
	Rng          *rand.Rand
	Sink         Sink
}

func (mod ParticleFieldModule) Install(app *App, cmd *Commands) {
	ensureResource(app, func() *field.Tracker { return field.NewTracker(false) })
	ensureResource(app, func() *FrameProfiler { return &FrameProfiler{Budget: FrameBudget} })

	pf := &ParticleField{
		ID:      uuid.New(),
		Store:   field.NewStore(mod.Count, mod.Rng),
		Updater: field.NewUpdater(mod.ParticleSize),
	}
	cmd.AddResources(pf)
	app.Logger().Infof("Particle field %s: %d particles", pf.ID, pf.Store.Len())

	app.UseSystem(System(particleFieldSystem).InStage(Update))

	if mod.Sink == nil {
		return
	}
	sink := mod.Sink
	app.UseSystem(System(func(pf *ParticleField, prof *FrameProfiler, cmd *Commands) {
		start := time.Now()
		if err := sink.Draw(&pf.Frame); err != nil {
			cmd.Logger().Errorf("Particle field %s: draw failed, frame dropped: %v", pf.ID, err)
		}
		prof.RenderTime += time.Since(start)
	}).InStage(Render))
}

func particleFieldSystem(t *Time, tracker *field.Tracker, pf *ParticleField, prof *FrameProfiler) {
	start := time.Now()
	pf.Frame = pf.Updater.Step(pf.Store.Particles(), t.Elapsed, tracker.Input())
	pf.Steps++
	prof.UpdateTime += time.Since(start)
}
