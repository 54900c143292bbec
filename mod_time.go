package backdrop

import (
	"time"
)

// Time is the frame clock. Elapsed is seconds since the first frame and only
// ever grows.
type Time struct {
	Start   time.Time
	Time    time.Time
	Dt      time.Duration
	Elapsed float64
	Frame   uint64
}

// TimeModule advances Time once per frame in the Prelude stage. A non-zero
// FixedStep advances by exactly that much each frame instead of reading the
// wall clock, for offline rendering.
type TimeModule struct {
	FixedStep time.Duration
	Now       func() time.Time
}

func (mod TimeModule) Install(app *App, cmd *Commands) {
	now := mod.Now
	if now == nil {
		now = time.Now
	}
	start := now()
	cmd.AddResources(&Time{
		Start: start,
		Time:  start,
		Dt:    0,
	})

	if mod.FixedStep > 0 {
		step := mod.FixedStep
		app.UseSystem(System(func(t *Time) {
			advanceTime(t, t.Time.Add(step))
		}).InStage(Prelude))
		return
	}
	app.UseSystem(System(func(t *Time) {
		advanceTime(t, now())
	}).InStage(Prelude))
}

func advanceTime(t *Time, now time.Time) {
	if t.Frame > 0 {
		t.Dt = now.Sub(t.Time)
		t.Time = now
	}
	t.Elapsed = t.Time.Sub(t.Start).Seconds()
	t.Frame++
}
