package backdrop

import "time"

// DefaultFallbackFPS paces a fallback background; the gradient pans over
// seconds, so a low rate is plenty.
const DefaultFallbackFPS = 30

// FramePacer caps the frame rate of loops that nothing else blocks, such as
// the terminal or a fallback background.
type FramePacer struct {
	Interval time.Duration
	Sleep    func(time.Duration)

	last time.Time
}

func NewFramePacer(fps int) *FramePacer {
	if fps <= 0 {
		fps = DefaultFallbackFPS
	}
	return &FramePacer{Interval: time.Second / time.Duration(fps), Sleep: time.Sleep}
}

// Wait sleeps out the rest of the frame that started at the previous call.
// The first frame and late frames never wait.
func (p *FramePacer) Wait(now time.Time) time.Duration {
	var wait time.Duration
	if !p.last.IsZero() {
		wait = p.Interval - now.Sub(p.last)
	}
	if wait > 0 {
		p.Sleep(wait)
		now = now.Add(wait)
	} else {
		wait = 0
	}
	p.last = now
	return wait
}

// usePacer installs one pacing system in Finale. Later calls keep the first
// pacer.
func usePacer(app *App, fps int) *FramePacer {
	if p, ok := Resource[FramePacer](app); ok {
		return p
	}
	p := NewFramePacer(fps)
	app.addResources(p)
	app.UseSystem(System(framePacerSystem).InStage(Finale))
	return p
}

func framePacerSystem(p *FramePacer) {
	p.Wait(time.Now())
}
