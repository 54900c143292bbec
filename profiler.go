package backdrop

import "time"

// FrameBudget is the per-frame time a 60 Hz display allows.
const FrameBudget = 16 * time.Millisecond

// FrameProfiler tracks how long the update and draw of the last frame took.
// Nothing is enforced; frames over budget are only counted and logged.
type FrameProfiler struct {
	Budget     time.Duration
	UpdateTime time.Duration
	RenderTime time.Duration
	Frames     uint64
	OverBudget uint64
}

func (p *FrameProfiler) Reset() {
	p.UpdateTime = 0
	p.RenderTime = 0
}

func (p *FrameProfiler) Total() time.Duration {
	return p.UpdateTime + p.RenderTime
}

type ProfilerModule struct {
	Budget time.Duration
}

func (mod ProfilerModule) Install(app *App, cmd *Commands) {
	budget := mod.Budget
	if budget <= 0 {
		budget = FrameBudget
	}
	cmd.AddResources(&FrameProfiler{Budget: budget})
	app.UseSystem(System(profilerResetSystem).InStage(Prelude))
	app.UseSystem(System(profilerReportSystem).InStage(Finale))
}

func profilerResetSystem(p *FrameProfiler) {
	p.Reset()
}

func profilerReportSystem(p *FrameProfiler, cmd *Commands) {
	p.Frames++
	if total := p.Total(); total > p.Budget {
		p.OverBudget++
		cmd.Logger().Debugf("Frame %d over budget: update=%s render=%s (budget %s)",
			p.Frames, p.UpdateTime, p.RenderTime, p.Budget)
	}
}
