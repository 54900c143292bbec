package backdrop

import "errors"

// Probe reports whether hardware-accelerated particle rendering is possible.
// A nil error means it is.
type Probe interface {
	Probe() error
}

type ProbeFunc func() error

func (f ProbeFunc) Probe() error { return f() }

// StaticProbe always answers the same way.
type StaticProbe struct {
	Err error
}

func (p StaticProbe) Probe() error { return p.Err }

var ErrNoAcceleration = errors.New("accelerated rendering unavailable")

// Backdrop is the one-time outcome of the capability check: either
// Accelerated or Fallback.
type Backdrop interface {
	isBackdrop()
	String() string
}

type Accelerated struct{}

// Fallback carries why acceleration was refused.
type Fallback struct {
	Reason error
}

func (Accelerated) isBackdrop() {}
func (Fallback) isBackdrop()    {}

func (Accelerated) String() string { return "accelerated" }
func (f Fallback) String() string {
	if f.Reason == nil {
		return "fallback"
	}
	return "fallback (" + f.Reason.Error() + ")"
}

// SelectBackdrop runs probe exactly once. A failed probe is logged as a
// warning and degrades to Fallback; it is never returned as an error.
func SelectBackdrop(probe Probe, logger Logger) Backdrop {
	if logger == nil {
		logger = NewNopLogger()
	}
	if probe == nil {
		logger.Warnf("No capability probe, falling back to gradient background")
		return Fallback{Reason: ErrNoAcceleration}
	}
	if err := probe.Probe(); err != nil {
		logger.Warnf("Accelerated rendering not supported, falling back to gradient background: %v", err)
		return Fallback{Reason: err}
	}
	return Accelerated{}
}

// BackdropState records which variant was selected at startup.
type BackdropState struct {
	Selected Backdrop
}

func (s *BackdropState) Accelerated() bool {
	_, ok := s.Selected.(Accelerated)
	return ok
}
