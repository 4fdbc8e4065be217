package entitlement

import "time"

// Option configures the evaluator or sweeper.
type Option interface {
	applyEvaluator(*Evaluator)
	applySweeper(*Sweeper)
}

type clockOption struct {
	now func() time.Time
}

func (o clockOption) applyEvaluator(e *Evaluator) { e.now = o.now }
func (o clockOption) applySweeper(s *Sweeper)     { s.now = o.now }

// WithClock overrides the time source, primarily for tests.
func WithClock(now func() time.Time) Option {
	if now == nil {
		panic("entitlement: nil clock")
	}
	return clockOption{now: now}
}
