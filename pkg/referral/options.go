package referral

import "time"

// Option configures the signup engine or the code generator.
type Option interface {
	applyEngine(*Engine)
	applyCodeGenerator(*CodeGenerator)
}

type clockOption struct {
	now func() time.Time
}

func (o clockOption) applyEngine(e *Engine)                { e.now = o.now }
func (o clockOption) applyCodeGenerator(g *CodeGenerator)  {}

// WithClock overrides the engine's time source, primarily for tests.
func WithClock(now func() time.Time) Option {
	if now == nil {
		panic("referral: nil clock")
	}
	return clockOption{now: now}
}

type codeFuncOption struct {
	newCode func() string
}

func (o codeFuncOption) applyEngine(e *Engine)               {}
func (o codeFuncOption) applyCodeGenerator(g *CodeGenerator) { g.newCode = o.newCode }

// WithCodeFunc overrides candidate code generation, primarily for tests.
func WithCodeFunc(newCode func() string) Option {
	if newCode == nil {
		panic("referral: nil code func")
	}
	return codeFuncOption{newCode: newCode}
}
