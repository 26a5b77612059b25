// Package orchestrator sequences phase steps. A phase is a finite ordered
// list of steps executed fail-fast: the first failing step aborts the rest of
// the phase, and outputs of completed steps are deliberately left in place.
package orchestrator

import (
	"context"
	"fmt"
	"sync"

	"github.com/enrikb/nitrokey-3-firmware/internal/ctxlog"
	"github.com/enrikb/nitrokey-3-firmware/internal/task"
)

// Step is one unit of phase work.
type Step interface {
	Name() string
	Run(ctx context.Context, tc *task.Context) error
}

// StepFunc adapts a function into a named Step.
type StepFunc struct {
	ID string
	Fn func(ctx context.Context, tc *task.Context) error
}

// NewStep wraps fn as a Step with the given name.
func NewStep(name string, fn func(ctx context.Context, tc *task.Context) error) Step {
	return StepFunc{ID: name, Fn: fn}
}

// Name implements Step.
func (s StepFunc) Name() string { return s.ID }

// Run implements Step.
func (s StepFunc) Run(ctx context.Context, tc *task.Context) error { return s.Fn(ctx, tc) }

// Phase is a named ordered sequence of steps.
type Phase struct {
	Name  string
	Steps []Step
}

// Run executes the steps in declared order and stops at the first failure,
// wrapping it with the phase and step identity. There is no retry and no
// rollback; a later phase never starts automatically.
func (p *Phase) Run(ctx context.Context, tc *task.Context) error {
	logger := ctxlog.FromContext(ctx)
	logger.Info("Phase started.", "phase", p.Name, "steps", len(p.Steps))

	for _, step := range p.Steps {
		logger.Info("Step started.", "phase", p.Name, "step", step.Name())
		if err := step.Run(ctx, tc); err != nil {
			logger.Error("Step failed, aborting phase.",
				"phase", p.Name, "step", step.Name(), "error", err)
			return fmt.Errorf("phase %s: step %s: %w", p.Name, step.Name(), err)
		}
		logger.Info("Step finished.", "phase", p.Name, "step", step.Name())
	}

	logger.Info("Phase finished.", "phase", p.Name)
	return nil
}

// RunConcurrent executes independent steps at the same time and reports the
// first failure observed in declaration order. It is used for the metadata
// generators, which depend neither on each other nor on individual build
// jobs.
func RunConcurrent(ctx context.Context, tc *task.Context, steps []Step) error {
	errs := make([]error, len(steps))
	var wg sync.WaitGroup
	wg.Add(len(steps))
	for i, step := range steps {
		go func() {
			defer wg.Done()
			errs[i] = step.Run(ctx, tc)
		}()
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return fmt.Errorf("step %s: %w", steps[i].Name(), err)
		}
	}
	return nil
}
