// Package hardware adapts one configured hardware target into a registrable
// subsystem: its check, lint and doc routines delegate to the target's
// toolchain profile through the shared invoker.
package hardware

import (
	"context"
	"fmt"
	"strings"

	"github.com/enrikb/nitrokey-3-firmware/internal/config"
	"github.com/enrikb/nitrokey-3-firmware/internal/ctxlog"
	"github.com/enrikb/nitrokey-3-firmware/internal/task"
	"github.com/enrikb/nitrokey-3-firmware/internal/toolchain"
)

// Runner exposes a hardware target as a Checkable, Lintable and Documentable
// subsystem.
type Runner struct {
	target *config.Target
}

// New creates a runner for the given target.
func New(target *config.Target) *Runner {
	return &Runner{target: target}
}

// Name returns the target id.
func (r *Runner) Name() string {
	return r.target.ID
}

// Check runs the toolchain's check verb for this target.
func (r *Runner) Check(ctx context.Context, tc *task.Context) error {
	profile := tc.Model.Toolchains[r.target.Profile]
	return r.runVerb(ctx, tc, "check", profile.CheckArgs)
}

// Lint runs the toolchain's lint verb for this target.
func (r *Runner) Lint(ctx context.Context, tc *task.Context) error {
	profile := tc.Model.Toolchains[r.target.Profile]
	return r.runVerb(ctx, tc, "lint", profile.LintArgs)
}

// Doc runs the toolchain's documentation verb for this target.
func (r *Runner) Doc(ctx context.Context, tc *task.Context) error {
	profile := tc.Model.Toolchains[r.target.Profile]
	return r.runVerb(ctx, tc, "doc", profile.DocArgs)
}

func (r *Runner) runVerb(ctx context.Context, tc *task.Context, verb string, args []string) error {
	logger := ctxlog.FromContext(ctx)
	inv := tc.Driver.Verb(r.target, args)
	logger.Debug("Delegating to hardware runner.", "target", r.target.ID, "verb", verb)

	result, err := tc.Driver.Invoker().Run(ctx, inv)
	if err != nil {
		return fmt.Errorf("%s %s: %w%s", verb, r.target.ID, err, diagnostic(result))
	}
	return nil
}

func diagnostic(result *toolchain.Result) string {
	if result == nil {
		return ""
	}
	if d := strings.TrimSpace(result.Stderr); d != "" {
		return "\n" + d
	}
	return ""
}
