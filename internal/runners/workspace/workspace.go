// Package workspace is the subsystem covering workspace-wide concerns that
// belong to no single hardware target. It currently carries the formatting
// check for the lint phase.
package workspace

import (
	"context"
	"fmt"
	"strings"

	"github.com/enrikb/nitrokey-3-firmware/internal/ctxlog"
	"github.com/enrikb/nitrokey-3-firmware/internal/task"
	"github.com/enrikb/nitrokey-3-firmware/internal/toolchain"
)

// Default formatting check when the product block declares none.
var defaultFmtCommand = []string{"cargo", "fmt", "--", "--check"}

// Runner is the workspace subsystem. It is Lintable only.
type Runner struct{}

// New creates the workspace runner.
func New() *Runner {
	return &Runner{}
}

// Name implements registry.Subsystem.
func (*Runner) Name() string {
	return "workspace"
}

// Lint runs the formatting/style check across the whole source tree.
func (*Runner) Lint(ctx context.Context, tc *task.Context) error {
	logger := ctxlog.FromContext(ctx)

	argv := defaultFmtCommand
	if tc.Model.Product != nil && len(tc.Model.Product.FmtCommand) > 0 {
		argv = tc.Model.Product.FmtCommand
	}

	inv := toolchain.Invocation{Command: argv[0], Args: argv[1:], Dir: tc.SourceDir()}
	logger.Debug("Running workspace format check.", "command", inv.String())

	result, err := tc.Driver.Invoker().Run(ctx, inv)
	if err != nil {
		diag := ""
		if result != nil {
			if d := strings.TrimSpace(result.Stdout + result.Stderr); d != "" {
				diag = "\n" + d
			}
		}
		return fmt.Errorf("workspace format check: %w%s", err, diag)
	}
	return nil
}
