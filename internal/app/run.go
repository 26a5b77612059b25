package app

import (
	"context"

	"github.com/enrikb/nitrokey-3-firmware/internal/ctxlog"
)

// Run executes the configured command. The phase's first failing step aborts
// the rest of it; completed artifacts are left in place.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run started.", "command", a.cfg.Command, "workdir", a.cfg.WorkDir)

	phase, err := a.phase()
	if err != nil {
		return err
	}

	if err := phase.Run(ctx, a.taskCtx); err != nil {
		return err
	}

	a.logger.Debug("App.Run finished.")
	return nil
}
