package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/enrikb/nitrokey-3-firmware/internal/config"
	"github.com/enrikb/nitrokey-3-firmware/internal/ctxlog"
	"github.com/enrikb/nitrokey-3-firmware/internal/matrix"
	"github.com/enrikb/nitrokey-3-firmware/internal/registry"
	"github.com/enrikb/nitrokey-3-firmware/internal/runners/hardware"
	"github.com/enrikb/nitrokey-3-firmware/internal/runners/workspace"
	"github.com/enrikb/nitrokey-3-firmware/internal/task"
	"github.com/enrikb/nitrokey-3-firmware/internal/toolchain"
	"github.com/enrikb/nitrokey-3-firmware/internal/version"
)

// App encapsulates one orchestrator invocation: configuration, logger,
// loaded matrix, subsystem registry and the shared task context.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	cfg      *Config
	model    *config.Model
	registry *registry.Registry
	taskCtx  *task.Context
}

// Option adjusts App construction; tests use these to substitute the
// subprocess boundary and the version source.
type Option func(*options)

type options struct {
	invoker  toolchain.Invoker
	provider version.Provider
}

// WithInvoker replaces the real subprocess invoker.
func WithInvoker(inv toolchain.Invoker) Option {
	return func(o *options) { o.invoker = inv }
}

// WithVersionProvider replaces version-control resolution.
func WithVersionProvider(p version.Provider) Option {
	return func(o *options) { o.provider = p }
}

// NewApp loads and validates the matrix, registers the subsystems and
// returns a fully initialized App with its own isolated logger. Each run is
// tagged with a fresh run id.
func NewApp(outW io.Writer, cfg *Config, loader config.Loader, opts ...Option) (*App, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.invoker == nil {
		o.invoker = toolchain.ExecInvoker{}
	}

	logger := newLogger(cfg, outW).
		With("run_id", uuid.NewString())
	ctx := ctxlog.WithLogger(context.Background(), logger)

	model, err := loader.Load(ctx, cfg.MatrixPath)
	if err != nil {
		return nil, fmt.Errorf("loading matrix: %w", err)
	}
	logger.Debug("Matrix configuration loaded.",
		"targets", len(model.Targets), "variants", len(model.Variants))

	if o.provider == nil {
		if cfg.Version != "" {
			o.provider = version.Static(cfg.Version)
		} else {
			o.provider = version.AtPath(cfg.WorkDir)
		}
	}

	reg := registry.New()
	if err := reg.Register(workspace.New()); err != nil {
		return nil, err
	}
	for _, target := range model.Targets {
		if err := reg.Register(hardware.New(target)); err != nil {
			return nil, err
		}
	}
	logger.Debug("Subsystems registered.", "count", len(reg.Subsystems()))

	driver := toolchain.NewDriver(model, o.invoker, cfg.WorkDir)

	return &App{
		outW:     outW,
		logger:   logger,
		cfg:      cfg,
		model:    model,
		registry: reg,
		taskCtx: &task.Context{
			WorkDir:  cfg.WorkDir,
			OutDir:   cfg.OutDir,
			Model:    model,
			Driver:   driver,
			Version:  o.provider,
			Extra:    matrix.NewFeatures(cfg.Features...),
			Parallel: cfg.Parallel,
			Workers:  cfg.Workers,
		},
	}, nil
}

// Registry returns the application's subsystem registry. This is primarily
// for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}
