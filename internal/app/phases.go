package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/enrikb/nitrokey-3-firmware/internal/config"
	"github.com/enrikb/nitrokey-3-firmware/internal/ctxlog"
	"github.com/enrikb/nitrokey-3-firmware/internal/matrix"
	"github.com/enrikb/nitrokey-3-firmware/internal/metadata"
	"github.com/enrikb/nitrokey-3-firmware/internal/orchestrator"
	"github.com/enrikb/nitrokey-3-firmware/internal/registry"
	"github.com/enrikb/nitrokey-3-firmware/internal/task"
)

// binariesVariants are the variants the binaries phase expands the matrix
// for.
var binariesVariants = []string{"release", "test", "provisioner"}

// Metadata output file names under the artifact directory.
const (
	licenseReportFile = "licenses.txt"
	commandDocFile    = "commands.md"
)

// phase composes the ordered step list for the requested command.
func (a *App) phase() (*orchestrator.Phase, error) {
	switch a.cfg.Command {
	case CmdCheck:
		return a.checkPhase(), nil
	case CmdDoc:
		return a.docPhase()
	case CmdLint:
		return a.lintPhase(), nil
	case CmdBinaries:
		return a.binariesPhase(), nil
	case CmdLicense:
		return &orchestrator.Phase{Name: CmdLicense, Steps: []orchestrator.Step{a.licenseStep()}}, nil
	case CmdCommands:
		return &orchestrator.Phase{Name: CmdCommands, Steps: []orchestrator.Step{a.commandDocStep()}}, nil
	case CmdManifest:
		return &orchestrator.Phase{Name: CmdManifest, Steps: []orchestrator.Step{a.manifestStep()}}, nil
	default:
		return nil, fmt.Errorf("unknown command %q", a.cfg.Command)
	}
}

// checkPhase delegates to every Checkable subsystem in registration order.
func (a *App) checkPhase() *orchestrator.Phase {
	phase := &orchestrator.Phase{Name: CmdCheck}
	for _, c := range a.registry.Checkables() {
		phase.Steps = append(phase.Steps, orchestrator.NewStep("check:"+c.Name(), c.Check))
	}
	return phase
}

// docPhase runs the documentation routine of the primary hardware target.
func (a *App) docPhase() (*orchestrator.Phase, error) {
	primary := a.model.Product.PrimaryTarget
	if primary == "" {
		primary = a.model.Targets[0].ID
	}

	doc, ok := a.registry.Lookup(primary).(registry.Documentable)
	if !ok {
		return nil, fmt.Errorf("%w: primary target %q has no documentation routine",
			config.ErrInvalid, primary)
	}

	return &orchestrator.Phase{
		Name:  CmdDoc,
		Steps: []orchestrator.Step{orchestrator.NewStep("doc:"+primary, doc.Doc)},
	}, nil
}

// lintPhase runs the workspace format check and every Lintable subsystem.
func (a *App) lintPhase() *orchestrator.Phase {
	phase := &orchestrator.Phase{Name: CmdLint}
	for _, l := range a.registry.Lintables() {
		phase.Steps = append(phase.Steps, orchestrator.NewStep("lint:"+l.Name(), l.Lint))
	}
	return phase
}

// binariesPhase expands the full matrix, builds and collects every job, then
// produces the run-wide metadata. The generators run only after all build
// jobs reached a terminal state; in parallel mode they run concurrently with
// each other.
func (a *App) binariesPhase() *orchestrator.Phase {
	build := orchestrator.NewStep("build-matrix", func(ctx context.Context, tc *task.Context) error {
		jobs, err := matrix.Expand(tc.Model, binariesVariants, tc.Extra)
		if err != nil {
			return err
		}
		ctxlog.FromContext(ctx).Info("Matrix expanded.", "jobs", len(jobs))
		return orchestrator.BuildJobs(ctx, tc, jobs)
	})

	meta := []orchestrator.Step{a.licenseStep(), a.commandDocStep(), a.manifestStep()}

	phase := &orchestrator.Phase{Name: CmdBinaries, Steps: []orchestrator.Step{build}}
	if a.cfg.Parallel {
		phase.Steps = append(phase.Steps,
			orchestrator.NewStep("metadata", func(ctx context.Context, tc *task.Context) error {
				return orchestrator.RunConcurrent(ctx, tc, meta)
			}))
		return phase
	}
	phase.Steps = append(phase.Steps, meta...)
	return phase
}

// licenseStep aggregates the dependency graph into the license report.
func (a *App) licenseStep() orchestrator.Step {
	return orchestrator.NewStep("license-report", func(ctx context.Context, tc *task.Context) error {
		deps, err := metadata.CollectDependencies(
			ctx, tc.Driver.Invoker(), tc.Model.Product.LicenseCommand, tc.SourceDir())
		if err != nil {
			return err
		}

		report, err := metadata.LicenseReport(tc.Model.Product.Name, deps)
		if err != nil {
			return err
		}
		return a.writeMetadataFile(ctx, tc, licenseReportFile, []byte(report))
	})
}

// commandDocStep renders the firmware command reference.
func (a *App) commandDocStep() orchestrator.Step {
	return orchestrator.NewStep("command-doc", func(ctx context.Context, tc *task.Context) error {
		if tc.Model.Product.CommandSurface == "" {
			return fmt.Errorf("%w: no command surface configured", metadata.ErrMetadata)
		}

		data, err := os.ReadFile(filepath.Join(tc.SourceDir(), tc.Model.Product.CommandSurface))
		if err != nil {
			return fmt.Errorf("%w: reading command surface: %v", metadata.ErrMetadata, err)
		}
		cmds, err := metadata.ParseCommandSurface(data)
		if err != nil {
			return err
		}

		doc, err := metadata.CommandDoc(tc.Model.Product.Name, cmds)
		if err != nil {
			return err
		}
		return a.writeMetadataFile(ctx, tc, commandDocFile, []byte(doc))
	})
}

// manifestStep stamps the manifest template with the resolved version.
func (a *App) manifestStep() orchestrator.Step {
	return orchestrator.NewStep("manifest", func(ctx context.Context, tc *task.Context) error {
		if tc.Model.Product.ManifestTemplate == "" {
			return fmt.Errorf("%w: no manifest template configured", metadata.ErrMetadata)
		}

		ver, err := tc.Version.Resolve(ctx)
		if err != nil {
			return err
		}

		templatePath := filepath.Join(tc.SourceDir(), tc.Model.Product.ManifestTemplate)
		template, err := os.ReadFile(templatePath)
		if err != nil {
			return fmt.Errorf("%w: reading manifest template: %v", metadata.ErrMetadata, err)
		}

		stamped, err := metadata.Stamp(template, ver)
		if err != nil {
			return err
		}

		name := strings.TrimSuffix(filepath.Base(templatePath), ".template")
		return a.writeMetadataFile(ctx, tc, name, stamped)
	})
}

func (a *App) writeMetadataFile(ctx context.Context, tc *task.Context, name string, data []byte) error {
	if err := os.MkdirAll(tc.OutDir, 0o755); err != nil {
		return err
	}
	dest := filepath.Join(tc.OutDir, name)
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return err
	}
	ctxlog.FromContext(ctx).Info("Metadata file written.", "path", dest)
	return nil
}
