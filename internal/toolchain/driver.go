package toolchain

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/enrikb/nitrokey-3-firmware/internal/config"
	"github.com/enrikb/nitrokey-3-firmware/internal/ctxlog"
	"github.com/enrikb/nitrokey-3-firmware/internal/matrix"
)

// BuildError reports a failed toolchain invocation for one build job. The
// toolchain's diagnostic text is carried verbatim.
type BuildError struct {
	Target     string
	Variant    string
	Invocation string
	Diagnostic string
	Err        error
}

// Error implements the error interface.
func (e *BuildError) Error() string {
	msg := fmt.Sprintf("building %s/%s: %v", e.Target, e.Variant, e.Err)
	if d := strings.TrimSpace(e.Diagnostic); d != "" {
		msg += "\n" + d
	}
	return msg
}

// Unwrap exposes the underlying invocation error.
func (e *BuildError) Unwrap() error {
	return e.Err
}

// Driver invokes the external toolchain for exactly one (target, variant)
// pair at a time.
type Driver struct {
	model   *config.Model
	invoker Invoker
	workDir string
}

// NewDriver creates a build driver rooted at workDir.
func NewDriver(model *config.Model, invoker Invoker, workDir string) *Driver {
	return &Driver{model: model, invoker: invoker, workDir: workDir}
}

// Build runs the toolchain for the job and returns the path of the raw build
// output. The job's composed feature set is passed to the toolchain verbatim,
// as a single --features argument; no feature is added or removed here. On
// failure the job's would-be artifact is never produced and no cleanup or
// retry is attempted.
func (d *Driver) Build(ctx context.Context, job *matrix.Job) (string, error) {
	logger := ctxlog.FromContext(ctx)

	profile := d.model.Toolchains[job.Target.Profile]
	if profile == nil {
		return "", fmt.Errorf("%w: target %q references unknown toolchain %q",
			config.ErrInvalid, job.Target.ID, job.Target.Profile)
	}

	inv := Invocation{
		Command: profile.Command,
		Args:    append([]string{}, profile.BuildArgs...),
		Dir:     d.targetDir(job.Target),
	}
	if job.Target.Triple != "" {
		inv.Args = append(inv.Args, "--target", job.Target.Triple)
	}
	if job.Features.Len() > 0 {
		inv.Args = append(inv.Args, "--features", job.Features.String())
	}

	logger.Info("Building.", "job", job.Key(), "features", job.Features.String())
	if err := d.run(ctx, job, inv); err != nil {
		return "", err
	}

	raw := filepath.Join(inv.Dir, job.Target.RawOutput(job.Variant.Kind))
	if len(job.Target.Postprocess) == 0 {
		return raw, nil
	}

	// The signing/boot-record step: the external post-processor receives the
	// raw output and the destination it must produce.
	processed := strings.TrimSuffix(raw, filepath.Ext(raw)) + job.Target.Extension()
	post := Invocation{
		Command: job.Target.Postprocess[0],
		Args:    append(append([]string{}, job.Target.Postprocess[1:]...), raw, processed),
		Dir:     d.targetDir(job.Target),
	}
	logger.Debug("Post-processing raw output.", "job", job.Key(), "dest", processed)
	if err := d.run(ctx, job, post); err != nil {
		return "", err
	}
	return processed, nil
}

// Verb composes a non-build invocation (check, lint, doc) of the target's
// profile for the subsystem runners: same command, triple and base features,
// different argument list.
func (d *Driver) Verb(target *config.Target, args []string) Invocation {
	profile := d.model.Toolchains[target.Profile]
	inv := Invocation{
		Command: profile.Command,
		Args:    append([]string{}, args...),
		Dir:     d.targetDir(target),
	}
	if target.Triple != "" {
		inv.Args = append(inv.Args, "--target", target.Triple)
	}
	if len(target.Features) > 0 {
		inv.Args = append(inv.Args, "--features", matrix.NewFeatures(target.Features...).String())
	}
	return inv
}

// Invoker returns the driver's underlying invoker.
func (d *Driver) Invoker() Invoker {
	return d.invoker
}

func (d *Driver) run(ctx context.Context, job *matrix.Job, inv Invocation) error {
	result, err := d.invoker.Run(ctx, inv)
	if err != nil {
		berr := &BuildError{
			Target:     job.Target.ID,
			Variant:    job.Variant.ID,
			Invocation: inv.String(),
			Err:        err,
		}
		if result != nil {
			berr.Diagnostic = result.Stderr
		}
		return berr
	}
	return nil
}

func (d *Driver) targetDir(target *config.Target) string {
	dir := d.workDir
	if d.model.Product != nil {
		dir = filepath.Join(dir, d.model.Product.SourceDir)
	}
	if target.Dir != "" {
		dir = filepath.Join(dir, target.Dir)
	}
	return dir
}
