// Package artifact places raw build outputs at their canonical destinations.
package artifact

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/enrikb/nitrokey-3-firmware/internal/config"
	"github.com/enrikb/nitrokey-3-firmware/internal/matrix"
)

// Name returns the canonical artifact file name for a job:
// <kind>-<target><suffix><extension>. It is a pure function of the job's
// identity, so the destination never depends on build order and repeated
// collection overwrites the same path.
func Name(job *matrix.Job) string {
	kind := config.KindFirmware
	if job.Variant.Kind == config.KindProvisioner {
		kind = config.KindProvisioner
	}
	return kind + "-" + job.Target.ID + job.Variant.OutputSuffix + job.Target.Extension()
}

// Collect copies the raw build output to its canonical destination under
// outDir, creating directories as needed, and returns the destination path.
// The source is left in place. Collection is idempotent: identical raw output
// yields a byte-identical destination file.
func Collect(job *matrix.Job, rawPath, outDir string) (string, error) {
	dest := filepath.Join(outDir, Name(job))

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("collecting %s: %w", job.Key(), err)
	}

	src, err := os.Open(rawPath)
	if err != nil {
		return "", fmt.Errorf("collecting %s: %w", job.Key(), err)
	}
	defer src.Close()

	out, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("collecting %s: %w", job.Key(), err)
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		return "", fmt.Errorf("collecting %s: %w", job.Key(), err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("collecting %s: %w", job.Key(), err)
	}

	return dest, nil
}
