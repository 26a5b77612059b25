// Package task defines the execution context threaded through every phase
// step. Working directories are explicit parameters here; nothing in a run
// mutates process-global state like the current directory.
package task

import (
	"path/filepath"

	"github.com/enrikb/nitrokey-3-firmware/internal/config"
	"github.com/enrikb/nitrokey-3-firmware/internal/matrix"
	"github.com/enrikb/nitrokey-3-firmware/internal/toolchain"
	"github.com/enrikb/nitrokey-3-firmware/internal/version"
)

// Context carries everything a phase step needs to run. It is built once per
// invocation and shared read-only by all steps.
type Context struct {
	// WorkDir is the absolute root of the firmware source tree.
	WorkDir string

	// OutDir is where canonical artifacts and metadata files land.
	OutDir string

	// Model is the loaded, validated build matrix.
	Model *config.Model

	// Driver invokes the external toolchain.
	Driver *toolchain.Driver

	// Version resolves the release version for manifest stamping.
	Version version.Provider

	// Extra is the run-level feature selection unioned into every job.
	Extra matrix.Features

	// Parallel schedules build jobs of distinct targets concurrently.
	Parallel bool

	// Workers bounds concurrent target groups when Parallel is set.
	Workers int
}

// SourceDir returns the product source directory resolved against WorkDir.
func (c *Context) SourceDir() string {
	if c.Model != nil && c.Model.Product != nil && c.Model.Product.SourceDir != "" {
		return filepath.Join(c.WorkDir, c.Model.Product.SourceDir)
	}
	return c.WorkDir
}
