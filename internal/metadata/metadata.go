// Package metadata produces the run-wide release documents: the dependency
// license report, the firmware command reference and the version-stamped
// manifest. Each generator is independent of the others and of any single
// build job.
package metadata

import "errors"

// ErrMetadata is the sentinel for metadata-generation failures caused by
// missing or malformed input. A failing generator aborts its own output
// only; completed build jobs in the same phase are untouched.
var ErrMetadata = errors.New("metadata generation failed")
