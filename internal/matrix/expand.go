// Package matrix expands the target/variant configuration into the ordered
// list of build jobs for a phase and models the composed feature set of each
// job as an explicit value type.
package matrix

import (
	"fmt"

	"github.com/enrikb/nitrokey-3-firmware/internal/config"
)

// Expand enumerates the build jobs for the requested variants: targets in
// declared order, variants in declared order within each target. Expansion is
// pure; given an unchanged model and arguments it always yields the same
// sequence. An unknown variant id is a configuration error raised before any
// build begins.
func Expand(model *config.Model, variantIDs []string, extra Features) ([]*Job, error) {
	requested := make(map[string]bool, len(variantIDs))
	for _, id := range variantIDs {
		if model.VariantByID(id) == nil {
			return nil, fmt.Errorf("%w: unknown variant %q", config.ErrInvalid, id)
		}
		requested[id] = true
	}

	var jobs []*Job
	seen := make(map[string]bool)
	for _, target := range model.Targets {
		for _, variant := range model.Variants {
			if !requested[variant.ID] {
				continue
			}
			composed := NewFeatures(target.Features...).
				Union(NewFeatures(variant.Features...)).
				Union(extra)
			job := &Job{
				Target:   target,
				Variant:  variant,
				Features: composed,
			}
			// Duplicate ids slip past a model that skipped validation;
			// catching them here keeps artifact destinations unique.
			if seen[job.Key()] {
				return nil, fmt.Errorf("%w: duplicate job %s", config.ErrInvalid, job.Key())
			}
			seen[job.Key()] = true
			jobs = append(jobs, job)
		}
	}
	return jobs, nil
}
