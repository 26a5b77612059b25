package orchestrator

import (
	"context"
	"errors"
	"sync"

	"github.com/enrikb/nitrokey-3-firmware/internal/artifact"
	"github.com/enrikb/nitrokey-3-firmware/internal/ctxlog"
	"github.com/enrikb/nitrokey-3-firmware/internal/matrix"
	"github.com/enrikb/nitrokey-3-firmware/internal/task"
)

// BuildJobs builds and collects every job. The baseline is strictly
// sequential in matrix order for a linear, diagnosable log. With
// tc.Parallel, jobs are grouped by target and groups run concurrently:
// distinct targets share no build directory, toolchain profile or canonical
// artifact path, while variants of one target share its build directory and
// therefore stay sequential within the group. Cross-target isolation is an
// assumption of the matrix configuration, not something verified here.
func BuildJobs(ctx context.Context, tc *task.Context, jobs []*matrix.Job) error {
	if !tc.Parallel {
		for _, job := range jobs {
			if err := buildOne(ctx, tc, job); err != nil {
				return err
			}
		}
		return nil
	}
	return buildGrouped(ctx, tc, jobs)
}

func buildOne(ctx context.Context, tc *task.Context, job *matrix.Job) error {
	logger := ctxlog.FromContext(ctx)

	if err := job.Start(); err != nil {
		return err
	}
	raw, err := tc.Driver.Build(ctx, job)
	if err != nil {
		job.Finish(err)
		return err
	}

	dest, err := artifact.Collect(job, raw, tc.OutDir)
	job.Finish(err)
	if err != nil {
		return err
	}

	logger.Info("Artifact collected.", "job", job.Key(), "path", dest)
	return nil
}

// buildGrouped schedules one goroutine per target group, bounded by
// tc.Workers, cancelling the remaining groups once any job fails. The first
// failure in matrix order is reported.
func buildGrouped(ctx context.Context, tc *task.Context, jobs []*matrix.Job) error {
	groups := groupByTarget(jobs)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	workers := tc.Workers
	if workers <= 0 {
		workers = len(groups)
	}
	sem := make(chan struct{}, workers)

	errs := make([]error, len(groups))
	var wg sync.WaitGroup
	wg.Add(len(groups))
	for i, group := range groups {
		go func() {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-runCtx.Done():
				errs[i] = runCtx.Err()
				return
			}
			for _, job := range group {
				if runCtx.Err() != nil {
					errs[i] = runCtx.Err()
					return
				}
				if err := buildOne(runCtx, tc, job); err != nil {
					errs[i] = err
					cancel()
					return
				}
			}
		}()
	}
	wg.Wait()

	// Prefer a real build failure over cancellation fallout as the root
	// cause, matching the sequential failure attribution.
	var firstCancel error
	for _, err := range errs {
		if err == nil {
			continue
		}
		if errors.Is(err, context.Canceled) {
			if firstCancel == nil {
				firstCancel = err
			}
			continue
		}
		return err
	}
	return firstCancel
}

// groupByTarget splits jobs into per-target groups preserving matrix order
// both across and within groups.
func groupByTarget(jobs []*matrix.Job) [][]*matrix.Job {
	var order []string
	byTarget := make(map[string][]*matrix.Job)
	for _, job := range jobs {
		id := job.Target.ID
		if _, ok := byTarget[id]; !ok {
			order = append(order, id)
		}
		byTarget[id] = append(byTarget[id], job)
	}

	groups := make([][]*matrix.Job, 0, len(order))
	for _, id := range order {
		groups = append(groups, byTarget[id])
	}
	return groups
}
