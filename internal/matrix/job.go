package matrix

import (
	"fmt"
	"sync/atomic"

	"github.com/enrikb/nitrokey-3-firmware/internal/config"
)

// Status is the lifecycle state of a build job.
type Status int32

const (
	Pending Status = iota
	Running
	Succeeded
	Failed
)

// String implements fmt.Stringer for Status.
func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case Running:
		return "running"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether the status is final for this run.
func (s Status) IsTerminal() bool {
	return s == Succeeded || s == Failed
}

// Job pairs one target with one variant. Its composed feature set is fixed at
// expansion time: target base ∪ variant extras ∪ run-level extras, nothing
// else. State transitions are monotonic; a terminal job is never re-entered.
type Job struct {
	Target   *config.Target
	Variant  *config.Variant
	Features Features

	state atomic.Int32
	err   error
}

// Key uniquely identifies the job within a phase.
func (j *Job) Key() string {
	return j.Target.ID + "/" + j.Variant.ID
}

// Status returns the job's current lifecycle state.
func (j *Job) Status() Status {
	return Status(j.state.Load())
}

// Start transitions the job from Pending to Running.
func (j *Job) Start() error {
	if !j.state.CompareAndSwap(int32(Pending), int32(Running)) {
		return fmt.Errorf("job %s cannot start from state %s", j.Key(), j.Status())
	}
	return nil
}

// Finish moves a Running job to its terminal state. A nil error marks it
// Succeeded, anything else Failed with the error retained.
func (j *Job) Finish(err error) {
	if Status(j.state.Load()).IsTerminal() {
		return
	}
	j.err = err
	if err != nil {
		j.state.Store(int32(Failed))
		return
	}
	j.state.Store(int32(Succeeded))
}

// Err returns the failure recorded by Finish, if any.
func (j *Job) Err() error {
	return j.err
}
