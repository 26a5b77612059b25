package orchestrator_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enrikb/nitrokey-3-firmware/internal/orchestrator"
	"github.com/enrikb/nitrokey-3-firmware/internal/task"
)

func TestPhaseRunsStepsInDeclaredOrder(t *testing.T) {
	var ran []string
	step := func(name string) orchestrator.Step {
		return orchestrator.NewStep(name, func(context.Context, *task.Context) error {
			ran = append(ran, name)
			return nil
		})
	}

	phase := &orchestrator.Phase{Name: "check", Steps: []orchestrator.Step{
		step("a"), step("b"), step("c"),
	}}
	require.NoError(t, phase.Run(context.Background(), &task.Context{}))
	assert.Equal(t, []string{"a", "b", "c"}, ran)
}

func TestPhaseFailsFastAndAttributesFailure(t *testing.T) {
	var ran []string
	ok := func(name string) orchestrator.Step {
		return orchestrator.NewStep(name, func(context.Context, *task.Context) error {
			ran = append(ran, name)
			return nil
		})
	}
	boom := errors.New("toolchain exploded")
	failing := orchestrator.NewStep("b", func(context.Context, *task.Context) error {
		ran = append(ran, "b")
		return boom
	})

	phase := &orchestrator.Phase{Name: "binaries", Steps: []orchestrator.Step{
		ok("a"), failing, ok("c"),
	}}
	err := phase.Run(context.Background(), &task.Context{})

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "phase binaries")
	assert.Contains(t, err.Error(), "step b")
	assert.Equal(t, []string{"a", "b"}, ran, "step c must never execute")
}

func TestRunConcurrentReportsFirstFailureInDeclarationOrder(t *testing.T) {
	first := errors.New("license input missing")
	second := errors.New("manifest template missing")
	steps := []orchestrator.Step{
		orchestrator.NewStep("license-report", func(context.Context, *task.Context) error { return first }),
		orchestrator.NewStep("command-doc", func(context.Context, *task.Context) error { return nil }),
		orchestrator.NewStep("manifest", func(context.Context, *task.Context) error { return second }),
	}

	err := orchestrator.RunConcurrent(context.Background(), &task.Context{}, steps)

	require.Error(t, err)
	assert.ErrorIs(t, err, first)
	assert.Contains(t, err.Error(), "license-report")
}
