package matrix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enrikb/nitrokey-3-firmware/internal/config"
)

func testModel() *config.Model {
	return &config.Model{
		Product: &config.Product{Name: "nitrokey-3"},
		Targets: []*config.Target{
			{ID: "nk3xn", Features: []string{"board-nk3xn"}, Format: config.FormatBin},
			{ID: "nk3am", Features: []string{"board-nk3am"}, Format: config.FormatIhex},
		},
		Variants: []*config.Variant{
			{ID: "release", Kind: config.KindFirmware},
			{ID: "test", Features: []string{"test"}, Kind: config.KindFirmware, OutputSuffix: "-test"},
			{ID: "provisioner", Features: []string{"provisioner"}, Kind: config.KindProvisioner},
		},
	}
}

func TestExpandOrderIsTargetsThenVariants(t *testing.T) {
	jobs, err := Expand(testModel(), []string{"release", "test", "provisioner"}, Features{})
	require.NoError(t, err)

	keys := make([]string, 0, len(jobs))
	for _, job := range jobs {
		keys = append(keys, job.Key())
	}
	assert.Equal(t, []string{
		"nk3xn/release", "nk3xn/test", "nk3xn/provisioner",
		"nk3am/release", "nk3am/test", "nk3am/provisioner",
	}, keys)
}

func TestExpandIsDeterministic(t *testing.T) {
	model := testModel()
	first, err := Expand(model, []string{"release", "test"}, NewFeatures("extra"))
	require.NoError(t, err)
	second, err := Expand(model, []string{"release", "test"}, NewFeatures("extra"))
	require.NoError(t, err)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].Key(), second[i].Key())
		assert.Equal(t, first[i].Features.List(), second[i].Features.List())
	}
}

func TestExpandComposesFeatureUnion(t *testing.T) {
	jobs, err := Expand(testModel(), []string{"provisioner"}, NewFeatures("se050"))
	require.NoError(t, err)
	require.Len(t, jobs, 2)

	// target base, then variant extras, then run-level extras.
	assert.Equal(t, []string{"board-nk3xn", "provisioner", "se050"}, jobs[0].Features.List())
	assert.Equal(t, []string{"board-nk3am", "provisioner", "se050"}, jobs[1].Features.List())
}

func TestExpandNoDuplicateKeys(t *testing.T) {
	jobs, err := Expand(testModel(), []string{"release", "test", "provisioner"}, Features{})
	require.NoError(t, err)

	seen := make(map[string]bool)
	for _, job := range jobs {
		assert.False(t, seen[job.Key()], "duplicate job key %s", job.Key())
		seen[job.Key()] = true
	}
}

func TestExpandRejectsDuplicateIDsInUnvalidatedModel(t *testing.T) {
	model := testModel()
	model.Targets = append(model.Targets, model.Targets[0])

	_, err := Expand(model, []string{"release"}, Features{})

	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrInvalid)
	assert.Contains(t, err.Error(), "duplicate job nk3xn/release")
}

func TestExpandUnknownVariantIsConfigurationError(t *testing.T) {
	_, err := Expand(testModel(), []string{"release", "debug"}, Features{})

	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrInvalid)
	assert.Contains(t, err.Error(), "debug")
}

func TestJobLifecycle(t *testing.T) {
	jobs, err := Expand(testModel(), []string{"release"}, Features{})
	require.NoError(t, err)
	job := jobs[0]

	assert.Equal(t, Pending, job.Status())
	require.NoError(t, job.Start())
	assert.Equal(t, Running, job.Status())
	require.Error(t, job.Start(), "a running job must not start twice")

	job.Finish(nil)
	assert.Equal(t, Succeeded, job.Status())
	assert.True(t, job.Status().IsTerminal())

	// Terminal states are never re-entered.
	job.Finish(assert.AnError)
	assert.Equal(t, Succeeded, job.Status())
	assert.NoError(t, job.Err())
}
