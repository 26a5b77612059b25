package metadata

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLicenseReportListsEveryDependency(t *testing.T) {
	deps := []Dependency{
		{Name: "trussed", Version: "0.1.0", License: "Apache-2.0 OR MIT"},
		{Name: "cortex-m", Version: "0.7.7", License: "MIT", Authors: "Rust Embedded"},
	}

	report, err := LicenseReport("nitrokey-3", deps)
	require.NoError(t, err)

	assert.Contains(t, report, "Third-party licenses for nitrokey-3")
	assert.Contains(t, report, "cortex-m 0.7.7: MIT (Rust Embedded)")
	assert.Contains(t, report, "trussed 0.1.0: Apache-2.0 OR MIT")
}

func TestLicenseReportIsSortedByName(t *testing.T) {
	deps := []Dependency{
		{Name: "zeroize", Version: "1.6.0", License: "MIT"},
		{Name: "aes", Version: "0.8.3", License: "MIT"},
	}

	report, err := LicenseReport("nitrokey-3", deps)
	require.NoError(t, err)
	assert.Less(t, strings.Index(report, "aes"), strings.Index(report, "zeroize"))
}

func TestEmptyDependencyGraphYieldsWellFormedReport(t *testing.T) {
	report, err := LicenseReport("nitrokey-3", nil)

	require.NoError(t, err)
	assert.Contains(t, report, "Third-party licenses for nitrokey-3")
}

func TestMissingLicenseIsFatalForThisGeneratorOnly(t *testing.T) {
	deps := []Dependency{
		{Name: "good", Version: "1.0.0", License: "MIT"},
		{Name: "shady", Version: "0.0.1"},
	}

	_, err := LicenseReport("nitrokey-3", deps)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMetadata)
	assert.Contains(t, err.Error(), "shady")
}

func TestParseDependencies(t *testing.T) {
	deps, err := ParseDependencies([]byte(`[
		{"name": "heapless", "version": "0.7.16", "license": "Apache-2.0 OR MIT"}
	]`))
	require.NoError(t, err)
	require.Len(t, deps, 1)
	assert.Equal(t, "heapless", deps[0].Name)

	_, err = ParseDependencies([]byte(`{not json`))
	assert.ErrorIs(t, err, ErrMetadata)
}
