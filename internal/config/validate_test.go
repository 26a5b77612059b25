package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validModel() *Model {
	return &Model{
		Product: &Product{Name: "nitrokey-3", PrimaryTarget: "nk3xn"},
		Toolchains: map[string]*Toolchain{
			"cargo": {ID: "cargo", Command: "cargo", BuildArgs: []string{"build"}},
		},
		Targets: []*Target{
			{ID: "nk3xn", Profile: "cargo", Format: FormatBin, Output: "target/firmware.bin"},
			{ID: "nk3am", Profile: "cargo", Format: FormatIhex, Output: "target/firmware.elf"},
		},
		Variants: []*Variant{
			{ID: "release", Kind: KindFirmware},
			{ID: "provisioner", Kind: KindProvisioner},
		},
	}
}

func TestValidModelPasses(t *testing.T) {
	require.NoError(t, validModel().Validate())
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Model)
		message string
	}{
		{"missing product", func(m *Model) { m.Product = nil }, "product"},
		{"no targets", func(m *Model) { m.Targets = nil }, "no targets"},
		{"duplicate target", func(m *Model) { m.Targets = append(m.Targets, m.Targets[0]) }, "duplicate target"},
		{"unknown toolchain", func(m *Model) { m.Targets[0].Profile = "gcc" }, "unknown toolchain"},
		{"bad format", func(m *Model) { m.Targets[0].Format = "elf" }, "format"},
		{"missing output", func(m *Model) { m.Targets[0].Output = "" }, "output"},
		{"duplicate variant", func(m *Model) { m.Variants = append(m.Variants, m.Variants[0]) }, "duplicate variant"},
		{"bad variant kind", func(m *Model) { m.Variants[0].Kind = "bootloader" }, "kind"},
		{"unknown primary target", func(m *Model) { m.Product.PrimaryTarget = "nk3pk" }, "primary target"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := validModel()
			tc.mutate(m)
			err := m.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalid)
			assert.Contains(t, err.Error(), tc.message)
		})
	}
}

func TestTargetHelpers(t *testing.T) {
	m := validModel()
	assert.Equal(t, "nk3am", m.TargetByID("nk3am").ID)
	assert.Nil(t, m.TargetByID("nk3pk"))
	assert.Equal(t, "provisioner", m.VariantByID("provisioner").ID)
	assert.Nil(t, m.VariantByID("debug"))

	target := &Target{Output: "a.elf", ProvisionerOutput: "p.elf", Format: FormatIhex}
	assert.Equal(t, "a.elf", target.RawOutput(KindFirmware))
	assert.Equal(t, "p.elf", target.RawOutput(KindProvisioner))
	assert.Equal(t, ".ihex", target.Extension())
	assert.Equal(t, ".bin", (&Target{Format: FormatBin}).Extension())
}
