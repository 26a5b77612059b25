package config

import (
	"errors"
	"fmt"
)

// ErrInvalid is the sentinel for configuration errors. Anything wrapping it
// is fatal before any build begins.
var ErrInvalid = errors.New("invalid configuration")

// Validate checks the semantic integrity of a loaded model: unique ids,
// resolvable references and well-formed enum values.
func (m *Model) Validate() error {
	if m.Product == nil {
		return fmt.Errorf("%w: missing product block", ErrInvalid)
	}
	if m.Product.Name == "" {
		return fmt.Errorf("%w: product name is empty", ErrInvalid)
	}
	if len(m.Targets) == 0 {
		return fmt.Errorf("%w: no targets declared", ErrInvalid)
	}

	seenTargets := make(map[string]bool, len(m.Targets))
	for _, t := range m.Targets {
		if seenTargets[t.ID] {
			return fmt.Errorf("%w: duplicate target %q", ErrInvalid, t.ID)
		}
		seenTargets[t.ID] = true

		if _, ok := m.Toolchains[t.Profile]; !ok {
			return fmt.Errorf("%w: target %q references unknown toolchain %q", ErrInvalid, t.ID, t.Profile)
		}
		if t.Format != FormatBin && t.Format != FormatIhex {
			return fmt.Errorf("%w: target %q has unknown artifact format %q", ErrInvalid, t.ID, t.Format)
		}
		if t.Output == "" {
			return fmt.Errorf("%w: target %q declares no raw output path", ErrInvalid, t.ID)
		}
	}

	seenVariants := make(map[string]bool, len(m.Variants))
	for _, v := range m.Variants {
		if seenVariants[v.ID] {
			return fmt.Errorf("%w: duplicate variant %q", ErrInvalid, v.ID)
		}
		seenVariants[v.ID] = true

		if v.Kind != KindFirmware && v.Kind != KindProvisioner {
			return fmt.Errorf("%w: variant %q has unknown kind %q", ErrInvalid, v.ID, v.Kind)
		}
	}

	if m.Product.PrimaryTarget != "" && !seenTargets[m.Product.PrimaryTarget] {
		return fmt.Errorf("%w: primary target %q is not declared", ErrInvalid, m.Product.PrimaryTarget)
	}

	return nil
}
