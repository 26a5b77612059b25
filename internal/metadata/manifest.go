package metadata

import (
	"bytes"
	"fmt"
)

// VersionToken is the placeholder a manifest template carries where the
// resolved version string belongs.
const VersionToken = "@VERSION@"

// Stamp substitutes the version placeholder in the template with the literal
// version string. Every other byte passes through unchanged. A template
// without the placeholder is malformed input: a stamp that changes nothing
// is always operator error.
func Stamp(template []byte, version string) ([]byte, error) {
	if !bytes.Contains(template, []byte(VersionToken)) {
		return nil, fmt.Errorf("%w: manifest template contains no %s token", ErrMetadata, VersionToken)
	}
	return bytes.ReplaceAll(template, []byte(VersionToken), []byte(version)), nil
}
