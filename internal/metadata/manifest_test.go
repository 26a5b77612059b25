package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStampIsTotalSubstitution(t *testing.T) {
	template := []byte(`{"name": "nitrokey-3", "version": "@VERSION@", "vendor": "Nitrokey"}`)

	stamped, err := Stamp(template, "v1.2.3-4-gabc123")
	require.NoError(t, err)

	assert.Equal(t,
		`{"name": "nitrokey-3", "version": "v1.2.3-4-gabc123", "vendor": "Nitrokey"}`,
		string(stamped))
}

func TestStampLeavesOtherBytesUntouched(t *testing.T) {
	template := []byte("prefix \x00\xff @VERSION@ suffix\n")

	stamped, err := Stamp(template, "v9")
	require.NoError(t, err)
	assert.Equal(t, []byte("prefix \x00\xff v9 suffix\n"), stamped)
}

func TestStampWithoutTokenIsMetadataError(t *testing.T) {
	_, err := Stamp([]byte(`{"version": "1.0.0"}`), "v1.2.3")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMetadata)
}
