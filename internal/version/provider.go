// Package version resolves the release version string from version-control
// metadata. The Provider interface keeps resolution injectable so tests and
// reproducible builds can substitute a fixed literal.
package version

import (
	"context"
	"errors"
)

// ErrNoVersion is returned when no version-control metadata is resolvable.
// It is deliberately distinct from an empty version: callers must never
// default it away.
var ErrNoVersion = errors.New("no version metadata available")

// Provider resolves a version string of the most-recent-tag-plus-distance
// form, e.g. "v1.2.3" or "v1.2.3-4-gabc1234".
type Provider interface {
	Resolve(ctx context.Context) (string, error)
}

// Static is a fixed version literal.
type Static string

// Resolve returns the literal, or ErrNoVersion when it is empty.
func (s Static) Resolve(context.Context) (string, error) {
	if s == "" {
		return "", ErrNoVersion
	}
	return string(s), nil
}
