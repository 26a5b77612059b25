// Package registry tracks the subsystems taking part in a run and the
// capabilities each one exposes. The orchestrator composes phases from the
// registered capabilities in registration order instead of relying on
// positional invocation in a script.
package registry

import (
	"context"
	"fmt"

	"github.com/enrikb/nitrokey-3-firmware/internal/task"
)

// Subsystem is anything the orchestrator can delegate work to: a hardware
// runner, the workspace formatter, a documentation generator.
type Subsystem interface {
	Name() string
}

// Checkable subsystems participate in the check phase.
type Checkable interface {
	Subsystem
	Check(ctx context.Context, tc *task.Context) error
}

// Lintable subsystems participate in the lint phase.
type Lintable interface {
	Subsystem
	Lint(ctx context.Context, tc *task.Context) error
}

// Documentable subsystems participate in the doc phase.
type Documentable interface {
	Subsystem
	Doc(ctx context.Context, tc *task.Context) error
}

// Registry holds the subsystems of one application instance in registration
// order.
type Registry struct {
	order []string
	byID  map[string]Subsystem
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{byID: make(map[string]Subsystem)}
}

// Register adds a subsystem. Names must be unique.
func (r *Registry) Register(s Subsystem) error {
	if _, ok := r.byID[s.Name()]; ok {
		return fmt.Errorf("subsystem %q registered twice", s.Name())
	}
	r.byID[s.Name()] = s
	r.order = append(r.order, s.Name())
	return nil
}

// Subsystems returns every registered subsystem in registration order.
func (r *Registry) Subsystems() []Subsystem {
	out := make([]Subsystem, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byID[name])
	}
	return out
}

// Lookup returns the named subsystem, or nil.
func (r *Registry) Lookup(name string) Subsystem {
	return r.byID[name]
}

// Checkables returns the registered subsystems carrying the Checkable
// capability, in registration order.
func (r *Registry) Checkables() []Checkable {
	var out []Checkable
	for _, s := range r.Subsystems() {
		if c, ok := s.(Checkable); ok {
			out = append(out, c)
		}
	}
	return out
}

// Lintables returns the registered Lintable subsystems in registration order.
func (r *Registry) Lintables() []Lintable {
	var out []Lintable
	for _, s := range r.Subsystems() {
		if l, ok := s.(Lintable); ok {
			out = append(out, l)
		}
	}
	return out
}

// Documentables returns the registered Documentable subsystems in
// registration order.
func (r *Registry) Documentables() []Documentable {
	var out []Documentable
	for _, s := range r.Subsystems() {
		if d, ok := s.(Documentable); ok {
			out = append(out, d)
		}
	}
	return out
}
