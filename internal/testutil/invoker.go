// Package testutil provides shared helpers for orchestrator tests: a
// thread-safe log buffer, an integration harness and a recording invoker
// standing in for the external toolchain.
package testutil

import (
	"context"
	"sync"

	"github.com/enrikb/nitrokey-3-firmware/internal/toolchain"
)

// FakeInvoker records every invocation instead of spawning subprocesses.
// The optional OnRun hook scripts per-invocation behavior, such as creating
// the raw output files a real toolchain would leave behind.
type FakeInvoker struct {
	mu          sync.Mutex
	invocations []toolchain.Invocation

	OnRun func(inv toolchain.Invocation) (*toolchain.Result, error)
}

// Run implements toolchain.Invoker.
func (f *FakeInvoker) Run(ctx context.Context, inv toolchain.Invocation) (*toolchain.Result, error) {
	f.mu.Lock()
	f.invocations = append(f.invocations, inv)
	f.mu.Unlock()

	if f.OnRun != nil {
		return f.OnRun(inv)
	}
	return &toolchain.Result{}, nil
}

// Invocations returns a copy of everything run so far.
func (f *FakeInvoker) Invocations() []toolchain.Invocation {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]toolchain.Invocation{}, f.invocations...)
}
