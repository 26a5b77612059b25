// Package toolchain drives the external compiler for single build jobs. The
// Invoker boundary keeps the subprocess mechanics swappable so tests can
// observe composed invocations without spawning anything.
package toolchain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// Invocation describes one external command: program, arguments, working
// directory and environment overlay.
type Invocation struct {
	Command string
	Args    []string
	Dir     string
	Env     map[string]string
}

// String renders the invocation roughly as a shell line, for diagnostics.
// Arguments containing whitespace are quoted so the rendered line keeps the
// original argument boundaries.
func (inv Invocation) String() string {
	out := inv.Command
	for _, a := range inv.Args {
		if strings.ContainsAny(a, " \t\n") {
			a = strconv.Quote(a)
		}
		out += " " + a
	}
	return out
}

// Result holds the output of a completed command.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Invoker runs external commands.
type Invoker interface {
	Run(ctx context.Context, inv Invocation) (*Result, error)
}

// ExecInvoker runs invocations as real subprocesses with captured output.
type ExecInvoker struct{}

// Run executes the invocation and waits for it to terminate. A non-zero exit
// returns both the populated result and an error; a start failure returns a
// nil-output result with exit code -1.
func (ExecInvoker) Run(ctx context.Context, inv Invocation) (*Result, error) {
	cmd := exec.CommandContext(ctx, inv.Command, inv.Args...)
	if inv.Dir != "" {
		cmd.Dir = inv.Dir
	}
	if len(inv.Env) > 0 {
		cmd.Env = os.Environ()
		for k, v := range inv.Env {
			cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", k, v))
		}
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := &Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode(err),
	}
	if err != nil {
		return result, fmt.Errorf("%s: %w", inv.Command, err)
	}
	return result, nil
}

func exitCode(err error) int {
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &exitErr):
		return exitErr.ExitCode()
	default:
		return -1
	}
}
