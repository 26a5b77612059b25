package testutil

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/enrikb/nitrokey-3-firmware/internal/app"
	"github.com/enrikb/nitrokey-3-firmware/internal/hcl"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	LogOutput string
	Err       error
	WorkDir   string
	OutDir    string
}

// RunCommand provides a standardized harness for integration tests: it
// writes the given files (matrix.hcl among them) into a temporary source
// tree, runs one orchestrator command against it and captures the log.
func RunCommand(t *testing.T, files map[string]string, command string, opts ...app.Option) *HarnessResult {
	t.Helper()

	workDir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(workDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	cfg, err := app.NewConfig(app.Config{
		Command:   command,
		WorkDir:   workDir,
		LogLevel:  "debug",
		LogFormat: "text",
	})
	require.NoError(t, err)

	logBuffer := &SafeBuffer{}
	result := &HarnessResult{
		WorkDir: workDir,
		OutDir:  cfg.OutDir,
	}

	orch, err := app.NewApp(logBuffer, cfg, hcl.NewLoader(), opts...)
	if err != nil {
		result.Err = err
		result.LogOutput = logBuffer.String()
		return result
	}

	result.Err = orch.Run(context.Background())
	result.LogOutput = logBuffer.String()
	return result
}
