package app

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Commands understood by the orchestrator. The first four are phases; the
// last three are the independently invocable metadata targets.
const (
	CmdCheck    = "check"
	CmdDoc      = "doc"
	CmdLint     = "lint"
	CmdBinaries = "binaries"
	CmdLicense  = "license"
	CmdCommands = "commands"
	CmdManifest = "manifest"
)

// Config holds everything an App instance needs to run one command.
type Config struct {
	Command    string
	WorkDir    string
	MatrixPath string
	OutDir     string

	// Features is the run-level extra feature selection.
	Features []string

	// Version, when non-empty, overrides version-control resolution with a
	// fixed literal.
	Version string

	Parallel bool
	Workers  int

	LogFormat string
	LogLevel  string
}

// KnownCommand reports whether name is a recognized command.
func KnownCommand(name string) bool {
	switch name {
	case CmdCheck, CmdDoc, CmdLint, CmdBinaries, CmdLicense, CmdCommands, CmdManifest:
		return true
	}
	return false
}

// NewConfig validates a Config and applies defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.Command == "" {
		return nil, errors.New("a command is required")
	}
	if !KnownCommand(cfg.Command) {
		return nil, errors.New("unknown command: " + cfg.Command)
	}
	if cfg.WorkDir == "" {
		cfg.WorkDir = "."
	}
	if cfg.MatrixPath == "" {
		cfg.MatrixPath = "matrix.hcl"
	}
	if cfg.OutDir == "" {
		cfg.OutDir = "artifacts"
	}

	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	if cfg.LogFormat == "" {
		cfg.LogFormat = logFormatText
	}
	if cfg.LogFormat != logFormatText && cfg.LogFormat != logFormatJSON {
		return nil, fmt.Errorf("invalid log-format %q: must be 'text' or 'json'", cfg.LogFormat)
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if _, err := parseLogLevel(cfg.LogLevel); err != nil {
		return nil, err
	}

	// Relative paths are anchored at the working directory, never at
	// whatever directory the process happens to run from.
	if !filepath.IsAbs(cfg.MatrixPath) {
		cfg.MatrixPath = filepath.Join(cfg.WorkDir, cfg.MatrixPath)
	}
	if !filepath.IsAbs(cfg.OutDir) {
		cfg.OutDir = filepath.Join(cfg.WorkDir, cfg.OutDir)
	}

	return &cfg, nil
}
