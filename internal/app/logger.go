package app

import (
	"fmt"
	"io"
	"log/slog"
)

// Log output formats accepted by Config.LogFormat.
const (
	logFormatText = "text"
	logFormatJSON = "json"
)

// parseLogLevel maps a Config.LogLevel value onto a slog level.
func parseLogLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("invalid log-level %q: must be 'debug', 'info', 'warn', or 'error'", name)
	}
	return level, nil
}

// newLogger builds the run logger writing to outW. Each App owns its own
// instance; the process-global default is never touched, so harness runs in
// parallel tests cannot share handlers. The config was validated in
// NewConfig, an unparsable level only happens for a hand-built Config and
// falls back to info.
func newLogger(cfg *Config, outW io.Writer) *slog.Logger {
	level, err := parseLogLevel(cfg.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == logFormatJSON {
		return slog.New(slog.NewJSONHandler(outW, opts))
	}
	return slog.New(slog.NewTextHandler(outW, opts))
}
