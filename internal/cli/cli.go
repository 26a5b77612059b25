package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/enrikb/nitrokey-3-firmware/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

const usageText = `fwbuild - firmware build-matrix orchestrator.

Usage:
  fwbuild [options] COMMAND

Commands:
  check       run every subsystem check routine (fail fast)
  doc         run the documentation routine of the primary hardware target
  lint        run the workspace format check and every subsystem lint routine
  binaries    build the full target/variant matrix and collect all artifacts
  license     produce the dependency license report only
  commands    produce the firmware command documentation only
  manifest    produce the version-stamped manifest only

Options:
`

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	flagSet := flag.NewFlagSet("fwbuild", flag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.Usage = func() {
		fmt.Fprint(output, usageText)
		flagSet.PrintDefaults()
	}

	workDirFlag := flagSet.String("C", ".", "Working directory (firmware source tree root).")
	matrixFlag := flagSet.String("config", "matrix.hcl", "Path to the matrix definition file or directory.")
	outDirFlag := flagSet.String("out", "artifacts", "Directory for collected artifacts and metadata files.")
	featuresFlag := flagSet.String("features", "", "Extra feature flags, comma separated.")
	versionFlag := flagSet.String("version", "", "Fixed version literal, bypassing version-control resolution.")
	parallelFlag := flagSet.Bool("parallel", false, "Build distinct hardware targets concurrently.")
	workersFlag := flagSet.Int("workers", 4, "Concurrent target groups when -parallel is set.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	if flagSet.NArg() == 0 {
		flagSet.Usage()
		return nil, true, nil
	}
	if flagSet.NArg() > 1 {
		return nil, false, &ExitError{Code: 2, Message: "exactly one command expected"}
	}
	command := flagSet.Arg(0)
	if !app.KnownCommand(command) {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("unknown command %q", command)}
	}

	var features []string
	if *featuresFlag != "" {
		for _, f := range strings.Split(*featuresFlag, ",") {
			if f = strings.TrimSpace(f); f != "" {
				features = append(features, f)
			}
		}
	}

	config, err := app.NewConfig(app.Config{
		Command:    command,
		WorkDir:    *workDirFlag,
		MatrixPath: *matrixFlag,
		OutDir:     *outDirFlag,
		Features:   features,
		Version:    *versionFlag,
		Parallel:   *parallelFlag,
		Workers:    *workersFlag,
		LogFormat:  *logFormatFlag,
		LogLevel:   *logLevelFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	return config, false, nil
}
