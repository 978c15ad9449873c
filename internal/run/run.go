// Package run is the thin dispatch shell spec.md's pipeline hands control
// back to once a command is fully matched, decoded, bound, and validated
// (internal/engine.Execute): it translates a *perrors.Exit control-flow
// signal into actual process behavior, the way *cobra.Command.Execute
// already does for the teacher's generated commands (internal/gen/flags).
// Kept separate from internal/engine so the pure pipeline stays testable
// without touching os.Exit.
package run

import (
	"errors"
	"fmt"
	"os"

	"github.com/cmdspec/opencli/internal/engine"
	"github.com/cmdspec/opencli/internal/parser"
	"github.com/cmdspec/opencli/internal/perrors"
)

// Command scans data (a pointer to a struct) once and returns the
// ready-to-run Program, exactly as internal/gen/flags.Generate scans
// once to build a *cobra.Command.
func Command(data any, opts ...parser.OptFunc) (*engine.Program, error) {
	return engine.Build(data, opts...)
}

// Run executes prog against args and reports whether the process should
// exit, and with which code: (0, false) means continue normally (used
// only by tests and embedders), (code, true) means the caller should
// os.Exit(code) — any exit message has already been written to opts's
// Stdout/Stderr. Errors that are not an *perrors.Exit are returned
// unwrapped for the caller to report in its own style.
func Run(prog *engine.Program, args []string, opts engine.RunOptions) (code int, shouldExit bool, err error) {
	runErr := engine.Execute(prog, args, opts)
	if runErr == nil {
		return 0, false, nil
	}

	var exit *perrors.Exit
	if errors.As(runErr, &exit) {
		return exit.Code, true, nil
	}

	return 1, false, runErr
}

// Execute is the convenience entry point a generated main() calls: it
// runs prog against os.Args[1:], prints errors to stderr in the
// teacher's plain `fmt.Fprintln` style, and calls os.Exit itself.
func Execute(prog *engine.Program) {
	code, shouldExit, err := Run(prog, os.Args[1:], engine.RunOptions{})
	if shouldExit {
		os.Exit(code)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(perrors.ExitUsage)
	}
}
