package flags

import (
	"github.com/spf13/cobra"

	"github.com/cmdspec/opencli/internal/completion"
	"github.com/cmdspec/opencli/internal/convention"
	"github.com/cmdspec/opencli/internal/decode"
	"github.com/cmdspec/opencli/internal/engine"
	"github.com/cmdspec/opencli/internal/parser"
	"github.com/cmdspec/opencli/internal/run"
)

// === Schema-driven parsing entry points ===
//
// Generate/Bind above compile a struct straight to a *cobra.Command whose
// flags are matched by pflag. Program/ParseOptions instead build this
// module's own richer argument schema (internal/schema) and drive it with
// the lexer/matcher/decode/validation pipeline pflag cannot express —
// strategies like scanningForValue or upToNextOption, DOS-style flag
// conventions, transform hooks, ancestor-scoped defaults. Both entry
// points read the same struct tags; which one a program uses depends on
// whether it needs that richer strategy table.

// Program is a schema built once from a tagged struct, ready to be run
// against any argument list any number of times.
type Program = engine.Program

// NewProgram scans data (a pointer to a struct) into a Program.
func NewProgram(data any, opts ...Option) (*Program, error) {
	return run.Command(data, toInternalOpts(opts)...)
}

// ParseOptions configures one Parse/Execute invocation.
type ParseOptions = engine.RunOptions

// Parse runs prog against args, performing the full lex, match, decode,
// bind, and validate pipeline and dispatching to whichever of the
// Commander/Runner/PreRunner(E)/PostRunner(E) interfaces the bound
// struct implements. A returned error of kind ErrExit means the caller
// should translate it into a process exit code rather than print it as
// a failure (see Exit).
func Parse(prog *Program, args []string, opts ParseOptions) error {
	return engine.Execute(prog, args, opts)
}

// Execute is the convenience entry point: it parses os.Args[1:] against
// prog and calls os.Exit itself, the way *cobra.Command.Execute does for
// the reflection-based path above.
func Execute(prog *Program) {
	run.Execute(prog)
}

// Compile builds a navigable *cobra.Command tree mirroring prog's schema
// (command names, short/long help, aliases) for embedding in tooling that
// expects a cobra tree — shell completion generation, documentation
// generators — without ever letting cobra/pflag parse a single argument
// itself; every node still dispatches through Parse.
func Compile(prog *Program, opts ParseOptions) *cobra.Command {
	return run.Compile(prog, opts)
}

// GenerateCompletions attaches carapace shell completion to cmd (typically
// the result of Compile), reading completion hints from each argument's
// schema instead of struct tags.
func GenerateCompletions(cmd *cobra.Command, prog *Program) {
	completion.Generate(cmd, prog.Root)
}

// WithConvention overrides the parsing convention (POSIX or DOS) a
// Program's names are derived under; the zero value, convention.POSIX,
// is the default if never called.
func WithConvention(c convention.Convention) Option {
	return func(o *parser.Opts) {
		convention.SetDefault(c)
	}
}

// Env is the environment-lookup function consulted for arguments
// declaring an `env` tag, defaulting to os.LookupEnv.
type Env = decode.Env
