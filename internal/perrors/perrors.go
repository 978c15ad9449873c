// Package perrors groups the seven-bucket error taxonomy of the parsing
// core: schema, lex, match, decode, validation, domain, and exit errors.
// Each bucket carries enough context for a caller to render the right
// diagnostic: schema errors are fatal and printed without a usage line,
// the rest pair a message with the command being resolved so the usage
// block can be rendered alongside it.
package perrors

import (
	"errors"
	"fmt"

	flagerrors "github.com/cmdspec/opencli/internal/errors"
)

// Sentinel errors, one per taxonomy bucket, for errors.Is matching.
var (
	ErrSchema     = errors.New("schema error")
	ErrLex        = errors.New("lex error")
	ErrMatch      = errors.New("match error")
	ErrDecode     = errors.New("decode error")
	ErrValidation = errors.New("validation error")
	ErrDomain     = errors.New("domain error")
)

// SchemaError reports a schema-construction-time defect: duplicate names,
// impossible orderings, malformed parent/child links. Fatal; the caller
// must not attempt to parse against a command whose schema failed to
// build, and must not print a usage line for it.
type SchemaError struct {
	Command string
	Reason  string
}

func (e *SchemaError) Error() string {
	if e.Command == "" {
		return fmt.Sprintf("schema error: %s", e.Reason)
	}

	return fmt.Sprintf("schema error in %q: %s", e.Command, e.Reason)
}

func (e *SchemaError) Unwrap() error { return ErrSchema }

// NewSchema builds a SchemaError.
func NewSchema(command, reason string) *SchemaError {
	return &SchemaError{Command: command, Reason: reason}
}

// LexError reports a malformed input token: an empty `--=` name, an
// unterminated bundle, a byte sequence that is not valid UTF-8.
type LexError struct {
	Token  string
	Offset int
	Reason string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lex error at offset %d (%q): %s", e.Offset, e.Token, e.Reason)
}

func (e *LexError) Unwrap() error { return ErrLex }

// NewLex builds a LexError.
func NewLex(token string, offset int, reason string) *LexError {
	return &LexError{Token: token, Offset: offset, Reason: reason}
}

// MatchError reports a failure encountered while binding classified
// elements to schema slots: unknown option, unexpected positional,
// missing required argument, wrong arity, unknown subcommand. Carries the
// command the matcher was resolving at the point of failure, so the
// caller can render that command's usage line.
type MatchError struct {
	Command string
	Token   string
	Reason  string
}

func (e *MatchError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("%s", e.Reason)
	}

	return fmt.Sprintf("%s: %q", e.Reason, e.Token)
}

func (e *MatchError) Unwrap() error { return ErrMatch }

// NewMatch builds a MatchError.
func NewMatch(command, token, reason string) *MatchError {
	return &MatchError{Command: command, Token: token, Reason: reason}
}

// DecodeError reports a failure while converting a bound raw string into
// a typed value: unparseable literal, out-of-range numeric, a transform
// function returning an error. Attributed to the argument's value
// placeholder name so the rendered usage line can point at it.
type DecodeError struct {
	Argument    string
	Placeholder string
	Raw         string
	Reason      string
}

func (e *DecodeError) Error() string {
	if e.Raw == "" {
		return fmt.Sprintf("%s: %s", e.Argument, e.Reason)
	}

	return fmt.Sprintf("%s: invalid value %q: %s", e.Argument, e.Raw, e.Reason)
}

func (e *DecodeError) Unwrap() error { return ErrDecode }

// NewDecode builds a DecodeError.
func NewDecode(argument, placeholder, raw, reason string) *DecodeError {
	return &DecodeError{Argument: argument, Placeholder: placeholder, Raw: raw, Reason: reason}
}

// ValidationError is raised by a user-supplied validation hook. Always
// accompanied by the resolved command's usage line when rendered.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }
func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidation builds a ValidationError.
func NewValidation(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// DomainError is raised by user code. Message-only: no usage line is
// rendered alongside it.
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string { return e.Message }
func (e *DomainError) Unwrap() error { return ErrDomain }

// NewDomain builds a DomainError.
func NewDomain(message string) *DomainError {
	return &DomainError{Message: message}
}

// ExitKind distinguishes the two non-error ways a parse/run can end
// early without producing a decoded command value.
type ExitKind int

const (
	// ExitClean is a success exit (code 0) that also prints a message:
	// --help, --version, or a user's cleanExit.message(...).
	ExitClean ExitKind = iota
	// ExitSilent produces the requested code with no additional output.
	ExitSilent
)

// Exit is a control-flow signal, never a true error in the taxonomy
// sense: it unwinds the parse/validate/run chain to the entry point,
// which translates it into process behavior (print + os.Exit(Code)).
type Exit struct {
	Kind    ExitKind
	Code    int
	Message string
}

func (e *Exit) Error() string {
	if e.Message != "" {
		return e.Message
	}

	return fmt.Sprintf("exit(%d)", e.Code)
}

// CleanExit builds a success exit that prints message and exits 0.
func CleanExit(message string) *Exit {
	return &Exit{Kind: ExitClean, Code: 0, Message: message}
}

// SilentExit builds an exit that produces code with no output.
func SilentExit(code int) *Exit {
	return &Exit{Kind: ExitSilent, Code: code}
}

// HelpRequest signals that a help-flag element (or the `help` pseudo-
// subcommand) was recognized before matching completed. It carries the
// command whose help screen should be rendered and whether the hidden
// variant was requested.
type HelpRequest struct {
	Command string
	Hidden  bool
}

func (e *HelpRequest) Error() string {
	return fmt.Sprintf("help requested for %q", e.Command)
}

// Re-exported legacy sentinels so callers migrating off internal/errors
// keep working against the same identities.
var (
	ErrUnknownSubcommand = flagerrors.ErrUnknownSubcommand
	ErrNotPointerToCmd   = flagerrors.ErrNotPointerToStruct
)

// Exit codes from spec.md §6.
const (
	ExitSuccess = 0
	ExitUsage   = 64
	ExitFailure = 1
)
