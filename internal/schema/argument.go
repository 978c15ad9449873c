// Package schema models the static, immutable-after-build description of
// a command: its arguments, option groups, and command tree (spec.md
// §3). A schema is built once per command type (grounded on the
// teacher's struct-tag scan, internal/parser/tag.go + scan.go) and reused
// across every parse invocation; no parse-time state is kept here.
package schema

import (
	"github.com/cmdspec/opencli/internal/convention"
)

// ArgumentKind distinguishes the three argument shapes of spec.md §3.
type ArgumentKind int

const (
	// KindOption takes one or more values, identified by name.
	KindOption ArgumentKind = iota
	// KindFlag takes no value: boolean, counter, or enumerated selector.
	KindFlag
	// KindPositional is identified by ordinal position.
	KindPositional
)

// Arity describes how many value tokens an argument's slot may hold.
type Arity int

const (
	// Nullary arguments (flags) take no value.
	Nullary Arity = iota
	// Unary arguments take exactly one value per occurrence.
	Unary
	// Variadic arguments may take many values.
	Variadic
)

// Strategy controls how an option or positional claims following value
// tokens (spec.md §4.2, the full table).
type Strategy int

const (
	// Next consumes exactly one following element, interpreted as a
	// value. Default for unary options.
	Next Strategy = iota
	// Unconditional consumes exactly one following element even if it
	// looks like an option.
	Unconditional
	// ScanningForValue consumes the first following element that is not
	// itself a recognized option, stopping at any recognized option.
	ScanningForValue
	// UpToNextOption (array) consumes zero or more following value-
	// looking elements, stopping at the first recognized option or end.
	UpToNextOption
	// SingleValue (array) consumes one value per occurrence; the option
	// must be repeated to accumulate more than one value.
	SingleValue
	// UnconditionalSingleValue (array) is SingleValue but accepts a value
	// that looks like an option.
	UnconditionalSingleValue
	// Remaining (array) consumes every subsequent element, including
	// option-looking ones, up to the end of input. Rejects the `=`
	// attached-value form (spec.md §9): asymmetric with Next/Unconditional
	// by design, preserved for compatibility.
	Remaining
	// AllUnrecognized (variadic positional) claims every element the
	// matcher could not otherwise assign.
	AllUnrecognized
	// PostTerminator (variadic positional) claims every element that
	// appears after the `--` terminator.
	PostTerminator
	// CaptureForPassthrough (variadic positional) is AllUnrecognized plus
	// every element after the first positional this argument claimed
	// (spec.md §4.2's passthrough sink).
	CaptureForPassthrough
)

// IsArray reports whether the strategy accumulates multiple values.
func (s Strategy) IsArray() bool {
	switch s {
	case UpToNextOption, SingleValue, UnconditionalSingleValue, Remaining,
		AllUnrecognized, PostTerminator, CaptureForPassthrough:
		return true
	default:
		return false
	}
}

// Inversion is the boolean-flag negative-name policy.
type Inversion int

const (
	// NoInversion means the flag has no generated negative name.
	NoInversion Inversion = iota
	// PrefixedNo synthesizes `--no-<name>` alongside the original name.
	PrefixedNo
	// PrefixedEnableDisable replaces the original name with
	// `--enable-<name>`/`--disable-<name>`.
	PrefixedEnableDisable
)

// Exclusivity controls what happens when the same argument is bound more
// than once during a single parse.
type Exclusivity int

const (
	// ChooseLast keeps the last-seen binding (the teacher's pflag default).
	ChooseLast Exclusivity = iota
	// ChooseFirst keeps the first-seen binding.
	ChooseFirst
	// Exclusive makes a second occurrence a match error.
	Exclusive
)

// Visibility controls whether an argument appears in rendered help.
type Visibility int

const (
	// VisibleDefault arguments appear in ordinary help output.
	VisibleDefault Visibility = iota
	// VisibleHidden arguments appear only in the `--help-hidden` variant.
	VisibleHidden
	// VisiblePrivate arguments never appear in rendered help.
	VisiblePrivate
)

// Default describes an argument's unbound-slot fallback.
type Default struct {
	// None means no default is declared.
	None bool
	// Literal is the value used when the slot is unbound.
	Literal string
	// HasLiteral distinguishes an explicit empty-string default from None.
	HasLiteral bool
	// AsFlag is used only when the argument's name is present with no
	// attached/following value (spec.md §3 "defaultAsFlag").
	AsFlag     string
	HasAsFlag  bool
}

// CompletionKind enumerates the completion-hint shapes spec.md §3 lists.
type CompletionKind int

const (
	CompletionNone CompletionKind = iota
	CompletionFile
	CompletionDirectory
	CompletionList
	CompletionShellCommand
	CompletionCustom
)

// CompletionHint describes how shell completion candidates for an
// argument's value should be produced.
type CompletionHint struct {
	Kind       CompletionKind
	Extensions []string // CompletionFile
	Values     []string // CompletionList
	Command    string   // CompletionShellCommand
	Custom     func(prefix string) []string
}

// Help carries the documentation fields spec.md §3 lists for an
// argument.
type Help struct {
	Abstract    string
	Discussion  string
	Placeholder string
	Visibility  Visibility
}

// Transform converts a raw matched string into a typed value, or
// reports a decode error (spec.md §4.4).
type Transform func(string) (any, error)

// Binder writes a decoded value into the argument's backing storage.
// Concrete implementations adapt the teacher's pflag.Value (see
// internal/engine) so the matcher/decoder can remain independent of any
// particular storage mechanism.
type Binder interface {
	Bind(raw string) error
	BindFlag(raw string) error // defaultAsFlag path
	String() string
}

// Argument is a single schema entry: option, flag, or positional
// (spec.md §3 "Argument").
type Argument struct {
	Kind  ArgumentKind
	Names []convention.Name // empty for positionals

	Arity    Arity
	Strategy Strategy

	Default Default

	Transform      Transform
	Completion     CompletionHint
	Help           Help
	Inversion      Inversion
	NegativeNames  []convention.Name // synthesized by Build when Inversion != NoInversion
	Exclusivity    Exclusivity
	Required       bool
	AllowingJoined bool // short name accepts an attached value (-Dvalue)
	EnumCase       string // non-empty for one case of an enumerable flag
	EnumGroup      string // shared identifier linking cases of one enum

	// Env is the environment-variable name consulted when no
	// command-line occurrence is present (spec.md §6 "Environment").
	// Argument-provided values always override it.
	Env string

	// Position is the 0-based ordinal among positionals in declaration
	// order; -1 for non-positionals.
	Position int

	// Binder is resolved at bridge time (see internal/engine), not at
	// schema-build time; schema.Argument is a pure description.
	Binder Binder
}

// IsPositional reports whether a is a positional argument.
func (a *Argument) IsPositional() bool { return a.Kind == KindPositional }

// IsRequired reports whether a must be bound at least once.
func (a *Argument) IsRequired() bool { return a.Required }

// HasName reports whether id matches one of a's declared (or
// synthesized negative) names.
func (a *Argument) HasName(id convention.ID) bool {
	for _, n := range a.Names {
		if n.Identity() == id {
			return true
		}
	}

	for _, n := range a.NegativeNames {
		if n.Identity() == id {
			return true
		}
	}

	return false
}

// PrimaryName returns a's first declared name, or the zero Name for
// positionals.
func (a *Argument) PrimaryName() convention.Name {
	if len(a.Names) == 0 {
		return convention.Name{}
	}

	return a.Names[0]
}
