// Package convention models the parsing convention (spec.md §3 "Name",
// §5): the family of syntactic rules selecting option prefixes and the
// case transform used to derive a default spelling from a property
// identifier. Two conventions are modeled: POSIX (`--long`, `-s`) and DOS
// (`/Long`, `+s`).
package convention

import "sync/atomic"

// Convention selects the prefix family and case transform used when
// deriving names and lexing raw input elements.
type Convention int

const (
	// POSIX is the default convention: `--long-name`, `-s`, kebab-case
	// derivation (FullName -> full-name).
	POSIX Convention = iota
	// DOS uses `/LongName`, `+s`, and PascalCase derivation (FullName
	// stays FullName). New relative to the teacher; see SPEC_FULL.md §5.
	DOS
)

func (c Convention) String() string {
	switch c {
	case DOS:
		return "dos"
	default:
		return "posix"
	}
}

// LongPrefix returns the prefix that introduces a long name under c.
func (c Convention) LongPrefix() string {
	if c == DOS {
		return "/"
	}

	return "--"
}

// ShortPrefix returns the prefix that introduces a short name under c.
func (c Convention) ShortPrefix() string {
	if c == DOS {
		return "+"
	}

	return "-"
}

// Derive converts a Go identifier into the convention's default long-name
// spelling, by tokenizing into words and rejoining per the convention's
// case rule. Both conventions share the same tokenizer (words.go) so
// identifiers that are already snake_case or already PascalCase convert
// consistently; see SPEC_FULL.md §12.3.
func (c Convention) Derive(identifier string) string {
	words := splitWords(identifier)

	switch c {
	case DOS:
		return joinPascal(words)
	default:
		return joinKebab(words)
	}
}

// def is the process-wide knob read once per parse at entry (spec.md
// §5). Writers are responsible for external serialization; this package
// does not lock beyond the atomic store/load used to publish the value.
var def atomic.Value // holds Convention

func init() {
	def.Store(POSIX)
}

// SetDefault publishes the process-wide default convention. Safe to call
// concurrently with Default, but a write racing a concurrent parse that
// has already captured its own Convention value is, by design, not
// observed by that parse: the knob is read once per parse at entry.
func SetDefault(c Convention) {
	def.Store(c)
}

// Default reads the process-wide default convention.
func Default() Convention {
	v, _ := def.Load().(Convention)

	return v
}
