// Package lexer implements the input-split and classification stage of
// spec.md §4.1: turning a raw token sequence into a lazy ordered sequence
// of InputElement, tagged by shape. Schema-dependent ambiguity (bundle-
// vs-negative-number, allowingJoined attached values) is deliberately
// left unresolved here and is decided by the matcher, per spec.md §4.1's
// explicit note that the lexer "lets the matcher decide".
package lexer

import (
	"strconv"

	"github.com/cmdspec/opencli/internal/convention"
	"github.com/cmdspec/opencli/internal/perrors"
)

// Kind tags the shape of a classified InputElement.
type Kind int

const (
	KindLongOption Kind = iota
	KindShortOption
	KindShortOptionBundle
	KindLongWithSingleDash
	KindTerminator
	KindValue
)

// Element is one classified input token.
type Element struct {
	Kind Kind
	Raw  string

	// Name is the bare spelling (no prefix) for option-shaped elements.
	Name string
	// AttachedValue is the substring after `=` for long options; HasAttached
	// distinguishes "no attached value" from an attached empty string.
	// Short-option and bundle elements leave it empty and use Trailing.
	AttachedValue string
	HasAttached   bool

	// Trailing holds the undecided remainder of a shortOptionBundle
	// element, e.g. "vfile" in "-xvfile" once "x" is peeled as the first
	// char; the matcher resolves bundle-vs-joined-value-vs-negative-number.
	Trailing string
}

// Lex classifies the raw argv tail under convention c. Help flags are not
// recognized here: the matcher checks each element with IsHelpRequest
// against the current command's help names. It returns the full classified sequence;
// the matcher consumes it with its own cursor, so "lazy" here means
// "produced by one linear pass with no schema lookahead", not a Go
// iterator — grounded on the teacher's small single-purpose helpers
// (internal/parser/camelcase.go, internal/parser/utils.go) rather than
// one large monolith.
func Lex(args []string, c convention.Convention) ([]Element, error) {
	elements := make([]Element, 0, len(args))
	terminated := false

	for i, raw := range args {
		if terminated {
			elements = append(elements, Element{Kind: KindValue, Raw: raw})

			continue
		}

		if raw == "--" {
			terminated = true
			elements = append(elements, Element{Kind: KindTerminator, Raw: raw})

			continue
		}

		el, err := lexOne(raw, c, i)
		if err != nil {
			return nil, err
		}

		elements = append(elements, el)
	}

	return elements, nil
}

func lexOne(raw string, c convention.Convention, offset int) (Element, error) {
	longPrefix := c.LongPrefix()
	shortPrefix := c.ShortPrefix()

	switch {
	case len(raw) > len(longPrefix) && hasPrefix(raw, longPrefix):
		rest := raw[len(longPrefix):]
		if rest == "" {
			return Element{}, perrors.NewLex(raw, offset, "empty long-option name")
		}

		name, attached, hasAttached := splitAttached(rest)
		if name == "" {
			return Element{}, perrors.NewLex(raw, offset, "empty long-option name before '='")
		}

		return Element{Kind: KindLongOption, Raw: raw, Name: name, AttachedValue: attached, HasAttached: hasAttached}, nil

	case raw == longPrefix:
		// Handled by the terminator-only caller for POSIX "--"; under DOS
		// there is no bare long prefix terminator, fall through to value.
		return Element{Kind: KindValue, Raw: raw}, nil

	case len(raw) > len(shortPrefix) && hasPrefix(raw, shortPrefix) && !looksNumericAfter(raw, shortPrefix):
		rest := raw[len(shortPrefix):]
		first := rest[:1]
		remainder := rest[1:]

		if remainder == "" {
			return Element{Kind: KindShortOption, Raw: raw, Name: first}, nil
		}

		return Element{
			Kind:     KindShortOptionBundle,
			Raw:      raw,
			Name:     first,
			Trailing: remainder,
		}, nil

	case len(raw) > len(shortPrefix) && hasPrefix(raw, shortPrefix) && looksNumericAfter(raw, shortPrefix):
		// Ambiguous: could be a negative number or a short-option bundle
		// of numeric flags. Emit as a bundle and let the matcher apply
		// the negative-number policy (spec.md §4.3).
		rest := raw[len(shortPrefix):]

		return Element{Kind: KindShortOptionBundle, Raw: raw, Name: rest[:1], Trailing: rest[1:]}, nil

	case len(raw) > 1 && raw[0] == '-' && c == convention.POSIX:
		// The lexer never emits KindLongWithSingleDash: a single-dash
		// token reaching this case is classified as a plain value.
		fallthrough
	default:
		return Element{Kind: KindValue, Raw: raw}, nil
	}
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}

func splitAttached(rest string) (name, attached string, has bool) {
	for i := 0; i < len(rest); i++ {
		if rest[i] == '=' {
			return rest[:i], rest[i+1:], true
		}
	}

	return rest, "", false
}

// looksNumericAfter reports whether the characters right after prefix in
// raw look like the start of a signed number (spec.md §4.1's negative-
// number carve-out).
func looksNumericAfter(raw, prefix string) bool {
	rest := raw[len(prefix):]
	if rest == "" {
		return false
	}

	_, err := strconv.ParseFloat(rest, 64)
	if err == nil {
		return true
	}
	// Allow a purely-digit prefix even if the whole thing isn't a valid
	// float (e.g. "-46" where both -4 and -6 could be flags): the
	// matcher decides, the lexer only needs to know "digit-shaped".
	for _, r := range rest {
		if r < '0' || r > '9' {
			return r == '.' && len(rest) > 1
		}
	}

	return true
}

// IsHelpRequest reports whether el exactly names one of helpNames (after
// normalization), per spec.md §4.1 "a name matching exactly the
// command's help-flag set is reclassified as a help request".
func IsHelpRequest(el Element, helpNames []convention.Name) bool {
	if el.Kind != KindLongOption && el.Kind != KindShortOption {
		return false
	}

	var kind convention.Kind
	if el.Kind == KindLongOption {
		kind = convention.Long
	} else {
		kind = convention.Short
	}

	id := convention.ID{Kind: kind, Spelling: el.Name}

	for _, n := range helpNames {
		if n.Identity() == id {
			return true
		}
	}

	return false
}
