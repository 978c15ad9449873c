package convention

import "strings"

// Kind classifies a Name's spelling family.
type Kind int

const (
	// Long is a multi-character name introduced by the convention's long
	// prefix (`--full-name`, `/FullName`).
	Long Kind = iota
	// Short is a single-character name introduced by the convention's
	// short prefix (`-f`, `+f`).
	Short
	// LongWithSingleDash is a long name introduced by a single dash
	// (`-verbose`), used by tools that mix GNU and X-style option
	// spellings; spelled the same under either convention.
	LongWithSingleDash
)

// Name is a single spelling of an argument: a kind, the bare spelling
// (without prefix), and the convention under which it should be
// rendered/matched. Identity is the (Kind, Spelling) tuple after
// normalization (spec.md §3 "Name").
type Name struct {
	Kind       Kind
	Spelling   string
	Convention Convention
}

// Normalize trims any prefix the caller may have left on Spelling and
// lower-cases nothing (spellings are case-sensitive) — it only strips
// convention prefixes so two Names built from "--verbose" and "verbose"
// compare equal.
func (n Name) Normalize() Name {
	spelling := n.Spelling

	for _, p := range []string{"--", "++", "/", "-", "+"} {
		if strings.HasPrefix(spelling, p) {
			spelling = strings.TrimPrefix(spelling, p)

			break
		}
	}

	n.Spelling = spelling

	return n
}

// ID is the (Kind, Spelling) identity tuple used for uniqueness checks
// and lookup, independent of convention.
type ID struct {
	Kind     Kind
	Spelling string
}

// Identity returns n's (kind, spelling) identity.
func (n Name) Identity() ID {
	norm := n.Normalize()

	return ID{Kind: norm.Kind, Spelling: norm.Spelling}
}

// Render returns the fully prefixed spelling of n under its convention,
// e.g. "--full-name", "-f", "/FullName", "+f".
func (n Name) Render() string {
	switch n.Kind {
	case Short:
		return n.Convention.ShortPrefix() + n.Spelling
	case LongWithSingleDash:
		return "-" + n.Spelling
	default:
		return n.Convention.LongPrefix() + n.Spelling
	}
}

// NewLong builds a long Name, deriving the spelling from identifier if
// spelling is empty.
func NewLong(identifier, spelling string, c Convention) Name {
	if spelling == "" {
		spelling = c.Derive(identifier)
	}

	return Name{Kind: Long, Spelling: spelling, Convention: c}
}

// NewShort builds a short Name. Spelling must normalize to exactly one
// rune; callers validate this at schema-build time (spec.md §3 invariant
// "short-name spellings are exactly one character").
func NewShort(spelling string, c Convention) Name {
	return Name{Kind: Short, Spelling: spelling, Convention: c}
}
