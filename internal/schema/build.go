package schema

import (
	"strings"
	"unicode/utf8"

	"github.com/cmdspec/opencli/internal/convention"
	"github.com/cmdspec/opencli/internal/perrors"
)

// Build validates every invariant spec.md §3 lists for c and its
// subtree, synthesizing inversion negative names along the way, and
// returns the first violation found as a *perrors.SchemaError. Called
// once per command type at process start (grounded on the teacher's
// one-shot struct scan in internal/gen/flags.Bind); the returned tree is
// logically immutable afterwards.
func Build(c *Command) error {
	if c.Convention == 0 && c.Parent == nil {
		c.Convention = convention.Default()
	}

	if err := buildNames(c); err != nil {
		return err
	}

	if err := checkUniqueness(c); err != nil {
		return err
	}

	if err := checkPositionals(c); err != nil {
		return err
	}

	if err := checkTree(c); err != nil {
		return err
	}

	for _, child := range c.Children {
		child.Convention = c.Convention
		if err := Build(child); err != nil {
			return err
		}
	}

	return nil
}

// buildNames validates short/long spelling shape and synthesizes
// negative names for inverted boolean flags.
func buildNames(c *Command) error {
	for _, ea := range c.AllArguments() {
		a := ea.Argument

		for _, n := range a.Names {
			if n.Kind == convention.Short && utf8.RuneCountInString(n.Spelling) != 1 {
				return perrors.NewSchema(c.Name, "short-name spelling must be exactly one character: "+n.Spelling)
			}

			if n.Kind != convention.Short && strings.ContainsAny(n.Spelling, " \t\n") {
				return perrors.NewSchema(c.Name, "long-name spelling must not contain whitespace: "+n.Spelling)
			}
		}

		if a.Inversion == NoInversion {
			continue
		}

		if err := synthesizeInversion(c, a); err != nil {
			return err
		}
	}

	return nil
}

func synthesizeInversion(c *Command, a *Argument) error {
	primary := a.PrimaryName()

	switch a.Inversion {
	case PrefixedNo:
		neg := convention.NewLong("", "no-"+primary.Spelling, c.Convention)
		if collides(a, neg) {
			return perrors.NewSchema(c.Name, "inverted flag collides with its generated negative name: "+neg.Render())
		}

		a.NegativeNames = []convention.Name{neg}

	case PrefixedEnableDisable:
		enable := convention.NewLong("", "enable-"+primary.Spelling, c.Convention)
		disable := convention.NewLong("", "disable-"+primary.Spelling, c.Convention)

		if collides(a, enable) || collides(a, disable) {
			return perrors.NewSchema(c.Name, "inverted flag collides with its generated enable/disable names: "+primary.Spelling)
		}
		// The original name is replaced: spec.md §4.3 "the original name
		// is removed and replaced by --enable-<name>/--disable-<name>".
		a.Names = []convention.Name{enable}
		a.NegativeNames = []convention.Name{disable}
	}

	return nil
}

func collides(a *Argument, n convention.Name) bool {
	for _, own := range a.Names {
		if own.Identity() == n.Identity() {
			return true
		}
	}

	return false
}

// checkUniqueness enforces that every (kind, spelling) pair across all
// argument names within c (including groups) is unique.
func checkUniqueness(c *Command) error {
	seen := map[convention.ID]string{}

	for _, ea := range c.AllArguments() {
		a := ea.Argument

		names := append(append([]convention.Name{}, a.Names...), a.NegativeNames...)
		for _, n := range names {
			id := n.Identity()
			if existing, ok := seen[id]; ok {
				return perrors.NewSchema(c.Name, "duplicate name "+n.Render()+" also used by "+existing)
			}

			seen[id] = n.Render()
		}
	}

	return nil
}

// checkPositionals enforces: at most one variadic positional, and a
// variadic positional may not be followed by a required scalar
// positional.
func checkPositionals(c *Command) error {
	positionals := c.Positionals()

	variadicSeen := -1

	for i, p := range positionals {
		if p.Arity == Variadic {
			if variadicSeen != -1 {
				return perrors.NewSchema(c.Name, "at most one variadic positional may appear")
			}

			variadicSeen = i

			continue
		}

		if variadicSeen != -1 && i > variadicSeen && p.IsRequired() {
			return perrors.NewSchema(c.Name, "a variadic positional may not be followed by a required scalar positional")
		}
	}

	return nil
}

// checkTree enforces: every non-root command has exactly one parent (a
// tautology of Go struct links, checked for consistency instead), and a
// default child must be a direct child of its parent.
func checkTree(c *Command) error {
	if c.DefaultChild != nil {
		found := false

		for _, child := range c.Children {
			if child == c.DefaultChild {
				found = true

				break
			}
		}

		if !found {
			return perrors.NewSchema(c.Name, "default child must be a direct child of its parent")
		}
	}

	for _, child := range c.Children {
		if child.Parent != c {
			return perrors.NewSchema(c.Name, "child command's parent link does not point back to its declaring command: "+child.Name)
		}
	}

	return checkNoCycles(c, map[*Command]bool{})
}

func checkNoCycles(c *Command, visiting map[*Command]bool) error {
	if visiting[c] {
		return perrors.NewSchema(c.Name, "command tree contains a cycle")
	}

	visiting[c] = true

	for _, child := range c.Children {
		if err := checkNoCycles(child, visiting); err != nil {
			return err
		}
	}

	delete(visiting, c)

	return nil
}
