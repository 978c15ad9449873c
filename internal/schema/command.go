package schema

import "github.com/cmdspec/opencli/internal/convention"

// Command describes a command or subcommand node (spec.md §3
// "Command"). The tree is stored as pointers, with parent links expressed
// as a pointer back to the parent node (spec.md §9 calls for index-based
// arena links in a systems language without GC; a Go tree of pointers
// achieves the same "never by raw pointer arithmetic, always via a
// structural link" property without the extra indirection layer).
type Command struct {
	Name       string
	Abstract   string
	Discussion string
	UsageLine  string // override; empty means "generate from schema"
	Version    string
	ShouldDisplay bool

	Parent   *Command
	Children []*Command
	Aliases  []string

	// DefaultChild is selected implicitly when no other child is named
	// and the parent has no remaining positionals to satisfy (spec.md
	// §4.3 step 3). Must be one of Children (enforced at Build).
	DefaultChild *Command

	// Arguments contributed directly by this command (not through a
	// group), plus the groups themselves. Positionals are a subset of
	// Arguments in declaration order.
	Arguments []*Argument
	Groups    []*OptionGroup

	// HelpNames are the command's help-flag spellings, defaulting to
	// -h/--help; inheritable to children unless a child overrides them.
	HelpNames []convention.Name

	// Convention is the parsing convention this command's names were
	// derived under; captured at Build time from the ambient default or
	// an explicit override.
	Convention convention.Convention
}

// AllArguments returns every argument visible in c: those declared
// directly plus every group's (transitively), each with its effective
// visibility.
func (c *Command) AllArguments() []EffectiveArgument {
	out := make([]EffectiveArgument, 0, len(c.Arguments))

	for _, a := range c.Arguments {
		out = append(out, EffectiveArgument{Argument: a, Visibility: a.Help.Visibility})
	}

	for _, g := range c.Groups {
		out = append(out, g.AllArguments()...)
	}

	return out
}

// Positionals returns c's positional arguments (direct and through
// groups) in declaration order.
func (c *Command) Positionals() []*Argument {
	var out []*Argument

	for _, ea := range c.AllArguments() {
		if ea.Argument.IsPositional() {
			out = append(out, ea.Argument)
		}
	}

	return out
}

// FindName resolves id against c's effective argument set: its own
// arguments plus every ancestor option group in scope (spec.md §4.3e
// "the current command's effective argument set... includes all
// ancestor option groups in scope").
func (c *Command) FindName(id convention.ID) *Argument {
	for cmd := c; cmd != nil; cmd = cmd.Parent {
		for _, ea := range cmd.AllArguments() {
			if cmd != c && ea.Group == nil {
				continue // an ancestor's direct arguments are not in scope
			}

			if ea.Argument.HasName(id) {
				return ea.Argument
			}
		}
	}

	return nil
}

// FindChild resolves a subcommand name or alias against c's direct
// children.
func (c *Command) FindChild(name string) *Command {
	for _, child := range c.Children {
		if child.Name == name {
			return child
		}

		for _, alias := range child.Aliases {
			if alias == name {
				return child
			}
		}
	}

	return nil
}

// Ancestors returns c's ancestor chain, nearest first, not including c.
func (c *Command) Ancestors() []*Command {
	var out []*Command

	for cmd := c.Parent; cmd != nil; cmd = cmd.Parent {
		out = append(out, cmd)
	}

	return out
}

// IsAncestorOf reports whether c is an ancestor of other.
func (c *Command) IsAncestorOf(other *Command) bool {
	for cmd := other.Parent; cmd != nil; cmd = cmd.Parent {
		if cmd == c {
			return true
		}
	}

	return false
}

// Path returns the full command path from the root to c, joined by " ".
func (c *Command) Path() string {
	ancestors := c.Ancestors() // nearest parent first: [parent, ..., root]

	names := make([]string, 0, len(ancestors)+1)
	for i := len(ancestors) - 1; i >= 0; i-- {
		names = append(names, ancestors[i].Name)
	}

	names = append(names, c.Name)

	return joinPath(names)
}

func joinPath(names []string) string {
	out := ""

	for i, n := range names {
		if i > 0 {
			out += " "
		}

		out += n
	}

	return out
}

// HelpFlagNames returns c's own help-flag names, inherited from the
// nearest ancestor that declares them if c has none of its own.
func (c *Command) HelpFlagNames() []convention.Name {
	for cmd := c; cmd != nil; cmd = cmd.Parent {
		if len(cmd.HelpNames) > 0 {
			return cmd.HelpNames
		}
	}

	return defaultHelpNames(c.Convention)
}

func defaultHelpNames(conv convention.Convention) []convention.Name {
	return []convention.Name{
		convention.NewShort("h", conv),
		convention.NewLong("help", "help", conv),
	}
}
