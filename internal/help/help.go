// Package help renders usage/help screens as a pure function of a
// resolved schema.Command plus a column width (spec.md §4.6). It does
// not consult any parse-time state: the same Command always renders the
// same text, which is the "round-trip" property spec.md §8 requires.
package help

import (
	"fmt"
	"strings"

	"github.com/cmdspec/opencli/internal/schema"
)

// Options controls which variant is rendered.
type Options struct {
	Width  int
	Hidden bool // include VisibleHidden arguments (the --help-hidden variant)
}

// DefaultOptions is a reasonable terminal width fallback.
var DefaultOptions = Options{Width: 80}

// Render produces the full help screen for cmd.
func Render(cmd *schema.Command, opts Options) string {
	if opts.Width <= 0 {
		opts.Width = DefaultOptions.Width
	}

	var b strings.Builder

	writeOverview(&b, cmd)
	writeUsage(&b, cmd)
	writeArguments(&b, cmd, opts)
	writeSubcommands(&b, cmd, opts)

	return strings.TrimRight(b.String(), "\n") + "\n"
}

func writeOverview(b *strings.Builder, cmd *schema.Command) {
	if cmd.Abstract == "" && cmd.Discussion == "" {
		return
	}

	fmt.Fprintln(b, "OVERVIEW:")

	if cmd.Abstract != "" {
		fmt.Fprintln(b, "  "+cmd.Abstract)
	}

	if cmd.Discussion != "" {
		fmt.Fprintln(b, "")
		fmt.Fprintln(b, indent(cmd.Discussion, "  "))
	}

	fmt.Fprintln(b, "")
}

func writeUsage(b *strings.Builder, cmd *schema.Command) {
	fmt.Fprintln(b, "USAGE:")

	if cmd.UsageLine != "" {
		fmt.Fprintln(b, "  "+cmd.UsageLine)
	} else {
		fmt.Fprintln(b, "  "+Usage(cmd))
	}

	fmt.Fprintln(b, "")
}

// Usage generates the default single-line usage string for cmd: its
// path, then [OPTIONS] if any non-positional argument exists, then each
// positional in declaration order.
func Usage(cmd *schema.Command) string {
	parts := []string{cmd.Path()}

	hasOptions := false

	for _, ea := range cmd.AllArguments() {
		if !ea.Argument.IsPositional() && ea.Visibility != schema.VisiblePrivate {
			hasOptions = true

			break
		}
	}

	if hasOptions {
		parts = append(parts, "[OPTIONS]")
	}

	for _, p := range cmd.Positionals() {
		name := p.Help.Placeholder
		if name == "" {
			name = "value"
		}

		switch {
		case p.Arity == schema.Variadic && p.IsRequired():
			parts = append(parts, fmt.Sprintf("<%s>...", name))
		case p.Arity == schema.Variadic:
			parts = append(parts, fmt.Sprintf("[%s...]", name))
		case p.IsRequired():
			parts = append(parts, fmt.Sprintf("<%s>", name))
		default:
			parts = append(parts, fmt.Sprintf("[%s]", name))
		}
	}

	if len(cmd.Children) > 0 {
		parts = append(parts, "<subcommand>")
	}

	return strings.Join(parts, " ")
}

func writeArguments(b *strings.Builder, cmd *schema.Command, opts Options) {
	positionals := []schema.EffectiveArgument{}
	ungroupedOptions := []schema.EffectiveArgument{}
	groups := map[string][]schema.EffectiveArgument{}
	var groupOrder []string

	for _, ea := range cmd.AllArguments() {
		if !visible(ea, opts) {
			continue
		}

		switch {
		case ea.Argument.IsPositional():
			positionals = append(positionals, ea)
		case ea.Group != nil && ea.Group.Title != "":
			if _, ok := groups[ea.Group.Title]; !ok {
				groupOrder = append(groupOrder, ea.Group.Title)
			}

			groups[ea.Group.Title] = append(groups[ea.Group.Title], ea)
		default:
			ungroupedOptions = append(ungroupedOptions, ea)
		}
	}

	writeSection(b, "ARGUMENTS:", positionals)
	writeSection(b, "OPTIONS:", ungroupedOptions)

	for _, title := range groupOrder {
		writeSection(b, strings.ToUpper(title)+":", groups[title])
	}
}

func visible(ea schema.EffectiveArgument, opts Options) bool {
	switch ea.Visibility {
	case schema.VisiblePrivate:
		return false
	case schema.VisibleHidden:
		return opts.Hidden
	default:
		return true
	}
}

func writeSection(b *strings.Builder, title string, args []schema.EffectiveArgument) {
	if len(args) == 0 {
		return
	}

	fmt.Fprintln(b, title)

	for _, ea := range args {
		fmt.Fprintln(b, "  "+describeLine(ea.Argument))
	}

	fmt.Fprintln(b, "")
}

func describeLine(a *schema.Argument) string {
	label := argumentLabel(a)

	if a.Help.Abstract == "" {
		return label
	}

	return fmt.Sprintf("%-24s %s", label, a.Help.Abstract)
}

func argumentLabel(a *schema.Argument) string {
	if a.IsPositional() {
		name := a.Help.Placeholder
		if name == "" {
			name = "value"
		}

		return name
	}

	names := make([]string, 0, len(a.Names))
	for _, n := range a.Names {
		names = append(names, n.Render())
	}

	label := strings.Join(names, ", ")

	if a.Kind == schema.KindOption && a.Help.Placeholder != "" {
		label += " <" + a.Help.Placeholder + ">"
	}

	return label
}

func writeSubcommands(b *strings.Builder, cmd *schema.Command, opts Options) {
	var visible []*schema.Command

	for _, c := range cmd.Children {
		if c.ShouldDisplay {
			visible = append(visible, c)
		}
	}

	if len(visible) == 0 {
		return
	}

	fmt.Fprintln(b, "SUBCOMMANDS:")

	for _, c := range visible {
		line := c.Name

		if len(c.Aliases) > 0 {
			line += " (" + strings.Join(c.Aliases, ", ") + ")"
		}

		if cmd.DefaultChild == c {
			line += " [default]"
		}

		if c.Abstract != "" {
			line = fmt.Sprintf("%-24s %s", line, c.Abstract)
		}

		fmt.Fprintln(b, "  "+line)
	}

	fmt.Fprintln(b, "")
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}

	return strings.Join(lines, "\n")
}
