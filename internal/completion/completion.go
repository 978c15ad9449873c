// Package completion drives carapace-sh/carapace directly from an already
// built internal/schema.Command tree, the same library internal/gen/completions
// drives from a struct's tags — but reading completion hints from
// internal/schema.Argument.CompletionHint (file, directory, list,
// shellCommand, custom) instead of the teacher's ad hoc `complete:"..."`
// tag values, since by the time a schema exists the tags have already
// been consumed by internal/engine.Build.
package completion

import (
	"os/exec"
	"strings"

	"github.com/carapace-sh/carapace"
	"github.com/spf13/cobra"

	"github.com/cmdspec/opencli/internal/schema"
)

// Generate registers completions for root and every descendant command
// onto a carapace instance, one flag/positional at a time, mirroring
// internal/gen/completions.Generate's recursive-descent shape.
func Generate(root *cobra.Command, cmd *schema.Command) *carapace.Carapace {
	comps := carapace.Gen(root)

	registerArguments(comps, cmd.Arguments)
	for _, g := range cmd.Groups {
		registerGroup(comps, g)
	}

	for _, child := range root.Commands() {
		if sub := findChild(cmd, child.Name()); sub != nil {
			Generate(child, sub)
		}
	}

	return comps
}

func findChild(cmd *schema.Command, name string) *schema.Command {
	for _, c := range cmd.Children {
		if c.Name == name {
			return c
		}
	}

	return nil
}

func registerGroup(comps *carapace.Carapace, g *schema.OptionGroup) {
	registerArguments(comps, g.Arguments)
	for _, child := range g.Children {
		registerGroup(comps, child)
	}
}

func registerArguments(comps *carapace.Carapace, args []*schema.Argument) {
	var positionals []*schema.Argument

	flagActions := carapace.ActionMap{}

	for _, a := range args {
		action, ok := actionFor(a.Completion)
		if !ok {
			continue
		}

		if a.IsPositional() {
			positionals = append(positionals, a)

			continue
		}

		for _, n := range a.Names {
			flagActions[n.Spelling] = action
		}
	}

	if len(flagActions) > 0 {
		comps.FlagCompletion(flagActions)
	}

	if len(positionals) == 0 {
		return
	}

	handler := func(ctx carapace.Context) carapace.Action {
		index := len(ctx.Args)
		if index >= len(positionals) {
			index = len(positionals) - 1
		}

		action, _ := actionFor(positionals[index].Completion)

		return action
	}

	comps.PositionalAnyCompletion(carapace.ActionCallback(handler))
}

// actionFor translates one schema.CompletionHint into the equivalent
// carapace.Action, the same mapping internal/gen/completions'
// getCompletionAction performs from tag strings. The bool reports
// whether hint declared any completion at all.
func actionFor(hint schema.CompletionHint) (carapace.Action, bool) {
	switch hint.Kind {
	case schema.CompletionFile:
		return carapace.ActionFiles(hint.Extensions...), true
	case schema.CompletionDirectory:
		return carapace.ActionDirectories(), true
	case schema.CompletionList:
		return carapace.ActionValues(hint.Values...), true
	case schema.CompletionShellCommand:
		return actionShellCommand(hint.Command), true
	case schema.CompletionCustom:
		return actionCustom(hint.Custom), true
	default:
		return carapace.Action{}, false
	}
}

// actionShellCommand runs hint's command through the user's shell and
// completes with its stdout lines, the way carapace's own ActionExecCommand
// helpers are typically composed for ad hoc external completions.
func actionShellCommand(command string) carapace.Action {
	return carapace.ActionCallback(func(ctx carapace.Context) carapace.Action {
		out, err := exec.Command("sh", "-c", command).Output()
		if err != nil {
			return carapace.ActionMessage("completion command failed: %v", err)
		}

		return carapace.ActionValues(strings.Split(strings.TrimSpace(string(out)), "\n")...)
	})
}

func actionCustom(fn func(prefix string) []string) carapace.Action {
	if fn == nil {
		return carapace.Action{}
	}

	return carapace.ActionCallback(func(ctx carapace.Context) carapace.Action {
		return carapace.ActionValues(fn(ctx.Value)...)
	})
}
