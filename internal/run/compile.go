package run

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/cmdspec/opencli/internal/engine"
	"github.com/cmdspec/opencli/internal/schema"
)

// Compile builds the *cobra.Command tree spec.md's DOMAIN STACK calls for:
// cobra supplies the tree/help/Execute shell a caller already knows from
// the teacher's generated commands, but never parses a single flag itself
// — every node disables pflag entirely and hands the process's full
// argument list back to internal/engine's lex/match/decode/dispatch
// pipeline, because cobra's own matcher is exactly pflag's and cannot
// express the strategy table spec.md requires (see internal/matcher).
// The tree exists for navigation, `--help`, and completion generation
// (internal/completion walks it the same way internal/gen/completions
// walks the teacher's cobra tree); it never resolves a command on its own.
func Compile(prog *engine.Program, opts engine.RunOptions) *cobra.Command {
	root := compileNode(prog.Root)

	runE := func(cmd *cobra.Command, args []string) error {
		return engine.Execute(prog, os.Args[1:], opts)
	}

	attachRunE(root, runE)

	return root
}

func compileNode(cmd *schema.Command) *cobra.Command {
	cc := &cobra.Command{
		Use:     cmd.Name,
		Short:   cmd.Abstract,
		Long:    cmd.Discussion,
		Aliases: cmd.Aliases,
		Hidden:  !cmd.ShouldDisplay,
		Version: cmd.Version,

		DisableFlagParsing: true,
		SilenceUsage:       true,
		SilenceErrors:      true,
	}

	for _, child := range cmd.Children {
		cc.AddCommand(compileNode(child))
	}

	return cc
}

func attachRunE(cc *cobra.Command, runE func(*cobra.Command, []string) error) {
	cc.RunE = runE
	for _, child := range cc.Commands() {
		attachRunE(child, runE)
	}
}
