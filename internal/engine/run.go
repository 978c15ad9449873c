package engine

import (
	"fmt"
	"io"
	"os"

	"github.com/cmdspec/opencli/internal/convention"
	"github.com/cmdspec/opencli/internal/decode"
	"github.com/cmdspec/opencli/internal/describe"
	"github.com/cmdspec/opencli/internal/help"
	"github.com/cmdspec/opencli/internal/lexer"
	"github.com/cmdspec/opencli/internal/matcher"
	"github.com/cmdspec/opencli/internal/perrors"
	"github.com/cmdspec/opencli/internal/schema"
	"github.com/cmdspec/opencli/internal/validation"
)

// RunOptions controls one Execute invocation; the zero value is usable
// (POSIX convention, the real process environment, the real stdout).
type RunOptions struct {
	Convention convention.Convention
	Env        decode.Env
	Stdout     io.Writer
	Stderr     io.Writer
}

func (o RunOptions) withDefaults() RunOptions {
	if o.Env == nil {
		o.Env = decode.OSEnv
	}

	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}

	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}

	return o
}

// Execute lexes, matches, decodes, binds, validates, and dispatches args
// against prog (spec.md §3 "Lifecycle"): the single entry point every
// generated command's main() calls. A *perrors.Exit return means the
// caller should os.Exit(Code) after any Message has already been
// printed; any other error is a usage/validation/domain failure.
func Execute(prog *Program, args []string, opts RunOptions) error {
	opts = opts.withDefaults()

	args, dump := extractHelpDumpFlag(args)

	elements, err := lexer.Lex(args, opts.Convention)
	if err != nil {
		return err
	}

	result, err := matcher.Run(prog.Root, elements, opts.Convention)
	if err != nil {
		return err
	}

	if result.HelpFor != nil {
		text := help.Render(result.HelpFor, help.Options{Hidden: result.HelpHidden})
		fmt.Fprint(opts.Stdout, text)

		return perrors.CleanExit("")
	}

	if dump {
		doc, err := describe.JSON(result.Command)
		if err != nil {
			return err
		}

		fmt.Fprintln(opts.Stdout, string(doc))

		return perrors.CleanExit("")
	}

	chain := commandChain(result.Command)

	slots := map[*schema.Argument]*decode.Slot{}
	for _, cmd := range chain {
		cmdSlots, err := decode.Run(cmd, result, opts.Env)
		if err != nil {
			return err
		}

		for a, slot := range cmdSlots {
			slots[a] = slot
		}
	}

	for _, cmd := range chain {
		for _, ea := range cmd.AllArguments() {
			if err := bindArgument(ea.Argument, result, slots[ea.Argument], opts.Env); err != nil {
				return err
			}
		}
	}

	if err := runValidation(prog, chain); err != nil {
		return err
	}

	return dispatch(prog, chain, result.Unclaimed)
}

// extractHelpDumpFlag strips the machine-readable dump flag (spec.md §6)
// out of args before lexing, the same way "--help"/"-h" are recognized
// ahead of ordinary matching (internal/lexer), since neither flag belongs
// to any one command's own schema. Like those, it stops looking once it
// passes a "--" terminator: anything after that belongs to the command
// verbatim, not to us.
func extractHelpDumpFlag(args []string) ([]string, bool) {
	const long = "--" + describe.FlagName

	out := make([]string, 0, len(args))
	found := false
	terminated := false

	for _, a := range args {
		if !terminated && a == "--" {
			terminated = true
		}

		if !terminated && a == long {
			found = true
			continue
		}

		out = append(out, a)
	}

	return out, found
}

// commandChain returns the path from root to cmd, inclusive.
func commandChain(cmd *schema.Command) []*schema.Command {
	ancestors := cmd.Ancestors()

	chain := make([]*schema.Command, 0, len(ancestors)+1)
	for i := len(ancestors) - 1; i >= 0; i-- {
		chain = append(chain, ancestors[i])
	}

	return append(chain, cmd)
}

// bindArgument writes a's matched (or environment- or default-sourced)
// raw value(s) into its Binder, in match order, so repeated array
// occurrences accumulate the way the teacher's pflag.Value.Set already
// does for generated commands.
func bindArgument(a *schema.Argument, result *matcher.Result, slot *decode.Slot, env decode.Env) error {
	if a.Binder == nil {
		return nil
	}

	bindings := result.Bindings[a]

	if len(bindings) == 0 && a.Env != "" && env != nil {
		if raw, ok := env(a.Env); ok {
			return wrapBindErr(a, raw, a.Binder.Bind(raw))
		}
	}

	for _, b := range bindings {
		if err := wrapBindErr(a, b.Raw, a.Binder.Bind(b.Raw)); err != nil {
			return err
		}
	}

	if len(bindings) == 0 && slot != nil && !slot.Bound && a.Default.HasLiteral {
		return wrapBindErr(a, a.Default.Literal, a.Binder.Bind(a.Default.Literal))
	}

	return nil
}

func wrapBindErr(a *schema.Argument, raw string, err error) error {
	if err == nil {
		return nil
	}

	return perrors.NewDecode(a.PrimaryName().Render(), a.Help.Placeholder, raw, err.Error())
}

// runValidation builds the Node tree spec.md §4.5 describes (the
// executing command's decoded value, plus every nested option group
// value, leaves first) for each command in chain and runs the pipeline.
func runValidation(prog *Program, chain []*schema.Command) error {
	for _, cmd := range chain {
		_, _, _, _, cmdValidate := prog.Hooks(cmd)

		node := &validation.Node{}
		if cmdValidate != nil {
			node.Value = validateAdapter{cmdValidate}
		}

		for _, g := range cmd.Groups {
			node.Children = append(node.Children, groupNode(g))
		}

		if err := validation.Run(node); err != nil {
			return err
		}
	}

	return nil
}

func groupNode(g *schema.OptionGroup) *validation.Node {
	node := &validation.Node{}
	if g.Validate != nil {
		node.Value = validateAdapter{g.Validate}
	}

	for _, c := range g.Children {
		node.Children = append(node.Children, groupNode(c))
	}

	return node
}

// validateAdapter satisfies validation.Hook from a bare closure, since
// schema.OptionGroup/engine.hookSet store Validate as func() error
// rather than an interface value.
type validateAdapter struct {
	fn func() error
}

func (v validateAdapter) Validate() error { return v.fn() }

// dispatch runs PreRun top-down, the leaf's Execute, then PostRun
// bottom-up, mirroring cobra's persistent-hook ordering (grounded on
// internal/gen/flags/command.go's setPreRuns/setMainRuns/setPostRuns).
func dispatch(prog *Program, chain []*schema.Command, unclaimed []lexer.Element) error {
	leaf := chain[len(chain)-1]

	for _, cmd := range chain {
		_, _, preRun, _, _ := prog.Hooks(cmd)
		if preRun != nil {
			if err := preRun(nil); err != nil {
				return err
			}
		}
	}

	_, execute, _, _, _ := prog.Hooks(leaf)
	if execute != nil {
		if err := execute(unclaimedStrings(unclaimed)); err != nil {
			return err
		}
	}

	for i := len(chain) - 1; i >= 0; i-- {
		_, _, _, postRun, _ := prog.Hooks(chain[i])
		if postRun != nil {
			if err := postRun(nil); err != nil {
				return err
			}
		}
	}

	return nil
}

func unclaimedStrings(elements []lexer.Element) []string {
	out := make([]string, 0, len(elements))
	for _, el := range elements {
		out = append(out, el.Raw)
	}

	return out
}
