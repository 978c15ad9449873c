// Package engine bridges the teacher's reflection-based struct-tag scan
// (internal/parser, internal/positional) into the schema-driven core
// (internal/schema, internal/lexer, internal/matcher, internal/decode,
// internal/validation, internal/help): the same tags that feed
// internal/gen/flags's cobra generator here feed Build, producing an
// immutable *schema.Command tree once per command type plus a Program
// carrying the runtime bindings (Binders, Commander/Runner hooks) that
// schema.Command deliberately does not hold (spec.md §3: "a schema is
// built once... no parse-time state is kept here"), grounded on
// internal/gen/flags/command.go's scanRoot/command/flagsGroup.
package engine

import (
	"fmt"
	"reflect"

	"github.com/cmdspec/opencli/internal/convention"
	"github.com/cmdspec/opencli/internal/errors"
	"github.com/cmdspec/opencli/internal/interfaces"
	"github.com/cmdspec/opencli/internal/parser"
	"github.com/cmdspec/opencli/internal/positional"
	"github.com/cmdspec/opencli/internal/schema"
	"github.com/cmdspec/opencli/internal/values"
)

// Program pairs a built *schema.Command tree with the runtime bindings
// (the bound Go values and their Commander/Runner/validate hooks) that
// schema deliberately keeps out of its own, reusable-across-parses tree.
type Program struct {
	Root  *schema.Command
	hooks map[*schema.Command]*hookSet
}

// hookSet holds one command's runtime bindings: the struct it was built
// from, and whichever of the teacher's Commander/Runner family it
// implements (internal/interfaces), grounded on
// internal/gen/flags/command.go's setRuns/setPreRuns/setMainRuns/setPostRuns.
type hookSet struct {
	Data     any
	Execute  func(args []string) error
	PreRun   func(args []string) error
	PostRun  func(args []string) error
	Validate func() error
}

// Hooks returns cmd's runtime bindings, or all-nil if cmd carries none.
func (p *Program) Hooks(cmd *schema.Command) (data any, execute, preRun, postRun func([]string) error, validate func() error) {
	h, ok := p.hooks[cmd]
	if !ok {
		return nil, nil, nil, nil, nil
	}

	return h.Data, h.Execute, h.PreRun, h.PostRun, h.Validate
}

// Build scans data (a pointer to a struct) under opts and returns the
// built, invariant-checked Program rooted on it. Called once per command
// type (spec.md §3 "Lifecycle": "created once at process start").
func Build(data any, opts ...parser.OptFunc) (*Program, error) {
	val := reflect.ValueOf(data)
	if val.Kind() != reflect.Ptr || val.Elem().Kind() != reflect.Struct {
		return nil, errors.ErrNotPointerToStruct
	}

	prog := &Program{hooks: map[*schema.Command]*hookSet{}}

	root := &schema.Command{Name: commandName(data), ShouldDisplay: true}
	prog.registerHooks(root, data)

	if err := scanInto(prog, root, val.Elem(), parser.DefOpts().Apply(opts...)); err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrParse, err)
	}

	if err := schema.Build(root); err != nil {
		return nil, err
	}

	prog.Root = root

	return prog, nil
}

func commandName(data any) string {
	t := reflect.TypeOf(data)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	return convention.Default().Derive(t.Name())
}

// scanInto walks val's fields, populating cmd's Arguments, Groups, and
// Children: the same four-way dispatch internal/gen/flags/command.go's
// scanRoot performs, but targeting a schema.Command instead of a
// *cobra.Command.
func scanInto(prog *Program, cmd *schema.Command, val reflect.Value, opts *parser.Opts) error {
	stype := val.Type()

	for i := range stype.NumField() {
		field := stype.Field(i)
		fieldVal := val.Field(i)

		if field.PkgPath != "" && !field.Anonymous {
			continue
		}

		mtag, _, err := parser.GetFieldTag(field)
		if err != nil {
			return fmt.Errorf("%w: %s", errors.ErrInvalidTag, err.Error())
		}

		if err := scanField(prog, cmd, fieldVal, field, mtag, opts); err != nil {
			return err
		}
	}

	return nil
}

func scanField(prog *Program, cmd *schema.Command, fieldVal reflect.Value, field reflect.StructField, mtag *parser.MultiTag, opts *parser.Opts) error {
	if pargs, _ := mtag.Get("positional-args"); len(pargs) != 0 {
		return scanPositionals(cmd, fieldVal, mtag, opts)
	}

	if name, _ := mtag.Get("command"); name != "" {
		return scanCommand(prog, cmd, fieldVal, name, mtag, opts)
	}

	if name, _ := mtag.Get("cmd"); name != "" {
		return scanCommand(prog, cmd, fieldVal, name, mtag, opts)
	}

	if _, isSet := mtag.Get("commands"); isSet {
		ptrVal := parser.EnsureAddr(fieldVal)

		return scanInto(prog, cmd, ptrVal.Elem(), opts)
	}

	if title, isSet := mtag.Get("group"); isSet {
		return scanGroup(cmd, fieldVal, title, mtag, opts)
	}

	if title, isSet := mtag.Get("options"); isSet {
		return scanGroup(cmd, fieldVal, title, mtag, opts)
	}

	args, err := flagsFromField(fieldVal, field, opts)
	if err != nil {
		return err
	}

	cmd.Arguments = append(cmd.Arguments, args...)

	return nil
}

// scanPositionals scans a struct field tagged `positional-args:"yes"`
// into cmd's positional arguments, grounded on
// internal/gen/flags/positional.go's use of internal/positional.ScanArgs.
func scanPositionals(cmd *schema.Command, val reflect.Value, stag *parser.MultiTag, opts *parser.Opts) error {
	ptrVal := parser.EnsureAddr(val)

	args, err := positional.ScanArgs(ptrVal.Elem(), stag, parser.CopyOpts(opts))
	if err != nil || args == nil {
		return fmt.Errorf("failed to scan positional arguments: %w", err)
	}

	for _, slot := range args.Positionals() {
		cmd.Arguments = append(cmd.Arguments, positionalToArgument(slot))
	}

	return nil
}

// scanCommand scans a struct field tagged `command:"name"` into a child
// schema.Command, grounded on internal/gen/flags/command.go's command().
func scanCommand(prog *Program, cmd *schema.Command, val reflect.Value, name string, mtag *parser.MultiTag, opts *parser.Opts) error {
	ptrVal := parser.EnsureAddr(val)
	data := ptrVal.Interface()

	child := &schema.Command{Name: name, ShouldDisplay: true}
	prog.registerHooks(child, data)

	if desc, _ := mtag.Get("description"); desc != "" {
		child.Abstract = desc
	} else if desc, _ := mtag.Get("desc"); desc != "" {
		child.Abstract = desc
	}

	child.Discussion, _ = mtag.Get("long-description")
	child.Aliases = append(mtag.GetMany("alias"), mtag.GetMany("aliases")...)

	if _, hidden := mtag.Get("hidden"); hidden {
		child.ShouldDisplay = false
	}

	if err := scanInto(prog, child, ptrVal.Elem(), opts); err != nil {
		return fmt.Errorf("failed to scan subcommand %s: %w", name, err)
	}

	child.Parent = cmd
	cmd.Children = append(cmd.Children, child)

	if _, isDefault := mtag.Get("default"); isDefault {
		cmd.DefaultChild = child
	}

	return nil
}

// scanGroup scans a struct field tagged `group:"title"` (or
// `options:"title"`) into a schema.OptionGroup, grounded on
// internal/gen/flags/group.go's handleFlagGroup/addFlagSet.
func scanGroup(cmd *schema.Command, val reflect.Value, title string, mtag *parser.MultiTag, opts *parser.Opts) error {
	group := &schema.OptionGroup{Title: title}

	if _, hidden := mtag.Get("hidden"); hidden {
		group.Visibility = schema.VisibleHidden
	}

	ptrVal := parser.EnsureAddr(val)

	if validatable, ok := ptrVal.Interface().(hasValidate); ok {
		group.Validate = validatable.Validate
	}

	gstype := ptrVal.Elem().Type()

	for i := range gstype.NumField() {
		field := gstype.Field(i)
		fieldVal := ptrVal.Elem().Field(i)

		if field.PkgPath != "" && !field.Anonymous {
			continue
		}

		args, err := flagsFromField(fieldVal, field, opts)
		if err != nil {
			return err
		}

		group.Arguments = append(group.Arguments, args...)
	}

	cmd.Groups = append(cmd.Groups, group)

	return nil
}

type hasValidate interface {
	Validate() error
}

// flagsFromField parses one struct field via the teacher's reflection
// scan and converts whatever it reports (a positional, or one-or-more
// flags from a single field or an embedded group) into schema.Arguments.
func flagsFromField(val reflect.Value, field reflect.StructField, opts *parser.Opts) ([]*schema.Argument, error) {
	fieldFlags, pos, found, err := parser.ParseField(val, field, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to parse flag field: %w", err)
	}

	if !found {
		return nil, nil
	}

	if pos != nil {
		return []*schema.Argument{positionalToArgument(pos)}, nil
	}

	out := make([]*schema.Argument, 0, len(fieldFlags))
	for _, f := range fieldFlags {
		out = append(out, flagToArgument(f))
	}

	return out, nil
}

// flagToArgument converts one teacher-scanned *parser.Flag into a
// schema.Argument, inferring Kind/Arity/Strategy from the underlying
// values.Value the way internal/gen/flags/flag.go's generateTo already
// distinguishes bool-shaped values for NoOptDefVal wiring.
func flagToArgument(f *parser.Flag) *schema.Argument {
	arg := &schema.Argument{
		Kind:     schema.KindOption,
		Arity:    schema.Unary,
		Strategy: schema.Next,
		Required: f.Required,
		Position: -1,
		Help: schema.Help{
			Abstract:    f.Usage,
			Placeholder: f.Placeholder,
		},
		Binder: newBinder(f.Value),
	}

	if f.Name != "" {
		arg.Names = append(arg.Names, convention.NewLong("", f.Name, convention.Default()))
	}

	if f.Short != "" {
		arg.Names = append(arg.Names, convention.NewShort(f.Short, convention.Default()))
	}

	if len(f.EnvNames) > 0 {
		arg.Env = f.EnvNames[0]
	}

	if len(f.DefValue) > 0 {
		arg.Default.Literal = f.DefValue[0]
		arg.Default.HasLiteral = true
	}

	if f.Negatable != nil {
		arg.Inversion = schema.PrefixedNo
	}

	if f.Hidden {
		arg.Help.Visibility = schema.VisibleHidden
	}

	if boolFlag, ok := f.Value.(values.BoolFlag); ok && boolFlag.IsBoolFlag() {
		arg.Kind = schema.KindFlag
		arg.Arity = schema.Nullary
		arg.Required = false
	} else if cumulative, ok := f.Value.(values.RepeatableFlag); ok && cumulative.IsCumulative() {
		arg.Arity = schema.Variadic
		arg.Strategy = schema.SingleValue
	}

	if len(f.OptionalValue) > 0 {
		arg.Default.AsFlag = joinSpace(f.OptionalValue)
		arg.Default.HasAsFlag = true
	}

	return arg
}

// positionalToArgument converts a *parser.Positional (shared between
// internal/parser's single-field `arg` tag and internal/positional's
// `positional-args` struct scan) into a schema.Argument.
func positionalToArgument(p *parser.Positional) *schema.Argument {
	isSlice := p.Value.Kind() == reflect.Slice || p.Value.Kind() == reflect.Map

	arg := &schema.Argument{
		Kind:     schema.KindPositional,
		Arity:    schema.Unary,
		Required: p.Min > 0,
		Position: p.Index,
		Help:     schema.Help{Placeholder: p.Name, Abstract: p.Usage},
		Binder:   newBinder(p.PValue),
	}

	if isSlice || p.Max == -1 {
		arg.Arity = schema.Variadic
		arg.Strategy = schema.AllUnrecognized
	}

	if p.Passthrough {
		arg.Strategy = schema.CaptureForPassthrough
	}

	return arg
}

func joinSpace(vals []string) string {
	out := ""

	for i, v := range vals {
		if i > 0 {
			out += " "
		}

		out += v
	}

	return out
}

// registerHooks records data's Commander/Runner family against cmd,
// grounded on internal/gen/flags/command.go's setRuns/setPreRuns/
// setMainRuns/setPostRuns.
func (p *Program) registerHooks(cmd *schema.Command, data any) {
	h := &hookSet{Data: data}

	if commander, ok := data.(interfaces.Commander); ok {
		h.Execute = commander.Execute
	} else if runner, ok := data.(interfaces.Runner); ok {
		h.Execute = func(args []string) error {
			runner.Run(args)

			return nil
		}
	}

	if runner, ok := data.(interfaces.PreRunnerE); ok {
		h.PreRun = runner.PreRunE
	} else if runner, ok := data.(interfaces.PreRunner); ok {
		h.PreRun = func(args []string) error {
			runner.PreRun(args)

			return nil
		}
	}

	if runner, ok := data.(interfaces.PostRunnerE); ok {
		h.PostRun = runner.PostRunE
	} else if runner, ok := data.(interfaces.PostRunner); ok {
		h.PostRun = func(args []string) error {
			runner.PostRun(args)

			return nil
		}
	}

	if validatable, ok := data.(hasValidate); ok {
		h.Validate = validatable.Validate
	}

	p.hooks[cmd] = h
}
