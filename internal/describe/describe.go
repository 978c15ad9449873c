// Package describe emits the machine-readable `--help-dump-opencli-v0.1`
// document (spec.md §6): a JSON tree mirroring internal/schema.Command,
// new relative to the teacher (reeflective/flags has no machine-readable
// dump; cobra users are expected to shell out to `--help` text instead).
// Grounded on encoding/json struct tags the way the rest of this module
// favors small, composable types over one large configuration struct.
package describe

import (
	"encoding/json"

	"github.com/cmdspec/opencli/internal/schema"
)

// DocumentVersion is the contract version advertised in every dump, and
// the flag name a generated command recognizes (spec.md §6).
const (
	DocumentVersion = "opencli-v0.1"
	FlagName        = "help-dump-opencli-v0.1"
)

// Document is the root of a help-dump JSON document.
type Document struct {
	Version string   `json:"version"`
	Command *Command `json:"command"`
}

// Command mirrors one internal/schema.Command node.
type Command struct {
	Name       string   `json:"name"`
	Abstract   string   `json:"abstract,omitempty"`
	Discussion string   `json:"discussion,omitempty"`
	Version    string   `json:"version,omitempty"`
	Aliases    []string `json:"aliases,omitempty"`
	Hidden     bool     `json:"hidden,omitempty"`

	Arguments []*Argument `json:"arguments,omitempty"`
	Groups    []*Group    `json:"groups,omitempty"`
	Children  []*Command  `json:"children,omitempty"`
}

// Group mirrors one internal/schema.OptionGroup.
type Group struct {
	Title     string      `json:"title"`
	Hidden    bool        `json:"hidden,omitempty"`
	Arguments []*Argument `json:"arguments,omitempty"`
	Children  []*Group    `json:"children,omitempty"`
}

// Argument mirrors one internal/schema.Argument, including the
// swiftArgumentParser-compatible completion booleans spec.md's contract
// requires for completion-hint round-tripping.
type Argument struct {
	Kind     string   `json:"kind"`
	Names    []string `json:"names,omitempty"`
	Arity    string   `json:"arity"`
	Strategy string   `json:"strategy"`
	Required bool     `json:"required,omitempty"`
	Variadic bool     `json:"variadic,omitempty"`
	Position int      `json:"position,omitempty"`

	Abstract    string `json:"abstract,omitempty"`
	Discussion  string `json:"discussion,omitempty"`
	Placeholder string `json:"placeholder,omitempty"`
	Hidden      bool   `json:"hidden,omitempty"`

	DefaultLiteral string `json:"defaultLiteral,omitempty"`
	DefaultAsFlag  string `json:"defaultAsFlag,omitempty"`
	Env            string `json:"env,omitempty"`

	SwiftArgumentParserRepeating bool `json:"swiftArgumentParserRepeating,omitempty"`
	SwiftArgumentParserFile      bool `json:"swiftArgumentParserFile,omitempty"`
	SwiftArgumentParserDirectory bool `json:"swiftArgumentParserDirectory,omitempty"`
}

// Build walks cmd and its children into a Document.
func Build(cmd *schema.Command) *Document {
	return &Document{
		Version: DocumentVersion,
		Command: buildCommand(cmd),
	}
}

// JSON renders cmd's help-dump as indented JSON text.
func JSON(cmd *schema.Command) ([]byte, error) {
	return json.MarshalIndent(Build(cmd), "", "  ")
}

func buildCommand(cmd *schema.Command) *Command {
	out := &Command{
		Name:       cmd.Name,
		Abstract:   cmd.Abstract,
		Discussion: cmd.Discussion,
		Version:    cmd.Version,
		Aliases:    cmd.Aliases,
		Hidden:     !cmd.ShouldDisplay,
	}

	for _, a := range cmd.Arguments {
		out.Arguments = append(out.Arguments, buildArgument(a))
	}

	for _, g := range cmd.Groups {
		out.Groups = append(out.Groups, buildGroup(g))
	}

	for _, child := range cmd.Children {
		out.Children = append(out.Children, buildCommand(child))
	}

	return out
}

func buildGroup(g *schema.OptionGroup) *Group {
	out := &Group{
		Title:  g.Title,
		Hidden: g.Visibility != schema.VisibleDefault,
	}

	for _, a := range g.Arguments {
		out.Arguments = append(out.Arguments, buildArgument(a))
	}

	for _, child := range g.Children {
		out.Children = append(out.Children, buildGroup(child))
	}

	return out
}

func buildArgument(a *schema.Argument) *Argument {
	out := &Argument{
		Kind:        kindName(a.Kind),
		Arity:       arityName(a.Arity),
		Strategy:    strategyName(a.Strategy),
		Required:    a.Required,
		Variadic:    a.Strategy.IsArray(),
		Position:    a.Position,
		Abstract:    a.Help.Abstract,
		Discussion:  a.Help.Discussion,
		Placeholder: a.Help.Placeholder,
		Hidden:      a.Help.Visibility != schema.VisibleDefault,
		Env:         a.Env,

		SwiftArgumentParserRepeating: a.Strategy.IsArray(),
		SwiftArgumentParserFile:      a.Completion.Kind == schema.CompletionFile,
		SwiftArgumentParserDirectory: a.Completion.Kind == schema.CompletionDirectory,
	}

	for _, n := range a.Names {
		out.Names = append(out.Names, n.Render())
	}

	if a.Default.HasLiteral {
		out.DefaultLiteral = a.Default.Literal
	}

	if a.Default.HasAsFlag {
		out.DefaultAsFlag = a.Default.AsFlag
	}

	return out
}

func kindName(k schema.ArgumentKind) string {
	switch k {
	case schema.KindOption:
		return "option"
	case schema.KindFlag:
		return "flag"
	case schema.KindPositional:
		return "positional"
	default:
		return "unknown"
	}
}

func arityName(a schema.Arity) string {
	switch a {
	case schema.Nullary:
		return "nullary"
	case schema.Unary:
		return "unary"
	case schema.Variadic:
		return "variadic"
	default:
		return "unknown"
	}
}

func strategyName(s schema.Strategy) string {
	switch s {
	case schema.Next:
		return "next"
	case schema.Unconditional:
		return "unconditional"
	case schema.ScanningForValue:
		return "scanningForValue"
	case schema.UpToNextOption:
		return "upToNextOption"
	case schema.SingleValue:
		return "singleValue"
	case schema.UnconditionalSingleValue:
		return "unconditionalSingleValue"
	case schema.Remaining:
		return "remaining"
	case schema.AllUnrecognized:
		return "allUnrecognized"
	case schema.PostTerminator:
		return "postTerminator"
	case schema.CaptureForPassthrough:
		return "captureForPassthrough"
	default:
		return "unknown"
	}
}
