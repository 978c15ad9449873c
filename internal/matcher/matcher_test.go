package matcher_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmdspec/opencli/internal/convention"
	"github.com/cmdspec/opencli/internal/lexer"
	"github.com/cmdspec/opencli/internal/matcher"
	"github.com/cmdspec/opencli/internal/schema"
)

func buildRoot(t *testing.T) *schema.Command {
	t.Helper()

	name := &schema.Argument{
		Kind:     schema.KindOption,
		Names:    []convention.Name{convention.NewLong("name", "name", convention.POSIX)},
		Arity:    schema.Unary,
		Strategy: schema.Next,
	}
	verbose := &schema.Argument{
		Kind:  schema.KindFlag,
		Names: []convention.Name{convention.NewLong("verbose", "verbose", convention.POSIX), convention.NewShort("v", convention.POSIX)},
		Arity: schema.Nullary,
	}
	target := &schema.Argument{
		Kind:     schema.KindPositional,
		Arity:    schema.Unary,
		Required: true,
		Position: 0,
		Help:     schema.Help{Placeholder: "target"},
	}

	root := &schema.Command{
		Name:          "app",
		ShouldDisplay: true,
		Arguments:     []*schema.Argument{name, verbose, target},
	}

	sub := &schema.Command{Name: "build", ShouldDisplay: true}
	sub.Parent = root
	root.Children = append(root.Children, sub)

	require.NoError(t, schema.Build(root))

	return root
}

func TestMatcherBindsOptionsAndPositional(t *testing.T) {
	root := buildRoot(t)

	elements, err := lexer.Lex([]string{"--name=demo", "-v", "file.txt"}, convention.POSIX)
	require.NoError(t, err)

	result, err := matcher.Run(root, elements, convention.POSIX)
	require.NoError(t, err)

	nameArg := root.Arguments[0]
	verboseArg := root.Arguments[1]
	targetArg := root.Arguments[2]

	require.Len(t, result.Bindings[nameArg], 1)
	assert.Equal(t, "demo", result.Bindings[nameArg][0].Raw)

	require.Len(t, result.Bindings[verboseArg], 1)
	assert.Equal(t, "true", result.Bindings[verboseArg][0].Raw)

	require.Len(t, result.Bindings[targetArg], 1)
	assert.Equal(t, "file.txt", result.Bindings[targetArg][0].Raw)
}

func TestMatcherSubcommandTransition(t *testing.T) {
	root := buildRoot(t)

	elements, err := lexer.Lex([]string{"build"}, convention.POSIX)
	require.NoError(t, err)

	result, err := matcher.Run(root, elements, convention.POSIX)
	require.NoError(t, err, "the subcommand's own (empty) argument set is what gets verified, not root's")
	assert.Equal(t, "build", result.Command.Name)
}

func TestMatcherMissingRequiredPositional(t *testing.T) {
	root := buildRoot(t)

	elements, err := lexer.Lex([]string{"--name=demo"}, convention.POSIX)
	require.NoError(t, err)

	_, err = matcher.Run(root, elements, convention.POSIX)
	assert.Error(t, err)
}

func TestMatcherUnknownOption(t *testing.T) {
	root := buildRoot(t)

	elements, err := lexer.Lex([]string{"--does-not-exist"}, convention.POSIX)
	require.NoError(t, err)

	_, err = matcher.Run(root, elements, convention.POSIX)
	assert.Error(t, err)
}

func TestMatcherHelpShortCircuits(t *testing.T) {
	root := buildRoot(t)

	elements, err := lexer.Lex([]string{"--help"}, convention.POSIX)
	require.NoError(t, err)

	result, err := matcher.Run(root, elements, convention.POSIX)
	require.NoError(t, err)
	require.NotNil(t, result.HelpFor)
	assert.Equal(t, "app", result.HelpFor.Name)
}

func TestMatcherTerminatorBlocksNextValueCapture(t *testing.T) {
	config := &schema.Argument{
		Kind:     schema.KindOption,
		Names:    []convention.Name{convention.NewLong("config", "config", convention.POSIX)},
		Arity:    schema.Unary,
		Strategy: schema.Next,
		Default:  schema.Default{AsFlag: "debug", HasAsFlag: true},
	}
	files := &schema.Argument{
		Kind:     schema.KindPositional,
		Arity:    schema.Variadic,
		Position: 0,
		Strategy: schema.PostTerminator,
	}

	root := &schema.Command{Name: "app", Arguments: []*schema.Argument{config, files}}
	require.NoError(t, schema.Build(root))

	elements, err := lexer.Lex([]string{"--config", "--", "value"}, convention.POSIX)
	require.NoError(t, err)

	result, err := matcher.Run(root, elements, convention.POSIX)
	require.NoError(t, err)

	require.Len(t, result.Bindings[config], 1)
	assert.Equal(t, "debug", result.Bindings[config][0].Raw)

	require.Len(t, result.Bindings[files], 1)
	assert.Equal(t, "value", result.Bindings[files][0].Raw)
}

func TestMatcherNegativeNameBindsFalse(t *testing.T) {
	color := &schema.Argument{
		Kind:      schema.KindFlag,
		Names:     []convention.Name{convention.NewLong("color", "color", convention.POSIX)},
		Inversion: schema.PrefixedNo,
	}
	root := &schema.Command{Name: "app", Arguments: []*schema.Argument{color}}
	require.NoError(t, schema.Build(root))

	elements, err := lexer.Lex([]string{"--color", "--no-color"}, convention.POSIX)
	require.NoError(t, err)

	result, err := matcher.Run(root, elements, convention.POSIX)
	require.NoError(t, err)

	// ChooseLast (the zero Exclusivity) keeps only the last binding.
	require.Len(t, result.Bindings[color], 1)
	assert.Equal(t, "false", result.Bindings[color][0].Raw)
}

func TestMatcherEnumCaseBindsMatchedCase(t *testing.T) {
	red := &schema.Argument{
		Kind:      schema.KindFlag,
		Names:     []convention.Name{convention.NewLong("red", "red", convention.POSIX)},
		EnumGroup: "color",
		EnumCase:  "red",
	}
	blue := &schema.Argument{
		Kind:      schema.KindFlag,
		Names:     []convention.Name{convention.NewLong("blue", "blue", convention.POSIX)},
		EnumGroup: "color",
		EnumCase:  "blue",
	}
	root := &schema.Command{Name: "app", Arguments: []*schema.Argument{red, blue}}
	require.NoError(t, schema.Build(root))

	elements, err := lexer.Lex([]string{"--blue"}, convention.POSIX)
	require.NoError(t, err)

	result, err := matcher.Run(root, elements, convention.POSIX)
	require.NoError(t, err)

	require.Len(t, result.Bindings[blue], 1)
	assert.Equal(t, "blue", result.Bindings[blue][0].Raw)
	assert.Empty(t, result.Bindings[red])
}

func TestMatcherDefaultSubcommandReplaysUnclaimedRootValues(t *testing.T) {
	child := &schema.Command{
		Name: "run",
		Arguments: []*schema.Argument{
			{Kind: schema.KindPositional, Required: true, Position: 0, Help: schema.Help{Placeholder: "target"}},
		},
	}
	root := &schema.Command{Name: "app", Children: []*schema.Command{child}, DefaultChild: child}
	child.Parent = root
	require.NoError(t, schema.Build(root))

	elements, err := lexer.Lex([]string{"widget"}, convention.POSIX)
	require.NoError(t, err)

	result, err := matcher.Run(root, elements, convention.POSIX)
	require.NoError(t, err)
	assert.Equal(t, "run", result.Command.Name)
	require.Len(t, result.Bindings[child.Arguments[0]], 1)
	assert.Equal(t, "widget", result.Bindings[child.Arguments[0]][0].Raw)
}

func TestMatcherDefaultSubcommandUnsatisfiableStillErrors(t *testing.T) {
	child := &schema.Command{Name: "run"} // no positionals at all
	root := &schema.Command{Name: "app", Children: []*schema.Command{child}, DefaultChild: child}
	child.Parent = root
	require.NoError(t, schema.Build(root))

	elements, err := lexer.Lex([]string{"widget", "extra"}, convention.POSIX)
	require.NoError(t, err)

	_, err = matcher.Run(root, elements, convention.POSIX)
	assert.Error(t, err, "the default child has nowhere to put either leftover value")
}
