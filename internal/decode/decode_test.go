package decode_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmdspec/opencli/internal/convention"
	"github.com/cmdspec/opencli/internal/decode"
	"github.com/cmdspec/opencli/internal/matcher"
	"github.com/cmdspec/opencli/internal/schema"
)

func TestRunAppliesLiteralDefaultForUnboundSlot(t *testing.T) {
	port := &schema.Argument{
		Kind:    schema.KindOption,
		Names:   []convention.Name{convention.NewLong("port", "port", convention.POSIX)},
		Arity:   schema.Unary,
		Default: schema.Default{Literal: "8080", HasLiteral: true},
		Help:    schema.Help{Placeholder: "int"},
	}
	cmd := &schema.Command{Name: "serve", Arguments: []*schema.Argument{port}}

	result := &matcher.Result{Command: cmd, Bindings: map[*schema.Argument][]matcher.Binding{}}

	slots, err := decode.Run(cmd, result, nil)
	require.NoError(t, err)

	slot := slots[port]
	require.NotNil(t, slot)
	assert.False(t, slot.Bound)
	require.Len(t, slot.Values, 1)
	assert.Equal(t, int64(8080), slot.Values[0])
}

func TestRunMissingRequiredErrors(t *testing.T) {
	token := &schema.Argument{
		Kind:     schema.KindOption,
		Names:    []convention.Name{convention.NewLong("token", "token", convention.POSIX)},
		Arity:    schema.Unary,
		Required: true,
	}
	cmd := &schema.Command{Name: "auth", Arguments: []*schema.Argument{token}}

	result := &matcher.Result{Command: cmd, Bindings: map[*schema.Argument][]matcher.Binding{}}

	_, err := decode.Run(cmd, result, nil)
	assert.Error(t, err)
}

func TestRunEnvironmentFallback(t *testing.T) {
	token := &schema.Argument{
		Kind:  schema.KindOption,
		Names: []convention.Name{convention.NewLong("token", "token", convention.POSIX)},
		Arity: schema.Unary,
		Env:   "APP_TOKEN",
	}
	cmd := &schema.Command{Name: "auth", Arguments: []*schema.Argument{token}}

	result := &matcher.Result{Command: cmd, Bindings: map[*schema.Argument][]matcher.Binding{}}

	env := func(key string) (string, bool) {
		if key == "APP_TOKEN" {
			return "secret", true
		}

		return "", false
	}

	slots, err := decode.Run(cmd, result, env)
	require.NoError(t, err)

	slot := slots[token]
	require.NotNil(t, slot)
	assert.True(t, slot.Bound)
	assert.True(t, slot.FromEnv)
	assert.Equal(t, "secret", slot.Values[0])
}

func TestRunBoundValueOverridesEnv(t *testing.T) {
	token := &schema.Argument{
		Kind:  schema.KindOption,
		Names: []convention.Name{convention.NewLong("token", "token", convention.POSIX)},
		Arity: schema.Unary,
		Env:   "APP_TOKEN",
	}
	cmd := &schema.Command{Name: "auth", Arguments: []*schema.Argument{token}}

	result := &matcher.Result{
		Command: cmd,
		Bindings: map[*schema.Argument][]matcher.Binding{
			token: {{Argument: token, Raw: "from-cli"}},
		},
	}

	env := func(string) (string, bool) { return "from-env", true }

	slots, err := decode.Run(cmd, result, env)
	require.NoError(t, err)

	slot := slots[token]
	require.NotNil(t, slot)
	assert.False(t, slot.FromEnv)
	assert.Equal(t, "from-cli", slot.Values[0])
}
