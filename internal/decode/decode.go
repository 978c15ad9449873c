// Package decode implements spec.md §4.4: converting a matcher.Result
// into bound typed values by applying transforms, defaults, and required-
// ness rules, in schema declaration order, then lets internal/validation
// run the leaves-first hook pass over the result.
package decode

import (
	"os"
	"strconv"

	"github.com/cmdspec/opencli/internal/matcher"
	"github.com/cmdspec/opencli/internal/perrors"
	"github.com/cmdspec/opencli/internal/schema"
)

// Slot is the decoded state of one argument after Run.
type Slot struct {
	Argument *schema.Argument
	Values   []any // decoded (post-transform) values, in bind order
	Bound    bool
	FromEnv  bool
}

// Env is a lookup function for environment-sourced arguments; satisfied
// by os.LookupEnv in production and a map in tests.
type Env func(key string) (string, bool)

// OSEnv reads the real process environment.
func OSEnv(key string) (string, bool) { return os.LookupEnv(key) }

// Run decodes result against cmd's schema using env for environment-
// sourced arguments, returning one Slot per argument declared on cmd
// (including its groups), or the first decode/match error encountered.
func Run(cmd *schema.Command, result *matcher.Result, env Env) (map[*schema.Argument]*Slot, error) {
	slots := map[*schema.Argument]*Slot{}

	for _, ea := range cmd.AllArguments() {
		a := ea.Argument

		slot, err := decodeSlot(a, result, env)
		if err != nil {
			return slots, err
		}

		slots[a] = slot
	}

	return slots, nil
}

func decodeSlot(a *schema.Argument, result *matcher.Result, env Env) (*Slot, error) {
	bindings := result.Bindings[a]

	if len(bindings) == 0 && a.Env != "" && env != nil {
		if raw, ok := env(a.Env); ok {
			bindings = []matcher.Binding{{Argument: a, Raw: raw, FromEnv: true}}
		}
	}

	if len(bindings) == 0 {
		return decodeUnbound(a)
	}

	slot := &Slot{Argument: a, Bound: true}

	for _, b := range bindings {
		val, err := decodeOne(a, b.Raw)
		if err != nil {
			return nil, err
		}

		slot.Values = append(slot.Values, val)
		slot.FromEnv = slot.FromEnv || b.FromEnv
	}

	return slot, nil
}

func decodeUnbound(a *schema.Argument) (*Slot, error) {
	if a.Default.HasLiteral {
		val, err := decodeOne(a, a.Default.Literal)
		if err != nil {
			return nil, err
		}

		return &Slot{Argument: a, Values: []any{val}}, nil
	}

	if !a.IsRequired() {
		return &Slot{Argument: a}, nil
	}

	return nil, perrors.NewMatch("", "", "missing required argument "+placeholderOrName(a))
}

func decodeOne(a *schema.Argument, raw string) (any, error) {
	if a.Transform != nil {
		val, err := a.Transform(raw)
		if err != nil {
			return nil, perrors.NewDecode(placeholderOrName(a), a.Help.Placeholder, raw, err.Error())
		}

		return val, nil
	}

	return decodeNative(a, raw)
}

// decodeNative handles the common scalar kinds directly so callers that
// never register a Transform (most flags, whose pflag.Value already did
// the real conversion via internal/engine) still get a typed echo of the
// raw string for internal/describe and tests.
func decodeNative(a *schema.Argument, raw string) (any, error) {
	switch a.Help.Placeholder {
	case "int":
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, perrors.NewDecode(placeholderOrName(a), a.Help.Placeholder, raw, "not an integer")
		}

		return n, nil
	case "float":
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, perrors.NewDecode(placeholderOrName(a), a.Help.Placeholder, raw, "not a float")
		}

		return f, nil
	case "bool":
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, perrors.NewDecode(placeholderOrName(a), a.Help.Placeholder, raw, "not a boolean")
		}

		return b, nil
	default:
		return raw, nil
	}
}

func placeholderOrName(a *schema.Argument) string {
	if a.IsPositional() {
		if a.Help.Placeholder != "" {
			return a.Help.Placeholder
		}

		return "argument"
	}

	return a.PrimaryName().Render()
}
