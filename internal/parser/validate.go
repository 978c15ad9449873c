package parser

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	flagerrors "github.com/cmdspec/opencli/internal/errors"
	"github.com/cmdspec/opencli/internal/interfaces"
)

// buildFieldValidator assembles the per-value validation closure shared by
// flags and positionals: choice membership first, then the caller-supplied
// ValidateFunc (usually backed by internal/validation's `validate:"..."`
// tag support), then the jessevdk/go-flags-retroported ValueValidator hook
// on the field's own value, if it implements one.
func buildFieldValidator(value reflect.Value, field reflect.StructField, choices []string, validate ValidateFunc) func(val string) error {
	if validate == nil && len(choices) == 0 {
		return nil
	}

	return func(argValue string) error {
		for _, val := range strings.Split(argValue, ",") {
			if len(choices) > 0 {
				if err := validateChoice(val, choices); err != nil {
					return err
				}
			}

			if validate != nil {
				if err := validate(val, field, value.Interface()); err != nil {
					return err
				}
			}

			if value.CanInterface() {
				if vv, ok := value.Interface().(interfaces.ValueValidator); ok {
					if err := vv.IsValidValue(val); err != nil {
						return err
					}
				}
			}
		}

		return nil
	}
}

func validateChoice(val string, choices []string) error {
	if slices.Contains(choices, val) {
		return nil
	}

	return fmt.Errorf("%w: %q", flagerrors.ErrInvalidChoice, val)
}
