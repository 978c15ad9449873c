package engine

import "github.com/cmdspec/opencli/internal/values"

// binder adapts the teacher's values.Value (pflag.Value-compatible) to
// schema.Binder, so the matcher/decoder can write decoded values back
// into the user's struct without knowing about pflag at all.
type binder struct {
	target values.Value
}

func newBinder(v values.Value) *binder {
	if v == nil {
		return nil
	}

	return &binder{target: v}
}

// Bind writes one matched value token into the target, exactly the way
// a pflag.FlagSet would call Value.Set on a recognized occurrence.
func (b *binder) Bind(raw string) error {
	return b.target.Set(raw)
}

// BindFlag writes the argument's defaultAsFlag value (spec.md §3): the
// same Set call, since values.Value makes no distinction between an
// argument's value coming from the command line or from its own default.
func (b *binder) BindFlag(raw string) error {
	return b.target.Set(raw)
}

func (b *binder) String() string {
	return b.target.String()
}
