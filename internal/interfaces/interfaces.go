package interfaces

import (
	"github.com/carapace-sh/carapace"
)

// Completer is the interface for types that can provide their own shell
// completion suggestions.
type Completer interface {
	Complete(ctx carapace.Context) carapace.Action
}

// Unmarshaler is the interface implemented by types that can unmarshal
// a single command-line argument string into themselves, retro-ported
// from jessevdk/go-flags so custom field types keep working without
// depending on that package directly.
type Unmarshaler interface {
	UnmarshalFlag(value string) error
}

// Marshaler is the symmetrical counterpart of Unmarshaler, used to
// render a field's current value back to a string for defaults and help.
type Marshaler interface {
	MarshalFlag() (string, error)
}

// ValueValidator is implemented by types that validate their own raw
// command-line argument, retro-ported from jessevdk/go-flags.
type ValueValidator interface {
	IsValidValue(value string) error
}
