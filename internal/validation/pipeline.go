package validation

import (
	"errors"

	"github.com/cmdspec/opencli/internal/perrors"
)

// Hook is the user-supplied validation function a decoded option group
// or command value may implement (spec.md §4.5 "validate hook").
type Hook interface {
	Validate() error
}

// Node is one point in the depth-first validation walk: a decoded value
// (option group or command) plus its already-walked children.
type Node struct {
	Value    any
	Children []*Node
}

// Run invokes every node's Validate() hook, leaves first (spec.md §4.5
// "invoked depth-first, leaves first"), stopping at the first error.
// Mutations the hook makes to its receiver are preserved automatically,
// since Value is expected to be a pointer.
func Run(root *Node) error {
	for _, child := range root.Children {
		if err := Run(child); err != nil {
			return err
		}
	}

	hook, ok := root.Value.(Hook)
	if !ok || hook == nil {
		return nil
	}

	if err := hook.Validate(); err != nil {
		return classify(err)
	}

	return nil
}

// classify maps a raw error returned by a Validate hook into the
// taxonomy spec.md §4.5 lists: an *perrors.Exit passes through
// unmodified (cleanExit.message / exitCode.*), anything already a
// *perrors.DomainError passes through message-only, everything else is
// treated as a validation error (paired with usage when rendered).
func classify(err error) error {
	var exit *perrors.Exit
	if errors.As(err, &exit) {
		return exit
	}

	var domain *perrors.DomainError
	if errors.As(err, &domain) {
		return domain
	}

	var valErr *perrors.ValidationError
	if errors.As(err, &valErr) {
		return valErr
	}

	return perrors.NewValidation(err.Error())
}
