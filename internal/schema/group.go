package schema

// OptionGroup is a reusable, named cluster of arguments contributed into
// a parent Command by composition (spec.md §3 "OptionGroup"). Groups
// compose transitively: an argument's effective visibility is the
// stricter of its own and every enclosing group's visibility.
type OptionGroup struct {
	Title      string
	Visibility Visibility
	Arguments  []*Argument
	Children   []*OptionGroup

	// Validate, when non-nil, is invoked depth-first (leaves first) over
	// the decoded group value during the validation pipeline (spec.md
	// §4.5). Populated by internal/engine from the bound Go value's
	// Validate() method, if it implements one.
	Validate func() error
}

// effectiveVisibility returns the stricter of own and the argument's own
// visibility.
func effectiveVisibility(own, arg Visibility) Visibility {
	if own > arg {
		return own
	}

	return arg
}

// Walk calls fn for g and every nested group, propagating the effective
// visibility computed from ancestor groups.
func (g *OptionGroup) Walk(parentVisibility Visibility, fn func(*OptionGroup, Visibility)) {
	eff := effectiveVisibility(parentVisibility, g.Visibility)
	fn(g, eff)

	for _, c := range g.Children {
		c.Walk(eff, fn)
	}
}

// AllArguments returns every argument contributed by g and its children,
// each paired with its effective visibility.
func (g *OptionGroup) AllArguments() []EffectiveArgument {
	var out []EffectiveArgument

	g.Walk(VisibleDefault, func(grp *OptionGroup, vis Visibility) {
		for _, a := range grp.Arguments {
			out = append(out, EffectiveArgument{
				Argument:   a,
				Group:      grp,
				Visibility: effectiveVisibility(vis, a.Help.Visibility),
			})
		}
	})

	return out
}

// EffectiveArgument pairs an Argument with the group it came from and its
// effective (stricter-wins) visibility.
type EffectiveArgument struct {
	Argument   *Argument
	Group      *OptionGroup
	Visibility Visibility
}
