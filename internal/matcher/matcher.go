// Package matcher implements spec.md §4.2–§4.3: consuming classified
// lexer elements in order, binding them to schema slots per each
// argument's strategy, resolving subcommand transitions, and producing a
// slot-indexed value map (a Result) ready for internal/decode.
package matcher

import (
	"strconv"
	"strings"

	"github.com/cmdspec/opencli/internal/convention"
	"github.com/cmdspec/opencli/internal/lexer"
	"github.com/cmdspec/opencli/internal/perrors"
	"github.com/cmdspec/opencli/internal/schema"
)

// Binding is one value bound to an argument slot, in the order it was
// matched.
type Binding struct {
	Argument *schema.Argument
	Raw      string
	FromEnv  bool
}

// Result is the matcher's slot-indexed output: for every Argument seen
// at least once, its ordered Bindings; plus the command the matcher
// finished resolving against (needed to render usage on failure), and
// any positionals left unclaimed (fed to a default-subcommand replay).
type Result struct {
	Command    *schema.Command
	Bindings   map[*schema.Argument][]Binding
	Unclaimed  []lexer.Element
	HelpFor    *schema.Command
	HelpHidden bool
}

func newResult(cmd *schema.Command) *Result {
	return &Result{Command: cmd, Bindings: map[*schema.Argument][]Binding{}}
}

func (r *Result) bind(a *schema.Argument, raw string) {
	r.Bindings[a] = append(r.Bindings[a], Binding{Argument: a, Raw: raw})
}

// state is the per-invocation matcher cursor (spec.md §4.3 "State").
type state struct {
	elements []lexer.Element
	pos      int

	cmd  *schema.Command
	conv convention.Convention

	result *Result

	postTerminator     bool
	postTerminatorBuf  []lexer.Element
	passthroughStarted bool
	positionalCursor   int // index into cmd.Positionals() still expecting input
	positionals        []*schema.Argument

	subcommandSelected bool
}

// Run matches elements against the schema rooted at root, starting in
// convention conv, and returns the bound Result or the first blocking
// match/lex error (spec.md §4.3 "Failure modes").
func Run(root *schema.Command, elements []lexer.Element, conv convention.Convention) (*Result, error) {
	s := &state{
		elements:    elements,
		cmd:         root,
		conv:        conv,
		result:      newResult(root),
		positionals: root.Positionals(),
	}

	if err := s.runLoop(); err != nil {
		return s.result, err
	}

	if err := s.maybeDefaultSubcommand(); err != nil {
		return s.result, err
	}

	if err := s.verify(); err != nil {
		return s.result, err
	}

	return s.result, nil
}

func (s *state) runLoop() error {
	for s.pos < len(s.elements) {
		el := s.elements[s.pos]
		s.pos++

		if err := s.step(el); err != nil {
			return err
		}

		if s.result.HelpFor != nil {
			return nil
		}
	}

	return nil
}

func (s *state) step(el lexer.Element) error {
	if s.postTerminator {
		s.postTerminatorBuf = append(s.postTerminatorBuf, el)

		return nil
	}

	if el.Kind == lexer.KindTerminator {
		s.postTerminator = true

		return nil
	}

	if !s.passthroughStarted && lexer.IsHelpRequest(el, s.cmd.HelpFlagNames()) {
		s.result.HelpFor = s.cmd

		return nil
	}

	switch el.Kind {
	case lexer.KindLongOption, lexer.KindShortOption, lexer.KindLongWithSingleDash:
		return s.matchOption(el)
	case lexer.KindShortOptionBundle:
		return s.matchBundle(el)
	case lexer.KindValue:
		return s.matchValue(el, el.Raw)
	}

	return nil
}

// nameKind maps a lexer element kind to the convention.Kind used for
// (kind, spelling) identity lookups.
func nameKind(k lexer.Kind) convention.Kind {
	switch k {
	case lexer.KindShortOption, lexer.KindShortOptionBundle:
		return convention.Short
	case lexer.KindLongWithSingleDash:
		return convention.LongWithSingleDash
	default:
		return convention.Long
	}
}

// trySubcommand attempts a root -> child transition on el's raw value,
// subject to spec.md §4.3d's guards. Returns true if a transition
// happened.
func (s *state) trySubcommand(raw string) bool {
	if s.subcommandSelected || s.positionalHasStarted() || s.passthroughStarted {
		return false
	}

	child := s.cmd.FindChild(raw)
	if child == nil {
		return false
	}

	s.cmd = child
	s.positionals = child.Positionals()
	s.positionalCursor = 0
	s.subcommandSelected = true
	s.result.Command = child

	return true
}

func (s *state) positionalHasStarted() bool {
	return s.positionalCursor > 0
}

func (s *state) matchOption(el lexer.Element) error {
	id := convention.ID{Kind: nameKind(el.Kind), Spelling: el.Name}

	arg := s.cmd.FindName(id)
	if arg == nil {
		return s.unrecognizedOption(el)
	}

	return s.consume(arg, id, el)
}

func (s *state) unrecognizedOption(el lexer.Element) error {
	if sink := s.passthroughSink(); sink != nil {
		s.startPassthrough(sink)
		s.result.bind(sink, el.Raw)

		return nil
	}

	return perrors.NewMatch(s.cmd.Path(), el.Raw, "unknown option")
}

// passthroughSink returns the current command's captureForPassthrough or
// allUnrecognized positional, if any.
func (s *state) passthroughSink() *schema.Argument {
	for _, p := range s.positionals {
		if p.Strategy == schema.CaptureForPassthrough || p.Strategy == schema.AllUnrecognized {
			return p
		}
	}

	return nil
}

func (s *state) startPassthrough(sink *schema.Argument) {
	if sink.Strategy == schema.CaptureForPassthrough {
		s.passthroughStarted = true
	}
}

// matchBundle decomposes a shortOptionBundle element greedily from the
// left (spec.md §4.3f).
func (s *state) matchBundle(el lexer.Element) error {
	first := convention.ID{Kind: convention.Short, Spelling: el.Name}
	arg := s.cmd.FindName(first)

	if arg == nil {
		if reclassified, ok := s.asNegativeNumber(el); ok {
			return s.matchValue(el, reclassified)
		}

		return s.unrecognizedOption(el)
	}

	if arg.Kind != schema.KindFlag {
		// First char resolves to a value-taking option: remainder is its
		// attached value (requires allowingJoined).
		if !arg.AllowingJoined {
			if reclassified, ok := s.asNegativeNumber(el); ok {
				return s.matchValue(el, reclassified)
			}

			return perrors.NewMatch(s.cmd.Path(), el.Raw, "option does not accept a joined value")
		}

		return s.bindStrategy(arg, el.Raw, el.Trailing, true)
	}

	// Greedily peel leading zero-arity flags.
	s.result.bind(arg, flagBindValue(arg, first))

	rest := el.Trailing
	for len(rest) > 0 {
		ch := rest[:1]
		id := convention.ID{Kind: convention.Short, Spelling: ch}
		next := s.cmd.FindName(id)

		if next == nil {
			if num, ok := s.asNegativeNumber(el); ok {
				return s.matchValue(el, num)
			}

			return perrors.NewMatch(s.cmd.Path(), el.Raw, "unknown option in bundle")
		}

		if next.Kind != schema.KindFlag {
			if !next.AllowingJoined {
				return perrors.NewMatch(s.cmd.Path(), el.Raw, "option does not accept a joined value")
			}

			return s.bindStrategy(next, el.Raw, rest[1:], true)
		}

		s.result.bind(next, flagBindValue(next, id))
		rest = rest[1:]
	}

	return nil
}

// asNegativeNumber reclassifies el as a value if it parses as a negative
// number AND at least one argument in scope accepts signed numeric
// positionals (spec.md §4.1 / §4.3 "negative number policy").
func (s *state) asNegativeNumber(el lexer.Element) (string, bool) {
	candidate := "-" + el.Name + el.Trailing
	if _, err := strconv.ParseFloat(candidate, 64); err != nil {
		return "", false
	}

	if s.hasNumericPositionalHungry() {
		return candidate, true
	}

	return "", false
}

func (s *state) hasNumericPositionalHungry() bool {
	return s.positionalCursor < len(s.positionals)
}

// consume applies arg's strategy to claim following elements, per the
// table in spec.md §4.2.
func (s *state) consume(arg *schema.Argument, id convention.ID, el lexer.Element) error {
	if arg.Kind == schema.KindFlag {
		if el.HasAttached {
			return perrors.NewMatch(s.cmd.Path(), el.Raw, "flag does not take a value")
		}

		s.result.bind(arg, flagBindValue(arg, id))

		return nil
	}

	if el.HasAttached {
		if arg.Strategy == schema.Remaining {
			return perrors.NewMatch(s.cmd.Path(), el.Raw, "this option's strategy rejects an attached '=' value")
		}

		return s.bindStrategy(arg, el.Raw, el.AttachedValue, true)
	}

	return s.bindStrategy(arg, el.Raw, "", false)
}

// bindStrategy performs the actual claim of following elements (or the
// already-attached value) according to arg.Strategy.
func (s *state) bindStrategy(arg *schema.Argument, token, attached string, hasAttached bool) error {
	if hasAttached {
		if arg.Default.HasAsFlag && attached == "" {
			s.result.bind(arg, arg.Default.AsFlag)

			return nil
		}

		s.result.bind(arg, attached)

		return nil
	}

	switch arg.Strategy {
	case schema.Next:
		return s.claimNext(arg, token, false)
	case schema.Unconditional:
		return s.claimNext(arg, token, true)
	case schema.ScanningForValue:
		return s.claimScanning(arg, token)
	case schema.UpToNextOption:
		return s.claimUpToNextOption(arg)
	case schema.SingleValue:
		return s.claimNext(arg, token, false)
	case schema.UnconditionalSingleValue:
		return s.claimNext(arg, token, true)
	case schema.Remaining:
		return s.claimRemaining(arg)
	default:
		// Flags and positional-only strategies never reach bindStrategy
		// for an option element.
		return s.claimNext(arg, token, false)
	}
}

func (s *state) claimNext(arg *schema.Argument, token string, unconditional bool) error {
	if arg.Default.HasAsFlag && !s.hasFollowing() {
		s.result.bind(arg, arg.Default.AsFlag)

		return nil
	}

	if !s.hasFollowing() {
		return perrors.NewMatch(s.cmd.Path(), token, "option requires a value")
	}

	next := s.peek()

	if !unconditional && s.looksLikeOption(next) && arg.Default.HasAsFlag {
		s.result.bind(arg, arg.Default.AsFlag)

		return nil
	}

	if !unconditional && s.looksLikeOption(next) {
		return perrors.NewMatch(s.cmd.Path(), token, "option requires a value")
	}

	s.advance()
	s.result.bind(arg, next.Raw)

	return nil
}

func (s *state) claimScanning(arg *schema.Argument, token string) error {
	for s.hasFollowing() {
		next := s.peek()
		if s.looksLikeOption(next) {
			break
		}

		s.advance()
		s.result.bind(arg, next.Raw)

		return nil
	}

	if arg.Default.HasAsFlag {
		s.result.bind(arg, arg.Default.AsFlag)

		return nil
	}

	return perrors.NewMatch(s.cmd.Path(), token, "option requires a value")
}

func (s *state) claimUpToNextOption(arg *schema.Argument) error {
	for s.hasFollowing() {
		next := s.peek()
		if s.looksLikeOption(next) {
			break
		}

		s.advance()
		s.result.bind(arg, next.Raw)
	}

	return nil
}

func (s *state) claimRemaining(arg *schema.Argument) error {
	for s.hasFollowing() {
		next := s.peek()
		s.advance()
		s.result.bind(arg, next.Raw)
	}

	return nil
}

func (s *state) hasFollowing() bool { return s.pos < len(s.elements) }

func (s *state) peek() lexer.Element { return s.elements[s.pos] }

func (s *state) advance() { s.pos++ }

// looksLikeOption reports whether el blocks a Next/ScanningForValue claim
// from capturing it as a value. A terminator counts as blocking too
// (spec.md §8 "an intervening `--` blocks value capture"): it is never
// itself consumable as an option's value, so a claim facing one behaves
// exactly as it would facing end-of-input (defaultAsFlag, if any, or a
// "requires a value" error).
func (s *state) looksLikeOption(el lexer.Element) bool {
	switch el.Kind {
	case lexer.KindLongOption, lexer.KindShortOption, lexer.KindShortOptionBundle, lexer.KindLongWithSingleDash, lexer.KindTerminator:
		return true
	default:
		return false
	}
}

// matchValue handles a plain value element: subcommand transition,
// positional claim, or passthrough/unrecognized sink (spec.md §4.3d,g).
func (s *state) matchValue(el lexer.Element, raw string) error {
	if s.trySubcommand(raw) {
		return nil
	}

	if s.positionalCursor < len(s.positionals) {
		p := s.positionals[s.positionalCursor]
		s.result.bind(p, raw)

		if p.Strategy == schema.CaptureForPassthrough {
			s.passthroughStarted = true
		}

		if p.Arity != schema.Variadic {
			s.positionalCursor++
		}

		return nil
	}

	if sink := s.passthroughSink(); sink != nil {
		s.startPassthrough(sink)
		s.result.bind(sink, raw)

		return nil
	}

	// No slot on this command can take raw. If a default child hasn't
	// been tried yet, defer the decision: buffer it for the step-3 replay
	// (spec.md §4.3 step 3), which will itself fail with this same
	// "unexpected argument" error if the default child's own arguments
	// can't absorb it either — that replay failure is the satisfiability
	// check, not a separate pre-check here.
	if !s.subcommandSelected && s.cmd.DefaultChild != nil {
		s.result.Unclaimed = append(s.result.Unclaimed, el)

		return nil
	}

	return perrors.NewMatch(s.cmd.Path(), el.Raw, "unexpected argument")
}

// maybeDefaultSubcommand implements spec.md §4.3 step 3.
func (s *state) maybeDefaultSubcommand() error {
	if s.subcommandSelected || s.cmd.DefaultChild == nil {
		return nil
	}

	s.cmd = s.cmd.DefaultChild
	s.positionals = s.cmd.Positionals()
	s.positionalCursor = 0
	s.subcommandSelected = true
	s.result.Command = s.cmd

	for _, el := range s.result.Unclaimed {
		if err := s.matchValue(el, el.Raw); err != nil {
			return err
		}
	}

	s.result.Unclaimed = nil

	return nil
}

// verify checks required-argument and variadic-arity rules, and applies
// exclusivity policies (spec.md §4.3 step 4).
func (s *state) verify() error {
	if err := s.drainPostTerminator(); err != nil {
		return err
	}

	if err := s.applyExclusivity(); err != nil {
		return err
	}

	for _, ea := range s.cmd.AllArguments() {
		a := ea.Argument
		if !a.IsRequired() {
			continue
		}

		if len(s.result.Bindings[a]) > 0 {
			continue
		}

		if a.Env != "" {
			continue // environment sourcing resolved at decode time
		}

		return perrors.NewMatch(s.cmd.Path(), "", "missing required argument "+displayName(a))
	}

	return nil
}

func (s *state) drainPostTerminator() error {
	if len(s.postTerminatorBuf) == 0 {
		return nil
	}

	for _, p := range s.positionals {
		if p.Strategy == schema.PostTerminator {
			for _, el := range s.postTerminatorBuf {
				s.result.bind(p, el.Raw)
			}

			s.postTerminatorBuf = nil

			return nil
		}
	}

	// No postTerminator positional: these become trailing positional
	// values, subject to the normal positional cursor.
	for _, el := range s.postTerminatorBuf {
		if err := s.matchValue(el, el.Raw); err != nil {
			return err
		}
	}

	s.postTerminatorBuf = nil

	return nil
}

func (s *state) applyExclusivity() error {
	for a, bindings := range s.result.Bindings {
		if len(bindings) <= 1 || a.Arity == schema.Variadic {
			continue
		}

		switch a.Exclusivity {
		case schema.Exclusive:
			return perrors.NewMatch(s.cmd.Path(), bindings[len(bindings)-1].Raw, "option may not be repeated: "+displayName(a))
		case schema.ChooseFirst:
			s.result.Bindings[a] = bindings[:1]
		default: // ChooseLast
			s.result.Bindings[a] = bindings[len(bindings)-1:]
		}
	}

	return nil
}

// flagBindValue is what a zero-arity (flag) match records: the matched
// case for an enumerable flag (spec.md §3 "case-enumerated selector",
// §4.3 "binds to the matched case"), or "false" when id resolved through
// a synthesized negative name (spec.md §8 inversion symmetry), or "true"
// otherwise.
func flagBindValue(arg *schema.Argument, id convention.ID) string {
	if arg.EnumCase != "" {
		return arg.EnumCase
	}

	for _, n := range arg.NegativeNames {
		if n.Identity() == id {
			return "false"
		}
	}

	return "true"
}

func displayName(a *schema.Argument) string {
	if a.IsPositional() {
		return a.Help.Placeholder
	}

	return a.PrimaryName().Render()
}

// Strip is a small helper used by callers that need to test whether a
// raw token would lex as an option under conv, without constructing a
// full Lexer run (e.g. completion-hint callbacks).
func Strip(conv convention.Convention, token string) string {
	return strings.TrimPrefix(strings.TrimPrefix(token, conv.LongPrefix()), conv.ShortPrefix())
}
