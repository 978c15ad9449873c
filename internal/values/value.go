package values

// Value is the common abstraction every bindable field is adapted to,
// compatible with pflag.Value so generated flags can be registered
// directly on a *pflag.FlagSet.
type Value interface {
	String() string
	Set(string) error
	Type() string
}

// Getter lets callers read back the underlying typed value instead of
// its string form, mirroring pflag.Getter.
type Getter interface {
	Get() any
}

// RepeatableFlag marks values that accumulate across repeated
// occurrences (slices, maps, counters) rather than being overwritten.
type RepeatableFlag interface {
	IsCumulative() bool
}

// BoolFlag marks values that can be set without an explicit argument
// on the command line (`-v` rather than `-v=true`), mirroring pflag's
// own boolFlag interface.
type BoolFlag interface {
	IsBoolFlag() bool
}
