package parser

import (
	"reflect"
	"strings"

	"github.com/cmdspec/opencli/internal/values"
)

// Flag structure might be used by cli/flag libraries for their flag generation.
type Flag struct {
	Name          string        // name as it appears on command line
	Short         string        // optional short name
	EnvNames      []string      // OS Environment-based names
	Usage         string        // help message
	Placeholder   string        // placeholder for the flag's value
	Value         values.Value  // value as set
	RValue        reflect.Value // Type value to use for completions
	DefValue      []string      // default value (as text); for usage message
	Hidden        bool          // Flag hidden from descriptions/completions
	Deprecated    bool          // Not in use anymore
	Required      bool          // If true, the option _must_ be specified on the command line.
	Persistent    bool          // If true, the flag is persistent on its command.
	Choices       []string      // If non empty, only a certain set of values is allowed for an option.
	OptionalValue []string      // The optional value of the option.
	Negatable     *string       // If not nil, a negation flag is generated with the given prefix.
	Separator     *string       // Custom separator for slice values.
	MapSeparator  *string       // Custom separator for map values.
	XORGroup      []string      // Mutually exclusive flag groups.
	ANDGroup      []string      // "AND" flag groups.
	Tag           *Tag          // Field tag
}

// parseFlag parses the struct tag for a given field and returns a Flag object.
func parseFlag(field reflect.StructField, opts *Opts) (*Flag, *Tag, error) {
	tag, skip, err := GetFieldTag(field)
	if err != nil {
		return nil, nil, err
	}

	// Check if the field should be skipped.
	if shouldSkipField(tag, skip, opts) {
		return nil, tag, nil
	}

	// Get the flag name and potential short name.
	name, short := getFlagName(field, tag, opts)
	if name == "" && short == "" {
		return nil, tag, nil
	}

	// Build the initial flag from tags.
	flag := buildFlag(name, short, field, tag, opts)

	// Apply final modifications and expansions.
	finalizeFlag(flag, tag, opts)

	return flag, tag, nil
}

// buildFlag constructs the initial Flag struct from parsed tag information.
func buildFlag(name, short string, fld reflect.StructField, tag *Tag, opts *Opts) *Flag {
	return &Flag{
		Name:          name,
		Short:         short,
		EnvNames:      parseEnvTag(name, fld, opts),
		Usage:         getFlagUsage(tag),
		Placeholder:   getFlagPlaceholder(tag),
		DefValue:      getFlagDefault(tag),
		Hidden:        isSet(tag, "hidden"),
		Deprecated:    isSet(tag, "deprecated"),
		Persistent:    isSet(tag, "persistent"),
		Choices:       getFlagChoices(tag),
		OptionalValue: tag.GetMany("optional-value"),
		Negatable:     getFlagNegatable(fld, tag),
		XORGroup:      getFlagXOR(tag),
		ANDGroup:      getFlagAND(tag),
		Tag:           tag,
	}
}

// finalizeFlag applies variable expansions and final settings to a Flag.
func finalizeFlag(flag *Flag, tag *Tag, opts *Opts) {
	// A description under the configured Opts.DescTag takes precedence.
	if opts.DescTag != "" {
		if usage, ok := tag.Get(opts.DescTag); ok {
			flag.Usage = usage
		}
	}

	// Expand variables in usage, placeholder, default value, and choices.
	flag.Usage = expandVar(flag.Usage, opts.Vars)
	flag.Placeholder = expandVar(flag.Placeholder, opts.Vars)
	flag.DefValue = expandStringSlice(flag.DefValue, opts.Vars)
	flag.Choices = expandStringSlice(flag.Choices, opts.Vars)
	flag.OptionalValue = expandStringSlice(flag.OptionalValue, opts.Vars)

	// Add separators if they are present.
	if sep, ok := tag.Get("sep"); ok {
		flag.Separator = &sep
	}
	if mapsep, ok := tag.Get("mapsep"); ok {
		flag.MapSeparator = &mapsep
	}

	// Determine if the flag is required.
	requiredVal, _ := tag.Get("required")
	flag.Required = isSet(tag, "required") && !IsStringFalsy(requiredVal)
}

// shouldSkipField reports whether a field must not become a flag at all:
// either it carries no recognized tag and the caller didn't ask for
// ParseAll, or it is explicitly opted out with a "-" value on the flag
// tag (legacy and go-flags styles) or on the "kong" tag some structs
// carry for cross-library compatibility.
func shouldSkipField(tag *Tag, noTags bool, opts *Opts) bool {
	if noTags && !opts.ParseAll {
		return true
	}

	for _, key := range []string{opts.FlagTag, "long", "kong"} {
		if val, ok := tag.Get(key); ok && val == "-" {
			return true
		}
	}

	return false
}

// getFlagName resolves a field's long and short names, in order of
// precedence: the go-flags "long"/"short" tags, the legacy
// "<name> <short>,attr,attr" flag tag, then the field name itself. A
// name prefixed with "~" opts out of any configured opts.Prefix.
func getFlagName(fld reflect.StructField, tag *Tag, opts *Opts) (name, short string) {
	name = CamelToFlag(fld.Name, opts.FlagDivider)

	if flagTag, ok := tag.Get(opts.FlagTag); ok {
		base := strings.SplitN(flagTag, ",", 2)[0]
		fields := strings.Fields(base)

		switch len(fields) {
		case 0:
		case 1:
			name = fields[0]
		default:
			name, short = fields[0], fields[1]
		}
	}

	if long, ok := tag.Get("long"); ok && long != "" {
		name = long
	}

	if shortTag, ok := tag.Get("short"); ok && shortTag != "" {
		if shortR, err := getShortName(shortTag); err == nil {
			short = string(shortR)
		}
	}

	ignorePrefix := false
	if strings.HasPrefix(name, "~") {
		name = name[1:]
		ignorePrefix = true
	}

	if opts.Prefix != "" && !ignorePrefix {
		name = opts.Prefix + name
	}

	return name, short
}

// getFlagUsage returns the help text for a flag, preferring the
// description/desc tags and falling back to the Kong-style "help" tag.
func getFlagUsage(tag *Tag) string {
	if usage, ok := tag.Get("description"); ok {
		return usage
	}
	if usage, ok := tag.Get("desc"); ok {
		return usage
	}
	if usage, ok := tag.Get("help"); ok {
		return usage
	}

	return ""
}

// getFlagPlaceholder returns the value placeholder shown in usage text.
func getFlagPlaceholder(tag *Tag) string {
	placeholder, _ := tag.Get("placeholder")

	return placeholder
}

// getFlagDefault collects the "default" tag values, each of which may
// itself hold several space-separated entries (sflags convention).
func getFlagDefault(tag *Tag) []string {
	var defaults []string

	for _, entry := range tag.GetMany("default") {
		defaults = append(defaults, strings.Split(entry, " ")...)
	}

	return defaults
}

// getFlagChoices collects the "choice" tag values the same way
// getFlagDefault collects defaults, followed by the comma-separated
// entries of a Kong-style "enum" tag.
func getFlagChoices(tag *Tag) []string {
	var choices []string

	for _, entry := range tag.GetMany("choice") {
		choices = append(choices, strings.Split(entry, " ")...)
	}

	if enum, ok := tag.Get("enum"); ok && enum != "" {
		choices = append(choices, strings.Split(enum, ",")...)
	}

	return choices
}

// getFlagNegatable reports whether a boolean flag should also generate
// a negation flag, and with what prefix ("no-" unless overridden).
func getFlagNegatable(fld reflect.StructField, tag *Tag) *string {
	prefix, ok := tag.Get("negatable")
	if !ok {
		return nil
	}

	if prefix == "" {
		prefix = "no-"
	}

	return &prefix
}

// getFlagXOR returns the mutually-exclusive groups a flag belongs to.
func getFlagXOR(tag *Tag) []string {
	return splitCommaTag(tag, "xor")
}

// getFlagAND returns the groups a flag must be set alongside.
func getFlagAND(tag *Tag) []string {
	return splitCommaTag(tag, "and")
}

func splitCommaTag(tag *Tag, key string) []string {
	val, ok := tag.Get(key)
	if !ok || val == "" {
		return nil
	}

	return strings.Split(val, ",")
}

