package values

import (
	"reflect"
	"strconv"
	"strings"
)

// This file hand-authors the subset of values/genvalues/main.go's generated
// output this module actually exercises. The real generator walks a
// values.json describing every stdlib scalar/slice/map combination and
// writes values_generated.go via `go generate`; without a values.json (and
// without running the toolchain) that step never produced output here, so
// the handful of concrete wrappers below are written by hand instead, with
// the less common shapes routed through the existing reflective fallback.

const defaultSliceSeparator = ","

// ParseGenerated resolves value (a pointer to a struct field) to a Value
// using the known scalar/slice kinds, the way the generated dispatcher
// would. It returns nil when the type isn't one of these, letting the
// caller fall back to ParseGeneratedPtrs or the reflective parser.
func ParseGenerated(value any, sep *string) Value {
	switch v := value.(type) {
	case *bool:
		return newBoolValue(v)
	case *string:
		return newStringValue(v)
	case *[]string:
		sv := newStringSliceValue(v)
		if sep != nil {
			sv.sep = *sep
		}

		return sv
	case *[]bool:
		return newBoolSliceValue(v)
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return nil
	}

	elem := rv.Elem()

	if isNumericKind(elem.Kind()) {
		return newReflectiveValue(elem)
	}

	if elem.Kind() == reflect.Slice && isNumericKind(elem.Type().Elem().Kind()) {
		return newReflectiveValue(elem)
	}

	return nil
}

// ParseGeneratedPtrs resolves value to a Value for types the generator
// would have modeled as pointer-indirection wrappers (a pointer field
// whose element type differs from its interfered flag type). None of
// this module's components bind such a field directly, so this is
// reserved for parity with the generator's dispatch shape.
func ParseGeneratedPtrs(value any) Value {
	return nil
}

// ParseGeneratedMap resolves value (a pointer to a map field) to a Value.
// Every map shape this module binds (string/int/bool keys and values) is
// already handled generically by the reflective parser's "key:value"
// Set, so this delegates there rather than hand-writing one wrapper
// type per key/value combination.
func ParseGeneratedMap(value any, sep *string) Value {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Ptr || rv.IsNil() || rv.Elem().Kind() != reflect.Map {
		return nil
	}

	return newReflectiveValue(rv.Elem())
}

func isNumericKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

// -- bool

type boolValue struct {
	value *bool
}

func newBoolValue(p *bool) *boolValue { return &boolValue{value: p} }

func (v *boolValue) Set(s string) error {
	if s == "" {
		*v.value = true

		return nil
	}

	b, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}

	*v.value = b

	return nil
}

func (v *boolValue) String() string {
	if v.value == nil {
		return "false"
	}

	return strconv.FormatBool(*v.value)
}

func (v *boolValue) Type() string     { return "bool" }
func (v *boolValue) Get() any         { return *v.value }
func (v *boolValue) IsBoolFlag() bool { return true }

// -- string

type stringValue struct {
	value *string
}

func newStringValue(p *string) *stringValue { return &stringValue{value: p} }

func (v *stringValue) Set(s string) error {
	*v.value = s

	return nil
}

func (v *stringValue) String() string {
	if v.value == nil {
		return ""
	}

	return *v.value
}

func (v *stringValue) Type() string { return "string" }
func (v *stringValue) Get() any     { return *v.value }

// -- string slice

type stringSliceValue struct {
	value *[]string
	sep   string
}

func newStringSliceValue(p *[]string) *stringSliceValue {
	return &stringSliceValue{value: p, sep: defaultSliceSeparator}
}

func (v *stringSliceValue) Set(s string) error {
	*v.value = append(*v.value, strings.Split(s, v.sep)...)

	return nil
}

func (v *stringSliceValue) String() string {
	if v.value == nil {
		return ""
	}

	return strings.Join(*v.value, v.sep)
}

func (v *stringSliceValue) Type() string       { return "stringSlice" }
func (v *stringSliceValue) Get() any           { return *v.value }
func (v *stringSliceValue) IsCumulative() bool { return true }

// -- bool slice

type boolSliceValue struct {
	value *[]bool
}

func newBoolSliceValue(p *[]bool) *boolSliceValue { return &boolSliceValue{value: p} }

func (v *boolSliceValue) Set(s string) error {
	for _, part := range strings.Split(s, defaultSliceSeparator) {
		b, err := strconv.ParseBool(part)
		if err != nil {
			return err
		}

		*v.value = append(*v.value, b)
	}

	return nil
}

func (v *boolSliceValue) String() string {
	if v.value == nil {
		return ""
	}

	parts := make([]string, len(*v.value))
	for i, b := range *v.value {
		parts[i] = strconv.FormatBool(b)
	}

	return strings.Join(parts, defaultSliceSeparator)
}

func (v *boolSliceValue) Type() string       { return "boolSlice" }
func (v *boolSliceValue) Get() any           { return *v.value }
func (v *boolSliceValue) IsCumulative() bool { return true }
