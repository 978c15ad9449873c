package values

// validateValue wraps a Value with a check that runs before the
// underlying Set, so a field's `validate:"..."`/`choice:"..."` tag
// rejects a bad raw string before it ever reaches the field.
type validateValue struct {
	Value        Value
	validateFunc func(val string) error
}

// NewValidator wraps v so validate runs on every Set call before v.Set.
func NewValidator(v Value, validate func(val string) error) Value {
	return &validateValue{Value: v, validateFunc: validate}
}

func (v *validateValue) String() string {
	if v.Value == nil {
		return ""
	}

	return v.Value.String()
}

func (v *validateValue) Set(s string) error {
	if v.validateFunc != nil {
		if err := v.validateFunc(s); err != nil {
			return err
		}
	}

	return v.Value.Set(s)
}

func (v *validateValue) Type() string {
	if v.Value == nil {
		return ""
	}

	return v.Value.Type()
}

func (v *validateValue) IsBoolFlag() bool {
	bf, ok := v.Value.(BoolFlag)

	return ok && bf.IsBoolFlag()
}

func (v *validateValue) IsCumulative() bool {
	rf, ok := v.Value.(RepeatableFlag)

	return ok && rf.IsCumulative()
}

func (v *validateValue) Get() any {
	g, ok := v.Value.(Getter)
	if !ok {
		return nil
	}

	return g.Get()
}
