package model

// IndexOf returns the position of the field with the given id, or -1.
func (d *FormDefinition) IndexOf(id string) int {
	if d == nil {
		return -1
	}
	for i := range d.Fields {
		if d.Fields[i].ID == id {
			return i
		}
	}
	return -1
}

// Field returns the field with the given id.
func (d *FormDefinition) Field(id string) (FormField, bool) {
	idx := d.IndexOf(id)
	if idx < 0 {
		return FormField{}, false
	}
	return d.Fields[idx], true
}

// FieldByKey returns the first field using key.
func (d *FormDefinition) FieldByKey(key string) (FormField, bool) {
	if d == nil || key == "" {
		return FormField{}, false
	}
	for _, field := range d.Fields {
		if field.Key == key {
			return field, true
		}
	}
	return FormField{}, false
}

// Clone returns a deep copy so callers can hand snapshots to consumers
// without sharing nested state.
func (d FormDefinition) Clone() FormDefinition {
	out := d
	if d.Fields != nil {
		out.Fields = make([]FormField, len(d.Fields))
		for i, field := range d.Fields {
			out.Fields[i] = field.Clone()
		}
	}
	return out
}

// Clone returns a deep copy of the field.
func (f FormField) Clone() FormField {
	out := f
	out.DefaultValue = CloneValue(f.DefaultValue)
	if f.Options != nil {
		out.Options = append([]string(nil), f.Options...)
	}
	if f.Appearance != nil {
		appearance := *f.Appearance
		out.Appearance = &appearance
	}
	if f.Validation != nil {
		validation := *f.Validation
		validation.Min = cloneFloat(f.Validation.Min)
		validation.Max = cloneFloat(f.Validation.Max)
		validation.MaxSize = cloneFloat(f.Validation.MaxSize)
		out.Validation = &validation
	}
	if f.DataSource != nil {
		source := *f.DataSource
		out.DataSource = &source
	}
	if f.Behavior != nil {
		behavior := *f.Behavior
		out.Behavior = &behavior
	}
	if f.Visibility != nil {
		rule := *f.Visibility
		rule.Value = CloneValue(f.Visibility.Value)
		out.Visibility = &rule
	}
	return out
}

// ReadOnly reports whether the field is locked for input, either explicitly
// or because it is disabled.
func (f FormField) ReadOnly() bool {
	return f.Behavior != nil && (f.Behavior.ReadOnly || f.Behavior.Disabled)
}

// Calculation returns the field formula, if any.
func (f FormField) Calculation() string {
	if f.Behavior == nil {
		return ""
	}
	return f.Behavior.Calculation
}

// Clone returns a copy of the record with slices and maps duplicated.
func (r Record) Clone() Record {
	if r == nil {
		return Record{}
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = CloneValue(v)
	}
	return out
}

// Lookup returns the value stored under key.
func (r Record) Lookup(key string) (any, bool) {
	if r == nil {
		return nil, false
	}
	v, ok := r[key]
	return v, ok
}

// CloneValue deep copies the JSON-shaped values a record or default may hold.
func CloneValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		clone := make(map[string]any, len(typed))
		for k, v := range typed {
			clone[k] = CloneValue(v)
		}
		return clone
	case []any:
		clone := make([]any, len(typed))
		for i, v := range typed {
			clone[i] = CloneValue(v)
		}
		return clone
	case []string:
		return append([]string(nil), typed...)
	default:
		return typed
	}
}

// Float returns a pointer to v, handy for Validation bounds.
func Float(v float64) *float64 {
	return &v
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
