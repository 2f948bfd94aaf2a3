// Package fieldschema is the single lookup table describing what each field
// type supports. Builders, validators and renderers ask it instead of keeping
// their own type lists.
package fieldschema

import (
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// Spec describes the configuration surface of one field type.
type Spec struct {
	Type  model.FieldType
	Title string
	// Options marks select-style types whose Options slice is meaningful.
	Options bool
	// NumericRange means Validation.Min/Max bound the numeric value.
	NumericRange bool
	// LengthRange means Validation.Min/Max bound the string length.
	LengthRange bool
	Pattern     bool
	// Upload types honour Validation.Accept and Validation.MaxSize.
	Upload bool
	// Data is false for structural types that never hold a value.
	Data bool
}

// SupportsValidation reports whether any validation setting applies.
func (s Spec) SupportsValidation() bool {
	return s.NumericRange || s.LengthRange || s.Pattern || s.Upload
}

// DefaultOptions seeds select and tags fields.
var DefaultOptions = []string{"Option 1", "Option 2"}

var specs = []Spec{
	{Type: model.FieldTypeText, Title: "Text", LengthRange: true, Pattern: true, Data: true},
	{Type: model.FieldTypeTextarea, Title: "Textarea", LengthRange: true, Pattern: true, Data: true},
	{Type: model.FieldTypeNumber, Title: "Number", NumericRange: true, Pattern: true, Data: true},
	{Type: model.FieldTypeEmail, Title: "Email", Pattern: true, Data: true},
	{Type: model.FieldTypePassword, Title: "Password", LengthRange: true, Pattern: true, Data: true},
	{Type: model.FieldTypeSelect, Title: "Select", Options: true, Pattern: true, Data: true},
	{Type: model.FieldTypeCheckbox, Title: "Checkbox", Pattern: true, Data: true},
	{Type: model.FieldTypeTags, Title: "Tags", Options: true, Pattern: true, Data: true},
	{Type: model.FieldTypeSlider, Title: "Slider", NumericRange: true, Pattern: true, Data: true},
	{Type: model.FieldTypeRating, Title: "Rating", NumericRange: true, Pattern: true, Data: true},
	{Type: model.FieldTypeColor, Title: "Color", Pattern: true, Data: true},
	{Type: model.FieldTypeDate, Title: "Date", Pattern: true, Data: true},
	{Type: model.FieldTypeTime, Title: "Time", Pattern: true, Data: true},
	{Type: model.FieldTypeFile, Title: "File", Upload: true, Data: true},
	{Type: model.FieldTypeSignature, Title: "Signature", Data: true},
	{Type: model.FieldTypeDivider, Title: "Divider"},
	{Type: model.FieldTypeRichText, Title: "Rich Text", Pattern: true, Data: true},
}

var index = func() map[model.FieldType]Spec {
	out := make(map[model.FieldType]Spec, len(specs))
	for _, spec := range specs {
		out[spec.Type] = spec
	}
	return out
}()

// Lookup returns the spec for t.
func Lookup(t model.FieldType) (Spec, bool) {
	spec, ok := index[t]
	return spec, ok
}

// Types lists every field type in palette order.
func Types() []model.FieldType {
	out := make([]model.FieldType, len(specs))
	for i, spec := range specs {
		out[i] = spec.Type
	}
	return out
}

// Valid reports whether t belongs to the closed enum.
func Valid(t model.FieldType) bool {
	_, ok := index[t]
	return ok
}

// HasOptions reports whether Options applies to t.
func HasOptions(t model.FieldType) bool {
	return index[t].Options
}

// IsNumeric reports whether min/max bound the numeric value.
func IsNumeric(t model.FieldType) bool {
	return index[t].NumericRange
}

// IsText reports whether min/max bound the string length.
func IsText(t model.FieldType) bool {
	return index[t].LengthRange
}

// IsDivider reports whether t is the structural separator type.
func IsDivider(t model.FieldType) bool {
	return t == model.FieldTypeDivider
}

// CarriesData reports whether fields of type t hold a value in the record.
func CarriesData(t model.FieldType) bool {
	return index[t].Data
}

// NewID returns a fresh field identifier.
func NewID() string {
	return uuid.New().String()
}

// NewField builds the default skeleton for t using id. Unknown types fall
// back to the text skeleton with the requested type preserved.
func NewField(t model.FieldType, id string) model.FormField {
	spec, ok := Lookup(t)
	if !ok {
		spec = Spec{Type: t, Title: string(t), Data: true}
	}

	field := model.FormField{
		ID:     id,
		Type:   t,
		Label:  "New " + spec.Title + " Field",
		Key:    defaultKey(t, id),
		Layout: model.Layout{Width: model.WidthFull},
	}

	switch t {
	case model.FieldTypeSelect, model.FieldTypeTags:
		field.Options = append([]string(nil), DefaultOptions...)
		field.DataSource = &model.DataSource{Type: model.DataSourceStatic}
	case model.FieldTypeSlider:
		field.Validation = &model.Validation{Min: model.Float(0), Max: model.Float(100)}
	case model.FieldTypeRating:
		field.Validation = &model.Validation{Max: model.Float(5)}
	case model.FieldTypeDivider:
		field.Label = "Section"
	}
	return field
}

func defaultKey(t model.FieldType, id string) string {
	suffix := strings.ReplaceAll(id, "-", "")
	if len(suffix) > 8 {
		suffix = suffix[:8]
	}
	base := strings.ReplaceAll(string(t), "-", "_")
	if suffix == "" {
		return base
	}
	return base + "_" + suffix
}
