package render

import (
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/fieldschema"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/visibility"
)

const (
	defaultSliderMin = 0
	defaultSliderMax = 100
	defaultRatingMax = 5
)

// RenderField builds the view model for field holding value. A nil value
// falls back to the field default. Unknown types render as a plain text
// input so a newer definition still shows something.
func RenderField(field model.FormField, value any) ViewModel {
	if value == nil {
		value = field.DefaultValue
	}

	vm := base(field, value)
	switch field.Type {
	case model.FieldTypeText, model.FieldTypeEmail, model.FieldTypePassword,
		model.FieldTypeColor, model.FieldTypeDate, model.FieldTypeTime:
		vm.Kind = KindInput
		vm.InputType = string(field.Type)
	case model.FieldTypeNumber:
		vm.Kind = KindInput
		vm.InputType = "number"
		vm.Min, vm.Max = bounds(field.Validation)
		vm.Number, _ = visibility.Number(value)
	case model.FieldTypeTextarea:
		vm.Kind = KindTextarea
	case model.FieldTypeSelect:
		vm.Kind = KindChoice
		vm.Options = options(field.Options, selected(value))
		vm.Source = source(field.DataSource)
	case model.FieldTypeTags:
		vm.Kind = KindMultiChoice
		vm.Options = options(field.Options, selected(value))
		vm.Source = source(field.DataSource)
	case model.FieldTypeCheckbox:
		vm.Kind = KindToggle
		vm.Checked = visibility.Truthy(value)
	case model.FieldTypeSlider:
		vm.Kind = KindRange
		vm.Min, vm.Max = bounds(field.Validation)
		if vm.Min == nil {
			vm.Min = model.Float(defaultSliderMin)
		}
		if vm.Max == nil {
			vm.Max = model.Float(defaultSliderMax)
		}
		vm.Number = clampedNumber(value, *vm.Min, *vm.Max)
	case model.FieldTypeRating:
		vm.Kind = KindRating
		vm.Min, vm.Max = bounds(field.Validation)
		if vm.Max == nil {
			vm.Max = model.Float(defaultRatingMax)
		}
		vm.Number = clampedNumber(value, 0, *vm.Max)
	case model.FieldTypeFile:
		vm.Kind = KindUpload
		if field.Validation != nil {
			vm.Accept = field.Validation.Accept
			if field.Validation.MaxSize != nil {
				vm.MaxSize = model.Float(*field.Validation.MaxSize)
			}
		}
	case model.FieldTypeSignature:
		vm.Kind = KindSignature
		vm.Signed = vm.Text != ""
	case model.FieldTypeDivider:
		vm.Kind = KindSeparator
		vm.Value = nil
		vm.Text = ""
	case model.FieldTypeRichText:
		vm.Kind = KindRichText
		vm.HTML = SanitizeRichText(vm.Text)
	default:
		vm.Kind = KindInput
		vm.InputType = string(model.FieldTypeText)
	}
	return vm
}

// RenderFields renders fields in order against record and attaches the
// message from errs to each field that has one.
func RenderFields(fields []model.FormField, record model.Record, errs map[string]string) []ViewModel {
	out := make([]ViewModel, 0, len(fields))
	for _, field := range fields {
		var value any
		if fieldschema.CarriesData(field.Type) {
			value, _ = record.Lookup(field.Key)
		}
		vm := RenderField(field, value)
		if msg, ok := errs[field.Key]; ok && fieldschema.CarriesData(field.Type) {
			vm.Error = msg
		}
		out = append(out, vm)
	}
	return out
}

func base(field model.FormField, value any) ViewModel {
	vm := ViewModel{
		ID:          field.ID,
		Key:         field.Key,
		Type:        field.Type,
		Label:       field.Label,
		HelpText:    field.HelpText,
		Placeholder: field.Placeholder,
		Width:       field.Layout.Width,
		Required:    field.Required,
		Value:       model.CloneValue(value),
		Text:        visibility.Stringify(value),
	}
	if vm.Width == "" {
		vm.Width = model.WidthFull
	}
	if b := field.Behavior; b != nil {
		vm.ReadOnly = b.ReadOnly
		vm.Disabled = b.Disabled
		if b.Calculation != "" {
			vm.Computed = true
			vm.ReadOnly = true
		}
	}
	if a := field.Appearance; a != nil {
		vm.Prefix = a.Prefix
		vm.Suffix = a.Suffix
		if isMarkup(a.Icon) {
			vm.IconMarkup = SanitizeIcon(a.Icon)
		} else {
			vm.Icon = strings.TrimSpace(a.Icon)
		}
	}
	return vm
}

func bounds(rules *model.Validation) (lo, hi *float64) {
	if rules == nil {
		return nil, nil
	}
	if rules.Min != nil {
		lo = model.Float(*rules.Min)
	}
	if rules.Max != nil {
		hi = model.Float(*rules.Max)
	}
	return lo, hi
}

func clampedNumber(value any, lo, hi float64) float64 {
	n, ok := visibility.Number(value)
	if !ok {
		return lo
	}
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

func options(values []string, chosen map[string]bool) []Option {
	if len(values) == 0 {
		return nil
	}
	out := make([]Option, len(values))
	for i, v := range values {
		out[i] = Option{Label: v, Value: v, Selected: chosen[v]}
	}
	return out
}

// selected collects the option values a record value picks. Lists select
// each entry; scalars select their string form.
func selected(value any) map[string]bool {
	out := map[string]bool{}
	switch v := value.(type) {
	case nil:
	case []string:
		for _, item := range v {
			out[item] = true
		}
	case []any:
		for _, item := range v {
			out[visibility.Stringify(item)] = true
		}
	default:
		if s := visibility.Stringify(v); s != "" {
			out[s] = true
		}
	}
	return out
}

func source(ds *model.DataSource) *model.DataSource {
	if ds == nil {
		return nil
	}
	out := *ds
	return &out
}

func isMarkup(icon string) bool {
	return strings.HasPrefix(strings.TrimSpace(icon), "<")
}
