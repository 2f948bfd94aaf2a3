package builder

import (
	"github.com/goliatone/go-formbuilder/pkg/model"
)

// Ptr returns a pointer to v, for building patches inline.
func Ptr[T any](v T) *T {
	return &v
}

// FieldPatch is a shallow update of a field's top-level settings. Nil members
// are left alone; a non-nil empty Options slice clears the options.
type FieldPatch struct {
	Type         *model.FieldType
	Label        *string
	Key          *string
	Required     *bool
	Placeholder  *string
	DefaultValue any
	HelpText     *string
	Options      []string
}

func (p FieldPatch) apply(field *model.FormField) {
	if p.Type != nil {
		field.Type = *p.Type
	}
	if p.Label != nil {
		field.Label = *p.Label
	}
	if p.Key != nil {
		field.Key = *p.Key
	}
	if p.Required != nil {
		field.Required = *p.Required
	}
	if p.Placeholder != nil {
		field.Placeholder = *p.Placeholder
	}
	if p.DefaultValue != nil {
		field.DefaultValue = model.CloneValue(p.DefaultValue)
	}
	if p.HelpText != nil {
		field.HelpText = *p.HelpText
	}
	if p.Options != nil {
		field.Options = append([]string{}, p.Options...)
	}
}

// ValidationPatch updates Validation members that are set.
type ValidationPatch struct {
	Min     *float64
	Max     *float64
	Pattern *string
	Message *string
	Accept  *string
	MaxSize *float64
}

func (p ValidationPatch) apply(v *model.Validation) {
	if p.Min != nil {
		v.Min = Ptr(*p.Min)
	}
	if p.Max != nil {
		v.Max = Ptr(*p.Max)
	}
	if p.Pattern != nil {
		v.Pattern = *p.Pattern
	}
	if p.Message != nil {
		v.Message = *p.Message
	}
	if p.Accept != nil {
		v.Accept = *p.Accept
	}
	if p.MaxSize != nil {
		v.MaxSize = Ptr(*p.MaxSize)
	}
}

// LayoutPatch updates Layout members that are set.
type LayoutPatch struct {
	Width *model.Width
}

func (p LayoutPatch) apply(l *model.Layout) {
	if p.Width != nil {
		l.Width = *p.Width
	}
}

// AppearancePatch updates Appearance members that are set.
type AppearancePatch struct {
	Prefix *string
	Suffix *string
	Icon   *string
}

func (p AppearancePatch) apply(a *model.Appearance) {
	if p.Prefix != nil {
		a.Prefix = *p.Prefix
	}
	if p.Suffix != nil {
		a.Suffix = *p.Suffix
	}
	if p.Icon != nil {
		a.Icon = *p.Icon
	}
}

// DataSourcePatch updates DataSource members that are set.
type DataSourcePatch struct {
	Type     *model.DataSourceType
	Endpoint *string
	LabelKey *string
	ValueKey *string
}

func (p DataSourcePatch) apply(d *model.DataSource) {
	if p.Type != nil {
		d.Type = *p.Type
	}
	if p.Endpoint != nil {
		d.Endpoint = *p.Endpoint
	}
	if p.LabelKey != nil {
		d.LabelKey = *p.LabelKey
	}
	if p.ValueKey != nil {
		d.ValueKey = *p.ValueKey
	}
}

// BehaviorPatch updates Behavior members that are set.
type BehaviorPatch struct {
	ReadOnly    *bool
	Disabled    *bool
	Calculation *string
}

func (p BehaviorPatch) apply(b *model.Behavior) {
	if p.ReadOnly != nil {
		b.ReadOnly = *p.ReadOnly
	}
	if p.Disabled != nil {
		b.Disabled = *p.Disabled
	}
	if p.Calculation != nil {
		b.Calculation = *p.Calculation
	}
}

// VisibilityPatch updates VisibilityRule members that are set.
type VisibilityPatch struct {
	TargetFieldKey *string
	Operator       *model.Operator
	Value          any
}

func (p VisibilityPatch) apply(r *model.VisibilityRule) {
	if p.TargetFieldKey != nil {
		r.TargetFieldKey = *p.TargetFieldKey
	}
	if p.Operator != nil {
		r.Operator = *p.Operator
	}
	if p.Value != nil {
		r.Value = model.CloneValue(p.Value)
	}
}
