package model

import "time"

// FieldType is the closed set of field kinds a form definition can hold.
type FieldType string

const (
	FieldTypeText      FieldType = "text"
	FieldTypeTextarea  FieldType = "textarea"
	FieldTypeNumber    FieldType = "number"
	FieldTypeEmail     FieldType = "email"
	FieldTypePassword  FieldType = "password"
	FieldTypeSelect    FieldType = "select"
	FieldTypeCheckbox  FieldType = "checkbox"
	FieldTypeTags      FieldType = "tags"
	FieldTypeSlider    FieldType = "slider"
	FieldTypeRating    FieldType = "rating"
	FieldTypeColor     FieldType = "color"
	FieldTypeDate      FieldType = "date"
	FieldTypeTime      FieldType = "time"
	FieldTypeFile      FieldType = "file"
	FieldTypeSignature FieldType = "signature"
	FieldTypeDivider   FieldType = "divider"
	FieldTypeRichText  FieldType = "rich-text"
)

// LayoutMode selects how the runtime sequences fields.
type LayoutMode string

const (
	LayoutSingle LayoutMode = "single"
	LayoutWizard LayoutMode = "wizard"
)

// Width is the horizontal share a field occupies in its row.
type Width string

const (
	WidthFull  Width = "100%"
	WidthHalf  Width = "50%"
	WidthThird Width = "33%"
)

// Operator is a visibility rule comparison.
type Operator string

const (
	OperatorEq       Operator = "eq"
	OperatorNeq      Operator = "neq"
	OperatorContains Operator = "contains"
	OperatorTruthy   Operator = "truthy"
	OperatorFalsy    Operator = "falsy"
)

// DataSourceType tells the runtime where option lists come from.
type DataSourceType string

const (
	DataSourceStatic DataSourceType = "static"
	DataSourceAPI    DataSourceType = "api"
)

// MaxFields caps the number of fields a single definition may hold.
const MaxFields = 50

// Layout carries placement hints for a field.
type Layout struct {
	Width Width `json:"width" yaml:"width"`
}

// Appearance holds decorations rendered around the input.
type Appearance struct {
	Prefix string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Suffix string `json:"suffix,omitempty" yaml:"suffix,omitempty"`
	Icon   string `json:"icon,omitempty" yaml:"icon,omitempty"`
}

// Validation constrains a field value. Min and Max are numeric bounds for
// numeric types and length bounds for text types; Accept and MaxSize only
// apply to uploads.
type Validation struct {
	Min     *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max     *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	Pattern string   `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Message string   `json:"message,omitempty" yaml:"message,omitempty"`
	Accept  string   `json:"accept,omitempty" yaml:"accept,omitempty"`
	MaxSize *float64 `json:"maxSize,omitempty" yaml:"maxSize,omitempty"`
}

// DataSource describes where select/tags options are loaded from.
type DataSource struct {
	Type     DataSourceType `json:"type" yaml:"type"`
	Endpoint string         `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	LabelKey string         `json:"labelKey,omitempty" yaml:"labelKey,omitempty"`
	ValueKey string         `json:"valueKey,omitempty" yaml:"valueKey,omitempty"`
}

// Behavior toggles interactivity and declares computed values. Calculation is
// an arithmetic formula referencing other fields as {{key}}.
type Behavior struct {
	ReadOnly    bool   `json:"readOnly,omitempty" yaml:"readOnly,omitempty"`
	Disabled    bool   `json:"disabled,omitempty" yaml:"disabled,omitempty"`
	Calculation string `json:"calculation,omitempty" yaml:"calculation,omitempty"`
}

// VisibilityRule shows a field only when another field's value matches.
// Value is ignored by the truthy and falsy operators.
type VisibilityRule struct {
	TargetFieldKey string   `json:"targetFieldKey" yaml:"targetFieldKey"`
	Operator       Operator `json:"operator" yaml:"operator"`
	Value          any      `json:"value,omitempty" yaml:"value,omitempty"`
}

// FormField is a single input or display unit inside a definition.
type FormField struct {
	ID           string          `json:"id" yaml:"id"`
	Type         FieldType       `json:"type" yaml:"type"`
	Label        string          `json:"label" yaml:"label"`
	Key          string          `json:"key" yaml:"key"`
	Required     bool            `json:"required" yaml:"required"`
	Placeholder  string          `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	DefaultValue any             `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty"`
	HelpText     string          `json:"helpText,omitempty" yaml:"helpText,omitempty"`
	Options      []string        `json:"options,omitempty" yaml:"options,omitempty"`
	Layout       Layout          `json:"layout" yaml:"layout"`
	Appearance   *Appearance     `json:"appearance,omitempty" yaml:"appearance,omitempty"`
	Validation   *Validation     `json:"validation,omitempty" yaml:"validation,omitempty"`
	DataSource   *DataSource     `json:"dataSource,omitempty" yaml:"dataSource,omitempty"`
	Behavior     *Behavior       `json:"behavior,omitempty" yaml:"behavior,omitempty"`
	Visibility   *VisibilityRule `json:"visibility,omitempty" yaml:"visibility,omitempty"`
}

// FormDefinition is the authored schema: metadata plus ordered fields. Field
// order is the canonical render and tab order.
type FormDefinition struct {
	ID           string      `json:"id" yaml:"id"`
	Name         string      `json:"name" yaml:"name"`
	Description  string      `json:"description,omitempty" yaml:"description,omitempty"`
	Version      int         `json:"version" yaml:"version"`
	LastModified time.Time   `json:"lastModified" yaml:"lastModified"`
	LayoutMode   LayoutMode  `json:"layoutMode" yaml:"layoutMode"`
	Fields       []FormField `json:"fields" yaml:"fields"`
}

// Record is the runtime data keyed by field key.
type Record map[string]any
