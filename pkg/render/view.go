package render

import "github.com/goliatone/go-formbuilder/pkg/model"

// Kind tags the shape of a ViewModel. Presentation layers switch on Kind
// rather than on the field type.
type Kind string

const (
	KindInput       Kind = "input"
	KindTextarea    Kind = "textarea"
	KindChoice      Kind = "choice"
	KindMultiChoice Kind = "multi-choice"
	KindToggle      Kind = "toggle"
	KindRange       Kind = "range"
	KindRating      Kind = "rating"
	KindUpload      Kind = "upload"
	KindSignature   Kind = "signature"
	KindSeparator   Kind = "separator"
	KindRichText    Kind = "rich-text"
)

// Option is one entry of a choice or multi-choice control.
type Option struct {
	Label    string `json:"label"`
	Value    string `json:"value"`
	Selected bool   `json:"selected,omitempty"`
}

// ViewModel is everything a presentation layer needs to draw one field.
// Members that do not apply to Kind are left zero.
type ViewModel struct {
	ID          string          `json:"id"`
	Key         string          `json:"key"`
	Type        model.FieldType `json:"type"`
	Kind        Kind            `json:"kind"`
	Label       string          `json:"label"`
	HelpText    string          `json:"helpText,omitempty"`
	Placeholder string          `json:"placeholder,omitempty"`
	Width       model.Width     `json:"width"`
	Required    bool            `json:"required,omitempty"`
	ReadOnly    bool            `json:"readOnly,omitempty"`
	Disabled    bool            `json:"disabled,omitempty"`
	Computed    bool            `json:"computed,omitempty"`

	// InputType is the native input type for KindInput (text, email,
	// number, color, date, time, password).
	InputType string `json:"inputType,omitempty"`
	// Value is the raw record value, or the field default when unset.
	Value any `json:"value,omitempty"`
	// Text is Value coerced to a display string.
	Text string `json:"text,omitempty"`

	Prefix string `json:"prefix,omitempty"`
	Suffix string `json:"suffix,omitempty"`
	// Icon is an icon name, IconMarkup sanitized inline SVG. At most one is
	// set.
	Icon       string `json:"icon,omitempty"`
	IconMarkup string `json:"iconMarkup,omitempty"`

	Options []Option          `json:"options,omitempty"`
	Source  *model.DataSource `json:"source,omitempty"`

	Min    *float64 `json:"min,omitempty"`
	Max    *float64 `json:"max,omitempty"`
	Number float64  `json:"number,omitempty"`

	Checked bool `json:"checked,omitempty"`
	Signed  bool `json:"signed,omitempty"`

	Accept  string   `json:"accept,omitempty"`
	MaxSize *float64 `json:"maxSize,omitempty"`

	// HTML is sanitized rich-text markup.
	HTML string `json:"html,omitempty"`

	Error string `json:"error,omitempty"`
}
