// Package render turns a field and its current value into a ViewModel, the
// presentation-neutral description of one control. Every field type maps to
// exactly one Kind, so presentation layers never need their own type
// switches. Rich-text values and inline SVG icons are sanitized on the way
// through.
package render
