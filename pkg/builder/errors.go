package builder

import "errors"

var (
	// ErrCapacity is returned when an insertion would exceed model.MaxFields.
	// The definition is left untouched.
	ErrCapacity = errors.New("builder: form already holds the maximum number of fields")
	// ErrUnknownType is returned when asked to add a type outside the enum.
	ErrUnknownType = errors.New("builder: unknown field type")
	// ErrDuplicateKey is returned by UpdateField when WithUniqueKeys is set
	// and the new key is already used by another field.
	ErrDuplicateKey = errors.New("builder: field key already in use")
	// ErrInvalidLayout is returned for layout modes other than single/wizard.
	ErrInvalidLayout = errors.New("builder: invalid layout mode")
)
