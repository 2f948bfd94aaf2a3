package runtime

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/validation"
)

// ErrInvalid is matched by the error Submit returns when the record does not
// validate.
var ErrInvalid = errors.New("runtime: form is invalid")

// InvalidError carries the per-field messages that blocked a submit.
type InvalidError struct {
	Errors validation.Errors
}

func (e *InvalidError) Error() string {
	return fmt.Sprintf("runtime: form is invalid: %s", strings.Join(e.Errors.Keys(), ", "))
}

func (e *InvalidError) Unwrap() error {
	return ErrInvalid
}
