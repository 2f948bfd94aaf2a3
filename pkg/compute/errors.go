package compute

import (
	"fmt"
	"strings"
)

// ParseError reports a formula that is not valid arithmetic.
type ParseError struct {
	Formula string
	Pos     int
	Msg     string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("compute: parse %q at %d: %s", e.Formula, e.Pos, e.Msg)
}

// ArithmeticError reports a formula that parsed but could not be evaluated.
type ArithmeticError struct {
	Formula string
	Msg     string
}

func (e *ArithmeticError) Error() string {
	return fmt.Sprintf("compute: evaluate %q: %s", e.Formula, e.Msg)
}

// ReferenceError reports a {{key}} that matches neither a field nor a record
// entry.
type ReferenceError struct {
	Key string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("compute: unknown reference {{%s}}", e.Key)
}

// CycleError lists computed keys that depend on themselves, directly or
// through other computed fields, plus anything downstream of them.
type CycleError struct {
	Keys []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("compute: formula cycle involving %s", strings.Join(e.Keys, ", "))
}
