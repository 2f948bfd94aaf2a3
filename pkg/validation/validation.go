package validation

import (
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/dlclark/regexp2"

	"github.com/goliatone/go-formbuilder/pkg/fieldschema"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/visibility"
)

// Default messages. A field's Validation.Message replaces every message
// except MessageRequired.
const (
	MessageRequired  = "This field is required."
	MessageMinValue  = "Minimum value is %s."
	MessageMaxValue  = "Maximum value is %s."
	MessageMinLength = "Minimum length is %s characters."
	MessageMaxLength = "Maximum length is %s characters."
	MessagePattern   = "Invalid format."
)

// PatternTimeout bounds a single pattern match.
var PatternTimeout = 250 * time.Millisecond

// Errors maps a field key to its single user-facing message.
type Errors map[string]string

// Has reports whether key failed validation.
func (e Errors) Has(key string) bool {
	_, ok := e[key]
	return ok
}

// Empty reports whether no field failed.
func (e Errors) Empty() bool {
	return len(e) == 0
}

// Keys returns the failing keys sorted for stable output.
func (e Errors) Keys() []string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ValidateForm checks every field of def against record.
func ValidateForm(def model.FormDefinition, record model.Record) Errors {
	return ValidateFields(def.Fields, record)
}

// ValidateFields checks a subset of fields, typically one wizard step.
// Hidden, read-only, disabled and structural fields are skipped. Visibility is
// evaluated against the whole record so rules may target fields outside the
// subset.
func ValidateFields(fields []model.FormField, record model.Record) Errors {
	errs := Errors{}
	for _, field := range fields {
		if !fieldschema.CarriesData(field.Type) {
			continue
		}
		if field.ReadOnly() || !visibility.IsVisible(field, record) {
			continue
		}
		value, _ := record.Lookup(field.Key)
		if msg, ok := ValidateField(field, value); !ok {
			errs[field.Key] = msg
		}
	}
	return errs
}

// ValidateField runs the checks for one field value. The required check runs
// first and stops evaluation when the value is empty. Otherwise min, max and
// pattern run in that order and the last failing check supplies the message.
func ValidateField(field model.FormField, value any) (string, bool) {
	if IsEmpty(value) {
		if field.Required {
			return MessageRequired, false
		}
		return "", true
	}

	rules := field.Validation
	if rules == nil {
		return "", true
	}

	msg := ""
	switch {
	case fieldschema.IsNumeric(field.Type):
		if n, ok := visibility.Number(value); ok {
			if rules.Min != nil && n < *rules.Min {
				msg = custom(rules, fmt.Sprintf(MessageMinValue, formatBound(*rules.Min)))
			}
			if rules.Max != nil && n > *rules.Max {
				msg = custom(rules, fmt.Sprintf(MessageMaxValue, formatBound(*rules.Max)))
			}
		}
	case fieldschema.IsText(field.Type):
		length := float64(utf8.RuneCountInString(visibility.Stringify(value)))
		if rules.Min != nil && length < *rules.Min {
			msg = custom(rules, fmt.Sprintf(MessageMinLength, formatBound(*rules.Min)))
		}
		if rules.Max != nil && length > *rules.Max {
			msg = custom(rules, fmt.Sprintf(MessageMaxLength, formatBound(*rules.Max)))
		}
	}

	if rules.Pattern != "" {
		if matched, ok := MatchPattern(rules.Pattern, visibility.Stringify(value)); ok && !matched {
			msg = custom(rules, MessagePattern)
		}
	}

	if msg != "" {
		return msg, false
	}
	return "", true
}

// IsEmpty reports whether value counts as missing for the required check:
// nil or the empty string.
func IsEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	default:
		return false
	}
}

// MatchPattern tests value against an ECMAScript regular expression. The
// match is unanchored. ok is false when the pattern does not compile or the
// match times out, in which case the check is skipped.
func MatchPattern(pattern, value string) (matched bool, ok bool) {
	re, err := compilePattern(pattern)
	if err != nil {
		return false, false
	}
	matched, err = re.MatchString(value)
	if err != nil {
		return false, false
	}
	return matched, true
}

// CompilePattern reports whether pattern is a usable ECMAScript expression.
func CompilePattern(pattern string) error {
	_, err := compilePattern(pattern)
	return err
}

type compiled struct {
	re  *regexp2.Regexp
	err error
}

var patternCache sync.Map

func compilePattern(pattern string) (*regexp2.Regexp, error) {
	if cached, ok := patternCache.Load(pattern); ok {
		entry := cached.(compiled)
		return entry.re, entry.err
	}
	re, err := regexp2.Compile(pattern, regexp2.ECMAScript)
	if err != nil {
		err = fmt.Errorf("validation: invalid pattern %q: %w", pattern, err)
	} else {
		re.MatchTimeout = PatternTimeout
	}
	patternCache.Store(pattern, compiled{re: re, err: err})
	return re, err
}

func custom(rules *model.Validation, fallback string) string {
	if rules.Message != "" {
		return rules.Message
	}
	return fallback
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
