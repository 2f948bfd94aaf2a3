// Package visibility decides whether a field is shown for a given record.
// Hidden fields are skipped by validation and rendering but keep whatever
// value the record already holds.
package visibility

import (
	"math"
	"strconv"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// IsVisible reports whether field should be shown for record. Fields without
// a rule are always visible. The result depends only on the rule and the
// target value.
func IsVisible(field model.FormField, record model.Record) bool {
	if field.Visibility == nil {
		return true
	}
	return Eval(*field.Visibility, record)
}

// Eval applies a single rule to record. Unknown operators leave the field
// visible.
func Eval(rule model.VisibilityRule, record model.Record) bool {
	target, _ := record.Lookup(rule.TargetFieldKey)

	switch rule.Operator {
	case model.OperatorEq:
		return Stringify(target) == Stringify(rule.Value)
	case model.OperatorNeq:
		return Stringify(target) != Stringify(rule.Value)
	case model.OperatorContains:
		return strings.Contains(Stringify(target), Stringify(rule.Value))
	case model.OperatorTruthy:
		return Truthy(target)
	case model.OperatorFalsy:
		return !Truthy(target)
	default:
		return true
	}
}

// VisibleFields filters fields down to the ones visible for record,
// preserving order.
func VisibleFields(fields []model.FormField, record model.Record) []model.FormField {
	out := make([]model.FormField, 0, len(fields))
	for _, field := range fields {
		if IsVisible(field, record) {
			out = append(out, field)
		}
	}
	return out
}

// Truthy follows JavaScript truthiness: nil, false, 0, NaN and "" are falsy;
// every other value, including empty lists, is truthy.
func Truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case float64:
		return v != 0 && !math.IsNaN(v)
	case float32:
		return v != 0 && !math.IsNaN(float64(v))
	case int:
		return v != 0
	case int64:
		return v != 0
	case int32:
		return v != 0
	case uint:
		return v != 0
	case uint64:
		return v != 0
	case []string:
		return v != nil
	case []any:
		return v != nil
	case map[string]any:
		return v != nil
	default:
		return true
	}
}

// Stringify converts a record value the way JavaScript's String() would for
// the shapes a record holds. nil becomes the empty string so an unset target
// compares equal to an empty rule value.
func Stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return formatNumber(v)
	case float32:
		return formatNumber(float64(v))
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case uint:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case []string:
		return strings.Join(v, ",")
	case []any:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = Stringify(item)
		}
		return strings.Join(parts, ",")
	case []byte:
		return string(v)
	default:
		return "[object Object]"
	}
}

// Number converts a record value to a float the way JavaScript's Number()
// would. ok is false when the result is NaN.
func Number(value any) (float64, bool) {
	switch v := value.(type) {
	case nil:
		return 0, true
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	case float64:
		return v, !math.IsNaN(v)
	case float32:
		return float64(v), !math.IsNaN(float64(v))
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case int32:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint64:
		return float64(v), true
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return 0, true
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil || math.IsNaN(f) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func formatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
