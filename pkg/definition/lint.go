package definition

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/compute"
	"github.com/goliatone/go-formbuilder/pkg/fieldschema"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

// Issue is a single lint finding. Path points into the definition using
// JSON member names, e.g. fields[2].visibility.targetFieldKey.
type Issue struct {
	Path    string `json:"path"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// LintResult collects every finding for a definition.
type LintResult struct {
	Valid  bool    `json:"valid"`
	Issues []Issue `json:"issues,omitempty"`
}

// HasIssue reports whether any finding points at path.
func (r LintResult) HasIssue(path string) bool {
	for _, issue := range r.Issues {
		if issue.Path == path {
			return true
		}
	}
	return false
}

// Lint checks the authoring invariants the runtime relies on without
// changing def. Duplicate keys, formula cycles, dangling rule targets and
// formulas reading unknown keys are reported here because the editor accepts
// them while a form is in progress.
func Lint(def model.FormDefinition) LintResult {
	l := &linter{}

	if def.Version < 1 {
		l.add("version", "", "version must be at least 1")
	}
	switch def.LayoutMode {
	case model.LayoutSingle, model.LayoutWizard, "":
	default:
		l.add("layoutMode", "", fmt.Sprintf("unknown layout mode %q", def.LayoutMode))
	}
	if len(def.Fields) > model.MaxFields {
		l.add("fields", "", fmt.Sprintf("%d fields exceed the limit of %d", len(def.Fields), model.MaxFields))
	}

	graph := compute.Build(def)
	invalid := graph.Invalid()
	var cycle *compute.CycleError
	cyclic := map[string]bool{}
	if errors.As(graph.Cycle(), &cycle) {
		for _, key := range cycle.Keys {
			cyclic[key] = true
		}
	}

	ids := make(map[string]int, len(def.Fields))
	keys := make(map[string]int, len(def.Fields))
	for i, field := range def.Fields {
		path := fmt.Sprintf("fields[%d]", i)
		key := field.Key

		if field.ID == "" {
			l.add(path+".id", key, "field id is required")
		} else if first, dup := ids[field.ID]; dup {
			l.add(path+".id", key, fmt.Sprintf("field id %q already used by fields[%d]", field.ID, first))
		} else {
			ids[field.ID] = i
		}

		if !fieldschema.Valid(field.Type) {
			l.add(path+".type", key, fmt.Sprintf("unknown field type %q", field.Type))
		}

		if fieldschema.CarriesData(field.Type) {
			if key == "" {
				l.add(path+".key", key, "field key is required")
			} else if first, dup := keys[key]; dup {
				l.add(path+".key", key, fmt.Sprintf("key %q already used by fields[%d]", key, first))
			} else {
				keys[key] = i
			}
		}

		if fieldschema.HasOptions(field.Type) && len(field.Options) == 0 {
			l.add(path+".options", key, "select and tags fields need at least one option")
		}

		switch field.Layout.Width {
		case model.WidthFull, model.WidthHalf, model.WidthThird, "":
		default:
			l.add(path+".layout.width", key, fmt.Sprintf("unsupported width %q", field.Layout.Width))
		}

		l.validation(path, field)
		l.visibility(path, field, def)

		if err, bad := invalid[key]; bad {
			l.add(path+".behavior.calculation", key, err.Error())
		}
		if first, ok := keys[key]; ok && first == i {
			for _, ref := range graph.DependsOn(key) {
				if _, known := def.FieldByKey(ref); !known {
					l.add(path+".behavior.calculation", key, fmt.Sprintf("formula reads unknown field {{%s}}", ref))
				}
			}
		}
		if cyclic[key] {
			l.add(path+".behavior.calculation", key, "formula is on or downstream of a cycle, reads "+joinKeys(graph.DependsOn(key)))
		}
	}

	return l.result()
}

type linter struct {
	issues []Issue
}

func (l *linter) add(path, field, message string) {
	l.issues = append(l.issues, Issue{Path: path, Field: field, Message: message})
}

func (l *linter) result() LintResult {
	return LintResult{Valid: len(l.issues) == 0, Issues: l.issues}
}

func (l *linter) validation(path string, field model.FormField) {
	rules := field.Validation
	if rules == nil {
		return
	}
	if rules.Min != nil && rules.Max != nil && *rules.Min > *rules.Max {
		l.add(path+".validation", field.Key, "min is greater than max")
	}
	if rules.Pattern != "" {
		if err := validation.CompilePattern(rules.Pattern); err != nil {
			l.add(path+".validation.pattern", field.Key, err.Error())
		}
	}
}

func (l *linter) visibility(path string, field model.FormField, def model.FormDefinition) {
	rule := field.Visibility
	if rule == nil {
		return
	}
	switch rule.Operator {
	case model.OperatorEq, model.OperatorNeq, model.OperatorContains, model.OperatorTruthy, model.OperatorFalsy:
	default:
		l.add(path+".visibility.operator", field.Key, fmt.Sprintf("unknown operator %q", rule.Operator))
	}

	target := rule.TargetFieldKey
	switch {
	case target == "":
		l.add(path+".visibility.targetFieldKey", field.Key, "visibility rule has no target field")
	case target == field.Key:
		l.add(path+".visibility.targetFieldKey", field.Key, "visibility rule targets its own field")
	default:
		if _, ok := def.FieldByKey(target); !ok {
			l.add(path+".visibility.targetFieldKey", field.Key, fmt.Sprintf("unknown target field %q", target))
		}
	}
}

func joinKeys(keys []string) string {
	refs := make([]string, len(keys))
	for i, key := range keys {
		refs[i] = "{{" + key + "}}"
	}
	return strings.Join(refs, ", ")
}
