// Package wizard groups a flat field list into ordered steps and tracks the
// active step. Dividers mark step boundaries in wizard layout and are plain
// separators otherwise.
package wizard

import (
	"github.com/goliatone/go-formbuilder/pkg/fieldschema"
	"github.com/goliatone/go-formbuilder/pkg/model"
)

// Step is one page of a form.
type Step struct {
	Index int
	// Title is the label of the divider that opened the step, empty for a
	// step that starts at the top of the form.
	Title  string
	Fields []model.FormField
}

// Keys returns the field keys in the step.
func (s Step) Keys() []string {
	keys := make([]string, 0, len(s.Fields))
	for _, field := range s.Fields {
		keys = append(keys, field.Key)
	}
	return keys
}

// Plan splits fields into steps. Outside wizard layout the plan is a single
// step with every field, dividers included. In wizard layout every divider
// closes the current step and is not listed in any step; steps without
// fields are dropped. A wizard plan that ends up empty falls back to the
// single step.
func Plan(fields []model.FormField, mode model.LayoutMode) []Step {
	if mode != model.LayoutWizard {
		return singleStep(fields)
	}

	var (
		steps   []Step
		current []model.FormField
		title   string
	)
	flush := func() {
		if len(current) == 0 {
			return
		}
		steps = append(steps, Step{Index: len(steps), Title: title, Fields: current})
		current = nil
	}

	for _, field := range fields {
		if fieldschema.IsDivider(field.Type) {
			flush()
			title = field.Label
			continue
		}
		current = append(current, field)
	}
	flush()

	if len(steps) == 0 {
		return singleStep(fields)
	}
	return steps
}

// PlanDefinition plans def using its own layout mode.
func PlanDefinition(def model.FormDefinition) []Step {
	return Plan(def.Fields, def.LayoutMode)
}

func singleStep(fields []model.FormField) []Step {
	return []Step{{Index: 0, Fields: append([]model.FormField(nil), fields...)}}
}
