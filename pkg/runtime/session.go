// Package runtime drives one form-filling session: it owns the record, keeps
// computed fields current, tracks the wizard step and exposes the errors map
// a presentation layer renders from.
package runtime

import (
	"sort"

	"github.com/charmbracelet/log"

	"github.com/goliatone/go-formbuilder/internal/logging"
	"github.com/goliatone/go-formbuilder/pkg/compute"
	"github.com/goliatone/go-formbuilder/pkg/fieldschema"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/validation"
	"github.com/goliatone/go-formbuilder/pkg/visibility"
	"github.com/goliatone/go-formbuilder/pkg/wizard"
)

// Session is not safe for concurrent use. Each end user filling a form gets
// their own.
type Session struct {
	def    model.FormDefinition
	graph  *compute.Graph
	steps  []wizard.Step
	nav    *wizard.Navigator
	record model.Record
	errors validation.Errors

	logger       *log.Logger
	listener     ChangeListener
	skipDefaults bool
}

// View is what the presentation layer draws for the active step.
type View struct {
	Step      int
	StepCount int
	Title     string
	Fields    []render.ViewModel
	Errors    validation.Errors
	First     bool
	Last      bool
}

// NewSession starts filling def with record as the initial values. Missing
// keys are seeded from field defaults and formulas are evaluated once.
func NewSession(def model.FormDefinition, record model.Record, opts ...Option) *Session {
	s := &Session{
		def:    def.Clone(),
		record: record.Clone(),
		errors: validation.Errors{},
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	s.graph = compute.Build(s.def)
	s.steps = wizard.PlanDefinition(s.def)
	s.nav = wizard.NewNavigator(len(s.steps))

	s.seedDefaults()
	if err := s.graph.Cycle(); err != nil {
		s.logger.Warn("computed fields skipped", "err", err)
	}
	s.recompute()
	return s
}

// Reload swaps in an updated definition, typically a builder snapshot, while
// keeping the record. The active step is clamped to the new plan, missing
// keys are seeded from defaults and errors for removed fields are dropped.
// It returns the formula write-backs the new definition produced.
func (s *Session) Reload(def model.FormDefinition) model.Record {
	s.def = def.Clone()
	s.graph = compute.Build(s.def)
	s.steps = wizard.PlanDefinition(s.def)
	s.nav.Resize(len(s.steps))

	s.seedDefaults()
	if err := s.graph.Cycle(); err != nil {
		s.logger.Warn("computed fields skipped", "err", err)
	}
	updates := s.recompute()
	s.refresh(sortedKeys(updates))
	s.logger.Debug("definition reloaded", "fields", len(s.def.Fields), "steps", len(s.steps))
	return updates
}

// Definition returns a copy of the definition being filled.
func (s *Session) Definition() model.FormDefinition {
	return s.def.Clone()
}

// Record returns a copy of the current values.
func (s *Session) Record() model.Record {
	return s.record.Clone()
}

// Value returns the stored value for key.
func (s *Session) Value(key string) (any, bool) {
	return s.record.Lookup(key)
}

// Errors returns a copy of the current errors map.
func (s *Session) Errors() validation.Errors {
	out := make(validation.Errors, len(s.errors))
	for k, v := range s.errors {
		out[k] = v
	}
	return out
}

// Set stores value under key, recomputes formulas and refreshes the error
// for every field whose value changed. It returns the formula write-backs
// the change produced.
func (s *Session) Set(key string, value any) model.Record {
	s.record[key] = model.CloneValue(value)
	s.notify(key, value)

	updates := s.recompute()
	changed := append([]string{key}, sortedKeys(updates)...)
	s.refresh(changed)
	return updates
}

// Steps returns the wizard plan. Outside wizard layout it has one step.
func (s *Session) Steps() []wizard.Step {
	return append([]wizard.Step(nil), s.steps...)
}

// Step returns the active step.
func (s *Session) Step() wizard.Step {
	return s.steps[s.nav.Current()]
}

// StepCount returns the number of steps.
func (s *Session) StepCount() int {
	return s.nav.Count()
}

// Next moves to the following step without validating.
func (s *Session) Next() int {
	return s.nav.Next()
}

// Back moves to the previous step.
func (s *Session) Back() int {
	return s.nav.Back()
}

// Goto jumps to step index, clamped to the plan.
func (s *Session) Goto(index int) int {
	return s.nav.Goto(index)
}

// ValidateStep checks the active step's fields and replaces their entries in
// the errors map. It returns only the active step's errors.
func (s *Session) ValidateStep() validation.Errors {
	step := s.Step()
	for _, field := range step.Fields {
		delete(s.errors, field.Key)
	}
	errs := validation.ValidateFields(step.Fields, s.record)
	for k, v := range errs {
		s.errors[k] = v
	}
	return errs
}

// Advance validates the active step and moves forward only when it is valid.
func (s *Session) Advance() (validation.Errors, bool) {
	errs := s.ValidateStep()
	if !errs.Empty() {
		return errs, false
	}
	s.nav.Next()
	return errs, true
}

// Submit validates every field. On success it returns a copy of the record;
// otherwise the errors map is replaced and an *InvalidError is returned.
func (s *Session) Submit() (model.Record, error) {
	errs := validation.ValidateForm(s.def, s.record)
	s.errors = errs
	if !errs.Empty() {
		return nil, &InvalidError{Errors: s.Errors()}
	}
	return s.Record(), nil
}

// View renders the visible fields of the active step.
func (s *Session) View() View {
	step := s.Step()
	fields := visibility.VisibleFields(step.Fields, s.record)
	return View{
		Step:      step.Index,
		StepCount: s.nav.Count(),
		Title:     step.Title,
		Fields:    render.RenderFields(fields, s.record, s.errors),
		Errors:    s.Errors(),
		First:     s.nav.IsFirst(),
		Last:      s.nav.IsLast(),
	}
}

func (s *Session) seedDefaults() {
	if s.skipDefaults {
		return
	}
	for _, field := range s.def.Fields {
		if !fieldschema.CarriesData(field.Type) || field.DefaultValue == nil {
			continue
		}
		if _, set := s.record[field.Key]; !set {
			s.record[field.Key] = model.CloneValue(field.DefaultValue)
		}
	}
}

func (s *Session) recompute() model.Record {
	result := s.graph.Recompute(s.record)
	for key, err := range result.Failures {
		s.logger.Debug("formula skipped", "key", key, "err", err)
	}
	for _, key := range sortedKeys(result.Updates) {
		value := result.Updates[key]
		s.record[key] = value
		s.notify(key, value)
	}
	return result.Updates
}

// refresh re-validates the changed keys and drops errors for fields that
// are no longer visible or editable.
func (s *Session) refresh(changed []string) {
	for _, key := range changed {
		field, ok := s.def.FieldByKey(key)
		if !ok {
			continue
		}
		errs := validation.ValidateFields([]model.FormField{field}, s.record)
		if msg, failed := errs[key]; failed {
			s.errors[key] = msg
		} else {
			delete(s.errors, key)
		}
	}

	for key := range s.errors {
		field, ok := s.def.FieldByKey(key)
		if !ok || field.ReadOnly() || !visibility.IsVisible(field, s.record) {
			delete(s.errors, key)
		}
	}
}

func (s *Session) notify(key string, value any) {
	if s.listener != nil {
		s.listener(key, model.CloneValue(value))
	}
}

func sortedKeys(record model.Record) []string {
	keys := make([]string, 0, len(record))
	for k := range record {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
