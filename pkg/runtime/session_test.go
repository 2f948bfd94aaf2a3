package runtime

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/testsupport"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

func intakeForm() model.FormDefinition {
	return model.FormDefinition{
		ID:         "intake",
		Version:    1,
		LayoutMode: model.LayoutWizard,
		Fields: []model.FormField{
			{ID: "a", Key: "name", Type: model.FieldTypeText, Label: "Name", Required: true},
			{ID: "b", Key: "details", Type: model.FieldTypeDivider, Label: "Details"},
			{ID: "c", Key: "age", Type: model.FieldTypeNumber, Label: "Age", Validation: &model.Validation{Min: model.Float(18)}},
		},
	}
}

func orderForm() model.FormDefinition {
	return model.FormDefinition{
		ID:         "order",
		Version:    1,
		LayoutMode: model.LayoutSingle,
		Fields: []model.FormField{
			{ID: "p", Key: "price", Type: model.FieldTypeNumber},
			{ID: "q", Key: "qty", Type: model.FieldTypeNumber, DefaultValue: 1.0},
			{ID: "t", Key: "total", Type: model.FieldTypeNumber, Behavior: &model.Behavior{Calculation: "{{price}} * {{qty}}"}},
			{ID: "g", Key: "gift", Type: model.FieldTypeCheckbox},
			{ID: "m", Key: "message", Type: model.FieldTypeTextarea, Required: true,
				Visibility: &model.VisibilityRule{TargetFieldKey: "gift", Operator: model.OperatorTruthy}},
		},
	}
}

func viewKeys(views []render.ViewModel) []string {
	out := make([]string, len(views))
	for i, vm := range views {
		out[i] = vm.Key
	}
	return out
}

func TestWizardValidationAcrossSteps(t *testing.T) {
	t.Parallel()

	s := NewSession(intakeForm(), model.Record{"name": "", "age": 15})
	if s.StepCount() != 2 {
		t.Fatalf("expected 2 steps, got %d", s.StepCount())
	}

	errs := s.ValidateStep()
	if diff := cmp.Diff(validation.Errors{"name": validation.MessageRequired}, errs); diff != "" {
		t.Fatalf("step 1 errors mismatch (-want +got):\n%s", diff)
	}
	if _, ok := s.Advance(); ok {
		t.Fatalf("expected advance to be blocked")
	}

	s.Next()
	view := s.View()
	if view.Step != 1 || view.Title != "Details" || !view.Last {
		t.Fatalf("unexpected view %+v", view)
	}
	if diff := cmp.Diff([]string{"age"}, viewKeys(view.Fields)); diff != "" {
		t.Fatalf("step 2 fields mismatch (-want +got):\n%s", diff)
	}

	s.ValidateStep()
	want := validation.Errors{"name": validation.MessageRequired, "age": "Minimum value is 18."}
	if diff := cmp.Diff(want, s.Errors()); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	if s.View().Fields[0].Error != "Minimum value is 18." {
		t.Fatalf("expected age error attached to view")
	}
}

func TestNavigationDoesNotValidate(t *testing.T) {
	t.Parallel()

	s := NewSession(intakeForm(), nil)
	if got := s.Next(); got != 1 {
		t.Fatalf("expected step 1, got %d", got)
	}
	if got := s.Next(); got != 1 {
		t.Fatalf("expected clamp at last step, got %d", got)
	}
	if !s.Errors().Empty() {
		t.Fatalf("navigation should not produce errors: %v", s.Errors())
	}
	s.Back()
	if got := s.Back(); got != 0 {
		t.Fatalf("expected clamp at first step, got %d", got)
	}
}

func TestSetRecomputesFormulas(t *testing.T) {
	t.Parallel()

	var changes []string
	s := NewSession(orderForm(), nil, WithChangeListener(func(key string, _ any) {
		changes = append(changes, key)
	}))

	if v, _ := s.Value("qty"); v != 1.0 {
		t.Fatalf("expected default qty 1, got %v", v)
	}

	s.Set("price", "10")
	updates := s.Set("qty", 3)
	if diff := cmp.Diff(model.Record{"total": 30.0}, updates); diff != "" {
		t.Fatalf("write-backs mismatch (-want +got):\n%s", diff)
	}
	if v, _ := s.Value("total"); v != 30.0 {
		t.Fatalf("expected total 30, got %v", v)
	}

	// The first total comes from the initial pass with price unset.
	if diff := cmp.Diff([]string{"total", "price", "total", "qty", "total"}, changes); diff != "" {
		t.Fatalf("change notifications mismatch (-want +got):\n%s", diff)
	}

	if updates := s.Set("gift", false); len(updates) != 0 {
		t.Fatalf("unrelated change should not write back, got %v", updates)
	}
}

func TestHiddenFieldsSkipValidationAndKeepValues(t *testing.T) {
	t.Parallel()

	s := NewSession(orderForm(), model.Record{"price": 2})
	if _, err := s.Submit(); err != nil {
		t.Fatalf("hidden required field should not block submit: %v", err)
	}

	s.Set("gift", true)
	if _, err := s.Submit(); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	var invalid *InvalidError
	_, err := s.Submit()
	if !errors.As(err, &invalid) || !invalid.Errors.Has("message") {
		t.Fatalf("expected message error, got %v", err)
	}

	s.Set("message", "Happy birthday")
	s.Set("gift", false)
	rec, err := s.Submit()
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if rec["message"] != "Happy birthday" {
		t.Fatalf("hidden value should be retained, got %v", rec["message"])
	}
	if diff := cmp.Diff([]string{"price", "qty", "total", "gift"}, viewKeys(s.View().Fields)); diff != "" {
		t.Fatalf("visible fields mismatch (-want +got):\n%s", diff)
	}
}

func TestSetRefreshesErrors(t *testing.T) {
	t.Parallel()

	s := NewSession(intakeForm(), nil)
	if _, err := s.Submit(); err == nil {
		t.Fatalf("expected submit to fail")
	}
	if !s.Errors().Has("name") {
		t.Fatalf("expected name error")
	}

	s.Set("name", "Ada")
	if s.Errors().Has("name") {
		t.Fatalf("expected name error cleared, got %v", s.Errors())
	}
	s.Set("age", 12)
	if got := s.Errors()["age"]; got != "Minimum value is 18." {
		t.Fatalf("expected live age error, got %q", got)
	}
}

func TestCyclicFormulasAreSkipped(t *testing.T) {
	t.Parallel()

	def := model.FormDefinition{
		LayoutMode: model.LayoutSingle,
		Fields: []model.FormField{
			{ID: "a", Key: "a", Type: model.FieldTypeNumber, Behavior: &model.Behavior{Calculation: "{{b}} + 1"}},
			{ID: "b", Key: "b", Type: model.FieldTypeNumber, Behavior: &model.Behavior{Calculation: "{{a}} + 1"}},
			{ID: "c", Key: "c", Type: model.FieldTypeNumber, Behavior: &model.Behavior{Calculation: "2 * 3"}},
		},
	}
	s := NewSession(def, nil)
	rec := s.Record()
	if _, ok := rec["a"]; ok {
		t.Fatalf("cyclic field should not be evaluated")
	}
	if rec["c"] != 6.0 {
		t.Fatalf("expected c = 6, got %v", rec["c"])
	}
}

func TestSessionDoesNotShareRecord(t *testing.T) {
	t.Parallel()

	initial := model.Record{"price": 1}
	s := NewSession(orderForm(), initial)
	s.Set("price", 5)
	if initial["price"] != 1 {
		t.Fatalf("session mutated caller record")
	}
	rec := s.Record()
	rec["price"] = 99
	if v, _ := s.Value("price"); v != 5 {
		t.Fatalf("record copy shares state, got %v", v)
	}
}

func TestOrderFixtureComputesTotal(t *testing.T) {
	t.Parallel()

	s := NewSession(testsupport.Fixture(t, "order"), model.Record{"price": "10", "qty": 3})
	if v, _ := s.Value("total"); v != 30.0 {
		t.Fatalf("expected total 30, got %v", v)
	}
	view := s.View()
	if len(view.Fields) != 4 || !view.Fields[2].Computed || view.Fields[2].Text != "30" {
		t.Fatalf("unexpected view %+v", view.Fields)
	}
}

func TestReloadClampsStepAndDropsStaleErrors(t *testing.T) {
	t.Parallel()

	s := NewSession(intakeForm(), model.Record{"name": "Ada", "age": 12})
	s.Next()
	s.ValidateStep()
	if !s.Errors().Has("age") {
		t.Fatalf("expected age error before reload")
	}

	updated := intakeForm()
	updated.LayoutMode = model.LayoutSingle
	updated.Fields = []model.FormField{
		updated.Fields[0],
		{ID: "d", Key: "seats", Type: model.FieldTypeNumber, DefaultValue: 2.0},
		{ID: "e", Key: "double", Type: model.FieldTypeNumber, Behavior: &model.Behavior{Calculation: "{{seats}} * 2"}},
	}

	updates := s.Reload(updated)
	if diff := cmp.Diff(model.Record{"double": 4.0}, updates); diff != "" {
		t.Fatalf("write-backs mismatch (-want +got):\n%s", diff)
	}
	if s.StepCount() != 1 || s.Step().Index != 0 || !s.View().Last {
		t.Fatalf("expected single clamped step, got %d of %d", s.Step().Index, s.StepCount())
	}
	if s.Errors().Has("age") {
		t.Fatalf("errors for removed fields should be dropped: %v", s.Errors())
	}
	if v, _ := s.Value("age"); v != 12 {
		t.Fatalf("record should be kept across reload, got %v", v)
	}
	if v, _ := s.Value("seats"); v != 2.0 {
		t.Fatalf("expected seeded default, got %v", v)
	}
	if diff := cmp.Diff([]string{"name", "seats", "double"}, viewKeys(s.View().Fields)); diff != "" {
		t.Fatalf("view mismatch (-want +got):\n%s", diff)
	}
}
