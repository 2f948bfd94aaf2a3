package builder

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("f%d", n)
	}
}

func newEditor(t *testing.T, count int, opts ...Option) *Editor {
	t.Helper()

	opts = append([]Option{WithIDGenerator(sequentialIDs())}, opts...)
	e := NewEmpty("Test form", opts...)
	for i := 0; i < count; i++ {
		if _, err := e.AddField(model.FieldTypeText); err != nil {
			t.Fatalf("add field %d: %v", i, err)
		}
	}
	return e
}

func ids(e *Editor) []string {
	def := e.Definition()
	out := make([]string, len(def.Fields))
	for i, field := range def.Fields {
		out[i] = field.ID
	}
	return out
}

func TestNewNormalizesDefinition(t *testing.T) {
	t.Parallel()

	e := New(model.FormDefinition{Name: "Intake"})
	def := e.Definition()
	if def.Version != 1 {
		t.Fatalf("expected version 1, got %d", def.Version)
	}
	if def.LayoutMode != model.LayoutSingle {
		t.Fatalf("expected single layout, got %q", def.LayoutMode)
	}
	if def.ID == "" {
		t.Fatalf("expected generated form id")
	}
}

func TestNewCopiesInput(t *testing.T) {
	t.Parallel()

	src := model.FormDefinition{
		ID:      "form",
		Version: 3,
		Fields:  []model.FormField{{ID: "a", Key: "a", Type: model.FieldTypeText, Label: "A"}},
	}
	e := New(src)
	e.UpdateField("a", FieldPatch{Label: Ptr("changed")})

	if src.Fields[0].Label != "A" {
		t.Fatalf("editor mutated caller definition")
	}
	if e.Definition().ID != "form" || e.Definition().Version != 3 {
		t.Fatalf("expected id and version preserved, got %+v", e.Definition())
	}
}

func TestAddFieldSelectsAndAppends(t *testing.T) {
	t.Parallel()

	e := newEditor(t, 2)
	field, err := e.AddField(model.FieldTypeSelect)
	if err != nil {
		t.Fatalf("add select: %v", err)
	}
	if field.ID != "f3" || field.Key != "select_f3" {
		t.Fatalf("unexpected field %+v", field)
	}
	if diff := cmp.Diff([]string{"Option 1", "Option 2"}, field.Options); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
	if e.SelectedID() != "f3" {
		t.Fatalf("expected new field selected, got %q", e.SelectedID())
	}
	if diff := cmp.Diff([]string{"f1", "f2", "f3"}, ids(e)); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestInsertFieldAtIndex(t *testing.T) {
	t.Parallel()

	e := newEditor(t, 2)
	if _, err := e.InsertField(model.FieldTypeDivider, 0); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := e.InsertField(model.FieldTypeText, 99); err != nil {
		t.Fatalf("insert out of range: %v", err)
	}
	if diff := cmp.Diff([]string{"f3", "f1", "f2", "f4"}, ids(e)); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestAddFieldRejectsUnknownType(t *testing.T) {
	t.Parallel()

	e := newEditor(t, 0)
	_, err := e.AddField(model.FieldType("hologram"))
	if !errors.Is(err, ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
	if e.Len() != 0 {
		t.Fatalf("expected no fields, got %d", e.Len())
	}
}

func TestCapacityInvariant(t *testing.T) {
	t.Parallel()

	e := newEditor(t, model.MaxFields)
	before := e.Definition()

	if _, err := e.AddField(model.FieldTypeText); !errors.Is(err, ErrCapacity) {
		t.Fatalf("expected ErrCapacity, got %v", err)
	}
	if err := e.DuplicateField("f1"); !errors.Is(err, ErrCapacity) {
		t.Fatalf("expected ErrCapacity on copy, got %v", err)
	}
	if diff := cmp.Diff(before, e.Definition()); diff != "" {
		t.Fatalf("definition changed at capacity (-want +got):\n%s", diff)
	}
}

func TestMoveFieldScenario(t *testing.T) {
	t.Parallel()

	e := newEditor(t, 3)
	if err := e.MoveField("f2", 0, false); err != nil {
		t.Fatalf("move: %v", err)
	}
	if diff := cmp.Diff([]string{"f2", "f1", "f3"}, ids(e)); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestMoveFieldIndexCorrection(t *testing.T) {
	t.Parallel()

	const n = 5
	for from := 0; from < n; from++ {
		for to := 0; to <= n; to++ {
			from, to := from, to
			t.Run(fmt.Sprintf("%d_to_%d", from, to), func(t *testing.T) {
				t.Parallel()

				e := newEditor(t, n)
				original := ids(e)
				moved := original[from]

				if err := e.MoveField(moved, to, false); err != nil {
					t.Fatalf("move: %v", err)
				}
				got := ids(e)

				if to == from || to == from+1 {
					if diff := cmp.Diff(original, got); diff != "" {
						t.Fatalf("adjacent drop should be a no-op (-want +got):\n%s", diff)
					}
					return
				}
				if len(got) != n {
					t.Fatalf("expected %d fields, got %d", n, len(got))
				}
				pos := indexOf(got, moved)
				if to == n {
					if pos != n-1 {
						t.Fatalf("expected %s last, got %v", moved, got)
					}
				} else if pos+1 >= n || got[pos+1] != original[to] {
					t.Fatalf("expected %s right before %s, got %v", moved, original[to], got)
				}

				rest := append(append([]string{}, got[:pos]...), got[pos+1:]...)
				want := append(append([]string{}, original[:from]...), original[from+1:]...)
				if diff := cmp.Diff(want, rest); diff != "" {
					t.Fatalf("other fields reordered (-want +got):\n%s", diff)
				}
			})
		}
	}
}

func indexOf(list []string, id string) int {
	for i, v := range list {
		if v == id {
			return i
		}
	}
	return -1
}

func TestMoveFieldCopy(t *testing.T) {
	t.Parallel()

	e := newEditor(t, 3)
	e.UpdateValidation("f1", ValidationPatch{Min: Ptr(2.0)})
	src, _ := e.Field("f1")

	if err := e.MoveField("f1", 3, true); err != nil {
		t.Fatalf("copy: %v", err)
	}
	if e.Len() != 4 {
		t.Fatalf("expected 4 fields, got %d", e.Len())
	}
	if diff := cmp.Diff([]string{"f1", "f2", "f3", "f4"}, ids(e)); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}

	clone, ok := e.Field("f4")
	if !ok {
		t.Fatalf("expected clone f4")
	}
	if clone.Key != src.Key+"_copy" || clone.Label != src.Label+" (Copy)" {
		t.Fatalf("unexpected clone key/label %q %q", clone.Key, clone.Label)
	}
	if e.SelectedID() != "f4" {
		t.Fatalf("expected clone selected, got %q", e.SelectedID())
	}

	e.UpdateValidation("f4", ValidationPatch{Min: Ptr(9.0)})
	after, _ := e.Field("f1")
	if diff := cmp.Diff(src, after); diff != "" {
		t.Fatalf("source changed through clone (-want +got):\n%s", diff)
	}
}

func TestMoveFieldCopyDoesNotAdjustIndex(t *testing.T) {
	t.Parallel()

	e := newEditor(t, 3)
	if err := e.MoveField("f1", 2, true); err != nil {
		t.Fatalf("copy: %v", err)
	}
	if diff := cmp.Diff([]string{"f1", "f2", "f4", "f3"}, ids(e)); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestDuplicateFieldInsertsAfterSource(t *testing.T) {
	t.Parallel()

	e := newEditor(t, 3)
	if err := e.DuplicateField("f2"); err != nil {
		t.Fatalf("duplicate: %v", err)
	}
	if diff := cmp.Diff([]string{"f1", "f2", "f4", "f3"}, ids(e)); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestNotFoundOperationsAreNoOps(t *testing.T) {
	t.Parallel()

	e := newEditor(t, 2)
	before := e.Definition()

	if err := e.MoveField("missing", 0, false); err != nil {
		t.Fatalf("move: %v", err)
	}
	if err := e.MoveField("missing", 0, true); err != nil {
		t.Fatalf("copy: %v", err)
	}
	if err := e.DuplicateField("missing"); err != nil {
		t.Fatalf("duplicate: %v", err)
	}
	if err := e.UpdateField("missing", FieldPatch{Label: Ptr("x")}); err != nil {
		t.Fatalf("update: %v", err)
	}
	e.UpdateBehavior("missing", BehaviorPatch{ReadOnly: Ptr(true)})
	e.ToggleVisibilityRule("missing", true)
	if _, ok := e.DeleteField("missing"); ok {
		t.Fatalf("expected delete of unknown id to report false")
	}
	if e.Select("missing") {
		t.Fatalf("expected select of unknown id to fail")
	}

	if diff := cmp.Diff(before, e.Definition()); diff != "" {
		t.Fatalf("definition changed (-want +got):\n%s", diff)
	}
}

func TestUpdateFieldShallowMerge(t *testing.T) {
	t.Parallel()

	e := newEditor(t, 1)
	e.UpdateValidation("f1", ValidationPatch{Max: Ptr(10.0)})

	err := e.UpdateField("f1", FieldPatch{
		Label:    Ptr("Full name"),
		Key:      Ptr("name"),
		Required: Ptr(true),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	field, _ := e.Field("f1")
	if field.Label != "Full name" || field.Key != "name" || !field.Required {
		t.Fatalf("patch not applied: %+v", field)
	}
	if field.Validation == nil || field.Validation.Max == nil || *field.Validation.Max != 10 {
		t.Fatalf("expected validation untouched, got %+v", field.Validation)
	}
	if field.Placeholder != "" || field.Type != model.FieldTypeText {
		t.Fatalf("unset members changed: %+v", field)
	}
}

func TestUpdateFieldTypeSeedsOptions(t *testing.T) {
	t.Parallel()

	e := newEditor(t, 1)
	if err := e.UpdateField("f1", FieldPatch{Type: Ptr(model.FieldTypeTags)}); err != nil {
		t.Fatalf("update: %v", err)
	}
	field, _ := e.Field("f1")
	if diff := cmp.Diff([]string{"Option 1", "Option 2"}, field.Options); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestNestedUpdatesKeepSiblings(t *testing.T) {
	t.Parallel()

	e := newEditor(t, 1)
	e.UpdateValidation("f1", ValidationPatch{Min: Ptr(1.0)})
	e.UpdateValidation("f1", ValidationPatch{Pattern: Ptr("^[a-z]+$")})
	e.UpdateAppearance("f1", AppearancePatch{Prefix: Ptr("$")})
	e.UpdateAppearance("f1", AppearancePatch{Suffix: Ptr("USD")})
	e.UpdateBehavior("f1", BehaviorPatch{ReadOnly: Ptr(true)})
	e.UpdateBehavior("f1", BehaviorPatch{Calculation: Ptr("{{a}} + 1")})
	e.UpdateDataSource("f1", DataSourcePatch{Type: Ptr(model.DataSourceAPI)})
	e.UpdateDataSource("f1", DataSourcePatch{Endpoint: Ptr("/countries")})
	e.UpdateLayout("f1", LayoutPatch{Width: Ptr(model.WidthHalf)})

	field, _ := e.Field("f1")
	want := model.FormField{
		ID:         "f1",
		Type:       model.FieldTypeText,
		Label:      "New Text Field",
		Key:        "text_f1",
		Layout:     model.Layout{Width: model.WidthHalf},
		Appearance: &model.Appearance{Prefix: "$", Suffix: "USD"},
		Validation: &model.Validation{Min: model.Float(1), Pattern: "^[a-z]+$"},
		DataSource: &model.DataSource{Type: model.DataSourceAPI, Endpoint: "/countries"},
		Behavior:   &model.Behavior{ReadOnly: true, Calculation: "{{a}} + 1"},
	}
	if diff := cmp.Diff(want, field); diff != "" {
		t.Fatalf("field mismatch (-want +got):\n%s", diff)
	}
}

func TestToggleVisibilityRule(t *testing.T) {
	t.Parallel()

	e := newEditor(t, 1)
	e.ToggleVisibilityRule("f1", true)

	field, _ := e.Field("f1")
	want := &model.VisibilityRule{TargetFieldKey: "", Operator: model.OperatorEq, Value: ""}
	if diff := cmp.Diff(want, field.Visibility); diff != "" {
		t.Fatalf("rule mismatch (-want +got):\n%s", diff)
	}

	e.UpdateVisibility("f1", VisibilityPatch{TargetFieldKey: Ptr("plan"), Value: "pro"})
	field, _ = e.Field("f1")
	if field.Visibility.TargetFieldKey != "plan" || field.Visibility.Operator != model.OperatorEq {
		t.Fatalf("unexpected rule %+v", field.Visibility)
	}

	e.ToggleVisibilityRule("f1", false)
	field, _ = e.Field("f1")
	if field.Visibility != nil {
		t.Fatalf("expected rule removed, got %+v", field.Visibility)
	}
}

func TestDeleteField(t *testing.T) {
	t.Parallel()

	e := newEditor(t, 2)
	if _, err := e.InsertField(model.FieldTypeDivider, 1); err != nil {
		t.Fatalf("insert divider: %v", err)
	}

	if !e.RequiresConfirmation("f3") {
		t.Fatalf("expected divider to require confirmation")
	}
	if e.RequiresConfirmation("f1") {
		t.Fatalf("text field should not require confirmation")
	}

	res, ok := e.DeleteField("f3")
	if !ok || !res.WasDivider || res.Index != 1 || res.Field.ID != "f3" {
		t.Fatalf("unexpected delete result %+v ok=%v", res, ok)
	}
	if e.SelectedID() != "" {
		t.Fatalf("expected selection cleared, got %q", e.SelectedID())
	}
	if diff := cmp.Diff([]string{"f1", "f2"}, ids(e)); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestChangeListenerAndClock(t *testing.T) {
	t.Parallel()

	stamp := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	var snapshots []model.FormDefinition
	e := newEditor(t, 0,
		WithClock(func() time.Time { return stamp }),
		WithChangeListener(func(def model.FormDefinition) { snapshots = append(snapshots, def) }),
	)

	if _, err := e.AddField(model.FieldTypeNumber); err != nil {
		t.Fatalf("add: %v", err)
	}
	e.SetName("Renamed")
	if err := e.SetLayoutMode(model.LayoutWizard); err != nil {
		t.Fatalf("layout: %v", err)
	}

	if len(snapshots) != 3 {
		t.Fatalf("expected 3 snapshots, got %d", len(snapshots))
	}
	last := snapshots[2]
	if last.Name != "Renamed" || last.LayoutMode != model.LayoutWizard || !last.LastModified.Equal(stamp) {
		t.Fatalf("unexpected snapshot %+v", last)
	}

	snapshots[2].Fields[0].Label = "mutated"
	if field, _ := e.Field("f1"); field.Label == "mutated" {
		t.Fatalf("snapshot shares state with editor")
	}
}

func TestSetLayoutModeRejectsUnknown(t *testing.T) {
	t.Parallel()

	e := newEditor(t, 0)
	if err := e.SetLayoutMode("grid"); !errors.Is(err, ErrInvalidLayout) {
		t.Fatalf("expected ErrInvalidLayout, got %v", err)
	}
}

func TestBumpVersion(t *testing.T) {
	t.Parallel()

	e := newEditor(t, 0)
	if v := e.BumpVersion(); v != 2 {
		t.Fatalf("expected version 2, got %d", v)
	}
}

func TestUniqueKeysPolicy(t *testing.T) {
	t.Parallel()

	e := newEditor(t, 2, WithUniqueKeys())
	if err := e.UpdateField("f1", FieldPatch{Key: Ptr("name")}); err != nil {
		t.Fatalf("rename: %v", err)
	}
	err := e.UpdateField("f2", FieldPatch{Key: Ptr("name")})
	if !errors.Is(err, ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey, got %v", err)
	}

	if err := e.DuplicateField("f1"); err != nil {
		t.Fatalf("duplicate: %v", err)
	}
	if err := e.DuplicateField("f1"); err != nil {
		t.Fatalf("duplicate again: %v", err)
	}
	first, _ := e.Field("f3")
	second, _ := e.Field("f4")
	if first.Key != "name_copy" || second.Key != "name_copy2" {
		t.Fatalf("unexpected copy keys %q %q", first.Key, second.Key)
	}
}

func TestDuplicateKeysAllowedByDefault(t *testing.T) {
	t.Parallel()

	e := newEditor(t, 2)
	if err := e.UpdateField("f2", FieldPatch{Key: Ptr("text_f1")}); err != nil {
		t.Fatalf("expected duplicate key to be accepted, got %v", err)
	}
	if !e.Diagnostics().HasIssue("fields[1].key") {
		t.Fatalf("expected duplicate key diagnostic, got %+v", e.Diagnostics())
	}
}
