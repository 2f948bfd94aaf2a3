package fieldschema

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

func TestTypesCoverClosedEnum(t *testing.T) {
	t.Parallel()

	types := Types()
	if len(types) != 17 {
		t.Fatalf("expected 17 field types, got %d", len(types))
	}
	for _, ft := range types {
		if !Valid(ft) {
			t.Fatalf("type %q listed but not valid", ft)
		}
	}
	if Valid(model.FieldType("checkbox-group")) {
		t.Fatalf("unexpected type accepted")
	}
}

func TestCapabilities(t *testing.T) {
	t.Parallel()

	cases := []struct {
		typ     model.FieldType
		options bool
		numeric bool
		text    bool
		data    bool
	}{
		{model.FieldTypeSelect, true, false, false, true},
		{model.FieldTypeTags, true, false, false, true},
		{model.FieldTypeNumber, false, true, false, true},
		{model.FieldTypeSlider, false, true, false, true},
		{model.FieldTypeRating, false, true, false, true},
		{model.FieldTypeText, false, false, true, true},
		{model.FieldTypePassword, false, false, true, true},
		{model.FieldTypeDivider, false, false, false, false},
	}
	for _, tc := range cases {
		if got := HasOptions(tc.typ); got != tc.options {
			t.Errorf("%s HasOptions=%v want %v", tc.typ, got, tc.options)
		}
		if got := IsNumeric(tc.typ); got != tc.numeric {
			t.Errorf("%s IsNumeric=%v want %v", tc.typ, got, tc.numeric)
		}
		if got := IsText(tc.typ); got != tc.text {
			t.Errorf("%s IsText=%v want %v", tc.typ, got, tc.text)
		}
		if got := CarriesData(tc.typ); got != tc.data {
			t.Errorf("%s CarriesData=%v want %v", tc.typ, got, tc.data)
		}
	}

	spec, _ := Lookup(model.FieldTypeFile)
	if !spec.Upload || !spec.SupportsValidation() {
		t.Fatalf("file should support upload validation: %+v", spec)
	}
	spec, _ = Lookup(model.FieldTypeSignature)
	if spec.SupportsValidation() {
		t.Fatalf("signature should not expose validation settings")
	}
}

func TestNewFieldSeedsOptions(t *testing.T) {
	t.Parallel()

	field := NewField(model.FieldTypeSelect, "0f8e2a91-7c4d-4c1e-9d1b-5a2f6c3e8b70")
	if diff := cmp.Diff([]string{"Option 1", "Option 2"}, field.Options); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
	if field.Key != "select_0f8e2a91" {
		t.Fatalf("unexpected key %q", field.Key)
	}
	if field.Layout.Width != model.WidthFull {
		t.Fatalf("expected full width, got %q", field.Layout.Width)
	}
	if field.DataSource == nil || field.DataSource.Type != model.DataSourceStatic {
		t.Fatalf("expected static data source, got %+v", field.DataSource)
	}

	field.Options[0] = "changed"
	if DefaultOptions[0] != "Option 1" {
		t.Fatalf("default options mutated through field")
	}
}

func TestNewFieldSkeletons(t *testing.T) {
	t.Parallel()

	rich := NewField(model.FieldTypeRichText, "ab-cd")
	if rich.Key != "rich_text_abcd" {
		t.Fatalf("unexpected key %q", rich.Key)
	}
	if rich.Label != "New Rich Text Field" {
		t.Fatalf("unexpected label %q", rich.Label)
	}

	slider := NewField(model.FieldTypeSlider, "id")
	if slider.Validation == nil || *slider.Validation.Min != 0 || *slider.Validation.Max != 100 {
		t.Fatalf("unexpected slider validation %+v", slider.Validation)
	}

	divider := NewField(model.FieldTypeDivider, "id")
	if divider.Label != "Section" || divider.Options != nil {
		t.Fatalf("unexpected divider skeleton %+v", divider)
	}
}
