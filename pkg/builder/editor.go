package builder

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/goliatone/go-formbuilder/internal/logging"
	"github.com/goliatone/go-formbuilder/pkg/definition"
	"github.com/goliatone/go-formbuilder/pkg/fieldschema"
	"github.com/goliatone/go-formbuilder/pkg/model"
)

// Editor owns one form definition during an authoring session and keeps its
// field list consistent under structural edits. It is not safe for concurrent
// use; a session has a single active editor.
type Editor struct {
	def      model.FormDefinition
	selected string
	drag     *Drag

	newID      func() string
	now        func() time.Time
	logger     *log.Logger
	listener   ChangeListener
	uniqueKeys bool
}

// New starts an editing session over a copy of def. A zero version is
// raised to 1 and an empty layout mode becomes single.
func New(def model.FormDefinition, opts ...Option) *Editor {
	e := &Editor{
		def:    def.Clone(),
		newID:  fieldschema.NewID,
		now:    time.Now,
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	if e.def.Version < 1 {
		e.def.Version = 1
	}
	if e.def.LayoutMode == "" {
		e.def.LayoutMode = model.LayoutSingle
	}
	if e.def.ID == "" {
		e.def.ID = fieldschema.NewID()
	}
	return e
}

// NewEmpty starts a session over a fresh, empty definition.
func NewEmpty(name string, opts ...Option) *Editor {
	e := New(model.FormDefinition{Name: name}, opts...)
	e.def.LastModified = e.now()
	return e
}

// Definition returns a snapshot of the current definition.
func (e *Editor) Definition() model.FormDefinition {
	return e.def.Clone()
}

// Len returns the number of fields.
func (e *Editor) Len() int {
	return len(e.def.Fields)
}

// Field returns a copy of the field with id.
func (e *Editor) Field(id string) (model.FormField, bool) {
	field, ok := e.def.Field(id)
	if !ok {
		return model.FormField{}, false
	}
	return field.Clone(), true
}

// SelectedID returns the active field id, empty when nothing is selected.
func (e *Editor) SelectedID() string {
	return e.selected
}

// Selected returns the active field.
func (e *Editor) Selected() (model.FormField, bool) {
	if e.selected == "" {
		return model.FormField{}, false
	}
	return e.Field(e.selected)
}

// Select makes id the active field. An empty id clears the selection;
// unknown ids are ignored.
func (e *Editor) Select(id string) bool {
	if id == "" {
		e.selected = ""
		return true
	}
	if e.def.IndexOf(id) < 0 {
		e.logger.Debug("select ignored, field not found", "id", id)
		return false
	}
	e.selected = id
	return true
}

// AddField appends a default field of type t and selects it.
func (e *Editor) AddField(t model.FieldType) (model.FormField, error) {
	return e.InsertField(t, len(e.def.Fields))
}

// InsertField inserts a default field of type t at index and selects it. An
// index outside [0, len] appends.
func (e *Editor) InsertField(t model.FieldType, index int) (model.FormField, error) {
	if len(e.def.Fields) >= model.MaxFields {
		e.logger.Debug("add rejected, form at capacity", "type", t, "fields", len(e.def.Fields))
		return model.FormField{}, ErrCapacity
	}
	if !fieldschema.Valid(t) {
		return model.FormField{}, fmt.Errorf("%w: %q", ErrUnknownType, t)
	}

	field := fieldschema.NewField(t, e.newID())
	if index < 0 || index > len(e.def.Fields) {
		index = len(e.def.Fields)
	}
	e.def.Fields = insertAt(e.def.Fields, index, field)
	e.selected = field.ID
	e.touch()
	return field.Clone(), nil
}

// MoveField relocates or copies the field fromID so it lands before the
// field currently at toIndex.
//
// A copy gets a fresh id, the key <key>_copy and the label "<label> (Copy)",
// is inserted at toIndex as given, and becomes the selection. A move is a
// no-op when toIndex is the field's own index or the one after it; otherwise
// the field is removed first and toIndex is shifted down by one when it lay
// after the original position. Unknown ids are ignored.
func (e *Editor) MoveField(fromID string, toIndex int, isCopy bool) error {
	from := e.def.IndexOf(fromID)
	if from < 0 {
		e.logger.Debug("move ignored, field not found", "id", fromID)
		return nil
	}
	n := len(e.def.Fields)
	if toIndex < 0 {
		toIndex = 0
	}
	if toIndex > n {
		toIndex = n
	}

	if isCopy {
		if n >= model.MaxFields {
			e.logger.Debug("copy rejected, form at capacity", "id", fromID, "fields", n)
			return ErrCapacity
		}
		clone := e.copyOf(e.def.Fields[from])
		e.def.Fields = insertAt(e.def.Fields, toIndex, clone)
		e.selected = clone.ID
		e.touch()
		return nil
	}

	if toIndex == from || toIndex == from+1 {
		return nil
	}

	field := e.def.Fields[from]
	e.def.Fields = append(e.def.Fields[:from], e.def.Fields[from+1:]...)
	if from < toIndex {
		toIndex--
	}
	e.def.Fields = insertAt(e.def.Fields, toIndex, field)
	e.touch()
	return nil
}

// DuplicateField copies id to the position right after it.
func (e *Editor) DuplicateField(id string) error {
	idx := e.def.IndexOf(id)
	if idx < 0 {
		e.logger.Debug("duplicate ignored, field not found", "id", id)
		return nil
	}
	return e.MoveField(id, idx+1, true)
}

// UpdateField shallow-merges patch into the field with id. Changing the type
// to select or tags seeds default options when the field has none.
func (e *Editor) UpdateField(id string, patch FieldPatch) error {
	idx := e.def.IndexOf(id)
	if idx < 0 {
		e.logger.Debug("update ignored, field not found", "id", id)
		return nil
	}
	if e.uniqueKeys && patch.Key != nil && e.keyTaken(*patch.Key, id) {
		return fmt.Errorf("%w: %q", ErrDuplicateKey, *patch.Key)
	}

	field := &e.def.Fields[idx]
	patch.apply(field)
	if fieldschema.HasOptions(field.Type) && len(field.Options) == 0 {
		field.Options = append([]string(nil), fieldschema.DefaultOptions...)
	}
	e.touch()
	return nil
}

// UpdateValidation merges patch into the field's validation settings,
// creating them when absent.
func (e *Editor) UpdateValidation(id string, patch ValidationPatch) {
	e.mutate(id, "validation", func(field *model.FormField) {
		if field.Validation == nil {
			field.Validation = &model.Validation{}
		}
		patch.apply(field.Validation)
	})
}

// UpdateLayout merges patch into the field's layout.
func (e *Editor) UpdateLayout(id string, patch LayoutPatch) {
	e.mutate(id, "layout", func(field *model.FormField) {
		patch.apply(&field.Layout)
	})
}

// UpdateAppearance merges patch into the field's appearance, creating it when
// absent.
func (e *Editor) UpdateAppearance(id string, patch AppearancePatch) {
	e.mutate(id, "appearance", func(field *model.FormField) {
		if field.Appearance == nil {
			field.Appearance = &model.Appearance{}
		}
		patch.apply(field.Appearance)
	})
}

// UpdateDataSource merges patch into the field's data source, creating it
// when absent.
func (e *Editor) UpdateDataSource(id string, patch DataSourcePatch) {
	e.mutate(id, "dataSource", func(field *model.FormField) {
		if field.DataSource == nil {
			field.DataSource = &model.DataSource{}
		}
		patch.apply(field.DataSource)
	})
}

// UpdateBehavior merges patch into the field's behavior, creating it when
// absent.
func (e *Editor) UpdateBehavior(id string, patch BehaviorPatch) {
	e.mutate(id, "behavior", func(field *model.FormField) {
		if field.Behavior == nil {
			field.Behavior = &model.Behavior{}
		}
		patch.apply(field.Behavior)
	})
}

// UpdateVisibility edits the field's rule, installing the default rule first
// when the field has none.
func (e *Editor) UpdateVisibility(id string, patch VisibilityPatch) {
	e.mutate(id, "visibility", func(field *model.FormField) {
		if field.Visibility == nil {
			field.Visibility = defaultRule()
		}
		patch.apply(field.Visibility)
	})
}

// ToggleVisibilityRule installs the default rule when enabled and removes the
// rule entirely when disabled, so the field is always visible again.
func (e *Editor) ToggleVisibilityRule(id string, enabled bool) {
	e.mutate(id, "visibility", func(field *model.FormField) {
		if !enabled {
			field.Visibility = nil
			return
		}
		field.Visibility = defaultRule()
	})
}

// DeleteResult describes a removed field.
type DeleteResult struct {
	Field model.FormField
	Index int
	// WasDivider is set when the removed field was a separator; in wizard
	// layout that may merge two steps.
	WasDivider bool
}

// RequiresConfirmation reports whether deleting id removes a divider. The
// editor never asks; callers decide whether to confirm first.
func (e *Editor) RequiresConfirmation(id string) bool {
	field, ok := e.def.Field(id)
	return ok && fieldschema.IsDivider(field.Type)
}

// DeleteField removes the field with id. ok is false for unknown ids.
func (e *Editor) DeleteField(id string) (DeleteResult, bool) {
	idx := e.def.IndexOf(id)
	if idx < 0 {
		e.logger.Debug("delete ignored, field not found", "id", id)
		return DeleteResult{}, false
	}
	field := e.def.Fields[idx]
	e.def.Fields = append(e.def.Fields[:idx], e.def.Fields[idx+1:]...)
	if e.selected == id {
		e.selected = ""
	}
	if e.drag != nil {
		if src, ok := e.drag.Source.(FieldItem); ok && src.ID == id {
			e.drag = nil
		}
	}
	e.touch()
	return DeleteResult{Field: field, Index: idx, WasDivider: fieldschema.IsDivider(field.Type)}, true
}

// SetName renames the form.
func (e *Editor) SetName(name string) {
	e.def.Name = name
	e.touch()
}

// SetDescription updates the form description.
func (e *Editor) SetDescription(description string) {
	e.def.Description = description
	e.touch()
}

// SetLayoutMode switches between single page and wizard layout.
func (e *Editor) SetLayoutMode(mode model.LayoutMode) error {
	if mode != model.LayoutSingle && mode != model.LayoutWizard {
		return fmt.Errorf("%w: %q", ErrInvalidLayout, mode)
	}
	e.def.LayoutMode = mode
	e.touch()
	return nil
}

// BumpVersion increments the definition version, typically on save, and
// returns the new value.
func (e *Editor) BumpVersion() int {
	e.def.Version++
	e.touch()
	return e.def.Version
}

// Diagnostics lints the current definition: duplicate keys, formula cycles
// and broken rule references. It never mutates anything.
func (e *Editor) Diagnostics() definition.LintResult {
	return definition.Lint(e.def)
}

func (e *Editor) mutate(id, section string, fn func(*model.FormField)) {
	idx := e.def.IndexOf(id)
	if idx < 0 {
		e.logger.Debug("update ignored, field not found", "id", id, "section", section)
		return
	}
	fn(&e.def.Fields[idx])
	e.touch()
}

func (e *Editor) touch() {
	e.def.LastModified = e.now()
	if e.listener != nil {
		e.listener(e.def.Clone())
	}
}

func (e *Editor) copyOf(src model.FormField) model.FormField {
	clone := src.Clone()
	clone.ID = e.newID()
	clone.Label = src.Label + " (Copy)"
	clone.Key = src.Key + "_copy"
	if e.uniqueKeys {
		base := clone.Key
		for n := 2; e.keyTaken(clone.Key, ""); n++ {
			clone.Key = fmt.Sprintf("%s%d", base, n)
		}
	}
	return clone
}

func (e *Editor) keyTaken(key, exceptID string) bool {
	for _, field := range e.def.Fields {
		if field.ID != exceptID && field.Key == key {
			return true
		}
	}
	return false
}

func defaultRule() *model.VisibilityRule {
	return &model.VisibilityRule{TargetFieldKey: "", Operator: model.OperatorEq, Value: ""}
}

func insertAt(fields []model.FormField, index int, field model.FormField) []model.FormField {
	fields = append(fields, model.FormField{})
	copy(fields[index+1:], fields[index:])
	fields[index] = field
	return fields
}
