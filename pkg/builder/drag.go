package builder

import "github.com/goliatone/go-formbuilder/pkg/model"

// DragSource is what is being dragged: a palette entry (LibraryItem) or an
// existing field (FieldItem).
type DragSource interface {
	dragSource()
}

// LibraryItem drags a new field of Type from the palette.
type LibraryItem struct {
	Type model.FieldType
}

// FieldItem drags the existing field ID.
type FieldItem struct {
	ID string
}

func (LibraryItem) dragSource() {}
func (FieldItem) dragSource()   {}

// Drag is the single in-flight drag. Target is the last hovered insertion
// index, -1 before the first hover.
type Drag struct {
	Source       DragSource
	CopyModifier bool
	Target       int
}

// BeginLibraryDrag starts dragging a new field of type t, replacing any stale
// drag.
func (e *Editor) BeginLibraryDrag(t model.FieldType) {
	e.drag = &Drag{Source: LibraryItem{Type: t}, Target: -1}
}

// BeginFieldDrag starts dragging the field id, replacing any stale drag.
// Unknown ids leave no drag in flight.
func (e *Editor) BeginFieldDrag(id string) bool {
	if e.def.IndexOf(id) < 0 {
		e.logger.Debug("drag ignored, field not found", "id", id)
		e.drag = nil
		return false
	}
	e.drag = &Drag{Source: FieldItem{ID: id}, Target: -1}
	return true
}

// Hover records the candidate insertion index and modifier state.
func (e *Editor) Hover(index int, copyModifier bool) {
	if e.drag == nil {
		return
	}
	e.drag.Target = index
	e.drag.CopyModifier = copyModifier
}

// Drag returns the in-flight drag.
func (e *Editor) Drag() (Drag, bool) {
	if e.drag == nil {
		return Drag{}, false
	}
	return *e.drag, true
}

// CancelDrag discards the in-flight drag.
func (e *Editor) CancelDrag() {
	e.drag = nil
}

// Release completes the drag at the last hovered index with the hovered
// modifier state. A drag that was never hovered is discarded.
func (e *Editor) Release() error {
	if e.drag == nil || e.drag.Target < 0 {
		e.drag = nil
		return nil
	}
	return e.Drop(e.drag.Target, e.drag.CopyModifier)
}

// Drop completes the drag at index, overriding any hovered state. Library items become AddField at index;
// fields become MoveField with copyModifier deciding move versus copy. The
// drag is cleared whatever the outcome. Dropping with nothing in flight is a
// no-op.
func (e *Editor) Drop(index int, copyModifier bool) error {
	drag := e.drag
	e.drag = nil
	if drag == nil {
		return nil
	}

	switch src := drag.Source.(type) {
	case LibraryItem:
		_, err := e.InsertField(src.Type, index)
		return err
	case FieldItem:
		return e.MoveField(src.ID, index, copyModifier)
	default:
		return nil
	}
}
