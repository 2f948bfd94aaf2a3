// Package formbuilder is the top-level entry point: it re-exports the core
// types and wires the definition loader, the editor and the runtime session
// for callers that do not need the individual packages.
package formbuilder

import (
	"github.com/goliatone/go-formbuilder/pkg/builder"
	"github.com/goliatone/go-formbuilder/pkg/definition"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/runtime"
)

// FormDefinition aliases model.FormDefinition.
type FormDefinition = model.FormDefinition

// FormField aliases model.FormField.
type FormField = model.FormField

// Record aliases model.Record.
type Record = model.Record

// ViewModel aliases render.ViewModel for presentation layers.
type ViewModel = render.ViewModel

// NewEditor starts an authoring session over a fresh definition named name.
func NewEditor(name string, options ...builder.Option) *builder.Editor {
	return builder.NewEmpty(name, options...)
}

// EditFile loads the definition at path into an editor.
func EditFile(path string, options ...builder.Option) (*builder.Editor, error) {
	def, err := definition.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return builder.New(def, options...), nil
}

// Save lints the editor's definition and writes it to path. The definition is
// written even when lint finds issues; the result is returned so callers can
// decide whether to surface them.
func Save(editor *builder.Editor, path string) (definition.LintResult, error) {
	def := editor.Definition()
	result := definition.Lint(def)
	if err := definition.WriteFile(path, def); err != nil {
		return result, err
	}
	return result, nil
}

// Open loads the definition at path and starts a fill session seeded with
// record.
func Open(path string, record Record, options ...runtime.Option) (*runtime.Session, error) {
	def, err := definition.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return runtime.NewSession(def, record, options...), nil
}
