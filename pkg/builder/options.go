package builder

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// ChangeListener receives a snapshot after every mutation, for autosave or
// live preview.
type ChangeListener func(model.FormDefinition)

// Option configures an Editor.
type Option func(*Editor)

// WithIDGenerator overrides the field id source (uuid by default).
func WithIDGenerator(fn func() string) Option {
	return func(e *Editor) {
		if fn != nil {
			e.newID = fn
		}
	}
}

// WithClock overrides the timestamp source used for LastModified.
func WithClock(fn func() time.Time) Option {
	return func(e *Editor) {
		if fn != nil {
			e.now = fn
		}
	}
}

// WithLogger attaches a logger. No-op operations and rejections are logged at
// debug level.
func WithLogger(logger *log.Logger) Option {
	return func(e *Editor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithChangeListener registers fn to receive snapshots after each mutation.
func WithChangeListener(fn ChangeListener) Option {
	return func(e *Editor) {
		e.listener = fn
	}
}

// WithUniqueKeys makes the editor reject key collisions in UpdateField and
// number copied keys (<key>_copy, <key>_copy2, ...) so they stay unique.
// Without it key uniqueness is the caller's responsibility.
func WithUniqueKeys() Option {
	return func(e *Editor) {
		e.uniqueKeys = true
	}
}
