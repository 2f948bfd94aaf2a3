package runtime

import "github.com/charmbracelet/log"

// ChangeListener is told about every value stored in the record, whether it
// came from Set or from a formula write-back.
type ChangeListener func(key string, value any)

// Option configures a Session.
type Option func(*Session)

// WithLogger attaches a logger. Skipped formulas are logged at debug level.
func WithLogger(logger *log.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithChangeListener registers fn for record changes.
func WithChangeListener(fn ChangeListener) Option {
	return func(s *Session) {
		s.listener = fn
	}
}

// WithoutDefaults leaves keys missing from the initial record unset instead
// of seeding them from field defaults.
func WithoutDefaults() Option {
	return func(s *Session) {
		s.skipDefaults = true
	}
}
