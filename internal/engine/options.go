package engine

import "log/slog"

// Option configures an Engine during creation.
type Option func(*Engine)

// WithTolerance sets the matching tolerance for the engine.
// Invalid tolerances are ignored; the engine keeps its previous value.
func WithTolerance(tol Tolerance) Option {
	return func(e *Engine) {
		if tol.Valid() {
			e.tolerance = tol
		}
	}
}

// WithLogger sets the logger used to report diagnostics after each apply.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}
