// Package logging is the project's structured-logging seam. Server and
// client code log through the Logger interface; the concrete backend
// (slog here) is picked at wiring time.
package logging

import "context"

// Logger is a context-aware, structured logger. Variadic args are
// alternating keys and values:
//
//	log.Info(ctx, "task claimed", "task_id", id, "worker", worker)
type Logger interface {
	// Debug logs fine-grained diagnostic details, such as issued sign-in codes.
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs unusual but non-fatal conditions, such as dropped events.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that stamps the given pairs on every record.
	With(args ...any) Logger
}
