package modkit

// Logger defines the interface for framework logging.
// The framework uses structured logging with key-value pairs:
//
//	logger.Info("message", "key1", "value1", "key2", "value2")
//
// Every App and every wrapped Module gets its own Logger carrying its id.
// Logging never influences control flow.
type Logger interface {
	// Info logs normal lifecycle events, such as a phase completing.
	Info(msg string, args ...any)

	// Error logs failures, such as a hook reporting an error.
	Error(msg string, args ...any)

	// Warn logs unusual conditions that do not stop the current operation.
	Warn(msg string, args ...any)

	// Debug logs detailed diagnostics, such as the computed module order.
	Debug(msg string, args ...any)
}
