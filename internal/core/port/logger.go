package port

// Fields carries structured data into a log entry.
type Fields map[string]interface{}

// LoggerPort abstracts the application core from the concrete logger.
type LoggerPort interface {
	Info(msg string, fields Fields)
	Warn(msg string, fields Fields)

	// Error logs a failure, usually together with the error object.
	Error(msg string, err error, fields Fields)

	Debug(msg string, fields Fields)

	// WithFields returns a logger with the fields pre-attached. Useful for
	// request context such as trace_id.
	WithFields(fields Fields) LoggerPort
}
