package core

// Logger is implemented by the logging service.
// args may carry errors, extra data maps and the acting permission.Subject (reported as the person).
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
