package core

// Logger is implemented by every log backend.
// args may carry errors, maps of extras and the active session (used as the reported person).
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
