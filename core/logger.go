package core

// Logger is any service that can report application events.
// expected args: error, map[string]interface{}, Principal
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}

// Principal identifies the operator behind a request, for error reports.
type Principal struct {
	ID       string
	Username string
	Email    string
}
