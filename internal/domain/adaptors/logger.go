package adaptors

import "fmt"

type LogLevel string

const (
	Trace LogLevel = "trace"
	Debug LogLevel = "debug"
	Info  LogLevel = "info"
	Warn  LogLevel = "warn"
	Error LogLevel = "error"
)

// ParseLogLevel accepts the levels the service can be configured with.
func ParseLogLevel(s string) (LogLevel, error) {
	switch l := LogLevel(s); l {
	case Trace, Debug, Info, Warn, Error:
		return l, nil
	default:
		return "", fmt.Errorf("unsupported log level %q", s)
	}
}
