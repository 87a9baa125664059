package dvbtext

// Severity classifies a diagnostic message.
type Severity int

const (
	SeverityDebug Severity = iota
	SeverityInfo
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	}
	return "unknown"
}

// Logger is the diagnostic sink for the decode pipeline. It is invoked for
// reserved encodings, unsupported charsets and forbidden characters; it is
// never part of the data path.
type Logger interface {
	Log(level Severity, format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Log(Severity, string, ...any) {}

// NopLogger discards all diagnostics.
var NopLogger Logger = nopLogger{}
