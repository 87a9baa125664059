// Package logging adapts logrus to the dvbtext diagnostic sink.
package logging

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/Saner2oo2/tv-grab-dvb-plus/internal/dvbtext"
)

// New returns a diagnostic sink writing to w. Verbose lowers the threshold
// to debug; the default only passes warnings and errors, which is what the
// decode pipeline emits for broken fields.
func New(w io.Writer, verbose bool) dvbtext.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if verbose {
		l.SetLevel(logrus.DebugLevel)
	} else {
		l.SetLevel(logrus.WarnLevel)
	}
	return &sink{l: l}
}

type sink struct {
	l *logrus.Logger
}

func (s *sink) Log(level dvbtext.Severity, format string, args ...any) {
	switch level {
	case dvbtext.SeverityDebug:
		s.l.Debugf(format, args...)
	case dvbtext.SeverityInfo:
		s.l.Infof(format, args...)
	case dvbtext.SeverityWarning:
		s.l.Warnf(format, args...)
	default:
		s.l.Errorf(format, args...)
	}
}
