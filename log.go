package smbclient

import (
	"github.com/sirupsen/logrus"
)

// Logger interface for logging operations.
//
// *logrus.Logger satisfies it and is the default. Loggers that also provide
// Tracef and Errorf get leveled output; plain Printf loggers receive every
// message.
type Logger interface {
	Printf(format string, v ...interface{})
}

type tracer interface {
	Tracef(format string, v ...interface{})
}

type errorer interface {
	Errorf(format string, v ...interface{})
}

type logger struct {
	l Logger
}

func newLogger(l Logger) logger {
	if l == nil {
		l = logrus.StandardLogger()
	}
	return logger{l: l}
}

func defaultLogger() logger {
	return newLogger(nil)
}

func (lg logger) tracef(format string, v ...interface{}) {
	if t, ok := lg.l.(tracer); ok {
		t.Tracef(format, v...)
		return
	}
	lg.l.Printf(format, v...)
}

func (lg logger) errorf(format string, v ...interface{}) {
	if e, ok := lg.l.(errorer); ok {
		e.Errorf(format, v...)
		return
	}
	lg.l.Printf(format, v...)
}
