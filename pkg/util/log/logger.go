package log

import (
	"github.com/sirupsen/logrus"
)

const (
	fieldComponent = "component"
	fieldPackage   = "package"
)

// FieldLogger Wraps the StdLogger, and provides logrus methods for logging with fields
type FieldLogger interface {
	StdLogger
	WithField(key string, value interface{}) FieldLogger
	WithFields(fields logrus.Fields) FieldLogger
	WithError(err error) FieldLogger
	WithComponent(name string) FieldLogger
	WithPackage(name string) FieldLogger
}

// StdLogger interface for logging methods found in the go standard library logger.
type StdLogger interface {
	Debug(v ...interface{})
	Debugf(format string, v ...interface{})
	Error(v ...interface{})
	Errorf(format string, v ...interface{})
	Info(v ...interface{})
	Infof(format string, v ...interface{})
	Trace(v ...interface{})
	Tracef(format string, v ...interface{})
	Warn(v ...interface{})
	Warnf(format string, v ...interface{})
}

// NewFieldLogger returns a FieldLogger backed by the package logger
func NewFieldLogger() FieldLogger {
	return &logger{entry: logrus.NewEntry(log)}
}

type logger struct {
	entry *logrus.Entry
}

func (l *logger) Debug(v ...interface{}) {
	l.entry.Debug(v...)
}

func (l *logger) Debugf(format string, v ...interface{}) {
	l.entry.Debugf(format, v...)
}

func (l *logger) Error(v ...interface{}) {
	l.entry.Error(v...)
}

func (l *logger) Errorf(format string, v ...interface{}) {
	l.entry.Errorf(format, v...)
}

func (l *logger) Info(v ...interface{}) {
	l.entry.Info(v...)
}

func (l *logger) Infof(format string, v ...interface{}) {
	l.entry.Infof(format, v...)
}

func (l *logger) Trace(v ...interface{}) {
	l.entry.Trace(v...)
}

func (l *logger) Tracef(format string, v ...interface{}) {
	l.entry.Tracef(format, v...)
}

func (l *logger) Warn(v ...interface{}) {
	l.entry.Warn(v...)
}

func (l *logger) Warnf(format string, v ...interface{}) {
	l.entry.Warnf(format, v...)
}

// WithField adds a field to the log message
func (l *logger) WithField(key string, value interface{}) FieldLogger {
	return &logger{entry: l.entry.WithField(key, value)}
}

// WithFields adds multiple fields to the log message
func (l *logger) WithFields(fields logrus.Fields) FieldLogger {
	return &logger{entry: l.entry.WithFields(fields)}
}

// WithError adds an error field to the message
func (l *logger) WithError(err error) FieldLogger {
	return &logger{entry: l.entry.WithError(err)}
}

// WithComponent tags the logger with the component emitting the message
func (l *logger) WithComponent(name string) FieldLogger {
	return l.WithField(fieldComponent, name)
}

// WithPackage tags the logger with the package emitting the message
func (l *logger) WithPackage(name string) FieldLogger {
	return l.WithField(fieldPackage, name)
}
