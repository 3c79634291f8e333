package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is a small wrapper over logrus so callers depend on a handful of methods.
type Logger struct {
	l *logrus.Logger
}

// NewLogger creates a text logger on stderr at info level.
func NewLogger() *Logger {
	return New(os.Stderr)
}

// New creates a text logger writing to out at info level.
func New(out io.Writer) *Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	return &Logger{l: l}
}

// SetLevel sets verbosity from a name such as "debug" or "warn".
func (l *Logger) SetLevel(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("logging level: %w", err)
	}
	l.l.SetLevel(lvl)
	return nil
}

// SetJSON switches between JSON and text output.
func (l *Logger) SetJSON(json bool) {
	if json {
		l.l.SetFormatter(&logrus.JSONFormatter{})
		return
	}
	l.l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "2006-01-02 15:04:05"})
}

// SetFile sends all further output to path, appending to it. The caller closes the
// returned file when done logging.
func (l *Logger) SetFile(path string) (io.Closer, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	l.l.SetOutput(f)
	return f, nil
}

// With returns an entry carrying the given field for structured output.
func (l *Logger) With(key string, value any) *logrus.Entry {
	return l.l.WithField(key, value)
}

func (l *Logger) Info(msg string) {
	l.l.Info(msg)
}

func (l *Logger) Infof(format string, args ...any) {
	l.l.Infof(format, args...)
}

func (l *Logger) Debugf(format string, args ...any) {
	l.l.Debugf(format, args...)
}

func (l *Logger) Warnf(format string, args ...any) {
	l.l.Warnf(format, args...)
}

func (l *Logger) Errorf(format string, args ...any) {
	l.l.Errorf(format, args...)
}
