package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// LogrusLogger adapts logrus to the ports.Logger interface.
type LogrusLogger struct {
	log *logrus.Logger
}

// New creates a LogrusLogger. Verbose enables debug output.
func New(verbose bool) *LogrusLogger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.InfoLevel)
	}
	return &LogrusLogger{log: log}
}

// NewNop creates a logger that discards everything. Used by tests.
func NewNop() *LogrusLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return &LogrusLogger{log: log}
}

func (l *LogrusLogger) Debug(msg string, fields map[string]interface{}) {
	l.log.WithFields(logrus.Fields(fields)).Debug(msg)
}

func (l *LogrusLogger) Info(msg string, fields map[string]interface{}) {
	l.log.WithFields(logrus.Fields(fields)).Info(msg)
}

func (l *LogrusLogger) Warn(msg string, fields map[string]interface{}) {
	l.log.WithFields(logrus.Fields(fields)).Warn(msg)
}

func (l *LogrusLogger) Error(msg string, err error, fields map[string]interface{}) {
	entry := l.log.WithFields(logrus.Fields(fields))
	if err != nil {
		entry = entry.WithError(err)
	}
	entry.Error(msg)
}
