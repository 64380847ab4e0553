// Package logger holds the process-wide structured logger. Output is
// JSON on stdout so the analysis pipeline's lifecycle events and
// request logs are machine-parseable. The level comes from the config
// layer via SetLevel; until then the logger runs at info.
package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

var Logger = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	return l
}

// SetLevel applies the configured log level. Unrecognized values keep
// the current level rather than failing startup.
func SetLevel(level string) {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		Logger.WithField("log_level", level).Warn("Unrecognized log level, keeping info")
		return
	}
	Logger.SetLevel(parsed)
}

// WithFields creates an entry carrying structured fields
func WithFields(fields logrus.Fields) *logrus.Entry {
	return Logger.WithFields(fields)
}

// WithField creates an entry carrying a single field
func WithField(key string, value interface{}) *logrus.Entry {
	return Logger.WithField(key, value)
}

// WithError creates an entry carrying an error field
func WithError(err error) *logrus.Entry {
	return Logger.WithError(err)
}
