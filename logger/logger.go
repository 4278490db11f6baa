// Package logger builds the per-component logrus loggers used across the
// server and the agent.
package logger

import (
	"errors"
	"io"

	log "github.com/sirupsen/logrus"
)

// ErrNoOutput is returned when a logger is requested without a writer.
var ErrNoOutput = errors.New("logger output is nil")

// New returns a logger writing to out whose entries carry a component field.
// An empty level means info.
func New(component, level string, out io.Writer) (*log.Entry, error) {
	if out == nil {
		return nil, ErrNoOutput
	}

	lvl := log.InfoLevel
	if level != "" {
		var err error
		if lvl, err = log.ParseLevel(level); err != nil {
			return nil, err
		}
	}

	l := log.New()
	l.SetOutput(out)
	l.SetLevel(lvl)
	l.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
		DisableQuote:    true,
	})
	return l.WithField("component", component), nil
}

// Discard returns a logger that drops everything.
func Discard() *log.Entry {
	l := log.New()
	l.SetOutput(io.Discard)
	return log.NewEntry(l)
}
