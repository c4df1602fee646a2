// Package logger builds the logrus entries used across the pipeline.
//
// Every entry carries the service name and a run_id that is unique per CLI
// invocation, so log lines from extract, transform and load of the same run
// can be correlated.
package logger

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/xid"
	log "github.com/sirupsen/logrus"
)

// Logger is the subset of logrus used by pipeline stages. *logrus.Entry
// satisfies it.
type Logger interface {
	WithField(key string, value interface{}) *log.Entry
	WithFields(fields log.Fields) *log.Entry
	WithError(err error) *log.Entry
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// Options configures New.
type Options struct {
	Service string
	Level   string
	JSON    bool
	Out     io.Writer
}

// New creates a dedicated logrus logger and returns an entry pre-populated
// with service and run_id fields.
func New(opt Options) (*log.Entry, error) {
	l := log.New()
	l.SetOutput(os.Stderr)
	if opt.Out != nil {
		l.SetOutput(opt.Out)
	}
	level := opt.Level
	if level == "" {
		level = "info"
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, errors.Wrapf(err, "logger: invalid level %q", level)
	}
	l.SetLevel(lvl)
	if opt.JSON {
		l.SetFormatter(&log.JSONFormatter{})
	} else {
		l.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	service := opt.Service
	if service == "" {
		service = "sportetl"
	}
	return l.WithFields(log.Fields{
		"service": service,
		"run_id":  xid.New().String(),
	}), nil
}

// Discard returns an entry that drops everything. Useful as a default when a
// caller does not supply a logger.
func Discard() *log.Entry {
	l := log.New()
	l.SetOutput(io.Discard)
	return log.NewEntry(l)
}
