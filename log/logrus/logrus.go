// Package logrus adapts a *logrus.Entry to bencode.Logger.
package logrus

import (
	"github.com/sirupsen/logrus"

	"github.com/unkn0wn-root/bencode"
)

var _ bencode.Logger = Logger{}

type Logger struct{ E *logrus.Entry }

// New wraps a *logrus.Logger, tagging every record with component=bencode.
func New(l *logrus.Logger) Logger {
	return Logger{E: l.WithField("component", "bencode")}
}

func (l Logger) Debug(msg string, f bencode.Fields) { l.E.WithFields(logrus.Fields(f)).Debug(msg) }
func (l Logger) Info(msg string, f bencode.Fields)  { l.E.WithFields(logrus.Fields(f)).Info(msg) }
func (l Logger) Warn(msg string, f bencode.Fields)  { l.E.WithFields(logrus.Fields(f)).Warn(msg) }
func (l Logger) Error(msg string, f bencode.Fields) { l.E.WithFields(logrus.Fields(f)).Error(msg) }
