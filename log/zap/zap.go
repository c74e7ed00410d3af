// Package zap adapts a *zap.Logger to bencode.Logger.
package zap

import (
	"go.uber.org/zap"

	"github.com/unkn0wn-root/bencode"
)

var _ bencode.Logger = Logger{}

type Logger struct{ L *zap.Logger }

// New wraps l; a nil l yields a no-op logger.
func New(l *zap.Logger) Logger {
	if l == nil {
		l = zap.NewNop()
	}
	return Logger{L: l}
}

func (z Logger) Debug(msg string, f bencode.Fields) { z.L.Debug(msg, fields(f)...) }
func (z Logger) Info(msg string, f bencode.Fields)  { z.L.Info(msg, fields(f)...) }
func (z Logger) Warn(msg string, f bencode.Fields)  { z.L.Warn(msg, fields(f)...) }
func (z Logger) Error(msg string, f bencode.Fields) { z.L.Error(msg, fields(f)...) }

func fields(f bencode.Fields) []zap.Field {
	if len(f) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, len(f))
	for k, v := range f {
		if err, ok := v.(error); ok {
			out = append(out, zap.NamedError(k, err))
			continue
		}
		out = append(out, zap.Any(k, v))
	}
	return out
}
