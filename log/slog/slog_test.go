package slog

import (
	"bytes"
	stdslog "log/slog"
	"strings"
	"testing"

	"github.com/unkn0wn-root/bencode"
)

func TestSlogAdapter(t *testing.T) {
	var buf bytes.Buffer
	l := Logger{L: stdslog.New(stdslog.NewTextHandler(&buf, &stdslog.HandlerOptions{Level: stdslog.LevelDebug}))}

	l.Warn("bencode: something odd", bencode.Fields{"size": 3, "err": "bad"})
	out := buf.String()
	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, "err=bad size=3") {
		t.Fatalf("unexpected output %q", out)
	}
}
