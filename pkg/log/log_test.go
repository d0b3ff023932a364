package log

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestLoggerFromContext(t *testing.T) {
	var buf bytes.Buffer
	ctx := ContextWithLogger(context.Background(), NewLogger(&buf, 0))

	GetLoggerFromContextWithName(ctx, "cuckoo").Info("mapped elements", "bins", 4)
	GetLoggerFromContextWithName(ctx, "cuckoo").V(1).Info("hidden at verbosity 0")

	out := buf.String()
	if !strings.Contains(out, "lutcuckoo/cuckoo") || !strings.Contains(out, "mapped elements") {
		t.Errorf("logger output: want name and message, got: %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("logger output: V(1) message printed at verbosity 0: %q", out)
	}
}

func TestInvalidVerbosity(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, 3)

	if !strings.Contains(buf.String(), "Invalid verbosity") {
		t.Errorf("want a message on invalid verbosity, got: %q", buf.String())
	}
}

func TestLoggerFromBareContext(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, 1)

	GetLoggerFromContextWithName(context.Background(), "cuckoo").Info("discarded")
	logger.V(1).Info("still at verbosity 1")

	out := buf.String()
	if strings.Contains(out, "discarded") {
		t.Errorf("logger without a context logger wrote output: %q", out)
	}
	if !strings.Contains(out, "still at verbosity 1") {
		t.Errorf("verbosity of an existing logger was reset: %q", out)
	}
}
