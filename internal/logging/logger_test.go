package logging

import (
	"bytes"
	"strings"
	"sync"
	"testing"
)

func newTestLogger(level Level) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	log := &Logger{level, "test", &buf, new(sync.Mutex)}
	return log, &buf
}

func TestLogFiltersByLevel(t *testing.T) {
	log, buf := newTestLogger(Warn)

	log.Debug("should not appear")
	if buf.Len() != 0 {
		t.Fatalf("Debug message logged at Warn level: %q", buf.String())
	}

	log.Warn("dropped candidate: %s", "host")
	if !strings.Contains(buf.String(), "dropped candidate: host") {
		t.Fatalf("expected message in output, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "/test") {
		t.Fatalf("expected tag in output, got %q", buf.String())
	}
}

func TestSetDestinationRedirects(t *testing.T) {
	log := DefaultLogger.WithTag("redirect-test")
	log.Level = Info

	var first, second bytes.Buffer
	log.SetDestination(&first)
	log.Info("to first")
	if !strings.Contains(first.String(), "to first") {
		t.Fatalf("expected message in first buffer, got %q", first.String())
	}
	if second.Len() != 0 {
		t.Fatalf("expected second buffer untouched, got %q", second.String())
	}

	log.SetDestination(&second)
	log.Info("to second")
	if !strings.Contains(second.String(), "to second") {
		t.Fatalf("expected message in second buffer, got %q", second.String())
	}
}

func TestWithTagInheritsDestinationAndLevel(t *testing.T) {
	var buf bytes.Buffer
	parent := &Logger{Debug, "parent", &buf, new(sync.Mutex)}
	child := parent.WithTag("child")

	child.Debug("from child")
	if !strings.Contains(buf.String(), "from child") {
		t.Fatalf("expected child to share parent's destination, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "/child") {
		t.Fatalf("expected child's own tag in output, got %q", buf.String())
	}
}
