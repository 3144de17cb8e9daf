package dcclog

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func TestLevelGating(t *testing.T) {
	var buf bytes.Buffer
	l := New(Info, log.New(&buf, "", 0))

	l.Debugf("debug %d", 1)
	if buf.Len() != 0 {
		t.Fatalf("Debugf wrote output at Info level: %q", buf.String())
	}

	l.Infof("info %d", 2)
	if !strings.Contains(buf.String(), "info 2") {
		t.Fatalf("Infof did not log at Info level: %q", buf.String())
	}

	buf.Reset()
	l.Warnf("warn %d", 3)
	if !strings.Contains(buf.String(), "warn 3") {
		t.Fatalf("Warnf did not log at Info level: %q", buf.String())
	}
}

func TestSilentLoggerNeverWrites(t *testing.T) {
	var buf bytes.Buffer
	l := New(Silent, log.New(&buf, "", 0))
	l.Debugf("x")
	l.Infof("x")
	l.Warnf("x")
	if buf.Len() != 0 {
		t.Fatalf("Silent logger produced output: %q", buf.String())
	}
}

func TestNilLoggerIsSafe(t *testing.T) {
	var l *Logger
	l.Infof("should not panic")
}
