package hlog

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestSetLevelAndLevelRoundTrip(t *testing.T) {
	Init()
	t.Cleanup(func() { _ = SetLevel("info") })

	if err := SetLevel("debug"); err != nil {
		t.Fatalf("set level: %v", err)
	}
	if Level() != "DEBUG" {
		t.Fatalf("got %q want DEBUG", Level())
	}
}

func TestSetLevelRejectsUnknown(t *testing.T) {
	if err := SetLevel("verbose"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestUseWriterCapturesOutput(t *testing.T) {
	var buf bytes.Buffer
	UseWriter(&buf)
	t.Cleanup(func() { UseWriter(noopWriter{}) })

	_ = SetLevel("info")
	Info("hello", "key", "value")

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("expected JSON log line, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "hello" || entry["key"] != "value" {
		t.Fatalf("unexpected log entry: %+v", entry)
	}
}

func TestUseWriterRespectsLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	UseWriter(&buf)
	t.Cleanup(func() { UseWriter(noopWriter{}) })

	_ = SetLevel("warn")
	Debug("should be filtered out")
	if buf.Len() != 0 {
		t.Fatalf("expected no output below configured level, got %q", buf.String())
	}
}

func TestWithPacketAttachesFields(t *testing.T) {
	var buf bytes.Buffer
	UseWriter(&buf)
	t.Cleanup(func() { UseWriter(noopWriter{}) })
	_ = SetLevel("info")

	l := WithPacket(Logger(), "abc-123", 4)
	l.Info("chunk received")

	out := buf.String()
	if !strings.Contains(out, "abc-123") || !strings.Contains(out, `"total_chunks":4`) {
		t.Fatalf("expected packet fields in log line, got %q", out)
	}
}

func TestParseLevelDefaultsEmptyToInfo(t *testing.T) {
	lvl, ok := parseLevel("")
	if !ok || lvl != slog.LevelInfo {
		t.Fatalf("expected info for empty string, got %v, %v", lvl, ok)
	}
}

type noopWriter struct{}

func (noopWriter) Write(p []byte) (int, error) { return len(p), nil }
