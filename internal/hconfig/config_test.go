package hconfig

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Mode != "client" || cfg.Addr == "" || cfg.LogLevel != "info" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestParseRejectsInvalidMode(t *testing.T) {
	if _, err := Parse([]string{"-mode", "bogus"}); err == nil {
		t.Fatal("expected error for invalid mode")
	}
}

func TestParseRejectsInvalidLogLevel(t *testing.T) {
	if _, err := Parse([]string{"-log-level", "verbose"}); err == nil {
		t.Fatal("expected error for invalid log level")
	}
}

func TestParseRejectsEmptyAddr(t *testing.T) {
	if _, err := Parse([]string{"-addr", ""}); err == nil {
		t.Fatal("expected error for empty addr")
	}
}

func TestConfigFileFillsUnsetFlags(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hyperion.yaml")
	yaml := "mode: server\naddr: 0.0.0.0:9000\nlog_level: debug\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Parse([]string{"-config", path})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Mode != "server" || cfg.Addr != "0.0.0.0:9000" || cfg.LogLevel != "debug" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestFlagsTakePrecedenceOverConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hyperion.yaml")
	yaml := "mode: server\naddr: 0.0.0.0:9000\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Parse([]string{"-config", path, "-mode", "client"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Mode != "client" {
		t.Fatalf("expected flag to win, got mode %q", cfg.Mode)
	}
	if cfg.Addr != "0.0.0.0:9000" {
		t.Fatalf("expected file value for unset flag, got %q", cfg.Addr)
	}
}

func TestParseRejectsMissingConfigFile(t *testing.T) {
	if _, err := Parse([]string{"-config", "/nonexistent/hyperion.yaml"}); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
