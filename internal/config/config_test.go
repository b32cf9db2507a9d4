package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "nifc.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.ProjectRoot != "" || c.DefaultStop != "" {
		t.Fatalf("expected zero-value default config, got %+v", c)
	}
}

func TestLoadParsesFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nifc.yaml")
	src := "project-root: .\ndefault-stop-after: check\nruntime-symbols:\n  thread_state: my_rt_thread_state\n"
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.DefaultStop != "check" {
		t.Fatalf("expected default-stop-after 'check', got %q", c.DefaultStop)
	}
	if c.RuntimeSymbols.ThreadState != "my_rt_thread_state" {
		t.Fatalf("expected overridden thread_state symbol, got %q", c.RuntimeSymbols.ThreadState)
	}
}

func TestLoadRejectsInvalidStopPhase(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nifc.yaml")
	if err := os.WriteFile(path, []byte("default-stop-after: bogus\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error for invalid default-stop-after")
	}
}
