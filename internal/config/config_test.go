package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Engine.SummaryCutoff != 8 {
		t.Errorf("SummaryCutoff = %d, want 8", cfg.Engine.SummaryCutoff)
	}
	if cfg.GetShutdownTimeout() != 10*time.Second {
		t.Errorf("GetShutdownTimeout = %v", cfg.GetShutdownTimeout())
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "startrack.yaml")
	data := `
engine:
  summary_cutoff: 12
  selection: closest-first
server:
  port: 8080
roster:
  flag_columns:
    MasterCourse: hasMasterCourse
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Engine.SummaryCutoff != 12 || cfg.Engine.Selection != "closest-first" {
		t.Errorf("engine = %+v", cfg.Engine)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if cfg.Server.Host != "localhost" {
		t.Errorf("unset fields keep defaults, host = %q", cfg.Server.Host)
	}
	if cfg.Roster.FlagColumns["MasterCourse"] != "hasMasterCourse" {
		t.Errorf("flag columns = %v", cfg.Roster.FlagColumns)
	}
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Batch.Workers < 1 {
		t.Errorf("workers = %d", cfg.Batch.Workers)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.yaml")
	os.WriteFile(bad, []byte("engine: [1, 2"), 0o644)
	if _, err := Load(bad); err == nil {
		t.Error("expected parse error")
	}

	invalid := filepath.Join(dir, "invalid.yaml")
	os.WriteFile(invalid, []byte("engine:\n  summary_cutoff: 0\n  selection: nearest\nbatch:\n  workers: -1\n"), 0o644)
	_, err := Load(invalid)
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"summary_cutoff", "selection", "workers"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestResolvePath(t *testing.T) {
	t.Setenv(EnvConfigPath, "/etc/startrack.yaml")
	if got := ResolvePath("cli.yaml"); got != "cli.yaml" {
		t.Errorf("flag should win, got %q", got)
	}
	if got := ResolvePath(""); got != "/etc/startrack.yaml" {
		t.Errorf("env fallback, got %q", got)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "startrack.yaml")
	cfg := DefaultConfig()
	cfg.Server.Port = 9000
	if err := cfg.Save(path); err != nil {
		t.Fatal(err)
	}
	again, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if again.Server.Port != 9000 {
		t.Errorf("port = %d", again.Server.Port)
	}
}
