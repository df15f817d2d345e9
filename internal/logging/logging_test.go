package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/acf-tools/startrack/internal/config"
)

func TestNew_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "startrack.log")
	log, err := New(config.LoggingConfig{Output: []string{path}})
	if err != nil {
		t.Fatal(err)
	}
	log.Info("roster evaluated", zap.Int("records", 3))
	log.Debug("hidden")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	if !strings.Contains(out, `"msg":"roster evaluated"`) || !strings.Contains(out, `"records":3`) {
		t.Errorf("unexpected log output: %s", out)
	}
	if strings.Contains(out, "hidden") {
		t.Error("debug entries should be dropped at info level")
	}
}

func TestNew_Debug(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")
	log, err := New(config.LoggingConfig{Debug: true, Output: []string{path}})
	if err != nil {
		t.Fatal(err)
	}
	log.Debug("visible")
	_ = log.Sync()

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "visible") {
		t.Errorf("debug entry missing: %s", data)
	}
}

func TestNew_BadOutput(t *testing.T) {
	if _, err := New(config.LoggingConfig{Output: []string{"/nonexistent-dir/x/y.log"}}); err == nil {
		t.Error("expected error for unwritable output path")
	}
}
