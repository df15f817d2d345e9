// Package config holds the startrack configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/acf-tools/startrack/internal/progression"
	"github.com/acf-tools/startrack/internal/report"
)

// EnvConfigPath names the environment variable holding the config file path.
const EnvConfigPath = "STARTRACK_CONFIG"

// Config is the startrack configuration.
type Config struct {
	Logging  LoggingConfig  `yaml:"logging"`
	Syllabus SyllabusConfig `yaml:"syllabus"`
	Engine   EngineConfig   `yaml:"engine"`
	Batch    BatchConfig    `yaml:"batch"`
	Server   ServerConfig   `yaml:"server"`
	Roster   RosterConfig   `yaml:"roster"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Debug  bool     `yaml:"debug"`
	Output []string `yaml:"output"` // zap output paths, e.g. stderr or a file
}

// SyllabusConfig selects the syllabus to evaluate against.
type SyllabusConfig struct {
	// Path is a syllabus document or a directory of them. Empty means the
	// builtin syllabi only.
	Path string `yaml:"path"`

	// Version picks a registered version. Empty means the latest.
	Version string `yaml:"version"`
}

// EngineConfig tunes the gap report.
type EngineConfig struct {
	SummaryCutoff int    `yaml:"summary_cutoff"`
	Selection     string `yaml:"selection"` // schema-order, closest-first
}

// BatchConfig controls roster evaluation.
type BatchConfig struct {
	Workers int `yaml:"workers"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Host            string `yaml:"host"`
	Port            int    `yaml:"port"`
	MaxUploadBytes  int64  `yaml:"max_upload_bytes"`
	ShutdownTimeout string `yaml:"shutdown_timeout"`
}

// RosterConfig controls roster ingestion.
type RosterConfig struct {
	// FlagColumns maps a CSV header to the context flag it sets.
	FlagColumns map[string]string `yaml:"flag_columns"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Output: []string{"stderr"},
		},
		Engine: EngineConfig{
			SummaryCutoff: progression.DefaultSummaryCutoff,
			Selection:     "schema-order",
		},
		Batch: BatchConfig{
			Workers: report.DefaultWorkers,
		},
		Server: ServerConfig{
			Host:            "localhost",
			Port:            5000,
			MaxUploadBytes:  10 << 20,
			ShutdownTimeout: "10s",
		},
		Roster: RosterConfig{
			FlagColumns: map[string]string{
				"MCC": progression.FlagMasterCourse,
				"CA":  progression.FlagCommandantAward,
			},
		},
	}
}

// ResolvePath returns the config file path: flagValue if set, else the
// STARTRACK_CONFIG environment variable. Empty means defaults only.
func ResolvePath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv(EnvConfigPath)
}

// Load reads the configuration at path over the defaults. An empty path
// returns the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", filepath.Base(path), err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", filepath.Base(path), err)
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []string
	if c.Engine.SummaryCutoff < 1 {
		errs = append(errs, fmt.Sprintf("engine.summary_cutoff must be at least 1, got %d", c.Engine.SummaryCutoff))
	}
	if _, err := progression.SelectorByName(c.Engine.Selection); err != nil {
		errs = append(errs, "engine.selection: "+err.Error())
	}
	if c.Batch.Workers < 1 {
		errs = append(errs, fmt.Sprintf("batch.workers must be at least 1, got %d", c.Batch.Workers))
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be in [0, 65535], got %d", c.Server.Port))
	}
	if c.Server.MaxUploadBytes < 1 {
		errs = append(errs, "server.max_upload_bytes must be positive")
	}
	if _, err := time.ParseDuration(c.Server.ShutdownTimeout); err != nil {
		errs = append(errs, fmt.Sprintf("server.shutdown_timeout: %v", err))
	}
	if len(errs) > 0 {
		return errors.New("invalid configuration:\n  " + strings.Join(errs, "\n  "))
	}
	return nil
}

// GetShutdownTimeout returns the server shutdown timeout as a duration.
func (c *Config) GetShutdownTimeout() time.Duration {
	d, err := time.ParseDuration(c.Server.ShutdownTimeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}
