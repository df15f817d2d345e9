package cmd

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/acf-tools/startrack/internal/progression"
	"github.com/acf-tools/startrack/internal/roster"
	"github.com/acf-tools/startrack/internal/syllabus"
)

// loadRegistry returns the builtin syllabi plus any configured directory of
// documents. A single configured document replaces the builtin set.
func loadRegistry() (*syllabus.Registry, error) {
	path := cfg.Syllabus.Path
	if path == "" {
		return syllabus.Builtin()
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("syllabus path: %w", err)
	}

	if info.IsDir() {
		reg, err := syllabus.Builtin()
		if err != nil {
			return nil, err
		}
		if err := reg.LoadDir(path); err != nil {
			return nil, err
		}
		return reg, nil
	}

	s, err := syllabus.LoadFile(path)
	if err != nil {
		return nil, err
	}
	reg := syllabus.NewRegistry()
	if err := reg.Register(s); err != nil {
		return nil, err
	}
	return reg, nil
}

// selectSyllabus resolves the configured syllabus version.
func selectSyllabus() (*syllabus.Syllabus, error) {
	reg, err := loadRegistry()
	if err != nil {
		return nil, err
	}
	if cfg.Syllabus.Version == "" {
		return reg.Latest()
	}
	return reg.Get(cfg.Syllabus.Version)
}

// newEngine builds the progression engine from the configuration.
func newEngine() (*progression.Engine, error) {
	s, err := selectSyllabus()
	if err != nil {
		return nil, err
	}
	sel, err := progression.SelectorByName(cfg.Engine.Selection)
	if err != nil {
		return nil, err
	}
	engine, err := progression.New(s,
		progression.WithSelector(sel),
		progression.WithSummaryCutoff(cfg.Engine.SummaryCutoff),
	)
	if err != nil {
		return nil, fmt.Errorf("create engine: %w", err)
	}

	if unknown := engine.UnknownPredicates(); len(unknown) > 0 {
		logger.Warn("syllabus references predicates with no implementation; tiers using them can never be completed",
			zap.String("syllabus", s.Version()),
			zap.Strings("predicates", unknown))
	}
	logger.Debug("engine ready",
		zap.String("syllabus", s.Version()),
		zap.String("selection", cfg.Engine.Selection),
		zap.Int("summary_cutoff", cfg.Engine.SummaryCutoff))
	return engine, nil
}

func rosterOptions() roster.Options {
	return roster.Options{FlagColumns: cfg.Roster.FlagColumns}
}

// readRoster reads a CSV unit return.
func readRoster(path string, s *syllabus.Syllabus) ([]roster.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open roster: %w", err)
	}
	defer f.Close()

	records, err := roster.ReadCSV(f, s, rosterOptions())
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	logger.Debug("roster loaded", zap.String("path", path), zap.Int("records", len(records)))
	return records, nil
}
