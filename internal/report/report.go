// Package report evaluates whole rosters and renders the results as
// terminal tables and spreadsheet workbooks.
package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/acf-tools/startrack/internal/progression"
	"github.com/acf-tools/startrack/internal/roster"
	"github.com/acf-tools/startrack/internal/syllabus"
)

// DefaultWorkers bounds concurrent evaluations when no limit is configured.
const DefaultWorkers = 8

// Row is one individual's record and evaluation.
type Row struct {
	Record  roster.Record       `json:"record"`
	Outcome progression.Outcome `json:"outcome"`
}

// Report is the result of evaluating one roster.
type Report struct {
	RunID     string    `json:"runId"`
	Version   string    `json:"syllabusVersion"`
	Generated time.Time `json:"generated"`
	Rows      []Row     `json:"rows"`
	Summary   Summary   `json:"summary"`

	syllabus *syllabus.Syllabus
}

// Syllabus returns the syllabus the report was evaluated against.
func (r *Report) Syllabus() *syllabus.Syllabus {
	return r.syllabus
}

// Processor evaluates rosters with a bounded pool of workers.
type Processor struct {
	engine  *progression.Engine
	workers int
	log     *zap.Logger
}

// NewProcessor creates a processor. workers < 1 selects DefaultWorkers and a
// nil logger discards output.
func NewProcessor(engine *progression.Engine, workers int, log *zap.Logger) *Processor {
	if workers < 1 {
		workers = DefaultWorkers
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Processor{engine: engine, workers: workers, log: log}
}

// Run evaluates every record and returns the sorted report. It stops early
// and returns the context error if ctx is cancelled.
func (p *Processor) Run(ctx context.Context, records []roster.Record) (*Report, error) {
	if len(records) == 0 {
		return nil, roster.ErrEmptyRoster
	}

	s := p.engine.Syllabus()
	runID := uuid.NewString()
	log := p.log.With(zap.String("run_id", runID), zap.String("syllabus", s.Version()))
	if unknown := p.engine.UnknownPredicates(); len(unknown) > 0 {
		log.Warn("syllabus references predicates with no implementation; they will never hold",
			zap.Strings("predicates", unknown))
	}

	start := time.Now()
	rows := make([]Row, len(records))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, rec := range records {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rows[i] = Row{Record: rec, Outcome: p.engine.Evaluate(rec.Achievements, rec.Context())}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("evaluate roster: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("evaluate roster: %w", err)
	}

	Sort(s, rows)
	rep := &Report{
		RunID:     runID,
		Version:   s.Version(),
		Generated: time.Now().UTC(),
		Rows:      rows,
		Summary:   Summarize(s, rows),
		syllabus:  s,
	}

	log.Info("roster evaluated",
		zap.Int("records", len(rows)),
		zap.Int("workers", p.workers),
		zap.Duration("took", time.Since(start)))
	return rep, nil
}

// ErrNoReport is returned when rendering a nil report.
var ErrNoReport = errors.New("no report")
