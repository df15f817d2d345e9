// Package progression decides which qualification tier an individual has
// completed and what they still need for the next one.
//
// The pipeline is Normalize → IsTierComplete → Resolve → PathTo. Every step
// is a pure function of its arguments and the engine's immutable syllabus,
// so one Engine can be shared across goroutines.
package progression

import (
	"errors"
	"slices"

	"github.com/acf-tools/startrack/internal/syllabus"
)

// Engine evaluates achievement records against one syllabus.
type Engine struct {
	syllabus      *syllabus.Syllabus
	predicates    *Predicates
	selector      Selector
	summaryCutoff int

	// tier ids in ascending order
	order []syllabus.TierID
	// record subjects outside any merge window
	plainSubjects []syllabus.SubjectCode
	merges        []syllabus.Merge
}

// Option configures an Engine.
type Option func(*Engine) error

// WithPredicates replaces the builtin predicate registry.
func WithPredicates(p *Predicates) Option {
	return func(e *Engine) error {
		if p == nil {
			return errors.New("predicate registry must not be nil")
		}
		e.predicates = p
		return nil
	}
}

// WithSelector sets how missing group candidates are suggested.
func WithSelector(sel Selector) Option {
	return func(e *Engine) error {
		if sel == nil {
			return errors.New("selector must not be nil")
		}
		e.selector = sel
		return nil
	}
}

// WithSummaryCutoff sets the default summarization cutoff.
func WithSummaryCutoff(n int) Option {
	return func(e *Engine) error {
		if n < 1 {
			return errors.New("summary cutoff must be at least 1")
		}
		e.summaryCutoff = n
		return nil
	}
}

// New creates an engine for s.
func New(s *syllabus.Syllabus, options ...Option) (*Engine, error) {
	if s == nil {
		return nil, errors.New("syllabus must not be nil")
	}

	e := &Engine{
		syllabus:      s,
		predicates:    DefaultPredicates(),
		selector:      SchemaOrder{},
		summaryCutoff: DefaultSummaryCutoff,
		merges:        s.Merges(),
	}
	for _, opt := range options {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	for _, t := range s.Tiers() {
		e.order = append(e.order, t.ID)
	}
	for _, sub := range s.RecordSubjects() {
		if _, merged := s.MergeFor(sub.Code); !merged {
			e.plainSubjects = append(e.plainSubjects, sub.Code)
		}
	}
	return e, nil
}

// Syllabus returns the syllabus the engine evaluates against.
func (e *Engine) Syllabus() *syllabus.Syllabus {
	return e.syllabus
}

// UnknownPredicates returns predicate names the syllabus references but the
// engine's registry does not define. Such predicates always fail.
func (e *Engine) UnknownPredicates() []string {
	var out []string
	for _, t := range e.syllabus.Tiers() {
		for _, name := range t.Rule.Predicates {
			if _, ok := e.predicates.Lookup(name); !ok && !slices.Contains(out, name) {
				out = append(out, name)
			}
		}
	}
	slices.Sort(out)
	return out
}

// Outcome is the full evaluation of one individual.
type Outcome struct {
	Tier     syllabus.TierID `json:"tier"`
	TierName string          `json:"tierName"`

	// Next is empty when Tier is the terminal tier.
	Next     syllabus.TierID `json:"next,omitempty"`
	NextName string          `json:"nextName,omitempty"`

	Path   Path      `json:"path"`
	Passed ModuleSet `json:"-"`
}

// Evaluate runs the whole pipeline for one individual.
func (e *Engine) Evaluate(raw Achievements, ctx Context) Outcome {
	p := e.Resolve(raw, ctx)
	out := Outcome{
		Tier:     p.HighestComplete,
		TierName: e.syllabus.TierName(p.HighestComplete),
		Next:     p.Training,
		Path:     e.PathTo(p.Passed, ctx, p.HighestComplete),
		Passed:   p.Passed,
	}
	if p.Training != "" {
		out.NextName = e.syllabus.TierName(p.Training)
	}
	return out
}
