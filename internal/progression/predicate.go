package progression

import (
	"slices"

	"github.com/acf-tools/startrack/internal/syllabus"
)

// Context flags read by the builtin predicates.
const (
	FlagMasterCourse    = "hasMasterCourse"
	FlagCommandantAward = "commandantAwarded"
)

// Builtin predicate names.
const (
	PredicateRankSergeant = "rank_at_least_sergeant"
	PredicateMasterCourse = "has_master_cadet_course"
	PredicateCommandant   = "commandant_awarded"
)

// Context carries the attributes outside the subject/level system that
// predicates inspect.
type Context struct {
	Rank  string          `json:"rank"`
	Flags map[string]bool `json:"flags,omitempty"`
}

// Predicate is a named boolean condition over a Context.
type Predicate struct {
	Name string

	// Description is the deficit sentence shown when the predicate fails.
	Description string

	Check func(s *syllabus.Syllabus, ctx Context) bool
}

// Predicates is an immutable registry of named predicates.
type Predicates struct {
	byName map[string]Predicate
}

// NewPredicates builds a registry. Later entries replace earlier ones with
// the same name.
func NewPredicates(preds ...Predicate) *Predicates {
	p := &Predicates{byName: make(map[string]Predicate, len(preds))}
	for _, pred := range preds {
		p.byName[pred.Name] = pred
	}
	return p
}

// DefaultPredicates returns the predicates used by the ACF syllabus.
func DefaultPredicates() *Predicates {
	return NewPredicates(
		RankAtLeast(PredicateRankSergeant, "Sgt", "Rank: At least Sergeant"),
		FlagHeld(PredicateMasterCourse, FlagMasterCourse, "Master Cadet Course Certificate"),
		FlagHeld(PredicateCommandant, FlagCommandantAward, "Commandant Award"),
	)
}

// RankAtLeast holds when the individual's rank orders at or above rank.
// It never holds if the syllabus does not declare rank.
func RankAtLeast(name, rank, description string) Predicate {
	return Predicate{
		Name:        name,
		Description: description,
		Check: func(s *syllabus.Syllabus, ctx Context) bool {
			if !s.HasRank(rank) {
				return false
			}
			return s.RankOrder(ctx.Rank) >= s.RankOrder(rank)
		},
	}
}

// FlagHeld holds when the named flag is set in the context.
func FlagHeld(name, flag, description string) Predicate {
	return Predicate{
		Name:        name,
		Description: description,
		Check: func(_ *syllabus.Syllabus, ctx Context) bool {
			return ctx.Flags[flag]
		},
	}
}

// Lookup returns the predicate registered under name.
func (p *Predicates) Lookup(name string) (Predicate, bool) {
	pred, ok := p.byName[name]
	return pred, ok
}

// Names returns the registered predicate names, sorted.
func (p *Predicates) Names() []string {
	out := make([]string, 0, len(p.byName))
	for name := range p.byName {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// holds evaluates a predicate by name. Unknown names fail closed.
func (p *Predicates) holds(s *syllabus.Syllabus, name string, ctx Context) bool {
	pred, ok := p.byName[name]
	if !ok || pred.Check == nil {
		return false
	}
	return pred.Check(s, ctx)
}

// describe returns the deficit sentence for a failing predicate.
func (p *Predicates) describe(name string) string {
	if pred, ok := p.byName[name]; ok && pred.Description != "" {
		return pred.Description
	}
	return "Requirement: " + name
}
