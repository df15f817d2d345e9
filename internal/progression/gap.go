package progression

import (
	"fmt"
	"slices"

	"github.com/acf-tools/startrack/internal/syllabus"
)

// DefaultSummaryCutoff is the largest itemized deficit list reported as-is.
// Longer lists collapse into a single summary line unless the target tier
// sets its own cutoff.
const DefaultSummaryCutoff = 8

// Path is what an individual still needs for the next tier.
type Path struct {
	// NextLevel is the display name of the target tier. For someone at the
	// terminal tier it is that tier's own name and Items is empty.
	NextLevel string `json:"nextLevel"`

	Items []string `json:"requiredItems"`

	// Summarized is set when Items was collapsed to one summary line.
	Summarized bool `json:"summarized,omitempty"`
}

// Selector picks which missing group candidates to suggest.
type Selector interface {
	// Select returns at most n modules from missing. It must not reorder
	// or modify missing in place.
	Select(s *syllabus.Syllabus, passed ModuleSet, missing []syllabus.ModuleKey, n int) []syllabus.ModuleKey
}

// SchemaOrder suggests missing candidates in the order the group lists them.
type SchemaOrder struct{}

// Select implements Selector.
func (SchemaOrder) Select(_ *syllabus.Syllabus, _ ModuleSet, missing []syllabus.ModuleKey, n int) []syllabus.ModuleKey {
	return slices.Clone(missing[:min(n, len(missing))])
}

// ClosestFirst suggests the candidates whose subject is already held at the
// highest level below the target, falling back to group order on ties.
type ClosestFirst struct{}

// Select implements Selector.
func (ClosestFirst) Select(s *syllabus.Syllabus, passed ModuleSet, missing []syllabus.ModuleKey, n int) []syllabus.ModuleKey {
	ranked := slices.Clone(missing)
	slices.SortStableFunc(ranked, func(a, b syllabus.ModuleKey) int {
		// Smaller distance first.
		return distance(s, passed, a) - distance(s, passed, b)
	})
	return ranked[:min(n, len(ranked))]
}

// distance is the number of levels between the highest level held for k's
// subject and k itself.
func distance(s *syllabus.Syllabus, passed ModuleSet, k syllabus.ModuleKey) int {
	m, merged := s.MergeFor(k.Subject)
	for l := k.Level - 1; l >= 0; l-- {
		subject := k.Subject
		if merged && m.Covers(l) {
			subject = m.Virtual
		}
		if passed.Has(syllabus.ModuleKey{Level: l, Subject: subject}) {
			return int(k.Level - l)
		}
	}
	return int(k.Level) + 1
}

// SelectorByName resolves a selector from its configuration name.
func SelectorByName(name string) (Selector, error) {
	switch name {
	case "", "schema-order":
		return SchemaOrder{}, nil
	case "closest-first":
		return ClosestFirst{}, nil
	default:
		return nil, fmt.Errorf("unknown selector %q (want schema-order or closest-first)", name)
	}
}

// PathTo lists the deficits between passed/ctx and the tier immediately
// above current. passed is not modified.
func (e *Engine) PathTo(passed ModuleSet, ctx Context, current syllabus.TierID) Path {
	s := e.syllabus
	next, ok := s.Next(current)
	if !ok {
		return Path{NextLevel: s.TierName(current), Items: []string{}}
	}

	rule := next.Rule
	items := []string{}
	for _, k := range rule.Mandatory {
		if !passed.Has(k) {
			items = append(items, e.describeModule(k))
		}
	}

	for _, g := range rule.Groups {
		need := g.MinRequired - passed.Count(g.Modules)
		if need <= 0 {
			continue
		}
		var missing []syllabus.ModuleKey
		for _, k := range g.Modules {
			if !passed.Has(k) {
				missing = append(missing, k)
			}
		}
		for _, k := range e.selector.Select(s, passed, missing, need) {
			items = append(items, e.describeModule(k))
		}
	}

	for _, name := range rule.Predicates {
		if !e.predicates.holds(s, name, ctx) {
			items = append(items, e.predicates.describe(name))
		}
	}

	if len(items) == 0 && s.IsTerminal(next.ID) {
		note := next.CompletionNote
		if note == "" {
			note = "Complete other requirements for " + next.Name
		}
		items = append(items, note)
	}

	cutoff := next.SummaryCutoff
	if cutoff == 0 {
		cutoff = e.summaryCutoff
	}
	if len(items) > cutoff {
		return Path{
			NextLevel:  next.Name,
			Items:      []string{"All subjects needed for " + next.Name},
			Summarized: true,
		}
	}
	return Path{NextLevel: next.Name, Items: items}
}

func (e *Engine) describeModule(k syllabus.ModuleKey) string {
	return fmt.Sprintf("%s (%s)", e.syllabus.SubjectName(k.Subject), e.syllabus.LevelLabel(k.Level))
}
