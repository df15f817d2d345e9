package progression

import "github.com/acf-tools/startrack/internal/syllabus"

// IsTierComplete reports whether tier id is fully satisfied by passed and
// ctx, including its prerequisite chain. Unknown tiers are never complete.
//
// Checks run in order and stop at the first failure: prerequisite,
// mandatory modules, groups, predicates.
func (e *Engine) IsTierComplete(passed ModuleSet, ctx Context, id syllabus.TierID) bool {
	return e.tierComplete(passed, ctx, id, 0)
}

func (e *Engine) tierComplete(passed ModuleSet, ctx Context, id syllabus.TierID, depth int) bool {
	rule, ok := e.syllabus.RuleView(id)
	if !ok {
		return false
	}
	// A validated syllabus orders every prerequisite before its tier, so the
	// chain is bounded by the tier count.
	if depth > len(e.order) {
		return false
	}

	if rule.Prereq != "" && !e.tierComplete(passed, ctx, rule.Prereq, depth+1) {
		return false
	}
	for _, k := range rule.Mandatory {
		if !passed.Has(k) {
			return false
		}
	}
	for _, g := range rule.Groups {
		if passed.Count(g.Modules) < g.MinRequired {
			return false
		}
	}
	for _, name := range rule.Predicates {
		if !e.predicates.holds(e.syllabus, name, ctx) {
			return false
		}
	}
	return true
}
