package progression

import "github.com/acf-tools/startrack/internal/syllabus"

// Progress is where an individual stands in the tier chain.
type Progress struct {
	// HighestComplete is the highest consecutively completed tier, or the
	// initial tier when none are complete.
	HighestComplete syllabus.TierID

	// Training is the tier immediately above HighestComplete. Empty when
	// HighestComplete is the terminal tier.
	Training syllabus.TierID

	Passed ModuleSet
}

// Resolve normalizes raw and walks the tier chain upward from the first
// tier above the initial one, stopping at the first incomplete tier.
// A gap in the chain blocks everything above it even if a higher tier's
// own modules are present.
func (e *Engine) Resolve(raw Achievements, ctx Context) Progress {
	return e.resolve(e.Normalize(raw), ctx)
}

func (e *Engine) resolve(passed ModuleSet, ctx Context) Progress {
	highest := e.order[0]
	for _, id := range e.order[1:] {
		if !e.IsTierComplete(passed, ctx, id) {
			break
		}
		highest = id
	}

	p := Progress{HighestComplete: highest, Passed: passed}
	if next, ok := e.syllabus.Next(highest); ok {
		p.Training = next.ID
	}
	return p
}
