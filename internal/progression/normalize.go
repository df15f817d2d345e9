package progression

import "github.com/acf-tools/startrack/internal/syllabus"

// Normalize converts raw achievement labels into the set of satisfied modules.
//
// A subject recorded at level L yields that subject at L and every lower
// level. Subjects in a merge window are handled per window: inside the
// window the virtual subject is graded at the combined level of both
// members, and only when both have a recognized level; above the window
// each member closes downward from its own level, starting just above the
// window. Unrecognized labels and subjects the syllabus does not declare
// are ignored.
func (e *Engine) Normalize(raw Achievements) ModuleSet {
	s := e.syllabus
	passed := make(ModuleSet)

	for _, code := range e.plainSubjects {
		if l, ok := s.ParseLevel(raw[code]); ok {
			passed.addRange(code, 0, l)
		}
	}

	for _, m := range e.merges {
		var levels [2]syllabus.Level
		var present [2]bool
		for i, member := range m.Subjects {
			levels[i], present[i] = s.ParseLevel(raw[member])
		}

		if present[0] && present[1] {
			combined := m.CombineFunc()(levels[0], levels[1])
			passed.addRange(m.Virtual, 0, min(combined, m.Through))
		}

		for i, member := range m.Subjects {
			if present[i] && levels[i] > m.Through {
				passed.addRange(member, m.Through+1, levels[i])
			}
		}
	}

	return passed
}
