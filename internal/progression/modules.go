package progression

import (
	"cmp"
	"slices"

	"github.com/acf-tools/startrack/internal/syllabus"
)

// Achievements maps a subject code to its raw achievement label as recorded,
// e.g. {"DT": "2 Star", "SAA": ""}. Missing or blank entries mean
// "not achieved".
type Achievements map[syllabus.SubjectCode]string

// ModuleSet is the set of modules an individual has satisfied.
type ModuleSet map[syllabus.ModuleKey]struct{}

// Has reports whether k is in the set.
func (m ModuleSet) Has(k syllabus.ModuleKey) bool {
	_, ok := m[k]
	return ok
}

// Count returns how many of keys are in the set.
func (m ModuleSet) Count(keys []syllabus.ModuleKey) int {
	n := 0
	for _, k := range keys {
		if m.Has(k) {
			n++
		}
	}
	return n
}

// Len returns the number of modules.
func (m ModuleSet) Len() int {
	return len(m)
}

// Sorted returns the modules ordered by level, then subject code.
func (m ModuleSet) Sorted() []syllabus.ModuleKey {
	out := make([]syllabus.ModuleKey, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	slices.SortFunc(out, func(a, b syllabus.ModuleKey) int {
		if c := cmp.Compare(a.Level, b.Level); c != 0 {
			return c
		}
		return cmp.Compare(a.Subject, b.Subject)
	})
	return out
}

// Codes renders the sorted modules as "<level>.<subject>" codes.
func (m ModuleSet) Codes(s *syllabus.Syllabus) []string {
	keys := m.Sorted()
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = s.ModuleCode(k)
	}
	return out
}

// addRange adds subject at every level in [from, through].
func (m ModuleSet) addRange(subject syllabus.SubjectCode, from, through syllabus.Level) {
	for l := from; l <= through; l++ {
		m[syllabus.ModuleKey{Level: l, Subject: subject}] = struct{}{}
	}
}
