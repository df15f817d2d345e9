package syllabus

// CombineMin grades the combined subject at the lower of the two raw levels.
const CombineMin = "min"

// CombineFunc derives the combined level of a merged pair.
type CombineFunc func(a, b Level) Level

var combineFuncs = map[string]CombineFunc{
	CombineMin: func(a, b Level) Level { return min(a, b) },
}

// Merge declares a merge window: two subjects graded as one virtual
// subject for every level up to and including Through, and as two
// independent subjects above it.
type Merge struct {
	Virtual  SubjectCode
	Subjects [2]SubjectCode
	Through  Level
	Combine  string // name of the combination function; "" means CombineMin
}

// CombineFunc returns the combination function for the window.
func (m Merge) CombineFunc() CombineFunc {
	if f, ok := combineFuncs[m.Combine]; ok {
		return f
	}
	return combineFuncs[CombineMin]
}

// Covers reports whether level l is inside the merged range.
func (m Merge) Covers(l Level) bool {
	return l <= m.Through
}
