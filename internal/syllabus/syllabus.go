package syllabus

import (
	"fmt"
	"slices"
	"strings"
)

// SubjectCode identifies a syllabus subject, e.g. "DT".
type SubjectCode string

// Subject is a syllabus subject and its display name.
// Virtual subjects only exist as the combined subject of a merge window
// and never appear in raw achievement records.
type Subject struct {
	Code    SubjectCode
	Name    string
	Virtual bool
}

// TierID identifies a qualification tier, e.g. "basic" or "3".
type TierID string

// ModuleKey is the atomic unit the engine reasons over:
// "Subject achieved to at least Level".
type ModuleKey struct {
	Level   Level
	Subject SubjectCode
}

// Group is an "any N of M" requirement.
type Group struct {
	ID          string
	Modules     []ModuleKey
	MinRequired int
}

// Rule is the declarative requirement set for one tier.
type Rule struct {
	Prereq     TierID
	Mandatory  []ModuleKey
	Groups     []Group
	Predicates []string
}

// IsEmpty reports whether the rule carries no requirement at all.
func (r Rule) IsEmpty() bool {
	return r.Prereq == "" && len(r.Mandatory) == 0 && len(r.Groups) == 0 && len(r.Predicates) == 0
}

// Tier is one step of the ordered qualification chain.
type Tier struct {
	ID   TierID
	Name string
	Rule Rule

	// SummaryCutoff overrides the gap report's summarization cutoff for
	// paths targeting this tier. Zero means use the engine default.
	SummaryCutoff int

	// CompletionNote is reported when every module and named requirement
	// of this terminal tier is met but the tier is still not complete.
	CompletionNote string
}

// Rank is a seniority rank and its ordinal used by rank predicates.
type Rank struct {
	Code  string
	Order int
}

// Spec is the raw, unvalidated description of a syllabus.
type Spec struct {
	Version  string
	Name     string
	Levels   []LevelDef
	Subjects []Subject
	Merges   []Merge
	Tiers    []Tier
	Ranks    []Rank
}

// Syllabus is an immutable, validated syllabus with precomputed indices.
// It is safe for concurrent use.
type Syllabus struct {
	version string
	name    string

	levels     []LevelDef
	levelByKey map[string]Level

	subjects   []Subject
	subjectIdx map[SubjectCode]int

	merges        []Merge
	mergeByMember map[SubjectCode]int

	tiers   []Tier
	tierIdx map[TierID]int

	ranks     []Rank
	rankOrder map[string]int
}

// New validates spec and builds a Syllabus from it.
// All structural problems are reported together in one error wrapping
// ErrInvalidSyllabus.
func New(spec Spec) (*Syllabus, error) {
	if err := validateSpec(spec); err != nil {
		return nil, err
	}
	return build(spec), nil
}

// build constructs the indices. spec must already be valid.
func build(spec Spec) *Syllabus {
	s := &Syllabus{
		version:       spec.Version,
		name:          spec.Name,
		levels:        slices.Clone(spec.Levels),
		levelByKey:    make(map[string]Level, len(spec.Levels)),
		subjects:      slices.Clone(spec.Subjects),
		subjectIdx:    make(map[SubjectCode]int, len(spec.Subjects)),
		merges:        slices.Clone(spec.Merges),
		mergeByMember: make(map[SubjectCode]int),
		tiers:         cloneTiers(spec.Tiers),
		tierIdx:       make(map[TierID]int, len(spec.Tiers)),
		ranks:         slices.Clone(spec.Ranks),
		rankOrder:     make(map[string]int, len(spec.Ranks)),
	}

	for i, l := range s.levels {
		s.levelByKey[l.Key] = Level(i)
	}
	for i, sub := range s.subjects {
		s.subjectIdx[sub.Code] = i
	}
	for i, m := range s.merges {
		if s.merges[i].Combine == "" {
			s.merges[i].Combine = CombineMin
		}
		for _, member := range m.Subjects {
			s.mergeByMember[member] = i
		}
	}
	for i, t := range s.tiers {
		s.tierIdx[t.ID] = i
	}
	for _, r := range s.ranks {
		s.rankOrder[r.Code] = r.Order
	}
	return s
}

func cloneTiers(tiers []Tier) []Tier {
	out := make([]Tier, len(tiers))
	for i, t := range tiers {
		t.Rule = Rule{
			Prereq:     t.Rule.Prereq,
			Mandatory:  slices.Clone(t.Rule.Mandatory),
			Predicates: slices.Clone(t.Rule.Predicates),
		}
		for _, g := range tiers[i].Rule.Groups {
			g.Modules = slices.Clone(g.Modules)
			t.Rule.Groups = append(t.Rule.Groups, g)
		}
		out[i] = t
	}
	return out
}

// Version returns the syllabus version, e.g. "v2.3.0".
func (s *Syllabus) Version() string {
	return s.version
}

// Name returns the human-readable syllabus title.
func (s *Syllabus) Name() string {
	return s.name
}

// Levels returns the level definitions, lowest first.
func (s *Syllabus) Levels() []LevelDef {
	return slices.Clone(s.levels)
}

// Subjects returns all subjects in schema order, virtual subjects included.
func (s *Syllabus) Subjects() []Subject {
	return slices.Clone(s.subjects)
}

// RecordSubjects returns the subjects that appear in raw achievement records.
func (s *Syllabus) RecordSubjects() []Subject {
	var out []Subject
	for _, sub := range s.subjects {
		if !sub.Virtual {
			out = append(out, sub)
		}
	}
	return out
}

// HasSubject reports whether code is a declared subject.
func (s *Syllabus) HasSubject(code SubjectCode) bool {
	_, ok := s.subjectIdx[code]
	return ok
}

// SubjectIndex returns the schema position of a subject, or -1.
func (s *Syllabus) SubjectIndex(code SubjectCode) int {
	if i, ok := s.subjectIdx[code]; ok {
		return i
	}
	return -1
}

// SubjectName returns the display name for a subject code, falling back to
// the code itself.
func (s *Syllabus) SubjectName(code SubjectCode) string {
	if i, ok := s.subjectIdx[code]; ok {
		return s.subjects[i].Name
	}
	return string(code)
}

// Merges returns the merge windows.
func (s *Syllabus) Merges() []Merge {
	return slices.Clone(s.merges)
}

// MergeFor returns the merge window a real subject participates in.
func (s *Syllabus) MergeFor(code SubjectCode) (Merge, bool) {
	if i, ok := s.mergeByMember[code]; ok {
		return s.merges[i], true
	}
	return Merge{}, false
}

// Tiers returns all tiers in ascending order, the initial tier first.
func (s *Syllabus) Tiers() []Tier {
	return cloneTiers(s.tiers)
}

// Tier returns a tier by ID, or error if not found.
func (s *Syllabus) Tier(id TierID) (Tier, error) {
	i, ok := s.tierIdx[id]
	if !ok {
		return Tier{}, fmt.Errorf("tier not found: %q", id)
	}
	return s.tiers[i], nil
}

// RuleView returns the rule for a tier without copying. The returned rule
// shares storage with the syllabus and must be treated as read-only.
func (s *Syllabus) RuleView(id TierID) (*Rule, bool) {
	i, ok := s.tierIdx[id]
	if !ok {
		return nil, false
	}
	return &s.tiers[i].Rule, true
}

// TierIndex returns the position of a tier in the ordering, or -1.
func (s *Syllabus) TierIndex(id TierID) int {
	if i, ok := s.tierIdx[id]; ok {
		return i
	}
	return -1
}

// TierName returns the display name of a tier, falling back to the ID.
func (s *Syllabus) TierName(id TierID) string {
	if i, ok := s.tierIdx[id]; ok {
		return s.tiers[i].Name
	}
	return string(id)
}

// Initial returns the implicit lowest tier (no tiers complete).
func (s *Syllabus) Initial() Tier {
	return s.tiers[0]
}

// Terminal returns the highest tier.
func (s *Syllabus) Terminal() Tier {
	return s.tiers[len(s.tiers)-1]
}

// IsTerminal reports whether id is the highest tier.
func (s *Syllabus) IsTerminal(id TierID) bool {
	return s.TierIndex(id) == len(s.tiers)-1
}

// Next returns the tier immediately above id, or false when id is the
// terminal tier or unknown.
func (s *Syllabus) Next(id TierID) (Tier, bool) {
	i, ok := s.tierIdx[id]
	if !ok || i+1 >= len(s.tiers) {
		return Tier{}, false
	}
	return s.tiers[i+1], true
}

// Ranks returns the rank table in declaration order.
func (s *Syllabus) Ranks() []Rank {
	return slices.Clone(s.ranks)
}

// RankOrder returns the ordinal of a rank code. Unknown ranks rank lowest (0).
func (s *Syllabus) RankOrder(code string) int {
	return s.rankOrder[strings.TrimSpace(code)]
}

// HasRank reports whether code is a declared rank.
func (s *Syllabus) HasRank(code string) bool {
	_, ok := s.rankOrder[strings.TrimSpace(code)]
	return ok
}

// ModuleCode renders a module key as "<level key>.<subject>", e.g. "basic.DT".
func (s *Syllabus) ModuleCode(k ModuleKey) string {
	return s.LevelKey(k.Level) + "." + string(k.Subject)
}

// ParseModule parses a "<level key>.<subject>" module code.
func (s *Syllabus) ParseModule(code string) (ModuleKey, error) {
	return parseModule(s.levelByKey, code)
}

func parseModule(levels map[string]Level, code string) (ModuleKey, error) {
	levelKey, subject, ok := strings.Cut(code, ".")
	if !ok || levelKey == "" || subject == "" {
		return ModuleKey{}, fmt.Errorf("malformed module code %q (want <level>.<subject>)", code)
	}
	l, ok := levels[levelKey]
	if !ok {
		return ModuleKey{}, fmt.Errorf("module code %q references unknown level %q", code, levelKey)
	}
	return ModuleKey{Level: l, Subject: SubjectCode(subject)}, nil
}
