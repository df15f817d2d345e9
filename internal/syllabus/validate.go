package syllabus

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidSyllabus is wrapped by every structural validation failure.
	ErrInvalidSyllabus = errors.New("invalid syllabus")

	// ErrUnknownVersion is returned when a registry has no such version.
	ErrUnknownVersion = errors.New("unknown syllabus version")
)

// validateSpec performs all structural checks on the given spec.
// Returns a combined error describing all problems found, or nil if valid.
func validateSpec(spec Spec) error {
	var errs []string
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Sprintf(format, args...))
	}

	if spec.Version == "" {
		add("version is empty")
	}

	// Levels
	if len(spec.Levels) == 0 {
		add("no achievement levels defined")
	}
	levelKeys := make(map[string]Level, len(spec.Levels))
	for i, l := range spec.Levels {
		if l.Key == "" || l.Label == "" {
			add("level %d: key and label are required", i)
			continue
		}
		if _, dup := levelKeys[l.Key]; dup {
			add("duplicate level key: %q", l.Key)
		}
		levelKeys[l.Key] = Level(i)
	}
	validLevel := func(l Level) bool { return l >= 0 && int(l) < len(spec.Levels) }

	// Subjects
	subjects := make(map[SubjectCode]Subject, len(spec.Subjects))
	for _, sub := range spec.Subjects {
		if sub.Code == "" {
			add("subject with empty code (name %q)", sub.Name)
			continue
		}
		if strings.Contains(string(sub.Code), ".") {
			add("subject code %q must not contain '.'", sub.Code)
		}
		if _, dup := subjects[sub.Code]; dup {
			add("duplicate subject code: %q", sub.Code)
		}
		subjects[sub.Code] = sub
	}

	// Merge windows
	windowOf := make(map[SubjectCode]Merge)
	virtualWindow := make(map[SubjectCode]Merge)
	for i, m := range spec.Merges {
		prefix := fmt.Sprintf("merge %d (%s)", i, m.Virtual)
		v, ok := subjects[m.Virtual]
		switch {
		case !ok:
			add("%s: virtual subject %q is not declared", prefix, m.Virtual)
		case !v.Virtual:
			add("%s: subject %q must be declared virtual", prefix, m.Virtual)
		}
		if _, dup := virtualWindow[m.Virtual]; dup {
			add("%s: virtual subject %q used by more than one merge", prefix, m.Virtual)
		}
		virtualWindow[m.Virtual] = m
		if m.Subjects[0] == m.Subjects[1] {
			add("%s: merged subjects must differ, got %q twice", prefix, m.Subjects[0])
		}
		for _, member := range m.Subjects {
			sub, ok := subjects[member]
			if !ok {
				add("%s: unknown merged subject %q", prefix, member)
				continue
			}
			if sub.Virtual {
				add("%s: merged subject %q must not be virtual", prefix, member)
			}
			if _, dup := windowOf[member]; dup {
				add("%s: subject %q already belongs to another merge", prefix, member)
			}
			windowOf[member] = m
		}
		if !validLevel(m.Through) {
			add("%s: through level %d out of range", prefix, m.Through)
		}
		if _, ok := combineFuncs[m.Combine]; m.Combine != "" && !ok {
			add("%s: unknown combine function %q", prefix, m.Combine)
		}
	}
	for _, sub := range spec.Subjects {
		if _, ok := virtualWindow[sub.Code]; sub.Virtual && !ok {
			add("virtual subject %q is not produced by any merge", sub.Code)
		}
	}

	checkModule := func(where string, k ModuleKey) {
		if !validLevel(k.Level) {
			add("%s: module level %d out of range", where, k.Level)
			return
		}
		sub, ok := subjects[k.Subject]
		if !ok {
			add("%s: module references unknown subject %q", where, k.Subject)
			return
		}
		if m, ok := windowOf[k.Subject]; ok && m.Covers(k.Level) {
			add("%s: subject %q is graded as %q at level %q", where, k.Subject, m.Virtual, spec.Levels[k.Level].Key)
		}
		if m, ok := virtualWindow[k.Subject]; ok && sub.Virtual && !m.Covers(k.Level) {
			add("%s: virtual subject %q does not exist above level %q", where, k.Subject, spec.Levels[m.Through].Key)
		}
	}

	// Tiers
	if len(spec.Tiers) < 2 {
		add("at least two tiers are required (initial tier plus one qualification), got %d", len(spec.Tiers))
	}
	tierIdx := make(map[TierID]int, len(spec.Tiers))
	for i, t := range spec.Tiers {
		if t.ID == "" {
			add("tier %d: empty ID", i)
			continue
		}
		if _, dup := tierIdx[t.ID]; dup {
			add("duplicate tier ID: %q", t.ID)
		}
		tierIdx[t.ID] = i
	}

	for i, t := range spec.Tiers {
		prefix := fmt.Sprintf("tier %q", t.ID)
		if t.Name == "" {
			add("%s: display name is empty", prefix)
		}
		if t.SummaryCutoff < 0 {
			add("%s: SummaryCutoff must be >= 0, got %d", prefix, t.SummaryCutoff)
		}
		if i == 0 {
			if !t.Rule.IsEmpty() {
				add("%s: the initial tier must not carry requirements", prefix)
			}
			continue
		}

		r := t.Rule
		if r.Prereq != "" {
			pi, ok := tierIdx[r.Prereq]
			switch {
			case !ok:
				add("%s references nonexistent prerequisite %q", prefix, r.Prereq)
			case pi == i:
				add("%s lists itself as prerequisite", prefix)
			case pi > i:
				add("%s prerequisite %q is ordered after it", prefix, r.Prereq)
			}
		}
		for _, k := range r.Mandatory {
			checkModule(prefix+" mandatory", k)
		}
		for gi, g := range r.Groups {
			gp := fmt.Sprintf("%s group %d", prefix, gi)
			if g.ID != "" {
				gp = fmt.Sprintf("%s group %q", prefix, g.ID)
			}
			if len(g.Modules) == 0 {
				add("%s: no candidate modules", gp)
			}
			if g.MinRequired <= 0 || g.MinRequired > len(g.Modules) {
				add("%s: MinRequired must be in [1, %d], got %d", gp, len(g.Modules), g.MinRequired)
			}
			for _, k := range g.Modules {
				checkModule(gp, k)
			}
		}
		for _, p := range r.Predicates {
			if strings.TrimSpace(p) == "" {
				add("%s: empty predicate name", prefix)
			}
		}
	}

	// Ranks
	rankSet := make(map[string]bool, len(spec.Ranks))
	for _, r := range spec.Ranks {
		if r.Code == "" {
			add("rank with empty code")
			continue
		}
		if rankSet[r.Code] {
			add("duplicate rank code: %q", r.Code)
		}
		rankSet[r.Code] = true
		if r.Order < 0 {
			add("rank %q: order must be >= 0, got %d", r.Code, r.Order)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w %q:\n  %s", ErrInvalidSyllabus, spec.Version, strings.Join(errs, "\n  "))
	}
	return nil
}
