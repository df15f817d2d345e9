package syllabus

import (
	"errors"
	"strings"
	"testing"
)

func TestValidate_DefaultPasses(t *testing.T) {
	if _, err := New(specOf(Default())); err != nil {
		t.Fatalf("default syllabus failed validation: %v", err)
	}
}

func TestValidateSpec_MinimalPasses(t *testing.T) {
	if _, err := New(makeMinimalValidSpec()); err != nil {
		t.Fatalf("minimal spec failed validation: %v", err)
	}
}

func TestValidateSpec_Failures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Spec)
		want   string
	}{
		{
			name:   "dangling prereq",
			mutate: func(s *Spec) { s.Tiers[2].Rule.Prereq = "ghost" },
			want:   `references nonexistent prerequisite "ghost"`,
		},
		{
			name:   "self prereq",
			mutate: func(s *Spec) { s.Tiers[2].Rule.Prereq = "silver" },
			want:   "lists itself as prerequisite",
		},
		{
			name: "prereq ordered later",
			mutate: func(s *Spec) {
				s.Tiers[1].Rule.Prereq = "silver"
			},
			want: `prerequisite "silver" is ordered after it`,
		},
		{
			name:   "duplicate tier",
			mutate: func(s *Spec) { s.Tiers[2].ID = "bronze" },
			want:   `duplicate tier ID: "bronze"`,
		},
		{
			name:   "duplicate subject",
			mutate: func(s *Spec) { s.Subjects[1].Code = "A" },
			want:   `duplicate subject code: "A"`,
		},
		{
			name: "unknown module subject",
			mutate: func(s *Spec) {
				s.Tiers[1].Rule.Mandatory = append(s.Tiers[1].Rule.Mandatory, ModuleKey{Level: 0, Subject: "Z"})
			},
			want: `unknown subject "Z"`,
		},
		{
			name: "module level out of range",
			mutate: func(s *Spec) {
				s.Tiers[1].Rule.Mandatory[0].Level = 7
			},
			want: "module level 7 out of range",
		},
		{
			name: "group quota too high",
			mutate: func(s *Spec) {
				s.Tiers[2].Rule.Groups[0].MinRequired = 5
			},
			want: "MinRequired must be in [1, 2], got 5",
		},
		{
			name: "group quota zero",
			mutate: func(s *Spec) {
				s.Tiers[2].Rule.Groups[0].MinRequired = 0
			},
			want: "MinRequired must be in [1, 2], got 0",
		},
		{
			name: "merged subject referenced inside window",
			mutate: func(s *Spec) {
				s.Tiers[1].Rule.Mandatory = append(s.Tiers[1].Rule.Mandatory, ModuleKey{Level: 0, Subject: "B"})
			},
			want: `subject "B" is graded as "BC"`,
		},
		{
			name: "virtual subject referenced above window",
			mutate: func(s *Spec) {
				s.Tiers[2].Rule.Mandatory = append(s.Tiers[2].Rule.Mandatory, ModuleKey{Level: 1, Subject: "BC"})
			},
			want: `virtual subject "BC" does not exist above level "l0"`,
		},
		{
			name:   "merge of identical subjects",
			mutate: func(s *Spec) { s.Merges[0].Subjects = [2]SubjectCode{"B", "B"} },
			want:   "merged subjects must differ",
		},
		{
			name:   "merge virtual not declared virtual",
			mutate: func(s *Spec) { s.Merges[0].Virtual = "A" },
			want:   `subject "A" must be declared virtual`,
		},
		{
			name:   "unknown combine function",
			mutate: func(s *Spec) { s.Merges[0].Combine = "max" },
			want:   `unknown combine function "max"`,
		},
		{
			name: "initial tier with requirements",
			mutate: func(s *Spec) {
				s.Tiers[0].Rule.Mandatory = []ModuleKey{{Level: 0, Subject: "A"}}
			},
			want: "initial tier must not carry requirements",
		},
		{
			name:   "negative summary cutoff",
			mutate: func(s *Spec) { s.Tiers[1].SummaryCutoff = -1 },
			want:   "SummaryCutoff must be >= 0",
		},
		{
			name:   "duplicate rank",
			mutate: func(s *Spec) { s.Ranks[1].Code = "Pvt" },
			want:   `duplicate rank code: "Pvt"`,
		},
		{
			name:   "too few tiers",
			mutate: func(s *Spec) { s.Tiers = s.Tiers[:1] },
			want:   "at least two tiers are required",
		},
		{
			name:   "empty version",
			mutate: func(s *Spec) { s.Version = "" },
			want:   "version is empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := makeMinimalValidSpec()
			tt.mutate(&spec)
			_, err := New(spec)
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !errors.Is(err, ErrInvalidSyllabus) {
				t.Errorf("error should wrap ErrInvalidSyllabus: %v", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should contain %q", err, tt.want)
			}
		})
	}
}

func TestValidateSpec_ReportsAllProblems(t *testing.T) {
	spec := makeMinimalValidSpec()
	spec.Tiers[2].Rule.Prereq = "ghost"
	spec.Subjects[1].Code = "A"
	_, err := New(spec)
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"ghost", "duplicate subject"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("combined error missing %q: %v", want, err)
		}
	}
}

func TestValidateSpec_UnknownPredicateNamesAllowed(t *testing.T) {
	spec := makeMinimalValidSpec()
	spec.Tiers[2].Rule.Predicates = []string{"not_implemented_anywhere"}
	if _, err := New(spec); err != nil {
		t.Fatalf("predicate names are resolved at evaluation time, got: %v", err)
	}
}

// makeMinimalValidSpec returns a three-tier spec with one merge window:
// B and C are graded together as BC at level l0, separately at l1.
func makeMinimalValidSpec() Spec {
	return Spec{
		Version: "v0.1.0",
		Levels: []LevelDef{
			{Key: "l0", Label: "Level Zero"},
			{Key: "l1", Label: "Level One"},
		},
		Subjects: []Subject{
			{Code: "A", Name: "Alpha"},
			{Code: "B", Name: "Bravo"},
			{Code: "C", Name: "Charlie"},
			{Code: "BC", Name: "Bravo Charlie", Virtual: true},
		},
		Merges: []Merge{
			{Virtual: "BC", Subjects: [2]SubjectCode{"B", "C"}, Through: 0},
		},
		Tiers: []Tier{
			{ID: "none", Name: "None"},
			{ID: "bronze", Name: "Bronze", Rule: Rule{
				Mandatory: []ModuleKey{{Level: 0, Subject: "A"}, {Level: 0, Subject: "BC"}},
			}},
			{ID: "silver", Name: "Silver", Rule: Rule{
				Prereq:    "bronze",
				Mandatory: []ModuleKey{{Level: 1, Subject: "A"}},
				Groups: []Group{
					{ID: "any", MinRequired: 1, Modules: []ModuleKey{{Level: 1, Subject: "B"}, {Level: 1, Subject: "C"}}},
				},
			}},
		},
		Ranks: []Rank{{Code: "Pvt", Order: 0}, {Code: "Cpl", Order: 1}},
	}
}

// specOf converts a built syllabus back into a Spec.
func specOf(s *Syllabus) Spec {
	return Spec{
		Version:  s.Version(),
		Name:     s.Name(),
		Levels:   s.Levels(),
		Subjects: s.Subjects(),
		Merges:   s.Merges(),
		Tiers:    s.Tiers(),
		Ranks:    s.Ranks(),
	}
}
