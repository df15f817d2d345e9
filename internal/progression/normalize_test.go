package progression

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acf-tools/startrack/internal/syllabus"
)

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	e, err := New(syllabus.Default(), opts...)
	require.NoError(t, err)
	return e
}

func keys(t *testing.T, s *syllabus.Syllabus, codes ...string) []syllabus.ModuleKey {
	t.Helper()
	out := make([]syllabus.ModuleKey, len(codes))
	for i, c := range codes {
		k, err := s.ParseModule(c)
		require.NoError(t, err, c)
		out[i] = k
	}
	return out
}

func TestNormalize_DownwardClosure(t *testing.T) {
	e := newTestEngine(t)
	passed := e.Normalize(Achievements{"DT": "3 Star"})
	assert.Equal(t, []string{"basic.DT", "1.DT", "2.DT", "3.DT"}, passed.Codes(e.Syllabus()))
}

func TestNormalize_UnrecognizedLabelsIgnored(t *testing.T) {
	e := newTestEngine(t)
	passed := e.Normalize(Achievements{
		"DT":     "Gold",
		"SAA":    "",
		"SH":     "   ",
		"NOPE":   "4 Star",
		"NAVEXP": "4 Star",
	})
	assert.Equal(t, 0, passed.Len())
}

func TestNormalize_MergeWindow(t *testing.T) {
	e := newTestEngine(t)
	s := e.Syllabus()

	tests := []struct {
		name string
		raw  Achievements
		want []string
	}{
		{
			name: "both at basic",
			raw:  Achievements{"NAV": "Basic", "EXP": "Basic"},
			want: []string{"basic.NAVEXP"},
		},
		{
			name: "combined level is the lower of the pair",
			raw:  Achievements{"NAV": "1 Star", "EXP": "Basic"},
			want: []string{"basic.NAVEXP"},
		},
		{
			name: "combined level capped at the window",
			raw:  Achievements{"NAV": "4 Star", "EXP": "3 Star"},
			want: []string{"basic.NAVEXP", "1.NAVEXP", "2.NAVEXP", "3.EXP", "3.NAV", "4.NAV"},
		},
		{
			name: "only one member present",
			raw:  Achievements{"NAV": "4 Star"},
			want: []string{"3.NAV", "4.NAV"},
		},
		{
			name: "one member unrecognized",
			raw:  Achievements{"NAV": "2 Star", "EXP": "Gold"},
			want: []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Normalize(tt.raw).Codes(s)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize_StarAliases(t *testing.T) {
	e := newTestEngine(t)
	s := e.Syllabus()
	for _, raw := range []string{"2 Star", "2*", "2★", "  achieved 2 star  "} {
		passed := e.Normalize(Achievements{"FA": raw})
		assert.True(t, passed.Has(keys(t, s, "2.FA")[0]), "raw %q", raw)
		assert.False(t, passed.Has(keys(t, s, "3.FA")[0]), "raw %q", raw)
	}
}

func TestNormalize_DoesNotDependOnMapOrder(t *testing.T) {
	e := newTestEngine(t)
	raw := Achievements{"DT": "2 Star", "NAV": "3 Star", "EXP": "1 Star", "AT": "4 Star", "CE": "Basic"}
	want := e.Normalize(raw).Codes(e.Syllabus())
	for range 20 {
		assert.Equal(t, want, e.Normalize(raw).Codes(e.Syllabus()))
	}
}

func TestModuleSet_Count(t *testing.T) {
	e := newTestEngine(t)
	s := e.Syllabus()
	passed := e.Normalize(Achievements{"DT": "1 Star", "SH": "Basic"})
	assert.Equal(t, 2, passed.Count(keys(t, s, "1.DT", "basic.SH", "1.SH")))
}
