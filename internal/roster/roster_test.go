package roster

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acf-tools/startrack/internal/progression"
	"github.com/acf-tools/startrack/internal/syllabus"
)

func TestParseName(t *testing.T) {
	s := syllabus.Default()
	tests := []struct {
		raw, rank, name string
	}{
		{"Cadet Sgt John Smith", "Sgt", "John Smith"},
		{"cadet  lcpl   Amy Jones", "LCpl", "Amy Jones"},
		{"Cadet Sgt Maj Pat Doe", "Sgt Maj", "Pat Doe"},
		{"Cdt RSM Lee", "RSM", "Lee"},
		{"Cadet Sam Brown", "", "Sam Brown"},
		{"Cadet Sgtpepper", "", "Sgtpepper"},
		{"Sam Brown", "", "Sam Brown"},
		{"Cadetta Brown", "", "Cadetta Brown"},
		{"", "", ""},
	}
	for _, tt := range tests {
		rank, name := ParseName(s, tt.raw)
		if rank != tt.rank || name != tt.name {
			t.Errorf("ParseName(%q) = (%q, %q), want (%q, %q)", tt.raw, rank, name, tt.rank, tt.name)
		}
	}
}

const unitReturn = "\uFEFFName,P-Number,DT,SAA,NAV,EXP,Notes,MCC,CA\n" +
	"Cadet Sgt John Smith,P100,2 Star,1 Star,Basic,Basic,fine,yes,\n" +
	",,,,,,,,\n" +
	"Cadet Amy Jones,P101,Basic\n"

func TestReadCSV(t *testing.T) {
	s := syllabus.Default()
	recs, err := ReadCSV(strings.NewReader(unitReturn), s, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, recs, 2)

	smith := recs[0]
	assert.Equal(t, "Sgt", smith.Rank)
	assert.Equal(t, "John Smith", smith.Name)
	assert.Equal(t, "P100", smith.PNumber)
	assert.Equal(t, progression.Achievements{"DT": "2 Star", "SAA": "1 Star", "NAV": "Basic", "EXP": "Basic"}, smith.Achievements)
	assert.True(t, smith.Flags[progression.FlagMasterCourse])
	assert.False(t, smith.Flags[progression.FlagCommandantAward])

	jones := recs[1]
	assert.Equal(t, "", jones.Rank)
	assert.Equal(t, "Basic", jones.Achievements["DT"])
	assert.Equal(t, "", jones.Achievements["SAA"], "short rows read as blank")
	assert.Equal(t, progression.Context{Rank: "", Flags: jones.Flags}, jones.Context())
}

func TestReadCSV_RankColumnOverridesName(t *testing.T) {
	in := "name,rank,DT\nCadet Cpl Kim,CSM,Basic\n"
	recs, err := ReadCSV(strings.NewReader(in), syllabus.Default(), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "CSM", recs[0].Rank)
	assert.Equal(t, "Kim", recs[0].Name)
}

func TestReadCSV_Errors(t *testing.T) {
	s := syllabus.Default()
	tests := map[string]struct {
		in   string
		want error
	}{
		"empty input":    {"", ErrEmptyRoster},
		"header only":    {"Name,DT\n", ErrEmptyRoster},
		"only blanks":    {"Name,DT\n,\n", ErrEmptyRoster},
		"no name column": {"Rank,DT\nSgt,Basic\n", ErrMissingColumn},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.in), s, DefaultOptions())
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}

	_, err := ReadCSV(strings.NewReader("Name,DT\n\"unterminated,Basic\n"), s, DefaultOptions())
	assert.Error(t, err)
}

func TestParseJSON(t *testing.T) {
	s := syllabus.Default()
	in := `{"records": [
		{"name": "Cadet CSM Ada Lovelace", "pNumber": "P7",
		 "achievements": {"DT": "4 Star", "NAVEXP": "4 Star", "XYZ": "1 Star"},
		 "flags": {"hasMasterCourse": true, "commandantAwarded": "true"}},
		{"name": "Bob", "rank": "Cpl"}
	]}`
	recs, err := ParseJSON([]byte(in), s)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, "CSM", recs[0].Rank)
	assert.Equal(t, "Ada Lovelace", recs[0].Name)
	assert.Equal(t, "P7", recs[0].PNumber)
	assert.Equal(t, progression.Achievements{"DT": "4 Star"}, recs[0].Achievements)
	assert.Equal(t, map[string]bool{progression.FlagMasterCourse: true, progression.FlagCommandantAward: true}, recs[0].Flags)

	assert.Equal(t, "Cpl", recs[1].Rank)
	assert.Equal(t, "Bob", recs[1].Name)
	assert.Empty(t, recs[1].Achievements)
}

func TestParseJSON_Errors(t *testing.T) {
	s := syllabus.Default()
	tests := map[string]struct {
		in   string
		want error
	}{
		"malformed":     {`[{"name":`, ErrInvalidRecord},
		"not an array":  {`"hello"`, ErrInvalidRecord},
		"no records":    {`{"rows": []}`, ErrInvalidRecord},
		"empty":         {`[]`, ErrEmptyRoster},
		"missing name":  {`[{"achievements": {}}]`, ErrInvalidRecord},
		"scalar record": {`[1]`, ErrInvalidRecord},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseJSON([]byte(tt.in), s)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
