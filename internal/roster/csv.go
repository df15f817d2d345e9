package roster

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/acf-tools/startrack/internal/progression"
	"github.com/acf-tools/startrack/internal/syllabus"
)

// Column headers with a fixed meaning.
const (
	ColumnName    = "Name"
	ColumnRank    = "Rank"
	ColumnPNumber = "P-Number"
)

// Options controls CSV ingestion.
type Options struct {
	// FlagColumns maps a column header to the context flag it sets.
	FlagColumns map[string]string
}

// DefaultOptions returns the column mapping used by unit returns.
func DefaultOptions() Options {
	return Options{
		FlagColumns: map[string]string{
			"MCC": progression.FlagMasterCourse,
			"CA":  progression.FlagCommandantAward,
		},
	}
}

// ReadCSV reads a header row followed by one row per individual. Subject
// columns are matched against the syllabus subject codes; other columns are
// ignored. The Name column is required.
func ReadCSV(r io.Reader, s *syllabus.Syllabus, opts Options) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyRoster
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := indexHeader(header)
	nameCol, ok := cols[strings.ToLower(ColumnName)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, ColumnName)
	}
	rankCol, hasRank := cols[strings.ToLower(ColumnRank)]
	pnumCol, hasPNum := cols[strings.ToLower(ColumnPNumber)]

	subjectCols := map[syllabus.SubjectCode]int{}
	for _, sub := range s.RecordSubjects() {
		if i, ok := cols[strings.ToLower(string(sub.Code))]; ok {
			subjectCols[sub.Code] = i
		}
	}
	flagCols := map[string]int{}
	for column, flag := range opts.FlagColumns {
		if i, ok := cols[strings.ToLower(column)]; ok {
			flagCols[flag] = i
		}
	}

	var records []Record
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", line, err)
		}
		if blank(row) {
			continue
		}

		rec := Record{
			Achievements: make(progression.Achievements, len(subjectCols)),
			Flags:        map[string]bool{},
		}
		rec.Rank, rec.Name = ParseName(s, field(row, nameCol))
		if hasRank {
			if explicit := field(row, rankCol); explicit != "" {
				rec.Rank = explicit
			}
		}
		if hasPNum {
			rec.PNumber = field(row, pnumCol)
		}
		for code, i := range subjectCols {
			rec.Achievements[code] = field(row, i)
		}
		for flag, i := range flagCols {
			rec.Flags[flag] = truthy(field(row, i))
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, ErrEmptyRoster
	}
	return records, nil
}

func indexHeader(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimPrefix(h, "\uFEFF")
		key := strings.ToLower(strings.TrimSpace(h))
		if _, dup := cols[key]; !dup && key != "" {
			cols[key] = i
		}
	}
	return cols
}

func field(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func blank(row []string) bool {
	for _, f := range row {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "y", "yes", "true", "1", "x":
		return true
	}
	return false
}
