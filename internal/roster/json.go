package roster

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/acf-tools/startrack/internal/progression"
	"github.com/acf-tools/startrack/internal/syllabus"
)

// ParseJSON reads records from a JSON array, or from the "records" array of
// a wrapping object:
//
//	[{"name": "Cadet Sgt Jones", "pNumber": "P123",
//	  "achievements": {"DT": "2 Star"}, "flags": {"hasMasterCourse": true}}]
//
// An explicit "rank" overrides the rank parsed from the name. Achievement
// keys that are not syllabus record subjects are dropped.
func ParseJSON(data []byte, s *syllabus.Syllabus) ([]Record, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: malformed JSON", ErrInvalidRecord)
	}

	list := gjson.ParseBytes(data)
	if list.IsObject() {
		list = list.Get("records")
	}
	if !list.IsArray() {
		return nil, fmt.Errorf("%w: expected an array of records", ErrInvalidRecord)
	}

	known := map[syllabus.SubjectCode]bool{}
	for _, sub := range s.RecordSubjects() {
		known[sub.Code] = true
	}

	var (
		records []Record
		err     error
	)
	list.ForEach(func(_, v gjson.Result) bool {
		if !v.IsObject() {
			err = fmt.Errorf("%w: record %d is not an object", ErrInvalidRecord, len(records))
			return false
		}

		name := v.Get("name")
		if strings.TrimSpace(name.String()) == "" {
			err = fmt.Errorf("%w: record %d has no name", ErrInvalidRecord, len(records))
			return false
		}

		rec := Record{
			PNumber:      strings.TrimSpace(v.Get("pNumber").String()),
			Achievements: progression.Achievements{},
			Flags:        map[string]bool{},
		}
		rec.Rank, rec.Name = ParseName(s, name.String())
		if rank := strings.TrimSpace(v.Get("rank").String()); rank != "" {
			rec.Rank = rank
		}

		v.Get("achievements").ForEach(func(k, level gjson.Result) bool {
			code := syllabus.SubjectCode(k.String())
			if known[code] {
				rec.Achievements[code] = strings.TrimSpace(level.String())
			}
			return true
		})
		v.Get("flags").ForEach(func(k, held gjson.Result) bool {
			rec.Flags[k.String()] = held.Bool()
			return true
		})

		records = append(records, rec)
		return true
	})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrEmptyRoster
	}
	return records, nil
}
