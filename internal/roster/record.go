// Package roster reads individual achievement records from unit returns.
package roster

import (
	"errors"
	"slices"
	"strings"

	"github.com/acf-tools/startrack/internal/progression"
	"github.com/acf-tools/startrack/internal/syllabus"
)

var (
	// ErrMissingColumn is returned when a required column is absent.
	ErrMissingColumn = errors.New("missing required column")

	// ErrEmptyRoster is returned when input holds no records.
	ErrEmptyRoster = errors.New("roster has no records")

	// ErrInvalidRecord is returned for malformed record input.
	ErrInvalidRecord = errors.New("invalid record")
)

// Record is one individual's row.
type Record struct {
	Rank         string                   `json:"rank"`
	Name         string                   `json:"name"`
	PNumber      string                   `json:"pNumber,omitempty"`
	Achievements progression.Achievements `json:"achievements"`
	Flags        map[string]bool          `json:"flags,omitempty"`
}

// Context returns the predicate context for the record.
func (r Record) Context() progression.Context {
	return progression.Context{Rank: r.Rank, Flags: r.Flags}
}

var cadetPrefixes = []string{"cadet", "cdt"}

// ParseName splits a "Cadet <rank> <name>" roll entry into rank and name.
// The rank must be one the syllabus declares; longer codes win so
// "Sgt Maj" is preferred over "Sgt". Entries without a cadet prefix are
// returned unchanged with an empty rank.
func ParseName(s *syllabus.Syllabus, raw string) (rank, name string) {
	name = strings.Join(strings.Fields(raw), " ")
	rest, ok := cutPrefixWord(name, cadetPrefixes...)
	if !ok {
		return "", name
	}

	codes := make([]string, 0, len(s.Ranks()))
	for _, r := range s.Ranks() {
		codes = append(codes, r.Code)
	}
	slices.SortStableFunc(codes, func(a, b string) int { return len(b) - len(a) })

	for _, code := range codes {
		if after, ok := cutPrefixWord(rest, code); ok {
			return code, after
		}
	}
	return "", rest
}

// cutPrefixWord removes the first of prefixes that s starts with as whole
// words, ignoring case.
func cutPrefixWord(s string, prefixes ...string) (string, bool) {
	for _, p := range prefixes {
		if len(s) < len(p) || !strings.EqualFold(s[:len(p)], p) {
			continue
		}
		rest := s[len(p):]
		if rest == "" {
			return "", true
		}
		if rest[0] == ' ' {
			return strings.TrimSpace(rest), true
		}
	}
	return s, false
}
