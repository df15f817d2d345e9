package report

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"github.com/acf-tools/startrack/internal/syllabus"
)

// Sort orders rows by tier (highest first), then rank (most senior first),
// then name.
func Sort(s *syllabus.Syllabus, rows []Row) {
	slices.SortStableFunc(rows, func(a, b Row) int {
		if c := cmp.Compare(s.TierIndex(b.Outcome.Tier), s.TierIndex(a.Outcome.Tier)); c != 0 {
			return c
		}
		if c := cmp.Compare(s.RankOrder(b.Record.Rank), s.RankOrder(a.Record.Rank)); c != 0 {
			return c
		}
		return cmp.Compare(strings.ToLower(a.Record.Name), strings.ToLower(b.Record.Name))
	})
}

// TierCount is the number of individuals whose highest complete tier is Tier.
type TierCount struct {
	Tier    syllabus.TierID `json:"tier"`
	Name    string          `json:"name"`
	Count   int             `json:"count"`
	Percent int             `json:"percent"`
}

// Summary holds per-tier counts, highest tier first.
type Summary struct {
	Total int         `json:"total"`
	Tiers []TierCount `json:"tiers"`
}

// Summarize counts rows per tier. Percentages are rounded half up and are
// zero for an empty roster.
func Summarize(s *syllabus.Syllabus, rows []Row) Summary {
	counts := map[syllabus.TierID]int{}
	for _, r := range rows {
		counts[r.Outcome.Tier]++
	}

	tiers := s.Tiers()
	sum := Summary{Total: len(rows), Tiers: make([]TierCount, 0, len(tiers))}
	for i := len(tiers) - 1; i >= 0; i-- {
		t := tiers[i]
		tc := TierCount{Tier: t.ID, Name: t.Name, Count: counts[t.ID]}
		if sum.Total > 0 {
			tc.Percent = int(math.Round(float64(tc.Count) * 100 / float64(sum.Total)))
		}
		sum.Tiers = append(sum.Tiers, tc)
	}
	return sum
}

// Count returns the count for a tier.
func (s Summary) Count(id syllabus.TierID) int {
	for _, tc := range s.Tiers {
		if tc.Tier == id {
			return tc.Count
		}
	}
	return 0
}
