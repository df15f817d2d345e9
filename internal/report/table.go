package report

import (
	"fmt"
	"io"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/acf-tools/startrack/internal/ui/theme"
)

// ItemSeparator joins required items in single-cell renderings.
const ItemSeparator = ", "

// TableOptions controls RenderTable.
type TableOptions struct {
	// Paths adds next level and required items columns.
	Paths bool
}

// RenderTable writes the progress table for rep to w.
func RenderTable(w io.Writer, rep *Report, opts TableOptions) error {
	if rep == nil {
		return ErrNoReport
	}
	s := rep.Syllabus()

	headers := []string{"Rank", "Name", "P-Number", "Level"}
	if opts.Paths {
		headers = append(headers, "Next Level", "Required")
	}

	rows := make([][]string, len(rep.Rows))
	for i, r := range rep.Rows {
		row := []string{r.Record.Rank, r.Record.Name, r.Record.PNumber, r.Outcome.TierName}
		if opts.Paths {
			row = append(row, r.Outcome.Path.NextLevel, strings.Join(r.Outcome.Path.Items, ItemSeparator))
		}
		rows[i] = row
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(theme.TableBorder).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return theme.TableHeader
			}
			if col == 3 && row >= 0 && row < len(rep.Rows) {
				switch tier := rep.Rows[row].Outcome.Tier; {
				case s.IsTerminal(tier):
					return theme.Top
				case tier == s.Initial().ID:
					return theme.Untrained
				}
			}
			return theme.TableCell
		})

	title := theme.Title.Render(fmt.Sprintf("%s %s", s.Name(), rep.Version))
	_, err := lipgloss.Fprintln(w, lipgloss.JoinVertical(lipgloss.Left, title, t.Render()))
	return err
}

// RenderSummary writes per-tier counts with percentage bars.
func RenderSummary(w io.Writer, rep *Report, width int) error {
	if rep == nil {
		return ErrNoReport
	}

	nameWidth := 0
	for _, tc := range rep.Summary.Tiers {
		nameWidth = max(nameWidth, lipgloss.Width(tc.Name))
	}

	lines := []string{
		theme.Title.Render("Progress Tracker Summary"),
		theme.Hint.Render(fmt.Sprintf("%d individuals, syllabus %s", rep.Summary.Total, rep.Version)),
		"",
	}
	for _, tc := range rep.Summary.Tiers {
		label := theme.Body.Width(nameWidth).Render(tc.Name)
		lines = append(lines, fmt.Sprintf("%s  %s  %3d  %3d%%", label, bar(tc.Percent, width), tc.Count, tc.Percent))
	}

	_, err := lipgloss.Fprintln(w, strings.Join(lines, "\n"))
	return err
}

func bar(percent, width int) string {
	if width < 4 {
		width = 4
	}
	filled := min(max(width*percent/100, 0), width)
	return theme.ProgressFilled.Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", width-filled))
}
