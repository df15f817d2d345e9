package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Workbook sheet names.
const (
	SheetSummary  = "Summary"
	SheetProgress = "Progress Tracker"
	SheetPaths    = "Progression Paths"
)

// WorkbookTitle heads the summary sheet.
const WorkbookTitle = "Progress Tracker MK3 - Summary"

// WriteWorkbook writes rep as an xlsx workbook with summary, progress and
// progression path sheets.
func WriteWorkbook(w io.Writer, rep *Report) error {
	if rep == nil {
		return ErrNoReport
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	for _, name := range []string{SheetProgress, SheetPaths} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %q: %w", name, err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}
	title, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}

	ww := &sheetWriter{f: f, bold: bold}
	ww.summary(rep, title)
	ww.progress(rep)
	ww.paths(rep)
	if ww.err != nil {
		return ww.err
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// sheetWriter keeps the first error so the sheet builders read straight
// through.
type sheetWriter struct {
	f    *excelize.File
	bold int
	err  error
}

func (sw *sheetWriter) row(sheet string, n int, values ...any) {
	if sw.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		sw.err = err
		return
	}
	if err := sw.f.SetSheetRow(sheet, cell, &values); err != nil {
		sw.err = fmt.Errorf("write %s row %d: %w", sheet, n, err)
	}
}

func (sw *sheetWriter) header(sheet string, n int, values ...any) {
	sw.row(sheet, n, values...)
	sw.style(sheet, n, len(values), sw.bold)
}

func (sw *sheetWriter) style(sheet string, n, cols, style int) {
	if sw.err != nil {
		return
	}
	first, _ := excelize.CoordinatesToCellName(1, n)
	last, err := excelize.CoordinatesToCellName(max(cols, 1), n)
	if err != nil {
		sw.err = err
		return
	}
	if err := sw.f.SetCellStyle(sheet, first, last, style); err != nil {
		sw.err = fmt.Errorf("style %s row %d: %w", sheet, n, err)
	}
}

func (sw *sheetWriter) widths(sheet string, widths ...float64) {
	for i, width := range widths {
		if sw.err != nil {
			return
		}
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			sw.err = err
			return
		}
		if err := sw.f.SetColWidth(sheet, col, col, width); err != nil {
			sw.err = fmt.Errorf("size %s column %s: %w", sheet, col, err)
		}
	}
}

func (sw *sheetWriter) summary(rep *Report, titleStyle int) {
	sw.row(SheetSummary, 1, WorkbookTitle)
	sw.style(SheetSummary, 1, 1, titleStyle)
	sw.row(SheetSummary, 3, "Total Cadets:", rep.Summary.Total)
	sw.header(SheetSummary, 5, "Star Level", "Count", "Percentage")
	for i, tc := range rep.Summary.Tiers {
		sw.row(SheetSummary, 6+i, tc.Name, tc.Count, fmt.Sprintf("%d%%", tc.Percent))
	}
	sw.widths(SheetSummary, 18, 10, 12)
}

func (sw *sheetWriter) progress(rep *Report) {
	subjects := rep.Syllabus().RecordSubjects()

	header := []any{"Rank", "Name", "P-Number", "Star Level"}
	for _, sub := range subjects {
		header = append(header, string(sub.Code))
	}
	sw.header(SheetProgress, 1, header...)

	for i, r := range rep.Rows {
		values := []any{r.Record.Rank, r.Record.Name, r.Record.PNumber, r.Outcome.TierName}
		for _, sub := range subjects {
			values = append(values, r.Record.Achievements[sub.Code])
		}
		sw.row(SheetProgress, 2+i, values...)
	}
	sw.widths(SheetProgress, 10, 28, 12, 14)
	if sw.err == nil {
		sw.err = sw.f.SetPanes(SheetProgress, &excelize.Panes{
			Freeze:      true,
			YSplit:      1,
			TopLeftCell: "A2",
			ActivePane:  "bottomLeft",
		})
	}
}

func (sw *sheetWriter) paths(rep *Report) {
	sw.header(SheetPaths, 1, "Rank", "Name", "Current Level", "Next Level", "Required Subjects")
	for i, r := range rep.Rows {
		sw.row(SheetPaths, 2+i,
			r.Record.Rank,
			r.Record.Name,
			r.Outcome.TierName,
			r.Outcome.Path.NextLevel,
			strings.Join(r.Outcome.Path.Items, ItemSeparator),
		)
	}
	sw.widths(SheetPaths, 10, 28, 14, 14, 80)
}
