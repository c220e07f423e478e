// Package spreadsheet renders the daily timesheet as an xlsx workbook.
package spreadsheet

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"timeclock.service/internal/core/model"
	"timeclock.service/internal/core/timecalc"
)

const (
	ShiftsSheet = "Timesheet"
	NotesSheet  = "Notes"
)

// Header is the first row of the shifts sheet.
var Header = []string{"Name", "Phone", "Email", "Mailing Address", "Clock In", "Clock Out", "Time Worked", "Hours"}

type Renderer struct{}

func NewRenderer() *Renderer { return &Renderer{} }

// Render builds the workbook: one row per shift, then a totals row, with
// that day's notes on a second sheet.
func (r *Renderer) Render(report model.DailyReport) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), ShiftsSheet); err != nil {
		return nil, err
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Family: "Arial", Size: 16},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#ADD8E6"}},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}

	if err := writeRow(f, ShiftsSheet, 1, toAny(Header)); err != nil {
		return nil, err
	}
	last, _ := excelize.CoordinatesToCellName(len(Header), 1)
	if err := f.SetCellStyle(ShiftsSheet, "A1", last, headerStyle); err != nil {
		return nil, err
	}

	for i, row := range report.Rows {
		values := []any{
			row.Name,
			row.PhoneNumber,
			row.Email,
			row.MailingAddress,
			row.ClockInText,
			row.ClockOutText,
			row.TimeWorked,
			row.Hours.Round(2).InexactFloat64(),
		}
		if err := writeRow(f, ShiftsSheet, i+2, values); err != nil {
			return nil, err
		}
	}

	totalRow := len(report.Rows) + 2
	if len(report.Rows) > 0 {
		total := make([]any, len(Header))
		total[0] = "Total"
		total[len(Header)-1] = report.TotalHours.Round(2).InexactFloat64()
		if err := writeRow(f, ShiftsSheet, totalRow, total); err != nil {
			return nil, err
		}
	}
	if err := f.SetColWidth(ShiftsSheet, "A", "H", 22); err != nil {
		return nil, err
	}

	if err := writeNotes(f, report); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeNotes(f *excelize.File, report model.DailyReport) error {
	if _, err := f.NewSheet(NotesSheet); err != nil {
		return err
	}
	if err := writeRow(f, NotesSheet, 1, []any{"Time", "Note"}); err != nil {
		return err
	}
	loc := report.Date.Location()
	for i, n := range report.Notes {
		if err := writeRow(f, NotesSheet, i+2, []any{timecalc.FormatClock(n.InsertTime, loc), n.Value}); err != nil {
			return err
		}
	}
	return f.SetColWidth(NotesSheet, "B", "B", 80)
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func toAny(s []string) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}
