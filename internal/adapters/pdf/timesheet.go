// Package pdf renders the printable daily timesheet with Maroto v2.
package pdf

import (
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"timeclock.service/internal/core/model"
)

var (
	colorHeader = &props.Color{Red: 173, Green: 216, Blue: 230}
	colorGray   = &props.Color{Red: 100, Green: 100, Blue: 100}
)

type Renderer struct {
	company string
}

// NewRenderer builds a renderer that titles every page with company.
func NewRenderer(company string) *Renderer { return &Renderer{company: company} }

// Render lays out a landscape timesheet followed by a totals line and the notes.
func (r *Renderer) Render(report model.DailyReport) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.Letter).
		WithOrientation(orientation.Horizontal).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(r.company+" Timesheet", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(titleRow(r.company, report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.4}))
	m.AddRows(headerRow())
	m.AddRows(shiftRows(report.Rows)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(totalRow(report))

	if len(report.Notes) > 0 {
		m.AddRows(line.NewRow(4))
		m.AddRows(text.NewRow(7, "Notes", props.Text{Style: fontstyle.Bold, Size: 10}))
		for _, n := range report.Notes {
			m.AddRows(text.NewRow(6, "- "+n.Value, props.Text{Size: 9, Left: 2}))
		}
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generate timesheet: %w", err)
	}
	return doc.GetBytes(), nil
}

func titleRow(company string, report model.DailyReport) core.Row {
	return row.New(14).Add(
		col.New(8).Add(text.New(company+" Timesheet", props.Text{
			Style: fontstyle.Bold, Size: 14, Top: 2,
		})),
		col.New(4).Add(text.New(report.Date.Format("Monday, January 2, 2006"), props.Text{
			Size: 10, Align: align.Right, Top: 4, Color: colorGray,
		})),
	)
}

var columns = []struct {
	label string
	size  int
}{
	{"Name", 3},
	{"Phone", 2},
	{"Email", 3},
	{"Clock In", 1},
	{"Clock Out", 1},
	{"Worked", 1},
	{"Hours", 1},
}

func headerRow() core.Row {
	cols := make([]core.Col, 0, len(columns))
	for _, c := range columns {
		cols = append(cols, col.New(c.size).Add(text.New(c.label, props.Text{
			Style: fontstyle.Bold, Size: 9, Top: 2, Left: 1,
		})))
	}
	return row.New(8).WithStyle(&props.Cell{BackgroundColor: colorHeader}).Add(cols...)
}

func shiftRows(rows []model.ReportRow) []core.Row {
	out := make([]core.Row, 0, len(rows))
	for _, r := range rows {
		values := []string{
			r.Name,
			r.PhoneNumber,
			r.Email,
			r.ClockInText,
			r.ClockOutText,
			r.TimeWorked,
			r.Hours.StringFixed(2),
		}
		cols := make([]core.Col, 0, len(columns))
		for i, c := range columns {
			cols = append(cols, col.New(c.size).Add(text.New(values[i], props.Text{Size: 8, Top: 1, Left: 1})))
		}
		out = append(out, row.New(7).Add(cols...))
	}
	return out
}

func totalRow(report model.DailyReport) core.Row {
	return row.New(8).Add(
		col.New(11).Add(text.New(fmt.Sprintf("Total hours (%d shifts)", len(report.Rows)), props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 2, Right: 2,
		})),
		col.New(1).Add(text.New(report.TotalHours.StringFixed(2), props.Text{
			Style: fontstyle.Bold, Size: 9, Top: 2, Left: 1,
		})),
	)
}
