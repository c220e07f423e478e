package spreadsheet

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"timeclock.service/internal/core/model"
)

func TestRenderer_Render(t *testing.T) {
	day := time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)
	report := model.DailyReport{
		Date: day,
		Rows: []model.ReportRow{
			{
				ShiftRow: model.ShiftRow{
					Shift:       model.Shift{Name: "Jane Doe", TimeWorked: "8h 30m"},
					PhoneNumber: "314-555-0199",
					Email:       "jane@candy.com",
				},
				ClockInText:  "9:00 AM",
				ClockOutText: "5:30 PM",
				Hours:        decimal.RequireFromString("8.5"),
			},
		},
		Notes:      []model.Note{{Value: "Mixer broke", InsertTime: day.Add(14 * time.Hour)}},
		TotalHours: decimal.RequireFromString("8.5"),
	}

	data, err := NewRenderer().Render(report)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(ShiftsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, Header, rows[0])
	assert.Equal(t, []string{"Jane Doe", "314-555-0199", "jane@candy.com", "", "9:00 AM", "5:30 PM", "8h 30m", "8.5"}, rows[1])
	assert.Equal(t, "Total", rows[2][0])

	styleID, err := f.GetCellStyle(ShiftsSheet, "A1")
	require.NoError(t, err)
	style, err := f.GetStyle(styleID)
	require.NoError(t, err)
	assert.True(t, style.Font.Bold)
	assert.Equal(t, "Arial", style.Font.Family)
	assert.Equal(t, float64(16), style.Font.Size)

	notes, err := f.GetRows(NotesSheet)
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, []string{"2:00 PM", "Mixer broke"}, notes[1])
}

func TestRenderer_EmptyDayHasHeaderOnly(t *testing.T) {
	data, err := NewRenderer().Render(model.DailyReport{Date: time.Now()})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(ShiftsSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
