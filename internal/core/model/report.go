package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReportRow is one shift as it appears on the daily timesheet.
type ReportRow struct {
	ShiftRow
	ClockInText  string
	ClockOutText string
	Hours        decimal.Decimal
}

// DailyReport is everything printed or attached for one business day.
type DailyReport struct {
	Date       time.Time
	Rows       []ReportRow
	Notes      []Note
	TotalHours decimal.Decimal
}

// Document is a generated file ready to download or attach.
type Document struct {
	FileName    string
	ContentType string
	Data        []byte
}

// ReportEmail is the composed daily timesheet message.
type ReportEmail struct {
	Subject    string
	HTMLBody   string
	Attachment Document
}
