package core

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"timeclock.service/internal/core/model"
	"timeclock.service/internal/core/timecalc"
	"timeclock.service/internal/ports/messaging"
	"timeclock.service/internal/ports/repository"
)

const (
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypePDF  = "application/pdf"
)

// DocumentRenderer turns a daily report into a file body.
type DocumentRenderer interface {
	Render(report model.DailyReport) ([]byte, error)
}

type ReportService struct {
	repo      repository.Repository
	workbook  DocumentRenderer
	pdf       DocumentRenderer
	publisher messaging.ReportPublisher
	cal       Calendar
}

// NewReportService wires report generation. publisher may be nil in processes
// that only render reports.
func NewReportService(repo repository.Repository, workbook, pdf DocumentRenderer, publisher messaging.ReportPublisher, cal Calendar) *ReportService {
	return &ReportService{repo: repo, workbook: workbook, pdf: pdf, publisher: publisher, cal: cal}
}

// Daily collects the shifts and notes of a business day. It does not fail on
// an empty day.
func (s *ReportService) Daily(ctx context.Context, day time.Time) (model.DailyReport, error) {
	loc := s.cal.Location()
	from, to := timecalc.DayRange(day, loc)

	rows, err := s.repo.ListShiftRows(ctx, from, to)
	if err != nil {
		return model.DailyReport{}, fmt.Errorf("failed to list report rows: %w", err)
	}
	notes, err := s.repo.ListNotesBetween(ctx, from, to)
	if err != nil {
		return model.DailyReport{}, fmt.Errorf("failed to list notes: %w", err)
	}

	report := model.DailyReport{Date: from, Notes: notes, TotalHours: decimal.Zero}
	for _, r := range rows {
		row := model.ReportRow{
			ShiftRow:    r,
			ClockInText: timecalc.FormatClock(r.ClockIn, loc),
			Hours:       decimal.Zero,
		}
		if r.ClockOut != nil {
			row.ClockOutText = timecalc.FormatClock(*r.ClockOut, loc)
			row.Hours = decimal.NewFromFloat(r.Worked().Hours()).Round(2)
		}
		report.TotalHours = report.TotalHours.Add(row.Hours)
		report.Rows = append(report.Rows, row)
	}
	return report, nil
}

// Spreadsheet renders the xlsx timesheet for date (YYYY-MM-DD, empty for today).
func (s *ReportService) Spreadsheet(ctx context.Context, date string) (model.Document, error) {
	report, err := s.nonEmpty(ctx, date)
	if err != nil {
		return model.Document{}, err
	}
	data, err := s.workbook.Render(report)
	if err != nil {
		return model.Document{}, fmt.Errorf("failed to render spreadsheet: %w", err)
	}
	return model.Document{
		FileName:    SpreadsheetName(report.Date),
		ContentType: ContentTypeXLSX,
		Data:        data,
	}, nil
}

// TimesheetPDF renders the printable timesheet for date.
func (s *ReportService) TimesheetPDF(ctx context.Context, date string) (model.Document, error) {
	report, err := s.nonEmpty(ctx, date)
	if err != nil {
		return model.Document{}, err
	}
	data, err := s.pdf.Render(report)
	if err != nil {
		return model.Document{}, fmt.Errorf("failed to render pdf: %w", err)
	}
	return model.Document{
		FileName:    timecalc.FileDate(report.Date) + "-timesheet.pdf",
		ContentType: ContentTypePDF,
		Data:        data,
	}, nil
}

func (s *ReportService) nonEmpty(ctx context.Context, date string) (model.DailyReport, error) {
	day, err := s.cal.Day(date)
	if err != nil {
		return model.DailyReport{}, err
	}
	report, err := s.Daily(ctx, day)
	if err != nil {
		return model.DailyReport{}, err
	}
	if len(report.Rows) == 0 {
		return model.DailyReport{}, ErrNoShiftsForDate
	}
	return report, nil
}

// RequestDailyEmail queues today's report email.
func (s *ReportService) RequestDailyEmail(ctx context.Context, trigger messaging.ReportTrigger) (messaging.ReportRequestedEvent, error) {
	if s.publisher == nil {
		return messaging.ReportRequestedEvent{}, fmt.Errorf("report publishing is not configured")
	}
	event := messaging.ReportRequestedEvent{
		RequestID:   uuid.NewString(),
		ReportDate:  s.cal.Today().Format(timecalc.DateLayout),
		Trigger:     trigger,
		RequestedAt: s.cal.Now().UTC(),
	}
	if err := s.publisher.PublishReport(ctx, event); err != nil {
		return messaging.ReportRequestedEvent{}, fmt.Errorf("failed to publish report request: %w", err)
	}
	log.Ctx(ctx).Info().Str("request_id", event.RequestID).Str("trigger", string(trigger)).Msg("Report email requested")
	return event, nil
}

// ComposeEmail builds the daily email with the workbook attached. An empty day
// still produces a message with a header-only workbook.
func (s *ReportService) ComposeEmail(ctx context.Context, day time.Time) (*model.ReportEmail, error) {
	report, err := s.Daily(ctx, day)
	if err != nil {
		return nil, err
	}
	data, err := s.workbook.Render(report)
	if err != nil {
		return nil, fmt.Errorf("failed to render spreadsheet: %w", err)
	}
	return &model.ReportEmail{
		Subject:  timecalc.FileDate(report.Date) + " Timesheet",
		HTMLBody: EmailBody(report.Notes),
		Attachment: model.Document{
			FileName:    SpreadsheetName(report.Date),
			ContentType: ContentTypeXLSX,
			Data:        data,
		},
	}, nil
}

// SpreadsheetName is the attachment and download name, e.g. "Oct14th2026-timesheet.xlsx".
func SpreadsheetName(day time.Time) string {
	return timecalc.FileDate(day) + "-timesheet.xlsx"
}

// EmailBody is the HTML body of the daily email. Notes are escaped.
func EmailBody(notes []model.Note) string {
	var b strings.Builder
	b.WriteString("<p>Attached is today's Time-clock</p>")
	if len(notes) == 0 {
		return b.String()
	}
	b.WriteString("<h4>Notes:</h4><ul>")
	for _, n := range notes {
		b.WriteString("<li>")
		b.WriteString(html.EscapeString(n.Value))
		b.WriteString("</li>")
	}
	b.WriteString("</ul>")
	return b.String()
}
