// Package kiosk is the terminal front end of the time clock: the shift board
// employees clock in and out on, plus the password protected admin tools.
package kiosk

import (
	"context"

	"timeclock.service/internal/api/handler"
	"timeclock.service/internal/core"
	"timeclock.service/internal/core/bulkdelete"
)

// API is the part of the REST client the kiosk drives.
type API interface {
	bulkdelete.Backend

	Shifts(ctx context.Context, date string) ([]handler.ShiftDTO, error)
	ClockIn(ctx context.Context, userID string) (handler.ShiftDTO, error)
	ClockOut(ctx context.Context, req handler.ClockOutRequest) (string, error)
	UpdateShift(ctx context.Context, req handler.ShiftUpdateRequest) (string, error)
	DeleteShift(ctx context.Context, id int64) error

	Users(ctx context.Context, activeOnly bool) ([]handler.UserDTO, error)
	CreateUser(ctx context.Context, u handler.UserDTO, clockIn bool) (handler.UserShiftResponse, error)
	UpdateUser(ctx context.Context, u handler.UserDTO) (handler.UserDTO, error)
	DeleteUser(ctx context.Context, id string) (core.DeleteResult, error)
	UnhideUser(ctx context.Context, id string) error

	ValidateAdmin(ctx context.Context, password string) (bool, error)
	SendReportEmail(ctx context.Context) (handler.ReportQueuedResponse, error)
	Spreadsheet(ctx context.Context, date string) ([]byte, string, error)
	TimesheetPDF(ctx context.Context, date string) ([]byte, string, error)

	AddNote(ctx context.Context, note string) (bool, error)
	Notes(ctx context.Context) ([]handler.NoteDTO, error)
}
