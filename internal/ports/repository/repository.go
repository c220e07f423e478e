package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"timeclock.service/internal/core/model"
)

// ErrNotFound is returned when the addressed row does not exist.
var ErrNotFound = errors.New("record not found")

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Repository contract
type Repository interface {
	// Shifts
	CreateShift(ctx context.Context, userID, name string, clockIn time.Time) (int64, error)
	GetShift(ctx context.Context, id int64) (*model.Shift, error)
	FindOpenShift(ctx context.Context, userID string) (*model.Shift, error)
	ListShifts(ctx context.Context, from, to time.Time) ([]model.Shift, error)
	ListShiftRows(ctx context.Context, from, to time.Time) ([]model.ShiftRow, error)
	CloseShift(ctx context.Context, id int64, clockOut time.Time, timeWorked string) (bool, error)
	UpdateShiftTimes(ctx context.Context, id int64, clockIn time.Time, clockOut *time.Time, timeWorked string) error
	DeleteShift(ctx context.Context, id int64) error
	CountShiftsBefore(ctx context.Context, cutoff time.Time) (int64, error)
	DeleteShiftsBefore(ctx context.Context, cutoff time.Time) (int64, error)
	CountShiftsByUser(ctx context.Context, userID string) (int64, error)

	// Users
	CreateUser(ctx context.Context, u *model.User) error
	GetUser(ctx context.Context, id string) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	UpdateUser(ctx context.Context, u *model.User) error
	DeleteUser(ctx context.Context, id string) error
	HideUser(ctx context.Context, h model.HiddenUser) error
	UnhideUser(ctx context.Context, id string) error

	// Notes
	CreateNote(ctx context.Context, value string, at time.Time) error
	ListNotes(ctx context.Context) ([]model.Note, error)
	ListNotesBetween(ctx context.Context, from, to time.Time) ([]model.Note, error)

	// Report dispatches
	GetDispatch(ctx context.Context, requestID string) (*model.ReportDispatch, error)
	SaveDispatch(ctx context.Context, d model.ReportDispatch) error

	// WithTx runs fn against a repository bound to one transaction. It commits
	// when fn returns nil and rolls back otherwise.
	WithTx(ctx context.Context, fn func(tx Repository) error) error
}

// ErrConflict is returned when a write violates a uniqueness guard, such as a
// second open shift for the same user.
var ErrConflict = errors.New("conflicting record")
