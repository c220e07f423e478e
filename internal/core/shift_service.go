package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"timeclock.service/internal/core/bulkdelete"
	"timeclock.service/internal/core/model"
	"timeclock.service/internal/core/timecalc"
	"timeclock.service/internal/ports/repository"
)

type ShiftService struct {
	repo repository.Repository
	cal  Calendar
}

// NewShiftService wires the shift lifecycle on top of the repository.
func NewShiftService(repo repository.Repository, cal Calendar) *ShiftService {
	return &ShiftService{repo: repo, cal: cal}
}

// ClockOutRequest is what the kiosk sends when an employee leaves. ClockOut
// is the time the kiosk displayed; the server records its own time instead.
type ClockOutRequest struct {
	ShiftID  int64
	UserID   string
	ClockOut string
}

// ShiftEdit is an admin correction of both times of a shift. An empty
// ClockOut reopens the shift.
type ShiftEdit struct {
	ShiftID  int64
	ClockIn  string
	ClockOut string
}

// ListByDate returns the shifts clocked in on a business day, oldest first.
// An empty date means today.
func (s *ShiftService) ListByDate(ctx context.Context, date string) ([]model.Shift, error) {
	day, err := s.cal.Day(date)
	if err != nil {
		return nil, err
	}
	from, to := timecalc.DayRange(day, s.cal.Location())
	shifts, err := s.repo.ListShifts(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}
	return shifts, nil
}

// Today is ListByDate for the current business day.
func (s *ShiftService) Today(ctx context.Context) ([]model.Shift, error) {
	return s.ListByDate(ctx, "")
}

// ClockIn opens a shift for the user at the server's current time.
func (s *ShiftService) ClockIn(ctx context.Context, userID string) (*model.Shift, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: userId is required", ErrInvalidRequest)
	}

	var shift *model.Shift
	err := s.repo.WithTx(ctx, func(tx repository.Repository) error {
		u, err := tx.GetUser(ctx, userID)
		if err != nil {
			return userErr(err)
		}
		shift, err = s.openShift(ctx, tx, u)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Ctx(ctx).Info().Str("user_id", userID).Int64("shift_id", shift.ID).Msg("Shift started")
	return shift, nil
}

// openShift creates the record once the user may clock in. It must run
// inside the caller's transaction.
func (s *ShiftService) openShift(ctx context.Context, tx repository.Repository, u *model.User) (*model.Shift, error) {
	if u.Hidden {
		return nil, ErrUserHidden
	}
	open, err := tx.FindOpenShift(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to query open shift: %w", err)
	}
	if open != nil {
		return nil, ErrShiftAlreadyOpen
	}

	clockIn := s.cal.Now().Truncate(time.Second)
	id, err := tx.CreateShift(ctx, u.ID, u.Name, clockIn)
	if errors.Is(err, repository.ErrConflict) {
		return nil, ErrShiftAlreadyOpen
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create shift record: %w", err)
	}
	return &model.Shift{ID: id, UserID: u.ID, Name: u.Name, ClockIn: clockIn}, nil
}

// ClockOut closes an open shift and returns the computed time worked.
func (s *ShiftService) ClockOut(ctx context.Context, req ClockOutRequest) (string, error) {
	shift, err := s.repo.GetShift(ctx, req.ShiftID)
	if err != nil {
		return "", shiftErr(err)
	}
	if !shift.IsOpen() {
		return "", ErrShiftAlreadyClosed
	}
	if req.UserID != "" && req.UserID != shift.UserID {
		return "", fmt.Errorf("%w: shift %d does not belong to user %s", ErrInvalidRequest, req.ShiftID, req.UserID)
	}

	clockOut := s.cal.Now().Truncate(time.Second)
	worked := timecalc.FormatDuration(clockOut.Sub(shift.ClockIn))
	if req.ClockOut != "" {
		log.Ctx(ctx).Debug().
			Int64("shift_id", shift.ID).
			Str("client_clock_out", req.ClockOut).
			Str("server_clock_out", timecalc.FormatClock(clockOut, s.cal.Location())).
			Msg("Using server time for clock-out")
	}

	closed, err := s.repo.CloseShift(ctx, shift.ID, clockOut, worked)
	if err != nil {
		return "", fmt.Errorf("failed to update clock-out: %w", err)
	}
	if !closed {
		return "", ErrShiftAlreadyClosed
	}

	log.Ctx(ctx).Info().Str("user_id", shift.UserID).Int64("shift_id", shift.ID).Str("time_worked", worked).Msg("Shift ended")
	return worked, nil
}

// UpdateShift applies an admin edit. Both times are placed on the shift's own
// business day. It returns the recomputed time worked, empty when reopened.
func (s *ShiftService) UpdateShift(ctx context.Context, edit ShiftEdit) (string, error) {
	shift, err := s.repo.GetShift(ctx, edit.ShiftID)
	if err != nil {
		return "", shiftErr(err)
	}

	loc := s.cal.Location()
	clockIn, err := timecalc.OnDate(shift.ClockIn, edit.ClockIn, loc)
	if err != nil {
		return "", err
	}

	var clockOut *time.Time
	if strings.TrimSpace(edit.ClockOut) != "" {
		out, err := timecalc.OnDate(shift.ClockIn, edit.ClockOut, loc)
		if err != nil {
			return "", err
		}
		clockOut = &out
	}

	worked, err := timecalc.TimeWorked(clockIn, clockOut)
	if err != nil {
		return "", err
	}

	err = s.repo.UpdateShiftTimes(ctx, shift.ID, clockIn, clockOut, worked)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return "", ErrShiftNotFound
	case errors.Is(err, repository.ErrConflict):
		return "", ErrShiftAlreadyOpen
	case err != nil:
		return "", fmt.Errorf("failed to update shift: %w", err)
	}
	return worked, nil
}

func (s *ShiftService) DeleteShift(ctx context.Context, id int64) error {
	if err := s.repo.DeleteShift(ctx, id); err != nil {
		return shiftErr(err)
	}
	log.Ctx(ctx).Info().Int64("shift_id", id).Msg("Shift deleted")
	return nil
}

// CountPriorTo counts shifts clocked in before midnight of date.
func (s *ShiftService) CountPriorTo(ctx context.Context, date string) (int64, error) {
	cutoff, err := s.cutoff(date)
	if err != nil {
		return 0, err
	}
	n, err := s.repo.CountShiftsBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to count shifts: %w", err)
	}
	return n, nil
}

// DeletePriorTo removes every shift clocked in before midnight of date. The
// confirmation word is checked again here so no client can skip it.
func (s *ShiftService) DeletePriorTo(ctx context.Context, date, confirmation string) (int64, error) {
	if !bulkdelete.Confirmed(confirmation) {
		return 0, ErrConfirmationRequired
	}
	cutoff, err := s.cutoff(date)
	if err != nil {
		return 0, err
	}
	n, err := s.repo.DeleteShiftsBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete shifts: %w", err)
	}
	log.Ctx(ctx).Warn().Time("cutoff", cutoff).Int64("deleted", n).Msg("Bulk deleted shifts")
	return n, nil
}

func (s *ShiftService) cutoff(date string) (time.Time, error) {
	if strings.TrimSpace(date) == "" {
		return time.Time{}, fmt.Errorf("%w: date is required", ErrInvalidDate)
	}
	return timecalc.ParseDate(date, s.cal.Location())
}

func shiftErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrShiftNotFound
	}
	return err
}

func userErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}
