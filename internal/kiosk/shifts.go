package kiosk

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"timeclock.service/internal/api/handler"
)

// ShiftRow is a shift as the board shows it. Loading is set while its
// clock-out request is in flight.
type ShiftRow struct {
	handler.ShiftDTO
	Loading bool
}

// Completed is true once the server has recorded a clock-out.
func (r ShiftRow) Completed() bool { return r.ClockOut != "" }

// Action is the clock-out cell: the read-only time of a closed shift, or the
// clock-out action while the shift is open.
func (r ShiftRow) Action() string {
	switch {
	case r.Loading:
		return "..."
	case r.Completed():
		return r.ClockOut
	default:
		return "[clock out]"
	}
}

// ShiftBoard holds the shift list of one day.
type ShiftBoard struct {
	api           API
	date          string
	rows          []ShiftRow
	hideCompleted bool
}

func NewShiftBoard(api API, hideCompleted bool) *ShiftBoard {
	return &ShiftBoard{api: api, hideCompleted: hideCompleted}
}

// Date is the day on display; empty means today.
func (b *ShiftBoard) Date() string { return b.date }

// Show switches the board to date and reloads it.
func (b *ShiftBoard) Show(ctx context.Context, date string) error {
	b.date = date
	return b.Refresh(ctx)
}

// Refresh reloads the list. On failure the previous rows stay.
func (b *ShiftBoard) Refresh(ctx context.Context) error {
	shifts, err := b.api.Shifts(ctx, b.date)
	if err != nil {
		return err
	}
	rows := make([]ShiftRow, len(shifts))
	for i, s := range shifts {
		rows[i] = ShiftRow{ShiftDTO: s}
	}
	b.rows = rows
	return nil
}

func (b *ShiftBoard) SetHideCompleted(hide bool) { b.hideCompleted = hide }

func (b *ShiftBoard) HideCompleted() bool { return b.hideCompleted }

// Rows returns the visible rows.
func (b *ShiftBoard) Rows() []ShiftRow {
	if !b.hideCompleted {
		return b.rows
	}
	var open []ShiftRow
	for _, r := range b.rows {
		if !r.Completed() {
			open = append(open, r)
		}
	}
	return open
}

func (b *ShiftBoard) Row(shiftID int64) (ShiftRow, bool) {
	if i := b.index(shiftID); i >= 0 {
		return b.rows[i], true
	}
	return ShiftRow{}, false
}

// ClockOut submits the clock-out of an open row. On failure the row goes back
// to open and the server's error is returned.
func (b *ShiftBoard) ClockOut(ctx context.Context, shiftID int64, displayTime string) (string, error) {
	i := b.index(shiftID)
	if i < 0 {
		return "", fmt.Errorf("no shift %d on the board", shiftID)
	}
	if b.rows[i].Completed() {
		return "", fmt.Errorf("%s is already clocked out", b.rows[i].Name)
	}

	b.rows[i].Loading = true
	worked, err := b.api.ClockOut(ctx, handler.ClockOutRequest{
		ShiftID:  shiftID,
		UserID:   b.rows[i].UserID,
		ClockOut: displayTime,
	})
	b.rows[i].Loading = false
	if err != nil {
		return "", err
	}
	b.rows[i].TimeWorked = worked

	// The recorded clock-out time comes from the server.
	if err := b.Refresh(ctx); err != nil {
		log.Warn().Err(err).Int64("shift_id", shiftID).Msg("Board not refreshed after clock-out")
		b.rows[i].ClockOut = displayTime
	}
	return worked, nil
}

// Edit applies an admin correction and reloads the board.
func (b *ShiftBoard) Edit(ctx context.Context, shiftID int64, clockIn, clockOut string) (string, error) {
	worked, err := b.api.UpdateShift(ctx, handler.ShiftUpdateRequest{ShiftID: shiftID, ClockIn: clockIn, ClockOut: clockOut})
	if err != nil {
		return "", err
	}
	return worked, b.Refresh(ctx)
}

func (b *ShiftBoard) Delete(ctx context.Context, shiftID int64) error {
	if err := b.api.DeleteShift(ctx, shiftID); err != nil {
		return err
	}
	return b.Refresh(ctx)
}

func (b *ShiftBoard) index(shiftID int64) int {
	for i, r := range b.rows {
		if r.ShiftID == shiftID {
			return i
		}
	}
	return -1
}
