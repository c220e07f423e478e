package core

import (
	"errors"

	"timeclock.service/internal/core/timecalc"
	"timeclock.service/internal/core/validation"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrShiftNotFound        = errors.New("shift not found")
	ErrShiftAlreadyOpen     = errors.New("user already has an open shift")
	ErrShiftAlreadyClosed   = errors.New("shift is already clocked out")
	ErrUserHidden           = errors.New("user is hidden and cannot clock in")
	ErrConfirmationRequired = errors.New(`type "delete" to confirm`)
	ErrNoShiftsForDate      = errors.New("No shifts found for this date")
	ErrUnauthorized         = errors.New("admin authorization required")
	ErrInvalidRequest       = errors.New("invalid request")

	ErrInvalidClockTime      = timecalc.ErrInvalidClock
	ErrClockOutBeforeClockIn = timecalc.ErrClockOutBeforeClockIn
	ErrInvalidDate           = timecalc.ErrInvalidDate

	ErrInvalidEmail = validation.ErrInvalidEmail
	ErrInvalidPhone = validation.ErrInvalidPhone
	ErrNameRequired = validation.ErrNameRequired
)
