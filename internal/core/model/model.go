package model

import (
	"time"
)

// ShiftState is where a shift record sits in its daily lifecycle.
type ShiftState string

const (
	ShiftNotStarted ShiftState = "NOT_STARTED"
	ShiftClockedIn  ShiftState = "CLOCKED_IN"
	ShiftClockedOut ShiftState = "CLOCKED_OUT"
)

// DispatchStatus defines the state of a report email request.
type DispatchStatus string

const (
	DispatchPending   DispatchStatus = "PENDING"
	DispatchCompleted DispatchStatus = "COMPLETED"
	DispatchFailed    DispatchStatus = "FAILED"
)

// Shift is one employee's clock-in/clock-out record.
type Shift struct {
	ID         int64
	UserID     string
	Name       string
	ClockIn    time.Time
	ClockOut   *time.Time
	TimeWorked string
}

// State reports the lifecycle state of the record. A nil shift has not started.
func (s *Shift) State() ShiftState {
	switch {
	case s == nil || s.ClockIn.IsZero():
		return ShiftNotStarted
	case s.ClockOut == nil:
		return ShiftClockedIn
	default:
		return ShiftClockedOut
	}
}

// IsOpen is true while the clock-out action is still available.
func (s *Shift) IsOpen() bool {
	return s.State() == ShiftClockedIn
}

// Worked is the elapsed time of a closed shift, zero while open.
func (s *Shift) Worked() time.Duration {
	if s.ClockOut == nil {
		return 0
	}
	return s.ClockOut.Sub(s.ClockIn)
}

type User struct {
	ID                     string
	Name                   string
	PhoneNumber            string
	Email                  string
	PhysicalMailingAddress string
	YearVerified           *int
	Hidden                 bool
}

// VerifiedFor is true when the contact info was confirmed during year.
func (u User) VerifiedFor(year int) bool {
	return u.YearVerified != nil && *u.YearVerified == year
}

// HiddenUser records why and when a user with shift history was soft-deleted.
type HiddenUser struct {
	UserID     string
	DateHidden time.Time
	HiddenBy   string
	Reason     string
}

type Note struct {
	ID         int64
	Value      string
	InsertTime time.Time
}

// ShiftRow is a shift joined with the employee's contact details, used for reports.
type ShiftRow struct {
	Shift
	PhoneNumber    string
	Email          string
	MailingAddress string
}

// ReportDispatch tracks one emailed report request so redelivered queue
// messages do not send the same report twice.
type ReportDispatch struct {
	RequestID  string
	ReportDate time.Time
	Status     DispatchStatus
	RetryCount int
}
