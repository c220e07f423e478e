// Package onboarding is the start-shift flow an employee walks through at the
// kiosk. Returning employees re-confirm their contact information once per
// calendar year before they are allowed to clock in.
package onboarding

import (
	"errors"
	"fmt"

	"timeclock.service/internal/core/model"
	"timeclock.service/internal/core/validation"
)

type Step string

const (
	StepSelectUser     Step = "SELECT_USER"
	StepVerifyInfo     Step = "VERIFY_INFO"
	StepNewUser        Step = "NEW_USER"
	StepConfirmClockIn Step = "CONFIRM_CLOCK_IN"
	StepDone           Step = "DONE"
)

var ErrInvalidTransition = errors.New("invalid onboarding transition")

// RouteFor decides where a selected returning employee goes next.
func RouteFor(u model.User, year int) Step {
	if u.VerifiedFor(year) {
		return StepConfirmClockIn
	}
	return StepVerifyInfo
}

// Flow is a single walk through the start-shift screens. It is not safe for
// concurrent use.
type Flow struct {
	year int
	step Step
	user *model.User
}

// New starts a flow at SELECT_USER for the given calendar year.
func New(year int) *Flow {
	return &Flow{year: year, step: StepSelectUser}
}

func (f *Flow) Step() Step { return f.step }

func (f *Flow) Year() int { return f.year }

// User is the selected employee, nil until one is picked.
func (f *Flow) User() *model.User { return f.user }

// Prefill is the contact form content shown on VERIFY_INFO.
func (f *Flow) Prefill() validation.Contact {
	if f.user == nil {
		return validation.Contact{}
	}
	return validation.Contact{
		Name:                   f.user.Name,
		PhoneNumber:            f.user.PhoneNumber,
		Email:                  f.user.Email,
		PhysicalMailingAddress: f.user.PhysicalMailingAddress,
	}
}

// SelectUser picks a returning employee and routes to VERIFY_INFO or CONFIRM_CLOCK_IN.
func (f *Flow) SelectUser(u model.User) (Step, error) {
	if err := f.expect(StepSelectUser); err != nil {
		return f.step, err
	}
	f.user = &u
	f.step = RouteFor(u, f.year)
	return f.step, nil
}

// StartNewUser moves an unregistered employee to the registration form.
func (f *Flow) StartNewUser() error {
	if err := f.expect(StepSelectUser); err != nil {
		return err
	}
	f.user = nil
	f.step = StepNewUser
	return nil
}

// SubmitVerification validates the confirmed contact info and returns the
// user record to save, stamped as verified for this year. The flow only moves
// to DONE once Complete is called after the clock-in succeeded.
func (f *Flow) SubmitVerification(c validation.Contact) (model.User, error) {
	if err := f.expect(StepVerifyInfo); err != nil {
		return model.User{}, err
	}
	if err := c.Validate(); err != nil {
		return model.User{}, err
	}
	year := f.year
	u := *f.user
	u.Name = c.Name
	u.PhoneNumber = c.PhoneNumber
	u.Email = c.Email
	u.PhysicalMailingAddress = c.PhysicalMailingAddress
	u.YearVerified = &year
	return u, nil
}

// SubmitNewUser validates the registration form and returns the user to create.
func (f *Flow) SubmitNewUser(c validation.Contact) (model.User, error) {
	if err := f.expect(StepNewUser); err != nil {
		return model.User{}, err
	}
	if err := c.Validate(); err != nil {
		return model.User{}, err
	}
	year := f.year
	return model.User{
		Name:                   c.Name,
		PhoneNumber:            c.PhoneNumber,
		Email:                  c.Email,
		PhysicalMailingAddress: c.PhysicalMailingAddress,
		YearVerified:           &year,
	}, nil
}

// ConfirmClockIn answers the yes/no gate. "No" returns to SELECT_USER;
// "yes" means the caller may fire the clock-in and then Complete.
func (f *Flow) ConfirmClockIn(yes bool) (Step, error) {
	if err := f.expect(StepConfirmClockIn); err != nil {
		return f.step, err
	}
	if !yes {
		f.reset()
	}
	return f.step, nil
}

// Complete finishes the flow once the clock-in went through. u is the
// employee as saved by the server.
func (f *Flow) Complete(u model.User) error {
	switch f.step {
	case StepVerifyInfo, StepNewUser, StepConfirmClockIn:
		f.user = &u
		f.step = StepDone
		return nil
	default:
		return fmt.Errorf("%w: complete from %s", ErrInvalidTransition, f.step)
	}
}

// Back abandons the current screen.
func (f *Flow) Back() {
	if f.step != StepDone {
		f.reset()
	}
}

// Toast is the confirmation shown once the shift has started.
func (f *Flow) Toast() string {
	if f.step != StepDone || f.user == nil {
		return ""
	}
	return f.user.Name + " has started a shift!"
}

func (f *Flow) reset() {
	f.user = nil
	f.step = StepSelectUser
}

func (f *Flow) expect(s Step) error {
	if f.step != s {
		return fmt.Errorf("%w: at %s, need %s", ErrInvalidTransition, f.step, s)
	}
	return nil
}
