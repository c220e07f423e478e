package kiosk

import (
	"context"
	"errors"

	"timeclock.service/internal/api/handler"
	"timeclock.service/internal/core/onboarding"
	"timeclock.service/internal/core/validation"
)

// Onboarder walks one employee through the start-shift screens and makes the
// API calls each step needs.
type Onboarder struct {
	api  API
	flow *onboarding.Flow
}

func NewOnboarder(api API, year int) *Onboarder {
	return &Onboarder{api: api, flow: onboarding.New(year)}
}

func (o *Onboarder) Step() onboarding.Step { return o.flow.Step() }

func (o *Onboarder) Prefill() validation.Contact { return o.flow.Prefill() }

func (o *Onboarder) Toast() string { return o.flow.Toast() }

func (o *Onboarder) Back() { o.flow.Back() }

func (o *Onboarder) Select(u handler.UserDTO) (onboarding.Step, error) {
	return o.flow.SelectUser(u.Model())
}

func (o *Onboarder) NewUser() error { return o.flow.StartNewUser() }

// SubmitVerification saves the confirmed contact info stamped with this year,
// then clocks the employee in.
func (o *Onboarder) SubmitVerification(ctx context.Context, c validation.Contact) error {
	u, err := o.flow.SubmitVerification(c)
	if err != nil {
		return err
	}
	saved, err := o.api.UpdateUser(ctx, handler.NewUserDTO(u))
	if err != nil {
		return err
	}
	if _, err := o.api.ClockIn(ctx, saved.UserID); err != nil {
		return err
	}
	return o.flow.Complete(saved.Model())
}

// ConfirmClockIn answers the yes/no gate of an already verified employee.
func (o *Onboarder) ConfirmClockIn(ctx context.Context, yes bool) error {
	if _, err := o.flow.ConfirmClockIn(yes); err != nil || !yes {
		return err
	}
	u := o.flow.User()
	if u == nil {
		return errors.New("no employee selected")
	}
	if _, err := o.api.ClockIn(ctx, u.ID); err != nil {
		return err
	}
	return o.flow.Complete(*u)
}

// SubmitNewUser registers the employee; the server opens the first shift.
func (o *Onboarder) SubmitNewUser(ctx context.Context, c validation.Contact) error {
	u, err := o.flow.SubmitNewUser(c)
	if err != nil {
		return err
	}
	res, err := o.api.CreateUser(ctx, handler.NewUserDTO(u), true)
	if err != nil {
		return err
	}
	return o.flow.Complete(res.User.Model())
}
