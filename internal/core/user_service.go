package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"timeclock.service/internal/core/model"
	"timeclock.service/internal/core/onboarding"
	"timeclock.service/internal/core/validation"
	"timeclock.service/internal/ports/repository"
)

// UserCache holds the user list between writes. Implementations must treat
// every failure as a miss. Users returns a stamp that StoreUsers must be given
// back, so a list read before an invalidation is never served after it.
type UserCache interface {
	Users(ctx context.Context) ([]model.User, string, bool)
	StoreUsers(ctx context.Context, stamp string, users []model.User)
	InvalidateUsers(ctx context.Context)
}

type noCache struct{}

func (noCache) Users(context.Context) ([]model.User, string, bool) { return nil, "", false }
func (noCache) StoreUsers(context.Context, string, []model.User)   {}
func (noCache) InvalidateUsers(context.Context)                    {}

// Delete outcomes reported back to the admin.
const (
	ActionHidden  = "hidden"
	ActionDeleted = "deleted"
)

// DeleteResult says what the server decided to do with a delete request.
type DeleteResult struct {
	Action string `json:"action"`
	Reason string `json:"reason"`
}

// NewUser is a registration from the kiosk. ClockIn opens the first shift in
// the same transaction.
type NewUser struct {
	validation.Contact
	YearVerified *int
	ClockIn      bool
}

type UserService struct {
	repo   repository.Repository
	shifts *ShiftService
	cache  UserCache
	cal    Calendar
}

// NewUserService wires user management. cache may be nil.
func NewUserService(repo repository.Repository, shifts *ShiftService, cache UserCache, cal Calendar) *UserService {
	if cache == nil {
		cache = noCache{}
	}
	return &UserService{repo: repo, shifts: shifts, cache: cache, cal: cal}
}

// List returns every user ordered by name. activeOnly drops hidden users.
func (s *UserService) List(ctx context.Context, activeOnly bool) ([]model.User, error) {
	users, stamp, ok := s.cache.Users(ctx)
	if !ok {
		var err error
		users, err = s.repo.ListUsers(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list users: %w", err)
		}
		s.cache.StoreUsers(ctx, stamp, users)
	}
	if !activeOnly {
		return users, nil
	}
	active := make([]model.User, 0, len(users))
	for _, u := range users {
		if !u.Hidden {
			active = append(active, u)
		}
	}
	return active, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*model.User, error) {
	u, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return nil, userErr(err)
	}
	return u, nil
}

// Create registers a user and, when asked, starts their first shift.
func (s *UserService) Create(ctx context.Context, in NewUser) (*model.User, *model.Shift, error) {
	if err := in.Validate(); err != nil {
		return nil, nil, err
	}

	u := &model.User{
		ID:                     uuid.NewString(),
		Name:                   validation.NormalizeName(in.Name),
		PhoneNumber:            in.PhoneNumber,
		Email:                  in.Email,
		PhysicalMailingAddress: in.PhysicalMailingAddress,
		YearVerified:           in.YearVerified,
	}
	if u.YearVerified == nil {
		year := s.cal.Year()
		u.YearVerified = &year
	}

	var shift *model.Shift
	err := s.repo.WithTx(ctx, func(tx repository.Repository) error {
		if err := tx.CreateUser(ctx, u); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		if !in.ClockIn {
			return nil
		}
		var err error
		shift, err = s.shifts.openShift(ctx, tx, u)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	s.cache.InvalidateUsers(ctx)

	log.Ctx(ctx).Info().Str("user_id", u.ID).Bool("clocked_in", shift != nil).Msg("User created")
	return u, shift, nil
}

// Update replaces a user's contact details and verification year.
func (s *UserService) Update(ctx context.Context, u model.User) (*model.User, error) {
	if err := contactOf(u).Validate(); err != nil {
		return nil, err
	}
	u.Name = validation.NormalizeName(u.Name)

	if err := s.repo.UpdateUser(ctx, &u); err != nil {
		return nil, userErr(err)
	}
	s.cache.InvalidateUsers(ctx)

	return s.Get(ctx, u.ID)
}

// Verify records this year's contact confirmation and clocks the user in,
// both in one transaction.
func (s *UserService) Verify(ctx context.Context, id string, c validation.Contact) (*model.User, *model.Shift, error) {
	if err := c.Validate(); err != nil {
		return nil, nil, err
	}

	var (
		u     *model.User
		shift *model.Shift
	)
	err := s.repo.WithTx(ctx, func(tx repository.Repository) error {
		var err error
		u, err = tx.GetUser(ctx, id)
		if err != nil {
			return userErr(err)
		}
		year := s.cal.Year()
		u.Name = validation.NormalizeName(c.Name)
		u.PhoneNumber = c.PhoneNumber
		u.Email = c.Email
		u.PhysicalMailingAddress = c.PhysicalMailingAddress
		u.YearVerified = &year
		if err := tx.UpdateUser(ctx, u); err != nil {
			return userErr(err)
		}
		shift, err = s.shifts.openShift(ctx, tx, u)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	s.cache.InvalidateUsers(ctx)
	return u, shift, nil
}

// Delete hides users that have shift history and removes the rest.
func (s *UserService) Delete(ctx context.Context, id, by string) (DeleteResult, error) {
	var res DeleteResult
	err := s.repo.WithTx(ctx, func(tx repository.Repository) error {
		if _, err := tx.GetUser(ctx, id); err != nil {
			return userErr(err)
		}
		n, err := tx.CountShiftsByUser(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to count user shifts: %w", err)
		}
		if n == 0 {
			res = DeleteResult{Action: ActionDeleted, Reason: "user has no shift history"}
			return userErr(tx.DeleteUser(ctx, id))
		}
		res = DeleteResult{Action: ActionHidden, Reason: fmt.Sprintf("user has %d shift(s) on record", n)}
		return tx.HideUser(ctx, model.HiddenUser{
			UserID:     id,
			DateHidden: s.cal.Now(),
			HiddenBy:   by,
			Reason:     res.Reason,
		})
	})
	if err != nil {
		return DeleteResult{}, err
	}
	s.cache.InvalidateUsers(ctx)

	log.Ctx(ctx).Info().Str("user_id", id).Str("action", res.Action).Msg("User removed")
	return res, nil
}

// Unhide restores a hidden user. Unhiding a visible user is a no-op.
func (s *UserService) Unhide(ctx context.Context, id string) error {
	u, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !u.Hidden {
		return nil
	}
	if err := s.repo.UnhideUser(ctx, id); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("failed to unhide user: %w", err)
	}
	s.cache.InvalidateUsers(ctx)
	return nil
}

// NextStep is the onboarding screen a returning user is routed to.
func (s *UserService) NextStep(ctx context.Context, id string) (onboarding.Step, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return onboarding.RouteFor(*u, s.cal.Year()), nil
}

// NormalizeNames rewrites every stored name that does not follow the
// "Firstname Lastname" convention and returns how many changed.
func (s *UserService) NormalizeNames(ctx context.Context) (int, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list users: %w", err)
	}

	fixed := 0
	for i := range users {
		u := users[i]
		if validation.ProperName(u.Name) {
			continue
		}
		normalized := validation.NormalizeName(u.Name)
		if normalized == "" || normalized == u.Name {
			continue
		}
		u.Name = normalized
		if err := s.repo.UpdateUser(ctx, &u); err != nil {
			return fixed, fmt.Errorf("failed to update user %s: %w", u.ID, err)
		}
		fixed++
	}
	if fixed > 0 {
		s.cache.InvalidateUsers(ctx)
	}
	return fixed, nil
}

func contactOf(u model.User) validation.Contact {
	return validation.Contact{
		Name:                   u.Name,
		PhoneNumber:            u.PhoneNumber,
		Email:                  u.Email,
		PhysicalMailingAddress: u.PhysicalMailingAddress,
	}
}
