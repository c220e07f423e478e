// Package repositorytest provides a testify mock of repository.Repository.
package repositorytest

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"timeclock.service/internal/core/model"
	"timeclock.service/internal/ports/repository"
)

// MockRepository records calls. WithTx runs the callback against the mock
// itself, so expectations set on the mock apply inside transactions too.
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateShift(ctx context.Context, userID, name string, clockIn time.Time) (int64, error) {
	args := m.Called(ctx, userID, name, clockIn)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) GetShift(ctx context.Context, id int64) (*model.Shift, error) {
	args := m.Called(ctx, id)
	if s := args.Get(0); s != nil {
		return s.(*model.Shift), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) FindOpenShift(ctx context.Context, userID string) (*model.Shift, error) {
	args := m.Called(ctx, userID)
	if s := args.Get(0); s != nil {
		return s.(*model.Shift), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) ListShifts(ctx context.Context, from, to time.Time) ([]model.Shift, error) {
	args := m.Called(ctx, from, to)
	if s := args.Get(0); s != nil {
		return s.([]model.Shift), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) ListShiftRows(ctx context.Context, from, to time.Time) ([]model.ShiftRow, error) {
	args := m.Called(ctx, from, to)
	if s := args.Get(0); s != nil {
		return s.([]model.ShiftRow), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) CloseShift(ctx context.Context, id int64, clockOut time.Time, timeWorked string) (bool, error) {
	args := m.Called(ctx, id, clockOut, timeWorked)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) UpdateShiftTimes(ctx context.Context, id int64, clockIn time.Time, clockOut *time.Time, timeWorked string) error {
	args := m.Called(ctx, id, clockIn, clockOut, timeWorked)
	return args.Error(0)
}

func (m *MockRepository) DeleteShift(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockRepository) CountShiftsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) DeleteShiftsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) CountShiftsByUser(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) CreateUser(ctx context.Context, u *model.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockRepository) GetUser(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		// Hand out a copy so callers mutating the user do not change the fixture.
		cp := *u.(*model.User)
		return &cp, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) ListUsers(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if u := args.Get(0); u != nil {
		return u.([]model.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) UpdateUser(ctx context.Context, u *model.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockRepository) DeleteUser(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockRepository) HideUser(ctx context.Context, h model.HiddenUser) error {
	return m.Called(ctx, h).Error(0)
}

func (m *MockRepository) UnhideUser(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockRepository) CreateNote(ctx context.Context, value string, at time.Time) error {
	return m.Called(ctx, value, at).Error(0)
}

func (m *MockRepository) ListNotes(ctx context.Context) ([]model.Note, error) {
	args := m.Called(ctx)
	if n := args.Get(0); n != nil {
		return n.([]model.Note), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) ListNotesBetween(ctx context.Context, from, to time.Time) ([]model.Note, error) {
	args := m.Called(ctx, from, to)
	if n := args.Get(0); n != nil {
		return n.([]model.Note), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) GetDispatch(ctx context.Context, requestID string) (*model.ReportDispatch, error) {
	args := m.Called(ctx, requestID)
	if d := args.Get(0); d != nil {
		return d.(*model.ReportDispatch), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) SaveDispatch(ctx context.Context, d model.ReportDispatch) error {
	return m.Called(ctx, d).Error(0)
}

func (m *MockRepository) WithTx(ctx context.Context, fn func(tx repository.Repository) error) error {
	return fn(m)
}

var _ repository.Repository = (*MockRepository)(nil)
