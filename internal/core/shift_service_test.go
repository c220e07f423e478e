package core

import (
	"context"
	"errors"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"timeclock.service/internal/core/model"
	"timeclock.service/internal/ports/repository"
	"timeclock.service/internal/ports/repository/repositorytest"
)

var chicago, _ = time.LoadLocation("America/Chicago")

// 2026-10-14 17:30 in Chicago.
var fixedNow = time.Date(2026, 10, 14, 17, 30, 0, 0, chicago)

func testCalendar() Calendar {
	return NewCalendar(chicago, func() time.Time { return fixedNow })
}

func at(hour, minute int) time.Time {
	return time.Date(2026, 10, 14, hour, minute, 0, 0, chicago)
}

func TestShiftService_ClockIn(t *testing.T) {
	ctx := context.Background()
	jane := &model.User{ID: "u1", Name: "Jane Doe"}

	tests := []struct {
		name    string
		setup   func(repo *repositorytest.MockRepository)
		wantErr error
	}{
		{
			name: "opens a shift",
			setup: func(repo *repositorytest.MockRepository) {
				repo.On("GetUser", mock.Anything, "u1").Return(jane, nil)
				repo.On("FindOpenShift", mock.Anything, "u1").Return(nil, nil)
				repo.On("CreateShift", mock.Anything, "u1", "Jane Doe", fixedNow).Return(int64(7), nil)
			},
		},
		{
			name: "unknown user",
			setup: func(repo *repositorytest.MockRepository) {
				repo.On("GetUser", mock.Anything, "u1").Return(nil, repository.ErrNotFound)
			},
			wantErr: ErrUserNotFound,
		},
		{
			name: "hidden user",
			setup: func(repo *repositorytest.MockRepository) {
				repo.On("GetUser", mock.Anything, "u1").Return(&model.User{ID: "u1", Hidden: true}, nil)
			},
			wantErr: ErrUserHidden,
		},
		{
			name: "already open",
			setup: func(repo *repositorytest.MockRepository) {
				repo.On("GetUser", mock.Anything, "u1").Return(jane, nil)
				repo.On("FindOpenShift", mock.Anything, "u1").Return(&model.Shift{ID: 3, ClockIn: at(9, 0)}, nil)
			},
			wantErr: ErrShiftAlreadyOpen,
		},
		{
			name: "lost the race to the unique index",
			setup: func(repo *repositorytest.MockRepository) {
				repo.On("GetUser", mock.Anything, "u1").Return(jane, nil)
				repo.On("FindOpenShift", mock.Anything, "u1").Return(nil, nil)
				repo.On("CreateShift", mock.Anything, "u1", "Jane Doe", fixedNow).Return(int64(0), repository.ErrConflict)
			},
			wantErr: ErrShiftAlreadyOpen,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(repositorytest.MockRepository)
			tt.setup(repo)
			svc := NewShiftService(repo, testCalendar())

			shift, err := svc.ClockIn(ctx, "u1")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, shift)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(7), shift.ID)
			assert.True(t, shift.IsOpen())
			repo.AssertExpectations(t)
		})
	}
}

func TestShiftService_ClockIn_RequiresUserID(t *testing.T) {
	svc := NewShiftService(new(repositorytest.MockRepository), testCalendar())
	_, err := svc.ClockIn(context.Background(), " ")
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestShiftService_ClockOut_UsesServerTime(t *testing.T) {
	repo := new(repositorytest.MockRepository)
	repo.On("GetShift", mock.Anything, int64(5)).Return(&model.Shift{ID: 5, UserID: "u1", ClockIn: at(9, 0)}, nil)
	repo.On("CloseShift", mock.Anything, int64(5), fixedNow, "8h 30m").Return(true, nil)

	svc := NewShiftService(repo, testCalendar())
	worked, err := svc.ClockOut(context.Background(), ClockOutRequest{ShiftID: 5, UserID: "u1", ClockOut: "11:59 PM"})

	require.NoError(t, err)
	assert.Equal(t, "8h 30m", worked)
	repo.AssertExpectations(t)
}

func TestShiftService_ClockOut_Twice(t *testing.T) {
	out := at(12, 0)
	repo := new(repositorytest.MockRepository)
	repo.On("GetShift", mock.Anything, int64(5)).Return(&model.Shift{ID: 5, ClockIn: at(9, 0), ClockOut: &out}, nil)

	svc := NewShiftService(repo, testCalendar())
	_, err := svc.ClockOut(context.Background(), ClockOutRequest{ShiftID: 5})

	assert.ErrorIs(t, err, ErrShiftAlreadyClosed)
	repo.AssertNotCalled(t, "CloseShift", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestShiftService_ClockOut_ConcurrentLoser(t *testing.T) {
	repo := new(repositorytest.MockRepository)
	repo.On("GetShift", mock.Anything, int64(5)).Return(&model.Shift{ID: 5, ClockIn: at(9, 0)}, nil)
	repo.On("CloseShift", mock.Anything, int64(5), fixedNow, "8h 30m").Return(false, nil)

	svc := NewShiftService(repo, testCalendar())
	_, err := svc.ClockOut(context.Background(), ClockOutRequest{ShiftID: 5})
	assert.ErrorIs(t, err, ErrShiftAlreadyClosed)
}

func TestShiftService_ClockOut_Missing(t *testing.T) {
	repo := new(repositorytest.MockRepository)
	repo.On("GetShift", mock.Anything, int64(9)).Return(nil, repository.ErrNotFound)

	svc := NewShiftService(repo, testCalendar())
	_, err := svc.ClockOut(context.Background(), ClockOutRequest{ShiftID: 9})
	assert.ErrorIs(t, err, ErrShiftNotFound)
}

func TestShiftService_UpdateShift(t *testing.T) {
	ctx := context.Background()
	stored := &model.Shift{ID: 5, ClockIn: at(8, 12)}

	t.Run("recomputes time worked on the shift's day", func(t *testing.T) {
		repo := new(repositorytest.MockRepository)
		repo.On("GetShift", mock.Anything, int64(5)).Return(stored, nil)
		out := at(17, 30)
		repo.On("UpdateShiftTimes", mock.Anything, int64(5), at(9, 0), &out, "8h 30m").Return(nil)

		worked, err := NewShiftService(repo, testCalendar()).UpdateShift(ctx, ShiftEdit{ShiftID: 5, ClockIn: "9:00 am", ClockOut: " 5:30 PM "})
		require.NoError(t, err)
		assert.Equal(t, "8h 30m", worked)
		repo.AssertExpectations(t)
	})

	t.Run("empty clock-out reopens", func(t *testing.T) {
		repo := new(repositorytest.MockRepository)
		repo.On("GetShift", mock.Anything, int64(5)).Return(stored, nil)
		repo.On("UpdateShiftTimes", mock.Anything, int64(5), at(9, 0), (*time.Time)(nil), "").Return(nil)

		worked, err := NewShiftService(repo, testCalendar()).UpdateShift(ctx, ShiftEdit{ShiftID: 5, ClockIn: "9:00 AM"})
		require.NoError(t, err)
		assert.Empty(t, worked)
	})

	t.Run("clock-out before clock-in", func(t *testing.T) {
		repo := new(repositorytest.MockRepository)
		repo.On("GetShift", mock.Anything, int64(5)).Return(stored, nil)

		_, err := NewShiftService(repo, testCalendar()).UpdateShift(ctx, ShiftEdit{ShiftID: 5, ClockIn: "5:00 PM", ClockOut: "9:00 AM"})
		assert.ErrorIs(t, err, ErrClockOutBeforeClockIn)
		assert.EqualError(t, err, "Invalid - Clock out before clock in")
	})

	t.Run("unparseable time", func(t *testing.T) {
		repo := new(repositorytest.MockRepository)
		repo.On("GetShift", mock.Anything, int64(5)).Return(stored, nil)

		_, err := NewShiftService(repo, testCalendar()).UpdateShift(ctx, ShiftEdit{ShiftID: 5, ClockIn: "25:00"})
		assert.ErrorIs(t, err, ErrInvalidClockTime)
	})
}

func TestShiftService_ListByDate(t *testing.T) {
	repo := new(repositorytest.MockRepository)
	from := time.Date(2026, 10, 1, 0, 0, 0, 0, chicago)
	repo.On("ListShifts", mock.Anything, from, from.AddDate(0, 0, 1)).Return([]model.Shift{{ID: 1}}, nil)
	repo.On("ListShifts", mock.Anything, at(0, 0), at(0, 0).AddDate(0, 0, 1)).Return([]model.Shift{}, nil)

	svc := NewShiftService(repo, testCalendar())

	shifts, err := svc.ListByDate(context.Background(), "2026-10-01")
	require.NoError(t, err)
	assert.Len(t, shifts, 1)

	shifts, err = svc.Today(context.Background())
	require.NoError(t, err)
	assert.Empty(t, shifts)

	_, err = svc.ListByDate(context.Background(), "10/01/2026")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestShiftService_BulkDelete(t *testing.T) {
	ctx := context.Background()
	cutoff := time.Date(2026, 1, 1, 0, 0, 0, 0, chicago)

	repo := new(repositorytest.MockRepository)
	repo.On("CountShiftsBefore", mock.Anything, cutoff).Return(int64(12), nil)
	repo.On("DeleteShiftsBefore", mock.Anything, cutoff).Return(int64(12), nil).Once()
	svc := NewShiftService(repo, testCalendar())

	n, err := svc.CountPriorTo(ctx, "2026-01-01")
	require.NoError(t, err)
	assert.Equal(t, int64(12), n)

	for _, bad := range []string{"", "del", " delete", "yes"} {
		_, err = svc.DeletePriorTo(ctx, "2026-01-01", bad)
		assert.ErrorIs(t, err, ErrConfirmationRequired, bad)
	}

	n, err = svc.DeletePriorTo(ctx, "2026-01-01", "DELETE")
	require.NoError(t, err)
	assert.Equal(t, int64(12), n)
	repo.AssertExpectations(t)

	_, err = svc.CountPriorTo(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestShiftService_DeleteShift(t *testing.T) {
	repo := new(repositorytest.MockRepository)
	repo.On("DeleteShift", mock.Anything, int64(1)).Return(nil)
	repo.On("DeleteShift", mock.Anything, int64(2)).Return(repository.ErrNotFound)
	repo.On("DeleteShift", mock.Anything, int64(3)).Return(errors.New("db down"))
	svc := NewShiftService(repo, testCalendar())

	assert.NoError(t, svc.DeleteShift(context.Background(), 1))
	assert.ErrorIs(t, svc.DeleteShift(context.Background(), 2), ErrShiftNotFound)
	assert.EqualError(t, svc.DeleteShift(context.Background(), 3), "db down")
}
