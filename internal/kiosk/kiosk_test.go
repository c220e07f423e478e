package kiosk

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timeclock.service/internal/api/handler"
	"timeclock.service/internal/core/onboarding"
	"timeclock.service/internal/core/validation"
	"timeclock.service/pkg/client"
)

var fixedNow = time.Date(2026, 10, 14, 17, 30, 0, 0, time.UTC)

// fakeAPI answers kiosk requests from canned handlers and records every call.
type fakeAPI struct {
	t        *testing.T
	mu       sync.Mutex
	calls    []string
	bodies   map[string][]byte
	handlers map[string]http.HandlerFunc
}

func newFakeAPI(t *testing.T) (*fakeAPI, *client.Client) {
	f := &fakeAPI{t: t, bodies: map[string][]byte{}, handlers: map[string]http.HandlerFunc{}}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return f, client.New(srv.URL)
}

func (f *fakeAPI) on(route string, h http.HandlerFunc) { f.handlers[route] = h }

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	route := r.Method + " " + r.URL.Path
	body, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	call := route
	if r.URL.RawQuery != "" {
		call += "?" + r.URL.RawQuery
	}
	f.calls = append(f.calls, call)
	f.bodies[route] = body
	h, ok := f.handlers[route]
	f.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	r.Body = io.NopCloser(bytes.NewReader(body))
	h(w, r)
}

func (f *fakeAPI) called(prefix string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.calls {
		if strings.HasPrefix(c, prefix) {
			return true
		}
	}
	return false
}

func reply(v any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(v)
	}
}

func fail(status int, msg string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(handler.ErrorResponse{Error: msg, Code: "X"})
	}
}

var jane = handler.UserDTO{
	UserID:      "jane",
	Name:        "Jane",
	PhoneNumber: "314-555-0199",
	Email:       "jane@candy.com",
}

func TestOnboarder_JaneVerifiesAndClocksIn(t *testing.T) {
	f, api := newFakeAPI(t)
	f.on("PUT /api/user", func(w http.ResponseWriter, r *http.Request) {
		var u handler.UserDTO
		require.NoError(t, json.NewDecoder(r.Body).Decode(&u))
		reply(u)(w, r)
	})
	f.on("POST /api/clockin", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "jane", r.URL.Query().Get("userId"))
		reply(handler.ShiftDTO{ShiftID: 1, UserID: "jane", Name: "Jane"})(w, r)
	})

	o := NewOnboarder(api, 2026)
	step, err := o.Select(jane)
	require.NoError(t, err)
	require.Equal(t, onboarding.StepVerifyInfo, step)
	assert.Equal(t, validation.Contact{Name: "Jane", PhoneNumber: "314-555-0199", Email: "jane@candy.com"}, o.Prefill())

	require.NoError(t, o.SubmitVerification(context.Background(), o.Prefill()))
	assert.Equal(t, onboarding.StepDone, o.Step())
	assert.Equal(t, "Jane has started a shift!", o.Toast())

	require.Equal(t, []string{"PUT /api/user", "POST /api/clockin?userId=jane"}, f.calls)
	var sent handler.UserDTO
	require.NoError(t, json.Unmarshal(f.bodies["PUT /api/user"], &sent))
	require.NotNil(t, sent.YearVerified)
	assert.Equal(t, 2026, *sent.YearVerified)
}

func TestOnboarder_InvalidContactMakesNoCalls(t *testing.T) {
	f, api := newFakeAPI(t)
	o := NewOnboarder(api, 2026)
	_, err := o.Select(jane)
	require.NoError(t, err)

	c := o.Prefill()
	c.Email = "abc"
	assert.ErrorIs(t, o.SubmitVerification(context.Background(), c), validation.ErrInvalidEmail)
	assert.Equal(t, onboarding.StepVerifyInfo, o.Step())
	assert.Empty(t, f.calls)
}

func TestOnboarder_VerifiedUserConfirms(t *testing.T) {
	f, api := newFakeAPI(t)
	f.on("POST /api/clockin", reply(handler.ShiftDTO{ShiftID: 2}))

	year := 2026
	verified := jane
	verified.YearVerified = &year

	o := NewOnboarder(api, 2026)
	step, err := o.Select(verified)
	require.NoError(t, err)
	require.Equal(t, onboarding.StepConfirmClockIn, step)

	require.NoError(t, o.ConfirmClockIn(context.Background(), false))
	assert.Equal(t, onboarding.StepSelectUser, o.Step())
	assert.Empty(t, f.calls)

	_, err = o.Select(verified)
	require.NoError(t, err)
	require.NoError(t, o.ConfirmClockIn(context.Background(), true))
	assert.Equal(t, "Jane has started a shift!", o.Toast())
}

func TestShiftBoard_ClockOutFailureRestoresRow(t *testing.T) {
	f, api := newFakeAPI(t)
	f.on("GET /api/shifts", reply([]handler.ShiftDTO{{ShiftID: 5, UserID: "u1", Name: "Bo", ClockIn: "9:00 AM"}}))
	f.on("POST /api/clockout", fail(http.StatusConflict, "shift is already clocked out"))

	b := NewShiftBoard(api, false)
	require.NoError(t, b.Refresh(context.Background()))

	_, err := b.ClockOut(context.Background(), 5, "5:30 PM")
	assert.EqualError(t, err, "shift is already clocked out")

	row, ok := b.Row(5)
	require.True(t, ok)
	assert.False(t, row.Loading)
	assert.False(t, row.Completed())
	assert.Equal(t, "[clock out]", row.Action())
}

func TestShiftBoard_ClockOutTakesServerTime(t *testing.T) {
	f, api := newFakeAPI(t)
	closed := false
	f.on("GET /api/shifts", func(w http.ResponseWriter, r *http.Request) {
		s := handler.ShiftDTO{ShiftID: 5, UserID: "u1", Name: "Bo", ClockIn: "9:00 AM"}
		if closed {
			s.ClockOut, s.TimeWorked = "5:31 PM", "8h 31m"
		}
		reply([]handler.ShiftDTO{s})(w, r)
	})
	f.on("POST /api/clockout", func(w http.ResponseWriter, r *http.Request) {
		closed = true
		w.Write([]byte("8h 31m"))
	})

	b := NewShiftBoard(api, true)
	require.NoError(t, b.Refresh(context.Background()))
	require.Len(t, b.Rows(), 1)

	worked, err := b.ClockOut(context.Background(), 5, "5:30 PM")
	require.NoError(t, err)
	assert.Equal(t, "8h 31m", worked)

	row, _ := b.Row(5)
	assert.Equal(t, "5:31 PM", row.Action())
	assert.Empty(t, b.Rows(), "completed shifts are hidden")
}

func TestShiftRow_Action(t *testing.T) {
	assert.Equal(t, "[clock out]", ShiftRow{}.Action())
	assert.Equal(t, "...", ShiftRow{Loading: true}.Action())
	assert.Equal(t, "...", ShiftRow{Loading: true, ShiftDTO: handler.ShiftDTO{ClockOut: "5:30 PM"}}.Action())
	assert.Equal(t, "5:30 PM", ShiftRow{ShiftDTO: handler.ShiftDTO{ClockOut: "5:30 PM"}}.Action())
}

func TestTable_Render(t *testing.T) {
	var out bytes.Buffer
	rows := []ShiftRow{
		{ShiftDTO: handler.ShiftDTO{ShiftID: 1, Name: "Jane Doe", ClockIn: "9:00 AM", ClockOut: "5:30 PM", TimeWorked: "8h 30m"}},
		{ShiftDTO: handler.ShiftDTO{ShiftID: 2, Name: "Bo", ClockIn: "1:05 PM"}},
	}
	require.NoError(t, shiftTable.Render(&out, rows))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "CLOCK OUT")
	assert.Contains(t, lines[1], "5:30 PM")
	assert.Contains(t, lines[2], "[clock out]")

	out.Reset()
	require.NoError(t, noteTable.Render(&out, nil))
	assert.Equal(t, "No notes.\n", out.String())
}

func newKiosk(api API, input string) (*Kiosk, *bytes.Buffer) {
	var out bytes.Buffer
	k := New(api, strings.NewReader(input), &out, Options{
		Now:      func() time.Time { return fixedNow },
		Location: time.UTC,
	})
	return k, &out
}

func TestKiosk_InvalidAdminPassword(t *testing.T) {
	f, api := newFakeAPI(t)
	f.on("GET /api/shifts", reply([]handler.ShiftDTO{}))
	f.on("POST /api/admin/validate", reply(handler.ValidateResponse{Valid: false}))

	k, out := newKiosk(api, "admin\nwrong\nusers\n")
	require.NoError(t, k.Run(context.Background()))

	assert.Contains(t, out.String(), "Invalid password.")
	assert.Contains(t, out.String(), "Unknown command")
	assert.False(t, f.called("GET /api/users"))
}

func TestKiosk_BulkDelete(t *testing.T) {
	t.Run("zero count opens no confirmation", func(t *testing.T) {
		f, api := newFakeAPI(t)
		f.on("GET /api/shifts", reply([]handler.ShiftDTO{}))
		f.on("POST /api/admin/validate", reply(handler.ValidateResponse{Valid: true}))
		f.on("GET /api/shifts/prior-to/count", reply(handler.CountResponse{Count: 0}))

		k, out := newKiosk(api, "admin\nsweet\nbulk 2026-01-01\n")
		require.NoError(t, k.Run(context.Background()))
		assert.Contains(t, out.String(), "no shifts found prior to this date")
		assert.NotContains(t, out.String(), "Type \"delete\"")
	})

	t.Run("wrong word deletes nothing", func(t *testing.T) {
		f, api := newFakeAPI(t)
		f.on("GET /api/shifts", reply([]handler.ShiftDTO{}))
		f.on("POST /api/admin/validate", reply(handler.ValidateResponse{Valid: true}))
		f.on("GET /api/shifts/prior-to/count", reply(handler.CountResponse{Count: 3}))

		k, out := newKiosk(api, "admin\nsweet\nbulk 2026-01-01\n delete\n")
		require.NoError(t, k.Run(context.Background()))
		assert.Contains(t, out.String(), "permanently delete 3 shift(s)")
		assert.Contains(t, out.String(), "Nothing was deleted.")
		assert.False(t, f.called("DELETE /api/shifts/prior-to"))
	})

	t.Run("confirmed", func(t *testing.T) {
		f, api := newFakeAPI(t)
		f.on("GET /api/shifts", reply([]handler.ShiftDTO{}))
		f.on("POST /api/admin/validate", reply(handler.ValidateResponse{Valid: true}))
		f.on("GET /api/shifts/prior-to/count", reply(handler.CountResponse{Count: 3}))
		f.on("DELETE /api/shifts/prior-to", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "DELETE", r.URL.Query().Get("confirmation"))
			reply(handler.DeletedResponse{Deleted: 3})(w, r)
		})

		k, out := newKiosk(api, "admin\nsweet\nbulk 2026-01-01\nDELETE\n")
		require.NoError(t, k.Run(context.Background()))
		assert.Contains(t, out.String(), "Deleted 3 shift(s).")
	})
}

func TestKiosk_DownloadWithoutShifts(t *testing.T) {
	f, api := newFakeAPI(t)
	f.on("GET /api/shifts", reply([]handler.ShiftDTO{}))
	f.on("POST /api/admin/validate", reply(handler.ValidateResponse{Valid: true}))
	f.on("GET /api/spreadsheet/download", fail(http.StatusNotFound, "No shifts found for this date"))

	k, out := newKiosk(api, "admin\nsweet\ndownload 2026-10-13\n")
	require.NoError(t, k.Run(context.Background()))
	assert.Contains(t, out.String(), "No shifts found for this date")
}

func TestKiosk_StartNewUser(t *testing.T) {
	f, api := newFakeAPI(t)
	f.on("GET /api/shifts", reply([]handler.ShiftDTO{}))
	f.on("GET /api/users", reply([]handler.UserDTO{}))
	f.on("POST /api/user", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "true", r.URL.Query().Get("clockIn"))
		var u handler.UserDTO
		require.NoError(t, json.NewDecoder(r.Body).Decode(&u))
		u.UserID, u.Name = "new-1", "Sam Lee"
		w.WriteHeader(http.StatusCreated)
		reply(handler.UserShiftResponse{User: u})(w, r)
	})

	input := strings.Join([]string{"start", "new", "sam lee", "123", "sam@candy.com", "", "sam lee", "314 555 0100", "sam@candy.com", "1 Main St"}, "\n") + "\n"
	k, out := newKiosk(api, input)
	require.NoError(t, k.Run(context.Background()))

	assert.Contains(t, out.String(), validation.ErrInvalidPhone.Error())
	assert.Contains(t, out.String(), "Sam Lee has started a shift!")
}

func TestKiosk_StartKeepsRejectedForm(t *testing.T) {
	f, api := newFakeAPI(t)
	f.on("GET /api/shifts", reply([]handler.ShiftDTO{}))
	f.on("GET /api/users", reply([]handler.UserDTO{}))
	f.on("POST /api/user", func(w http.ResponseWriter, r *http.Request) {
		var u handler.UserDTO
		require.NoError(t, json.NewDecoder(r.Body).Decode(&u))
		u.UserID = "new-2"
		w.WriteHeader(http.StatusCreated)
		reply(handler.UserShiftResponse{User: u})(w, r)
	})

	// Only the phone number is typed again; the rest is kept from the first try.
	input := strings.Join([]string{"start", "new", "Sam Lee", "123", "sam@candy.com", "1 Main St", "", "314 555 0100", "", ""}, "\n") + "\n"
	k, out := newKiosk(api, input)
	require.NoError(t, k.Run(context.Background()))

	assert.Contains(t, out.String(), "Name [Sam Lee]: ")
	assert.Contains(t, out.String(), "Email [sam@candy.com]: ")

	var sent handler.UserDTO
	require.NoError(t, json.Unmarshal(f.bodies["POST /api/user"], &sent))
	assert.Equal(t, "Sam Lee", sent.Name)
	assert.Equal(t, "314 555 0100", sent.PhoneNumber)
	assert.Equal(t, "sam@candy.com", sent.Email)
	assert.Equal(t, "1 Main St", sent.PhysicalMailingAddress)
}

func TestKiosk_DecliningClockInShowsUsersAgain(t *testing.T) {
	year := 2026
	verified := jane
	verified.YearVerified = &year

	f, api := newFakeAPI(t)
	f.on("GET /api/shifts", reply([]handler.ShiftDTO{}))
	f.on("GET /api/users", reply([]handler.UserDTO{verified}))
	f.on("POST /api/clockin", reply(handler.ShiftDTO{ShiftID: 3, UserID: "jane", Name: "Jane"}))

	k, out := newKiosk(api, "start\n1\nno\n1\nyes\n")
	require.NoError(t, k.Run(context.Background()))

	assert.Equal(t, 2, strings.Count(out.String(), "Who is starting a shift?"))
	assert.Contains(t, out.String(), "Jane has started a shift!")
	assert.Equal(t, 1, strings.Count(strings.Join(f.calls, "\n"), "POST /api/clockin"))
}

func TestPrefs_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".timeclock.yaml")

	p, err := LoadPrefs(path)
	require.NoError(t, err)
	assert.False(t, p.HideCompleted())

	require.NoError(t, p.SetHideCompleted(true))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hideCompleted: true\n", string(raw))

	again, err := LoadPrefs(path)
	require.NoError(t, err)
	assert.True(t, again.HideCompleted())
}

func TestPrefs_ReadsHandEditedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".timeclock.yaml")
	require.NoError(t, os.WriteFile(path, []byte("hideCompleted: true\n"), 0o644))

	p, err := LoadPrefs(path)
	require.NoError(t, err)
	assert.True(t, p.HideCompleted())
}
