package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"timeclock.service/internal/api/handler"
	"timeclock.service/internal/core"
)

// Services are the use cases the REST API exposes.
type Services struct {
	Shifts  *core.ShiftService
	Users   *core.UserService
	Notes   *core.NoteService
	Reports *core.ReportService
	Admin   *core.AdminService

	Location *time.Location
	// RequireAdminToken puts the admin routes behind a bearer token.
	RequireAdminToken bool
}

// NewRouter sets up the gorilla/mux router and defines all API routes.
func NewRouter(svc Services) *mux.Router {
	shifts := &handler.ShiftHandler{Service: svc.Shifts, Location: svc.Location}
	users := &handler.UserHandler{Service: svc.Users, Location: svc.Location}
	notes := &handler.NoteHandler{Service: svc.Notes}
	reports := &handler.ReportHandler{Service: svc.Reports}
	admin := &handler.AdminHandler{Service: svc.Admin}

	// Per-route wrapping keeps public and admin methods on the same path
	// in one route table.
	guard := func(h http.HandlerFunc) http.Handler { return h }
	if svc.RequireAdminToken {
		guard = func(h http.HandlerFunc) http.Handler { return admin.RequireToken(h) }
	}

	r := mux.NewRouter()

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/shifts", shifts.List).Methods(http.MethodGet)
	api.HandleFunc("/clockin", shifts.ClockIn).Methods(http.MethodPost)
	api.HandleFunc("/clockout", shifts.ClockOut).Methods(http.MethodPost)
	api.Handle("/shift", guard(shifts.Update)).Methods(http.MethodPut)
	api.Handle("/shift/{id}", guard(shifts.Delete)).Methods(http.MethodDelete)
	api.Handle("/shifts/prior-to/count", guard(shifts.CountPriorTo)).Methods(http.MethodGet)
	api.Handle("/shifts/prior-to", guard(shifts.DeletePriorTo)).Methods(http.MethodDelete)

	api.HandleFunc("/users", users.List).Methods(http.MethodGet)
	api.Handle("/users/normalize-names", guard(users.NormalizeNames)).Methods(http.MethodPost)
	api.HandleFunc("/user", users.Create).Methods(http.MethodPost)
	api.HandleFunc("/user", users.Update).Methods(http.MethodPut)
	api.HandleFunc("/user/{id}", users.Get).Methods(http.MethodGet)
	api.Handle("/user/{id}", guard(users.Delete)).Methods(http.MethodDelete)
	api.Handle("/user/{id}/unhide", guard(users.Unhide)).Methods(http.MethodPost)
	api.HandleFunc("/user/{id}/onboarding", users.Onboarding).Methods(http.MethodGet)
	api.HandleFunc("/user/{id}/verify", users.Verify).Methods(http.MethodPost)

	api.HandleFunc("/admin/validate", admin.Validate).Methods(http.MethodPost)

	api.Handle("/email/send", guard(reports.SendEmail)).Methods(http.MethodGet)
	api.Handle("/spreadsheet/download", guard(reports.Spreadsheet)).Methods(http.MethodGet)
	api.Handle("/timesheet/pdf", guard(reports.TimesheetPDF)).Methods(http.MethodGet)

	api.HandleFunc("/note", notes.Add).Methods(http.MethodPost)
	api.Handle("/notes", guard(notes.List)).Methods(http.MethodGet)

	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Service is operational."))
	}).Methods(http.MethodGet)

	return r
}
