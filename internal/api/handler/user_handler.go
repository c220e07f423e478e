package handler

import (
	"net/http"
	"time"

	"timeclock.service/internal/core"
	"timeclock.service/internal/core/model"
)

// removedBy is recorded on hidden users. Admins share one password, so there
// is no individual identity to record.
const removedBy = "admin"

type UserHandler struct {
	Service  *core.UserService
	Location *time.Location
}

// List returns every user. ?activeOnly=true drops hidden users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	activeOnly, err := queryBool(r, "activeOnly", false)
	if err != nil {
		writeError(w, r, err)
		return
	}

	users, err := h.Service.List(r.Context(), activeOnly)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]UserDTO, 0, len(users))
	for _, u := range users {
		out = append(out, NewUserDTO(u))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	u, err := h.Service.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, NewUserDTO(*u))
}

// Create registers a user and opens their first shift unless ?clockIn=false.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	clockIn, err := queryBool(r, "clockIn", true)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req UserDTO
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	u, shift, err := h.Service.Create(r.Context(), core.NewUser{
		Contact:      req.Contact(),
		YearVerified: req.YearVerified,
		ClockIn:      clockIn,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, h.userShift(*u, shift))
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UserDTO
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.UserID == "" {
		writeError(w, r, NewHTTPError(http.StatusBadRequest, "userId is required", "INVALID_REQUEST"))
		return
	}

	u, err := h.Service.Update(r.Context(), req.Model())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, NewUserDTO(*u))
}

// Delete hides users with shift history and removes the others. The body
// says which happened.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.Service.Delete(r.Context(), id, removedBy)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *UserHandler) Unhide(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Service.Unhide(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *UserHandler) Onboarding(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	step, err := h.Service.NextStep(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, StepResponse{Step: string(step)})
}

// Verify stamps this year's verification and clocks the user in.
func (h *UserHandler) Verify(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req UserDTO
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	u, shift, err := h.Service.Verify(r.Context(), id, req.Contact())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.userShift(*u, shift))
}

func (h *UserHandler) NormalizeNames(w http.ResponseWriter, r *http.Request) {
	n, err := h.Service.NormalizeNames(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, NormalizedResponse{Updated: n})
}

func (h *UserHandler) userShift(u model.User, shift *model.Shift) UserShiftResponse {
	res := UserShiftResponse{User: NewUserDTO(u)}
	if shift != nil {
		dto := NewShiftDTO(*shift, h.Location)
		res.Shift = &dto
	}
	return res
}
