package handler

import (
	"net/http"
	"time"

	"timeclock.service/internal/core"
)

type ShiftHandler struct {
	Service  *core.ShiftService
	Location *time.Location
}

// List returns the shifts of ?date=YYYY-MM-DD, or today's when absent.
func (h *ShiftHandler) List(w http.ResponseWriter, r *http.Request) {
	shifts, err := h.Service.ListByDate(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]ShiftDTO, 0, len(shifts))
	for _, s := range shifts {
		out = append(out, NewShiftDTO(s, h.Location))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *ShiftHandler) ClockIn(w http.ResponseWriter, r *http.Request) {
	shift, err := h.Service.ClockIn(r.Context(), r.URL.Query().Get("userId"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, NewShiftDTO(*shift, h.Location))
}

// ClockOut answers with the computed time worked as plain text.
func (h *ShiftHandler) ClockOut(w http.ResponseWriter, r *http.Request) {
	var req ClockOutRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	worked, err := h.Service.ClockOut(r.Context(), core.ClockOutRequest{
		ShiftID:  req.ShiftID,
		UserID:   req.UserID,
		ClockOut: req.ClockOut,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeText(w, http.StatusOK, worked)
}

func (h *ShiftHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req ShiftUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	worked, err := h.Service.UpdateShift(r.Context(), core.ShiftEdit{
		ShiftID:  req.ShiftID,
		ClockIn:  req.ClockIn,
		ClockOut: req.ClockOut,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeText(w, http.StatusOK, worked)
}

func (h *ShiftHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Service.DeleteShift(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ShiftHandler) CountPriorTo(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	n, err := h.Service.CountPriorTo(r.Context(), date)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, CountResponse{Count: n, Date: date})
}

func (h *ShiftHandler) DeletePriorTo(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	n, err := h.Service.DeletePriorTo(r.Context(), q.Get("date"), q.Get("confirmation"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, DeletedResponse{Deleted: n})
}
