package handler

import (
	"fmt"
	"io"
	"mime"
	"net/http"

	"timeclock.service/internal/core"
)

type NoteHandler struct {
	Service *core.NoteService
}

// Add accepts the note as a plain text body or as {"note": "..."}.
func (h *NoteHandler) Add(w http.ResponseWriter, r *http.Request) {
	value, err := noteBody(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	saved, err := h.Service.Add(r.Context(), value)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, NoteSavedResponse{Saved: saved})
}

func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	notes, err := h.Service.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]NoteDTO, 0, len(notes))
	for _, n := range notes {
		out = append(out, NoteDTO{ID: n.ID, Note: n.Value, InsertTime: n.InsertTime})
	}
	writeJSON(w, http.StatusOK, out)
}

func noteBody(r *http.Request) (string, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var req NoteRequest
		if err := decodeJSON(r, &req); err != nil {
			return "", err
		}
		return req.Note, nil
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("%w: unreadable body", core.ErrInvalidRequest)
	}
	return string(body), nil
}
