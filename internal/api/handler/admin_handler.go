package handler

import (
	"net/http"

	"timeclock.service/internal/core"
)

type AdminHandler struct {
	Service *core.AdminService
}

// Validate always answers 200; a wrong password is {"valid": false}.
func (h *AdminHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	valid, token := h.Service.Validate(r.Context(), req.Password)
	writeJSON(w, http.StatusOK, ValidateResponse{Valid: valid, Token: token})
}

// RequireToken rejects requests without a valid admin bearer token.
func (h *AdminHandler) RequireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := h.Service.Authorize(r.Header.Get("Authorization")); err != nil {
			writeError(w, r, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}
