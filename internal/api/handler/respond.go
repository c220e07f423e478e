package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"timeclock.service/internal/core"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeText(w http.ResponseWriter, status int, s string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, s)
}

// writeError maps err and writes the error body. Server errors are logged
// with the request's logger; the client only sees a generic message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	httpErr := MapErrorToHTTP(err)
	if httpErr.StatusCode >= http.StatusInternalServerError {
		log.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
	} else {
		log.Ctx(r.Context()).Debug().Err(err).Int("status", httpErr.StatusCode).Msg("Request rejected")
	}
	writeJSON(w, httpErr.StatusCode, httpErr.ToErrorResponse())
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: invalid request body", core.ErrInvalidRequest)
	}
	return nil
}

func pathID(r *http.Request) (string, error) {
	id := strings.TrimSpace(mux.Vars(r)["id"])
	if id == "" {
		return "", fmt.Errorf("%w: id is required", core.ErrInvalidRequest)
	}
	return id, nil
}

func pathInt64(r *http.Request) (int64, error) {
	raw, err := pathID(r)
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: id must be a number", core.ErrInvalidRequest)
	}
	return id, nil
}

// queryBool reads a boolean query parameter, falling back to def when absent.
func queryBool(r *http.Request, name string, def bool) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def, fmt.Errorf("%w: %s must be true or false", core.ErrInvalidRequest, name)
	}
	return v, nil
}
