package handler

import (
	"errors"
	"net/http"

	"timeclock.service/internal/core"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError is a domain error resolved to a status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

var errorCodes = []struct {
	target error
	status int
	code   string
}{
	{core.ErrUserNotFound, http.StatusNotFound, "USER_NOT_FOUND"},
	{core.ErrShiftNotFound, http.StatusNotFound, "SHIFT_NOT_FOUND"},
	{core.ErrNoShiftsForDate, http.StatusNotFound, "NO_SHIFTS_FOR_DATE"},
	{core.ErrShiftAlreadyOpen, http.StatusConflict, "SHIFT_ALREADY_OPEN"},
	{core.ErrShiftAlreadyClosed, http.StatusConflict, "SHIFT_ALREADY_CLOSED"},
	{core.ErrUserHidden, http.StatusConflict, "USER_HIDDEN"},
	{core.ErrClockOutBeforeClockIn, http.StatusBadRequest, "CLOCK_OUT_BEFORE_CLOCK_IN"},
	{core.ErrInvalidClockTime, http.StatusBadRequest, "INVALID_CLOCK_TIME"},
	{core.ErrInvalidDate, http.StatusBadRequest, "INVALID_DATE"},
	{core.ErrConfirmationRequired, http.StatusBadRequest, "CONFIRMATION_REQUIRED"},
	{core.ErrInvalidEmail, http.StatusBadRequest, "INVALID_EMAIL"},
	{core.ErrInvalidPhone, http.StatusBadRequest, "INVALID_PHONE"},
	{core.ErrNameRequired, http.StatusBadRequest, "NAME_REQUIRED"},
	{core.ErrInvalidRequest, http.StatusBadRequest, "INVALID_REQUEST"},
	{core.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
}

// MapErrorToHTTP resolves err against the domain sentinels. Client errors keep
// their full message; anything unrecognised becomes an opaque 500.
func MapErrorToHTTP(err error) *HTTPError {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	for _, c := range errorCodes {
		if errors.Is(err, c.target) {
			return NewHTTPError(c.status, err.Error(), c.code)
		}
	}
	return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
}
