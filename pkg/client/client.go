// Package client is the HTTP client of the timeclock REST API. The kiosk and
// the load generator both drive the server through it.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"timeclock.service/internal/api/handler"
	"timeclock.service/internal/core"
)

// DefaultTimeout bounds every request. There are no retries.
const DefaultTimeout = 10 * time.Second

// APIError is a non-2xx answer. Message is the server's text, shown to the
// operator as is.
type APIError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *APIError) Error() string {
	return e.Message
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

type Client struct {
	client  *http.Client
	baseURL string
	token   string
}

// New returns a client for the API at baseURL, e.g. "http://localhost:8080".
func New(baseURL string) *Client {
	return &Client{
		client: &http.Client{
			Timeout:   DefaultTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// SetToken configures the admin bearer token sent with every request.
func (c *Client) SetToken(token string) { c.token = token }

// Shifts lists the shifts of date (YYYY-MM-DD); empty means today.
func (c *Client) Shifts(ctx context.Context, date string) ([]handler.ShiftDTO, error) {
	q := url.Values{}
	if date != "" {
		q.Set("date", date)
	}
	var out []handler.ShiftDTO
	err := c.doJSON(ctx, http.MethodGet, "/api/shifts", q, nil, &out)
	return out, err
}

func (c *Client) ClockIn(ctx context.Context, userID string) (handler.ShiftDTO, error) {
	var out handler.ShiftDTO
	err := c.doJSON(ctx, http.MethodPost, "/api/clockin", url.Values{"userId": {userID}}, nil, &out)
	return out, err
}

// ClockOut returns the time worked computed by the server.
func (c *Client) ClockOut(ctx context.Context, req handler.ClockOutRequest) (string, error) {
	return c.doText(ctx, http.MethodPost, "/api/clockout", nil, req)
}

func (c *Client) UpdateShift(ctx context.Context, req handler.ShiftUpdateRequest) (string, error) {
	return c.doText(ctx, http.MethodPut, "/api/shift", nil, req)
}

func (c *Client) DeleteShift(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/shift/"+strconv.FormatInt(id, 10), nil, nil, nil)
}

// CountShiftsPriorTo is the bulk-delete pre-flight.
func (c *Client) CountShiftsPriorTo(ctx context.Context, date string) (int64, error) {
	var out handler.CountResponse
	err := c.doJSON(ctx, http.MethodGet, "/api/shifts/prior-to/count", url.Values{"date": {date}}, nil, &out)
	return out.Count, err
}

func (c *Client) DeleteShiftsPriorTo(ctx context.Context, date, confirmation string) (int64, error) {
	var out handler.DeletedResponse
	q := url.Values{"date": {date}, "confirmation": {confirmation}}
	err := c.doJSON(ctx, http.MethodDelete, "/api/shifts/prior-to", q, nil, &out)
	return out.Deleted, err
}

func (c *Client) Users(ctx context.Context, activeOnly bool) ([]handler.UserDTO, error) {
	q := url.Values{}
	if activeOnly {
		q.Set("activeOnly", "true")
	}
	var out []handler.UserDTO
	err := c.doJSON(ctx, http.MethodGet, "/api/users", q, nil, &out)
	return out, err
}

func (c *Client) User(ctx context.Context, id string) (handler.UserDTO, error) {
	var out handler.UserDTO
	err := c.doJSON(ctx, http.MethodGet, "/api/user/"+url.PathEscape(id), nil, nil, &out)
	return out, err
}

// CreateUser registers a user; clockIn also opens their first shift.
func (c *Client) CreateUser(ctx context.Context, u handler.UserDTO, clockIn bool) (handler.UserShiftResponse, error) {
	var out handler.UserShiftResponse
	q := url.Values{"clockIn": {strconv.FormatBool(clockIn)}}
	err := c.doJSON(ctx, http.MethodPost, "/api/user", q, u, &out)
	return out, err
}

func (c *Client) UpdateUser(ctx context.Context, u handler.UserDTO) (handler.UserDTO, error) {
	var out handler.UserDTO
	err := c.doJSON(ctx, http.MethodPut, "/api/user", nil, u, &out)
	return out, err
}

// DeleteUser returns whether the server hid or removed the user.
func (c *Client) DeleteUser(ctx context.Context, id string) (core.DeleteResult, error) {
	var out core.DeleteResult
	err := c.doJSON(ctx, http.MethodDelete, "/api/user/"+url.PathEscape(id), nil, nil, &out)
	return out, err
}

func (c *Client) UnhideUser(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodPost, "/api/user/"+url.PathEscape(id)+"/unhide", nil, nil, nil)
}

func (c *Client) OnboardingStep(ctx context.Context, id string) (string, error) {
	var out handler.StepResponse
	err := c.doJSON(ctx, http.MethodGet, "/api/user/"+url.PathEscape(id)+"/onboarding", nil, nil, &out)
	return out.Step, err
}

// ValidateAdmin checks the admin password. A returned token is kept for
// later admin calls.
func (c *Client) ValidateAdmin(ctx context.Context, password string) (bool, error) {
	var out handler.ValidateResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/admin/validate", nil, handler.ValidateRequest{Password: password}, &out); err != nil {
		return false, err
	}
	if out.Valid && out.Token != "" {
		c.token = out.Token
	}
	return out.Valid, nil
}

func (c *Client) SendReportEmail(ctx context.Context) (handler.ReportQueuedResponse, error) {
	var out handler.ReportQueuedResponse
	err := c.doJSON(ctx, http.MethodGet, "/api/email/send", nil, nil, &out)
	return out, err
}

// Spreadsheet downloads the xlsx for date and returns it with its file name.
func (c *Client) Spreadsheet(ctx context.Context, date string) ([]byte, string, error) {
	return c.download(ctx, "/api/spreadsheet/download", date)
}

func (c *Client) TimesheetPDF(ctx context.Context, date string) ([]byte, string, error) {
	return c.download(ctx, "/api/timesheet/pdf", date)
}

func (c *Client) AddNote(ctx context.Context, note string) (bool, error) {
	var out handler.NoteSavedResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/note", nil, handler.NoteRequest{Note: note}, &out)
	return out.Saved, err
}

func (c *Client) Notes(ctx context.Context) ([]handler.NoteDTO, error) {
	var out []handler.NoteDTO
	err := c.doJSON(ctx, http.MethodGet, "/api/notes", nil, nil, &out)
	return out, err
}

func (c *Client) download(ctx context.Context, path, date string) ([]byte, string, error) {
	q := url.Values{}
	if date != "" {
		q.Set("date", date)
	}
	resp, err := c.do(ctx, http.MethodGet, path, q, nil)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read download: %w", err)
	}
	name := ""
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil {
		name = params["filename"]
	}
	return data, name, nil
}

func (c *Client) doText(ctx context.Context, method, path string, q url.Values, body any) (string, error) {
	resp, err := c.do(ctx, method, path, q, body)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	text, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	return string(text), nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, q url.Values, body, out any) error {
	resp, err := c.do(ctx, method, path, q, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}

// do sends the request and turns non-2xx answers into *APIError. The caller
// closes the body of a successful response.
func (c *Client) do(ctx context.Context, method, path string, q url.Values, body any) (*http.Response, error) {
	var payload io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		payload = bytes.NewReader(buf)
	}

	target := c.baseURL + path
	if len(q) > 0 {
		target += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call %s %s: %w", method, path, err)
	}
	if resp.StatusCode < 300 {
		return resp, nil
	}
	defer resp.Body.Close()
	return nil, decodeAPIError(resp)
}

func decodeAPIError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var body handler.ErrorResponse
	if err := json.Unmarshal(raw, &body); err == nil && body.Error != "" {
		apiErr.Message = body.Error
		apiErr.Code = body.Code
		return apiErr
	}
	apiErr.Message = strings.TrimSpace(string(raw))
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
