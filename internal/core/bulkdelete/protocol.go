// Package bulkdelete gates the irreversible "delete all shifts before a date"
// action behind a pre-flight count and a typed confirmation word.
package bulkdelete

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ConfirmationWord must be typed (any letter case) before the delete is sent.
const ConfirmationWord = "delete"

var (
	ErrNoDate          = errors.New("select a date first")
	ErrNothingToDelete = errors.New("no shifts found prior to this date")
	ErrNotConfirmed    = fmt.Errorf("type %q to confirm", ConfirmationWord)
)

// Confirmed reports whether typed unlocks the confirm action. Surrounding
// whitespace is not forgiven.
func Confirmed(typed string) bool {
	return strings.EqualFold(typed, ConfirmationWord)
}

// Backend is the pair of calls the protocol needs from the shift API.
type Backend interface {
	CountShiftsPriorTo(ctx context.Context, date string) (int64, error)
	DeleteShiftsPriorTo(ctx context.Context, date, confirmation string) (int64, error)
}

// Pending is an opened confirmation step holding the pre-flight count.
type Pending struct {
	Date    string
	Count   int64
	backend Backend
	done    bool
}

// Begin runs the pre-flight count. A zero count returns ErrNothingToDelete
// and no confirmation step is opened.
func Begin(ctx context.Context, b Backend, date string) (*Pending, error) {
	if strings.TrimSpace(date) == "" {
		return nil, ErrNoDate
	}
	count, err := b.CountShiftsPriorTo(ctx, date)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrNothingToDelete
	}
	return &Pending{Date: date, Count: count, backend: b}, nil
}

// Prompt is the warning shown with the confirmation field.
func (p *Pending) Prompt() string {
	return fmt.Sprintf("This will permanently delete %d shift(s) before %s. Type %q to confirm:",
		p.Count, p.Date, ConfirmationWord)
}

// CanConfirm mirrors the enabled state of the confirm button.
func (p *Pending) CanConfirm(typed string) bool {
	return !p.done && Confirmed(typed)
}

// Confirm sends the delete when typed matches. The confirmation is forwarded
// so the server can check it again.
func (p *Pending) Confirm(ctx context.Context, typed string) (int64, error) {
	if !p.CanConfirm(typed) {
		return 0, ErrNotConfirmed
	}
	deleted, err := p.backend.DeleteShiftsPriorTo(ctx, p.Date, typed)
	if err != nil {
		return 0, err
	}
	p.done = true
	return deleted, nil
}
