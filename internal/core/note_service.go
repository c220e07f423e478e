package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"timeclock.service/internal/core/model"
	"timeclock.service/internal/core/timecalc"
	"timeclock.service/internal/ports/repository"
)

type NoteService struct {
	repo repository.Repository
	cal  Calendar
}

func NewNoteService(repo repository.Repository, cal Calendar) *NoteService {
	return &NoteService{repo: repo, cal: cal}
}

// Add stores a trimmed note. Blank notes are ignored and report false.
func (s *NoteService) Add(ctx context.Context, value string) (bool, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return false, nil
	}
	if err := s.repo.CreateNote(ctx, value, s.cal.Now()); err != nil {
		return false, fmt.Errorf("failed to save note: %w", err)
	}
	return true, nil
}

func (s *NoteService) List(ctx context.Context) ([]model.Note, error) {
	return s.repo.ListNotes(ctx)
}

// ForDay returns the notes written on the business day containing day.
func (s *NoteService) ForDay(ctx context.Context, day time.Time) ([]model.Note, error) {
	from, to := timecalc.DayRange(day, s.cal.Location())
	return s.repo.ListNotesBetween(ctx, from, to)
}
