package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"

	"timeclock.service/internal/core/model"
	"timeclock.service/internal/core/timecalc"
	"timeclock.service/internal/ports/messaging"
	"timeclock.service/internal/ports/repository"
)

// MaxAttempts is how many sends are tried before a request is marked failed.
const MaxAttempts = 8

// Composer builds the email for a business day.
type Composer interface {
	ComposeEmail(ctx context.Context, day time.Time) (*model.ReportEmail, error)
}

// Mailer delivers a composed report email.
type Mailer interface {
	SendReport(ctx context.Context, email *model.ReportEmail) error
}

// ReportProcessor handles jobs from the report queue: compose the day's
// timesheet and mail it once per request. SES is called through a circuit
// breaker so an outage does not burn every queued attempt.
type ReportProcessor struct {
	repo     repository.Repository
	composer Composer
	mailer   Mailer
	cb       *gobreaker.CircuitBreaker
	loc      *time.Location
}

// NewProcessor creates a new processor for the report queue.
func NewProcessor(repo repository.Repository, composer Composer, mailer Mailer, loc *time.Location) *ReportProcessor {
	settings := gobreaker.Settings{
		Name:        "SES",
		MaxRequests: 2,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("Circuit breaker state changed")
		},
	}

	return &ReportProcessor{
		repo:     repo,
		composer: composer,
		mailer:   mailer,
		cb:       gobreaker.NewCircuitBreaker(settings),
		loc:      loc,
	}
}

// Process handles one ReportRequested message.
func (p *ReportProcessor) Process(ctx context.Context, msg types.Message) (bool, int32, error) {
	if msg.Body == nil {
		return false, 0, errors.New("empty message body")
	}
	var event messaging.ReportRequestedEvent
	if err := json.Unmarshal([]byte(*msg.Body), &event); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("Failed to unmarshal report event")
		return false, 0, err // Do not retry on malformed message
	}
	if event.RequestID == "" {
		return false, 0, errors.New("report event without requestId")
	}
	day, err := timecalc.ParseDate(event.ReportDate, p.loc)
	if err != nil {
		return false, 0, err
	}

	logger := log.Ctx(ctx).With().Str("request_id", event.RequestID).Str("report_date", event.ReportDate).Logger()

	dispatch, err := p.repo.GetDispatch(ctx, event.RequestID)
	if err != nil {
		return true, 10, fmt.Errorf("failed to get dispatch record: %w", err)
	}
	if dispatch == nil {
		dispatch = &model.ReportDispatch{RequestID: event.RequestID, ReportDate: day, Status: model.DispatchPending}
	}
	if dispatch.Status == model.DispatchCompleted {
		logger.Info().Msg("Report already sent. Skipping.")
		return false, 0, nil
	}
	if dispatch.Status == model.DispatchFailed {
		logger.Warn().Msg("Report request previously failed. Skipping.")
		return false, 0, nil
	}

	email, err := p.composer.ComposeEmail(ctx, day)
	if err != nil {
		return p.retry(ctx, dispatch, fmt.Errorf("compose report: %w", err))
	}

	_, err = p.cb.Execute(func() (interface{}, error) {
		return nil, p.mailer.SendReport(ctx, email)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			logger.Warn().Msg("Circuit Breaker is OPEN; skipping SES call")
		}
		return p.retry(ctx, dispatch, err)
	}

	dispatch.Status = model.DispatchCompleted
	if err := p.repo.SaveDispatch(ctx, *dispatch); err != nil {
		// The mail went out; a redelivery would send it again, so log loudly but ack.
		logger.Error().Err(err).Msg("Report sent but dispatch status not saved")
	}
	logger.Info().Msg("Report email sent")
	return false, 0, nil
}

func (p *ReportProcessor) retry(ctx context.Context, d *model.ReportDispatch, cause error) (bool, int32, error) {
	d.RetryCount++
	if d.RetryCount >= MaxAttempts {
		d.Status = model.DispatchFailed
		if err := p.repo.SaveDispatch(ctx, *d); err != nil {
			log.Ctx(ctx).Error().Err(err).Msg("Failed to save dispatch status")
		}
		return false, 0, fmt.Errorf("giving up after %d attempts: %w", d.RetryCount, cause)
	}

	d.Status = model.DispatchPending
	if err := p.repo.SaveDispatch(ctx, *d); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("Failed to save dispatch status")
	}
	return true, calculateBackoff(d.RetryCount), cause
}

// calculateBackoff determines how long to wait before retrying a failed job.
// It increases the delay exponentially with each retry, capped at one hour.
func calculateBackoff(retryCount int) int32 {
	backoff := int32(math.Pow(2, float64(retryCount)) * 10)
	if backoff > 3600 {
		return 3600
	}
	return backoff
}
