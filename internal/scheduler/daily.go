// Package scheduler fires a job on a cron schedule in the business time zone.
// The usual schedule is once a day at a fixed wall-clock time.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Job is the work run at each tick.
type Job func(ctx context.Context) error

type Daily struct {
	name  string
	spec  string
	sched cron.Schedule
	loc   *time.Location
	job   Job
}

// NewDaily schedules job at at, either "HH:MM" (24h) or a five-field cron
// expression such as "36 23 * * *", evaluated in loc.
func NewDaily(name, at string, loc *time.Location, job Job) (*Daily, error) {
	spec := cronSpec(at)
	sched, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule %q, expected HH:MM or a cron expression: %w", at, err)
	}
	return &Daily{name: name, spec: spec, sched: sched, loc: loc, job: job}, nil
}

func cronSpec(at string) string {
	if t, err := time.Parse("15:04", at); err == nil {
		return fmt.Sprintf("%d %d * * *", t.Minute(), t.Hour())
	}
	return at
}

// Next is the first run strictly after from.
func (d *Daily) Next(from time.Time) time.Time {
	return d.sched.Next(from.In(d.loc))
}

// Run blocks until ctx is canceled. A failing job is logged and runs again
// at the next slot; a slot is skipped while the previous run is still going.
func (d *Daily) Run(ctx context.Context) {
	logger := cronLogger{name: d.name}
	c := cron.New(
		cron.WithLocation(d.loc),
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)
	c.Schedule(d.sched, cron.FuncJob(func() {
		if err := d.job(ctx); err != nil {
			log.Error().Err(err).Str("job", d.name).Msg("Scheduled job failed")
		}
	}))

	c.Start()
	log.Info().Str("job", d.name).Str("schedule", d.spec).Time("next_run", d.Next(time.Now())).Msg("Scheduled")

	<-ctx.Done()
	<-c.Stop().Done()
	log.Info().Str("job", d.name).Msg("Scheduler stopped")
}

// cronLogger routes cron's own messages to zerolog.
type cronLogger struct {
	name string
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	log.Debug().Str("job", l.name).Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	log.Error().Err(err).Str("job", l.name).Fields(keysAndValues).Msg(msg)
}
