package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	"github.com/rs/zerolog/log"

	"timeclock.service/internal/adapters/mailer"
	"timeclock.service/internal/adapters/spreadsheet"
	"timeclock.service/internal/config"
	"timeclock.service/internal/core"
	"timeclock.service/internal/ports/repository"
	"timeclock.service/internal/worker"
	"timeclock.service/internal/worker/report"
	"timeclock.service/pkg/aws"
	"timeclock.service/pkg/database"
	"timeclock.service/pkg/logger"
	"timeclock.service/pkg/telemetry"
)

func main() {
	// Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Could not load configuration")
	}

	logger.Setup(cfg.IsLocalDev)

	loc, err := cfg.Location()
	if err != nil {
		log.Fatal().Err(err).Str("timezone", cfg.Timezone).Msg("Unknown business time zone")
	}
	recipients := cfg.Recipients()
	if len(recipients) == 0 {
		log.Fatal().Msg("REPORT_RECIPIENTS is empty")
	}

	shutdownTracer, err := telemetry.InitTracer(context.Background(), telemetry.TracerOptions{
		ServiceName: "timeclock-report-worker",
		Endpoint:    cfg.OTelExporterEndpoint,
		Stdout:      cfg.IsLocalDev,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to init tracer")
	}
	defer func() {
		_ = shutdownTracer(context.Background())
	}()

	// DB connection
	db, err := database.NewInstrumentedConnection(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Error opening database")
	}
	defer db.Close()
	log.Info().Msg("Successfully connected to the database.")

	// AWS SDK Config
	awsCfg, err := aws.NewAWSConfig(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("unable to load SDK config")
	}

	// Initialize Dependencies
	sqsClient := sqs.NewFromConfig(awsCfg)
	sesClient := ses.NewFromConfig(awsCfg)
	repo := repository.NewPostgresRepository(db)
	reports := core.NewReportService(repo, spreadsheet.NewRenderer(), nil, nil, core.NewCalendar(loc, time.Now))
	sesMailer := mailer.NewSESMailer(sesClient, cfg.ReportSender, recipients)
	processor := report.NewProcessor(repo, reports, sesMailer, loc)

	// Start Worker
	ctx, cancel := context.WithCancel(context.Background())
	app := worker.NewWorker(sqsClient, cfg.ReportSQSQueueURL, processor, cfg.WorkerConcurrency)

	done := make(chan struct{})
	go func() {
		defer close(done)
		app.Start(ctx)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Info().Msg("Shutting down worker...")

	// Cancel the context to signal the worker to stop polling.
	cancel()
	<-done

	log.Info().Msg("Worker exited gracefully")
}
