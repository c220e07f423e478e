// Entry point for REST API
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"timeclock.service/internal/adapters/pdf"
	"timeclock.service/internal/adapters/rediscache"
	"timeclock.service/internal/adapters/spreadsheet"
	"timeclock.service/internal/api"
	"timeclock.service/internal/auth"
	"timeclock.service/internal/config"
	"timeclock.service/internal/core"
	"timeclock.service/internal/ports/messaging"
	"timeclock.service/internal/ports/repository"
	"timeclock.service/internal/scheduler"
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

	// Configure structured logging
	logger.Setup(cfg.IsLocalDev)

	loc, err := cfg.Location()
	if err != nil {
		log.Fatal().Err(err).Str("timezone", cfg.Timezone).Msg("Unknown business time zone")
	}

	// Configure OpenTelemetry Tracing
	shutdownTracer, err := telemetry.InitTracer(context.Background(), telemetry.TracerOptions{
		ServiceName: "timeclock-api",
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

	if err := database.Migrate(context.Background(), db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply migrations")
	}

	// AWS SDK Config
	awsCfg, err := aws.NewAWSConfig(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("unable to load SDK config")
	}

	cache := rediscache.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer cache.Close()

	// Initialize dependencies
	sqsClient := sqs.NewFromConfig(awsCfg)
	repo := repository.NewPostgresRepository(db)
	producer := messaging.NewSQSProducer(sqsClient, cfg.ReportSQSQueueURL)
	cal := core.NewCalendar(loc, time.Now)

	if cfg.AdminPassword == "" && cfg.AdminPasswordHash == "" {
		log.Warn().Msg("No admin password configured; admin login is disabled")
	}
	var tokens core.TokenIssuer
	if cfg.AdminTokenSecret != "" {
		tokens = auth.NewTokenService(cfg.AdminTokenSecret, cfg.AdminTokenTTL())
	} else if cfg.RequireAdminToken {
		log.Fatal().Msg("REQUIRE_ADMIN_TOKEN is set without ADMIN_TOKEN_SECRET")
	}

	shifts := core.NewShiftService(repo, cal)
	reports := core.NewReportService(repo, spreadsheet.NewRenderer(), pdf.NewRenderer(cfg.CompanyName), producer, cal)
	services := api.Services{
		Shifts:  shifts,
		Users:   core.NewUserService(repo, shifts, rediscache.NewUserCache(cache, rediscache.DefaultUsersTTL), cal),
		Notes:   core.NewNoteService(repo, cal),
		Reports: reports,
		Admin: core.NewAdminService(core.AdminCredentials{
			Password: cfg.AdminPassword,
			Hash:     cfg.AdminPasswordHash,
		}, tokens),
		Location:          loc,
		RequireAdminToken: cfg.RequireAdminToken,
	}

	// Setup router and server
	router := api.NewRouter(services)

	// Wrap the router with OpenTelemetry middleware to create spans for each request
	handler := otelhttp.NewHandler(logger.Middleware(router), "api")

	serverAddr := ":" + cfg.ServerPort
	srv := &http.Server{
		Addr:              serverAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Daily report email
	if cfg.ReportScheduleEnabled {
		daily, err := scheduler.NewDaily("daily-report", cfg.ReportScheduleAt, loc, func(ctx context.Context) error {
			_, err := reports.RequestDailyEmail(ctx, messaging.TriggerSchedule)
			return err
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Invalid report schedule")
		}
		go daily.Run(ctx)
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", cfg.ServerPort).Msg("API Service starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")
	stop()

	// The context is used to inform the server it has 5 seconds to finish
	// the requests it is currently handling
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
