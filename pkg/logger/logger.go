package logger

import (
	"context"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

// Setup configures the global zerolog logger.
func Setup(isLocalDev bool) {
	// Use Unix timestamps for performance and consistency
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	// log.Ctx falls back to the global logger outside enriched contexts.
	zerolog.DefaultContextLogger = &log.Logger

	if isLocalDev {
		// Pretty printing for local development
		SetupConsole(os.Stderr, zerolog.DebugLevel)
		return
	}
	// Default to JSON output for production
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

// SetupConsole routes the global logger to a human readable writer. The
// kiosk uses it at warn level so logs do not interleave with its screens.
func SetupConsole(w io.Writer, level zerolog.Level) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339})
	zerolog.DefaultContextLogger = &log.Logger
	zerolog.SetGlobalLevel(level)
}

// EnrichContextWithLogger adds a zerolog logger to the context with trace information.
func EnrichContextWithLogger(ctx context.Context) context.Context {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return ctx
	}

	sCtx := span.SpanContext()
	if !sCtx.HasTraceID() {
		return ctx
	}

	l := log.With().
		Str("trace_id", sCtx.TraceID().String()).
		Str("span_id", sCtx.SpanID().String()).
		Logger()

	return l.WithContext(ctx)
}

// Middleware gives every request a logger carrying its trace ids and logs
// the request at debug level once it is served.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := EnrichContextWithLogger(r.Context())
		next.ServeHTTP(w, r.WithContext(ctx))

		log.Ctx(ctx).Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("duration", time.Since(start)).
			Msg("Request served")
	})
}
