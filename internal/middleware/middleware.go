package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type contextKey string

const (
	RequestIDKey contextKey = "request_id"
	CycleIDKey   contextKey = "cycle_id"
)

// Job is one unit of scheduled work.
type Job func(ctx context.Context)

// Cycle tags every run of job with a fresh cycle id and logs its start and end.
func Cycle(logger zerolog.Logger, name string, job Job) Job {
	return func(ctx context.Context) {
		start := time.Now()
		cycleID := uuid.New().String()

		ctx = context.WithValue(ctx, CycleIDKey, cycleID)
		log := logger.With().Str("cycle_id", cycleID).Str("job", name).Logger()
		ctx = log.WithContext(ctx)

		log.Debug().Msg("cycle started")
		job(ctx)

		duration := time.Since(start)
		log.Info().
			Int64("duration_ms", duration.Milliseconds()).
			Dur("duration", duration).
			Msg("cycle completed")
	}
}

func GetCycleID(ctx context.Context) string {
	if id, ok := ctx.Value(CycleIDKey).(string); ok {
		return id
	}
	return ""
}

// https://github.com/gin-contrib/requestid
func RequestID(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := r.Header.Get("X-Request-ID")
			if requestID == "" {
				requestID = uuid.New().String()
			}

			w.Header().Set("X-Request-ID", requestID)

			ctx := context.WithValue(r.Context(), RequestIDKey, requestID)

			loggerWithID := logger.With().Str("request_id", requestID).Logger()
			ctx = loggerWithID.WithContext(ctx)

			next.ServeHTTP(w, r.WithContext(ctx))

			duration := time.Since(start)
			loggerWithID.Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int64("duration_ms", duration.Milliseconds()).
				Msg("request completed")
		})
	}
}

func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}
