// Package reporting forwards unexpected failures to Sentry when a DSN is configured.
package reporting

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/Belphemur/ShowSearch/internal/apperrors"
	"github.com/Belphemur/ShowSearch/internal/config"
)

var enabled atomic.Bool

// Init configures the Sentry client. Without a DSN reporting stays disabled
// and Capture is a no-op.
func Init(cfg *config.Config, release string) error {
	if cfg.Sentry.DSN == "" {
		logger := config.GetLogger()
		logger.Debug().Msg("Sentry DSN not set, error reporting disabled")
		return nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.Sentry.DSN,
		Environment: cfg.Sentry.Environment,
		Release:     release,
	})
	if err != nil {
		return fmt.Errorf("init sentry: %w", err)
	}

	enabled.Store(true)
	logger := config.GetLogger()
	logger.Info().Str("environment", cfg.Sentry.Environment).Msg("Sentry error reporting enabled")
	return nil
}

// Capture reports err with tags. Caller mistakes (blank query, bad id, unknown
// show) and canceled requests are not reported.
func Capture(ctx context.Context, err error, tags map[string]string) {
	if !enabled.Load() || !Reportable(ctx, err) {
		return
	}

	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub().Clone()
	}
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTags(tags)
		hub.CaptureException(err)
	})
}

// Reportable reports whether err points at a fault worth alerting on.
func Reportable(ctx context.Context, err error) bool {
	switch {
	case err == nil:
		return false
	case ctx.Err() != nil, errors.Is(err, context.Canceled):
		return false
	case errors.Is(err, apperrors.ErrEmptyQuery),
		errors.Is(err, apperrors.ErrInvalidShowID),
		errors.Is(err, &apperrors.ErrNotFound{}):
		return false
	}
	return true
}

// Flush waits for buffered events to be sent.
func Flush(timeout time.Duration) {
	if enabled.Load() {
		sentry.Flush(timeout)
	}
}
