package monitoring

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	sentryhttp "github.com/getsentry/sentry-go/http"

	"gym-app-go/internal/config"
)

var filteredHeaders = []string{"Authorization", "Cookie", "X-CSRF-Token"}

// InitSentry configures the global hub. It reports false when no DSN is set,
// in which case capture calls are no-ops.
func InitSentry(cfg config.SentryConfig, env string) (bool, error) {
	if cfg.DSN == "" {
		return false, nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      env,
		Release:          "gym-app@" + cfg.Release,
		TracesSampleRate: 0.2,
		BeforeSend:       scrubEvent,
	})
	if err != nil {
		return false, fmt.Errorf("sentry initialization failed: %w", err)
	}
	return true, nil
}

func FlushSentry(timeout time.Duration) {
	sentry.Flush(timeout)
}

// CaptureError reports err with extras attached to a scoped copy of the
// request hub, or the current hub outside a request.
func CaptureError(ctx context.Context, err error, extras map[string]any) {
	if err == nil {
		return
	}
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	hub.WithScope(func(scope *sentry.Scope) {
		for key, value := range extras {
			scope.SetExtra(key, value)
		}
		hub.CaptureException(err)
	})
}

// SentryMiddleware binds a hub to each request and reports panics before
// re-raising them for chi's Recoverer.
func SentryMiddleware() func(http.Handler) http.Handler {
	return sentryhttp.New(sentryhttp.Options{
		Repanic:         true,
		WaitForDelivery: false,
		Timeout:         2 * time.Second,
	}).Handle
}

func scrubEvent(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
	if event.Request == nil {
		return event
	}
	event.Request.Cookies = ""
	for key := range event.Request.Headers {
		if isFiltered(key) {
			event.Request.Headers[key] = "[FILTERED]"
		}
	}
	return event
}

func isFiltered(header string) bool {
	for _, name := range filteredHeaders {
		if strings.EqualFold(header, name) {
			return true
		}
	}
	return false
}
