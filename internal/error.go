package internal

import (
	"time"

	sentry "github.com/getsentry/sentry-go"
	"github.com/pkg/errors"
)

var sentryEnabled = false

// InitErrorHandler enables sentry if dsn is given. Empty dsn disables sentry.
func InitErrorHandler(dsn, env string) error {
	if dsn == "" {
		sentryEnabled = false
		return nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: env,
	})
	if err != nil {
		return errors.Wrap(err, "Failed sentry.Init")
	}
	sentryEnabled = true

	return nil
}

// HandleError logs full detail of the error and sends it to sentry if sentry configuration is available
func HandleError(err error) {
	r := Logger.WithError(err).WithField("detail", errors.Cause(err))

	if sentryEnabled {
		eventID := sentry.CaptureException(err)
		if eventID != nil {
			r = r.WithField("sentry eventID", *eventID)
		}
	}

	r.Errorf("Error: %+v", err)
}

// FlushError flushs error to sentry
func FlushError() {
	if sentryEnabled {
		sentry.Flush(2 * time.Second)
	}
}
