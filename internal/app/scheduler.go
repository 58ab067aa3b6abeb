package app

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-task-manager/internal/config"
	"github.com/adanyl0v/go-task-manager/internal/services"
)

const sweepTimeout = 30 * time.Second

var globalScheduler *cron.Cron

// MustStartScheduler registers the background jobs and starts them.
func MustStartScheduler(auth services.AuthService) {
	spec := config.Global().Scheduler.SessionSweepSpec
	if spec == "" {
		globalLogger.Info().Msg("session sweep disabled")
		return
	}

	globalScheduler = cron.New(cron.WithLogger(cronLogger{logger: componentLogger("cron")}))
	_, err := globalScheduler.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
		defer cancel()

		// Failures are logged by the service; the next run retries.
		_, _ = auth.PurgeExpiredSessions(ctx)
	})
	if err != nil {
		globalLogger.Error().
			Err(err).
			Str("spec", spec).
			Msg("failed to schedule session sweep")
		panic(err)
	}

	globalScheduler.Start()
	globalLogger.Info().
		Str("spec", spec).
		Msg("started scheduler")
}

// StopScheduler waits for running jobs to finish.
func StopScheduler() {
	if globalScheduler == nil {
		return
	}
	<-globalScheduler.Stop().Done()
	globalLogger.Info().Msg("stopped scheduler")
}

type cronLogger struct {
	logger zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug().
		Fields(keysAndValues).
		Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error().
		Err(err).
		Fields(keysAndValues).
		Msg(msg)
}
