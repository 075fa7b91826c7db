package service

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog"
)

func NewScheduler() gocron.Scheduler {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.Fatal(err)
	}
	return scheduler
}

type SessionCleaner interface {
	DeleteExpiredSessions(context.Context) (int64, error)
}

// ScheduleSessionCleanup removes expired sessions every interval.
func ScheduleSessionCleanup(
	ctx context.Context,
	scheduler gocron.Scheduler,
	cleaner SessionCleaner,
	interval time.Duration,
) (gocron.Job, error) {
	return scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			n, err := cleaner.DeleteExpiredSessions(ctx)
			if err != nil {
				zerolog.Ctx(ctx).Error().Err(err).Msg("failed to delete expired sessions")
				return
			}
			zerolog.Ctx(ctx).Debug().Int64("deleted", n).Msg("expired sessions deleted")
		}),
		gocron.WithName("session-cleanup"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
}
