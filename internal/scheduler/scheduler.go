package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/lshigami/examprep/config"
	"github.com/lshigami/examprep/internal/service"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"
)

// New registers the nightly daily-task job and ties the scheduler to the app lifecycle.
func New(lc fx.Lifecycle, cfg *config.Config, tasks service.DailyTaskService) (*gocron.Scheduler, error) {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()

	activeDays := cfg.Scheduler.ActiveDays
	_, err := s.Cron(cfg.Scheduler.DailyTaskCron).Do(func() {
		started := time.Now()
		n, err := tasks.GenerateForActiveUsers(activeDays)
		if err != nil {
			log.Error().Err(err).Msg("Daily task job failed")
			return
		}
		log.Info().Int("users", n).Dur("took", time.Since(started)).Msg("Daily tasks generated")
	})
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			s.StartAsync()
			log.Info().Str("cron", cfg.Scheduler.DailyTaskCron).Msg("Scheduler started")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			s.Stop()
			log.Info().Msg("Scheduler stopped")
			return nil
		},
	})
	return s, nil
}
