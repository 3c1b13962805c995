package cron_feature

import (
	"context"
	"fmt"
	"time"

	"go-docdist/internal/config"
	"go-docdist/internal/features/distribution"
	"go-docdist/internal/features/notification"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ReminderService runs the scheduled stale-sent check: distributions that
// were sent but not received within the configured number of days get a
// reminder pushed to the destination department.
type ReminderService interface {
	InitializeScheduler(ctx context.Context) error
	StopScheduler() error
	RunStaleSentCheck(ctx context.Context) (int, error)
}

type ReminderServiceImpl struct {
	Distributions distribution.DistributionRepository
	Notifications notification.NotificationService
	Config        *config.Config
	Logger        *zap.Logger

	scheduler *cron.Cron
}

func NewReminderService(
	distributions distribution.DistributionRepository,
	notifications notification.NotificationService,
	cfg *config.Config,
	logger *zap.Logger,
) ReminderService {
	return &ReminderServiceImpl{
		Distributions: distributions,
		Notifications: notifications,
		Config:        cfg,
		Logger:        logger,
	}
}

func (s *ReminderServiceImpl) InitializeScheduler(ctx context.Context) error {
	if _, err := cron.ParseStandard(s.Config.ReminderSchedule); err != nil {
		return fmt.Errorf("invalid reminder schedule %q: %w", s.Config.ReminderSchedule, err)
	}

	s.scheduler = cron.New()
	_, err := s.scheduler.AddFunc(s.Config.ReminderSchedule, func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if _, err := s.RunStaleSentCheck(jobCtx); err != nil {
			s.Logger.Error("stale-sent check failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule stale-sent check: %w", err)
	}

	s.scheduler.Start()
	s.Logger.Info("reminder scheduler started",
		zap.String("schedule", s.Config.ReminderSchedule),
		zap.Int("stale_days", s.Config.ReminderStaleDays),
	)
	return nil
}

func (s *ReminderServiceImpl) StopScheduler() error {
	if s.scheduler != nil {
		ctx := s.scheduler.Stop()
		<-ctx.Done()
	}
	return nil
}

func (s *ReminderServiceImpl) RunStaleSentCheck(ctx context.Context) (int, error) {
	cutoff := time.Now().AddDate(0, 0, -s.Config.ReminderStaleDays)
	stale, err := s.Distributions.ListStaleSent(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	for i := range stale {
		s.Notifications.StaleDistributionReminder(ctx, &stale[i])
	}
	if len(stale) > 0 {
		s.Logger.Info("stale-sent reminders delivered", zap.Int("count", len(stale)))
	}
	return len(stale), nil
}
