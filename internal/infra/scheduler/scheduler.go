package scheduler

import (
	"context"
	"fmt"
	"time"

	"class_reminder_bot/internal/app" // For ReminderService interface

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// ReminderScheduler drives the tick-evaluate-sleep cycle. One cron job fires
// every tick interval and runs a full evaluation pass; a failed tick is
// logged and the loop simply proceeds to the next tick.
type ReminderScheduler struct {
	cronEngine   *cron.Cron
	reminderSvc  app.ReminderService
	logger       *logrus.Logger
	tickInterval time.Duration
}

func NewReminderScheduler(
	reminderSvc app.ReminderService,
	logger *logrus.Logger,
	tickInterval time.Duration,
) *ReminderScheduler {
	return &ReminderScheduler{
		cronEngine:   cron.New(cron.WithLocation(time.Local)),
		reminderSvc:  reminderSvc,
		logger:       logger,
		tickInterval: tickInterval,
	}
}

func (s *ReminderScheduler) Start() error {
	spec := fmt.Sprintf("@every %s", s.tickInterval)
	_, err := s.cronEngine.AddFunc(spec, func() {
		// No tick-level timeout: a large roster just makes the tick take
		// longer, and I/O deadlines are the transport's concern.
		if err := s.reminderSvc.RunTick(context.Background(), time.Now()); err != nil {
			s.logger.Errorf("Reminder tick failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("could not add reminder tick job: %w", err)
	}

	s.cronEngine.Start()
	s.logger.Infof("Reminder scheduler started, ticking every %s.", s.tickInterval)
	return nil
}

func (s *ReminderScheduler) Stop() {
	s.logger.Info("Stopping reminder scheduler...")
	ctx := s.cronEngine.Stop() // Waits for a running tick to finish.
	<-ctx.Done()
	s.logger.Info("Reminder scheduler gracefully stopped.")
}
