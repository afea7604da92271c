// internal/app/reminder_service.go
package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"class_reminder_bot/internal/domain/delivery"
	"class_reminder_bot/internal/domain/event"
	"class_reminder_bot/internal/domain/reminder"
	"class_reminder_bot/internal/domain/student"

	"github.com/sirupsen/logrus"
)

// ReminderService evaluates scheduler ticks: which (event, threshold) pairs
// cross their reminder window at the given instant and have not been
// dispatched yet.
type ReminderService interface {
	RunTick(ctx context.Context, now time.Time) error
}

// EvaluationConfig carries the windowing knobs the evaluator needs.
type EvaluationConfig struct {
	// Thresholds is the fixed priority order, largest lead first.
	Thresholds []reminder.Threshold
	// WindowWidth is the half-open tolerance interval anchored at each
	// threshold crossing. Must be at least the tick interval.
	WindowWidth time.Duration
	// DefaultDueTime ("15:04") is substituted when an event carries a date
	// but no time of day.
	DefaultDueTime string
	// Location is the timezone event dates and times are interpreted in.
	Location *time.Location
}

// ReminderServiceImpl implements the ReminderService interface.
type ReminderServiceImpl struct {
	eventRepo   event.Repository
	studentRepo student.Repository
	ledger      reminder.Ledger
	channel     delivery.Channel
	resolver    delivery.Resolver
	cfg         EvaluationConfig
	logger      *logrus.Logger
}

func NewReminderServiceImpl(
	er event.Repository,
	sr student.Repository,
	ledger reminder.Ledger,
	channel delivery.Channel,
	resolver delivery.Resolver,
	cfg EvaluationConfig,
	logger *logrus.Logger,
) *ReminderServiceImpl {
	return &ReminderServiceImpl{
		eventRepo:   er,
		studentRepo: sr,
		ledger:      ledger,
		channel:     channel,
		resolver:    resolver,
		cfg:         cfg,
		logger:      logger,
	}
}

// RunTick evaluates one tick against a fresh store snapshot. A store error
// fails the whole tick (logged by the scheduler, loop continues); malformed
// individual events are skipped with a warning and never abort the sweep.
func (s *ReminderServiceImpl) RunTick(ctx context.Context, now time.Time) error {
	s.logger.Debugf("Checking reminders at %s", now.In(s.cfg.Location).Format("2006-01-02 15:04:05"))

	roster, err := s.studentRepo.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to list students: %w", err)
	}
	classes, err := s.eventRepo.ListClasses(ctx)
	if err != nil {
		return fmt.Errorf("failed to list classes: %w", err)
	}
	assignments, err := s.eventRepo.ListAssignments(ctx)
	if err != nil {
		return fmt.Errorf("failed to list assignments: %w", err)
	}

	events := make([]*event.Event, 0, len(classes)+len(assignments))
	events = append(events, classes...)
	events = append(events, assignments...)

	for _, ev := range events {
		target, err := s.targetInstant(ev)
		if err != nil {
			s.logger.Warnf("Skipping %s '%s' (%s %s): %v", ev.Kind, ev.Title, ev.Course, ev.Batch, err)
			continue
		}

		for _, th := range s.cfg.Thresholds {
			// Half-open window anchored at the threshold crossing: a tick
			// landing inside [crossing, crossing+window) observes it.
			// Thresholds never suppress one another; each due-and-unsent
			// one dispatches independently.
			elapsed := now.Sub(target.Add(-th.Lead))
			if elapsed < 0 || elapsed >= s.cfg.WindowWidth {
				continue
			}
			key := reminder.Key(ev, th)
			if s.ledger.Contains(key) {
				continue
			}
			s.dispatch(ctx, ev, th, key, target, roster)
		}
	}

	if pl, ok := s.ledger.(reminder.PersistentLedger); ok {
		if err := pl.Persist(); err != nil {
			s.logger.Warnf("Failed to persist reminder ledger: %v", err)
		}
	}
	return nil
}

// dispatch resolves destinations for one due reminder, sends to each, and
// records the key. A key is recorded once dispatch was issued, regardless of
// individual transport failures (fire-and-forget). When matching yields no
// destinations the key stays unsent so the reminder is retried next tick,
// in case the roster gets fixed while the window is still open.
func (s *ReminderServiceImpl) dispatch(ctx context.Context, ev *event.Event, th reminder.Threshold, key string, target time.Time, roster []*student.Student) {
	dests := s.resolver.Resolve(ev, roster)
	if len(dests) == 0 {
		s.logger.Warnf("No recipients found for %s %s %d (%s)", ev.Course, ev.Batch, ev.Year, ev.Mode)
		return
	}

	subject := renderSubject(ev, th)
	for _, dest := range dests {
		body := renderBody(ev, th, dest, target)
		if err := s.channel.Send(ctx, dest, subject, body); err != nil {
			s.logger.Errorf("Failed to send %s reminder for '%s' to %s: %v", th.Label(), ev.Title, dest.Address, err)
		} else {
			s.logger.Infof("Sent %s reminder for '%s' to %s", th.Label(), ev.Title, dest.Address)
		}
	}

	s.ledger.Add(key)
}

// targetInstant normalizes an event's date and time-of-day into a concrete
// instant in the configured location. Events without a time of day get the
// configured default.
func (s *ReminderServiceImpl) targetInstant(ev *event.Event) (time.Time, error) {
	tod := strings.TrimSpace(ev.Time.String)
	if !ev.Time.Valid || tod == "" {
		tod = s.cfg.DefaultDueTime
	}
	t, err := time.ParseInLocation("2006-01-02 15:04", strings.TrimSpace(ev.Date)+" "+tod, s.cfg.Location)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date/time: %w", err)
	}
	return t, nil
}
