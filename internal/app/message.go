package app

import (
	"fmt"
	"time"

	"class_reminder_bot/internal/domain/delivery"
	"class_reminder_bot/internal/domain/event"
	"class_reminder_bot/internal/domain/reminder"
)

const targetTimeLayout = "03:04 PM on 02-Jan-2006"

// renderSubject builds the subject line for channels that carry one.
func renderSubject(ev *event.Event, th reminder.Threshold) string {
	switch ev.Kind {
	case event.KindAssignment:
		return fmt.Sprintf("Assignment Reminder: %s (%s before)", ev.Title, th.Label())
	default:
		return fmt.Sprintf("Class Reminder: %s (%s before)", ev.Title, th.Label())
	}
}

// renderBody builds the human-readable message. Destinations with a name get
// a personal greeting and sign-off; broadcast destinations get the bare
// announcement.
func renderBody(ev *event.Event, th reminder.Threshold, dest delivery.Destination, target time.Time) string {
	when := target.Format(targetTimeLayout)

	var line string
	switch ev.Kind {
	case event.KindAssignment:
		line = fmt.Sprintf("📝 Reminder: Your assignment '%s' for %s - %s (%s) is due at %s.",
			ev.Title, ev.Course, ev.Batch, ev.Mode, when)
	default:
		line = fmt.Sprintf("📚 Reminder: Your class '%s' for %s - %s (%s) is scheduled at %s.",
			ev.Title, ev.Course, ev.Batch, ev.Mode, when)
	}
	line += fmt.Sprintf("\nThis is your %s reminder.", th.Label())

	if dest.Name == "" {
		return line
	}
	return fmt.Sprintf("Hi %s,\n\n%s\n\n— Automated Reminder System", dest.Name, line)
}
