package reminder

import (
	"fmt"

	"class_reminder_bot/internal/domain/event"
)

// Key uniquely identifies one (event, threshold) dispatch decision, e.g.
// "class-CS101-A-Intro-2024-01-02-24hr". A given key is dispatched at most
// once per ledger lifetime.
func Key(ev *event.Event, th Threshold) string {
	return fmt.Sprintf("%s-%s-%s-%s-%s-%s", ev.Kind, ev.Course, ev.Batch, ev.Title, ev.Date, th.Label())
}
