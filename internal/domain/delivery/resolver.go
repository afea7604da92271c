package delivery

import (
	"strings"

	"class_reminder_bot/internal/domain/event"
	"class_reminder_bot/internal/domain/student"
)

// Resolver selects the destinations for one due reminder. Each channel
// variant supplies its own strategy.
type Resolver interface {
	Resolve(ev *event.Event, roster []*student.Student) []Destination
}

// BroadcastResolver targets a single shared destination regardless of the
// event's attributes; recipient matching is skipped entirely. It cannot
// notify selectively by course or batch, which is intentional for a shared
// announcement channel.
type BroadcastResolver struct {
	Target Destination
}

func (r BroadcastResolver) Resolve(_ *event.Event, _ []*student.Student) []Destination {
	return []Destination{r.Target}
}

// AttributeResolver matches students against the event's classification
// attributes: case-insensitive on course, batch and mode, exact on year.
type AttributeResolver struct{}

func (AttributeResolver) Resolve(ev *event.Event, roster []*student.Student) []Destination {
	var dests []Destination
	for _, s := range roster {
		if !strings.EqualFold(s.Course, ev.Course) ||
			!strings.EqualFold(s.Batch, ev.Batch) ||
			s.Year != ev.Year ||
			!strings.EqualFold(s.Mode, ev.Mode) {
			continue
		}
		dests = append(dests, Destination{Name: s.Name, Address: s.Email})
	}
	return dests
}
