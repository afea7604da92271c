package reminder

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Threshold is a lead time before an event's target instant at which a
// reminder fires.
type Threshold struct {
	Lead time.Duration
}

// Label renders the threshold the way it appears inside reminder keys and
// messages, e.g. 24h -> "24hr", 30m -> "30min".
func (t Threshold) Label() string {
	if t.Lead >= time.Hour && t.Lead%time.Hour == 0 {
		return fmt.Sprintf("%dhr", int(t.Lead.Hours()))
	}
	return fmt.Sprintf("%dmin", int(t.Lead.Minutes()))
}

// ParseThresholds parses a comma-separated list of durations ("24h,1h") into
// a threshold set ordered largest lead first. That ordering is the fixed
// priority order the evaluator walks on every tick.
func ParseThresholds(spec string) ([]Threshold, error) {
	parts := strings.Split(spec, ",")
	thresholds := make([]Threshold, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		d, err := time.ParseDuration(p)
		if err != nil {
			return nil, fmt.Errorf("invalid reminder threshold %q: %w", p, err)
		}
		if d <= 0 {
			return nil, fmt.Errorf("reminder threshold %q must be positive", p)
		}
		thresholds = append(thresholds, Threshold{Lead: d})
	}
	if len(thresholds) == 0 {
		return nil, fmt.Errorf("no reminder thresholds configured")
	}
	sort.Slice(thresholds, func(i, j int) bool { return thresholds[i].Lead > thresholds[j].Lead })
	return thresholds, nil
}
