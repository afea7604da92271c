package delivery

import "context"

// Destination is one resolved target for a message. Address is a chat ID or
// an email address depending on the channel; Name is empty for broadcast
// destinations.
type Destination struct {
	Name    string
	Address string
}

// Channel sends a rendered message to one destination. A single attempt per
// call, no retries; the caller decides what a failure means for dedup
// purposes. This decouples the evaluator from how the channel authenticates
// or connects.
type Channel interface {
	Send(ctx context.Context, dest Destination, subject, body string) error
}
