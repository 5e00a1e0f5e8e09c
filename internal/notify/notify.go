// Package notify turns feed records into user-facing notifications and
// defines the sink interface outputs implement. Informational records and
// pipeline errors travel through the same sinks; only the payload differs.
package notify

import "context"

// Payload is one renderable notification.
type Payload struct {
	Title    string
	Subtitle string
	Body     string
	OpenURL  string
}

// Sink delivers a payload to the user. A sink failure only affects the
// payload passed; callers keep dispatching the rest.
type Sink interface {
	Notify(ctx context.Context, payload Payload) error
}
