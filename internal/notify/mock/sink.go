package mock

import (
	"context"

	"github.com/bakkerme/gh-notifier/internal/notify"
)

type Sink struct {
	Payloads []notify.Payload
	Err      error
}

func (s *Sink) Notify(ctx context.Context, payload notify.Payload) error {
	_ = ctx
	if s.Err != nil {
		return s.Err
	}
	s.Payloads = append(s.Payloads, payload)
	return nil
}
