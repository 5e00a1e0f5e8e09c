package mock

import (
	"context"

	"github.com/bakkerme/gh-notifier/internal/core"
)

// Fetcher returns canned feed responses for tests.
type Fetcher struct {
	Records []core.Record
	Err     error
	Calls   int
}

func (f *Fetcher) Fetch(ctx context.Context) ([]core.Record, error) {
	_ = ctx
	f.Calls++
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Records, nil
}
