package snapshot

import (
	"context"
	"fmt"

	"github.com/bakkerme/gh-notifier/internal/core"
	"github.com/bakkerme/gh-notifier/internal/sources/github"
)

// WrapFetcher decorates a fetcher according to the snapshot config. Replay
// serves records from the snapshot file without hitting the network; Record
// passes the live fetch through and captures the response on the way. A nil
// or inactive config returns the fetcher unchanged.
func WrapFetcher(fetcher github.Fetcher, cfg *core.SnapshotConfig) github.Fetcher {
	if cfg == nil {
		return fetcher
	}
	if cfg.Replay {
		return &replayFetcher{path: cfg.Path}
	}
	if cfg.Record {
		return &recordingFetcher{next: fetcher, path: cfg.Path}
	}
	return fetcher
}

type replayFetcher struct {
	path string
}

func (f *replayFetcher) Fetch(ctx context.Context) ([]core.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Load(f.path)
}

type recordingFetcher struct {
	next github.Fetcher
	path string
}

func (f *recordingFetcher) Fetch(ctx context.Context) ([]core.Record, error) {
	records, err := f.next.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	if err := Save(f.path, records); err != nil {
		return nil, fmt.Errorf("record snapshot: %w", err)
	}
	return records, nil
}
