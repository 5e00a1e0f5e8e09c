// Package runner drives one notifier invocation end to end: fetch the feed,
// diff it against the seen-set, filter, dispatch notifications, persist the
// new seen-set.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/bakkerme/gh-notifier/internal/core"
	"github.com/bakkerme/gh-notifier/internal/dedupe"
	"github.com/bakkerme/gh-notifier/internal/filter"
	"github.com/bakkerme/gh-notifier/internal/notify"
	"github.com/bakkerme/gh-notifier/internal/sources/github"
)

// Config wires the pipeline stages together. Fetcher and Store are required;
// everything else has a working zero value.
type Config struct {
	Logger  *slog.Logger
	Fetcher github.Fetcher
	Store   dedupe.Store
	Filters *filter.Set
	Sinks   []notify.Sink
	Banner  string
	DryRun  bool
}

type Runner struct {
	logger  *slog.Logger
	fetcher github.Fetcher
	store   dedupe.Store
	filters *filter.Set
	sinks   []notify.Sink
	banner  string
	dryRun  bool
}

func New(cfg Config) (*Runner, error) {
	if cfg.Fetcher == nil {
		return nil, fmt.Errorf("runner: fetcher is required")
	}
	if cfg.Store == nil {
		return nil, fmt.Errorf("runner: store is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	banner := cfg.Banner
	if banner == "" {
		banner = notify.DefaultBanner
	}
	return &Runner{
		logger:  logger,
		fetcher: cfg.Fetcher,
		store:   cfg.Store,
		filters: cfg.Filters,
		sinks:   cfg.Sinks,
		banner:  banner,
		dryRun:  cfg.DryRun,
	}, nil
}

// RunOnce performs a single fetch, diff, notify, persist cycle. A fetch
// failure fails the run and is reported through the sinks as an error
// notification. Individual delivery and persist failures are logged but do
// not fail the run.
func (r *Runner) RunOnce(ctx context.Context) (*core.Run, error) {
	run := &core.Run{
		ID:        fmt.Sprintf("run-%d", time.Now().UnixNano()),
		StartedAt: time.Now().UTC(),
		Status:    core.RunStatusRunning,
	}

	logger := r.logger.With("run_id", run.ID)
	ctx = core.WithRunID(ctx, run.ID)
	ctx = core.WithLogger(ctx, logger)

	tracer := otel.Tracer("gh-notifier/runner")
	ctx, span := tracer.Start(ctx, "notifier.run")
	span.SetAttributes(attribute.String("run.id", run.ID))
	defer span.End()

	records, err := r.fetcher.Fetch(ctx)
	if err != nil {
		run.Status = core.RunStatusFailed
		run.Error = err.Error()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		r.dispatch(ctx, logger, notify.ForConnectionError(err.Error()))
		return run, err
	}
	run.Fetched = len(records)

	seen, err := r.store.Load(ctx)
	if err != nil {
		logger.Warn("seen state unavailable, treating as first run", "error", err)
		seen = nil
	}

	diff := dedupe.Diff(records, seen)
	run.New = len(diff.New)

	fresh := r.filters.Apply(ctx, diff.New)
	run.Suppressed = run.New - len(fresh)

	if r.dryRun {
		for _, rec := range fresh {
			logger.Info("dry run, would notify",
				"id", rec.ID,
				"reason", rec.Reason,
				"title", rec.Subject.Title,
			)
		}
		logger.Info("dry run, seen state untouched", "keys", len(diff.Keys))
	} else {
		for _, rec := range fresh {
			if r.dispatch(ctx, logger, notify.ForRecord(r.banner, rec)) {
				run.Notified++
			}
		}
		if err := r.store.Save(ctx, diff.Keys); err != nil {
			span.RecordError(err)
			logger.Error("persist seen state failed", "error", err)
		} else {
			run.Persisted = len(diff.Keys)
		}
	}

	span.SetAttributes(
		attribute.Int("feed.fetched", run.Fetched),
		attribute.Int("feed.new", run.New),
		attribute.Int("feed.suppressed", run.Suppressed),
		attribute.Int("feed.notified", run.Notified),
	)
	span.SetStatus(codes.Ok, "")

	completedAt := time.Now().UTC()
	run.CompletedAt = &completedAt
	run.Status = core.RunStatusCompleted

	logger.Info("run completed",
		"fetched", run.Fetched,
		"new", run.New,
		"suppressed", run.Suppressed,
		"notified", run.Notified,
		"persisted", run.Persisted,
	)
	return run, nil
}

// dispatch sends one payload to every sink and reports whether at least one
// accepted it. Delivery order follows sink order; one sink failing does not
// stop the others.
func (r *Runner) dispatch(ctx context.Context, logger *slog.Logger, payload notify.Payload) bool {
	delivered := false
	for _, sink := range r.sinks {
		if sink == nil {
			continue
		}
		if err := sink.Notify(ctx, payload); err != nil {
			logger.Error("notification delivery failed", "title", payload.Title, "error", err)
			continue
		}
		delivered = true
	}
	return delivered
}
