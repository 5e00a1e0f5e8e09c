package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bakkerme/gh-notifier/internal/config"
	"github.com/bakkerme/gh-notifier/internal/dedupe"
	"github.com/bakkerme/gh-notifier/internal/filter"
	"github.com/bakkerme/gh-notifier/internal/notify"
	"github.com/bakkerme/gh-notifier/internal/notify/desktop"
	"github.com/bakkerme/gh-notifier/internal/notify/email"
	"github.com/bakkerme/gh-notifier/internal/observability/otelx"
	"github.com/bakkerme/gh-notifier/internal/retry"
	"github.com/bakkerme/gh-notifier/internal/runner"
	"github.com/bakkerme/gh-notifier/internal/runner/snapshot"
	githubimpl "github.com/bakkerme/gh-notifier/internal/sources/github/impl"
)

const version = "0.1.0"

func main() {
	env := config.LoadEnv()

	configPath := flag.String("config", env.ConfigPath, "path to notifier document (optional)")
	statePath := flag.String("state", "", "seen state file (overrides document and environment)")
	dryRun := flag.Bool("dry-run", false, "report what would be notified without dispatching or persisting")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("gh-notifier %s\n", version)
		return
	}

	// Logs go to stderr; stdout is reserved for the failure detail contract.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{}))
	slog.SetDefault(logger)

	doc, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load notifier document: %v", err)
	}
	settings, err := config.Resolve(env, doc)
	if err != nil {
		log.Fatalf("failed to resolve configuration: %v", err)
	}
	if *statePath != "" {
		settings.StatePath = *statePath
	}
	if settings.StatePath == "" {
		settings.StatePath, err = dedupe.DefaultPath()
		if err != nil {
			log.Fatalf("failed to resolve state path: %v", err)
		}
	}

	sinks, err := buildSinks(settings.Outputs)
	if err != nil {
		log.Fatalf("failed to build outputs: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if settings.Token == "" {
		detail := fmt.Sprintf("%s is not set", config.EnvToken)
		dispatchError(ctx, logger, sinks, notify.ForConfigurationError(detail))
		fmt.Println(detail)
		stop()
		os.Exit(1)
	}

	shutdown, err := otelx.Init(ctx, logger, settings.OTel)
	if err != nil {
		log.Fatalf("failed to initialize otel: %v", err)
	}

	filters, err := filter.Compile(settings.Filters)
	if err != nil {
		log.Fatalf("failed to compile filters: %v", err)
	}

	store, err := dedupe.NewFileStore(settings.StatePath)
	if err != nil {
		log.Fatalf("failed to open state store: %v", err)
	}

	fetcher := snapshot.WrapFetcher(
		githubimpl.NewFetcher(
			settings.HTTPTimeout,
			settings.UserAgent,
			settings.FeedURL,
			settings.Token,
			retry.Config{Attempts: settings.RetryAttempts},
			githubimpl.WithTracing(settings.OTel),
		),
		settings.Snapshot,
	)

	r, err := runner.New(runner.Config{
		Logger:  logger,
		Fetcher: fetcher,
		Store:   store,
		Filters: filters,
		Sinks:   sinks,
		Banner:  settings.Banner,
		DryRun:  *dryRun,
	})
	if err != nil {
		log.Fatalf("failed to build runner: %v", err)
	}

	_, runErr := r.RunOnce(ctx)

	if shutdown != nil {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := shutdown(flushCtx); err != nil {
			logger.Error("otel shutdown failed", "error", err)
		}
		cancel()
	}

	if runErr != nil {
		fmt.Println(runErr.Error())
		stop()
		os.Exit(1)
	}
}

func buildSinks(outputs []config.OutputConfig) ([]notify.Sink, error) {
	sinks := make([]notify.Sink, 0, len(outputs))
	for _, out := range outputs {
		switch {
		case out.Desktop != nil:
			sinks = append(sinks, desktop.NewSink(out.Desktop.Sound))
		case out.Email != nil:
			e := out.Email
			sink, err := email.NewSink(email.Config{
				To:                 e.To,
				From:               e.From,
				Subject:            e.Subject,
				Host:               e.SMTPHost,
				Port:               e.SMTPPort,
				Username:           e.SMTPUser,
				Password:           e.SMTPPassword,
				TLSMode:            e.TLSMode,
				InsecureSkipVerify: e.InsecureSkipVerify,
			})
			if err != nil {
				return nil, err
			}
			sinks = append(sinks, sink)
		}
	}
	return sinks, nil
}

func dispatchError(ctx context.Context, logger *slog.Logger, sinks []notify.Sink, payload notify.Payload) {
	for _, sink := range sinks {
		if err := sink.Notify(ctx, payload); err != nil {
			logger.Error("notification delivery failed", "title", payload.Title, "error", err)
		}
	}
}
