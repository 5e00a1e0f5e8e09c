package impl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bakkerme/gh-notifier/internal/core"
	"github.com/bakkerme/gh-notifier/internal/retry"
	"github.com/bakkerme/gh-notifier/internal/sources/github"
)

const acceptHeader = "application/vnd.github+json"

type Fetcher struct {
	client      *http.Client
	token       string
	feedURL     string
	userAgent   string
	retryCfg    retry.Config
	maxBodySize int64
}

func NewFetcher(timeout time.Duration, userAgent, feedURL, token string, retryCfg retry.Config, opts ...Option) *Fetcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if userAgent == "" {
		userAgent = "gh-notifier/0.1"
	}
	if strings.TrimSpace(feedURL) == "" {
		feedURL = github.DefaultFeedURL
	}
	f := &Fetcher{
		client:      &http.Client{Timeout: timeout},
		token:       strings.TrimSpace(token),
		feedURL:     feedURL,
		userAgent:   userAgent,
		retryCfg:    retryCfg,
		maxBodySize: 10 << 20, // 10 MiB
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch performs a single GET of the notifications feed and decodes it.
// Anything other than HTTP 200 is an error; expired tokens and rate limits
// both surface as *github.StatusError.
func (f *Fetcher) Fetch(ctx context.Context) ([]core.Record, error) {
	if f.token == "" {
		return nil, fmt.Errorf("github: missing token (set GH_NOTIFIER_TOKEN)")
	}

	var records []core.Record
	err := retry.Do(ctx, f.retryCfg, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.feedURL, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+f.token)
		req.Header.Set("Accept", acceptHeader)
		req.Header.Set("User-Agent", f.userAgent)

		resp, err := f.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		limited := io.LimitReader(resp.Body, f.maxBodySize+1)
		body, err := io.ReadAll(limited)
		if err != nil {
			return err
		}
		if int64(len(body)) > f.maxBodySize {
			return fmt.Errorf("github: response too large")
		}

		if resp.StatusCode != http.StatusOK {
			return &github.StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
		}

		var page []core.Record
		if err := json.Unmarshal(body, &page); err != nil {
			return fmt.Errorf("github: decode feed: %w", err)
		}
		records = page
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}
