package impl

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/bakkerme/gh-notifier/internal/retry"
	"github.com/bakkerme/gh-notifier/internal/sources/github"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

func TestFetchSendsAuthHeadersAndDecodes(t *testing.T) {
	t.Parallel()

	feedJSON := `[
		{
			"id": "101",
			"unread": true,
			"reason": "review_requested",
			"updated_at": "2026-08-20T10:00:00Z",
			"subject": {
				"title": "Add retry budget",
				"url": "https://api.github.com/repos/acme/widgets/pulls/42",
				"type": "PullRequest"
			},
			"repository": {"full_name": "acme/widgets"}
		}
	]`

	f := NewFetcher(5*time.Second, "gh-notifier-test/1.0", "", "token-123", retry.Config{})
	f.client = &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		if req.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", req.Method)
		}
		if req.URL.String() != github.DefaultFeedURL {
			t.Errorf("expected default feed url, got %s", req.URL.String())
		}
		if got := req.Header.Get("Authorization"); got != "Bearer token-123" {
			t.Errorf("unexpected Authorization header: %q", got)
		}
		if got := req.Header.Get("Accept"); got != "application/vnd.github+json" {
			t.Errorf("unexpected Accept header: %q", got)
		}
		if got := req.Header.Get("User-Agent"); got != "gh-notifier-test/1.0" {
			t.Errorf("unexpected User-Agent header: %q", got)
		}
		return jsonResponse(http.StatusOK, feedJSON), nil
	})}

	records, err := f.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	rec := records[0]
	if rec.ID != "101" || !rec.Unread || rec.Reason != "review_requested" {
		t.Errorf("unexpected record fields: %+v", rec)
	}
	if rec.Subject.Title != "Add retry budget" {
		t.Errorf("unexpected subject title: %q", rec.Subject.Title)
	}
	if rec.Repository.FullName != "acme/widgets" {
		t.Errorf("unexpected repository: %q", rec.Repository.FullName)
	}
	if rec.SeenKey() != "1012026-08-20T10:00:00Z" {
		t.Errorf("unexpected seen key: %q", rec.SeenKey())
	}
}

func TestFetchEmptyFeed(t *testing.T) {
	t.Parallel()

	f := NewFetcher(5*time.Second, "", "", "token-123", retry.Config{})
	f.client = &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, "[]"), nil
	})}

	records, err := f.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() unexpected error: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected empty feed, got %d records", len(records))
	}
}

func TestFetchNonOKStatus(t *testing.T) {
	t.Parallel()

	f := NewFetcher(5*time.Second, "", "", "expired-token", retry.Config{})
	f.client = &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusUnauthorized, `{"message":"Bad credentials"}`), nil
	})}

	_, err := f.Fetch(context.Background())
	if err == nil {
		t.Fatal("expected error for 401 response")
	}
	var statusErr *github.StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected *github.StatusError, got %T: %v", err, err)
	}
	if statusErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", statusErr.StatusCode)
	}
	if !strings.Contains(statusErr.Body, "Bad credentials") {
		t.Errorf("expected body in error, got %q", statusErr.Body)
	}
}

func TestFetchRetriesWhenConfigured(t *testing.T) {
	t.Parallel()

	calls := 0
	f := NewFetcher(5*time.Second, "", "", "token-123", retry.Config{
		Attempts:  3,
		BaseDelay: time.Millisecond,
		MaxDelay:  2 * time.Millisecond,
		Jitter:    time.Millisecond,
	})
	f.client = &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		calls++
		if calls < 3 {
			return jsonResponse(http.StatusServiceUnavailable, "upstream sad"), nil
		}
		return jsonResponse(http.StatusOK, "[]"), nil
	})}

	if _, err := f.Fetch(context.Background()); err != nil {
		t.Fatalf("Fetch() unexpected error after retries: %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
}

func TestFetchSingleAttemptByDefault(t *testing.T) {
	t.Parallel()

	calls := 0
	f := NewFetcher(5*time.Second, "", "", "token-123", retry.Config{})
	f.client = &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		calls++
		return jsonResponse(http.StatusServiceUnavailable, ""), nil
	})}

	if _, err := f.Fetch(context.Background()); err == nil {
		t.Fatal("expected error for 503 response")
	}
	if calls != 1 {
		t.Fatalf("expected exactly one attempt by default, got %d", calls)
	}
}

func TestFetchDecodeError(t *testing.T) {
	t.Parallel()

	f := NewFetcher(5*time.Second, "", "", "token-123", retry.Config{})
	f.client = &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, "<html>not json</html>"), nil
	})}

	_, err := f.Fetch(context.Background())
	if err == nil || !strings.Contains(err.Error(), "decode feed") {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestFetchMissingToken(t *testing.T) {
	t.Parallel()

	f := NewFetcher(5*time.Second, "", "", "", retry.Config{})
	f.client = &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		t.Error("no request should be made without a token")
		return nil, errors.New("unreachable")
	})}

	_, err := f.Fetch(context.Background())
	if err == nil || !strings.Contains(err.Error(), "GH_NOTIFIER_TOKEN") {
		t.Fatalf("expected missing token error, got %v", err)
	}
}
