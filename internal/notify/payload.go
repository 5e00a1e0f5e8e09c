package notify

import (
	"strings"

	"github.com/bakkerme/gh-notifier/internal/core"
)

// DefaultBanner is the title for informational notifications when the
// notifier document does not override it.
const DefaultBanner = "New Github Notification"

// ErrorBanner titles the error side channel, so a failing notifier is
// distinguishable from a quiet one.
const ErrorBanner = "Github Notifier Error"

// ForRecord builds the informational payload for one feed record.
func ForRecord(banner string, rec core.Record) Payload {
	if banner == "" {
		banner = DefaultBanner
	}
	p := Payload{
		Title:    banner,
		Subtitle: HumanizeReason(rec.Reason),
		Body:     rec.Subject.Title,
	}
	if url, ok := BrowserURL(rec.Subject.URL); ok {
		p.OpenURL = url
	}
	return p
}

// ForConfigurationError reports a missing or unusable credential.
func ForConfigurationError(detail string) Payload {
	return errorPayload("configuration error", detail)
}

// ForConnectionError reports a failed feed fetch.
func ForConnectionError(detail string) Payload {
	return errorPayload("connection error", detail)
}

func errorPayload(kind, detail string) Payload {
	return Payload{Title: ErrorBanner, Subtitle: kind, Body: detail}
}

// HumanizeReason renders a feed reason code for display: underscores become
// spaces, so "review_requested" reads as "review requested".
func HumanizeReason(reason string) string {
	return strings.ReplaceAll(reason, "_", " ")
}
