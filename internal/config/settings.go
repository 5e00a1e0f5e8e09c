package config

import (
	"fmt"
	"time"

	"github.com/bakkerme/gh-notifier/internal/core"
)

// Settings is the fully resolved runtime configuration: environment defaults
// overlaid with the optional notifier document. Credentials only ever come
// from the environment.
type Settings struct {
	Token         string
	FeedURL       string
	UserAgent     string
	HTTPTimeout   time.Duration
	RetryAttempts int
	StatePath     string
	Banner        string
	Snapshot      *core.SnapshotConfig
	Filters       []FilterRule
	Outputs       []OutputConfig
	OTel          OTelEnvConfig
}

// Resolve merges the environment view with a parsed document. Document values
// win where both are set; SMTP_* env values backfill email outputs so that
// secrets can stay out of the file. With no outputs configured the notifier
// falls back to a single desktop output.
func Resolve(env EnvConfig, doc *Document) (Settings, error) {
	if doc == nil {
		doc = &Document{}
	}
	n := doc.Notifier

	s := Settings{
		Token:         env.Token,
		FeedURL:       env.FeedURL,
		UserAgent:     env.UserAgent,
		HTTPTimeout:   env.HTTPTimeout,
		RetryAttempts: env.RetryAttempts,
		StatePath:     env.StateFile,
		Banner:        n.Banner,
		Snapshot:      n.Feed.Snapshot,
		Filters:       n.Filters,
		OTel:          env.OTel,
	}

	if n.Feed.URL != "" {
		s.FeedURL = n.Feed.URL
	}
	if n.Feed.UserAgent != "" {
		s.UserAgent = n.Feed.UserAgent
	}
	if n.Feed.Timeout != "" {
		d, err := parseDurationExtended(n.Feed.Timeout)
		if err != nil {
			return Settings{}, fmt.Errorf("feed: invalid timeout: %w", err)
		}
		s.HTTPTimeout = d
	}
	if n.Feed.RetryAttempts > 0 {
		s.RetryAttempts = n.Feed.RetryAttempts
	}
	if n.State.Path != "" {
		s.StatePath = n.State.Path
	}

	for _, output := range n.Outputs {
		out := output
		if out.Email != nil {
			merged := mergeEmailOutput(*out.Email, env.SMTP)
			if merged.SMTPHost == "" {
				return Settings{}, fmt.Errorf("output email: smtp host is required (smtp_host or SMTP_HOST)")
			}
			out.Email = &merged
		}
		s.Outputs = append(s.Outputs, out)
	}
	if len(s.Outputs) == 0 {
		s.Outputs = []OutputConfig{{Desktop: &DesktopOutput{}}}
	}

	return s, nil
}

func mergeEmailOutput(e EmailOutput, env SMTPEnvConfig) EmailOutput {
	if e.SMTPHost == "" {
		e.SMTPHost = env.Host
	}
	if e.SMTPPort == 0 {
		e.SMTPPort = env.Port
	}
	if e.SMTPUser == "" {
		e.SMTPUser = env.User
	}
	if e.SMTPPassword == "" {
		e.SMTPPassword = env.Password
	}
	if e.TLSMode == "" {
		e.TLSMode = env.TLSMode
	}
	if env.InsecureSkipVerify {
		e.InsecureSkipVerify = true
	}
	return e
}
