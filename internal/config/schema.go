package config

import (
	"fmt"
	"net/mail"
	"net/url"
	"os"

	"github.com/bakkerme/gh-notifier/internal/core"
	"gopkg.in/yaml.v3"
)

// Document represents the top-level structure of a notifier.yaml file.
// Everything in it is optional: a missing document means env defaults plus a
// single desktop output.
type Document struct {
	Notifier Notifier `yaml:"notifier"`
}

// Notifier contains the complete notifier configuration.
type Notifier struct {
	Banner  string         `yaml:"banner,omitempty"`
	Feed    FeedConfig     `yaml:"feed,omitempty"`
	State   StateConfig    `yaml:"state,omitempty"`
	Filters []FilterRule   `yaml:"filters,omitempty"`
	Outputs []OutputConfig `yaml:"outputs,omitempty"`
}

// FeedConfig tunes the notifications fetch.
type FeedConfig struct {
	URL           string               `yaml:"url,omitempty"`
	Timeout       string               `yaml:"timeout,omitempty"`
	RetryAttempts int                  `yaml:"retry_attempts,omitempty"`
	UserAgent     string               `yaml:"user_agent,omitempty"`
	Snapshot      *core.SnapshotConfig `yaml:"snapshot,omitempty"`
}

// StateConfig locates the seen-state file.
type StateConfig struct {
	Path string `yaml:"path,omitempty"`
}

// FilterRule defines an expression-based suppression rule evaluated against
// each new record before dispatch.
type FilterRule struct {
	Name   string `yaml:"name"`
	Rule   string `yaml:"rule"`
	Result string `yaml:"result"`
}

// OutputConfig wraps different output types.
type OutputConfig struct {
	Desktop *DesktopOutput `yaml:"desktop,omitempty"`
	Email   *EmailOutput   `yaml:"email,omitempty"`
}

// DesktopOutput defines desktop notification delivery.
type DesktopOutput struct {
	Sound string `yaml:"sound,omitempty"`
}

// EmailOutput defines email delivery configuration. SMTP credentials may be
// left empty here and provided through SMTP_* environment variables instead.
type EmailOutput struct {
	To                 string `yaml:"to"`
	From               string `yaml:"from,omitempty"`
	Subject            string `yaml:"subject,omitempty"`
	SMTPHost           string `yaml:"smtp_host,omitempty"`
	SMTPPort           int    `yaml:"smtp_port,omitempty"`
	SMTPUser           string `yaml:"smtp_user,omitempty"`
	SMTPPassword       string `yaml:"smtp_password,omitempty"`
	TLSMode            string `yaml:"tls_mode,omitempty"`
	InsecureSkipVerify bool   `yaml:"insecure_skip_verify,omitempty"`
}

// Load reads, parses and validates a notifier document. An empty path yields
// an empty document rather than an error.
func Load(path string) (*Document, error) {
	if path == "" {
		return &Document{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read notifier document: %w", err)
	}
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse notifier document: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate performs validation on the notifier document.
func (d *Document) Validate() error {
	n := &d.Notifier

	if n.Feed.URL != "" {
		u, err := url.Parse(n.Feed.URL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("feed: invalid url %q", n.Feed.URL)
		}
	}
	if n.Feed.Timeout != "" {
		if _, err := parseDurationExtended(n.Feed.Timeout); err != nil {
			return fmt.Errorf("feed: invalid timeout: %w", err)
		}
	}
	if n.Feed.RetryAttempts < 0 {
		return fmt.Errorf("feed: retry_attempts must be >= 0")
	}
	if err := validateSnapshotConfig("feed", n.Feed.Snapshot); err != nil {
		return err
	}

	for i, filter := range n.Filters {
		if filter.Name == "" || filter.Rule == "" {
			return fmt.Errorf("filter %d: name and rule expression are required", i)
		}
		if filter.Result != "pass" && filter.Result != "drop" {
			return fmt.Errorf("filter %q: result must be 'pass' or 'drop'", filter.Name)
		}
	}

	for i, output := range n.Outputs {
		if output.Desktop == nil && output.Email == nil {
			return fmt.Errorf("output %d: unsupported output type", i)
		}
		if output.Desktop != nil && output.Email != nil {
			return fmt.Errorf("output %d: exactly one output type per entry", i)
		}
		if output.Email != nil {
			if err := validateEmailOutput(i, output.Email); err != nil {
				return err
			}
		}
	}

	return nil
}

func validateEmailOutput(i int, e *EmailOutput) error {
	if e.To == "" {
		return fmt.Errorf("output %d email: 'to' field is required", i)
	}
	if _, err := mail.ParseAddress(e.To); err != nil {
		return fmt.Errorf("output %d email: invalid to address", i)
	}
	if e.From != "" { // From is optional, but if provided must be valid
		if _, err := mail.ParseAddress(e.From); err != nil {
			return fmt.Errorf("output %d email: invalid from address", i)
		}
	}
	if e.SMTPPort < 0 || e.SMTPPort > 65535 {
		return fmt.Errorf("output %d email: invalid smtp_port %d", i, e.SMTPPort)
	}
	return nil
}

func validateSnapshotConfig(label string, cfg *core.SnapshotConfig) error {
	if cfg == nil {
		return nil
	}
	if cfg.Record && cfg.Replay {
		return fmt.Errorf("%s: record and replay cannot both be true", label)
	}
	if (cfg.Record || cfg.Replay) && cfg.Path == "" {
		return fmt.Errorf("%s: snapshot path is required", label)
	}
	return nil
}
