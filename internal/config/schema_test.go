package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bakkerme/gh-notifier/internal/core"
	"gopkg.in/yaml.v3"
)

func TestParseExampleDocument(t *testing.T) {
	data := []byte(`
notifier:
  banner: "New Github Notification"
  feed:
    timeout: 10s
    retry_attempts: 2
  state:
    path: /tmp/gh-notifier-seen
  filters:
    - name: mute_ci
      rule: 'reason == "ci_activity"'
      result: drop
  outputs:
    - desktop:
        sound: default
`)

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		t.Fatalf("Failed to unmarshal YAML: %v", err)
	}
	if err := doc.Validate(); err != nil {
		t.Fatalf("Document validation failed: %v", err)
	}

	if doc.Notifier.Banner != "New Github Notification" {
		t.Errorf("Expected banner, got %q", doc.Notifier.Banner)
	}
	if doc.Notifier.State.Path != "/tmp/gh-notifier-seen" {
		t.Errorf("Expected state path, got %q", doc.Notifier.State.Path)
	}
	if len(doc.Notifier.Filters) != 1 {
		t.Fatalf("Expected 1 filter, got %d", len(doc.Notifier.Filters))
	}
	if doc.Notifier.Filters[0].Name != "mute_ci" {
		t.Errorf("Expected filter name mute_ci, got %q", doc.Notifier.Filters[0].Name)
	}
	if len(doc.Notifier.Outputs) != 1 || doc.Notifier.Outputs[0].Desktop == nil {
		t.Fatalf("Expected a single desktop output, got %+v", doc.Notifier.Outputs)
	}
	if doc.Notifier.Outputs[0].Desktop.Sound != "default" {
		t.Errorf("Expected desktop sound, got %q", doc.Notifier.Outputs[0].Desktop.Sound)
	}
}

func TestValidation(t *testing.T) {
	testCases := []struct {
		name        string
		doc         Document
		expectError bool
		errorMsg    string
	}{
		{
			name:        "Empty document is valid",
			doc:         Document{},
			expectError: false,
		},
		{
			name: "Invalid feed url",
			doc: Document{Notifier: Notifier{
				Feed: FeedConfig{URL: "://nope"},
			}},
			expectError: true,
			errorMsg:    "invalid url",
		},
		{
			name: "Invalid feed timeout",
			doc: Document{Notifier: Notifier{
				Feed: FeedConfig{Timeout: "10 parsecs"},
			}},
			expectError: true,
			errorMsg:    "invalid timeout",
		},
		{
			name: "Negative retry attempts",
			doc: Document{Notifier: Notifier{
				Feed: FeedConfig{RetryAttempts: -1},
			}},
			expectError: true,
			errorMsg:    "retry_attempts",
		},
		{
			name: "Snapshot record and replay both set",
			doc: Document{Notifier: Notifier{
				Feed: FeedConfig{Snapshot: &core.SnapshotConfig{Record: true, Replay: true, Path: "feed.json"}},
			}},
			expectError: true,
			errorMsg:    "record and replay cannot both be true",
		},
		{
			name: "Snapshot without path",
			doc: Document{Notifier: Notifier{
				Feed: FeedConfig{Snapshot: &core.SnapshotConfig{Replay: true}},
			}},
			expectError: true,
			errorMsg:    "snapshot path is required",
		},
		{
			name: "Filter missing rule",
			doc: Document{Notifier: Notifier{
				Filters: []FilterRule{{Name: "incomplete", Result: "drop"}},
			}},
			expectError: true,
			errorMsg:    "name and rule expression are required",
		},
		{
			name: "Filter with unknown result",
			doc: Document{Notifier: Notifier{
				Filters: []FilterRule{{Name: "bad", Rule: "unread", Result: "maybe"}},
			}},
			expectError: true,
			errorMsg:    "result must be 'pass' or 'drop'",
		},
		{
			name: "Empty output entry",
			doc: Document{Notifier: Notifier{
				Outputs: []OutputConfig{{}},
			}},
			expectError: true,
			errorMsg:    "unsupported output type",
		},
		{
			name: "Output entry with two types",
			doc: Document{Notifier: Notifier{
				Outputs: []OutputConfig{{
					Desktop: &DesktopOutput{},
					Email:   &EmailOutput{To: "test@test.com"},
				}},
			}},
			expectError: true,
			errorMsg:    "exactly one output type per entry",
		},
		{
			name: "Email output missing to",
			doc: Document{Notifier: Notifier{
				Outputs: []OutputConfig{{Email: &EmailOutput{}}},
			}},
			expectError: true,
			errorMsg:    "'to' field is required",
		},
		{
			name: "Email output invalid to address",
			doc: Document{Notifier: Notifier{
				Outputs: []OutputConfig{{Email: &EmailOutput{To: "invalid-email"}}},
			}},
			expectError: true,
			errorMsg:    "invalid to address",
		},
		{
			name: "Email output invalid from address",
			doc: Document{Notifier: Notifier{
				Outputs: []OutputConfig{{Email: &EmailOutput{To: "test@test.com", From: "nope"}}},
			}},
			expectError: true,
			errorMsg:    "invalid from address",
		},
		{
			name: "Valid full configuration",
			doc: Document{Notifier: Notifier{
				Banner: "New Github Notification",
				Feed:   FeedConfig{Timeout: "30s", RetryAttempts: 2},
				State:  StateConfig{Path: "/tmp/seen"},
				Filters: []FilterRule{
					{Name: "only_unread", Rule: "unread", Result: "pass"},
				},
				Outputs: []OutputConfig{
					{Desktop: &DesktopOutput{}},
					{Email: &EmailOutput{To: "test@test.com", From: "noreply@test.com", SMTPHost: "smtp.test.com"}},
				},
			}},
			expectError: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.doc.Validate()
			if tc.expectError {
				if err == nil {
					t.Error("Expected error but got none")
				} else if tc.errorMsg != "" && !strings.Contains(err.Error(), tc.errorMsg) {
					t.Errorf("Expected error message to contain '%s' but got '%s'", tc.errorMsg, err.Error())
				}
			} else {
				if err != nil {
					t.Errorf("Expected no error but got: %v", err)
				}
			}
		})
	}
}

func TestLoadDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notifier.yaml")
	data := []byte(`
notifier:
  feed:
    timeout: 5s
  outputs:
    - desktop: {}
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write temp document: %v", err)
	}

	doc, err := Load(path)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if doc.Notifier.Feed.Timeout != "5s" {
		t.Errorf("Expected timeout 5s, got %q", doc.Notifier.Feed.Timeout)
	}
}

func TestLoadDocumentEmptyPath(t *testing.T) {
	doc, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") unexpected error: %v", err)
	}
	if doc == nil {
		t.Fatal("Load(\"\") returned nil document")
	}
	if err := doc.Validate(); err != nil {
		t.Fatalf("empty document should validate: %v", err)
	}
}

func TestLoadDocumentMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing document")
	}
}

func TestLoadDocumentInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notifier.yaml")
	if err := os.WriteFile(path, []byte("notifier: ["), 0o600); err != nil {
		t.Fatalf("write temp document: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for malformed yaml")
	}
}
