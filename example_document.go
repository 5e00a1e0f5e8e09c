package main

import (
	"fmt"
	"log"

	"github.com/bakkerme/gh-notifier/internal/config"
	"gopkg.in/yaml.v3"
)

func main() {
	// Example YAML configuration
	yamlConfig := `
notifier:
  banner: "Team GitHub"

  feed:
    timeout: 30s
    retry_attempts: 3

  state:
    path: "/tmp/gh-notifier-demo/seen"

  filters:
    - name: mute ci noise
      rule: 'reason == "ci_activity"'
      result: drop
    - name: unread only
      rule: 'unread'
      result: pass

  outputs:
    - desktop:
        sound: default
    - email:
        to: dev@example.com
        from: gh-notifier@example.com
        smtp_host: localhost
        smtp_port: 1025
        tls_mode: disabled
`

	// Parse the YAML into our config structure
	var doc config.Document
	if err := yaml.Unmarshal([]byte(yamlConfig), &doc); err != nil {
		log.Fatalf("Failed to parse YAML: %v", err)
	}
	if err := doc.Validate(); err != nil {
		log.Fatalf("Invalid document: %v", err)
	}

	// Overlay the document on environment defaults
	settings, err := config.Resolve(config.LoadEnv(), &doc)
	if err != nil {
		log.Fatalf("Failed to resolve settings: %v", err)
	}

	feedURL := settings.FeedURL
	if feedURL == "" {
		feedURL = "https://api.github.com/notifications (default)"
	}

	fmt.Printf("Banner: %s\n", settings.Banner)
	fmt.Printf("Feed: %s\n", feedURL)
	fmt.Printf("Timeout: %s, Attempts: %d\n", settings.HTTPTimeout, settings.RetryAttempts)
	fmt.Printf("State: %s\n", settings.StatePath)

	fmt.Printf("\nFilters (%d, evaluated in order):\n", len(settings.Filters))
	fmt.Printf("%-3s %-20s %-6s %s\n", "#", "Name", "Result", "Rule")
	fmt.Printf("%-3s %-20s %-6s %s\n", "---", "--------------------", "------", "----------------------------")
	for i, f := range settings.Filters {
		fmt.Printf("%-3d %-20s %-6s %s\n", i+1, f.Name, f.Result, f.Rule)
	}

	desktopCount, emailCount := 0, 0
	for _, out := range settings.Outputs {
		if out.Desktop != nil {
			desktopCount++
		}
		if out.Email != nil {
			emailCount++
		}
	}
	fmt.Printf("\nOutputs:\n")
	fmt.Printf("  Desktop: %d\n", desktopCount)
	fmt.Printf("  Email: %d\n", emailCount)
}
