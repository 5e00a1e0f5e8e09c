// Package desktop raises operating-system notifications. It prefers
// terminal-notifier when installed (subtitle and click-to-open support on
// macOS) and falls back to beeep's native bindings everywhere else.
package desktop

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/gen2brain/beeep"

	"github.com/bakkerme/gh-notifier/internal/notify"
)

const notifierBinary = "terminal-notifier"

// Sink delivers payloads as desktop notifications.
type Sink struct {
	sound string

	lookPath func(file string) (string, error)
	run      func(ctx context.Context, name string, args ...string) error
	fallback func(title, message string, appIcon any) error
}

// NewSink returns a desktop sink. sound optionally names a notification
// sound for renderers that support one; empty means silent.
func NewSink(sound string) *Sink {
	return &Sink{
		sound:    sound,
		lookPath: exec.LookPath,
		run:      runCommand,
		fallback: beeep.Notify,
	}
}

func runCommand(ctx context.Context, name string, args ...string) error {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		if trimmed := strings.TrimSpace(string(out)); trimmed != "" {
			return fmt.Errorf("%w: %s", err, trimmed)
		}
		return err
	}
	return nil
}

func (s *Sink) Notify(ctx context.Context, p notify.Payload) error {
	if bin, err := s.lookPath(notifierBinary); err == nil {
		if err := s.run(ctx, bin, s.notifierArgs(p)...); err != nil {
			return fmt.Errorf("desktop: terminal-notifier: %w", err)
		}
		return nil
	}

	// beeep has no subtitle concept; fold it into the message.
	message := p.Body
	if p.Subtitle != "" {
		message = p.Subtitle + "\n" + p.Body
	}
	if err := s.fallback(p.Title, message, ""); err != nil {
		return fmt.Errorf("desktop: notify: %w", err)
	}
	return nil
}

func (s *Sink) notifierArgs(p notify.Payload) []string {
	args := []string{"-title", p.Title, "-message", p.Body}
	if p.Subtitle != "" {
		args = append(args, "-subtitle", p.Subtitle)
	}
	if p.OpenURL != "" {
		args = append(args, "-open", p.OpenURL)
	}
	if s.sound != "" {
		args = append(args, "-sound", s.sound)
	}
	return args
}
