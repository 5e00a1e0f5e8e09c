// Package email delivers notifications over SMTP, for headless machines
// where a desktop notification has nowhere to land. Each payload becomes one
// message with a plain-text part and a markdown-rendered HTML part.
package email

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"strings"

	mail "github.com/wneessen/go-mail"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/bakkerme/gh-notifier/internal/notify"
)

// TLSMode determines how the SMTP client should negotiate TLS.
type TLSMode string

const (
	// TLSModeAuto uses port-based defaults (implicit TLS on 465, STARTTLS otherwise).
	TLSModeAuto TLSMode = "auto"
	// TLSModeDisabled forces cleartext SMTP.
	TLSModeDisabled TLSMode = "disabled"
	// TLSModeStartTLS requires STARTTLS on the SMTP connection.
	TLSModeStartTLS TLSMode = "starttls"
	// TLSModeImplicit uses implicit TLS (SMTPS), typically on port 465.
	TLSModeImplicit TLSMode = "implicit"
)

// Config carries SMTP connection and addressing settings. TLSMode is
// optional; when empty, port-based defaults apply.
type Config struct {
	To                 string
	From               string
	Subject            string
	Host               string
	Port               int
	Username           string
	Password           string
	TLSMode            string
	InsecureSkipVerify bool
}

// Sink sends one email per payload.
type Sink struct {
	cfg     Config
	tlsMode TLSMode
	md      goldmark.Markdown

	send func(ctx context.Context, m *mail.Msg) error
}

func NewSink(cfg Config) (*Sink, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("email: smtp host is required")
	}
	if cfg.Port <= 0 {
		cfg.Port = 587
	}
	if cfg.From == "" {
		cfg.From = cfg.Username
	}

	mode, err := parseTLSMode(cfg.TLSMode)
	if err != nil {
		return nil, fmt.Errorf("email: %w", err)
	}
	if mode == TLSModeAuto {
		if cfg.Port == 465 {
			mode = TLSModeImplicit
		} else {
			mode = TLSModeStartTLS
		}
	}

	s := &Sink{
		cfg:     cfg,
		tlsMode: mode,
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		),
	}
	s.send = s.dialAndSend
	return s, nil
}

func (s *Sink) Notify(ctx context.Context, p notify.Payload) error {
	html, err := renderHTML(s.md, p)
	if err != nil {
		return fmt.Errorf("email: render body: %w", err)
	}

	m := mail.NewMsg()
	if err := m.From(s.cfg.From); err != nil {
		return fmt.Errorf("email: invalid from address %q: %w", s.cfg.From, err)
	}
	if err := m.ToFromString(s.cfg.To); err != nil {
		return fmt.Errorf("email: invalid to address(es) %q: %w", s.cfg.To, err)
	}
	m.Subject(s.subjectFor(p))
	m.SetBodyString(mail.TypeTextPlain, renderText(p))
	m.AddAlternativeString(mail.TypeTextHTML, html)
	if err := m.EnvelopeFrom(s.cfg.From); err != nil {
		return fmt.Errorf("email: invalid envelope from address %q: %w", s.cfg.From, err)
	}

	if err := s.send(ctx, m); err != nil {
		return fmt.Errorf("email: %w", err)
	}
	return nil
}

func (s *Sink) subjectFor(p notify.Payload) string {
	if s.cfg.Subject != "" {
		return s.cfg.Subject
	}
	if p.Subtitle != "" {
		return p.Title + ": " + p.Subtitle
	}
	return p.Title
}

func (s *Sink) dialAndSend(ctx context.Context, m *mail.Msg) error {
	opts := []mail.Option{
		mail.WithPort(s.cfg.Port),
		// Allow self-signed certs only when explicitly configured.
		mail.WithTLSConfig(&tls.Config{
			ServerName:         s.cfg.Host,
			MinVersion:         tls.VersionTLS12,
			InsecureSkipVerify: s.cfg.InsecureSkipVerify,
		}),
	}

	switch s.tlsMode {
	case TLSModeDisabled:
		opts = append(opts, mail.WithTLSPortPolicy(mail.NoTLS))
	case TLSModeStartTLS:
		opts = append(opts, mail.WithTLSPortPolicy(mail.TLSMandatory))
	case TLSModeImplicit:
		opts = append(opts, mail.WithSSL())
	}

	if s.cfg.Username != "" {
		opts = append(opts,
			mail.WithUsername(s.cfg.Username),
			mail.WithPassword(s.cfg.Password),
			mail.WithSMTPAuth(mail.SMTPAuthAutoDiscover),
		)
	}

	client, err := mail.NewClient(s.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("create smtp client: %w", err)
	}
	return client.DialAndSendWithContext(ctx, m)
}

func renderMarkdown(p notify.Payload) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s**\n", p.Body)
	if p.Subtitle != "" {
		fmt.Fprintf(&b, "\n_%s_\n", p.Subtitle)
	}
	if p.OpenURL != "" {
		fmt.Fprintf(&b, "\n[Open on GitHub](%s)\n", p.OpenURL)
	}
	return b.String()
}

func renderHTML(md goldmark.Markdown, p notify.Payload) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(renderMarkdown(p)), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func renderText(p notify.Payload) string {
	lines := []string{p.Body}
	if p.Subtitle != "" {
		lines = append(lines, p.Subtitle)
	}
	if p.OpenURL != "" {
		lines = append(lines, p.OpenURL)
	}
	return strings.Join(lines, "\n")
}

// parseTLSMode normalizes the TLS mode string and validates supported values.
func parseTLSMode(mode string) (TLSMode, error) {
	normalized := strings.TrimSpace(strings.ToLower(mode))
	if normalized == "" || normalized == string(TLSModeAuto) {
		return TLSModeAuto, nil
	}
	switch normalized {
	case "disabled", "off", "none":
		return TLSModeDisabled, nil
	case "starttls", "start_tls":
		return TLSModeStartTLS, nil
	case "implicit", "smtptls", "smtp_tls":
		return TLSModeImplicit, nil
	default:
		return "", fmt.Errorf("invalid smtp tls mode %q (expected: auto, disabled/off/none, starttls/start_tls, implicit/smtptls/smtp_tls)", mode)
	}
}
