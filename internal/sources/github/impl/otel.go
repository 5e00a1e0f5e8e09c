package impl

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/bakkerme/gh-notifier/internal/config"
)

// Option tweaks a Fetcher after construction.
type Option func(*Fetcher)

// WithTracing wraps the fetcher's transport so feed requests attach events to
// the active span. Body capture is opt-in via OTEL_CAPTURE_FEED_BODIES and is
// truncated at MaxBodyBytes.
func WithTracing(cfg config.OTelEnvConfig) Option {
	return func(f *Fetcher) {
		if !cfg.Enabled {
			return
		}
		f.client.Transport = &traceTransport{
			base:          f.client.Transport,
			captureBodies: cfg.CaptureBodies,
			maxBodyBytes:  cfg.MaxBodyBytes,
		}
	}
}

type traceTransport struct {
	base          http.RoundTripper
	captureBodies bool
	maxBodyBytes  int
}

func (t *traceTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}

	span := trace.SpanFromContext(req.Context())
	res, err := base.RoundTrip(req)
	if err != nil {
		return res, err
	}
	if res == nil || !span.IsRecording() {
		return res, nil
	}

	span.AddEvent("github.response.meta", trace.WithAttributes(
		attribute.String("http.method", req.Method),
		attribute.String("http.url", req.URL.String()),
		attribute.Int("http.status_code", res.StatusCode),
	))

	if t.captureBodies && res.Body != nil {
		res.Body = newCaptureReadCloser(res.Body, t.maxBodyBytes, func(body []byte, truncated bool) {
			span.AddEvent("github.response.body", trace.WithAttributes(
				attribute.Int("http.status_code", res.StatusCode),
				attribute.String("body", bytesToString(body)),
				attribute.Bool("truncated", truncated),
			))
		})
	}
	return res, nil
}

type captureReadCloser struct {
	rc          io.ReadCloser
	maxBytes    int
	buf         bytes.Buffer
	truncated   bool
	onCloseOnce sync.Once
	onClose     func([]byte, bool)
}

func newCaptureReadCloser(rc io.ReadCloser, maxBytes int, onClose func([]byte, bool)) io.ReadCloser {
	if rc == nil {
		return rc
	}
	return &captureReadCloser{rc: rc, maxBytes: maxBytes, onClose: onClose}
}

func (c *captureReadCloser) Read(p []byte) (int, error) {
	n, err := c.rc.Read(p)
	if n > 0 && c.maxBytes != 0 {
		remaining := c.maxBytes - c.buf.Len()
		if c.maxBytes < 0 {
			remaining = n
		}
		if remaining > 0 {
			if remaining >= n {
				_, _ = c.buf.Write(p[:n])
			} else {
				_, _ = c.buf.Write(p[:remaining])
				c.truncated = true
			}
		} else {
			c.truncated = true
		}
	}
	return n, err
}

func (c *captureReadCloser) Close() error {
	c.onCloseOnce.Do(func() {
		if c.onClose != nil {
			c.onClose(c.buf.Bytes(), c.truncated)
		}
	})
	return c.rc.Close()
}

func bytesToString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	// Attribute values must be valid UTF-8; invalid bytes are replaced.
	return strings.ToValidUTF8(string(b), "�")
}
