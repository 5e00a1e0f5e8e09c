package config

import (
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// EnvToken is the environment variable the GitHub token is read from. The
// token never appears in the notifier document; env is the only channel.
const EnvToken = "GH_NOTIFIER_TOKEN"

type EnvConfig struct {
	Token         string
	ConfigPath    string
	StateFile     string
	FeedURL       string
	HTTPTimeout   time.Duration
	UserAgent     string
	RetryAttempts int
	SMTP          SMTPEnvConfig
	OTel          OTelEnvConfig
}

type SMTPEnvConfig struct {
	Host               string
	Port               int
	User               string
	Password           string
	TLSMode            string
	InsecureSkipVerify bool
}

type OTelEnvConfig struct {
	Enabled       bool
	ServiceName   string
	Endpoint      string
	Protocol      string // "grpc" or "http/protobuf"
	Headers       map[string]string
	Insecure      bool
	SampleRatio   float64
	CaptureBodies bool
	MaxBodyBytes  int
}

func LoadEnv() EnvConfig {
	otlpEndpoint := strings.TrimSpace(envString("OTEL_EXPORTER_OTLP_ENDPOINT", ""))

	return EnvConfig{
		Token:         strings.TrimSpace(os.Getenv(EnvToken)),
		ConfigPath:    envString("GH_NOTIFIER_CONFIG", ""),
		StateFile:     envString("GH_NOTIFIER_STATE_FILE", ""),
		FeedURL:       envString("GH_NOTIFIER_FEED_URL", ""),
		HTTPTimeout:   envDuration("GH_NOTIFIER_HTTP_TIMEOUT", 10*time.Second),
		UserAgent:     envString("GH_NOTIFIER_USER_AGENT", "gh-notifier/0.1"),
		RetryAttempts: envInt("GH_NOTIFIER_RETRY_ATTEMPTS", 1),
		SMTP: SMTPEnvConfig{
			Host:               envString("SMTP_HOST", ""),
			Port:               envInt("SMTP_PORT", 587),
			User:               envString("SMTP_USER", ""),
			Password:           envString("SMTP_PASSWORD", ""),
			TLSMode:            envString("SMTP_TLS_MODE", ""),
			InsecureSkipVerify: envBool("SMTP_INSECURE_SKIP_VERIFY", false),
		},
		OTel: OTelEnvConfig{
			Enabled:       envBool("OTEL_ENABLED", false),
			ServiceName:   strings.TrimSpace(envString("OTEL_SERVICE_NAME", "gh-notifier")),
			Endpoint:      otlpEndpoint,
			Protocol:      strings.ToLower(strings.TrimSpace(envString("OTEL_EXPORTER_OTLP_PROTOCOL", "grpc"))),
			Headers:       parseHeaders(envString("OTEL_EXPORTER_OTLP_HEADERS", "")),
			Insecure:      envBool("OTEL_EXPORTER_OTLP_INSECURE", defaultInsecure(otlpEndpoint)),
			SampleRatio:   clamp01(envFloat("OTEL_TRACES_SAMPLE_RATIO", 1.0)),
			CaptureBodies: envBool("OTEL_CAPTURE_FEED_BODIES", false),
			MaxBodyBytes:  envInt("OTEL_FEED_MAX_BODY_BYTES", 64*1024),
		},
	}
}

func envString(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}

func envInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}

func envFloat(key string, fallback float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := parseDurationExtended(v)
	if err != nil {
		return fallback
	}
	return d
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func parseHeaders(raw string) map[string]string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	out := map[string]string{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		k, v, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		k = strings.TrimSpace(k)
		v = strings.TrimSpace(v)
		if k == "" || v == "" {
			continue
		}
		out[k] = v
	}
	return out
}

func defaultInsecure(endpoint string) bool {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return true
	}
	if strings.Contains(endpoint, "://") {
		u, err := url.Parse(endpoint)
		if err != nil {
			return false
		}
		return u.Scheme == "http"
	}
	return strings.HasPrefix(endpoint, "localhost:") ||
		strings.HasPrefix(endpoint, "127.0.0.1:") ||
		strings.HasPrefix(endpoint, "0.0.0.0:")
}
