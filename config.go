package newsbot

import (
	"time"

	"github.com/anatolykoptev/go-stealth/ratelimit"
	"github.com/anatolykoptev/go-newsbot/oauth1"
)

// ClientConfig holds all configuration for the publishing client.
type ClientConfig struct {
	// Credentials are the consumer key/secret and access token/secret.
	Credentials oauth1.Credentials

	// Endpoint overrides the create-post URL.
	// Default: https://api.x.com/2/tweets
	Endpoint string

	// Proxy is an optional proxy URL for outbound calls.
	Proxy string

	// ProfileIndex selects the built-in browser profile that supplies the
	// TLS fingerprint and User-Agent.
	ProfileIndex int

	// PublishTimeout bounds the single publish attempt.
	PublishTimeout time.Duration

	// Jitter enables a short anti-fingerprint sleep before publishing.
	Jitter bool

	// RateLimit configures the local per-endpoint publish gate.
	RateLimit ratelimit.Config

	// MetricsHook is called on each API request for external metrics collection.
	// endpoint is the operation name, success and rateLimited indicate the outcome.
	MetricsHook func(endpoint string, success, rateLimited bool)
}

// defaults fills in zero-value config fields with sensible defaults.
func (cfg *ClientConfig) defaults() {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.PublishTimeout == 0 {
		cfg.PublishTimeout = 20 * time.Second
	}
	if cfg.RateLimit.RequestsPerWindow == 0 {
		cfg.RateLimit = ratelimit.DefaultConfig
	}
}

// RunnerConfig holds the pipeline settings of one bot.
type RunnerConfig struct {
	// Topics maps categories to feeds and style assets.
	Topics Topics

	// Category forces a category; empty picks one at random per run.
	Category string

	// DryRun composes the post but does not publish it.
	DryRun bool

	// MaxTitleLen skips headlines longer than this many runes after
	// normalization. Default: 140
	MaxTitleLen int
}

func (cfg *RunnerConfig) defaults() {
	if cfg.MaxTitleLen == 0 {
		cfg.MaxTitleLen = 140
	}
}
