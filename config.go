package weibo

import (
	"time"

	"github.com/anatolykoptev/go-stealth/ratelimit"
)

// ClientConfig holds all configuration for the Weibo client.
type ClientConfig struct {
	// Proxy is the upstream proxy URL for the stealth HTTP client.
	Proxy string

	// ProfileIndex selects the browser fingerprint from stealth.BuiltinProfiles.
	ProfileIndex int

	// RateLimit configures local per-endpoint request pacing.
	RateLimit ratelimit.Config

	// RetryAfterDefault is how long an endpoint stays blocked locally after the
	// server throttles it without a usable Retry-After header.
	RetryAfterDefault time.Duration

	// DisableJitter turns off the random delay before each request.
	DisableJitter bool

	// MetricsHook is called on each API request for external metrics collection.
	// endpoint is the operation name, success and rateLimited indicate the outcome.
	MetricsHook func(endpoint string, success, rateLimited bool)

	// Fetcher replaces the stealth transport. When set, Proxy, ProfileIndex,
	// RateLimit, RetryAfterDefault and DisableJitter are ignored.
	Fetcher Fetcher
}

// defaults fills in zero-value config fields with sensible defaults.
func (cfg *ClientConfig) defaults() {
	if cfg.RateLimit.RequestsPerWindow == 0 {
		cfg.RateLimit = ratelimit.DefaultConfig
	}
	if cfg.RetryAfterDefault == 0 {
		cfg.RetryAfterDefault = 10 * time.Minute
	}
	if cfg.ProfileIndex < 0 {
		cfg.ProfileIndex = 0
	}
}
