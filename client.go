package weibo

import (
	"fmt"

	stealth "github.com/anatolykoptev/go-stealth"
	"github.com/anatolykoptev/go-stealth/ratelimit"
)

// Client is the top-level Weibo extraction client.
//
// A Client holds no per-call state; every operation starts from a fresh
// cursor or page and may be called concurrently.
type Client struct {
	fetcher Fetcher
	cfg     ClientConfig
}

// NewClient creates a Weibo client. Without cfg.Fetcher it builds a
// browser-fingerprinted stealth transport.
func NewClient(cfg ClientConfig) (*Client, error) {
	cfg.defaults()

	if cfg.Fetcher != nil {
		return &Client{fetcher: cfg.Fetcher, cfg: cfg}, nil
	}

	profile := stealth.BuiltinProfiles[cfg.ProfileIndex%len(stealth.BuiltinProfiles)]
	opts := []stealth.ClientOption{
		stealth.WithProfile(profile.TLSProfile),
		stealth.WithHeaderOrder(weiboHeaderOrder),
	}
	if cfg.Proxy != "" {
		opts = append(opts, stealth.WithProxy(cfg.Proxy))
	}
	bc, err := stealth.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("stealth client: %w", err)
	}

	return &Client{
		fetcher: &stealthFetcher{
			client:     bc,
			limiter:    ratelimit.NewLimiter(cfg.RateLimit),
			userAgent:  profile.UserAgent,
			jitter:     !cfg.DisableJitter,
			retryAfter: cfg.RetryAfterDefault,
		},
		cfg: cfg,
	}, nil
}

// recordAPICall calls the metrics hook if configured.
func (c *Client) recordAPICall(endpoint string, success, rateLimited bool) {
	if c.cfg.MetricsHook != nil {
		c.cfg.MetricsHook(endpoint, success, rateLimited)
	}
}
