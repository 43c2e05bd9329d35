package weibo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	stealth "github.com/anatolykoptev/go-stealth"
	"github.com/anatolykoptev/go-stealth/ratelimit"
)

// Fetcher performs one blocking GET and returns the raw response body.
// endpoint is a short operation name used for rate limiting and logs.
// Implementations make exactly one attempt per call.
type Fetcher interface {
	Fetch(ctx context.Context, endpoint, url string, headers map[string]string) ([]byte, error)
}

// stealthFetcher is the default Fetcher backed by a fingerprinted browser client.
type stealthFetcher struct {
	client     *stealth.BrowserClient
	limiter    *ratelimit.Limiter
	userAgent  string
	jitter     bool
	retryAfter time.Duration
}

// Fetch implements Fetcher.
func (f *stealthFetcher) Fetch(ctx context.Context, endpoint, url string, headers map[string]string) ([]byte, error) {
	// Anti-fingerprint jitter
	if f.jitter {
		if err := stealth.DefaultJitter.Sleep(ctx); err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if !f.limiter.Allow(endpoint) {
		return nil, fmt.Errorf("%s blocked until %s: %w",
			endpoint, f.limiter.AvailableAt(endpoint).Format(time.RFC3339), ErrRateLimited)
	}

	body, respHdrs, status, err := f.client.DoWithHeaderOrderCtx(ctx, "GET", url, browserHeaders(headers, f.userAgent), nil, weiboHeaderOrder)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", endpoint, ErrTransport, err)
	}

	switch class := classifyStatus(status); class {
	case errNone:
		return body, nil
	case errThrottled:
		until := parseRetryAfter(respHdrs["retry-after"], f.retryAfter)
		f.limiter.MarkRateLimited(endpoint, until)
		slog.Warn("weibo throttled, endpoint blocked locally",
			slog.String("endpoint", endpoint),
			slog.Int("status", status),
			slog.Time("until", until))
		return nil, fmt.Errorf("%s HTTP %d: %w", endpoint, status, ErrRateLimited)
	default:
		return nil, fmt.Errorf("%s HTTP %d (%s): %w: %s", endpoint, status, class, ErrTransport, truncateBytes(body, 200))
	}
}

// getJSON fetches url and decodes the body into v.
// Transport errors wrap ErrTransport or ErrRateLimited; decode errors wrap ErrShape.
func (c *Client) getJSON(ctx context.Context, endpoint, url string, v any) error {
	body, err := c.fetcher.Fetch(ctx, endpoint, url, defaultHeaders())
	if err != nil {
		c.recordAPICall(endpoint, false, errors.Is(err, ErrRateLimited))
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		c.recordAPICall(endpoint, false, false)
		return fmt.Errorf("%s: %w: %w (body %s)", endpoint, ErrShape, err, truncateBytes(body, 200))
	}
	c.recordAPICall(endpoint, true, false)
	return nil
}

// getContainer fetches and decodes one container/getIndex response.
func (c *Client) getContainer(ctx context.Context, endpoint, url string) (*containerResponse, error) {
	var resp containerResponse
	if err := c.getJSON(ctx, endpoint, url, &resp); err != nil {
		return nil, err
	}
	if resp.OK != 1 {
		slog.Debug("weibo response not ok",
			slog.String("endpoint", endpoint),
			slog.Int64("ok", int64(resp.OK)),
			slog.String("msg", string(resp.Msg)))
	}
	return &resp, nil
}

// truncateBytes returns b as a string, cut to n bytes with a trailing "...".
func truncateBytes(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
