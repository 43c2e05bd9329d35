package weibo

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// Failure kinds. Public operations never return these; they are logged and
// reported through MetricsHook, and tests use them to tell failure from
// exhaustion.
var (
	// ErrTransport covers network errors and non-200 responses.
	ErrTransport = errors.New("weibo: transport failure")
	// ErrShape means an expected JSON node was absent or malformed.
	ErrShape = errors.New("weibo: unexpected response shape")
	// ErrRateLimited means the local limiter refused the request or the
	// server answered with a throttling status.
	ErrRateLimited = errors.New("weibo: rate limited")

	errNoFeedTab = errors.New("weibo: profile has no weibo tab")
)

// errorClass categorizes HTTP responses from m.weibo.cn.
type errorClass int

const (
	errNone      errorClass = iota
	errThrottled            // 418, 429 — request frequency too high
	errForbidden            // 401, 403 — visitor cookie rejected or login wall
	errNotFound             // 404
	errServer               // 5xx
	errUnexpected           // any other non-200 status
)

// classifyStatus maps an HTTP status code to an errorClass.
func classifyStatus(status int) errorClass {
	switch {
	case status == 200:
		return errNone
	case status == 418 || status == 429:
		return errThrottled
	case status == 401 || status == 403:
		return errForbidden
	case status == 404:
		return errNotFound
	case status >= 500 && status < 600:
		return errServer
	}
	return errUnexpected
}

func (c errorClass) String() string {
	switch c {
	case errNone:
		return "none"
	case errThrottled:
		return "throttled"
	case errForbidden:
		return "forbidden"
	case errNotFound:
		return "not_found"
	case errServer:
		return "server"
	}
	return "unexpected"
}

// parseRetryAfter parses a Retry-After header given in seconds.
// Falls back to now+fallback if missing or invalid.
func parseRetryAfter(v string, fallback time.Duration) time.Time {
	if secs, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && secs > 0 {
		return time.Now().Add(time.Duration(secs) * time.Second)
	}
	return time.Now().Add(fallback)
}
