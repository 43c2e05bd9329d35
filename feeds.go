package weibo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// GetFeeds fetches up to limit raw feed cards of a user, newest first.
//
// Pages are followed by since_id until the limit is reached, a page comes
// back empty, the cursor runs out or repeats, or a request fails. Whatever
// was collected before a failure is returned.
func (c *Client) GetFeeds(ctx context.Context, uid int64, limit int) []FeedEntry {
	feeds := make([]FeedEntry, 0)
	if limit <= 0 {
		return feeds
	}

	containerID, err := c.resolveContainerID(ctx, uid)
	if err != nil {
		if errors.Is(err, errNoFeedTab) {
			slog.Info("weibo: user has no feed tab", slog.Int64("uid", uid))
		} else {
			slog.Warn("weibo: resolve feed container failed", slog.Int64("uid", uid), slog.Any("error", err))
		}
		return feeds
	}

	var cursor string
	consumed := map[string]bool{cursor: true}

	for len(feeds) < limit {
		select {
		case <-ctx.Done():
			slog.Warn("weibo: get feeds cancelled", slog.Int64("uid", uid), slog.Int("collected", len(feeds)))
			return feeds
		default:
		}

		page, err := c.fetchFeedPage(ctx, uid, containerID, cursor)
		if err != nil {
			slog.Warn("weibo: feed page failed",
				slog.Int64("uid", uid),
				slog.String("since_id", cursor),
				slog.Int("collected", len(feeds)),
				slog.Any("error", err))
			break
		}
		if len(page.Items) == 0 {
			break
		}
		feeds = append(feeds, page.Items...)

		if page.Cursor == "" {
			break
		}
		if consumed[page.Cursor] {
			slog.Warn("weibo: feed cursor repeated, stopping", slog.Int64("uid", uid), slog.String("since_id", page.Cursor))
			break
		}
		consumed[page.Cursor] = true
		cursor = page.Cursor
	}

	if len(feeds) > limit {
		feeds = feeds[:limit]
	}
	return feeds
}

// fetchFeedPage fetches one page of a user's feed.
func (c *Client) fetchFeedPage(ctx context.Context, uid int64, containerID, sinceID string) (*FeedPage, error) {
	url := renderURL(feedsURL, map[string]string{
		"userId":      strconv.FormatInt(uid, 10),
		"containerId": containerID,
		"sinceId":     sinceID,
	})
	resp, err := c.getContainer(ctx, endpointFeeds, url)
	if err != nil {
		return nil, fmt.Errorf("feed page: %w", err)
	}
	return &FeedPage{
		Cursor: feedCursor(resp.Data.Value.CardlistInfo.Value.SinceID),
		Items:  []FeedEntry(resp.Data.Value.Cards),
	}, nil
}

// feedCursor normalizes since_id. The last page reports 0 or false instead
// of omitting it; both mean there is no next page.
func feedCursor(sinceID flexString) string {
	switch s := strings.TrimSpace(string(sinceID)); s {
	case "0", "false":
		return ""
	default:
		return s
	}
}
