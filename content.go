package weibo

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
)

// lastPageMarker is the cardlistInfo.page value after which paging stops.
const lastPageMarker = 1

// SearchContent searches posts by keyword starting at page, returning at most
// limit posts. A page below 1 is treated as 1.
//
// Paging continues while the response carries a cardlistInfo.page other than
// 1. In practice the API often reports 1 on the first page too, so a search
// frequently stops after one page.
func (c *Client) SearchContent(ctx context.Context, keyword string, limit, page int) []ContentPost {
	posts := make([]ContentPost, 0)
	if limit <= 0 {
		return posts
	}
	if page < 1 {
		page = 1
	}
	escaped := queryEscape(keyword)

	for len(posts) < limit {
		select {
		case <-ctx.Done():
			slog.Warn("weibo: search content cancelled", slog.String("keyword", keyword), slog.Int("collected", len(posts)))
			return posts
		default:
		}

		url := renderURL(searchContentURL, map[string]string{
			"keyword": escaped,
			"page":    strconv.Itoa(page),
		})
		resp, err := c.getContainer(ctx, endpointSearchContent, url)
		if err != nil {
			slog.Warn("weibo: search content page failed",
				slog.String("keyword", keyword),
				slog.Int("page", page),
				slog.Int("collected", len(posts)),
				slog.Any("error", err))
			break
		}

		candidates := postCards(decodeCards(resp.Data.Value.Cards))
		if len(candidates) == 0 {
			break
		}
		for _, cand := range candidates {
			post, ok := parseContentPost(&cand.Mblog.Value)
			if !ok {
				slog.Debug("skip post card without mblog", slog.Int("page", page))
				continue
			}
			posts = append(posts, post)
			if len(posts) >= limit {
				break
			}
		}

		page++
		if !hasMorePages(resp.Data.Value.CardlistInfo.Value.Page) {
			break
		}
	}

	if len(posts) > limit {
		posts = posts[:limit]
	}
	return posts
}

// hasMorePages reports whether cardlistInfo.page is present and not the
// last-page marker.
func hasMorePages(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return false
	}
	var s flexString
	if err := json.Unmarshal(raw, &s); err != nil || s == "" {
		return false
	}
	p, err := strconv.ParseInt(string(s), 10, 64)
	if err != nil {
		return false
	}
	return p != lastPageMarker
}
