package weibo

import (
	"context"
	"log/slog"
)

// GetHotSearch returns up to limit entries of the realtime hot search list,
// ranked from 1 in list order.
func (c *Client) GetHotSearch(ctx context.Context, limit int) []HotSearchEntry {
	entries := make([]HotSearchEntry, 0)
	if limit <= 0 {
		return entries
	}

	resp, err := c.getContainer(ctx, endpointHotSearch, hotSearchURL)
	if err != nil {
		slog.Warn("weibo: get hot search failed", slog.Any("error", err))
		return entries
	}

	// The list may be preceded by unrelated cards; take the first group.
	group := firstGroup(decodeCards(resp.Data.Value.Cards))
	if group == nil {
		slog.Debug("weibo: hot search has no card group", slog.Int("cards", len(resp.Data.Value.Cards)))
		return entries
	}

	for _, item := range decodeCards(group.CardGroup) {
		entry, ok := parseHotEntry(item, len(entries)+1)
		if !ok {
			continue
		}
		entries = append(entries, entry)
		if len(entries) >= limit {
			break
		}
	}
	return entries
}
