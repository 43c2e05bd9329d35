package weibo

import (
	"context"
	"log/slog"
)

// userResultCard is the position of the user result card in a user search
// response; the cards before it are search chrome.
const userResultCard = 1

// SearchUsers searches users by keyword and returns at most limit matches.
func (c *Client) SearchUsers(ctx context.Context, keyword string, limit int) []SearchResultUser {
	users := make([]SearchResultUser, 0)
	if limit <= 0 {
		return users
	}

	resp, err := c.getContainer(ctx, endpointSearchUsers, userSearchURL(keyword))
	if err != nil {
		slog.Warn("weibo: search users failed", slog.String("keyword", keyword), slog.Any("error", err))
		return users
	}

	if len(resp.Data.Value.Cards) <= userResultCard {
		slog.Debug("weibo: no user result card", slog.String("keyword", keyword), slog.Int("cards", len(resp.Data.Value.Cards)))
		return users
	}
	group := decodeCards(resp.Data.Value.Cards[userResultCard : userResultCard+1])
	if len(group) == 0 {
		return users
	}

	for _, item := range decodeCards(group[0].CardGroup) {
		u, ok := parseSearchUser(&item.User.Value)
		if !ok {
			continue
		}
		users = append(users, u)
		if len(users) >= limit {
			break
		}
	}
	return users
}
