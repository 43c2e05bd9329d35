package weibo

import (
	"context"
	"log/slog"
	"strconv"
)

// GetProfile fetches the profile of a user. It returns an empty profile when
// the request fails or the response has no userInfo.
func (c *Client) GetProfile(ctx context.Context, uid int64) UserProfile {
	profile, err := c.fetchProfile(ctx, uid)
	if err != nil {
		slog.Warn("weibo: get profile failed", slog.Int64("uid", uid), slog.Any("error", err))
		return UserProfile{}
	}
	return profile
}

func (c *Client) fetchProfile(ctx context.Context, uid int64) (UserProfile, error) {
	resp, err := c.getContainer(ctx, endpointProfile, profileRequestURL(uid))
	if err != nil {
		return nil, err
	}
	return parseUserInfo(resp)
}

// resolveContainerID returns the containerid of the user's post feed.
// errNoFeedTab means the profile loaded but has no feed tab.
func (c *Client) resolveContainerID(ctx context.Context, uid int64) (string, error) {
	resp, err := c.getContainer(ctx, endpointProfile, profileRequestURL(uid))
	if err != nil {
		return "", err
	}
	return feedContainerID(resp)
}

func profileRequestURL(uid int64) string {
	return renderURL(profileURL, map[string]string{"userId": strconv.FormatInt(uid, 10)})
}
