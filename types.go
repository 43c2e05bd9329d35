package weibo

import "encoding/json"

// UserProfile is the userInfo node of a profile response, kept verbatim.
type UserProfile map[string]any

// FeedEntry is one raw card from a user's feed, kept verbatim.
type FeedEntry = json.RawMessage

// FeedPage is one page of a user's feed.
type FeedPage struct {
	Cursor string      // since_id for the next page; empty when exhausted
	Items  []FeedEntry // raw cards
}

// SearchResultUser is a user matched by SearchUsers.
type SearchResultUser struct {
	ID          int64  `json:"id"`
	NickName    string `json:"nickName"`
	AvatarHD    string `json:"avatarHD"`
	Description string `json:"description"`
}

// HotSearchEntry is one ranked trending topic.
type HotSearchEntry struct {
	Keyword  string `json:"keyword"`
	Rank     int    `json:"rank"`
	HotValue int64  `json:"hotValue"`
	Tag      string `json:"tag,omitempty"` // e.g. "hot", "new"; from the icon filename
	URL      string `json:"url,omitempty"`
}

// ContentPost is a post matched by SearchContent.
type ContentPost struct {
	ID             string     `json:"id"`
	Text           string     `json:"text"`
	CreatedAt      string     `json:"created_at"`
	RepostsCount   int64      `json:"reposts_count"`
	CommentsCount  int64      `json:"comments_count"`
	AttitudesCount int64      `json:"attitudes_count"`
	Author         PostAuthor `json:"user"`
	Pics           []string   `json:"pics,omitempty"`
	VideoURL       string     `json:"video_url,omitempty"`
}

// PostAuthor is the author summary embedded in a ContentPost.
type PostAuthor struct {
	ID              int64  `json:"id"`
	ScreenName      string `json:"screen_name"`
	ProfileImageURL string `json:"profile_image_url"`
	Verified        bool   `json:"verified"`
}
