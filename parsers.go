package weibo

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/url"
	"path"
	"sort"
	"strconv"
	"strings"
)

// contentCardType is the card_type of cards that carry a post (mblog).
const contentCardType = 9

// feedTabKey marks the post-feed tab in a profile's tab list.
const feedTabKey = "weibo"

// --- Response types ---

// containerResponse is the envelope of every container/getIndex response.
// Only the nodes the extractors read are declared; all are optional.
type containerResponse struct {
	OK   flexInt                   `json:"ok"`
	Msg  flexString                `json:"msg"`
	Data flexObject[containerData] `json:"data"`
}

type containerData struct {
	UserInfo     json.RawMessage           `json:"userInfo"`
	TabsInfo     flexObject[tabsInfo]      `json:"tabsInfo"`
	CardlistInfo flexObject[cardlistInfo]  `json:"cardlistInfo"`
	Cards        flexList[json.RawMessage] `json:"cards"`
}

type tabsInfo struct {
	Tabs flexList[profileTab] `json:"tabs"`
}

type profileTab struct {
	TabKey      flexString `json:"tabKey"`
	ContainerID flexString `json:"containerid"`
}

type cardlistInfo struct {
	SinceID flexString      `json:"since_id"`
	Page    json.RawMessage `json:"page"`
}

type card struct {
	CardType  flexInt                   `json:"card_type"`
	CardGroup flexList[json.RawMessage] `json:"card_group"`
	Mblog     flexObject[mblog]         `json:"mblog"`
	User      flexObject[searchUser]    `json:"user"`

	// hot search entries
	Desc     flexString      `json:"desc"`
	DescExtr json.RawMessage `json:"desc_extr"`
	Icon     flexString      `json:"icon"`
	Scheme   flexString      `json:"scheme"`
}

type searchUser struct {
	ID          flexInt    `json:"id"`
	ScreenName  flexString `json:"screen_name"`
	AvatarHD    flexString `json:"avatar_hd"`
	Description flexString `json:"description"`
}

type mblog struct {
	ID             flexString            `json:"id"`
	Text           flexString            `json:"text"`
	CreatedAt      flexString            `json:"created_at"`
	RepostsCount   flexInt               `json:"reposts_count"`
	CommentsCount  flexInt               `json:"comments_count"`
	AttitudesCount flexInt               `json:"attitudes_count"`
	Pics           json.RawMessage       `json:"pics"`
	User           flexObject[mblogUser] `json:"user"`
	PageInfo       flexObject[pageInfo]  `json:"page_info"`
}

type mblogUser struct {
	ID              flexInt    `json:"id"`
	ScreenName      flexString `json:"screen_name"`
	ProfileImageURL flexString `json:"profile_image_url"`
	Verified        flexBool   `json:"verified"`
}

type pageInfo struct {
	MediaInfo flexObject[mediaInfo] `json:"media_info"`
	URLs      flexObject[videoURLs] `json:"urls"`
}

type mediaInfo struct {
	StreamURL flexString `json:"stream_url"`
}

type videoURLs struct {
	MP4720p flexString `json:"mp4_720p_mp4"`
	MP4HD   flexString `json:"mp4_hd_mp4"`
	MP4LD   flexString `json:"mp4_ld_mp4"`
}

// --- Card classification ---

// cardKind is the classification of a raw card.
type cardKind int

const (
	cardOther cardKind = iota // UI chrome: banners, ads, recommendations
	cardPost                  // carries one post in mblog
	cardGroup                 // holds nested cards in card_group
)

func (k cardKind) String() string {
	switch k {
	case cardPost:
		return "post"
	case cardGroup:
		return "group"
	}
	return "other"
}

// kind classifies a card. Every extractor discriminates cards through this.
func (c *card) kind() cardKind {
	switch {
	case int64(c.CardType) == contentCardType:
		return cardPost
	case len(c.CardGroup) > 0:
		return cardGroup
	}
	return cardOther
}

// decodeCards decodes raw cards, skipping any that are not JSON objects.
func decodeCards(raws []json.RawMessage) []*card {
	cards := make([]*card, 0, len(raws))
	for i, raw := range raws {
		var c card
		if err := json.Unmarshal(raw, &c); err != nil {
			slog.Debug("skip undecodable card", slog.Int("index", i), slog.Any("error", err))
			continue
		}
		cards = append(cards, &c)
	}
	return cards
}

// firstGroup returns the first card classified as a group, or nil.
func firstGroup(cards []*card) *card {
	for _, c := range cards {
		if c.kind() == cardGroup {
			return c
		}
	}
	return nil
}

// postCards returns all top-level post cards, then all post cards nested in
// groups. A nested post therefore follows every top-level post even when its
// group comes first in the list.
func postCards(cards []*card) []*card {
	var top, nested []*card
	for i, c := range cards {
		switch k := c.kind(); k {
		case cardPost:
			top = append(top, c)
		case cardGroup:
			for _, inner := range decodeCards(c.CardGroup) {
				if inner.kind() == cardPost {
					nested = append(nested, inner)
				}
			}
		default:
			slog.Debug("skip card", slog.Int("index", i), slog.String("kind", k.String()))
		}
	}
	return append(top, nested...)
}

// --- Extraction helpers ---

// parseUserInfo returns the userInfo node as a map.
func parseUserInfo(resp *containerResponse) (UserProfile, error) {
	raw := bytes.TrimSpace(resp.Data.Value.UserInfo)
	if len(raw) == 0 || raw[0] != '{' {
		return nil, fmt.Errorf("data.userInfo missing: %w", ErrShape)
	}
	var profile UserProfile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return nil, fmt.Errorf("data.userInfo: %w: %w", ErrShape, err)
	}
	return profile, nil
}

// feedContainerID returns the containerid of the post-feed tab.
func feedContainerID(resp *containerResponse) (string, error) {
	for _, tab := range resp.Data.Value.TabsInfo.Value.Tabs {
		if string(tab.TabKey) == feedTabKey && tab.ContainerID != "" {
			return string(tab.ContainerID), nil
		}
	}
	return "", errNoFeedTab
}

// parseSearchUser converts a user-search item. Items without an id are skipped.
func parseSearchUser(u *searchUser) (SearchResultUser, bool) {
	if u == nil || u.ID == 0 {
		return SearchResultUser{}, false
	}
	return SearchResultUser{
		ID:          int64(u.ID),
		NickName:    string(u.ScreenName),
		AvatarHD:    string(u.AvatarHD),
		Description: string(u.Description),
	}, true
}

// parseHotEntry converts one hot search item at the given rank. Items without
// a keyword are skipped.
func parseHotEntry(c *card, rank int) (HotSearchEntry, bool) {
	keyword := strings.TrimSpace(string(c.Desc))
	if keyword == "" {
		return HotSearchEntry{}, false
	}
	return HotSearchEntry{
		Keyword:  keyword,
		Rank:     rank,
		HotValue: parseHotValue(c.DescExtr),
		Tag:      iconTag(string(c.Icon)),
		URL:      string(c.Scheme),
	}, true
}

// parseContentPost converts an mblog. Posts without an id are skipped.
func parseContentPost(m *mblog) (ContentPost, bool) {
	if m == nil || m.ID == "" {
		return ContentPost{}, false
	}
	return ContentPost{
		ID:             string(m.ID),
		Text:           string(m.Text),
		CreatedAt:      string(m.CreatedAt),
		RepostsCount:   int64(m.RepostsCount),
		CommentsCount:  int64(m.CommentsCount),
		AttitudesCount: int64(m.AttitudesCount),
		Author: PostAuthor{
			ID:              int64(m.User.Value.ID),
			ScreenName:      string(m.User.Value.ScreenName),
			ProfileImageURL: string(m.User.Value.ProfileImageURL),
			Verified:        bool(m.User.Value.Verified),
		},
		Pics:     picURLs(m.Pics),
		VideoURL: videoURL(m),
	}, true
}

// picURLs reads pics[].url. The API sends pics either as a list or as an
// object keyed by position; both are accepted. Returns nil when empty.
func picURLs(raw json.RawMessage) []string {
	type pic struct {
		URL flexString `json:"url"`
	}
	var list []pic
	if err := json.Unmarshal(raw, &list); err != nil {
		var byKey map[string]pic
		if json.Unmarshal(raw, &byKey) != nil {
			return nil
		}
		keys := make([]string, 0, len(byKey))
		for k := range byKey {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			a, errA := strconv.Atoi(keys[i])
			b, errB := strconv.Atoi(keys[j])
			if errA == nil && errB == nil {
				return a < b
			}
			return keys[i] < keys[j]
		})
		for _, k := range keys {
			list = append(list, byKey[k])
		}
	}
	var urls []string
	for _, p := range list {
		if p.URL != "" {
			urls = append(urls, string(p.URL))
		}
	}
	return urls
}

// videoURL picks the first non-empty stream URL in priority order.
func videoURL(m *mblog) string {
	info := m.PageInfo.Value
	for _, u := range []flexString{
		info.MediaInfo.Value.StreamURL,
		info.URLs.Value.MP4720p,
		info.URLs.Value.MP4HD,
		info.URLs.Value.MP4LD,
	} {
		if u != "" {
			return string(u)
		}
	}
	return ""
}

// iconTag derives a tag from an icon URL: the file name without extension.
// "https://simg.s.weibo.com/moter/flags/1_0.png" -> "1_0".
func iconTag(icon string) string {
	icon = strings.TrimSpace(icon)
	if icon == "" {
		return ""
	}
	p := icon
	if u, err := url.Parse(icon); err == nil {
		p = u.Path
	}
	base := path.Base(p)
	if base == "." || base == "/" {
		return ""
	}
	return strings.TrimSuffix(base, path.Ext(base))
}

// parseHotValue reads the heat value from desc_extr, which may be a number
// or a string such as "1234567" or "剧集 53万". Strings yield their leading
// integer; anything else yields 0.
func parseHotValue(raw json.RawMessage) int64 {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0
	}
	if raw[0] == '"' {
		var s string
		if json.Unmarshal(raw, &s) != nil {
			return 0
		}
		return leadingInt(s)
	}
	var f float64
	if json.Unmarshal(raw, &f) != nil || math.IsNaN(f) {
		return 0
	}
	return int64(f)
}

// leadingInt parses an optional sign and the digits at the start of s,
// after leading whitespace. Returns 0 when there are none.
func leadingInt(s string) int64 {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return 0
	}
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// --- Flexible scalars ---

// flexString decodes a JSON string, or the literal text of a number or bool.
// Any other value decodes to "".
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		*s = ""
		return nil
	}
	switch b[0] {
	case '"':
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = flexString(v)
	case '{', '[', 'n':
		*s = ""
	default:
		*s = flexString(b)
	}
	return nil
}

// flexInt decodes a JSON number or a numeric string. Any other value decodes to 0.
type flexInt int64

func (n *flexInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	*n = 0
	if len(b) == 0 {
		return nil
	}
	text := string(b)
	if b[0] == '"' {
		if err := json.Unmarshal(b, &text); err != nil {
			return err
		}
		text = strings.TrimSpace(text)
	}
	if v, err := strconv.ParseInt(text, 10, 64); err == nil {
		*n = flexInt(v)
		return nil
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		*n = flexInt(f)
	}
	return nil
}

// flexBool decodes true/false, 0/1 and their string forms.
type flexBool bool

func (v *flexBool) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	*v = s == "true" || s == "1"
	return nil
}

// --- Flexible containers ---

// flexObject decodes a JSON object into T. Anything else (an empty list,
// a string, null) leaves Value zero and Present false. Fields of T that fail
// to decode keep their zero value instead of failing the whole response.
type flexObject[T any] struct {
	Value   T
	Present bool
}

func (o *flexObject[T]) UnmarshalJSON(b []byte) error {
	var zero T
	o.Value, o.Present = zero, false
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] != '{' {
		return nil
	}
	if err := json.Unmarshal(b, &o.Value); err != nil {
		slog.Debug("partial object decode", slog.Any("error", err))
	}
	o.Present = true
	return nil
}

// flexList decodes a JSON array, dropping elements that do not decode into T.
// A non-array decodes to an empty list.
type flexList[T any] []T

func (l *flexList[T]) UnmarshalJSON(b []byte) error {
	*l = nil
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] != '[' {
		return nil
	}
	var raws []json.RawMessage
	if err := json.Unmarshal(b, &raws); err != nil {
		return nil
	}
	out := make(flexList[T], 0, len(raws))
	for i, raw := range raws {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			slog.Debug("skip list element", slog.Int("index", i), slog.Any("error", err))
			continue
		}
		out = append(out, v)
	}
	*l = out
	return nil
}
