package weibo

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testUID         = int64(1669879400)
	testContainerID = "1076031669879400"
)

// feedPage builds a feed page body with n cards labelled prefix-0..n-1.
func feedPage(prefix string, n int, sinceID any) map[string]any {
	cards := make([]map[string]any, n)
	for i := range cards {
		cards[i] = map[string]any{"card_type": 9, "itemid": fmt.Sprintf("%s-%d", prefix, i)}
	}
	info := map[string]any{}
	if sinceID != nil {
		info["since_id"] = sinceID
	}
	return container(map[string]any{"cardlistInfo": info, "cards": cards})
}

func itemIDs(t *testing.T, feeds []FeedEntry) []string {
	t.Helper()
	ids := make([]string, 0, len(feeds))
	for _, raw := range feeds {
		var v struct {
			ItemID string `json:"itemid"`
		}
		require.NoError(t, json.Unmarshal(raw, &v))
		ids = append(ids, v.ItemID)
	}
	return ids
}

func TestGetFeeds_PaginatesUntilCursorEmpty(t *testing.T) {
	f := newFakeFetcher()
	f.set(profileRequestURL(testUID), profileBody)
	f.set(feedPageURL(testUID, testContainerID, ""), feedPage("p1", 2, "5001"))
	f.set(feedPageURL(testUID, testContainerID, "5001"), feedPage("p2", 2, 5002))
	f.set(feedPageURL(testUID, testContainerID, "5002"), feedPage("p3", 1, ""))
	c := newTestClient(t, f)

	feeds := c.GetFeeds(context.Background(), testUID, 100)

	assert.Equal(t, []string{"p1-0", "p1-1", "p2-0", "p2-1", "p3-0"}, itemIDs(t, feeds))
	assert.Equal(t, 4, f.callCount())
}

func TestGetFeeds_LastPageCursorStops(t *testing.T) {
	for _, sinceID := range []any{0, "0", false, " 0 "} {
		t.Run(fmt.Sprint(sinceID), func(t *testing.T) {
			f := newFakeFetcher()
			f.set(profileRequestURL(testUID), profileBody)
			f.set(feedPageURL(testUID, testContainerID, ""), feedPage("p1", 2, sinceID))
			f.fallback = func(url string) (string, error) {
				return mustJSON(feedPage("extra", 2, "9999")), nil
			}
			c := newTestClient(t, f)

			feeds := c.GetFeeds(context.Background(), testUID, 100)

			assert.Equal(t, []string{"p1-0", "p1-1"}, itemIDs(t, feeds))
			// profile + one page; since_id=0 is never requested
			assert.Equal(t, 2, f.callCount())
		})
	}
}

func TestGetFeeds_MalformedCardlistInfo(t *testing.T) {
	f := newFakeFetcher()
	f.set(profileRequestURL(testUID), profileBody)
	f.set(feedPageURL(testUID, testContainerID, ""),
		`{"ok":1,"data":{"cardlistInfo":[],"cards":[{"card_type":9,"itemid":"p1-0","mblog":{"user":[],"page_info":{"urls":[]}}}]}}`)
	c := newTestClient(t, f)

	feeds := c.GetFeeds(context.Background(), testUID, 10)

	assert.Equal(t, []string{"p1-0"}, itemIDs(t, feeds))
	assert.Equal(t, 2, f.callCount())
}

func TestFeedCursor(t *testing.T) {
	tests := []struct {
		in       flexString
		expected string
	}{
		{"4956231478329217", "4956231478329217"},
		{"0", ""},
		{"false", ""},
		{"", ""},
		{" 42 ", "42"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, feedCursor(tt.in), string(tt.in))
	}
}

func TestGetFeeds_TruncatesToLimit(t *testing.T) {
	f := newFakeFetcher()
	f.set(profileRequestURL(testUID), profileBody)
	f.set(feedPageURL(testUID, testContainerID, ""), feedPage("p1", 2, "5001"))
	f.set(feedPageURL(testUID, testContainerID, "5001"), feedPage("p2", 2, "5002"))
	c := newTestClient(t, f)

	feeds := c.GetFeeds(context.Background(), testUID, 3)

	assert.Equal(t, []string{"p1-0", "p1-1", "p2-0"}, itemIDs(t, feeds))
	// profile + two pages; the third page is never requested
	assert.Equal(t, 3, f.callCount())
}

func TestGetFeeds_StopsOnEmptyPage(t *testing.T) {
	f := newFakeFetcher()
	f.set(profileRequestURL(testUID), profileBody)
	f.set(feedPageURL(testUID, testContainerID, ""), feedPage("p1", 2, "5001"))
	f.set(feedPageURL(testUID, testContainerID, "5001"), feedPage("p2", 0, "5002"))
	c := newTestClient(t, f)

	feeds := c.GetFeeds(context.Background(), testUID, 10)
	assert.Len(t, feeds, 2)
	assert.Equal(t, 3, f.callCount())
}

func TestGetFeeds_ContainerResolutionFails(t *testing.T) {
	f := newFakeFetcher()
	f.fail(profileRequestURL(testUID))
	c := newTestClient(t, f)

	feeds := c.GetFeeds(context.Background(), testUID, 10)

	assert.NotNil(t, feeds)
	assert.Empty(t, feeds)
	require.Equal(t, 1, f.callCount())
	assert.Equal(t, profileRequestURL(testUID), f.calls[0])
}

func TestGetFeeds_NoFeedTab(t *testing.T) {
	f := newFakeFetcher()
	f.set(profileRequestURL(testUID), container(map[string]any{
		"userInfo": map[string]any{"id": testUID},
		"tabsInfo": map[string]any{"tabs": []map[string]any{{"tabKey": "album", "containerid": "107803"}}},
	}))
	c := newTestClient(t, f)

	feeds := c.GetFeeds(context.Background(), testUID, 10)
	assert.Empty(t, feeds)
	assert.Equal(t, 1, f.callCount())
}

func TestGetFeeds_FailureMidwayReturnsPartial(t *testing.T) {
	f := newFakeFetcher()
	f.set(profileRequestURL(testUID), profileBody)
	f.set(feedPageURL(testUID, testContainerID, ""), feedPage("p1", 2, "5001"))
	f.fail(feedPageURL(testUID, testContainerID, "5001"))
	c := newTestClient(t, f)

	feeds := c.GetFeeds(context.Background(), testUID, 10)
	assert.Equal(t, []string{"p1-0", "p1-1"}, itemIDs(t, feeds))
	assert.Equal(t, 3, f.callCount())
}

func TestGetFeeds_EndlessCursorBoundedByLimit(t *testing.T) {
	f := newFakeFetcher()
	f.set(profileRequestURL(testUID), profileBody)
	n := 0
	f.fallback = func(url string) (string, error) {
		n++
		return mustJSON(feedPage(fmt.Sprintf("p%d", n), 3, fmt.Sprintf("c%d", n))), nil
	}
	c := newTestClient(t, f)

	feeds := c.GetFeeds(context.Background(), testUID, 10)
	assert.Len(t, feeds, 10)
	// profile + ceil(10/3) pages
	assert.Equal(t, 5, f.callCount())
}

func TestGetFeeds_RepeatedCursorStops(t *testing.T) {
	f := newFakeFetcher()
	f.set(profileRequestURL(testUID), profileBody)
	f.set(feedPageURL(testUID, testContainerID, ""), feedPage("p1", 1, "A"))
	f.set(feedPageURL(testUID, testContainerID, "A"), feedPage("p2", 1, "B"))
	f.set(feedPageURL(testUID, testContainerID, "B"), feedPage("p3", 1, "A"))
	c := newTestClient(t, f)

	feeds := c.GetFeeds(context.Background(), testUID, 100)
	assert.Equal(t, []string{"p1-0", "p2-0", "p3-0"}, itemIDs(t, feeds))
	assert.Equal(t, 4, f.callCount())

	seen := map[string]bool{}
	for _, u := range f.calls {
		assert.False(t, seen[u], "requested twice: %s", u)
		seen[u] = true
	}
}

func TestGetFeeds_ZeroLimit(t *testing.T) {
	f := newFakeFetcher()
	c := newTestClient(t, f)

	for _, limit := range []int{0, -5} {
		feeds := c.GetFeeds(context.Background(), testUID, limit)
		assert.NotNil(t, feeds)
		assert.Empty(t, feeds)
	}
	assert.Zero(t, f.callCount())
}

func TestGetFeeds_Cancelled(t *testing.T) {
	f := newFakeFetcher()
	f.set(profileRequestURL(testUID), profileBody)
	f.fallback = func(url string) (string, error) {
		return mustJSON(feedPage("x", 1, "next")), nil
	}
	c := newTestClient(t, f)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	feeds := c.GetFeeds(ctx, testUID, 10)
	assert.Empty(t, feeds)
	for _, u := range f.calls {
		assert.False(t, strings.Contains(u, "since_id"), "no feed page expected, got %s", u)
	}
}

func TestGetFeeds_ItemsVerbatim(t *testing.T) {
	raw := `{"card_type":9,"itemid":"x","mblog":{"id":"1","text":"<a href=\"/n/x\">@x</a>","extra":[1,{"y":null}]}}`
	f := newFakeFetcher()
	f.set(profileRequestURL(testUID), profileBody)
	f.set(feedPageURL(testUID, testContainerID, ""), `{"ok":1,"data":{"cardlistInfo":{},"cards":[`+raw+`]}}`)
	c := newTestClient(t, f)

	feeds := c.GetFeeds(context.Background(), testUID, 5)
	require.Len(t, feeds, 1)
	assert.JSONEq(t, raw, string(feeds[0]))
}
