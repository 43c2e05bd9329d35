package weibo

import (
	"net/url"
	"strings"
)

const weiboAPIURL = "https://m.weibo.cn/api/container/getIndex"

// URL templates. Placeholders are written as {name} and substituted by renderURL.
const (
	profileURL       = weiboAPIURL + "?type=uid&value={userId}"
	feedsURL         = weiboAPIURL + "?type=uid&value={userId}&containerid={containerId}&since_id={sinceId}"
	hotSearchURL     = weiboAPIURL + "?containerid=106003type%3D25%26t%3D3%26disable_hot%3D1%26filter_type%3Drealtimehot"
	searchContentURL = weiboAPIURL + "?containerid=100103type%3D1%26q%3D{keyword}&page_type=searchall&page={page}"

	// userSearchContainer is the raw containerid value for user search; it is
	// form-encoded together with page_type when the request is built.
	userSearchContainer = "100103type=3&q={keyword}&t="
)

// Endpoint names used for rate limiting, metrics and log fields.
const (
	endpointProfile       = "Profile"
	endpointFeeds         = "Feeds"
	endpointSearchUsers   = "SearchUsers"
	endpointHotSearch     = "HotSearch"
	endpointSearchContent = "SearchContent"
)

// renderURL replaces every {key} in tpl with the matching value.
// Values are inserted as-is; callers escape query components beforehand.
func renderURL(tpl string, params map[string]string) string {
	pairs := make([]string, 0, len(params)*2)
	for k, v := range params {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tpl)
}

// userSearchURL builds the user search request for a raw keyword.
func userSearchURL(keyword string) string {
	q := url.Values{}
	q.Set("containerid", renderURL(userSearchContainer, map[string]string{"keyword": keyword}))
	q.Set("page_type", "searchall")
	return weiboAPIURL + "?" + q.Encode()
}

// queryEscape escapes s for a query component, encoding spaces as %20.
func queryEscape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
