package weibo

import stealth "github.com/anatolykoptev/go-stealth"

// defaultUserAgent is the fallback User-Agent when the selected profile carries none.
const defaultUserAgent = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_5 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.5 Mobile/15E148 Safari/604.1"

// defaultHeaders is the fixed header set the engine sends with every request.
func defaultHeaders() map[string]string {
	return map[string]string{
		"content-type": "application/json",
	}
}

// browserHeaders merges the engine headers with the browser headers the
// m.weibo.cn web app sends. Engine headers win on conflict.
func browserHeaders(engine map[string]string, userAgent string) map[string]string {
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	h := map[string]string{
		"user-agent":       userAgent,
		"accept":           "application/json, text/plain, */*",
		"accept-language":  "zh-CN,zh;q=0.9,en;q=0.8",
		"accept-encoding":  "gzip, deflate, br",
		"referer":          "https://m.weibo.cn/",
		"mweibo-pwa":       "1",
		"x-requested-with": "XMLHttpRequest",
		"sec-fetch-dest":   "empty",
		"sec-fetch-mode":   "cors",
		"sec-fetch-site":   "same-origin",
	}
	if ch := stealth.ClientHintsHeaders(userAgent); ch != nil {
		for k, v := range ch {
			h[k] = v
		}
	}
	for k, v := range engine {
		h[k] = v
	}
	return h
}

// weiboHeaderOrder is the header order used for TLS fingerprint consistency.
var weiboHeaderOrder = []string{
	"content-type",
	"mweibo-pwa",
	"x-requested-with",
	"sec-ch-ua",
	"sec-ch-ua-mobile",
	"sec-ch-ua-platform",
	"sec-fetch-dest",
	"sec-fetch-mode",
	"sec-fetch-site",
	"user-agent",
	"accept",
	"referer",
	"accept-language",
	"accept-encoding",
}
