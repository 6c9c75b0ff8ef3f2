// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import "net/http"

// DefaultUserAgents is the browser User-Agent pool used when the
// configuration does not provide one.
var DefaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:121.0) Gecko/20100101 Firefox/121.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Safari/605.1.15",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36 Edg/120.0.0.0",
}

// DefaultBlockSignatures are body substrings served by the catalog's
// anti-automation pages.
var DefaultBlockSignatures = []string{
	"搜索访问太频繁",
	"<title>禁止访问</title>",
	"检测到有异常请求",
	"sec.douban.com",
}

const acceptHTML = "text/html,application/xhtml+xml,application/xml;q=0.9,application/json;q=0.8,*/*;q=0.7"

// setHeaders attaches the browser-like header set. ua is chosen by the
// caller so that the random source stays under the fetcher lock.
func (f *Fetcher) setHeaders(req *http.Request, ua string) {
	h := req.Header
	h.Set("User-Agent", ua)
	h.Set("Accept", acceptHTML)
	h.Set("Accept-Language", f.cfg.AcceptLanguage)
	h.Set("Accept-Encoding", "gzip, deflate")
	h.Set("Cache-Control", "max-age=0")
	h.Set("DNT", "1")
	h.Set("Upgrade-Insecure-Requests", "1")
	h.Set("Connection", "keep-alive")
	if f.cfg.Referer != "" {
		h.Set("Referer", f.cfg.Referer)
	}
	if f.cfg.Cookie != "" {
		h.Set("Cookie", f.cfg.Cookie)
	}
}
