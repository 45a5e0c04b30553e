package fetcher

import (
	"net/http"

	"github.com/darkkaiser/scraper-server/internal/identity"
)

// browserHeaders 실제 크롬 브라우저가 페이지 탐색 시 전송하는 요청 헤더 집합입니다.
// 마켓플레이스는 이 헤더들이 없는 요청을 봇으로 판정하여 차단합니다.
var browserHeaders = map[string]string{
	"accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8,application/signed-exchange;v=b3;q=0.7",
	"accept-language":           "en-US,en;q=0.9",
	"cache-control":             "no-cache",
	"pragma":                    "no-cache",
	"sec-ch-ua":                 `"Chromium";v="130", "Google Chrome";v="130", "Not?A_Brand";v="99"`,
	"sec-ch-ua-mobile":          "?0",
	"sec-ch-ua-platform":        `"macOS"`,
	"sec-fetch-dest":            "document",
	"sec-fetch-mode":            "navigate",
	"sec-fetch-site":            "none",
	"sec-fetch-user":            "?1",
	"upgrade-insecure-requests": "1",
	"User-Agent":                "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/130.0.0.0 Safari/537.36",
}

// BrowserHeaderFetcher Fetcher 데코레이터로, 요청에 브라우저 헤더와 세션 쿠키를 주입합니다.
//
// 호출자가 이미 설정한 헤더는 덮어쓰지 않으므로, 개별 요청(JSON API 등)에서
// accept 등의 헤더를 자유롭게 재정의할 수 있습니다.
type BrowserHeaderFetcher struct {
	delegate Fetcher
	identity *identity.Provider
	referer  string
}

// NewBrowserHeaderFetcher 새로운 BrowserHeaderFetcher 인스턴스를 생성합니다.
//
// Parameters:
//   - delegate: 실제 HTTP 요청을 수행할 원본 Fetcher
//   - provider: 세션 쿠키를 제공하는 identity.Provider
//   - referer: Referer 헤더가 없는 요청에 설정할 기본값 (마켓플레이스 루트 URL)
func NewBrowserHeaderFetcher(delegate Fetcher, provider *identity.Provider, referer string) *BrowserHeaderFetcher {
	return &BrowserHeaderFetcher{
		delegate: delegate,
		identity: provider,
		referer:  referer,
	}
}

// Do 브라우저 헤더, 세션 쿠키, Referer를 보강한 뒤 요청을 위임합니다.
func (f *BrowserHeaderFetcher) Do(req *http.Request) (*http.Response, error) {
	for key, value := range browserHeaders {
		if req.Header.Get(key) == "" {
			req.Header.Set(key, value)
		}
	}

	if req.Header.Get("Cookie") == "" {
		req.Header.Set("Cookie", f.identity.Identity())
	}

	if req.Header.Get("Referer") == "" && f.referer != "" {
		req.Header.Set("Referer", f.referer)
	}

	return f.delegate.Do(req)
}
