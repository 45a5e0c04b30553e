package fetcher

import (
	"net/http"
)

// HTTPFetcher http.Client를 감싼 기본 Fetcher 구현체입니다.
//
// 클라이언트 자체에는 타임아웃을 설정하지 않으며, 호출자가 요청 컨텍스트에
// 기한(deadline)을 부여하는 방식으로 타임아웃을 제어합니다. 페이지 스크랩과
// 부가 API 호출이 하나의 기한을 공유해야 하기 때문입니다.
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher 새로운 HTTPFetcher 인스턴스를 생성합니다.
func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{
		client: &http.Client{},
	}
}

// NewHTTPFetcherWithClient 지정된 http.Client를 사용하는 HTTPFetcher 인스턴스를 생성합니다.
// 테스트에서 httptest 서버의 클라이언트를 주입할 때 사용합니다.
func NewHTTPFetcherWithClient(client *http.Client) *HTTPFetcher {
	if client == nil {
		client = &http.Client{}
	}
	return &HTTPFetcher{client: client}
}

// Do HTTP 요청을 실행합니다.
func (f *HTTPFetcher) Do(req *http.Request) (*http.Response, error) {
	return f.client.Do(req)
}
