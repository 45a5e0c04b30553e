package fetcher

import (
	"net/http"

	"golang.org/x/time/rate"
)

// RateLimitFetcher Fetcher 데코레이터로, 외부 서버로 나가는 요청 속도를 제한합니다.
//
// 토큰 버킷 방식으로 동작하며, 토큰이 소진된 경우 요청 컨텍스트가 취소되거나
// 토큰이 보충될 때까지 대기합니다. 과도한 요청으로 마켓플레이스로부터
// 차단당하는 것을 방지하기 위한 안전 장치입니다.
type RateLimitFetcher struct {
	delegate Fetcher
	limiter  *rate.Limiter
}

// NewRateLimitFetcher 새로운 RateLimitFetcher 인스턴스를 생성합니다.
//
// requestsPerSecond가 0 이하인 경우 속도 제한 없이 동작합니다.
func NewRateLimitFetcher(delegate Fetcher, requestsPerSecond float64, burst int) *RateLimitFetcher {
	var limiter *rate.Limiter
	if requestsPerSecond > 0 {
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
	}

	return &RateLimitFetcher{
		delegate: delegate,
		limiter:  limiter,
	}
}

// Do 토큰을 획득할 때까지 대기한 뒤 요청을 위임합니다.
// 대기 중 요청 컨텍스트가 취소되면 컨텍스트 에러를 반환합니다.
func (f *RateLimitFetcher) Do(req *http.Request) (*http.Response, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(req.Context()); err != nil {
			return nil, WrapTransportError(err, "요청 속도 제한 대기 중 컨텍스트가 종료되었습니다.")
		}
	}
	return f.delegate.Do(req)
}
