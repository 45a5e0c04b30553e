// Package fetcher 외부 HTTP 요청을 수행하는 계층을 제공합니다.
//
// Fetcher 인터페이스를 중심으로 데코레이터(미들웨어) 체인을 구성하여,
// 브라우저 헤더 주입, 요청 속도 제한, 응답 상태 검사 등의 공통 관심사를
// 요청 파이프라인에 계층적으로 적용합니다.
package fetcher

import (
	"context"
	"errors"
	"net"
	"net/http"

	apperrors "github.com/darkkaiser/scraper-server/internal/pkg/errors"
)

// Fetcher HTTP 요청을 수행하는 인터페이스
type Fetcher interface {
	Do(req *http.Request) (*http.Response, error)
}

// Get 지정된 URL로 HTTP GET 요청을 전송합니다.
// Fetcher 인터페이스의 구현체가 공통으로 사용할 수 있는 헬퍼 함수입니다.
func Get(ctx context.Context, f Fetcher, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return f.Do(req)
}

// WrapTransportError 전송 계층에서 발생한 에러를 적절한 ErrorType의 AppError로 래핑합니다.
//
// 컨텍스트 기한 초과는 Timeout으로 분류하여 호출자가 재시도 여부를
// 판단할 수 있도록 하고, 그 외의 네트워크/클라이언트 에러는 Unavailable로 분류합니다.
func WrapTransportError(err error, message string) error {
	if err == nil {
		return nil
	}

	if isDeadlineExceeded(err) {
		return apperrors.Wrap(err, apperrors.Timeout, message)
	}
	return apperrors.Wrap(err, apperrors.Unavailable, message)
}

func isDeadlineExceeded(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	// http.Client는 타임아웃 시 Timeout() == true인 url.Error를 반환한다.
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
