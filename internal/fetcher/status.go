package fetcher

import (
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/darkkaiser/scraper-server/internal/pkg/errors"
)

// HTTPStatusError 2xx가 아닌 HTTP 응답을 나타내는 에러입니다.
//
// 원격 서버가 반환한 상태 코드와 응답 본문 원문을 그대로 보존하여,
// 호출자가 실패 원인을 클라이언트에 전달하거나 진단에 활용할 수 있도록 합니다.
type HTTPStatusError struct {
	StatusCode int
	Status     string
	URL        string
	Body       string
	Cause      error
}

// Error error 인터페이스를 구현합니다.
func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("HTTP 요청(%s)이 실패했습니다. 상태 코드: %s", e.URL, e.Status)
}

// Unwrap 내부에 래핑된 AppError를 반환합니다.
func (e *HTTPStatusError) Unwrap() error {
	return e.Cause
}

// CheckResponseStatus 응답 상태 코드를 검사하여 2xx가 아닌 경우 HTTPStatusError를 반환합니다.
//
// 에러를 반환하는 경우 응답 본문을 모두 읽어 에러에 담고 Body를 닫으므로,
// 호출자는 에러가 반환된 응답을 더 이상 사용해서는 안 됩니다.
func CheckResponseStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	defer resp.Body.Close()

	// 진단을 위해 응답 본문 원문을 보존한다. 읽기 실패는 무시한다.
	body, _ := io.ReadAll(resp.Body)

	errType := apperrors.Unavailable
	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		errType = apperrors.ExecutionFailed
	}

	return &HTTPStatusError{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		URL:        resp.Request.URL.String(),
		Body:       string(body),
		Cause:      apperrors.New(errType, fmt.Sprintf("HTTP status %s", resp.Status)),
	}
}
