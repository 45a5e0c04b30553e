package product

import (
	"errors"
	"fmt"

	"github.com/darkkaiser/scraper-server/internal/fetcher"
)

// 수집 파이프라인의 단계 이름. 실패 응답에 그대로 노출되어
// 어느 단계에서 수집이 중단되었는지 알려준다.
const (
	StagePage            = "page"
	StageReviews         = "reviews"
	StageRecommendations = "recommendations"
)

// StageError 수집 파이프라인의 특정 단계에서 발생한 실패입니다.
//
// 원격 서버의 HTTP 에러가 원인인 경우, 상태 코드와 응답 본문 원문을
// 함께 전달하여 클라이언트가 실패 원인을 확인할 수 있도록 합니다.
type StageError struct {
	Stage string
	Err   error
}

// Error error 인터페이스를 구현합니다.
func (e *StageError) Error() string {
	return fmt.Sprintf("%s 단계에서 수집이 실패했습니다: %v", e.Stage, e.Err)
}

// Unwrap 단계 내부에서 발생한 원인 에러를 반환합니다.
func (e *StageError) Unwrap() error {
	return e.Err
}

// HTTPStatus 원인이 원격 서버의 HTTP 에러인 경우 상태 코드와 응답 본문을 반환합니다.
func (e *StageError) HTTPStatus() (statusCode int, body string, ok bool) {
	var statusErr *fetcher.HTTPStatusError
	if errors.As(e.Err, &statusErr) {
		return statusErr.StatusCode, statusErr.Body, true
	}
	return 0, "", false
}
