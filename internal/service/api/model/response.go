// Package model API 요청/응답 본문의 구조를 정의합니다.
package model

import "github.com/darkkaiser/scraper-server/internal/product"

// ErrorResponse 에러 응답 모델
type ErrorResponse struct {
	// 에러 메시지
	Message string `json:"message"`

	// Stage 수집 파이프라인 중 실패가 발생한 단계 (page, reviews, recommendations)
	Stage string `json:"stage,omitempty"`

	// UpstreamStatus 원격 서버가 반환한 HTTP 상태 코드 (원격 HTTP 에러가 원인인 경우)
	UpstreamStatus int `json:"upstream_status,omitempty"`

	// UpstreamBody 원격 서버가 반환한 응답 본문 원문
	UpstreamBody string `json:"upstream_body,omitempty"`
}

// DependencyStatus 의존성 서비스의 상태 모델
type DependencyStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// HealthResponse 헬스체크 응답 모델
type HealthResponse struct {
	// 전체 서버 상태 (healthy, unhealthy)
	Status string `json:"status"`

	// 서버 가동 시간 (초)
	Uptime int64 `json:"uptime"`

	// 의존성 서비스별 상태
	Dependencies map[string]DependencyStatus `json:"dependencies"`
}

// VersionResponse 버전 정보 응답 모델
type VersionResponse struct {
	Version     string `json:"version"`
	BuildDate   string `json:"build_date"`
	BuildNumber string `json:"build_number"`
	GoVersion   string `json:"go_version"`
}

// CategoryRequest 상품 등록 요청에 포함되는 분류 참조 모델
type CategoryRequest struct {
	ID   int64  `json:"id"`
	Name string `json:"name,omitempty"`
}

// TagRequest 상품 등록 요청에 포함되는 태그 참조 모델
type TagRequest struct {
	ID   int64  `json:"id,omitempty"`
	Name string `json:"name"`
}

// CreateProductRequest 카탈로그 상품 등록 요청 모델
//
// product가 포함된 경우 해당 데이터를 그대로 등록하고, 포함되지 않은 경우
// url의 상품 페이지를 수집한 뒤 요청 본문의 판매 정보를 덧붙여 등록합니다.
type CreateProductRequest struct {
	URL     string           `json:"url"`
	Product *product.Product `json:"product"`

	RegularPrice string            `json:"regular_price"`
	Categories   []CategoryRequest `json:"categories"`
	Tags         []TagRequest      `json:"tags"`
	Description  string            `json:"description"`
}
