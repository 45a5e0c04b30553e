// Package handler API 엔드포인트의 요청 처리 로직을 구현합니다.
package handler

import (
	"time"

	"github.com/darkkaiser/scraper-server/internal/catalog"
	"github.com/darkkaiser/scraper-server/internal/notifier"
	"github.com/darkkaiser/scraper-server/internal/pkg/version"
	"github.com/darkkaiser/scraper-server/internal/product/pipeline"
)

// Health Check 상태 상수
const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
	statusDisabled  = "disabled"
)

// 의존성 서비스 키
const (
	dependencyScrapePipeline = "scrape_pipeline"
	dependencyCatalogClient  = "catalog_client"
)

var serverStartTime = time.Now()

// Handler API 요청을 처리하는 핸들러입니다.
//
// catalogClient는 카탈로그 연동이 비활성화된 경우 nil일 수 있으며,
// 이 경우 카탈로그 관련 엔드포인트는 503을 반환합니다.
type Handler struct {
	scrapePipeline *pipeline.Pipeline
	catalogClient  *catalog.Client
	errorNotifier  notifier.Notifier

	buildInfo version.Info
}

// New Handler 인스턴스를 생성합니다.
func New(scrapePipeline *pipeline.Pipeline, catalogClient *catalog.Client, errorNotifier notifier.Notifier, buildInfo version.Info) *Handler {
	if errorNotifier == nil {
		errorNotifier = notifier.NewNoOp()
	}

	return &Handler{
		scrapePipeline: scrapePipeline,
		catalogClient:  catalogClient,
		errorNotifier:  errorNotifier,

		buildInfo: buildInfo,
	}
}
