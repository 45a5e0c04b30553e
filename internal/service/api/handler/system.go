package handler

import (
	"net/http"
	"runtime"
	"time"

	"github.com/darkkaiser/scraper-server/internal/service/api/model"
	applog "github.com/darkkaiser/scraper-server/pkg/log"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
)

// HealthCheckHandler 서버와 의존성 서비스의 상태를 반환합니다.
//
// 인증 없이 호출할 수 있으며, 모니터링 시스템에서 서버 상태를 확인하는 데 사용됩니다.
func (h *Handler) HealthCheckHandler(c echo.Context) error {
	applog.WithComponentAndFields("api.handler", log.Fields{
		"endpoint": "/health",
	}).Debug("헬스체크 요청")

	uptime := int64(time.Since(serverStartTime).Seconds())

	deps := make(map[string]model.DependencyStatus)

	if h.scrapePipeline != nil {
		deps[dependencyScrapePipeline] = model.DependencyStatus{
			Status: statusHealthy,
		}
	} else {
		deps[dependencyScrapePipeline] = model.DependencyStatus{
			Status:  statusUnhealthy,
			Message: "수집 파이프라인이 초기화되지 않음",
		}
	}

	if h.catalogClient != nil {
		deps[dependencyCatalogClient] = model.DependencyStatus{
			Status: statusHealthy,
		}
	} else {
		deps[dependencyCatalogClient] = model.DependencyStatus{
			Status:  statusDisabled,
			Message: "카탈로그 연동이 비활성화됨",
		}
	}

	// 전체 상태 결정 (비활성화된 의존성은 비정상으로 취급하지 않음)
	overallStatus := statusHealthy
	for _, dep := range deps {
		if dep.Status == statusUnhealthy {
			overallStatus = statusUnhealthy
			break
		}
	}

	return c.JSON(http.StatusOK, model.HealthResponse{
		Status:       overallStatus,
		Uptime:       uptime,
		Dependencies: deps,
	})
}

// VersionHandler 서버의 빌드 정보를 반환합니다.
func (h *Handler) VersionHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, model.VersionResponse{
		Version:     h.buildInfo.Version,
		BuildDate:   h.buildInfo.BuildDate,
		BuildNumber: h.buildInfo.BuildNumber,
		GoVersion:   runtime.Version(),
	})
}
