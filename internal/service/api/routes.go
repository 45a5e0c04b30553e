package api

import (
	"github.com/darkkaiser/scraper-server/internal/service/api/handler"
	"github.com/labstack/echo/v4"
)

// SetupRoutes Echo 인스턴스에 전체 라우트를 설정합니다.
//
// 라우트 구성:
//   - System 엔드포인트: /health, /version
//   - API v1 엔드포인트: /api/v1/*
//   - 커스텀 HTTP 에러 핸들러 (404, 500 등)
func SetupRoutes(e *echo.Echo, h *handler.Handler) {
	// System 엔드포인트
	e.GET("/health", h.HealthCheckHandler)
	e.GET("/version", h.VersionHandler)

	// API v1 엔드포인트
	grp := e.Group("/api/v1")
	{
		grp.GET("/products", h.GetProductHandler)
		grp.GET("/products/export", h.ExportProductHandler)

		grp.POST("/catalog/products", h.CreateCatalogProductHandler)
		grp.GET("/catalog/categories", h.ListCatalogCategoriesHandler)
	}

	e.HTTPErrorHandler = handler.CustomHTTPErrorHandler
}
