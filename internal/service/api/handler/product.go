package handler

import (
	"fmt"
	"net/http"

	"github.com/darkkaiser/scraper-server/internal/catalog"
	apperrors "github.com/darkkaiser/scraper-server/internal/pkg/errors"
	"github.com/darkkaiser/scraper-server/internal/product"
	"github.com/darkkaiser/scraper-server/internal/service/api/model"
	applog "github.com/darkkaiser/scraper-server/pkg/log"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
)

// 내보내기 형식 상수
const (
	exportFormatProduct = "product"
	exportFormatReviews = "reviews"
)

// GetProductHandler 상품 페이지를 수집하여 정규화된 상품 데이터를 반환합니다.
//
// 쿼리 파라미터:
//   - url: 수집할 상품 페이지 URL (필수)
func (h *Handler) GetProductHandler(c echo.Context) error {
	productURL := c.QueryParam("url")
	if productURL == "" {
		return c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Message: "url 쿼리 파라미터는 필수입니다",
		})
	}

	p, err := h.scrapePipeline.Scrape(c.Request().Context(), productURL)
	if err != nil {
		return h.scrapeErrorResponse(c, productURL, err)
	}

	return c.JSON(http.StatusOK, p)
}

// ExportProductHandler 상품 페이지를 수집하여 CSV 파일로 내보냅니다.
//
// 쿼리 파라미터:
//   - url: 수집할 상품 페이지 URL (필수)
//   - format: 내보내기 형식 (product: 상품+변형, reviews: 리뷰 목록, 기본값 product)
func (h *Handler) ExportProductHandler(c echo.Context) error {
	productURL := c.QueryParam("url")
	if productURL == "" {
		return c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Message: "url 쿼리 파라미터는 필수입니다",
		})
	}

	format := c.QueryParam("format")
	if format == "" {
		format = exportFormatProduct
	}
	if format != exportFormatProduct && format != exportFormatReviews {
		return c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Message: fmt.Sprintf("지원하지 않는 내보내기 형식입니다: '%s' (지원: %s, %s)", format, exportFormatProduct, exportFormatReviews),
		})
	}

	p, err := h.scrapePipeline.Scrape(c.Request().Context(), productURL)
	if err != nil {
		return h.scrapeErrorResponse(c, productURL, err)
	}

	var data, filename string
	if format == exportFormatReviews {
		data = catalog.ReviewsCSV(p.Reviews)
		filename = "reviews.csv"
	} else {
		data = catalog.ProductCSV(p)
		filename = "product.csv"
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))

	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", []byte(data))
}

// scrapeErrorResponse 수집 실패를 표준 에러 응답으로 변환합니다.
//
// 실패가 수집 파이프라인의 특정 단계에서 발생한 경우 단계 이름을,
// 원격 서버의 HTTP 에러가 원인인 경우 상태 코드와 응답 본문 원문을 함께 반환합니다.
// 입력값 오류를 제외한 실패는 알림 채널로도 발송됩니다.
func (h *Handler) scrapeErrorResponse(c echo.Context, productURL string, err error) error {
	resp := model.ErrorResponse{
		Message: err.Error(),
	}

	var stageErr *product.StageError
	if apperrors.As(err, &stageErr) {
		resp.Stage = stageErr.Stage
		if status, body, ok := stageErr.HTTPStatus(); ok {
			resp.UpstreamStatus = status
			resp.UpstreamBody = body
		}
	}

	applog.WithComponentAndFields("api.handler", log.Fields{
		"url":   productURL,
		"stage": resp.Stage,
		"error": err,
	}).Error("상품 페이지 수집에 실패했습니다")

	if !apperrors.Is(err, apperrors.InvalidInput) {
		h.errorNotifier.NotifyError(fmt.Sprintf("상품 페이지 수집에 실패했습니다\n\nURL: %s\n%v", productURL, err))
	}

	return c.JSON(statusCodeFromError(err), resp)
}

// statusCodeFromError 에러 타입을 HTTP 상태 코드로 변환합니다.
func statusCodeFromError(err error) int {
	switch apperrors.UnderlyingType(err) {
	case apperrors.InvalidInput:
		return http.StatusBadRequest
	case apperrors.NotFound:
		return http.StatusNotFound
	case apperrors.Timeout:
		return http.StatusGatewayTimeout
	case apperrors.Unavailable, apperrors.ExecutionFailed, apperrors.ParsingFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
