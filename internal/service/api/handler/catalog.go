package handler

import (
	"net/http"

	"github.com/darkkaiser/scraper-server/internal/catalog"
	"github.com/darkkaiser/scraper-server/internal/service/api/model"
	applog "github.com/darkkaiser/scraper-server/pkg/log"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
)

// CreateCatalogProductHandler 상품 페이지를 수집하여 카탈로그(쇼핑몰)에 등록합니다.
//
// 요청 본문의 판매 정보(판매가, 분류, 태그 등)를 수집 결과에 덧붙여 등록하며,
// 상품 이미지는 쇼핑몰 미디어 라이브러리에 재호스팅됩니다.
func (h *Handler) CreateCatalogProductHandler(c echo.Context) error {
	if h.catalogClient == nil {
		return c.JSON(http.StatusServiceUnavailable, model.ErrorResponse{
			Message: "카탈로그 연동이 비활성화되어 있습니다",
		})
	}

	var req model.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Message: "잘못된 JSON 형식입니다",
		})
	}
	if req.Product == nil && req.URL == "" {
		return c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Message: "product 또는 url 중 하나는 필수입니다",
		})
	}

	// 수집 결과가 본문에 포함된 경우 재수집하지 않고 그대로 등록한다.
	p := req.Product
	if p == nil {
		var err error
		p, err = h.scrapePipeline.Scrape(c.Request().Context(), req.URL)
		if err != nil {
			return h.scrapeErrorResponse(c, req.URL, err)
		}
	}

	edit := catalog.EditData{
		RegularPrice: req.RegularPrice,
		Description:  req.Description,
	}
	for _, cat := range req.Categories {
		edit.Categories = append(edit.Categories, catalog.CategoryRef{ID: cat.ID, Name: cat.Name})
	}
	for _, tag := range req.Tags {
		edit.Tags = append(edit.Tags, catalog.TagRef{ID: tag.ID, Name: tag.Name})
	}

	result, err := h.catalogClient.CreateProduct(c.Request().Context(), p, edit)
	if err != nil {
		applog.WithComponentAndFields("api.handler", log.Fields{
			"url":   req.URL,
			"error": err,
		}).Error("카탈로그 상품 등록에 실패했습니다")

		return c.JSON(statusCodeFromError(err), model.ErrorResponse{
			Message: err.Error(),
		})
	}

	return c.JSON(http.StatusCreated, result)
}

// ListCatalogCategoriesHandler 카탈로그의 상품 분류 목록을 반환합니다.
// 분류 이름은 상위 분류를 포함한 전체 경로("상위 > 하위") 형태로 제공됩니다.
func (h *Handler) ListCatalogCategoriesHandler(c echo.Context) error {
	if h.catalogClient == nil {
		return c.JSON(http.StatusServiceUnavailable, model.ErrorResponse{
			Message: "카탈로그 연동이 비활성화되어 있습니다",
		})
	}

	categories, err := h.catalogClient.ListCategories(c.Request().Context())
	if err != nil {
		applog.WithComponentAndFields("api.handler", log.Fields{
			"error": err,
		}).Error("카탈로그 분류 목록 조회에 실패했습니다")

		return c.JSON(statusCodeFromError(err), model.ErrorResponse{
			Message: err.Error(),
		})
	}

	return c.JSON(http.StatusOK, categories)
}
