// Package pipeline 상품 페이지와 부가 API 수집을 하나의 Product로 조립하는 오케스트레이터를 제공합니다.
package pipeline

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/darkkaiser/scraper-server/internal/fetcher"
	apperrors "github.com/darkkaiser/scraper-server/internal/pkg/errors"
	"github.com/darkkaiser/scraper-server/internal/product"
	"github.com/darkkaiser/scraper-server/internal/product/extract"
	"github.com/darkkaiser/scraper-server/internal/scraper"
	applog "github.com/darkkaiser/scraper-server/pkg/log"
)

// Pipeline 상품 수집 파이프라인입니다.
//
// 페이지 수집과 리뷰/추천 상품 수집은 하나의 기한(deadline)을 공유합니다.
// 단계별로 기한을 따로 두면 최악의 경우 전체 소요 시간이 단계 수에 비례하여
// 늘어나므로, 호출 전체를 하나의 시간 예산 안에서 처리합니다.
type Pipeline struct {
	fetcher fetcher.Fetcher
	cache   *product.Cache
	baseURL string
	timeout time.Duration
}

// New 새로운 Pipeline 인스턴스를 생성합니다.
//
// Parameters:
//   - f: 외부 요청에 사용할 Fetcher (브라우저 헤더와 속도 제한이 적용된 체인)
//   - cache: 수집 결과를 보관할 캐시 (nil이면 캐싱하지 않음)
//   - baseURL: 부가 API(리뷰, 추천 상품)의 기준 URL
//   - timeout: 한 번의 수집 전체에 허용되는 시간
func New(f fetcher.Fetcher, cache *product.Cache, baseURL string, timeout time.Duration) *Pipeline {
	return &Pipeline{
		fetcher: f,
		cache:   cache,
		baseURL: baseURL,
		timeout: timeout,
	}
}

// Scrape 지정된 상품 URL을 수집하여 Product를 반환합니다.
//
// 캐시에 유효한 항목이 있으면 수집 없이 바로 반환합니다. 페이지 수집 실패는
// StagePage, 리뷰/추천 상품 API 실패는 각각 StageReviews/StageRecommendations
// 단계의 StageError로 반환됩니다. URL에서 아이템 코드를 찾지 못한 경우
// 리뷰는 빈 목록, 추천 상품은 nil로 두고 수집을 계속합니다.
func (p *Pipeline) Scrape(ctx context.Context, productURL string) (*product.Product, error) {
	if productURL == "" {
		return nil, apperrors.New(apperrors.InvalidInput, "상품 URL이 지정되지 않았습니다.")
	}

	if p.cache != nil {
		if cached, ok := p.cache.Get(productURL); ok {
			applog.WithComponentAndFields("product.pipeline", log.Fields{
				"url": productURL,
			}).Debug("캐시된 수집 결과 반환")
			return cached, nil
		}
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	started := time.Now()

	rawHTML, err := scraper.FetchText(ctx, p.fetcher, productURL)
	if err != nil {
		return nil, &product.StageError{Stage: product.StagePage, Err: err}
	}

	page, err := extract.LoadPage(rawHTML)
	if err != nil {
		return nil, &product.StageError{Stage: product.StagePage, Err: err}
	}

	result := &product.Product{
		Title:          extract.Title(page.Doc),
		Images:         extract.Images(page.Doc),
		Description:    extract.Description(page.Doc),
		PriceTiers:     extract.PriceTiers(page.RawHTML),
		SoldCount:      extract.SoldCount(page.Doc),
		Attributes:     extract.Attributes(page.RawHTML),
		Specifications: extract.Specifications(page.Doc),
		Reviews:        make([]product.Review, 0),
	}

	if itemCode := extract.ItemCode(productURL); itemCode != "" {
		reviews, err := extract.Reviews(ctx, p.fetcher, p.baseURL, itemCode, productURL)
		if err != nil {
			return nil, &product.StageError{Stage: product.StageReviews, Err: err}
		}
		result.Reviews = reviews

		recommendations, err := extract.Recommendations(ctx, p.fetcher, p.baseURL, itemCode, productURL)
		if err != nil {
			return nil, &product.StageError{Stage: product.StageRecommendations, Err: err}
		}
		result.Recommendations = recommendations
	}

	if p.cache != nil {
		p.cache.Set(productURL, result)
	}

	applog.WithComponentAndFields("product.pipeline", log.Fields{
		"url":             productURL,
		"title":           result.Title,
		"images":          len(result.Images),
		"price_tiers":     len(result.PriceTiers),
		"reviews":         len(result.Reviews),
		"recommendations": len(result.Recommendations),
		"elapsed":         time.Since(started).String(),
	}).Info("상품 수집 완료")

	return result, nil
}
