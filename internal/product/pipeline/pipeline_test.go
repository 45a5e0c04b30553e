package pipeline

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/darkkaiser/scraper-server/internal/fetcher"
	apperrors "github.com/darkkaiser/scraper-server/internal/pkg/errors"
	"github.com/darkkaiser/scraper-server/internal/product"
)

func TestMain(m *testing.M) {
	// HTTP keep-alive 연결의 백그라운드 고루틴은 누수로 취급하지 않는다.
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
	)
}

const productPageHTML = `<html><body>
<div class="productInfo_productInfo__a1b2"><h1>Wireless Earbuds Pro</h1></div>
<ul class="masterMap_smallMapList__c3d4">
	<li><span><img src="https://img.example.com/200x200/1.jpg"></span></li>
</ul>
<span class="productSellerMsg_sold__e5f6">317 sold</span>
<ul class="prodSpecifications_showUl__g7h8">
	<li><span>Brand:</span><div class="prodSpecifications_deswrap__i9j0">Acme</div></li>
</ul>
<div class="prodDesc_decHtml__k1l2"><div><p>Great sound</p></div></div>
<script>window.__STATE__={"skuList":[{"endQty":9,"promDiscountPrice":9.99,"originalPrice":12.5}],
"itemAttrList":[{"attrName":"Color","itemAttrvalList":[{"attrValName":"Black","picUrl":""}]}],"firstItemAttrList":[]}</script>
</body></html>`

// newMarketplaceServer 상품 페이지와 부가 API를 함께 제공하는 테스트 서버를 생성합니다.
func newMarketplaceServer(t *testing.T, reviewStatus, recomStatus int) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/product/x/12345.html", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(productPageHTML))
	})
	mux.HandleFunc("/reviewbuyer/reviewOfProd/pageReviewOfProd", func(w http.ResponseWriter, r *http.Request) {
		if reviewStatus != http.StatusOK {
			w.WriteHeader(reviewStatus)
			w.Write([]byte("review backend error"))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"data":[{"reviewid":7,"score":5,"content":"great"}]}}`))
	})
	mux.HandleFunc("/prod/ajax/recom.do", func(w http.ResponseWriter, r *http.Request) {
		if recomStatus != http.StatusOK {
			w.WriteHeader(recomStatus)
			w.Write([]byte("recom backend error"))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[{"title":"USB-C Cable","itemCode":"555","url":"https://x/555.html#p","img":"","lowPrice":"US$1","highPrice":"US$2","lowOrgPrice":"US$2","highOrgPrice":"US$3","minOrder":"1","stars":"4.5","order":"10","freeshipping":"1","xDayArrive":7,"sellername":"s","supplierId":"1"}]}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestPipeline_Scrape(t *testing.T) {
	srv := newMarketplaceServer(t, http.StatusOK, http.StatusOK)

	cache := product.NewCache(10 * time.Hour)
	p := New(fetcher.NewHTTPFetcher(), cache, srv.URL, 25*time.Second)

	got, err := p.Scrape(context.Background(), srv.URL+"/product/x/12345.html")
	require.NoError(t, err)

	assert.Equal(t, "Wireless Earbuds Pro", got.Title)
	assert.Equal(t, []string{"https://img.example.com/0x0/1.jpg"}, got.Images)
	assert.Equal(t, 317, got.SoldCount)
	assert.Equal(t, map[string]string{"Brand": "Acme"}, got.Specifications)
	assert.Contains(t, got.Description, "Great sound")

	require.Len(t, got.PriceTiers, 1)
	assert.Equal(t, product.PriceTier{Price: 9.99, MinQuantity: 1}, got.PriceTiers[0])

	require.Contains(t, got.Attributes, "Color")
	assert.Equal(t, "Black", got.Attributes["Color"][0].Value)

	require.Len(t, got.Reviews, 1)
	assert.Equal(t, "7", got.Reviews[0].ID)

	require.Len(t, got.Recommendations, 1)
	assert.Equal(t, "https://x/555.html", got.Recommendations[0].URL)

	// 캐시 적중: 두 번째 호출은 동일한 인스턴스를 반환한다.
	again, err := p.Scrape(context.Background(), srv.URL+"/product/x/12345.html")
	require.NoError(t, err)
	assert.Same(t, got, again)
}

func TestPipeline_Scrape_EmptyURL(t *testing.T) {
	p := New(fetcher.NewHTTPFetcher(), nil, "http://unused", time.Second)

	_, err := p.Scrape(context.Background(), "")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.InvalidInput))
}

func TestPipeline_Scrape_PageStageFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte("blocked"))
	}))
	defer srv.Close()

	p := New(fetcher.NewHTTPFetcher(), nil, srv.URL, time.Second)

	_, err := p.Scrape(context.Background(), srv.URL+"/product/x/12345.html")
	require.Error(t, err)

	var stageErr *product.StageError
	require.True(t, errors.As(err, &stageErr))
	assert.Equal(t, product.StagePage, stageErr.Stage)

	statusCode, body, ok := stageErr.HTTPStatus()
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, statusCode)
	assert.Equal(t, "blocked", body)
}

func TestPipeline_Scrape_ReviewStageFailure(t *testing.T) {
	srv := newMarketplaceServer(t, http.StatusTooManyRequests, http.StatusOK)

	p := New(fetcher.NewHTTPFetcher(), nil, srv.URL, 25*time.Second)

	_, err := p.Scrape(context.Background(), srv.URL+"/product/x/12345.html")
	require.Error(t, err)

	var stageErr *product.StageError
	require.True(t, errors.As(err, &stageErr))
	assert.Equal(t, product.StageReviews, stageErr.Stage)

	statusCode, body, ok := stageErr.HTTPStatus()
	require.True(t, ok)
	assert.Equal(t, http.StatusTooManyRequests, statusCode)
	assert.Equal(t, "review backend error", body)
}

func TestPipeline_Scrape_RecommendationStageFailure(t *testing.T) {
	srv := newMarketplaceServer(t, http.StatusOK, http.StatusBadGateway)

	p := New(fetcher.NewHTTPFetcher(), nil, srv.URL, 25*time.Second)

	_, err := p.Scrape(context.Background(), srv.URL+"/product/x/12345.html")
	require.Error(t, err)

	var stageErr *product.StageError
	require.True(t, errors.As(err, &stageErr))
	assert.Equal(t, product.StageRecommendations, stageErr.Stage)
}

func TestPipeline_Scrape_NoItemCode(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/wholesale/earbuds", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(productPageHTML))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	p := New(fetcher.NewHTTPFetcher(), nil, srv.URL, 25*time.Second)

	got, err := p.Scrape(context.Background(), srv.URL+"/wholesale/earbuds")
	require.NoError(t, err)

	// 아이템 코드가 없으면 리뷰는 빈 목록, 추천 상품은 생략된다.
	assert.NotNil(t, got.Reviews)
	assert.Empty(t, got.Reviews)
	assert.Nil(t, got.Recommendations)
}

func TestPipeline_Scrape_SharedDeadline(t *testing.T) {
	// 페이지 응답이 예산 대부분을 소모하면, 같은 기한을 공유하는
	// 리뷰 호출은 기한 초과로 실패해야 한다.
	mux := http.NewServeMux()
	mux.HandleFunc("/product/x/12345.html", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(150 * time.Millisecond)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(productPageHTML))
	})
	mux.HandleFunc("/reviewbuyer/reviewOfProd/pageReviewOfProd", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(150 * time.Millisecond)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"data":[]}}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	p := New(fetcher.NewHTTPFetcher(), nil, srv.URL, 200*time.Millisecond)

	_, err := p.Scrape(context.Background(), srv.URL+"/product/x/12345.html")
	require.Error(t, err)

	var stageErr *product.StageError
	require.True(t, errors.As(err, &stageErr))
	assert.Equal(t, product.StageReviews, stageErr.Stage)
	assert.True(t, apperrors.Is(err, apperrors.Timeout))
}
