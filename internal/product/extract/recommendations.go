package extract

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/darkkaiser/scraper-server/internal/fetcher"
	"github.com/darkkaiser/scraper-server/internal/product"
	"github.com/darkkaiser/scraper-server/internal/scraper"
)

const recommendationEndpointPath = "/prod/ajax/recom.do"

// Recommendations 추천 상품 API를 호출하여 연관 상품 목록을 가져옵니다.
//
// 가격 문자열의 통화 접두사(US)는 제거하고, 상품 URL의 프래그먼트(#) 이후는
// 잘라냅니다. 응답에 데이터가 없으면 빈 슬라이스를 반환하고, HTTP 에러는
// 그대로 전파합니다.
func Recommendations(ctx context.Context, f fetcher.Fetcher, baseURL, itemCode, productURL string) ([]product.RecommendedProduct, error) {
	recomURL := fmt.Sprintf(
		"%s%s?client=pc&language=en&dispCurrency=USD&itemCode=%s&pos=yml&pageNum=1&pageSize=10&publicLanguage=en&isBot=false&url_f=&url_r=%s",
		baseURL, recommendationEndpointPath, itemCode, url.QueryEscape(productURL),
	)

	data, err := scraper.FetchJSONBytes(ctx, f, http.MethodGet, recomURL, jsonRequestHeader, nil)
	if err != nil {
		return nil, err
	}

	recommendations := make([]product.RecommendedProduct, 0)
	gjson.GetBytes(data, "data").ForEach(func(_, item gjson.Result) bool {
		recommendations = append(recommendations, product.RecommendedProduct{
			Title:    item.Get("title").String(),
			ItemCode: item.Get("itemCode").String(),
			URL:      stripFragment(item.Get("url").String()),
			Image:    strings.Replace(item.Get("img").String(), "260x260", "0x0", 1),
			Price: product.RecommendedProductPrice{
				Current: product.PriceRange{
					Min: stripCurrencyPrefix(item.Get("lowPrice").String()),
					Max: stripCurrencyPrefix(item.Get("highPrice").String()),
				},
				Original: product.PriceRange{
					Min: stripCurrencyPrefix(item.Get("lowOrgPrice").String()),
					Max: stripCurrencyPrefix(item.Get("highOrgPrice").String()),
				},
			},
			MinOrder: item.Get("minOrder").String(),
			Rating:   item.Get("stars").String(),
			Order:    item.Get("productOrders").Int(),
			Orders:   item.Get("order").String(),
			Shipping: product.RecommendedProductShipping{
				Free:       item.Get("freeshipping").String() == "1",
				XDayArrive: item.Get("xDayArrive").Int(),
			},
			Seller: product.RecommendedProductSeller{
				Name: item.Get("sellername").String(),
				ID:   item.Get("supplierId").String(),
			},
		})
		return true
	})

	return recommendations, nil
}

func stripFragment(u string) string {
	if i := strings.Index(u, "#"); i >= 0 {
		return u[:i]
	}
	return u
}

func stripCurrencyPrefix(price string) string {
	return strings.Replace(price, "US", "", 1)
}
