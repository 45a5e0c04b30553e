package extract

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/darkkaiser/scraper-server/internal/fetcher"
	"github.com/darkkaiser/scraper-server/internal/product"
	"github.com/darkkaiser/scraper-server/internal/scraper"
)

const reviewEndpointPath = "/reviewbuyer/reviewOfProd/pageReviewOfProd"

// 부가 API 요청에 공통으로 사용하는 헤더. 브라우저 헤더 데코레이터가
// 주입하는 기본값(accept: text/html...)을 JSON용으로 재정의한다.
var jsonRequestHeader = map[string]string{
	"accept":       "application/json",
	"content-type": "application/json",
}

// Reviews 리뷰 API를 호출하여 지정된 상품의 구매 리뷰 목록을 가져옵니다.
//
// 페이지 크기는 호출마다 10~109 사이의 무작위 값을 사용합니다. 고정된 크기로
// 반복 호출하면 자동화 트래픽으로 분류되기 쉽기 때문입니다. 응답에 리뷰 데이터가
// 없으면 빈 슬라이스를 반환하고, HTTP 에러는 그대로 전파합니다.
func Reviews(ctx context.Context, f fetcher.Fetcher, baseURL, itemCode, productURL string) ([]product.Review, error) {
	pageSize := rand.IntN(100) + 10

	reviewURL := fmt.Sprintf(
		"%s%s?itemCode=%s&language=en&client=pc&dispCurrency=USD&sortType=1&pageNum=1&pageSize=%d&url_r=%s",
		baseURL, reviewEndpointPath, itemCode, pageSize, url.QueryEscape(productURL),
	)

	data, err := scraper.FetchJSONBytes(ctx, f, http.MethodGet, reviewURL, jsonRequestHeader, nil)
	if err != nil {
		return nil, err
	}

	reviews := make([]product.Review, 0)
	gjson.GetBytes(data, "data.data").ForEach(func(_, r gjson.Result) bool {
		review := product.Review{
			ID:       r.Get("reviewid").String(),
			Date:     r.Get("createddate").Int(),
			DateText: r.Get("createdDateText").String(),
			Rating:   r.Get("score").Float(),
			Content:  r.Get("content").String(),
			Buyer: product.ReviewBuyer{
				Nickname:    r.Get("buyerNickname").String(),
				Level:       r.Get("buyerlevel").String(),
				Country:     r.Get("country").String(),
				CountryName: r.Get("countryFullname").String(),
			},
			Images:     make([]product.ReviewImage, 0),
			Attributes: make([]product.ReviewAttribute, 0),
		}

		r.Get("reviewAttach.imgs").ForEach(func(_, img gjson.Result) bool {
			imgURL := img.Get("imgUrl").String()

			thumbnail := img.Get("miniImgUrl").String()
			if thumbnail == "" {
				thumbnail = imgURL
			}

			review.Images = append(review.Images, product.ReviewImage{
				URL:       strings.Replace(imgURL, "200x200", "0x0", 1),
				Thumbnail: thumbnail,
			})
			return true
		})

		r.Get("prodAttrs").ForEach(func(_, attr gjson.Result) bool {
			review.Attributes = append(review.Attributes, product.ReviewAttribute{
				AttrName:  attr.Get("attrname").String(),
				AttrValue: attr.Get("attrvalue").String(),
			})
			return true
		})

		reviews = append(reviews, review)
		return true
	})

	return reviews, nil
}
