// Package product 마켓플레이스 상품 페이지에서 추출한 데이터의 도메인 모델과
// 수집 파이프라인, 응답 캐시를 제공합니다.
package product

// PriceTier 최소 주문 수량 구간별 단가입니다.
//
// 마켓플레이스는 수량 구간의 상한(endQty)으로 가격을 표기하지만,
// 소비자 입장에서는 "n개 이상 주문 시 단가"가 자연스러우므로
// 구간의 하한(MinQuantity) 기준으로 변환하여 보관합니다.
type PriceTier struct {
	Price       float64 `json:"price"`
	MinQuantity int     `json:"minQuantity"`
}

// AttributeValue 상품 옵션(색상, 사이즈 등)의 선택 가능한 값 하나입니다.
type AttributeValue struct {
	Value    string `json:"value"`
	ImageURL string `json:"image_url"`
}

// ReviewImage 리뷰에 첨부된 이미지입니다.
type ReviewImage struct {
	URL       string `json:"url"`
	Thumbnail string `json:"thumbnail"`
}

// ReviewAttribute 구매자가 선택했던 상품 옵션입니다.
type ReviewAttribute struct {
	AttrName  string `json:"attrname"`
	AttrValue string `json:"attrvalue"`
}

// ReviewBuyer 리뷰 작성자 정보입니다.
type ReviewBuyer struct {
	Nickname    string `json:"nickname"`
	Level       string `json:"level"`
	Country     string `json:"country"`
	CountryName string `json:"countryName"`
}

// Review 상품 구매 리뷰입니다.
type Review struct {
	ID         string            `json:"id"`
	Date       int64             `json:"date"`
	DateText   string            `json:"dateText"`
	Rating     float64           `json:"rating"`
	Content    string            `json:"content"`
	Buyer      ReviewBuyer       `json:"buyer"`
	Images     []ReviewImage     `json:"images"`
	Attributes []ReviewAttribute `json:"attributes"`
}

// PriceRange 추천 상품의 최소/최대 가격입니다.
type PriceRange struct {
	Min string `json:"min"`
	Max string `json:"max"`
}

// RecommendedProductPrice 추천 상품의 현재가와 정가입니다.
type RecommendedProductPrice struct {
	Current  PriceRange `json:"current"`
	Original PriceRange `json:"original"`
}

// RecommendedProductShipping 추천 상품의 배송 조건입니다.
type RecommendedProductShipping struct {
	Free       bool  `json:"free"`
	XDayArrive int64 `json:"xDayArrive"`
}

// RecommendedProductSeller 추천 상품의 판매자 정보입니다.
type RecommendedProductSeller struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// RecommendedProduct 상품 페이지 하단에 노출되는 연관 추천 상품입니다.
type RecommendedProduct struct {
	Title    string                     `json:"title"`
	ItemCode string                     `json:"itemCode"`
	URL      string                     `json:"url"`
	Image    string                     `json:"image"`
	Price    RecommendedProductPrice    `json:"price"`
	MinOrder string                     `json:"minOrder"`
	Rating   string                     `json:"rating"`
	Order    int64                      `json:"order"`
	Orders   string                     `json:"orders"`
	Shipping RecommendedProductShipping `json:"shipping"`
	Seller   RecommendedProductSeller   `json:"seller"`
}

// Product 상품 페이지와 부가 API에서 수집한 데이터를 하나로 묶은 최종 결과입니다.
//
// Recommendations는 상품 URL에서 아이템 코드를 찾지 못한 경우 nil이 되며,
// 이때 JSON 직렬화에서 필드 자체가 생략됩니다.
type Product struct {
	Title           string                      `json:"title"`
	Images          []string                    `json:"images"`
	Description     string                      `json:"description"`
	PriceTiers      []PriceTier                 `json:"priceInfos"`
	SoldCount       int                         `json:"soldCount"`
	Attributes      map[string][]AttributeValue `json:"attributes"`
	Specifications  map[string]string           `json:"specifications"`
	Reviews         []Review                    `json:"reviews"`
	Recommendations []RecommendedProduct        `json:"recommendations,omitempty"`
}
