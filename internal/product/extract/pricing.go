package extract

import (
	"regexp"
	"sort"
	"strconv"

	"github.com/darkkaiser/scraper-server/internal/product"
)

// 상품 페이지의 상태 JSON에 포함된 수량 구간별 가격 항목을 찾는다.
// 프로모션 할인가(promDiscountPrice)가 있으면 그 값이, 없으면 정가(originalPrice)가 잡힌다.
var (
	priceEntryRegexp = regexp.MustCompile(`"endQty":(\d+)[^}]*?(?:"promDiscountPrice"|"originalPrice"):(\d+(?:\.\d+)?)`)
)

// PriceTiers 상품 페이지 원문에서 수량 구간별 단가를 추출합니다.
//
// 동일한 수량 상한이 여러 번 등장하면 마지막에 등장한 가격이 우선합니다.
// 수량 오름차순으로 정렬한 뒤, 첫 구간의 최소 수량은 1로, 이후 구간은
// 직전 구간 상한 + 1로 변환합니다. 매칭되는 항목이 없으면 빈 슬라이스를
// 반환하며 에러로 취급하지 않습니다.
func PriceTiers(rawHTML string) []product.PriceTier {
	matches := priceEntryRegexp.FindAllStringSubmatch(rawHTML, -1)

	priceByQty := make(map[int]float64)
	for _, m := range matches {
		qty, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		price, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			continue
		}
		if qty == 0 || price == 0 {
			continue
		}
		priceByQty[qty] = price
	}

	quantities := make([]int, 0, len(priceByQty))
	for qty := range priceByQty {
		quantities = append(quantities, qty)
	}
	sort.Ints(quantities)

	tiers := make([]product.PriceTier, 0, len(quantities))
	for i, qty := range quantities {
		minQuantity := 1
		if i > 0 {
			// 직전 구간의 상한 다음 수량부터 이 구간의 가격이 적용된다.
			minQuantity = quantities[i-1] + 1
		}
		tiers = append(tiers, product.PriceTier{
			Price:       priceByQty[qty],
			MinQuantity: minQuantity,
		})
	}

	return tiers
}
