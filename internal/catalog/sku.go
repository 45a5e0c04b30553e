package catalog

import (
	"regexp"
	"sort"
	"strings"

	"github.com/iancoleman/strcase"
)

// baseSKUMaxLength WooCommerce에서 관리하기 좋은 기본 SKU 최대 길이
const baseSKUMaxLength = 20

var nonAlnumRegexp = regexp.MustCompile(`[^a-z0-9]+`)

// GenerateSKU 상품 제목과 변형 옵션 값으로 SKU를 생성합니다.
//
// 기본 SKU는 제목을 케밥 케이스로 변환한 뒤 20자로 자른 값이며,
// 변형 상품은 옵션 값들을 이어붙여 구분합니다.
func GenerateSKU(title string, variation map[string]string) string {
	sku := strcase.ToKebab(title)
	sku = nonAlnumRegexp.ReplaceAllString(sku, "-")
	sku = strings.Trim(sku, "-")
	if len(sku) > baseSKUMaxLength {
		sku = sku[:baseSKUMaxLength]
	}

	if len(variation) > 0 {
		values := make([]string, 0, len(variation))
		for _, value := range sortedValues(variation) {
			values = append(values, nonAlnumRegexp.ReplaceAllString(strings.ToLower(value), ""))
		}
		sku += "-" + strings.Join(values, "-")
	}

	return sku
}

// sortedValues 변형 옵션 값을 옵션 이름 순서로 정렬하여 반환합니다.
// 맵 순회 순서에 따라 SKU가 달라지는 것을 방지합니다.
func sortedValues(variation map[string]string) []string {
	names := make([]string, 0, len(variation))
	for name := range variation {
		names = append(names, name)
	}
	sort.Strings(names)

	values := make([]string, 0, len(names))
	for _, name := range names {
		values = append(values, variation[name])
	}
	return values
}
