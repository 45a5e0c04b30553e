package extract

import (
	"regexp"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/darkkaiser/scraper-server/internal/product"
)

// 상태 JSON에서 상품 옵션 목록(itemAttrList)의 배열 부분만 잘라낸다.
// firstItemAttrList 키 직전까지가 배열의 끝이다.
var itemAttrListRegexp = regexp.MustCompile(`"itemAttrList":\[(.*?)\],"firstItemAttrList"`)

// 배송 출발지는 상품 옵션이 아니므로 분류에서 제외한다.
const shippingFromAttrName = "Shipping from"

// Attributes 페이지 원문에 포함된 상태 JSON에서 상품 옵션 분류를 추출합니다.
//
// 옵션 이름(색상, 사이즈 등)을 키로, 선택 가능한 값 목록을 값으로 하는 맵을
// 반환합니다. 옵션 값에 견본 이미지가 있으면 썸네일 해상도 토큰(200x200)을
// 원본 해상도(0x0)로 치환합니다. 기준 문자열을 찾지 못하거나 JSON이 유효하지
// 않으면 빈 맵을 반환하며 에러로 취급하지 않습니다.
func Attributes(rawHTML string) map[string][]product.AttributeValue {
	attributes := make(map[string][]product.AttributeValue)

	m := itemAttrListRegexp.FindStringSubmatch(rawHTML)
	if m == nil {
		return attributes
	}

	// 상태 JSON에 남아있는 역슬래시 이스케이프를 제거한다.
	raw := "[" + strings.ReplaceAll(m[1], `\`, "") + "]"
	if !gjson.Valid(raw) {
		return attributes
	}

	gjson.Parse(raw).ForEach(func(_, attr gjson.Result) bool {
		name := attr.Get("attrName").String()
		if name == "" || name == shippingFromAttrName {
			return true
		}

		values := make([]product.AttributeValue, 0)
		attr.Get("itemAttrvalList").ForEach(func(_, val gjson.Result) bool {
			values = append(values, product.AttributeValue{
				Value:    val.Get("attrValName").String(),
				ImageURL: strings.Replace(val.Get("picUrl").String(), "200x200", "0x0", 1),
			})
			return true
		})

		attributes[name] = values
		return true
	})

	return attributes
}
