package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/darkkaiser/scraper-server/pkg/strutil"
)

// 마켓플레이스는 CSS 모듈 해시가 붙은 클래스명을 사용하므로 접두사 매칭으로 찾는다.
const (
	titleSelector          = `[class^="productInfo_productInfo"] h1`
	imageListSelector      = `[class^="masterMap_smallMapList"] li span img`
	specificationsSelector = `[class^="prodSpecifications_showUl"]`
	specValueSelector      = `[class^="prodSpecifications_deswrap"]`
	soldCountSelector      = `[class^="productSellerMsg_sold"]`
)

var (
	// 썸네일 해상도 토큰을 원본 해상도로 바꾼다.
	imageResolutionRegexp = regexp.MustCompile(`(?i)(?:200x200|100x100)`)
	soldCountRegexp       = regexp.MustCompile(`(?i)(\d+)\s*sold`)
)

// Title 상품 제목을 추출합니다. 요소가 없으면 빈 문자열을 반환합니다.
func Title(doc *goquery.Document) string {
	return strings.TrimSpace(doc.Find(titleSelector).First().Text())
}

// Images 상품 이미지 URL 목록을 추출합니다.
//
// 썸네일 해상도 토큰(200x200, 100x100)은 원본 해상도(0x0)로 치환하고,
// 등장 순서를 유지한 채 중복과 빈 값을 제거합니다.
func Images(doc *goquery.Document) []string {
	images := make([]string, 0)
	seen := make(map[string]struct{})

	doc.Find(imageListSelector).Each(func(_ int, sel *goquery.Selection) {
		src, ok := sel.Attr("src")
		if !ok {
			return
		}

		src = imageResolutionRegexp.ReplaceAllString(src, "0x0")
		if src == "" {
			return
		}
		if _, dup := seen[src]; dup {
			return
		}

		seen[src] = struct{}{}
		images = append(images, src)
	})

	return images
}

// Specifications 상품 사양 표를 이름-값 맵으로 추출합니다.
//
// 각 항목의 이름은 첫 span 텍스트에서 콜론을 제거한 값이며, 이름이나 값이
// 비어 있는 행은 건너뜁니다.
func Specifications(doc *goquery.Document) map[string]string {
	specifications := make(map[string]string)

	doc.Find(specificationsSelector).Find("li").Each(func(_ int, sel *goquery.Selection) {
		label := strings.TrimSpace(strings.Replace(sel.Find("span").Text(), ":", "", 1))
		value := strings.TrimSpace(sel.Find(specValueSelector).Text())

		if label != "" && value != "" {
			specifications[label] = value
		}
	})

	return specifications
}

// SoldCount 누적 판매 수량을 추출합니다. 판매 문구가 없으면 0을 반환합니다.
func SoldCount(doc *goquery.Document) int {
	text := strutil.NormalizeSpaces(doc.Find(soldCountSelector).Text())

	m := soldCountRegexp.FindStringSubmatch(text)
	if m == nil {
		return 0
	}

	count, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return count
}
