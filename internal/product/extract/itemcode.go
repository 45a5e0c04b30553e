package extract

import "regexp"

// 상품 URL 경로 끝의 숫자 코드가 부가 API 호출에 쓰이는 아이템 코드다.
var itemCodeRegexp = regexp.MustCompile(`/(\d+)\.html`)

// ItemCode 상품 URL에서 아이템 코드를 추출합니다.
// 찾지 못하면 빈 문자열을 반환하며, 이 경우 리뷰와 추천 상품 수집은 생략됩니다.
func ItemCode(url string) string {
	m := itemCodeRegexp.FindStringSubmatch(url)
	if m == nil {
		return ""
	}
	return m[1]
}
