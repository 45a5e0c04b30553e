// Package extract 상품 페이지 HTML과 부가 API 응답에서 도메인 데이터를 추출합니다.
//
// 상품 페이지는 서버 렌더링된 DOM과 함께 프런트엔드 상태 JSON을 본문에 포함하고
// 있어, DOM 셀렉터 기반 추출과 원문 정규식 기반 추출을 병행합니다.
package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	apperrors "github.com/darkkaiser/scraper-server/internal/pkg/errors"
)

// Page 전처리가 끝난 상품 페이지입니다.
//
// RawHTML은 이스케이프된 따옴표(\")가 제거된 본문으로, 페이지에 포함된
// 상태 JSON을 정규식으로 바로 탐색할 수 있는 형태입니다. Doc은 동일한
// 본문을 파싱한 goquery 문서입니다.
type Page struct {
	RawHTML string
	Doc     *goquery.Document
}

// LoadPage 원문 HTML을 전처리하고 파싱하여 Page를 생성합니다.
func LoadPage(rawHTML string) (*Page, error) {
	// 페이지에 포함된 상태 JSON은 따옴표가 이스케이프되어 있어 먼저 복원한다.
	normalized := strings.ReplaceAll(rawHTML, `\"`, `"`)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(normalized))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ParsingFailed, "상품 페이지의 HTML 파싱이 실패하였습니다.")
	}

	return &Page{
		RawHTML: normalized,
		Doc:     doc,
	}, nil
}
