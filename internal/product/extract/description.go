package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const descriptionSelector = `[class^="prodDesc_decHtml"]`

var (
	divOpenRegexp   = regexp.MustCompile(`<div`)
	divCloseRegexp  = regexp.MustCompile(`</div>`)
	tdOpenRegexp    = regexp.MustCompile(`<td`)
	tdCloseRegexp   = regexp.MustCompile(`</td>`)
	tableOpenRegexp = regexp.MustCompile(`<table[^>]*>`)

	emptyParagraphRegexp = regexp.MustCompile(`<p>\s*</p>`)
	marketplaceURLRegexp = regexp.MustCompile(`https?://([\w\-]+\.)*dhgate\.com\S*?\.html`)
	anchorRegexp         = regexp.MustCompile(`<a[^>]*>(.*?)</a>`)
	sizeAttrRegexp       = regexp.MustCompile(`\s+(width|height|style)="[^"]*"`)
	bareSizeAttrRegexp   = regexp.MustCompile(`\s+(width|height)=\d+`)

	htmlCommentRegexp = regexp.MustCompile(`<!--.*?-->`)
	interTagGapRegexp = regexp.MustCompile(`>\s+<`)
	whitespaceRegexp  = regexp.MustCompile(`\s+`)
	imgTagRegexp      = regexp.MustCompile(`<img[^>]*>`)
	imgPlaceholderFmt = "\x00img%d\x00"
)

// Description 상품 설명 영역을 추출하고 외부 사이트 흔적과 장식 요소를 제거합니다.
//
// 결과 HTML에는 script/style/link 태그와 class/style/width/height 속성이
// 포함되지 않습니다. 설명 영역이 없으면 빈 문자열을 반환합니다.
func Description(doc *goquery.Document) string {
	var parts []string

	doc.Find(descriptionSelector).Children().Each(func(_ int, child *goquery.Selection) {
		child.Find("style, script, link").Remove()

		child.Find("*").Each(func(_ int, sel *goquery.Selection) {
			switch goquery.NodeName(sel) {
			case "img":
				src, _ := sel.Attr("src")
				sel.SetAttr("src", imageResolutionRegexp.ReplaceAllString(src, "0x0"))
				removeAttrs(sel, "class", "style", "width", "height", "loading")
			case "a":
				if href, _ := sel.Attr("href"); strings.Contains(href, "dhgate.com") {
					// 마켓플레이스로 향하는 링크는 태그를 벗겨내고 내용만 남긴다.
					// 내용 노드를 그대로 옮겨야 링크 안쪽 요소들도 이후 순회에서 정리된다.
					sel.ReplaceWithSelection(sel.Contents())
				} else {
					removeAttrs(sel, "class", "style")
				}
			default:
				removeAttrs(sel, "class", "style")
			}
		})

		if h := innerHTML(child); h != "" {
			parts = append(parts, h)
		}
	})

	description := strings.Join(parts, "")

	// 표와 구획 요소를 문단으로 평탄화하고, 외부 URL과 잔여 장식 속성을 제거한다.
	description = divOpenRegexp.ReplaceAllString(description, "<p")
	description = divCloseRegexp.ReplaceAllString(description, "</p>")
	description = tdOpenRegexp.ReplaceAllString(description, "<p")
	description = tdCloseRegexp.ReplaceAllString(description, "</p>")
	description = tableOpenRegexp.ReplaceAllString(description, "<p>")
	description = strings.ReplaceAll(description, "</table>", "</p>")
	description = marketplaceURLRegexp.ReplaceAllString(description, "")
	description = anchorRegexp.ReplaceAllString(description, "$1")
	description = sizeAttrRegexp.ReplaceAllString(description, "")
	description = bareSizeAttrRegexp.ReplaceAllString(description, "")
	description = emptyParagraphRegexp.ReplaceAllString(description, "")

	return minifyHTML(description)
}

// minifyHTML 주석과 불필요한 공백을 제거하여 HTML을 압축합니다.
// img 태그는 내부 공백까지 원형 그대로 보존합니다.
func minifyHTML(html string) string {
	var imgs []string
	html = imgTagRegexp.ReplaceAllStringFunc(html, func(tag string) string {
		imgs = append(imgs, tag)
		return fmt.Sprintf(imgPlaceholderFmt, len(imgs)-1)
	})

	html = htmlCommentRegexp.ReplaceAllString(html, "")
	html = whitespaceRegexp.ReplaceAllString(html, " ")
	html = interTagGapRegexp.ReplaceAllString(html, "><")
	html = strings.TrimSpace(html)

	for i, tag := range imgs {
		html = strings.Replace(html, fmt.Sprintf(imgPlaceholderFmt, i), tag, 1)
	}

	return html
}

func removeAttrs(sel *goquery.Selection, names ...string) {
	for _, name := range names {
		sel.RemoveAttr(name)
	}
}

func innerHTML(sel *goquery.Selection) string {
	h, err := sel.Html()
	if err != nil {
		return ""
	}
	return h
}
