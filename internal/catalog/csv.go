package catalog

import (
	"encoding/csv"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/darkkaiser/scraper-server/internal/product"
)

// WooCommerce CSV 가져오기에서 상품 행을 식별하는 기준 ID
const csvParentRowID = 1000

var csvNonAlnumRegexp = regexp.MustCompile(`[^a-zA-Z0-9]`)

// csvAttrEntry CSV 속성 열의 순서를 보존하기 위한 항목입니다.
type csvAttrEntry struct {
	name     string
	values   []product.AttributeValue
	fromSpec bool
}

// ProductCSV 수집된 상품을 WooCommerce 상품 가져오기(CSV) 형식으로 변환합니다.
//
// 옵션이 있으면 variable 상품 행과 옵션 조합별 variation 행을, 없으면
// simple 상품 행 하나를 생성합니다. 사양은 변형에 쓰이지 않는 속성 열로
// 함께 내보내며, "Category" 사양은 분류와 중복되므로 제외합니다.
func ProductCSV(p *product.Product) string {
	entries := make([]csvAttrEntry, 0, len(p.Attributes)+len(p.Specifications))
	for _, name := range sortedAttrKeys(p.Attributes) {
		entries = append(entries, csvAttrEntry{name: name, values: p.Attributes[name]})
	}
	for _, name := range sortedKeys(p.Specifications) {
		if strings.EqualFold(name, "category") {
			continue
		}
		entries = append(entries, csvAttrEntry{
			name:     name,
			values:   []product.AttributeValue{{Value: p.Specifications[name]}},
			fromSpec: true,
		})
	}

	headers := []string{
		"ID", "Type", "SKU", "Name", "Published", "Is featured?",
		"Visibility in catalog", "Description", "Tax status", "In stock?",
		"Stock", "Images", "Parent", "Position", "Regular price",
	}
	for i := range entries {
		n := i + 1
		headers = append(headers,
			fmt.Sprintf("Attribute %d name", n),
			fmt.Sprintf("Attribute %d value(s)", n),
			fmt.Sprintf("Attribute %d visible", n),
			fmt.Sprintf("Attribute %d global", n),
		)
	}

	isSimple := len(p.Attributes) == 0

	basePrice := 0.0
	if len(p.PriceTiers) > 0 {
		basePrice = p.PriceTiers[0].Price
	}

	stock := 100
	if p.SoldCount > 0 {
		stock = p.SoldCount * 99
	}

	baseSKU := csvBaseSKU(p.Title)

	productType := "variable"
	regularPrice := ""
	if isSimple {
		productType = "simple"
		regularPrice = formatPrice(basePrice)
	}

	parentRow := []string{
		strconv.Itoa(csvParentRowID),
		productType,
		baseSKU,
		p.Title,
		"1", "0", "visible",
		SpecificationsHTML(p.Specifications) + p.Description,
		"taxable", "1",
		strconv.Itoa(stock),
		strings.Join(p.Images, ", "),
		"", "0",
		regularPrice,
	}
	for _, entry := range entries {
		values := make([]string, 0, len(entry.values))
		for _, av := range entry.values {
			values = append(values, av.Value)
		}

		global := "1"
		if entry.fromSpec {
			global = "0"
		}
		parentRow = append(parentRow, entry.name, strings.Join(values, ", "), "1", global)
	}

	rows := [][]string{parentRow}

	if !isSimple {
		var generate func(current []product.AttributeValue, depth int)
		generate = func(current []product.AttributeValue, depth int) {
			if depth == len(entries) {
				rows = append(rows, buildVariationRow(p, entries, current, baseSKU, basePrice, stock, len(rows)))
				return
			}
			for _, value := range entries[depth].values {
				generate(append(current, value), depth+1)
			}
		}
		generate(make([]product.AttributeValue, 0, len(entries)), 0)
	}

	return encodeCSV(headers, rows)
}

// buildVariationRow 옵션 값 조합 하나를 variation 행으로 변환합니다.
func buildVariationRow(p *product.Product, entries []csvAttrEntry, values []product.AttributeValue, baseSKU string, basePrice float64, stock, position int) []string {
	valueNames := make([]string, 0, len(values))
	skuParts := make([]string, 0, len(values))
	for _, value := range values {
		valueNames = append(valueNames, value.Value)
		skuParts = append(skuParts, csvNonAlnumRegexp.ReplaceAllString(value.Value, ""))
	}

	row := []string{
		strconv.Itoa(csvParentRowID + position),
		"variation",
		baseSKU + "-" + strings.Join(skuParts, "-"),
		p.Title + " - " + strings.Join(valueNames, " "),
		"1", "0", "visible",
		"",
		"taxable", "1",
		strconv.Itoa(stock),
		values[0].ImageURL,
		"id:" + strconv.Itoa(csvParentRowID),
		strconv.Itoa(position),
		formatPrice(basePrice),
	}
	for i, value := range values {
		row = append(row, entries[i].name, value.Value, "1", "1")
	}

	return row
}

// csvBaseSKU 제목 앞 20자에서 영숫자만 남긴 CSV용 기본 SKU를 생성합니다.
func csvBaseSKU(title string) string {
	runes := []rune(title)
	if len(runes) > 20 {
		runes = runes[:20]
	}
	return csvNonAlnumRegexp.ReplaceAllString(string(runes), "")
}

func formatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', -1, 64)
}

// ReviewsCSV 리뷰 목록을 CSV 형식으로 변환합니다.
func ReviewsCSV(reviews []product.Review) string {
	headers := []string{
		"Review ID", "Date", "Rating", "Reviewer", "Country",
		"Content", "Images", "Purchased Variations",
	}

	rows := make([][]string, 0, len(reviews))
	for _, review := range reviews {
		images := make([]string, 0, len(review.Images))
		for _, img := range review.Images {
			images = append(images, img.URL)
		}

		variations := make([]string, 0, len(review.Attributes))
		for _, attr := range review.Attributes {
			variations = append(variations, attr.AttrName+": "+attr.AttrValue)
		}

		rows = append(rows, []string{
			review.ID,
			review.DateText,
			strconv.FormatFloat(review.Rating, 'f', -1, 64),
			review.Buyer.Nickname,
			review.Buyer.CountryName,
			review.Content,
			strings.Join(images, "; "),
			strings.Join(variations, "; "),
		})
	}

	return encodeCSV(headers, rows)
}

func encodeCSV(headers []string, rows [][]string) string {
	var sb strings.Builder

	w := csv.NewWriter(&sb)
	w.Write(headers)
	for _, row := range rows {
		// 모든 행의 열 수를 헤더와 맞춘다.
		for len(row) < len(headers) {
			row = append(row, "")
		}
		w.Write(row)
	}
	w.Flush()

	return strings.TrimRight(sb.String(), "\n")
}
