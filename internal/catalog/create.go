package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	apperrors "github.com/darkkaiser/scraper-server/internal/pkg/errors"
	"github.com/darkkaiser/scraper-server/internal/product"
	applog "github.com/darkkaiser/scraper-server/pkg/log"
)

// CreateResult 상품 등록 결과입니다.
type CreateResult struct {
	ProductID  int64  `json:"product_id"`
	ProductURL string `json:"product_url"`
	Variations int    `json:"variations"`
}

type wcAttribute struct {
	Name      string   `json:"name"`
	Visible   bool     `json:"visible"`
	Variation bool     `json:"variation"`
	Options   []string `json:"options"`
}

type wcImage struct {
	ID  int64  `json:"id,omitempty"`
	Src string `json:"src,omitempty"`
}

type wcProduct struct {
	Name         string        `json:"name"`
	Type         string        `json:"type"`
	Description  string        `json:"description"`
	SKU          string        `json:"sku"`
	RegularPrice string        `json:"regular_price,omitempty"`
	Categories   []CategoryRef `json:"categories"`
	Tags         []TagRef      `json:"tags"`
	Images       []wcImage     `json:"images"`
	Attributes   []wcAttribute `json:"attributes"`
}

type wcVariationAttribute struct {
	Name   string `json:"name"`
	Option string `json:"option"`
}

type wcVariation struct {
	RegularPrice string                 `json:"regular_price"`
	SKU          string                 `json:"sku"`
	Attributes   []wcVariationAttribute `json:"attributes"`
	Image        *wcImage               `json:"image,omitempty"`
}

// CreateProduct 수집된 상품을 WooCommerce에 등록합니다.
//
// 상품 이미지를 모두 미디어 라이브러리에 재호스팅한 뒤, 옵션이 있으면
// 변형(variable) 상품으로, 없으면 단순(simple) 상품으로 생성합니다.
// 변형 상품은 옵션 값의 모든 조합마다 변형을 만들고, 견본 이미지가 있는
// 첫 옵션의 이미지를 변형에 연결합니다. 등록 전체(이미지 업로드 포함)는
// 하나의 시간 예산 안에서 처리됩니다.
func (c *Client) CreateProduct(ctx context.Context, p *product.Product, edit EditData) (*CreateResult, error) {
	if p == nil {
		return nil, apperrors.New(apperrors.InvalidInput, "등록할 상품 데이터가 지정되지 않았습니다.")
	}

	ctx, cancel := context.WithTimeout(ctx, c.uploadTimeout)
	defer cancel()

	uploadedImages, err := c.uploadImages(ctx, p.Images)
	if err != nil {
		return nil, err
	}

	productType := "simple"
	if len(p.Attributes) > 0 {
		productType = "variable"
	}

	description := edit.Description
	if description == "" {
		description = p.Description
	}

	body := wcProduct{
		Name:        p.Title,
		Type:        productType,
		Description: SpecificationsHTML(p.Specifications) + description,
		SKU:         GenerateSKU(p.Title, nil),
		Categories:  edit.Categories,
		Tags:        edit.Tags,
		Attributes:  buildAttributes(p),
	}
	if productType == "simple" {
		body.RegularPrice = edit.RegularPrice
	}
	for _, media := range uploadedImages {
		body.Images = append(body.Images, wcImage{Src: media.Src})
	}

	data, err := c.postJSON(ctx, "/wp-json/wc/v3/products", body)
	if err != nil {
		return nil, err
	}
	productID := gjson.GetBytes(data, "id").Int()

	variationCount := 0
	if productType == "variable" {
		variations := GenerateVariations(p.Attributes)
		for _, variation := range variations {
			if err := c.createVariation(ctx, productID, p, edit, variation); err != nil {
				return nil, err
			}
		}
		variationCount = len(variations)
	}

	applog.WithComponentAndFields("catalog.client", log.Fields{
		"product_id": productID,
		"type":       productType,
		"images":     len(uploadedImages),
		"variations": variationCount,
	}).Info("상품 등록 완료")

	return &CreateResult{
		ProductID:  productID,
		ProductURL: fmt.Sprintf("%s/wp-admin/post.php?post=%d&action=edit", c.baseURL, productID),
		Variations: variationCount,
	}, nil
}

// createVariation 변형 하나를 생성합니다. 견본 이미지가 있는 첫 옵션의
// 이미지를 재호스팅하여 변형에 연결하고, 업로드 실패는 무시하고 진행합니다.
func (c *Client) createVariation(ctx context.Context, productID int64, p *product.Product, edit EditData, variation map[string]string) error {
	body := wcVariation{
		RegularPrice: edit.RegularPrice,
		SKU:          GenerateSKU(p.Title, variation),
	}

	for _, name := range sortedKeys(variation) {
		body.Attributes = append(body.Attributes, wcVariationAttribute{
			Name:   name,
			Option: variation[name],
		})

		if body.Image != nil {
			continue
		}
		for _, attrValue := range p.Attributes[name] {
			if attrValue.Value == variation[name] && attrValue.ImageURL != "" {
				media, err := c.uploadMedia(ctx, attrValue.ImageURL)
				if err != nil {
					applog.WithComponentAndFields("catalog.client", log.Fields{
						"image_url": attrValue.ImageURL,
						"error":     err.Error(),
					}).Warn("변형 이미지 업로드 실패, 이미지 없이 진행")
					break
				}
				body.Image = &wcImage{ID: media.ID, Src: media.Src}
				break
			}
		}
	}

	_, err := c.postJSON(ctx, fmt.Sprintf("/wp-json/wc/v3/products/%d/variations", productID), body)
	return err
}

// postJSON wc/v3 API에 JSON 본문을 POST하고 응답 본문을 반환합니다.
func (c *Client) postJSON(ctx context.Context, path string, body any) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.Internal, "요청 본문의 JSON 변환이 실패하였습니다.")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.Internal, fmt.Sprintf("API 요청 생성에 실패했습니다. (경로: %s)", path))
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.consumerKey, c.consumerSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.Unavailable, fmt.Sprintf("API(%s) 요청 전송 중 에러가 발생했습니다.", path))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.Unavailable, fmt.Sprintf("API(%s) 응답을 읽는 중 에러가 발생했습니다.", path))
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, apperrors.New(apperrors.ExecutionFailed, fmt.Sprintf("API(%s) 요청이 실패했습니다. 상태 코드: %s, 응답: %s", path, resp.Status, string(data)))
	}

	return data, nil
}

// buildAttributes 사양은 변형에 쓰이지 않는 속성으로, 상품 옵션은 변형 속성으로 변환합니다.
func buildAttributes(p *product.Product) []wcAttribute {
	attributes := make([]wcAttribute, 0, len(p.Specifications)+len(p.Attributes))

	for _, name := range sortedKeys(p.Specifications) {
		attributes = append(attributes, wcAttribute{
			Name:      name,
			Visible:   true,
			Variation: false,
			Options:   []string{p.Specifications[name]},
		})
	}

	for _, name := range sortedAttrKeys(p.Attributes) {
		options := make([]string, 0, len(p.Attributes[name]))
		for _, value := range p.Attributes[name] {
			options = append(options, value.Value)
		}
		attributes = append(attributes, wcAttribute{
			Name:      name,
			Visible:   true,
			Variation: true,
			Options:   options,
		})
	}

	return attributes
}

// GenerateVariations 상품 옵션 값들의 모든 조합(데카르트 곱)을 생성합니다.
func GenerateVariations(attributes map[string][]product.AttributeValue) []map[string]string {
	names := sortedAttrKeys(attributes)

	combinations := []map[string]string{}
	var generate func(current map[string]string, depth int)
	generate = func(current map[string]string, depth int) {
		if depth == len(names) {
			combination := make(map[string]string, len(current))
			for k, v := range current {
				combination[k] = v
			}
			combinations = append(combinations, combination)
			return
		}

		name := names[depth]
		for _, value := range attributes[name] {
			current[name] = value.Value
			generate(current, depth+1)
		}
		delete(current, name)
	}
	generate(map[string]string{}, 0)

	return combinations
}

// SpecificationsHTML 상품 사양을 설명 상단에 붙일 HTML 표로 변환합니다.
func SpecificationsHTML(specifications map[string]string) string {
	if len(specifications) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(`<div style="margin-bottom: 20px;"><h3 style="margin-bottom: 10px;">Specifications</h3>`)
	sb.WriteString(`<table style="width: 100%; border-collapse: collapse; border: 1px solid #ddd;"><tbody>`)
	for _, name := range sortedKeys(specifications) {
		sb.WriteString(`<tr><td style="padding: 8px; border: 1px solid #ddd; font-weight: bold; width: 30%;">`)
		sb.WriteString(name)
		sb.WriteString(`</td><td style="padding: 8px; border: 1px solid #ddd;">`)
		sb.WriteString(specifications[name])
		sb.WriteString(`</td></tr>`)
	}
	sb.WriteString(`</tbody></table></div>`)

	return sb.String()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func sortedAttrKeys(m map[string][]product.AttributeValue) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
