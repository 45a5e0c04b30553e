package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	apperrors "github.com/darkkaiser/scraper-server/internal/pkg/errors"
	"github.com/tidwall/gjson"
)

// Category WooCommerce 상품 분류입니다.
//
// Name은 계층 구조를 담은 전체 경로("Parent > Child") 형태로 제공됩니다.
type Category struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Slug   string `json:"slug"`
	Parent int64  `json:"parent"`
	Count  int64  `json:"count"`
}

// ListCategories 쇼핑몰의 상품 분류 전체를 조회합니다.
//
// 하위 분류의 이름은 상위 분류 이름을 " > "로 이어붙인 전체 경로로
// 변환하여, 이름만으로 어느 계층의 분류인지 알 수 있도록 합니다.
func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	listURL := c.baseURL + "/wp-json/wc/v3/products/categories?per_page=100&orderby=id"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, listURL, nil)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.Internal, "분류 조회 요청 생성에 실패했습니다.")
	}
	req.SetBasicAuth(c.consumerKey, c.consumerSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.Unavailable, "분류 조회 요청 전송 중 에러가 발생했습니다.")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.Unavailable, "분류 조회 응답을 읽는 중 에러가 발생했습니다.")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.New(apperrors.ExecutionFailed, fmt.Sprintf("분류 조회가 실패했습니다. 상태 코드: %s, 응답: %s", resp.Status, string(data)))
	}

	categories := make([]Category, 0)
	gjson.ParseBytes(data).ForEach(func(_, item gjson.Result) bool {
		categories = append(categories, Category{
			ID:     item.Get("id").Int(),
			Name:   item.Get("name").String(),
			Slug:   item.Get("slug").String(),
			Parent: item.Get("parent").Int(),
			Count:  item.Get("count").Int(),
		})
		return true
	})

	byID := make(map[int64]Category, len(categories))
	for _, category := range categories {
		byID[category.ID] = category
	}

	for i, category := range categories {
		if category.Parent == 0 {
			continue
		}

		pathParts := []string{category.Name}
		current := category
		for current.Parent != 0 {
			parent, ok := byID[current.Parent]
			if !ok {
				break
			}
			pathParts = append([]string{parent.Name}, pathParts...)
			current = parent
		}

		categories[i].Name = strings.Join(pathParts, " > ")
	}

	return categories, nil
}
