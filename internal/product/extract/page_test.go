package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPage(t *testing.T) {
	page, err := LoadPage(`<html><body><div id="t">ok</div><script>{\"key\":\"value\"}</script></body></html>`)
	require.NoError(t, err)

	// 이스케이프된 따옴표가 복원되어 정규식 탐색이 가능해야 한다.
	assert.Contains(t, page.RawHTML, `{"key":"value"}`)
	assert.Equal(t, "ok", page.Doc.Find("#t").Text())
}

func TestItemCode(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "상품 URL에서 추출",
			url:  "https://www.dhgate.com/product/wireless-earbuds/987654321.html",
			want: "987654321",
		},
		{
			name: "쿼리 문자열 있는 URL",
			url:  "https://www.dhgate.com/product/x/123456.html?f=bm",
			want: "123456",
		},
		{
			name: "아이템 코드 없음",
			url:  "https://www.dhgate.com/wholesale/earbuds.html#pos",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ItemCode(tt.url))
		})
	}
}
