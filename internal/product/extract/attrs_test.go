package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darkkaiser/scraper-server/internal/product"
)

func TestAttributes(t *testing.T) {
	rawHTML := `<script>window.__STATE__={"itemAttrList":[` +
		`{"attrName":"Color","itemAttrvalList":[` +
		`{"attrValName":"Black","picUrl":"https://img.example.com/200x200/black.jpg"},` +
		`{"attrValName":"White","picUrl":""}]},` +
		`{"attrName":"Shipping from","itemAttrvalList":[{"attrValName":"China"}]},` +
		`{"attrName":"Size","itemAttrvalList":[{"attrValName":"XL"}]}` +
		`],"firstItemAttrList":[]}</script>`

	got := Attributes(rawHTML)

	require.Len(t, got, 2)
	assert.NotContains(t, got, "Shipping from")
	assert.Equal(t, []product.AttributeValue{
		{Value: "Black", ImageURL: "https://img.example.com/0x0/black.jpg"},
		{Value: "White", ImageURL: ""},
	}, got["Color"])
	assert.Equal(t, []product.AttributeValue{
		{Value: "XL", ImageURL: ""},
	}, got["Size"])
}

func TestAttributes_BackslashStripped(t *testing.T) {
	// 상태 JSON에 역슬래시 이스케이프가 남아 있어도 제거 후 해석되어야 한다.
	rawHTML := `"itemAttrList":[{"attrName":"Color","itemAttrvalList":[{"attrValName":"Red\/Blue"}]}],"firstItemAttrList"`

	got := Attributes(rawHTML)
	require.Len(t, got, 1)
	assert.Equal(t, "Red/Blue", got["Color"][0].Value)
}

func TestAttributes_NoLandmark(t *testing.T) {
	got := Attributes(`<html><body>plain page</body></html>`)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestAttributes_InvalidJSON(t *testing.T) {
	got := Attributes(`"itemAttrList":[{broken],"firstItemAttrList"`)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
