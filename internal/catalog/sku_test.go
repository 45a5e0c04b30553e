package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSKU(t *testing.T) {
	tests := []struct {
		name      string
		title     string
		variation map[string]string
		want      string
	}{
		{
			name:  "기본 SKU",
			title: "Wireless Earbuds Pro",
			want:  "wireless-earbuds-pro",
		},
		{
			name:  "20자 제한",
			title: "Super Long Product Title That Never Ends",
			want:  "super-long-product-t",
		},
		{
			name:  "변형 옵션 포함",
			title: "USB-C Cable",
			variation: map[string]string{
				"Color": "Jet Black",
				"Size":  "2 M",
			},
			want: "usb-c-cable-jetblack-2m",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GenerateSKU(tt.title, tt.variation))
		})
	}
}
