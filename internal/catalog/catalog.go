// Package catalog 수집된 상품을 WooCommerce 쇼핑몰에 등록하고 조회하는 클라이언트를 제공합니다.
//
// 상품 등록은 wc/v3 REST API(컨슈머 키 Basic 인증)를, 이미지 재호스팅은
// wp/v2 미디어 API(워드프레스 애플리케이션 비밀번호 Basic 인증)를 사용합니다.
package catalog

import (
	"net/http"
	"strings"
	"time"
)

// Client WooCommerce REST API 클라이언트입니다.
type Client struct {
	httpClient *http.Client

	baseURL        string
	consumerKey    string
	consumerSecret string

	wpUsername    string
	wpAppPassword string

	uploadTimeout time.Duration
}

// Config Client 생성에 필요한 설정입니다.
type Config struct {
	// BaseURL 쇼핑몰 루트 URL (예: https://shop.example.com)
	BaseURL string
	// ConsumerKey / ConsumerSecret wc/v3 API 인증 정보
	ConsumerKey    string
	ConsumerSecret string
	// WPUsername / WPAppPassword 미디어 업로드용 워드프레스 인증 정보
	WPUsername    string
	WPAppPassword string
	// UploadTimeout 상품 등록 한 건(이미지 업로드 포함)에 허용되는 시간
	UploadTimeout time.Duration
}

// New 새로운 Client 인스턴스를 생성합니다.
func New(cfg Config) *Client {
	uploadTimeout := cfg.UploadTimeout
	if uploadTimeout <= 0 {
		uploadTimeout = 30 * time.Second
	}

	return &Client{
		httpClient: &http.Client{},

		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		consumerKey:    cfg.ConsumerKey,
		consumerSecret: cfg.ConsumerSecret,

		wpUsername: cfg.WPUsername,
		// 애플리케이션 비밀번호는 공백이 포함된 형태로 발급되므로 제거해 둔다.
		wpAppPassword: strings.ReplaceAll(cfg.WPAppPassword, " ", ""),

		uploadTimeout: uploadTimeout,
	}
}

// CategoryRef 상품 등록 시 지정하는 분류 참조입니다.
type CategoryRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name,omitempty"`
}

// TagRef 상품 등록 시 지정하는 태그 참조입니다.
type TagRef struct {
	ID   int64  `json:"id,omitempty"`
	Name string `json:"name"`
}

// EditData 상품 등록 시 수집 결과에 덧붙이는 판매 정보입니다.
type EditData struct {
	RegularPrice string        `json:"regular_price"`
	Categories   []CategoryRef `json:"categories"`
	Tags         []TagRef      `json:"tags"`
	// Description 비어있지 않으면 수집된 설명 대신 사용된다.
	Description string `json:"description,omitempty"`
}
