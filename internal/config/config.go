// Package config 애플리케이션의 환경설정 로드와 유효성 검증을 담당합니다.
//
// 설정은 다음 우선순위로 병합됩니다. (뒤로 갈수록 높은 우선순위)
//  1. 코드에 정의된 기본값
//  2. JSON 설정 파일 (scraper-server.json)
//  3. 환경 변수 (접두사 SCRAPER_, 이중 언더스코어(__)로 계층 표현)
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	apperrors "github.com/darkkaiser/scraper-server/internal/pkg/errors"
	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const (
	// AppName 애플리케이션의 전역 고유 식별자입니다.
	AppName string = "scraper-server"

	// DefaultFilename 애플리케이션 초기화 시 참조하는 기본 설정 파일명입니다.
	// 실행 인자를 통해 명시적인 경로가 제공되지 않을 경우, 시스템은 이 파일을 탐색하여 구성을 로드합니다.
	DefaultFilename = AppName + ".json"

	// envPrefix 설정을 덮어쓰는 환경 변수의 접두사입니다.
	envPrefix = "SCRAPER_"
)

// AppConfig 애플리케이션의 모든 설정을 관장하는 최상위 루트 구조체
type AppConfig struct {
	Debug   bool          `json:"debug"`
	Scrape  ScrapeConfig  `json:"scrape"`
	Cache   CacheConfig   `json:"cache"`
	Catalog CatalogConfig `json:"catalog"`
	Notify  NotifyConfig  `json:"notify"`
	API     APIConfig     `json:"api"`
}

// ScrapeConfig 마켓플레이스 상품 페이지 수집에 대한 설정 구조체
type ScrapeConfig struct {
	// MarketplaceURL 수집 대상 마켓플레이스의 오리진 URL입니다.
	// Referer 헤더 및 자기 참조 링크 제거에 사용됩니다.
	MarketplaceURL string `json:"marketplace_url" validate:"required,url"`

	// PageTimeout 상품 페이지 및 보조 API 호출 전체에 적용되는 요청 시간 제한입니다.
	PageTimeout time.Duration `json:"page_timeout" validate:"required"`

	// RequestsPerSecond 마켓플레이스로 향하는 초당 최대 요청 수 (0: 제한 없음)
	RequestsPerSecond int `json:"requests_per_second" validate:"min=0"`

	// Burst 순간적으로 허용되는 최대 요청 수
	Burst int `json:"burst" validate:"min=0"`
}

// CacheConfig 수집 결과 캐시에 대한 설정 구조체
type CacheConfig struct {
	// TTL 캐시 항목의 생존 시간입니다. 생성 시각 기준으로 판정되며 조회 시점에 지연 방식으로 만료됩니다.
	TTL time.Duration `json:"ttl" validate:"required"`
}

// CatalogConfig 카탈로그(WooCommerce) 업로드 연동에 대한 설정 구조체
//
// URL이 비어 있으면 카탈로그 연동 기능 전체가 비활성화됩니다.
type CatalogConfig struct {
	URL            string        `json:"url" validate:"omitempty,url"`
	ConsumerKey    string        `json:"consumer_key"`
	ConsumerSecret string        `json:"consumer_secret"`
	WPUsername     string        `json:"wp_username"`
	WPAppPassword  string        `json:"wp_app_password"`
	UploadTimeout  time.Duration `json:"upload_timeout"`
}

// Enabled 카탈로그 연동 기능의 활성화 여부를 반환합니다.
func (c *CatalogConfig) Enabled() bool {
	return c.URL != ""
}

// validate 카탈로그 연동이 활성화된 경우 필수 인증 정보가 모두 설정되었는지 검증합니다.
func (c *CatalogConfig) validate() error {
	if !c.Enabled() {
		return nil
	}

	if c.ConsumerKey == "" || c.ConsumerSecret == "" {
		return apperrors.New(apperrors.InvalidInput, "카탈로그 연동이 활성화된 경우 consumer_key와 consumer_secret은 필수입니다")
	}
	if c.WPUsername == "" || c.WPAppPassword == "" {
		return apperrors.New(apperrors.InvalidInput, "카탈로그 연동이 활성화된 경우 wp_username과 wp_app_password는 필수입니다 (이미지 업로드 인증에 사용)")
	}
	if c.UploadTimeout <= 0 {
		return apperrors.Newf(apperrors.InvalidInput, "카탈로그 업로드 시간 제한(upload_timeout)은 0보다 커야 합니다: '%v'", c.UploadTimeout)
	}

	return nil
}

// NotifyConfig 수집 실패 알림(텔레그램)에 대한 설정 구조체
//
// BotToken이 비어 있으면 알림 기능이 비활성화됩니다.
type NotifyConfig struct {
	TelegramBotToken string `json:"telegram_bot_token"`
	TelegramChatID   int64  `json:"telegram_chat_id"`
}

// Enabled 알림 기능의 활성화 여부를 반환합니다.
func (c *NotifyConfig) Enabled() bool {
	return c.TelegramBotToken != ""
}

// validate 알림이 활성화된 경우 수신자 정보가 설정되었는지 검증합니다.
func (c *NotifyConfig) validate() error {
	if c.Enabled() && c.TelegramChatID == 0 {
		return apperrors.New(apperrors.InvalidInput, "텔레그램 알림이 활성화된 경우 telegram_chat_id는 필수입니다")
	}
	return nil
}

// APIConfig HTTP API 서버에 대한 설정 구조체
type APIConfig struct {
	ListenPort int `json:"listen_port" validate:"required,min=1,max=65535"`

	// RequestsPerSecond 클라이언트 IP별 초당 최대 요청 수
	RequestsPerSecond int `json:"requests_per_second" validate:"min=1"`

	// Burst 클라이언트 IP별 순간 최대 요청 수
	Burst int `json:"burst" validate:"min=1"`
}

// defaults 모든 설정 항목의 기본값을 반환합니다.
func defaults() AppConfig {
	return AppConfig{
		Debug: false,
		Scrape: ScrapeConfig{
			MarketplaceURL:    "https://www.dhgate.com",
			PageTimeout:       25 * time.Second,
			RequestsPerSecond: 2,
			Burst:             4,
		},
		Cache: CacheConfig{
			TTL: 10 * time.Hour,
		},
		Catalog: CatalogConfig{
			UploadTimeout: 30 * time.Second,
		},
		API: APIConfig{
			ListenPort:        8080,
			RequestsPerSecond: 20,
			Burst:             40,
		},
	}
}

// validate 설정 파일 로드 직후, 각 설정 항목의 정합성과 필수 값의 유효성을 검증합니다.
func (c *AppConfig) validate(v *validator.Validate) error {
	if err := v.Struct(c); err != nil {
		var validationErrors validator.ValidationErrors
		if apperrors.As(err, &validationErrors) && len(validationErrors) > 0 {
			fe := validationErrors[0]
			return apperrors.Newf(apperrors.InvalidInput, "설정 항목 '%s'이(가) 유효하지 않습니다 (규칙: %s, 입력값: '%v')", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return apperrors.Wrap(err, apperrors.InvalidInput, "설정 구조체 유효성 검증에 실패했습니다")
	}

	if err := c.Catalog.validate(); err != nil {
		return err
	}
	if err := c.Notify.validate(); err != nil {
		return err
	}

	return nil
}

// Load 기본 설정 파일을 읽어 애플리케이션 설정을 로드합니다.
func Load() (*AppConfig, error) {
	return LoadWithFile(DefaultFilename)
}

// LoadWithFile 지정된 경로의 설정 파일을 읽어 AppConfig 객체를 생성합니다.
func LoadWithFile(filename string) (*AppConfig, error) {
	k := koanf.New(".")

	// 1. 기본값 로드 (가장 낮은 우선순위)
	if err := k.Load(structs.Provider(defaults(), "json"), nil); err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "애플리케이션 기본 설정 로드에 실패했습니다")
	}

	// 2. JSON 설정 파일 로드 (기본값 덮어쓰기)
	if err := k.Load(file.Provider(filename), json.Parser()); err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.Wrap(err, apperrors.System, fmt.Sprintf("설정 파일을 찾을 수 없습니다: '%s'", filename))
		}
		return nil, apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("설정 파일 로드 중 오류가 발생했습니다: '%s'", filename))
	}

	// 3. 환경 변수 로드 (최우선 순위, JSON 설정 덮어쓰기)
	// 예: SCRAPER_SCRAPE__PAGE_TIMEOUT -> scrape.page_timeout
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, envPrefix)
		s = strings.ToLower(s)
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "환경 변수 로드에 실패했습니다")
	}

	// 4. 구조체 언마샬링 (Strict Validation 적용)
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "json",
		DecoderConfig: &mapstructure.DecoderConfig{
			ErrorUnused:      true, // 파일에 존재하지만 구조체에 없는 필드가 있을 경우 에러를 발생시킴
			WeaklyTypedInput: true,
			DecodeHook:       mapstructure.StringToTimeDurationHookFunc(), // "25s" 형태의 문자열을 time.Duration으로 변환
		},
	}
	var appConfig AppConfig
	if err := k.UnmarshalWithConf("", &appConfig, unmarshalConf); err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "설정 데이터를 애플리케이션 구조체로 변환하는데 실패했습니다")
	}

	// 5. 유효성 검사 수행 (정합성 체크)
	if err := appConfig.validate(validator.New()); err != nil {
		return nil, apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("설정 파일('%s')의 유효성 검증에 실패했습니다", filename))
	}

	return &appConfig, nil
}
