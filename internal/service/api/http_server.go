package api

import (
	"net/http"

	appmiddleware "github.com/darkkaiser/scraper-server/internal/service/api/middleware"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	log "github.com/sirupsen/logrus"
)

// HTTPServerConfig 서버 생성 시 필요한 설정을 정의합니다.
type HTTPServerConfig struct {
	// Debug는 Echo의 디버그 모드 활성화 여부를 설정합니다.
	Debug bool

	// RequestsPerSecond / Burst 클라이언트 IP별 속도 제한 설정입니다.
	RequestsPerSecond int
	Burst             int
}

// NewHTTPServer 설정된 미들웨어를 포함한 Echo 인스턴스를 생성합니다.
//
// 미들웨어는 다음 순서로 적용됩니다 (순서가 중요합니다):
//
//  1. PanicRecovery - 패닉 복구 및 로깅
//  2. RequestID - 요청 ID 생성 (로그의 request_id 필드에 사용)
//  3. HTTPLogger - HTTP 요청/응답 로깅 (민감 정보 마스킹 포함)
//  4. RateLimit - 클라이언트 IP별 요청 속도 제한
//  5. CORS - 크로스 도메인 요청 처리
//  6. Secure - 보안 헤더 설정
//
// 라우트 설정은 포함되지 않으며, 반환된 Echo 인스턴스에 별도로 설정해야 합니다.
func NewHTTPServer(cfg HTTPServerConfig) *echo.Echo {
	e := echo.New()

	e.Debug = cfg.Debug
	e.HideBanner = true

	// echo에서 출력되는 로그를 Logrus Logger로 출력되도록 한다.
	// echo Logger의 인터페이스를 래핑한 객체를 이용하여 Logrus Logger로 보낸다.
	e.Logger = appmiddleware.Logger{Logger: log.StandardLogger()}

	// 미들웨어 적용 (권장 순서)
	e.Use(appmiddleware.PanicRecovery())                             // 1. Panic 복구
	e.Use(middleware.RequestID())                                    // 2. Request ID
	e.Use(appmiddleware.HTTPLogger())                                // 3. HTTP 로깅
	e.Use(appmiddleware.RateLimit(cfg.RequestsPerSecond, cfg.Burst)) // 4. 속도 제한
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{           // 5. CORS 설정
		AllowMethods: []string{http.MethodGet, http.MethodPut, http.MethodPost, http.MethodDelete},
	}))
	e.Use(middleware.Secure()) // 6. 보안 헤더

	return e
}
