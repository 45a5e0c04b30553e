// Package api HTTP API 서비스의 수명 주기와 서버 구성을 담당합니다.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/darkkaiser/scraper-server/internal/config"
	"github.com/darkkaiser/scraper-server/internal/notifier"
	apperrors "github.com/darkkaiser/scraper-server/internal/pkg/errors"
	"github.com/darkkaiser/scraper-server/internal/service/api/handler"
	applog "github.com/darkkaiser/scraper-server/pkg/log"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
)

// shutdownTimeout Graceful Shutdown 시 처리 중인 요청의 완료를 기다리는 최대 시간
const shutdownTimeout = 5 * time.Second

// APIService HTTP API 서버의 시작과 종료를 관리하는 서비스입니다.
type APIService struct {
	appConfig *config.AppConfig

	handler *handler.Handler

	errorNotifier notifier.Notifier

	running   bool
	runningMu sync.Mutex
}

// NewAPIService APIService 인스턴스를 생성합니다.
func NewAPIService(appConfig *config.AppConfig, h *handler.Handler, errorNotifier notifier.Notifier) *APIService {
	if errorNotifier == nil {
		errorNotifier = notifier.NewNoOp()
	}

	return &APIService{
		appConfig: appConfig,

		handler: h,

		errorNotifier: errorNotifier,
	}
}

// Start API 서비스를 시작합니다.
//
// HTTP 서버는 별도의 고루틴에서 실행되며, serviceStopCtx가 취소되면
// Graceful Shutdown을 수행한 후 serviceStopWaiter에 완료를 알립니다.
func (s *APIService) Start(serviceStopCtx context.Context, serviceStopWaiter *sync.WaitGroup) error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	applog.WithComponent("api.service").Debug("API 서비스 시작중...")

	if s.appConfig == nil || s.handler == nil {
		defer serviceStopWaiter.Done()
		return apperrors.New(apperrors.Internal, "API 서비스가 초기화되지 않았습니다")
	}

	if s.running {
		defer serviceStopWaiter.Done()
		applog.WithComponent("api.service").Warn("API 서비스가 이미 시작됨")
		return nil
	}

	go s.runServiceLoop(serviceStopCtx, serviceStopWaiter)

	s.running = true

	applog.WithComponent("api.service").Debug("API 서비스 시작됨")

	return nil
}

// runServiceLoop HTTP 서버를 구동하고 종료 신호를 처리하는 메인 루프입니다.
func (s *APIService) runServiceLoop(serviceStopCtx context.Context, serviceStopWaiter *sync.WaitGroup) {
	defer serviceStopWaiter.Done()

	e := s.setupServer()

	httpServerDone := make(chan struct{})
	go s.startHTTPServer(e, httpServerDone)

	// Shutdown 대기
	s.waitForShutdown(serviceStopCtx, e, httpServerDone)
}

// setupServer Echo 서버와 라우트를 설정합니다.
func (s *APIService) setupServer() *echo.Echo {
	e := NewHTTPServer(HTTPServerConfig{
		Debug:             s.appConfig.Debug,
		RequestsPerSecond: s.appConfig.API.RequestsPerSecond,
		Burst:             s.appConfig.API.Burst,
	})

	SetupRoutes(e, s.handler)

	return e
}

// startHTTPServer HTTP 서버를 시작합니다.
//
// 서버가 종료되면 done 채널을 닫아 대기 중인 고루틴에 신호를 보냅니다.
// 이 함수는 블로킹되며, 서버가 종료될 때까지 반환되지 않습니다.
func (s *APIService) startHTTPServer(e *echo.Echo, done chan struct{}) {
	defer close(done)

	port := s.appConfig.API.ListenPort
	applog.WithComponentAndFields("api.service", log.Fields{
		"port": port,
	}).Debug("API 서비스 > http 서버 시작")

	s.handleServerError(e.Start(fmt.Sprintf(":%d", port)))
}

// handleServerError 서버 에러를 처리합니다.
// 정상 종료(http.ErrServerClosed)는 Info 레벨로 로깅하고,
// 그 외의 에러는 Error 레벨로 로깅하며 알림을 전송합니다.
func (s *APIService) handleServerError(err error) {
	if err == nil {
		return
	}

	// 정상적인 서버 종료
	if errors.Is(err, http.ErrServerClosed) {
		applog.WithComponent("api.service").Info("API 서비스 > http 서버 중지됨")
		return
	}

	msg := "API 서비스 > http 서버를 구성하는 중에 치명적인 오류가 발생하였습니다."
	applog.WithComponentAndFields("api.service", log.Fields{
		"port":  s.appConfig.API.ListenPort,
		"error": err,
	}).Error(msg)

	s.errorNotifier.NotifyError(fmt.Sprintf("%s\r\n\r\n%s", msg, err))
}

// waitForShutdown 종료 신호를 대기하고 Graceful Shutdown을 처리합니다.
//
// serviceStopCtx가 취소되면 Echo 서버에 Shutdown 신호를 보낸 뒤(5초 타임아웃)
// HTTP 서버가 완전히 종료될 때까지 블로킹됩니다.
func (s *APIService) waitForShutdown(serviceStopCtx context.Context, e *echo.Echo, httpServerDone chan struct{}) {
	<-serviceStopCtx.Done()

	applog.WithComponent("api.service").Info("API 서비스 중지중...")

	// 웹서버 종료
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		applog.WithComponentAndFields("api.service", log.Fields{
			"error": err,
		}).Error("서버 종료 중 오류 발생")
	}

	<-httpServerDone

	// 상태 정리
	s.runningMu.Lock()
	s.running = false
	s.runningMu.Unlock()

	applog.WithComponent("api.service").Info("API 서비스 중지됨")
}
