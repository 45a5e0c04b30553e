package api

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/darkkaiser/scraper-server/internal/config"
	"github.com/darkkaiser/scraper-server/internal/fetcher"
	"github.com/darkkaiser/scraper-server/internal/notifier"
	"github.com/darkkaiser/scraper-server/internal/pkg/version"
	"github.com/darkkaiser/scraper-server/internal/product"
	"github.com/darkkaiser/scraper-server/internal/product/pipeline"
	"github.com/darkkaiser/scraper-server/internal/service/api/handler"
)

// newTestServer 전체 미들웨어와 라우트가 설정된 Echo 인스턴스를 생성합니다.
func newTestServer(t *testing.T, requestsPerSecond, burst int) *echo.Echo {
	t.Helper()

	p := pipeline.New(fetcher.NewHTTPFetcher(), product.NewCache(time.Hour), "http://unused", time.Second)
	h := handler.New(p, nil, notifier.NewNoOp(), version.Get())

	e := NewHTTPServer(HTTPServerConfig{
		RequestsPerSecond: requestsPerSecond,
		Burst:             burst,
	})
	SetupRoutes(e, h)

	return e
}

func TestServer_HealthEndpoint(t *testing.T) {
	e := newTestServer(t, 100, 100)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", gjson.Get(rec.Body.String(), "status").String())
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}

func TestServer_NotFound(t *testing.T) {
	e := newTestServer(t, 100, 100)

	req := httptest.NewRequest(http.MethodGet, "/no/such/path", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "페이지를 찾을 수 없습니다.", gjson.Get(rec.Body.String(), "message").String())
}

func TestServer_RateLimit(t *testing.T) {
	// 초당 1회, 버스트 2회까지만 허용
	e := newTestServer(t, 1, 2)

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		statuses = append(statuses, rec.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, statuses)

	// 다른 IP는 독립적인 제한을 가진다.
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

// freePort 테스트용으로 사용 가능한 TCP 포트를 찾아 반환합니다.
func freePort(t *testing.T) int {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())

	return port
}

func TestAPIService_StartAndShutdown(t *testing.T) {
	port := freePort(t)

	appConfig := &config.AppConfig{
		API: config.APIConfig{
			ListenPort:        port,
			RequestsPerSecond: 100,
			Burst:             100,
		},
	}

	p := pipeline.New(fetcher.NewHTTPFetcher(), product.NewCache(time.Hour), "http://unused", time.Second)
	h := handler.New(p, nil, notifier.NewNoOp(), version.Get())
	s := NewAPIService(appConfig, h, notifier.NewNoOp())

	serviceStopCtx, cancel := context.WithCancel(context.Background())
	var serviceStopWaiter sync.WaitGroup

	serviceStopWaiter.Add(1)
	require.NoError(t, s.Start(serviceStopCtx, &serviceStopWaiter))

	// 서버가 요청을 받을 수 있을 때까지 대기
	baseURL := fmt.Sprintf("http://127.0.0.1:%d", port)
	require.Eventually(t, func() bool {
		resp, err := http.Get(baseURL + "/health")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 50*time.Millisecond)

	// 종료 신호를 보내면 Graceful Shutdown이 완료되어야 한다.
	cancel()

	done := make(chan struct{})
	go func() {
		serviceStopWaiter.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("서비스가 제한 시간 내에 종료되지 않음")
	}
}

func TestAPIService_Start_NotInitialized(t *testing.T) {
	s := NewAPIService(nil, nil, nil)

	var serviceStopWaiter sync.WaitGroup
	serviceStopWaiter.Add(1)

	err := s.Start(context.Background(), &serviceStopWaiter)
	require.Error(t, err)

	// Done이 호출되었으므로 Wait는 즉시 반환되어야 한다.
	serviceStopWaiter.Wait()
}
