package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darkkaiser/scraper-server/internal/identity"
	apperrors "github.com/darkkaiser/scraper-server/internal/pkg/errors"
)

func TestHTTPFetcher_Do(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	f := NewHTTPFetcher()

	resp, err := Get(context.Background(), f, ts.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHTTPFetcher_ContextDeadline(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	f := NewHTTPFetcher()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := Get(ctx, f, ts.URL)
	require.Error(t, err)

	wrapped := WrapTransportError(err, "페이지 요청이 실패했습니다.")
	assert.True(t, apperrors.Is(wrapped, apperrors.Timeout))
}

func TestWrapTransportError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantNil  bool
		wantType apperrors.ErrorType
	}{
		{
			name:    "nil 에러",
			err:     nil,
			wantNil: true,
		},
		{
			name:     "컨텍스트 기한 초과",
			err:      context.DeadlineExceeded,
			wantType: apperrors.Timeout,
		},
		{
			name:     "일반 네트워크 에러",
			err:      errors.New("connection refused"),
			wantType: apperrors.Unavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WrapTransportError(tt.err, "테스트 에러")
			if tt.wantNil {
				assert.NoError(t, got)
				return
			}
			require.Error(t, got)
			assert.True(t, apperrors.Is(got, tt.wantType))
		})
	}
}

func TestBrowserHeaderFetcher_InjectsHeaders(t *testing.T) {
	var gotHeader http.Header
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Clone()
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	f := NewBrowserHeaderFetcher(NewHTTPFetcher(), identity.NewProvider(), "https://www.dhgate.com")

	resp, err := Get(context.Background(), f, ts.URL)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Contains(t, gotHeader.Get("User-Agent"), "Chrome/130")
	assert.Equal(t, "en-US,en;q=0.9", gotHeader.Get("Accept-Language"))
	assert.Equal(t, "https://www.dhgate.com", gotHeader.Get("Referer"))
	assert.Contains(t, gotHeader.Get("Cookie"), "PHPSESSID=")
	assert.Contains(t, gotHeader.Get("Cookie"), "intl_currency=USD")
}

func TestBrowserHeaderFetcher_PreservesCallerHeaders(t *testing.T) {
	var gotHeader http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Clone()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	f := NewBrowserHeaderFetcher(NewHTTPFetcher(), identity.NewProvider(), "https://www.dhgate.com")

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	req.Header.Set("accept", "application/json, text/plain, */*")
	req.Header.Set("Referer", "https://www.dhgate.com/product/x/123.html")

	resp, err := f.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "application/json, text/plain, */*", gotHeader.Get("Accept"))
	assert.Equal(t, "https://www.dhgate.com/product/x/123.html", gotHeader.Get("Referer"))
}

func TestRateLimitFetcher_LimitsRate(t *testing.T) {
	var calls int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	// 초당 10회, 버스트 1: 요청 3회에 최소 200ms 이상 소요되어야 한다.
	f := NewRateLimitFetcher(NewHTTPFetcher(), 10, 1)

	start := time.Now()
	for i := 0; i < 3; i++ {
		resp, err := Get(context.Background(), f, ts.URL)
		require.NoError(t, err)
		resp.Body.Close()
	}

	assert.Equal(t, 3, calls)
	assert.GreaterOrEqual(t, time.Since(start), 180*time.Millisecond)
}

func TestRateLimitFetcher_ContextCancel(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	// 버킷을 소진시킨 뒤 취소된 컨텍스트로 요청하면 대기 없이 에러를 반환해야 한다.
	f := NewRateLimitFetcher(NewHTTPFetcher(), 0.001, 1)

	resp, err := Get(context.Background(), f, ts.URL)
	require.NoError(t, err)
	resp.Body.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = Get(ctx, f, ts.URL)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.Unavailable) || apperrors.Is(err, apperrors.Timeout))
}

func TestRateLimitFetcher_Disabled(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	f := NewRateLimitFetcher(NewHTTPFetcher(), 0, 0)

	resp, err := Get(context.Background(), f, ts.URL)
	require.NoError(t, err)
	resp.Body.Close()
}

func TestCheckResponseStatus(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		body       string
		wantErr    bool
		wantType   apperrors.ErrorType
	}{
		{
			name:       "200 OK",
			statusCode: http.StatusOK,
			wantErr:    false,
		},
		{
			name:       "404 Not Found - 응답 본문 보존",
			statusCode: http.StatusNotFound,
			body:       "product not found",
			wantErr:    true,
			wantType:   apperrors.ExecutionFailed,
		},
		{
			name:       "503 Service Unavailable",
			statusCode: http.StatusServiceUnavailable,
			body:       "maintenance",
			wantErr:    true,
			wantType:   apperrors.Unavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
				w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			resp, err := Get(context.Background(), NewHTTPFetcher(), ts.URL)
			require.NoError(t, err)

			err = CheckResponseStatus(resp)
			if !tt.wantErr {
				assert.NoError(t, err)
				resp.Body.Close()
				return
			}

			require.Error(t, err)

			var statusErr *HTTPStatusError
			require.True(t, errors.As(err, &statusErr))
			assert.Equal(t, tt.statusCode, statusErr.StatusCode)
			assert.Equal(t, tt.body, statusErr.Body)
			assert.True(t, strings.HasPrefix(statusErr.URL, ts.URL))
			assert.True(t, apperrors.Is(err, tt.wantType))
		})
	}
}
