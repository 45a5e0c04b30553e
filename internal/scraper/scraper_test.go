package scraper

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"

	"github.com/darkkaiser/scraper-server/internal/fetcher"
	apperrors "github.com/darkkaiser/scraper-server/internal/pkg/errors"
)

func TestFetchText_UTF8(t *testing.T) {
	const page = `<html><body><h1>Wireless Earbuds</h1></body></html>`

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(page))
	}))
	defer ts.Close()

	raw, err := FetchText(context.Background(), fetcher.NewHTTPFetcher(), ts.URL)
	require.NoError(t, err)
	assert.Equal(t, page, raw)
}

func TestFetchText_GB18030(t *testing.T) {
	// 비 UTF-8 인코딩 페이지가 UTF-8로 변환되는지 검증한다.
	var buf bytes.Buffer
	w := transform.NewWriter(&buf, simplifiedchinese.GB18030.NewEncoder())
	w.Write([]byte(`<html><body><div id="t">无线耳机</div></body></html>`))
	w.Close()

	ts := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		rw.Header().Set("Content-Type", "text/html; charset=gb18030")
		rw.Write(buf.Bytes())
	}))
	defer ts.Close()

	raw, err := FetchText(context.Background(), fetcher.NewHTTPFetcher(), ts.URL)
	require.NoError(t, err)
	assert.Contains(t, raw, "无线耳机")
}

func TestFetchText_NonOKStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte("access denied"))
	}))
	defer ts.Close()

	_, err := FetchText(context.Background(), fetcher.NewHTTPFetcher(), ts.URL)
	require.Error(t, err)

	var statusErr *fetcher.HTTPStatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusForbidden, statusErr.StatusCode)
	assert.Equal(t, "access denied", statusErr.Body)
}

func TestFetchText_NetworkError(t *testing.T) {
	_, err := FetchText(context.Background(), fetcher.NewHTTPFetcher(), "http://127.0.0.1:1")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.Unavailable))
}

func TestFetchJSONBytes(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("accept"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"data":[{"reviewid":1}]}}`))
	}))
	defer ts.Close()

	data, err := FetchJSONBytes(context.Background(), fetcher.NewHTTPFetcher(), http.MethodGet, ts.URL,
		map[string]string{"accept": "application/json"}, nil)
	require.NoError(t, err)

	assert.JSONEq(t, `{"data":{"data":[{"reviewid":1}]}}`, string(data))
}

func TestFetchJSONBytes_NonOKStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream down"))
	}))
	defer ts.Close()

	_, err := FetchJSONBytes(context.Background(), fetcher.NewHTTPFetcher(), http.MethodGet, ts.URL, nil, nil)
	require.Error(t, err)

	var statusErr *fetcher.HTTPStatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadGateway, statusErr.StatusCode)
	assert.Equal(t, "upstream down", statusErr.Body)
}
