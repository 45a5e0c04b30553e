// Package scraper fetcher 계층 위에서 HTML 문서와 JSON 응답을 가져오는 헬퍼를 제공합니다.
package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/net/html/charset"

	"github.com/darkkaiser/scraper-server/internal/fetcher"
	apperrors "github.com/darkkaiser/scraper-server/internal/pkg/errors"
)

// FetchText 지정된 URL의 본문을 UTF-8 문자열로 가져옵니다.
//
// 응답 헤더의 Content-Type을 분석하여, 비 UTF-8 인코딩 페이지도 자동으로
// UTF-8로 변환하여 처리합니다.
func FetchText(ctx context.Context, f fetcher.Fetcher, url string) (string, error) {
	resp, err := fetcher.Get(ctx, f, url)
	if err != nil {
		return "", fetcher.WrapTransportError(err, fmt.Sprintf("HTML 페이지(%s) 요청 중 네트워크 또는 클라이언트 에러가 발생했습니다.", url))
	}
	defer resp.Body.Close() // 응답을 받은 즉시 defer 설정하여 메모리 누수 방지

	if err := fetcher.CheckResponseStatus(resp); err != nil {
		return "", err
	}

	// Content-Type 헤더를 기반으로 인코딩을 UTF-8로 변환
	utf8Reader, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ParsingFailed, fmt.Sprintf("페이지(%s)의 인코딩 변환이 실패하였습니다.", url))
	}

	body, err := io.ReadAll(utf8Reader)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ParsingFailed, fmt.Sprintf("페이지(%s)의 본문을 읽는 중 에러가 발생했습니다.", url))
	}

	return string(body), nil
}

// FetchJSONBytes HTTP 요청을 수행하고 응답 본문(JSON)을 바이트 슬라이스로 반환합니다.
//
// 응답 구조가 깊고 필요한 필드만 골라 쓰는 경우가 많아, 구조체 디코딩 대신
// 호출자가 gjson으로 직접 탐색할 수 있도록 원문을 그대로 돌려줍니다.
func FetchJSONBytes(ctx context.Context, f fetcher.Fetcher, method, url string, header map[string]string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.Internal, fmt.Sprintf("JSON 요청 생성에 실패했습니다. (URL: %s)", url))
	}
	for key, value := range header {
		req.Header.Set(key, value)
	}

	resp, err := f.Do(req)
	if err != nil {
		return nil, fetcher.WrapTransportError(err, fmt.Sprintf("JSON API(%s) 요청 전송 중 에러가 발생했습니다.", url))
	}
	defer resp.Body.Close() // 응답을 받은 즉시 defer 설정하여 메모리 누수 방지

	if err := fetcher.CheckResponseStatus(resp); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ParsingFailed, fmt.Sprintf("JSON API(%s) 응답 본문을 읽는 중 에러가 발생했습니다.", url))
	}

	return data, nil
}
