package catalog

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/tidwall/gjson"

	apperrors "github.com/darkkaiser/scraper-server/internal/pkg/errors"
)

// Media 워드프레스에 업로드된 이미지입니다.
type Media struct {
	ID  int64
	Src string
}

// uploadMedia 외부 이미지를 내려받아 워드프레스 미디어 라이브러리에 재호스팅합니다.
//
// 마켓플레이스 이미지 URL을 상품에 그대로 연결하면 원본 삭제 시 이미지가
// 깨지므로, 등록 전에 쇼핑몰 서버로 옮겨 둔다.
func (c *Client) uploadMedia(ctx context.Context, imageURL string) (*Media, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.Internal, fmt.Sprintf("이미지 요청 생성에 실패했습니다. (URL: %s)", imageURL))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.Unavailable, fmt.Sprintf("이미지(%s) 다운로드가 실패했습니다.", imageURL))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.New(apperrors.ExecutionFailed, fmt.Sprintf("이미지(%s) 다운로드가 실패했습니다. 상태 코드: %s", imageURL, resp.Status))
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.Unavailable, fmt.Sprintf("이미지(%s) 본문을 읽는 중 에러가 발생했습니다.", imageURL))
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "product-image.jpg")
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.Internal, "멀티파트 요청 본문 생성에 실패했습니다.")
	}
	if _, err := part.Write(imageData); err != nil {
		return nil, apperrors.Wrap(err, apperrors.Internal, "멀티파트 요청 본문 생성에 실패했습니다.")
	}
	if err := writer.Close(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.Internal, "멀티파트 요청 본문 생성에 실패했습니다.")
	}

	uploadURL := c.baseURL + "/wp-json/wp/v2/media"
	uploadReq, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, &body)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.Internal, "미디어 업로드 요청 생성에 실패했습니다.")
	}
	uploadReq.Header.Set("Content-Type", writer.FormDataContentType())
	uploadReq.SetBasicAuth(c.wpUsername, c.wpAppPassword)

	uploadResp, err := c.httpClient.Do(uploadReq)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.Unavailable, "미디어 업로드 요청 전송 중 에러가 발생했습니다.")
	}
	defer uploadResp.Body.Close()

	respBody, err := io.ReadAll(uploadResp.Body)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.Unavailable, "미디어 업로드 응답을 읽는 중 에러가 발생했습니다.")
	}

	if uploadResp.StatusCode != http.StatusOK && uploadResp.StatusCode != http.StatusCreated {
		return nil, apperrors.New(apperrors.ExecutionFailed, fmt.Sprintf("미디어 업로드가 실패했습니다. 상태 코드: %s, 응답: %s", uploadResp.Status, string(respBody)))
	}

	result := gjson.ParseBytes(respBody)
	return &Media{
		ID:  result.Get("id").Int(),
		Src: result.Get("source_url").String(),
	}, nil
}

// uploadImages 여러 이미지를 동시에 업로드하고 입력 순서대로 결과를 반환합니다.
// 하나라도 실패하면 전체를 실패로 처리합니다.
func (c *Client) uploadImages(ctx context.Context, imageURLs []string) ([]*Media, error) {
	if len(imageURLs) == 0 {
		return nil, nil
	}

	type uploadResult struct {
		index int
		media *Media
		err   error
	}

	results := make(chan uploadResult, len(imageURLs))
	for i, imageURL := range imageURLs {
		go func(index int, url string) {
			media, err := c.uploadMedia(ctx, url)
			results <- uploadResult{index: index, media: media, err: err}
		}(i, imageURL)
	}

	uploaded := make([]*Media, len(imageURLs))
	var firstErr error
	for range imageURLs {
		r := <-results
		if r.err != nil && firstErr == nil {
			firstErr = r.err
		}
		uploaded[r.index] = r.media
	}

	if firstErr != nil {
		return nil, firstErr
	}
	return uploaded, nil
}
