package extract

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darkkaiser/scraper-server/internal/fetcher"
	"github.com/darkkaiser/scraper-server/internal/product"
)

func TestReviews(t *testing.T) {
	var gotQuery map[string]string

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, reviewEndpointPath, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("accept"))

		gotQuery = map[string]string{}
		for key := range r.URL.Query() {
			gotQuery[key] = r.URL.Query().Get(key)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"data":[
			{"reviewid":112233,"createddate":1714521600000,"createdDateText":"May 01, 2024",
			 "score":5,"content":"Fast shipping","buyerNickname":"j***n","buyerlevel":"L2",
			 "country":"US","countryFullname":"United States",
			 "reviewAttach":{"imgs":[{"imgUrl":"https://img.example.com/200x200/r1.jpg","miniImgUrl":"https://img.example.com/mini/r1.jpg"},
			                          {"imgUrl":"https://img.example.com/200x200/r2.jpg","miniImgUrl":""}]},
			 "prodAttrs":[{"attrname":"Color","attrvalue":"Black"}]},
			{"reviewid":445566,"createddate":1711843200000,"createdDateText":"Mar 31, 2024",
			 "score":4,"content":"Good value","buyerNickname":"a***e","buyerlevel":"L1",
			 "country":"DE","countryFullname":"Germany"}
		]}}`))
	}))
	defer ts.Close()

	productURL := "https://www.dhgate.com/product/x/987.html"
	reviews, err := Reviews(context.Background(), fetcher.NewHTTPFetcher(), ts.URL, "987", productURL)
	require.NoError(t, err)

	// 요청 파라미터 검증
	assert.Equal(t, "987", gotQuery["itemCode"])
	assert.Equal(t, "en", gotQuery["language"])
	assert.Equal(t, "pc", gotQuery["client"])
	assert.Equal(t, "USD", gotQuery["dispCurrency"])
	assert.Equal(t, "1", gotQuery["sortType"])
	assert.Equal(t, "1", gotQuery["pageNum"])
	assert.Equal(t, productURL, gotQuery["url_r"])

	pageSize, convErr := strconv.Atoi(gotQuery["pageSize"])
	require.NoError(t, convErr)
	assert.GreaterOrEqual(t, pageSize, 10)
	assert.LessOrEqual(t, pageSize, 109)

	// 응답 매핑 검증
	require.Len(t, reviews, 2)

	first := reviews[0]
	assert.Equal(t, "112233", first.ID)
	assert.Equal(t, int64(1714521600000), first.Date)
	assert.Equal(t, "May 01, 2024", first.DateText)
	assert.Equal(t, 5.0, first.Rating)
	assert.Equal(t, "Fast shipping", first.Content)
	assert.Equal(t, product.ReviewBuyer{
		Nickname:    "j***n",
		Level:       "L2",
		Country:     "US",
		CountryName: "United States",
	}, first.Buyer)
	assert.Equal(t, []product.ReviewImage{
		{URL: "https://img.example.com/0x0/r1.jpg", Thumbnail: "https://img.example.com/mini/r1.jpg"},
		{URL: "https://img.example.com/0x0/r2.jpg", Thumbnail: "https://img.example.com/200x200/r2.jpg"},
	}, first.Images)
	assert.Equal(t, []product.ReviewAttribute{
		{AttrName: "Color", AttrValue: "Black"},
	}, first.Attributes)

	second := reviews[1]
	assert.Equal(t, "445566", second.ID)
	assert.Empty(t, second.Images)
	assert.Empty(t, second.Attributes)
}

func TestReviews_NoData(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":null}`))
	}))
	defer ts.Close()

	reviews, err := Reviews(context.Background(), fetcher.NewHTTPFetcher(), ts.URL, "1", "https://www.dhgate.com/p/1.html")
	require.NoError(t, err)
	assert.Empty(t, reviews)
	assert.NotNil(t, reviews)
}

func TestReviews_HTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte("slow down"))
	}))
	defer ts.Close()

	_, err := Reviews(context.Background(), fetcher.NewHTTPFetcher(), ts.URL, "1", "https://www.dhgate.com/p/1.html")
	require.Error(t, err)

	var statusErr *fetcher.HTTPStatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusTooManyRequests, statusErr.StatusCode)
	assert.Equal(t, "slow down", statusErr.Body)
}
