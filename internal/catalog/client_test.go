package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResponse = `{
	"Items": [
		{
			"Item": {
				"itemName": "新潟県産コシヒカリ 5kg",
				"itemCaption": "<p>とても美味しいお米です。</p><br>栄養満点！",
				"itemPrice": 3480,
				"itemUrl": "https://item.rakuten.co.jp/rice-shop/koshihikari-5kg/",
				"shopName": "お米の専門店",
				"mediumImageUrls": [
					{"imageUrl": "https://thumbnail.image.rakuten.co.jp/@0_mall/rice-shop/cabinet/a.jpg?_ex=128x128"}
				],
				"smallImageUrls": [
					{"imageUrl": "https://thumbnail.image.rakuten.co.jp/@0_mall/rice-shop/cabinet/a.jpg?_ex=64x64"}
				]
			}
		}
	]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(ClientConfig{
		AppID:    "test-app-id",
		Endpoint: srv.URL,
		Timeout:  2 * time.Second,
	})
}

func TestSearchByKeyword(t *testing.T) {
	var gotQuery map[string]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"keyword":       r.URL.Query().Get("keyword"),
			"hits":          r.URL.Query().Get("hits"),
			"format":        r.URL.Query().Get("format"),
			"applicationId": r.URL.Query().Get("applicationId"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(sampleResponse))
	})

	candidates := client.SearchByKeyword(context.Background(), "コシヒカリ", 12)
	require.Len(t, candidates, 1)

	assert.Equal(t, "コシヒカリ", gotQuery["keyword"])
	assert.Equal(t, "12", gotQuery["hits"])
	assert.Equal(t, "json", gotQuery["format"])
	assert.Equal(t, "test-app-id", gotQuery["applicationId"])

	got := candidates[0]
	assert.Equal(t, "新潟県産コシヒカリ 5kg", got.Title)
	assert.Equal(t, 3480, got.Price)
	assert.Equal(t, "https://item.rakuten.co.jp/rice-shop/koshihikari-5kg/", got.RakutenURL)
	assert.Equal(t, "お米の専門店", got.ShopName)
	require.NotNil(t, got.Description)
	assert.Equal(t, "とても美味しいお米です。栄養満点！", *got.Description)
	require.NotNil(t, got.ImageURL)
	assert.Equal(t, "https://thumbnail.image.rakuten.co.jp/@0_mall/rice-shop/cabinet/a.jpg?_ex=400x400", *got.ImageURL)
}

func TestSearchByCode(t *testing.T) {
	var gotItemCode string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotItemCode = r.URL.Query().Get("itemCode")
		w.Write([]byte(sampleResponse))
	})

	candidates := client.SearchByCode(context.Background(), "rice-shop", "koshihikari-5kg")
	require.Len(t, candidates, 1)
	assert.Equal(t, "rice-shop:koshihikari-5kg", gotItemCode)
}

func TestSearchByKeywordAndShop(t *testing.T) {
	var gotShop, gotHits string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotShop = r.URL.Query().Get("shopCode")
		gotHits = r.URL.Query().Get("hits")
		w.Write([]byte(sampleResponse))
	})

	candidates := client.SearchByKeywordAndShop(context.Background(), "koshihikari-5kg", "rice-shop")
	require.Len(t, candidates, 1)
	assert.Equal(t, "rice-shop", gotShop)
	assert.Equal(t, "1", gotHits)
}

func TestSearchSwallowsFailures(t *testing.T) {
	t.Run("non-200 status", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"wrong_parameter"}`, http.StatusBadRequest)
		})
		assert.Empty(t, client.SearchByKeyword(context.Background(), "x", 12))
	})

	t.Run("malformed body", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		})
		assert.Empty(t, client.SearchByKeyword(context.Background(), "x", 12))
	})

	t.Run("timeout", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		t.Cleanup(srv.Close)
		client := NewClient(ClientConfig{AppID: "x", Endpoint: srv.URL, Timeout: 50 * time.Millisecond})
		assert.Empty(t, client.SearchByKeyword(context.Background(), "x", 12))
	})

	t.Run("connection refused", func(t *testing.T) {
		client := NewClient(ClientConfig{AppID: "x", Endpoint: "http://127.0.0.1:1", Timeout: time.Second})
		assert.Empty(t, client.SearchByKeyword(context.Background(), "x", 12))
	})
}

func TestResolveImageURLFallbacks(t *testing.T) {
	t.Run("falls back to small images", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"Items":[{"Item":{
				"itemName": "a",
				"smallImageUrls": [{"imageUrl": "https://thumbnail.image.rakuten.co.jp/b.jpg?_ex=64x64"}]
			}}]}`))
		})
		candidates := client.SearchByKeyword(context.Background(), "a", 1)
		require.Len(t, candidates, 1)
		require.NotNil(t, candidates[0].ImageURL)
		assert.Equal(t, "https://thumbnail.image.rakuten.co.jp/b.jpg?_ex=64x64", *candidates[0].ImageURL)
	})

	t.Run("falls back to legacy imageUrl", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"Items":[{"Item":{
				"itemName": "a",
				"imageUrl": "https://thumbnail.image.rakuten.co.jp/c.jpg"
			}}]}`))
		})
		candidates := client.SearchByKeyword(context.Background(), "a", 1)
		require.Len(t, candidates, 1)
		require.NotNil(t, candidates[0].ImageURL)
		assert.Equal(t, "https://thumbnail.image.rakuten.co.jp/c.jpg", *candidates[0].ImageURL)
	})

	t.Run("no image yields nil", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"Items":[{"Item":{"itemName": "a"}}]}`))
		})
		candidates := client.SearchByKeyword(context.Background(), "a", 1)
		require.Len(t, candidates, 1)
		assert.Nil(t, candidates[0].ImageURL)
		assert.Nil(t, candidates[0].Description)
	})

	t.Run("string-list image shape", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"Items":[{"Item":{
				"itemName": "a",
				"mediumImageUrls": ["https://thumbnail.image.rakuten.co.jp/d.jpg?_ex=128x128"]
			}}]}`))
		})
		candidates := client.SearchByKeyword(context.Background(), "a", 1)
		require.Len(t, candidates, 1)
		require.NotNil(t, candidates[0].ImageURL)
		assert.Equal(t, "https://thumbnail.image.rakuten.co.jp/d.jpg?_ex=400x400", *candidates[0].ImageURL)
	})
}
