package coingecko

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, path, body string, check func(r *http.Request)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != path {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if check != nil {
			check(r)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestMarkets(t *testing.T) {
	body := `[{"id":"ethereum","symbol":"eth","name":"Ethereum","current_price":3000.5,
		"market_cap":360000000000,"market_cap_rank":2,"total_volume":1000,
		"price_change_percentage_24h":-1.25,"sparkline_in_7d":{"price":[1,2,3]}}]`
	srv := newServer(t, "/coins/markets", body, func(r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "usd", q.Get("vs_currency"))
		assert.Equal(t, "100", q.Get("per_page"))
		assert.Equal(t, "true", q.Get("sparkline"))
		assert.Equal(t, "key-1", r.Header.Get("x-cg-demo-api-key"))
	})

	markets, err := NewClient(Config{BaseURL: srv.URL, APIKey: "key-1"}).Markets(context.Background(), 100)
	require.NoError(t, err)
	require.Len(t, markets, 1)
	assert.Equal(t, "ethereum", markets[0].ID)
	assert.Equal(t, 3000.5, markets[0].CurrentPrice)
	assert.Equal(t, -1.25, markets[0].PriceChangePercentage24h)
	assert.Equal(t, []float64{1, 2, 3}, markets[0].SparklineIn7d.Price)
}

func TestTrending(t *testing.T) {
	body := `{"coins":[{"item":{"id":"pepe","coin_id":29850,"name":"Pepe","symbol":"PEPE","market_cap_rank":30,"score":0}},
		{"item":{"id":"solana","name":"Solana","symbol":"SOL","score":1}}]}`
	srv := newServer(t, "/search/trending", body, func(r *http.Request) {
		assert.Empty(t, r.Header.Get("x-cg-demo-api-key"))
	})

	items, err := NewClient(Config{BaseURL: srv.URL}).Trending(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "pepe", items[0].ID)
	assert.Equal(t, 29850, items[0].CoinID)
	assert.Equal(t, "Solana", items[1].Name)
}

func TestStatusUpdates(t *testing.T) {
	body := `{"status_updates":[{"description":"Mainnet upgrade","category":"general",
		"created_at":"2024-05-01T10:00:00.000Z","user":"Team","user_title":"Core",
		"project":{"type":"Coin","id":"solana","name":"Solana"}}]}`
	srv := newServer(t, "/status_updates", body, nil)

	updates, err := NewClient(Config{BaseURL: srv.URL}).StatusUpdates(context.Background())
	require.NoError(t, err)
	require.Len(t, updates, 1)
	assert.Equal(t, "Mainnet upgrade", updates[0].Description)
	assert.Equal(t, "solana", updates[0].Project.ID)
	assert.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), updates[0].CreatedAt.UTC())
}

func TestUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewClient(Config{BaseURL: srv.URL}).Trending(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestRateLimiterHonoursContext(t *testing.T) {
	srv := newServer(t, "/search/trending", `{"coins":[]}`, nil)
	c := NewClient(Config{BaseURL: srv.URL, RatePerMinute: 1})

	_, err := c.Trending(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = c.Trending(ctx)
	assert.Error(t, err)
}
