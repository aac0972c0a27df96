package coingecko

import (
	"context"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

const DefaultBaseURL = "https://api.coingecko.com/api/v3"

type Config struct {
	BaseURL string
	APIKey  string
	// RatePerMinute caps outgoing requests; 0 disables the limiter.
	RatePerMinute int
}

type Client struct {
	http    *resty.Client
	limiter *rate.Limiter
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}

	rc := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(10*time.Second).
		SetHeader("Accept", "application/json")
	if cfg.APIKey != "" {
		rc.SetHeader("x-cg-demo-api-key", cfg.APIKey)
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RatePerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RatePerMinute)), 1)
	}
	return &Client{http: rc, limiter: limiter}
}

func (c *Client) get(ctx context.Context, path string, query map[string]string, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return errors.Wrap(err, "rate limiter")
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(query).
		SetResult(out).
		Get(path)
	if err != nil {
		return errors.Wrapf(err, "GET %s", path)
	}
	if resp.IsError() {
		return errors.Errorf("GET %s: unexpected status %d", path, resp.StatusCode())
	}
	return nil
}

type Market struct {
	ID                       string  `json:"id"`
	Symbol                   string  `json:"symbol"`
	Name                     string  `json:"name"`
	Image                    string  `json:"image"`
	CurrentPrice             float64 `json:"current_price"`
	MarketCap                float64 `json:"market_cap"`
	MarketCapRank            int     `json:"market_cap_rank"`
	TotalVolume              float64 `json:"total_volume"`
	PriceChangePercentage24h float64 `json:"price_change_percentage_24h"`
	SparklineIn7d            struct {
		Price []float64 `json:"price"`
	} `json:"sparkline_in_7d"`
}

// Markets lists coins by market cap in USD with a 7 day sparkline.
func (c *Client) Markets(ctx context.Context, perPage int) ([]Market, error) {
	var out []Market
	err := c.get(ctx, "/coins/markets", map[string]string{
		"vs_currency":             "usd",
		"order":                   "market_cap_desc",
		"per_page":                strconv.Itoa(perPage),
		"sparkline":               "true",
		"price_change_percentage": "24h",
	}, &out)
	return out, err
}

type TrendingItem struct {
	ID            string  `json:"id"`
	CoinID        int     `json:"coin_id"`
	Name          string  `json:"name"`
	Symbol        string  `json:"symbol"`
	MarketCapRank int     `json:"market_cap_rank"`
	Thumb         string  `json:"thumb"`
	Small         string  `json:"small"`
	Large         string  `json:"large"`
	Slug          string  `json:"slug"`
	PriceBTC      float64 `json:"price_btc"`
	Score         int     `json:"score"`
}

type trendingResponse struct {
	Coins []struct {
		Item TrendingItem `json:"item"`
	} `json:"coins"`
}

func (c *Client) Trending(ctx context.Context) ([]TrendingItem, error) {
	var out trendingResponse
	if err := c.get(ctx, "/search/trending", nil, &out); err != nil {
		return nil, err
	}
	items := make([]TrendingItem, 0, len(out.Coins))
	for _, coin := range out.Coins {
		items = append(items, coin.Item)
	}
	return items, nil
}

type StatusUpdate struct {
	Description string    `json:"description"`
	Category    string    `json:"category"`
	CreatedAt   time.Time `json:"created_at"`
	User        string    `json:"user"`
	UserTitle   string    `json:"user_title"`
	Pin         bool      `json:"pin"`
	Project     struct {
		Type  string `json:"type"`
		ID    string `json:"id"`
		Name  string `json:"name"`
		Image struct {
			Thumb string `json:"thumb"`
			Small string `json:"small"`
			Large string `json:"large"`
		} `json:"image"`
	} `json:"project"`
}

type statusUpdatesResponse struct {
	StatusUpdates []StatusUpdate `json:"status_updates"`
}

// StatusUpdates returns the project status feed used as the news source.
func (c *Client) StatusUpdates(ctx context.Context) ([]StatusUpdate, error) {
	var out statusUpdatesResponse
	if err := c.get(ctx, "/status_updates", map[string]string{"per_page": "20"}, &out); err != nil {
		return nil, err
	}
	return out.StatusUpdates, nil
}
