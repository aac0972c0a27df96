package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"portfolio_tracker_back/models"
	"portfolio_tracker_back/pkg/cache"
	"portfolio_tracker_back/pkg/coingecko"
)

const (
	topAssetsKey = "market:top"
	trendingKey  = "market:trending"
	newsKey      = "market:news"
	staleSuffix  = ":stale"

	topAssetsTTL = 60 * time.Second
	trendingTTL  = 300 * time.Second
	newsTTL      = 300 * time.Second
	staleTTL     = 24 * time.Hour

	marketsPageSize = 100
	topAssetsLimit  = 20

	coinPageURL = "https://www.coingecko.com/en/coins/"
)

// displayChains lists the chains shown on the dashboard with the CoinGecko ids
// and symbols that identify their native assets.
var displayChains = []struct {
	chain string
	ids   []string
}{
	{"ethereum", []string{"ethereum", "eth"}},
	{"solana", []string{"solana", "sol"}},
	{"avalanche", []string{"avalanche-2", "avax"}},
	{"bsc", []string{"binancecoin", "bnb"}},
}

// blockchainOf reports the display chain a coin belongs to, if any.
func blockchainOf(coinID string) (string, bool) {
	for _, dc := range displayChains {
		for _, id := range dc.ids {
			if coinID == id {
				return dc.chain, true
			}
		}
		if strings.HasPrefix(coinID, dc.chain) {
			return dc.chain, true
		}
	}
	return "", false
}

type MarketService struct {
	source MarketSource
	cache  cache.Cache
	now    func() time.Time
}

func NewMarketService(source MarketSource, c cache.Cache) *MarketService {
	return &MarketService{
		source: source,
		cache:  c,
		now:    time.Now,
	}
}

// cached serves key from the cache, falling back to load on a miss. A
// successful load also refreshes a long-lived stale copy. When the upstream
// fails the stale copy is served, or empty if there is none.
func cached[T any](ctx context.Context, c cache.Cache, key string, ttl time.Duration, empty T, load func(context.Context) (T, error)) T {
	var out T
	if ok, err := c.Get(ctx, key, &out); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("cache read failed")
	} else if ok {
		return out
	}

	fresh, loadErr := load(ctx)
	if loadErr == nil {
		if err := c.Set(ctx, key, fresh, ttl); err != nil {
			logrus.WithError(err).WithField("key", key).Warn("cache write failed")
		}
		if err := c.Set(ctx, key+staleSuffix, fresh, staleTTL); err != nil {
			logrus.WithError(err).WithField("key", key+staleSuffix).Warn("cache write failed")
		}
		return fresh
	}

	var stale T
	if ok, err := c.Get(ctx, key+staleSuffix, &stale); err == nil && ok {
		logrus.WithError(loadErr).WithField("key", key).Warn("upstream failed, serving stale data")
		return stale
	}
	logrus.WithError(loadErr).WithField("key", key).Error("upstream failed and no cached data")
	return empty
}

func (s *MarketService) TopAssets(ctx context.Context) ([]models.MarketAsset, error) {
	return cached(ctx, s.cache, topAssetsKey, topAssetsTTL, []models.MarketAsset{}, func(ctx context.Context) ([]models.MarketAsset, error) {
		markets, err := s.source.Markets(ctx, marketsPageSize)
		if err != nil {
			return nil, errors.Wrap(err, "fetch markets")
		}

		assets := make([]models.MarketAsset, 0, topAssetsLimit)
		for _, m := range markets {
			chainTag, ok := blockchainOf(m.ID)
			if !ok {
				continue
			}
			assets = append(assets, marketAsset(m, chainTag))
			if len(assets) == topAssetsLimit {
				break
			}
		}
		return assets, nil
	}), nil
}

func marketAsset(m coingecko.Market, chainTag string) models.MarketAsset {
	sparkline := m.SparklineIn7d.Price
	if sparkline == nil {
		sparkline = []float64{}
	}
	return models.MarketAsset{
		ID:                       m.ID,
		Symbol:                   m.Symbol,
		Name:                     m.Name,
		Image:                    m.Image,
		CurrentPrice:             m.CurrentPrice,
		MarketCap:                m.MarketCap,
		MarketCapRank:            m.MarketCapRank,
		TotalVolume:              m.TotalVolume,
		PriceChangePercentage24h: m.PriceChangePercentage24h,
		Sparkline:                sparkline,
		Blockchain:               chainTag,
	}
}

func (s *MarketService) Trending(ctx context.Context) ([]models.TrendingCoin, error) {
	return cached(ctx, s.cache, trendingKey, trendingTTL, []models.TrendingCoin{}, func(ctx context.Context) ([]models.TrendingCoin, error) {
		items, err := s.source.Trending(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "fetch trending")
		}

		coins := make([]models.TrendingCoin, 0, len(items))
		for _, it := range items {
			coins = append(coins, models.TrendingCoin{
				ID:            it.ID,
				CoinID:        it.CoinID,
				Name:          it.Name,
				Symbol:        it.Symbol,
				MarketCapRank: it.MarketCapRank,
				Thumb:         it.Thumb,
				Large:         it.Large,
				Slug:          it.Slug,
				PriceBTC:      it.PriceBTC,
				Score:         it.Score,
			})
		}
		return coins, nil
	}), nil
}

// News is built from project status updates. When that feed fails or is
// empty, trending coins are turned into news items instead.
func (s *MarketService) News(ctx context.Context) ([]models.NewsItem, error) {
	return cached(ctx, s.cache, newsKey, newsTTL, []models.NewsItem{}, func(ctx context.Context) ([]models.NewsItem, error) {
		updates, err := s.source.StatusUpdates(ctx)
		if err == nil && len(updates) > 0 {
			news := make([]models.NewsItem, 0, len(updates))
			for _, u := range updates {
				news = append(news, statusNews(u))
			}
			return news, nil
		}
		if err != nil {
			logrus.WithError(err).Warn("status updates unavailable, using trending coins for news")
		}

		items, err := s.source.Trending(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "fetch news")
		}
		now := s.now().UTC()
		news := make([]models.NewsItem, 0, len(items))
		for _, it := range items {
			news = append(news, trendingNews(it, now))
		}
		return news, nil
	}), nil
}

func statusNews(u coingecko.StatusUpdate) models.NewsItem {
	title := u.Project.Name
	if title == "" {
		title = "CoinGecko"
	}
	source := u.User
	if source == "" {
		source = "CoinGecko"
	}
	categories := []string{}
	if u.Category != "" {
		categories = append(categories, u.Category)
	}
	return models.NewsItem{
		Title:       title + " update",
		Description: u.Description,
		URL:         coinPageURL + u.Project.ID,
		Source:      source,
		Categories:  categories,
		PublishedAt: u.CreatedAt,
	}
}

func trendingNews(it coingecko.TrendingItem, at time.Time) models.NewsItem {
	return models.NewsItem{
		Title: fmt.Sprintf("%s (%s) is trending", it.Name, strings.ToUpper(it.Symbol)),
		Description: fmt.Sprintf("%s is one of the most searched coins on CoinGecko in the last 24 hours and ranks #%d by market cap.",
			it.Name, it.MarketCapRank),
		URL:         coinPageURL + it.ID,
		Source:      "CoinGecko Trending",
		Categories:  []string{"Trending"},
		PublishedAt: at,
	}
}
