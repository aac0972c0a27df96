package service

import (
	"context"

	"github.com/pkg/errors"

	"portfolio_tracker_back/models"
	"portfolio_tracker_back/pkg/cache"
	"portfolio_tracker_back/pkg/coingecko"
	"portfolio_tracker_back/pkg/repository"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidUsername    = errors.New("username must not be blank")
	ErrPasswordTooLong    = errors.New("password must be at most 72 bytes")
	ErrPortfolioNotFound  = errors.New("portfolio not found")
	ErrInvalidAddress     = errors.New("invalid wallet address")
)

type Authorization interface {
	Register(ctx context.Context, creds models.Credentials) (models.User, error)
	Login(ctx context.Context, creds models.Credentials) (models.User, error)
	GetUser(ctx context.Context, id int64) (models.User, error)
}

type Portfolio interface {
	GetPortfolio(ctx context.Context, userID int64) (models.Portfolio, error)
	AddAsset(ctx context.Context, userID int64, input models.AssetInput) (models.Asset, error)
	AddWallet(ctx context.Context, userID int64, input models.WalletInput) (models.WalletBalance, error)
	RefreshBalances(ctx context.Context, userID int64) ([]models.WalletBalance, error)
}

type Market interface {
	TopAssets(ctx context.Context) ([]models.MarketAsset, error)
	Trending(ctx context.Context) ([]models.TrendingCoin, error)
	News(ctx context.Context) ([]models.NewsItem, error)
}

// BalanceAggregator is implemented by *balance.Aggregator.
type BalanceAggregator interface {
	Aggregate(ctx context.Context, wallets []models.Wallet) []models.WalletBalance
	FetchOne(ctx context.Context, wallet models.Wallet) models.WalletBalance
}

// MarketSource is implemented by *coingecko.Client.
type MarketSource interface {
	Markets(ctx context.Context, perPage int) ([]coingecko.Market, error)
	Trending(ctx context.Context) ([]coingecko.TrendingItem, error)
	StatusUpdates(ctx context.Context) ([]coingecko.StatusUpdate, error)
}

type Service struct {
	Authorization
	Portfolio
	Market
}

func NewService(repos *repository.Repository, balances BalanceAggregator, market MarketSource, c cache.Cache) *Service {
	return &Service{
		Authorization: NewAuthService(repos.Authorization),
		Portfolio:     NewPortfolioService(repos.Portfolio, balances),
		Market:        NewMarketService(market, c),
	}
}
