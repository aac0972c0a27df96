package service

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"portfolio_tracker_back/models"
	"portfolio_tracker_back/pkg/coingecko"
	"portfolio_tracker_back/pkg/repository"
)

type fakeAuthRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[string]models.User
}

func newFakeAuthRepo() *fakeAuthRepo {
	return &fakeAuthRepo{users: map[string]models.User{}}
}

func (r *fakeAuthRepo) CreateUser(_ context.Context, username, hash string) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[username]; ok {
		return models.User{}, errors.Wrap(repository.ErrDuplicate, "create user")
	}
	r.nextID++
	u := models.User{ID: r.nextID, Username: username, PasswordHash: hash, CreatedAt: time.Now()}
	r.users[username] = u
	return u, nil
}

func (r *fakeAuthRepo) GetUserByUsername(_ context.Context, username string) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[username]
	if !ok {
		return models.User{}, errors.Wrap(repository.ErrNotFound, "get user")
	}
	return u, nil
}

func (r *fakeAuthRepo) GetUserByID(_ context.Context, id int64) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return models.User{}, errors.Wrap(repository.ErrNotFound, "get user")
}

type fakePortfolioRepo struct {
	mu         sync.Mutex
	portfolios map[int64]models.Portfolio
	assets     map[int64][]models.Asset
	wallets    map[int64][]models.Wallet
	nextID     int64
	created    int
	failWith   error
}

func newFakePortfolioRepo() *fakePortfolioRepo {
	return &fakePortfolioRepo{
		portfolios: map[int64]models.Portfolio{},
		assets:     map[int64][]models.Asset{},
		wallets:    map[int64][]models.Wallet{},
	}
}

func (r *fakePortfolioRepo) id() int64 {
	r.nextID++
	return r.nextID
}

func (r *fakePortfolioRepo) GetPortfolioByUser(_ context.Context, userID int64) (models.Portfolio, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return models.Portfolio{}, r.failWith
	}
	p, ok := r.portfolios[userID]
	if !ok {
		return models.Portfolio{}, errors.Wrap(repository.ErrNotFound, "get portfolio")
	}
	return p, nil
}

func (r *fakePortfolioRepo) CreatePortfolio(_ context.Context, userID int64, name string) (models.Portfolio, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.created++
	p := models.Portfolio{ID: r.id(), UserID: userID, Name: name, CreatedAt: time.Now()}
	r.portfolios[userID] = p
	return p, nil
}

func (r *fakePortfolioRepo) GetAssets(_ context.Context, portfolioID int64) ([]models.Asset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.assets[portfolioID], nil
}

func (r *fakePortfolioRepo) CreateAsset(_ context.Context, a models.Asset) (models.Asset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a.ID = r.id()
	a.PurchaseDate = time.Now()
	r.assets[a.PortfolioID] = append(r.assets[a.PortfolioID], a)
	return a, nil
}

func (r *fakePortfolioRepo) GetWallets(_ context.Context, portfolioID int64) ([]models.Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.wallets[portfolioID], nil
}

func (r *fakePortfolioRepo) CreateWallet(_ context.Context, w models.Wallet) (models.Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w.ID = r.id()
	w.CreatedAt = time.Now()
	r.wallets[w.PortfolioID] = append(r.wallets[w.PortfolioID], w)
	return w, nil
}

// fakeBalances reports "<id>" as the balance of every wallet.
type fakeBalances struct {
	aggregated [][]models.Wallet
}

func (f *fakeBalances) Aggregate(ctx context.Context, wallets []models.Wallet) []models.WalletBalance {
	f.aggregated = append(f.aggregated, wallets)
	out := make([]models.WalletBalance, 0, len(wallets))
	for _, w := range wallets {
		out = append(out, f.FetchOne(ctx, w))
	}
	return out
}

func (f *fakeBalances) FetchOne(_ context.Context, w models.Wallet) models.WalletBalance {
	if w.Chain != "ethereum" && w.Chain != "solana" {
		return models.BalancePlaceholder(w, errors.New("unsupported chain: "+w.Chain))
	}
	return models.WalletBalance{ID: w.ID, Address: w.Address, Chain: w.Chain, Balance: "1"}
}

type fakeMarketSource struct {
	mu          sync.Mutex
	markets     []coingecko.Market
	trending    []coingecko.TrendingItem
	updates     []coingecko.StatusUpdate
	marketsErr  error
	trendingErr error
	updatesErr  error
	calls       map[string]int
}

func newFakeMarketSource() *fakeMarketSource {
	return &fakeMarketSource{calls: map[string]int{}}
}

func (f *fakeMarketSource) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeMarketSource) Markets(_ context.Context, perPage int) ([]coingecko.Market, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["markets"]++
	if f.marketsErr != nil {
		return nil, f.marketsErr
	}
	if len(f.markets) > perPage {
		return f.markets[:perPage], nil
	}
	return f.markets, nil
}

func (f *fakeMarketSource) Trending(context.Context) ([]coingecko.TrendingItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["trending"]++
	return f.trending, f.trendingErr
}

func (f *fakeMarketSource) StatusUpdates(context.Context) ([]coingecko.StatusUpdate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["updates"]++
	return f.updates, f.updatesErr
}
