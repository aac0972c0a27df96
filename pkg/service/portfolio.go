package service

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"portfolio_tracker_back/internal/wallet"
	"portfolio_tracker_back/models"
	"portfolio_tracker_back/pkg/repository"
)

type PortfolioService struct {
	repos    repository.Portfolio
	balances BalanceAggregator
}

func NewPortfolioService(repos repository.Portfolio, balances BalanceAggregator) *PortfolioService {
	return &PortfolioService{
		repos:    repos,
		balances: balances,
	}
}

// defaultPortfolio returns the user's portfolio, creating the default one on
// first access.
func (s *PortfolioService) defaultPortfolio(ctx context.Context, userID int64) (models.Portfolio, error) {
	p, err := s.repos.GetPortfolioByUser(ctx, userID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return p, err
	}

	p, err = s.repos.CreatePortfolio(ctx, userID, models.DefaultPortfolioName)
	if err != nil {
		return p, err
	}
	logrus.WithFields(logrus.Fields{"user": userID, "portfolio": p.ID}).Info("default portfolio created")
	return p, nil
}

func (s *PortfolioService) GetPortfolio(ctx context.Context, userID int64) (models.Portfolio, error) {
	p, err := s.defaultPortfolio(ctx, userID)
	if err != nil {
		return p, err
	}

	assets, err := s.repos.GetAssets(ctx, p.ID)
	if err != nil {
		return p, err
	}
	wallets, err := s.repos.GetWallets(ctx, p.ID)
	if err != nil {
		return p, err
	}

	p.Assets = assets
	if p.Assets == nil {
		p.Assets = []models.Asset{}
	}
	p.Wallets = s.balances.Aggregate(ctx, wallets)
	return p, nil
}

func (s *PortfolioService) AddAsset(ctx context.Context, userID int64, input models.AssetInput) (models.Asset, error) {
	p, err := s.defaultPortfolio(ctx, userID)
	if err != nil {
		return models.Asset{}, err
	}

	amount := decimal.Zero
	if input.Amount != nil {
		amount = *input.Amount
	}

	// Purchase price lookup is not implemented; the price is recorded as 0.
	return s.repos.CreateAsset(ctx, models.Asset{
		PortfolioID:   p.ID,
		AssetID:       strings.TrimSpace(input.AssetID),
		Blockchain:    strings.TrimSpace(input.Blockchain),
		Amount:        amount,
		PurchasePrice: decimal.Zero,
	})
}

func (s *PortfolioService) AddWallet(ctx context.Context, userID int64, input models.WalletInput) (models.WalletBalance, error) {
	chainTag := wallet.NormalizeChain(input.Chain)
	if err := wallet.ValidateAddress(chainTag, strings.TrimSpace(input.Address)); err != nil {
		return models.WalletBalance{}, errors.Wrap(ErrInvalidAddress, err.Error())
	}

	p, err := s.defaultPortfolio(ctx, userID)
	if err != nil {
		return models.WalletBalance{}, err
	}

	created, err := s.repos.CreateWallet(ctx, models.Wallet{
		PortfolioID: p.ID,
		Address:     wallet.NormalizeAddress(chainTag, input.Address),
		Chain:       chainTag,
	})
	if err != nil {
		return models.WalletBalance{}, err
	}

	return s.balances.FetchOne(ctx, created), nil
}

// RefreshBalances recomputes the balances of every wallet in the user's
// portfolio. It never creates a portfolio.
func (s *PortfolioService) RefreshBalances(ctx context.Context, userID int64) ([]models.WalletBalance, error) {
	p, err := s.repos.GetPortfolioByUser(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrPortfolioNotFound
	}
	if err != nil {
		return nil, err
	}

	wallets, err := s.repos.GetWallets(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return s.balances.Aggregate(ctx, wallets), nil
}
