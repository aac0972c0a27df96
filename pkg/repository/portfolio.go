package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"portfolio_tracker_back/models"
)

var (
	portfolioColumns = []string{"id", "user_id", "name", "created_at"}
	assetColumns     = []string{"id", "portfolio_id", "asset_id", "blockchain", "amount", "purchase_price", "purchase_date"}
	walletColumns    = []string{"id", "portfolio_id", "address", "chain", "created_at"}
)

type PortfolioPostgres struct {
	db *sqlx.DB
}

func NewPortfolioPostgres(db *sqlx.DB) *PortfolioPostgres {
	return &PortfolioPostgres{db: db}
}

// GetPortfolioByUser returns the user's oldest portfolio.
func (r *PortfolioPostgres) GetPortfolioByUser(ctx context.Context, userID int64) (models.Portfolio, error) {
	var p models.Portfolio
	query, args, err := builder().
		Select(portfolioColumns...).
		From(portfoliosTable).
		Where(sq.Eq{"user_id": userID}).
		OrderBy("id").
		Limit(1).
		ToSql()
	if err != nil {
		return p, translate(err, "build GetPortfolioByUser query")
	}

	err = r.db.GetContext(ctx, &p, query, args...)
	return p, translate(err, "get portfolio")
}

func (r *PortfolioPostgres) CreatePortfolio(ctx context.Context, userID int64, name string) (models.Portfolio, error) {
	var p models.Portfolio
	query, args, err := builder().
		Insert(portfoliosTable).
		Columns("user_id", "name").
		Values(userID, name).
		Suffix("RETURNING id, user_id, name, created_at").
		ToSql()
	if err != nil {
		return p, translate(err, "build CreatePortfolio query")
	}

	err = r.db.GetContext(ctx, &p, query, args...)
	return p, translate(err, "create portfolio")
}

func (r *PortfolioPostgres) GetAssets(ctx context.Context, portfolioID int64) ([]models.Asset, error) {
	assets := []models.Asset{}
	query, args, err := builder().
		Select(assetColumns...).
		From(assetsTable).
		Where(sq.Eq{"portfolio_id": portfolioID}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, translate(err, "build GetAssets query")
	}

	if err := r.db.SelectContext(ctx, &assets, query, args...); err != nil {
		return nil, translate(err, "get assets")
	}
	return assets, nil
}

func (r *PortfolioPostgres) CreateAsset(ctx context.Context, asset models.Asset) (models.Asset, error) {
	var created models.Asset
	query, args, err := builder().
		Insert(assetsTable).
		Columns("portfolio_id", "asset_id", "blockchain", "amount", "purchase_price").
		Values(asset.PortfolioID, asset.AssetID, asset.Blockchain, asset.Amount, asset.PurchasePrice).
		Suffix("RETURNING id, portfolio_id, asset_id, blockchain, amount, purchase_price, purchase_date").
		ToSql()
	if err != nil {
		return created, translate(err, "build CreateAsset query")
	}

	err = r.db.GetContext(ctx, &created, query, args...)
	return created, translate(err, "create asset")
}

func (r *PortfolioPostgres) GetWallets(ctx context.Context, portfolioID int64) ([]models.Wallet, error) {
	wallets := []models.Wallet{}
	query, args, err := builder().
		Select(walletColumns...).
		From(walletsTable).
		Where(sq.Eq{"portfolio_id": portfolioID}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, translate(err, "build GetWallets query")
	}

	if err := r.db.SelectContext(ctx, &wallets, query, args...); err != nil {
		return nil, translate(err, "get wallets")
	}
	return wallets, nil
}

func (r *PortfolioPostgres) CreateWallet(ctx context.Context, wallet models.Wallet) (models.Wallet, error) {
	var created models.Wallet
	query, args, err := builder().
		Insert(walletsTable).
		Columns("portfolio_id", "address", "chain").
		Values(wallet.PortfolioID, wallet.Address, wallet.Chain).
		Suffix("RETURNING id, portfolio_id, address, chain, created_at").
		ToSql()
	if err != nil {
		return created, translate(err, "build CreateWallet query")
	}

	err = r.db.GetContext(ctx, &created, query, args...)
	return created, translate(err, "create wallet")
}
