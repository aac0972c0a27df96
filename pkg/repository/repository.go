package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"portfolio_tracker_back/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

type Authorization interface {
	CreateUser(ctx context.Context, username, passwordHash string) (models.User, error)
	GetUserByUsername(ctx context.Context, username string) (models.User, error)
	GetUserByID(ctx context.Context, id int64) (models.User, error)
}

type Portfolio interface {
	GetPortfolioByUser(ctx context.Context, userID int64) (models.Portfolio, error)
	CreatePortfolio(ctx context.Context, userID int64, name string) (models.Portfolio, error)
	GetAssets(ctx context.Context, portfolioID int64) ([]models.Asset, error)
	CreateAsset(ctx context.Context, asset models.Asset) (models.Asset, error)
	GetWallets(ctx context.Context, portfolioID int64) ([]models.Wallet, error)
	CreateWallet(ctx context.Context, wallet models.Wallet) (models.Wallet, error)
}

type Repository struct {
	Authorization
	Portfolio
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{
		Authorization: NewAuthPostgres(db),
		Portfolio:     NewPortfolioPostgres(db),
	}
}

// translate maps driver errors onto the package sentinels.
func translate(err error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return errors.Wrap(ErrNotFound, op)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return errors.Wrap(ErrDuplicate, op)
	}
	return errors.Wrap(err, op)
}
