package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const DefaultPortfolioName = "Default Portfolio"

type Portfolio struct {
	ID        int64           `db:"id" json:"id"`
	UserID    int64           `db:"user_id" json:"userId"`
	Name      string          `db:"name" json:"name"`
	CreatedAt time.Time       `db:"created_at" json:"createdAt"`
	Assets    []Asset         `db:"-" json:"assets"`
	Wallets   []WalletBalance `db:"-" json:"wallets"`
}

// Asset is a manually entered holding. Amount and PurchasePrice are encoded
// as JSON strings ("1.5", "0").
type Asset struct {
	ID            int64           `db:"id" json:"id"`
	PortfolioID   int64           `db:"portfolio_id" json:"portfolioId"`
	AssetID       string          `db:"asset_id" json:"assetId"`
	Blockchain    string          `db:"blockchain" json:"blockchain"`
	Amount        decimal.Decimal `db:"amount" json:"amount"`
	PurchasePrice decimal.Decimal `db:"purchase_price" json:"purchasePrice"`
	PurchaseDate  time.Time       `db:"purchase_date" json:"purchaseDate"`
}

type AssetInput struct {
	AssetID    string           `json:"assetId" binding:"required"`
	Amount     *decimal.Decimal `json:"amount" binding:"required"`
	Blockchain string           `json:"blockchain" binding:"required"`
}
