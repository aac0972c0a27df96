package models

import "time"

// Wallet is a tracked on-chain address. Its balance is never stored.
type Wallet struct {
	ID          int64     `db:"id" json:"id"`
	PortfolioID int64     `db:"portfolio_id" json:"portfolioId"`
	Address     string    `db:"address" json:"address"`
	Chain       string    `db:"chain" json:"chain"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

type WalletInput struct {
	Address string `json:"address" binding:"required"`
	Chain   string `json:"chain" binding:"required"`
}
