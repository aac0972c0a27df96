package chain

import (
	"context"
	"math/big"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"portfolio_tracker_back/internal/wallet"
	"portfolio_tracker_back/models"
	"portfolio_tracker_back/pkg/solclient"
)

const solDecimals = 9

// SolanaMints names the well-known SPL mints; other mints are reported by
// their mint address.
var SolanaMints = map[string]string{
	"EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v": "USDC",
	"Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB": "USDT",
	"So11111111111111111111111111111111111111112":  "WSOL",
	"DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263": "BONK",
	"JUPyiwrYJFskUPiHa7hkeR8VUtAeFoSYbKedZNsDvCN":  "JUP",
}

type SolanaRPC interface {
	GetBalance(ctx context.Context, address string) (uint64, error)
	GetTokenAccountsByOwner(ctx context.Context, owner string) ([]solclient.TokenAccount, error)
}

type SolanaFetcher struct {
	rpc SolanaRPC
}

func NewSolanaFetcher(rpc SolanaRPC) *SolanaFetcher {
	return &SolanaFetcher{rpc: rpc}
}

func (f *SolanaFetcher) Chain() string { return wallet.ChainSolana }

func (f *SolanaFetcher) ValidateAddress(address string) error {
	return wallet.ValidateAddress(wallet.ChainSolana, address)
}

func (f *SolanaFetcher) FetchBalance(ctx context.Context, address string) (*models.WalletBalance, error) {
	lamports, err := f.rpc.GetBalance(ctx, address)
	if err != nil {
		return nil, errors.Wrap(err, "getBalance")
	}

	accounts, err := f.rpc.GetTokenAccountsByOwner(ctx, address)
	if err != nil {
		return nil, errors.Wrap(err, "getTokenAccountsByOwner")
	}

	res := &models.WalletBalance{
		Address:       address,
		Chain:         wallet.ChainSolana,
		Balance:       formatUnits(new(big.Int).SetUint64(lamports), solDecimals),
		TokenBalances: []models.TokenBalance{},
	}

	for _, acc := range accounts {
		raw, err := decimal.NewFromString(acc.Amount.Amount)
		if err != nil || raw.Sign() == 0 {
			continue
		}
		symbol, ok := SolanaMints[acc.Mint]
		if !ok {
			symbol = acc.Mint
		}
		res.TokenBalances = append(res.TokenBalances, models.TokenBalance{
			Symbol:  symbol,
			Balance: raw.Shift(-int32(acc.Amount.Decimals)).String(),
		})
	}
	return res, nil
}
