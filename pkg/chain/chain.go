package chain

import (
	"context"

	"github.com/pkg/errors"

	"portfolio_tracker_back/internal/wallet"
	"portfolio_tracker_back/models"
)

var ErrUnsupportedChain = errors.New("unsupported chain")

// Fetcher reads the live balance of one address on one chain: the native
// balance plus the non-zero balances of a fixed token set.
type Fetcher interface {
	Chain() string
	// ValidateAddress rejects addresses that can never be read on this chain.
	ValidateAddress(address string) error
	FetchBalance(ctx context.Context, address string) (*models.WalletBalance, error)
}

// UnsupportedChainError reads "unsupported chain: <tag>" and matches
// ErrUnsupportedChain.
type UnsupportedChainError struct {
	Tag string
}

func (e *UnsupportedChainError) Error() string {
	return ErrUnsupportedChain.Error() + ": " + e.Tag
}

func (e *UnsupportedChainError) Is(target error) bool {
	return target == ErrUnsupportedChain
}

func UnsupportedChain(tag string) error {
	return &UnsupportedChainError{Tag: tag}
}

// Registry maps chain tags to fetchers.
type Registry map[string]Fetcher

func NewRegistry(fetchers ...Fetcher) Registry {
	r := make(Registry, len(fetchers))
	for _, f := range fetchers {
		r[f.Chain()] = f
	}
	return r
}

func (r Registry) Lookup(tag string) (Fetcher, error) {
	f, ok := r[wallet.NormalizeChain(tag)]
	if !ok {
		return nil, UnsupportedChain(tag)
	}
	return f, nil
}

func (r Registry) IsSupported(tag string) bool {
	_, ok := r[wallet.NormalizeChain(tag)]
	return ok
}
