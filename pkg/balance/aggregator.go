package balance

import (
	"context"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"portfolio_tracker_back/models"
	"portfolio_tracker_back/pkg/chain"
	"portfolio_tracker_back/pkg/retry"
)

// Aggregator fetches live balances for many wallets at once. A wallet that
// cannot be read never fails the batch: it gets a placeholder entry instead.
type Aggregator struct {
	fetchers chain.Registry
	retry    retry.Config
}

func NewAggregator(fetchers chain.Registry, cfg retry.Config) *Aggregator {
	return &Aggregator{fetchers: fetchers, retry: cfg}
}

// Aggregate returns one entry per wallet, index-aligned with wallets.
func (a *Aggregator) Aggregate(ctx context.Context, wallets []models.Wallet) []models.WalletBalance {
	results := make([]models.WalletBalance, len(wallets))

	var g errgroup.Group
	for i, w := range wallets {
		g.Go(func() error {
			results[i] = a.FetchOne(ctx, w)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// FetchOne reads a single wallet with retry.
func (a *Aggregator) FetchOne(ctx context.Context, w models.Wallet) models.WalletBalance {
	log := logrus.WithFields(logrus.Fields{
		"wallet":  w.ID,
		"address": w.Address,
		"chain":   w.Chain,
	})

	fetcher, err := a.fetchers.Lookup(w.Chain)
	if err != nil {
		log.Warn(err.Error())
		return models.BalancePlaceholder(w, err)
	}
	if err := fetcher.ValidateAddress(w.Address); err != nil {
		log.Warn(err.Error())
		return models.BalancePlaceholder(w, err)
	}

	var fetched *models.WalletBalance
	res := retry.Do(ctx, a.retry, func(ctx context.Context, attempt int) error {
		b, err := fetcher.FetchBalance(ctx, w.Address)
		if err != nil {
			return err
		}
		fetched = b
		return nil
	})
	if !res.Success {
		log.WithField("attempts", res.Attempts).WithError(res.LastError).Error("wallet balance fetch failed")
		return models.BalancePlaceholder(w, res.LastError)
	}

	out := *fetched
	out.ID = w.ID
	out.Address = w.Address
	out.Chain = w.Chain
	return out
}
