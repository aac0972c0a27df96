package balance

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio_tracker_back/models"
	"portfolio_tracker_back/pkg/chain"
	"portfolio_tracker_back/pkg/retry"
)

// scriptedFetcher fails the first failures[address] calls for an address and
// then answers with a balance derived from the address.
type scriptedFetcher struct {
	chain    string
	mu       sync.Mutex
	calls    map[string]int
	failures map[string]int
	delay    map[string]time.Duration
	invalid  map[string]bool
}

func newScriptedFetcher(chainTag string) *scriptedFetcher {
	return &scriptedFetcher{
		chain:    chainTag,
		calls:    map[string]int{},
		failures: map[string]int{},
		delay:    map[string]time.Duration{},
		invalid:  map[string]bool{},
	}
}

func (f *scriptedFetcher) Chain() string { return f.chain }

func (f *scriptedFetcher) ValidateAddress(address string) error {
	if f.invalid[address] {
		return fmt.Errorf("invalid %s address: %s", f.chain, address)
	}
	return nil
}

func (f *scriptedFetcher) FetchBalance(ctx context.Context, address string) (*models.WalletBalance, error) {
	f.mu.Lock()
	f.calls[address]++
	n := f.calls[address]
	fail := f.failures[address]
	d := f.delay[address]
	f.mu.Unlock()

	if d > 0 {
		time.Sleep(d)
	}
	if fail < 0 || n <= fail {
		return nil, fmt.Errorf("rpc error for %s (call %d)", address, n)
	}
	return &models.WalletBalance{
		Address: address,
		Chain:   f.chain,
		Balance: "1." + address,
		TokenBalances: []models.TokenBalance{
			{Symbol: "USDC", Balance: "10"},
		},
	}, nil
}

func (f *scriptedFetcher) callCount(address string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[address]
}

func testRetry() retry.Config {
	return retry.Config{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond, Multiplier: 2}
}

func TestAggregate_AllSucceed(t *testing.T) {
	eth := newScriptedFetcher("ethereum")
	sol := newScriptedFetcher("solana")
	agg := NewAggregator(chain.NewRegistry(eth, sol), testRetry())

	wallets := []models.Wallet{
		{ID: 1, Address: "a", Chain: "ethereum"},
		{ID: 2, Address: "b", Chain: "solana"},
	}
	got := agg.Aggregate(context.Background(), wallets)

	require.Len(t, got, 2)
	assert.Equal(t, models.WalletBalance{ID: 1, Address: "a", Chain: "ethereum", Balance: "1.a",
		TokenBalances: []models.TokenBalance{{Symbol: "USDC", Balance: "10"}}}, got[0])
	assert.Equal(t, int64(2), got[1].ID)
	assert.Equal(t, "1.b", got[1].Balance)
	assert.Empty(t, got[1].Error)
}

func TestAggregate_Empty(t *testing.T) {
	agg := NewAggregator(chain.NewRegistry(), testRetry())
	got := agg.Aggregate(context.Background(), nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestAggregate_UnsupportedChainIsolated(t *testing.T) {
	eth := newScriptedFetcher("ethereum")
	agg := NewAggregator(chain.NewRegistry(eth), testRetry())

	wallets := []models.Wallet{
		{ID: 1, Address: "a", Chain: "ethereum"},
		{ID: 2, Address: "b", Chain: "dogecoin"},
		{ID: 3, Address: "c", Chain: "ethereum"},
	}
	got := agg.Aggregate(context.Background(), wallets)

	require.Len(t, got, 3)
	assert.Equal(t, "1.a", got[0].Balance)
	assert.Equal(t, "1.c", got[2].Balance)

	assert.Equal(t, "b", got[1].Address)
	assert.Equal(t, "dogecoin", got[1].Chain)
	assert.Equal(t, "0", got[1].Balance)
	assert.Equal(t, "unsupported chain: dogecoin", got[1].Error)
	assert.Equal(t, 0, eth.callCount("b"))
}

func TestAggregate_InvalidAddressNotRetried(t *testing.T) {
	eth := newScriptedFetcher("ethereum")
	eth.invalid["0xnope"] = true
	cfg := testRetry()
	cfg.InitialDelay = time.Hour
	cfg.MaxDelay = time.Hour
	agg := NewAggregator(chain.NewRegistry(eth), cfg)

	wallets := []models.Wallet{
		{ID: 1, Address: "0xnope", Chain: "ethereum"},
		{ID: 2, Address: "a", Chain: "ethereum"},
	}
	start := time.Now()
	got := agg.Aggregate(context.Background(), wallets)

	require.Len(t, got, 2)
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, models.ZeroBalance, got[0].Balance)
	assert.Equal(t, "invalid ethereum address: 0xnope", got[0].Error)
	assert.Equal(t, 0, eth.callCount("0xnope"))
	assert.Equal(t, "1.a", got[1].Balance)
}

func TestAggregate_FailingWalletIsolated(t *testing.T) {
	eth := newScriptedFetcher("ethereum")
	eth.failures["bad"] = -1
	agg := NewAggregator(chain.NewRegistry(eth), testRetry())

	wallets := []models.Wallet{
		{ID: 1, Address: "a", Chain: "ethereum"},
		{ID: 2, Address: "bad", Chain: "ethereum"},
		{ID: 3, Address: "c", Chain: "ethereum"},
	}
	got := agg.Aggregate(context.Background(), wallets)

	require.Len(t, got, 3)
	assert.Equal(t, "0", got[1].Balance)
	assert.NotEmpty(t, got[1].Error)
	assert.Empty(t, got[1].TokenBalances)
	assert.Equal(t, 3, eth.callCount("bad"))

	for _, i := range []int{0, 2} {
		assert.Empty(t, got[i].Error)
		assert.NotEqual(t, "0", got[i].Balance)
	}
}

func TestAggregate_RetriesThenSucceeds(t *testing.T) {
	eth := newScriptedFetcher("ethereum")
	eth.failures["flaky"] = 2
	agg := NewAggregator(chain.NewRegistry(eth), testRetry())

	got := agg.Aggregate(context.Background(), []models.Wallet{{ID: 7, Address: "flaky", Chain: "ethereum"}})

	require.Len(t, got, 1)
	assert.Empty(t, got[0].Error)
	assert.Equal(t, "1.flaky", got[0].Balance)
	assert.Equal(t, 3, eth.callCount("flaky"))
}

func TestAggregate_PreservesOrderWhenCompletingOutOfOrder(t *testing.T) {
	eth := newScriptedFetcher("ethereum")
	eth.delay["slow"] = 30 * time.Millisecond
	agg := NewAggregator(chain.NewRegistry(eth), testRetry())

	wallets := []models.Wallet{
		{ID: 1, Address: "slow", Chain: "ethereum"},
		{ID: 2, Address: "fast", Chain: "ethereum"},
	}
	got := agg.Aggregate(context.Background(), wallets)

	require.Len(t, got, 2)
	assert.Equal(t, "slow", got[0].Address)
	assert.Equal(t, "fast", got[1].Address)
}

func TestAggregate_RunsConcurrently(t *testing.T) {
	eth := newScriptedFetcher("ethereum")
	wallets := make([]models.Wallet, 10)
	for i := range wallets {
		addr := fmt.Sprintf("w%d", i)
		eth.delay[addr] = 50 * time.Millisecond
		wallets[i] = models.Wallet{ID: int64(i), Address: addr, Chain: "ethereum"}
	}
	agg := NewAggregator(chain.NewRegistry(eth), testRetry())

	start := time.Now()
	got := agg.Aggregate(context.Background(), wallets)
	elapsed := time.Since(start)

	require.Len(t, got, 10)
	assert.Less(t, elapsed, 400*time.Millisecond)
}

func TestFetchOne_ContextCancelled(t *testing.T) {
	eth := newScriptedFetcher("ethereum")
	eth.failures["a"] = -1
	cfg := testRetry()
	cfg.InitialDelay = time.Hour
	cfg.MaxDelay = time.Hour
	agg := NewAggregator(chain.NewRegistry(eth), cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	got := agg.FetchOne(ctx, models.Wallet{ID: 1, Address: "a", Chain: "ethereum"})
	assert.Equal(t, "0", got.Balance)
	assert.True(t, errors.Is(ctx.Err(), context.DeadlineExceeded))
	assert.Equal(t, context.DeadlineExceeded.Error(), got.Error)
}
