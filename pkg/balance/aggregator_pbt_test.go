package balance

import (
	"context"
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"portfolio_tracker_back/models"
	"portfolio_tracker_back/pkg/chain"
)

// Every batch yields one entry per wallet, in input order, and only the
// wallets scripted to fail carry the placeholder.
func TestAggregate_Properties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("results are index-aligned and failures isolated", prop.ForAll(
		func(kinds []int) bool {
			eth := newScriptedFetcher("ethereum")
			wallets := make([]models.Wallet, len(kinds))
			for i, k := range kinds {
				addr := fmt.Sprintf("w%d", i)
				w := models.Wallet{ID: int64(i + 1), Address: addr, Chain: "ethereum"}
				switch k {
				case 1:
					eth.failures[addr] = -1
				case 2:
					w.Chain = "cardano"
				}
				wallets[i] = w
			}

			agg := NewAggregator(chain.NewRegistry(eth), testRetry())
			got := agg.Aggregate(context.Background(), wallets)
			if len(got) != len(wallets) {
				return false
			}
			for i, k := range kinds {
				if got[i].Address != wallets[i].Address || got[i].ID != wallets[i].ID {
					return false
				}
				failed := got[i].Error != ""
				if failed != (k != 0) {
					return false
				}
				if failed && got[i].Balance != "0" {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 2)),
	))

	properties.TestingRun(t)
}
