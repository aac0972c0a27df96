package models

const ZeroBalance = "0"

type TokenBalance struct {
	Symbol  string `json:"symbol"`
	Balance string `json:"balance"`
}

// WalletBalance is the live view of a wallet. When the fetch failed, Balance
// is "0" and Error carries the last failure message.
type WalletBalance struct {
	ID            int64          `json:"id,omitempty"`
	Address       string         `json:"address"`
	Chain         string         `json:"chain"`
	Balance       string         `json:"balance"`
	TokenBalances []TokenBalance `json:"tokenBalances,omitempty"`
	Error         string         `json:"error,omitempty"`
}

func BalancePlaceholder(w Wallet, err error) WalletBalance {
	return WalletBalance{
		ID:      w.ID,
		Address: w.Address,
		Chain:   w.Chain,
		Balance: ZeroBalance,
		Error:   err.Error(),
	}
}
