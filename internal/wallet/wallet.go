package wallet

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/mr-tron/base58"
)

const (
	ChainEthereum = "ethereum"
	ChainSolana   = "solana"

	solanaPubkeyLen = 32
)

// NormalizeChain lower-cases and trims a chain tag.
func NormalizeChain(chain string) string {
	return strings.ToLower(strings.TrimSpace(chain))
}

// ValidateAddress checks the address format for chains we know how to read.
// Addresses on other chains are accepted as-is.
func ValidateAddress(chain, address string) error {
	switch NormalizeChain(chain) {
	case ChainEthereum:
		if !common.IsHexAddress(address) {
			return fmt.Errorf("invalid ethereum address: %s", address)
		}
	case ChainSolana:
		decoded, err := base58.Decode(address)
		if err != nil {
			return fmt.Errorf("invalid solana address %s: %v", address, err)
		}
		if len(decoded) != solanaPubkeyLen {
			return fmt.Errorf("invalid solana address %s: got %d bytes", address, len(decoded))
		}
	}
	return nil
}

// NormalizeAddress returns the checksummed form of ethereum addresses and the
// trimmed input otherwise.
func NormalizeAddress(chain, address string) string {
	address = strings.TrimSpace(address)
	if NormalizeChain(chain) == ChainEthereum && common.IsHexAddress(address) {
		return common.HexToAddress(address).Hex()
	}
	return address
}
