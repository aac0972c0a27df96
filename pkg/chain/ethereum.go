package chain

import (
	"context"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"portfolio_tracker_back/internal/wallet"
	"portfolio_tracker_back/models"
)

const (
	etherDecimals = 18

	erc20BalanceOfABI = `[{"constant":true,"inputs":[{"name":"_owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"balance","type":"uint256"}],"stateMutability":"view","type":"function"}]`
)

type Token struct {
	Symbol   string
	Address  common.Address
	Decimals int32
}

// EthereumTokens is the ERC-20 allow-list read for every ethereum wallet.
var EthereumTokens = []Token{
	{Symbol: "USDT", Address: common.HexToAddress("0xdAC17F958D2ee523a2206206994597C13D831ec7"), Decimals: 6},
	{Symbol: "USDC", Address: common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"), Decimals: 6},
	{Symbol: "DAI", Address: common.HexToAddress("0x6B175474E89094C44Da98b954EedeAC495271d0F"), Decimals: 18},
	{Symbol: "WBTC", Address: common.HexToAddress("0x2260FAC5E5542a773Aa44fBCfeDf7C193bc2C599"), Decimals: 8},
	{Symbol: "LINK", Address: common.HexToAddress("0x514910771AF9Ca656af840dff83E8264EcF986CA"), Decimals: 18},
}

// EthereumBackend is the read-only subset of *ethclient.Client we need.
type EthereumBackend interface {
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

type EthereumFetcher struct {
	backend EthereumBackend
	tokens  []Token
	erc20   abi.ABI
}

func NewEthereumFetcher(backend EthereumBackend, tokens []Token) (*EthereumFetcher, error) {
	parsed, err := abi.JSON(strings.NewReader(erc20BalanceOfABI))
	if err != nil {
		return nil, errors.Wrap(err, "parse erc20 abi")
	}
	if tokens == nil {
		tokens = EthereumTokens
	}
	return &EthereumFetcher{backend: backend, tokens: tokens, erc20: parsed}, nil
}

func (f *EthereumFetcher) Chain() string { return wallet.ChainEthereum }

func (f *EthereumFetcher) ValidateAddress(address string) error {
	return wallet.ValidateAddress(wallet.ChainEthereum, address)
}

func (f *EthereumFetcher) FetchBalance(ctx context.Context, address string) (*models.WalletBalance, error) {
	if !common.IsHexAddress(address) {
		return nil, errors.Errorf("invalid ethereum address: %s", address)
	}
	owner := common.HexToAddress(address)

	wei, err := f.backend.BalanceAt(ctx, owner, nil)
	if err != nil {
		return nil, errors.Wrap(err, "eth_getBalance")
	}

	res := &models.WalletBalance{
		Address:       address,
		Chain:         wallet.ChainEthereum,
		Balance:       formatUnits(wei, etherDecimals),
		TokenBalances: []models.TokenBalance{},
	}

	for _, token := range f.tokens {
		amount, err := f.tokenBalance(ctx, token, owner)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"address": address,
				"token":   token.Symbol,
			}).WithError(err).Warn("erc20 balance lookup failed, skipping token")
			continue
		}
		if amount.Sign() == 0 {
			continue
		}
		res.TokenBalances = append(res.TokenBalances, models.TokenBalance{
			Symbol:  token.Symbol,
			Balance: formatUnits(amount, token.Decimals),
		})
	}
	return res, nil
}

func (f *EthereumFetcher) tokenBalance(ctx context.Context, token Token, owner common.Address) (*big.Int, error) {
	data, err := f.erc20.Pack("balanceOf", owner)
	if err != nil {
		return nil, errors.Wrap(err, "pack balanceOf")
	}

	out, err := f.backend.CallContract(ctx, ethereum.CallMsg{To: &token.Address, Data: data}, nil)
	if err != nil {
		return nil, errors.Wrap(err, "eth_call balanceOf")
	}

	values, err := f.erc20.Unpack("balanceOf", out)
	if err != nil {
		return nil, errors.Wrap(err, "unpack balanceOf")
	}
	if len(values) != 1 {
		return nil, errors.Errorf("balanceOf returned %d values", len(values))
	}
	amount, ok := values[0].(*big.Int)
	if !ok {
		return nil, errors.Errorf("balanceOf returned %T", values[0])
	}
	return amount, nil
}

func formatUnits(v *big.Int, decimals int32) string {
	if v == nil {
		return models.ZeroBalance
	}
	return decimal.NewFromBigInt(v, -decimals).String()
}
