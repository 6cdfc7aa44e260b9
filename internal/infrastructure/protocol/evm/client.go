package evm

import (
	"context"
	"fmt"
	"strings"

	"balance_reporter/internal/app/port"
	"balance_reporter/internal/domain/entity"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
)

// ProtocolName is the name under which the EVM JSON-RPC client reports.
const ProtocolName = "evm"

// NativeDecimals is the base-unit exponent assumed for every EVM native token.
const NativeDecimals uint8 = 18

// Client implements port.BalanceProtocol for any Ethereum JSON-RPC endpoint.
type Client struct {
	logger port.Logger
}

// NewClient creates a new EVM client.
func NewClient(logger port.Logger) *Client {
	return &Client{logger: logger}
}

// Name implements port.BalanceProtocol.
func (c *Client) Name() string {
	return ProtocolName
}

// FetchBalance implements port.BalanceProtocol.
func (c *Client) FetchBalance(ctx context.Context, endpointURL string, secretKey string) (entity.RawBalance, error) {
	ethClient, err := ethclient.DialContext(ctx, endpointURL)
	if err != nil {
		return entity.RawBalance{}, fmt.Errorf("failed to connect to RPC %s: %w", endpointURL, err)
	}
	defer ethClient.Close()

	address, err := DeriveAddress(secretKey)
	if err != nil {
		return entity.RawBalance{}, err
	}

	balance, err := ethClient.BalanceAt(ctx, address, nil)
	if err != nil {
		return entity.RawBalance{}, fmt.Errorf("eth_getBalance for %s failed: %w", address.Hex(), err)
	}
	if c.logger != nil {
		c.logger.Debug("EVM balance fetched", "endpoint", endpointURL, "address", address.Hex())
	}

	return entity.RawBalance{
		Address:  address.Hex(),
		Amount:   balance,
		Decimals: NativeDecimals,
	}, nil
}

// DeriveAddress returns the checksummed account address owning secretKey.
func DeriveAddress(secretKey string) (common.Address, error) {
	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(secretKey), "0x"))
	if err != nil {
		return common.Address{}, fmt.Errorf("invalid private key: %w", err)
	}
	return crypto.PubkeyToAddress(privateKey.PublicKey), nil
}
