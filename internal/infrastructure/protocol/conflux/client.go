package conflux

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"balance_reporter/internal/app/port"
	"balance_reporter/internal/domain/entity"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/patrickmn/go-cache"
)

// ProtocolName is the name under which the Conflux Core client reports.
const ProtocolName = "conflux"

// DripDecimals is the exponent between Drip and CFX.
const DripDecimals uint8 = 18

const (
	latestStateEpoch       = "latest_state"
	defaultNetworkIDTTL    = 10 * time.Minute
	networkIDCleanupPeriod = 20 * time.Minute
)

type statusResponse struct {
	ChainID   hexutil.Uint64 `json:"chainId"`
	NetworkID hexutil.Uint64 `json:"networkId"`
}

// Client implements port.BalanceProtocol for Conflux Core Space nodes.
type Client struct {
	networkIDs *cache.Cache
	logger     port.Logger
}

// NewClient creates a Conflux Core client. Network ids are remembered per endpoint
// so that accounts on the same network share one status round trip.
func NewClient(logger port.Logger) *Client {
	return &Client{
		networkIDs: cache.New(defaultNetworkIDTTL, networkIDCleanupPeriod),
		logger:     logger,
	}
}

// Name implements port.BalanceProtocol.
func (c *Client) Name() string {
	return ProtocolName
}

// FetchBalance implements port.BalanceProtocol.
func (c *Client) FetchBalance(ctx context.Context, endpointURL string, secretKey string) (entity.RawBalance, error) {
	rpcClient, err := rpc.DialContext(ctx, endpointURL)
	if err != nil {
		return entity.RawBalance{}, fmt.Errorf("failed to connect to %s: %w", endpointURL, err)
	}
	defer rpcClient.Close()

	networkID, err := c.syncNetworkID(ctx, rpcClient, endpointURL)
	if err != nil {
		return entity.RawBalance{}, err
	}

	address, err := DeriveAddress(secretKey, networkID)
	if err != nil {
		return entity.RawBalance{}, err
	}

	var balance hexutil.Big
	if err := rpcClient.CallContext(ctx, &balance, "cfx_getBalance", address, latestStateEpoch); err != nil {
		return entity.RawBalance{}, fmt.Errorf("cfx_getBalance for %s failed: %w", address, err)
	}

	return entity.RawBalance{
		Address:  address,
		Amount:   new(big.Int).Set((*big.Int)(&balance)),
		Decimals: DripDecimals,
	}, nil
}

func (c *Client) syncNetworkID(ctx context.Context, rpcClient *rpc.Client, endpointURL string) (uint64, error) {
	if cached, ok := c.networkIDs.Get(endpointURL); ok {
		return cached.(uint64), nil
	}

	var status statusResponse
	if err := rpcClient.CallContext(ctx, &status, "cfx_getStatus"); err != nil {
		return 0, fmt.Errorf("cfx_getStatus failed: %w", err)
	}
	networkID := uint64(status.NetworkID)
	c.networkIDs.SetDefault(endpointURL, networkID)
	if c.logger != nil {
		c.logger.Debug("Conflux network id synchronized", "endpoint", endpointURL, "network_id", networkID)
	}
	return networkID, nil
}

// DeriveAddress returns the base32 Conflux user address owning secretKey on networkID.
func DeriveAddress(secretKey string, networkID uint64) (string, error) {
	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(secretKey), "0x"))
	if err != nil {
		return "", fmt.Errorf("invalid private key: %w", err)
	}
	hexAddress := UserAddress(crypto.PubkeyToAddress(privateKey.PublicKey))
	return EncodeBase32(hexAddress, networkID)
}
