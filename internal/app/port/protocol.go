package port

import (
	"context"

	"balance_reporter/internal/domain/entity"
)

// BalanceProtocol fetches the native balance of the account owning a secret key.
// Implementations are chain client families (Conflux Core, EVM JSON-RPC).
type BalanceProtocol interface {
	// Name identifies the protocol in logs and reports.
	Name() string

	// FetchBalance binds a client to endpointURL, derives the account address from
	// secretKey and returns its raw balance in the smallest unit of the chain.
	FetchBalance(ctx context.Context, endpointURL string, secretKey string) (entity.RawBalance, error)
}
