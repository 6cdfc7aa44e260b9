package entity

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// RawBalance is a balance as returned by a chain client, in the chain's smallest unit.
type RawBalance struct {
	Address  string
	Amount   *big.Int
	Decimals uint8
}

// AccountBalance is the resolved balance of one account on one network.
type AccountBalance struct {
	Label    string          `json:"label"`
	Address  string          `json:"address"`
	Protocol string          `json:"protocol"`
	Amount   decimal.Decimal `json:"amount"`
}

// NetworkResult holds the resolved balances of a single network, in account order.
// Accounts that could not be resolved are absent.
type NetworkResult struct {
	Network  string           `json:"network"`
	Balances []AccountBalance `json:"balances"`
}

// Add appends a resolved balance to the result.
func (r *NetworkResult) Add(b AccountBalance) {
	r.Balances = append(r.Balances, b)
}

// Empty reports whether no account of the network was resolved.
func (r NetworkResult) Empty() bool {
	return len(r.Balances) == 0
}

// Amounts returns the result as a label -> amount mapping.
func (r NetworkResult) Amounts() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(r.Balances))
	for _, b := range r.Balances {
		out[b.Label] = b.Amount
	}
	return out
}
