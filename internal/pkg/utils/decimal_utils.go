package utils

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// DisplayDecimals is the number of fractional digits kept in reports.
const DisplayDecimals = 2

// ToWholeUnits converts an amount in the smallest unit into whole tokens.
// Example: amount=1234500000000000000, decimals=18 => 1.2345
func ToWholeUnits(amount *big.Int, decimals uint8) decimal.Decimal {
	if amount == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(amount, -int32(decimals))
}

// TruncateFixed cuts d to places fractional digits toward zero: scale up, drop the
// fraction, scale back down. 1.2399 becomes 1.23, never 1.24.
func TruncateFixed(d decimal.Decimal, places int32) decimal.Decimal {
	return d.Shift(places).Truncate(0).Shift(-places)
}

// FormatBalance converts a raw balance and truncates it for display.
func FormatBalance(amount *big.Int, decimals uint8) decimal.Decimal {
	return TruncateFixed(ToWholeUnits(amount, decimals), DisplayDecimals)
}
