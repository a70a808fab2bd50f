// Package determinism provides content hashing and money formatting shared
// by the API and the report renderers.
package determinism

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// CurrencyUSD is the only currency quotes are issued in.
const CurrencyUSD = "USD"

var printer = message.NewPrinter(language.English)

// ContentHash is a SHA-256 hash for content integrity
type ContentHash [32]byte

// ComputeHash computes a content hash from bytes
func ComputeHash(data []byte) ContentHash {
	return sha256.Sum256(data)
}

// HashJSON hashes the JSON encoding of v. Struct field order is fixed and
// map keys are sorted by encoding/json, so equal values hash equally.
func HashJSON(v interface{}) (ContentHash, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return ContentHash{}, err
	}
	return ComputeHash(data), nil
}

// Hex returns the hash as a hex string
func (h ContentHash) Hex() string {
	return hex.EncodeToString(h[:])
}

// String implements Stringer
func (h ContentHash) String() string {
	return h.Hex()[:16] + "..."
}

// Money represents a monetary amount with full precision.
type Money struct {
	amount   decimal.Decimal
	currency string
}

// USD wraps a decimal amount
func USD(amount decimal.Decimal) Money {
	return Money{amount: amount, currency: CurrencyUSD}
}

// USDWhole wraps a whole-dollar amount
func USDWhole(amount int64) Money {
	return USD(decimal.NewFromInt(amount))
}

// String returns formatted money (2 decimal places)
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.amount.StringFixed(2), m.currency)
}

// Display renders the amount with thousands separators, e.g. "$10,000" or
// "$0.50". Whole amounts drop the cents.
func (m Money) Display() string {
	if m.amount.IsInteger() {
		return printer.Sprintf("$%d", m.amount.IntPart())
	}
	cents := m.amount.Round(2)
	whole := cents.Truncate(0)
	frac := cents.Sub(whole).Abs().Shift(2).IntPart()
	sign := ""
	if cents.IsNegative() {
		sign = "-"
	}
	return printer.Sprintf("%s$%d.%02d", sign, whole.Abs().IntPart(), frac)
}

// Count renders an integer with thousands separators, e.g. "4,200".
func Count(n int64) string {
	return printer.Sprintf("%d", n)
}

// FormatMultiplier renders a multiplier the way selectors show it, e.g. "1.5x".
func FormatMultiplier(f float64) string {
	return decimal.NewFromFloat(f).String() + "x"
}
