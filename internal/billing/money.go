package billing

import (
	"fmt"
	"math"
)

// ToCents converts an OMR amount to integer cents for storage.
// Uses math.Round to avoid truncation bias.
func ToCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// CentsToAmount converts stored cents back to an OMR amount.
func CentsToAmount(cents int64) float64 {
	return float64(cents) / 100
}

// FormatAmount renders an OMR amount with exactly 2 decimal places, the
// precision used on the wire and in receipts.
func FormatAmount(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}
