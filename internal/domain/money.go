package domain

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// FormatCents renders a minor-unit amount for display, e.g. 5000 -> "$50.00".
// Display only; no amount ever flows back from this representation.
func FormatCents(cents int64) string {
	return "$" + decimal.NewFromInt(cents).Div(hundred).StringFixed(2)
}
