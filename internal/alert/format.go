package alert

import (
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// FormatCurrency renders an amount as dollars with thousands separators and two decimals,
// e.g. 1234567.891 -> "$1,234,567.89". Rounding happens here and nowhere else.
func FormatCurrency(amount decimal.Decimal) string {
	rounded := amount.Round(2)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Abs()
	}

	_, frac, _ := strings.Cut(rounded.StringFixed(2), ".")
	return sign + "$" + humanize.Comma(rounded.IntPart()) + "." + frac
}
