package types

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatCLP formats a CLP amount the way Chilean invoices do: rounded to the
// peso, thousands separated by dots, no decimal places. e.g. 55380 -> "$ 55.380"
func FormatCLP(amount decimal.Decimal) string {
	rounded := amount.Round(0)

	neg := rounded.IsNegative()
	digits := rounded.Abs().String()

	var b strings.Builder
	if neg {
		b.WriteString("-")
	}

	rem := len(digits) % 3
	if rem > 0 {
		b.WriteString(digits[:rem])
		if len(digits) > rem {
			b.WriteString(".")
		}
	}
	for i := rem; i < len(digits); i += 3 {
		b.WriteString(digits[i : i+3])
		if i+3 < len(digits) {
			b.WriteString(".")
		}
	}

	return "$ " + b.String()
}
