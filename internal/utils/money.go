package utils

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatRupiah renders an amount as "Rp50.000" (whole rupiah, dot separators).
func FormatRupiah(amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}
	return fmt.Sprintf("%sRp%s", sign, formatThousand(amount.Round(0).String()))
}

func formatThousand(digits string) string {
	if digits == "" {
		return "0"
	}
	var out strings.Builder
	for i, c := range digits {
		if i != 0 && (len(digits)-i)%3 == 0 {
			out.WriteByte('.')
		}
		out.WriteRune(c)
	}
	return out.String()
}
