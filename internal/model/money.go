package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatRupiah renders an amount as "Rp 1.234.567" with Indonesian
// thousands separators. Fractional cents are appended as ",dd" only when
// non-zero. Negative amounts get a leading minus.
func FormatRupiah(d decimal.Decimal) string {
	fixed := d.Abs().StringFixed(2)
	parts := strings.SplitN(fixed, ".", 2)
	intPart, frac := parts[0], parts[1]

	var b strings.Builder
	for i := 0; i < len(intPart); i++ {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteByte(intPart[i])
	}

	out := "Rp " + b.String()
	if frac != "00" {
		out += "," + frac
	}
	if d.IsNegative() {
		out = "-" + out
	}
	return out
}

// FormatRupiahSigned always carries an explicit sign, for cash
// discrepancies where surplus/shortage must be unambiguous.
func FormatRupiahSigned(d decimal.Decimal) string {
	if d.IsNegative() {
		return FormatRupiah(d)
	}
	return "+" + FormatRupiah(d)
}
