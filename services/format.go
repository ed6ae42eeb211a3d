package services

import (
	"fmt"
	"strings"
	"time"
)

// FormatMoney renders an amount with a peso sign, thousands separators and
// exactly two decimal places, e.g. $1,234,567.89. Rounding happens only
// here, never while accumulating.
func FormatMoney(amount float64) string {
	negative := false
	if amount < 0 {
		negative = true
		amount = -amount
	}

	raw := fmt.Sprintf("%.2f", amount)
	parts := strings.SplitN(raw, ".", 2)
	intPart := groupThousands(parts[0])

	result := "$" + intPart + "." + parts[1]
	if negative {
		result = "-" + result
	}
	return result
}

// FormatAmount renders a bare two-decimal number for table cells.
func FormatAmount(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}

// FormatPercent renders a discount or tax percentage, dropping trailing
// zeros (10 -> "10%", 12.5 -> "12.5%").
func FormatPercent(p float64) string {
	s := strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", p), "0"), ".")
	return s + "%"
}

// FormatDate renders a day/month/year date.
func FormatDate(t time.Time) string {
	return t.Format("02/01/2006")
}

// FormatDateTime renders a date with the time of day, for event listings.
func FormatDateTime(t time.Time) string {
	return t.Format("02/01/2006 15:04")
}

func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	var b strings.Builder
	lead := n % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
