package dashboard

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// printer groups thousands the way the dashboard displays dollars and headcounts.
var printer = message.NewPrinter(language.English)

// FormatCurrency renders whole dollars, e.g. $1,234,567 or $-2,000. Nil renders empty.
func FormatCurrency(v *float64) string {
	if v == nil {
		return ""
	}
	return "$" + printer.Sprintf("%.0f", roundHalfEven(*v, 0))
}

// FormatCount renders a whole number with separators.
func FormatCount(v *float64) string {
	if v == nil {
		return ""
	}
	return printer.Sprintf("%.0f", roundHalfEven(*v, 0))
}

// FormatPercent renders a fraction as a percentage with the given decimals, e.g. 0.4 -> 40%.
func FormatPercent(v *float64, decimals int) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.*f%%", decimals, roundHalfEven(*v*100, decimals))
}

func formatPositions(v float64, perSchool bool) string {
	if perSchool {
		return fmt.Sprintf("%.2f", roundHalfEven(v, 2))
	}
	return FormatCount(&v)
}

// roundHalfEven keeps formatted output stable for values that sit exactly on .5.
func roundHalfEven(v float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	r := math.RoundToEven(v*scale) / scale
	if r == 0 {
		// avoid "-0"
		return 0
	}
	return r
}
