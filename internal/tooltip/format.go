package tooltip

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatValue renders a metric as currency: three significant digits below
// 10 and four from 10 up, with thousands grouping.
func FormatValue(v float64) string {
	return formatValue(v, 10, 3, 4)
}

func formatValue(v, threshold float64, ones, tens int) string {
	if v < threshold {
		return Currency(v, ones)
	}
	return Currency(v, tens)
}

// Currency formats v as dollars rounded to digits significant digits. The
// minus sign precedes the currency symbol.
func Currency(v float64, digits int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "$" + fmt.Sprint(v)
	}
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	r, decimals := significant(v, digits)
	if r == 0 {
		sign = ""
	}
	return sign + "$" + printer.Sprintf(fmt.Sprintf("%%.%df", decimals), r)
}

// significant rounds v >= 0 to p significant digits and returns the number
// of decimals needed to show them.
func significant(v float64, p int) (float64, int) {
	if v == 0 {
		return 0, max(0, p-1)
	}
	e := int(math.Floor(math.Log10(v)))
	pow := math.Pow(10, float64(p-1-e))
	r := math.Round(v*pow) / pow
	if r == 0 {
		return 0, max(0, p-1)
	}
	e = int(math.Floor(math.Log10(r)))
	return r, max(0, p-1-e)
}
