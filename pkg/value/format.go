package value

import "strconv"

// formatNumber renders a float64 the way the reference printer does:
// integral values print without a trailing ".0" (Lox numbers are always
// doubles, but whole-number results read better without decoration).
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
