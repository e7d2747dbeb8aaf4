package fallback

import (
	"math"
	"strconv"
	"strings"
)

// formatNumber renders v the French way: space thousands separator, comma
// decimal mark.
func formatNumber(v float64, decimals int) string {
	raw := strconv.FormatFloat(math.Abs(v), 'f', decimals, 64)
	intPart, frac, _ := strings.Cut(raw, ".")

	var sb strings.Builder
	if v < 0 {
		sb.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			sb.WriteByte(' ')
		}
		sb.WriteRune(r)
	}
	if frac != "" {
		sb.WriteByte(',')
		sb.WriteString(frac)
	}
	return sb.String()
}

// formatEuros drops the cents on whole amounts.
func formatEuros(v float64) string {
	if v == math.Trunc(v) {
		return formatNumber(v, 0) + " €"
	}
	return formatNumber(v, 2) + " €"
}
