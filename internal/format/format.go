package format

import (
	"fmt"
	"math"
	"strings"
)

// Rupiah renders a value as "Rp 1.234.567" with dot thousand separators.
func Rupiah(v float64) string {
	return "Rp " + thousands(v)
}

// Compact renders a value in the short Indonesian scale used on chart
// labels: "1.2 M" (miliar), "15 Jt" (juta), "3 Rb" (ribu).
func Compact(v float64) string {
	abs := math.Abs(v)
	switch {
	case abs >= 1_000_000_000:
		return strings.TrimSuffix(fmt.Sprintf("%.1f", v/1_000_000_000), ".0") + " M"
	case abs >= 1_000_000:
		return fmt.Sprintf("%.0f Jt", v/1_000_000)
	case abs >= 1_000:
		return fmt.Sprintf("%.0f Rb", v/1_000)
	default:
		return fmt.Sprintf("%.0f", v)
	}
}

// thousands formats a rounded value with "." as the thousand separator.
func thousands(v float64) string {
	n := int64(math.Round(v))
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}

	s := fmt.Sprintf("%d", n)
	var out strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		out.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if out.Len() > 0 {
			out.WriteString(".")
		}
		out.WriteString(s[i : i+3])
	}
	return sign + out.String()
}
