// Package mathx holds the numeric helpers shared by every stage of the
// lifecycle engine. The two contracts that matter: division never
// produces NaN or Inf, and coercion of feed values never produces an
// error.
package mathx

import (
	"math"
	"strconv"
	"strings"
)

// SafeDiv divides num by den, returning 0.0 when den is zero.
// ⭐ SSOT: every ratio in the engine goes through this function.
func SafeDiv(num, den float64) float64 {
	if den == 0 {
		return 0.0
	}
	return num / den
}

// ParseFloat coerces a raw feed value to a float64, failing open:
// empty, unparseable, NaN and Inf inputs all become 0.0. Thousands
// separators and surrounding whitespace are tolerated.
func ParseFloat(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0.0
	}
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0.0
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0.0
	}
	return v
}
