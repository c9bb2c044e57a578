package shared

import "math"

// ProgressPercentage maps current/target onto [0,100]. A non-positive
// target reads as already met.
func ProgressPercentage(current, target int) int {
	if target <= 0 {
		return 100
	}
	pct := int(math.Round(float64(current) / float64(target) * 100))
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
