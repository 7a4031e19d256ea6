package dynamo

import "math"

// State is a flat phase-space vector.
type State []float64

// IsFinite reports whether v is neither NaN nor Inf.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
