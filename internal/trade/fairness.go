package trade

// IsFair reports whether two package values are within tolerance of each
// other, relative to the larger. Argument order does not matter.
func IsFair(a, b, tolerance float64) bool {
	hi, lo := a, b
	if lo > hi {
		hi, lo = lo, hi
	}
	if hi <= 0 {
		return true
	}
	return (hi-lo)/hi <= tolerance
}
