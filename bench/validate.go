package bench

// Sorted reports whether a is in non-decreasing order. Single pass,
// returns at the first inversion.
func Sorted(a []int32) bool {
	for i := 1; i < len(a); i++ {
		if a[i-1] > a[i] {
			return false
		}
	}

	return true
}
