package buffer

import "math"

// Grow returns the capacity that a buffer of the given capacity moves to
// when it needs room for at least need bytes: twice the current capacity,
// or need if that is larger. need wins when capacity is 0 and when doubling
// would overflow int.
//
// Doubling keeps the number of reallocations logarithmic in the total
// appended size.
func Grow(capacity, need int) int {
	if capacity <= math.MaxInt/2 && 2*capacity > need {
		return 2 * capacity
	}
	return need
}
