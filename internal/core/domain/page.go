package domain

import "math"

// PageOffset returns the row offset of page. Offsets past the largest signed
// 64-bit value are clamped, so a far page is simply empty.
func PageOffset(page, size int) uint64 {
	if page <= 0 || size <= 0 {
		return 0
	}

	if uint64(page) > math.MaxInt64/uint64(size) {
		return math.MaxInt64
	}

	return uint64(page) * uint64(size)
}
