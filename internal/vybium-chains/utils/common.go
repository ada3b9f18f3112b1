package utils

import "math/bits"

// IsOdd checks if v is an odd positive number
func IsOdd(v int64) bool {
	return v > 0 && v&1 == 1
}

// OddIndex maps the odd number v = 2i+1 to i
func OddIndex(v int64) uint {
	return uint(v >> 1)
}

// OddFromIndex maps i to the odd number 2i+1
func OddFromIndex(i uint) int64 {
	return int64(i)<<1 | 1
}

// BitLen returns the number of bits needed to write v in binary
func BitLen(v int64) int {
	if v < 0 {
		v = -v
	}
	return bits.Len64(uint64(v))
}
