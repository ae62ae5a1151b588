package swar

import "crypto/subtle"

// ConstantTimeByteEq returns 1 if x == y and 0 otherwise.
func ConstantTimeByteEq(x, y uint8) int {
	return subtle.ConstantTimeByteEq(x, y)
}

// ConstantTimeByteGreater returns 1 if x > y and 0 otherwise.
func ConstantTimeByteGreater(x, y uint8) int {
	return ConstantTimeByteLessOrEq(x, y) ^ 1
}

// ConstantTimeByteLessOrEq returns 1 if x <= y and 0 otherwise.
func ConstantTimeByteLessOrEq(x, y uint8) int {
	// x <= y -> y-x is in [0, 255] and bit 8 is clear.
	// x >  y -> y-x wraps and bits [63:8] are all set.
	return int(((uint(y)-uint(x))>>8)&1) ^ 1
}

// ConstantTimeByteInRange returns 1 if lo <= c <= hi and 0
// otherwise.
//
// Its behavior is undefined if lo > hi.
func ConstantTimeByteInRange(c, lo, hi uint8) int {
	return ConstantTimeByteLessOrEq(lo, c) & ConstantTimeByteLessOrEq(c, hi)
}
