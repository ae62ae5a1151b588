package swar

import "math/bits"

// PopCountReference returns the number of set bits in x by
// testing each bit in turn.
func PopCountReference(x uint32) int {
	var n uint32
	for i := 0; i < 32; i++ {
		n += (x >> i) & 1
	}
	return int(n)
}

// PopCount returns the number of set bits in x.
//
// It treats x as 32 one-bit counters and repeatedly adds
// neighboring counters together, doubling their width each
// step, until a single 32-bit counter remains. No step can
// overflow: a w-bit counter holds at most w, which fits in
// half of the next width.
func PopCount(x uint32) int {
	// 16 two-bit sums of even and odd bits.
	x = x&0x55555555 + (x&0xaaaaaaaa)>>1
	// 8 four-bit sums.
	x = x&0x33333333 + (x&0xcccccccc)>>2
	// 4 eight-bit sums.
	x = x&0x0f0f0f0f + (x&0xf0f0f0f0)>>4
	// 2 sixteen-bit sums.
	x = x&0x00ff00ff + (x&0xff00ff00)>>8
	// The total.
	x = x&0x0000ffff + (x&0xffff0000)>>16
	return int(x)
}

// PopCountNative returns the number of set bits in x using the
// compiler's intrinsic, which is a single instruction on most
// platforms.
func PopCountNative(x uint32) int {
	return bits.OnesCount32(x)
}
