package base64

import (
	"encoding/binary"
	"slices"

	"github.com/ericlagergren/swar"
)

// AppendDecodeBranchless appends the binary form of src to dst
// and returns the extended buffer.
//
// It accepts exactly the same input as AppendDecodeScalar and
// produces exactly the same output for valid input.
//
// Unlike the other decoders, it does not stop at the first
// invalid byte. It always decodes all of src and, if any byte
// was invalid, returns ErrInvalidByte along with every byte it
// decoded.
//
// AppendDecodeBranchless runs in constant time for the length
// of src.
func AppendDecodeBranchless(dst, src []byte) ([]byte, error) {
	if len(src) > 0 {
		// Only strip the second '=' if the last byte was also
		// '='.
		t := swar.ConstantTimeByteEq(src[len(src)-1], '=')
		if len(src) > 1 {
			t += t & swar.ConstantTimeByteEq(src[len(src)-2], '=')
		}
		src = src[:len(src)-t]
	}
	dst = slices.Grow(dst, DecodedLen(len(src)))

	var failed byte
	for len(src) >= 4 {
		c0 := revLookup(uint(src[0]))
		c1 := revLookup(uint(src[1]))
		c2 := revLookup(uint(src[2]))
		c3 := revLookup(uint(src[3]))

		c := uint32(c0)<<26 |
			uint32(c1)<<20 |
			uint32(c2)<<14 |
			uint32(c3)<<8
		n := len(dst)
		dst = binary.BigEndian.AppendUint32(dst, c)[:n+3]

		failed |= c0 | c1 | c2 | c3

		src = src[4:]
	}

	switch len(src) {
	case 3:
		c0 := revLookup(uint(src[0]))
		c1 := revLookup(uint(src[1]))
		c2 := revLookup(uint(src[2]))

		dst = append(dst, c0<<2|c1>>4, c1<<4|c2>>2)

		failed |= c0 | c1 | c2
	case 2:
		c0 := revLookup(uint(src[0]))
		c1 := revLookup(uint(src[1]))

		dst = append(dst, c0<<2|c1>>4)

		failed |= c0 | c1
	case 1:
		c0 := revLookup(uint(src[0]))

		// Only the upper 6 bits are meaningful.
		dst = append(dst, c0<<2)

		failed |= c0
	}

	// Valid characters never set bits [8:6], invalid characters
	// set every bit.
	if failed == 0xff {
		return dst, ErrInvalidByte
	}
	return dst, nil
}

// revLookup converts the base64 character c to its 6-bit
// binary value.
//
// If the character is invalid revLookup returns 0xff.
func revLookup(c uint) (r byte) {
	// NB. This function is written like this so that the
	// compiler will inline it.

	// switch {
	// case c >= 'A' && c <= 'Z':
	//     s = -65
	// case c >= 'a' && c <= 'z'
	//     s = -71
	// case c >= '0' && c <= '9'
	//     s = 4
	// case c == '+':
	//     s = 19
	// case c == '/':
	//     s = 16
	// }
	//
	// (lo-1 - c) & (c - hi+1) has bit 8 set only when
	// lo <= c <= hi, so each term is either the shift or zero.
	// Negative shifts are stored mod 256.
	s := ((((64 - c) & (c - 91)) >> 8) & 191) ^
		((((96 - c) & (c - 123)) >> 8) & 185) ^
		((((47 - c) & (c - 58)) >> 8) & 4) ^
		((((42 - c) & (c - 44)) >> 8) & 19) ^
		((((46 - c) & (c - 48)) >> 8) & 16)
	// If s == 0 then the input is corrupt.
	//
	// Since s is one of {0, 191, 185, 4, 19, 16}, shift off
	// bits [8:0] (which are allowed to be non-zero) and check
	// [16:8].
	return byte((s+c)&0x3f | ((((0 - s) >> 8) & 0xff) ^ 0xff))
}
