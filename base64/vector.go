package base64

import (
	"slices"

	"github.com/ericlagergren/swar/lane"
)

var (
	// offsets maps a lane's hash (see decodeGroup) to the value
	// that turns its character into a sextet:
	//
	//	A..Z => -'A' + 0  = -65
	//	a..z => -'a' + 26 = -71
	//	0..9 => -'0' + 52 = 4
	//	+    => -'+' + 62 = 19
	//	/    => -'/' + 63 = 16
	//
	// Hash 0 is unused. Negative offsets are stored as their
	// two's complement bytes so that adding them wraps around
	// to the right sextet.
	offsets = lane.Tiled(
		0,
		16,
		19,
		4,
		wrap(-65), wrap(-65),
		wrap(-71), wrap(-71),
	)

	// packShifts moves each sextet of a group so that its bits
	// straddle a byte boundary at the right place.
	packShifts = lane.Tiled[uint16](2, 4, 6, 8)

	// compact drops every fourth lane: [0 1 2 4 5 6 8 9].
	compact = func() lane.Vec[uint8] {
		var idx [lane.MaxLanes]uint8
		for i := range idx {
			idx[i] = uint8(i + i/3)
		}
		return lane.Load(idx[:])
	}()

	// fill is the character that pads short groups. It decodes
	// to zero.
	fill = lane.Set[uint8]('A')
)

func wrap(x int8) uint8 {
	return uint8(x)
}

// AppendDecodeVector appends the binary form of src to dst and
// returns the extended buffer.
//
// It accepts exactly the same input as AppendDecodeScalar and
// produces exactly the same output. Each group of four
// characters is decoded with lane arithmetic, without branching
// on individual characters.
//
// Decoding stops at the first group with an invalid byte,
// which is returned as a CorruptGroupError. Groups decoded
// before it remain in the returned buffer.
func AppendDecodeVector(dst, src []byte) ([]byte, error) {
	src = trimPadding(src)
	dst = slices.Grow(dst, DecodedLen(len(src)))

	for off := 0; off < len(src); off += 4 {
		chunk := src[off:min(off+4, len(src))]

		ascii := lane.IfThenElse(lane.FirstN(len(chunk)), lane.Load(chunk), fill)
		decoded, ok := decodeGroup(ascii)
		if !ok {
			return dst, CorruptGroupError(off)
		}

		var b [lane.MaxLanes]byte
		lane.Store(decoded, b[:])
		dst = append(dst, b[:groupLen(len(chunk))]...)
	}
	return dst, nil
}

// decodeGroup decodes the four Base64 characters in lanes
// [0, 4) of ascii into the three bytes in lanes [0, 3) of the
// result.
//
// It reports whether every lane in ascii holds a valid
// character.
func decodeGroup(ascii lane.Vec[uint8]) (lane.Vec[uint8], bool) {
	// The high nibble is enough to tell the ranges apart, except
	// that '+' and '/' share a nibble with each other:
	//
	//	A..Z == 0x41..0x5a => 4, 5
	//	a..z == 0x61..0x7a => 6, 7
	//	0..9 == 0x30..0x39 => 3
	//	+    == 0x2b       => 2
	//	/    == 0x2f       => 2, then 1
	//
	// Lanes holding '/' are all ones in the mask vector, so
	// adding it subtracts one.
	slash := lane.Equal(ascii, lane.Set[uint8]('/'))
	hashes := lane.Add(lane.ShiftRight(ascii, 4), lane.VecFromMask[uint8](slash))

	sextets := lane.Add(ascii, lane.TableLookupBytes(offsets, hashes))

	ok := valid(ascii, slash).AllTrue()

	// Widen to 16 bits and shift each lane so that the bits of
	// every output byte meet at a byte boundary. Then merge the
	// low byte of lane i with the high byte of lane i+1.
	//
	//	lane       0                  1                  2                  3
	//	sextet     ........ ..aaaaaa  ........ ..bbbbbb  ........ ..cccccc  ........ ..dddddd
	//    <<         2                  4                  6                  8
	//	shifted    ........ aaaaaa..  ......bb bbbb....  ....cccc cc......  ..dddddd ........
	//	high       ........           ......bb           ....cccc           ..dddddd
	//	low        aaaaaa..           bbbb....           cc......           ........
	//	packed     aaaaaabb           bbbbcccc           ccdddddd           ........
	shifted := lane.ShiftLeftLanes(lane.Promote(sextets), packShifts)
	low := lane.Truncate(shifted)
	high := lane.Truncate(lane.ShiftRight(shifted, 8))
	packed := lane.Or(low, lane.RotateLeft(high, 1))

	return lane.TableLookupLanes(packed, compact), ok
}

// valid returns the lanes of ascii that hold a character in the
// standard alphabet. slash must be the lanes equal to '/'.
func valid(ascii lane.Vec[uint8], slash lane.Mask) lane.Mask {
	return lane.InRange(ascii, 'A', 'Z').
		Or(lane.InRange(ascii, 'a', 'z')).
		Or(lane.InRange(ascii, '0', '9')).
		Or(lane.Equal(ascii, lane.Set[uint8]('+'))).
		Or(slash)
}
