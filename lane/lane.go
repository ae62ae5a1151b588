// Package lane provides portable fixed-width lane vectors.
//
// A Vec holds MaxLanes unsigned integers that are operated on
// element-wise, in the style of the Highway SIMD library. The
// implementation is pure Go: every operation is a straight-line
// loop over the lanes with no data-dependent branches, which the
// compiler is free to unroll or vectorize. Shuffles are exposed
// as explicit table-indexed gathers (TableLookupBytes,
// TableLookupLanes) so that algorithms written against this
// package map directly onto pshufb, tbl, and friends.
//
// Vec and Mask are values. They never allocate.
package lane

import "github.com/ericlagergren/swar"

// MaxLanes is the number of lanes in every Vec.
const MaxLanes = 8

// Lanes is the set of types that can be stored in a lane.
type Lanes interface {
	~uint8 | ~uint16 | ~uint32
}

// Vec is a vector of MaxLanes lanes.
type Vec[T Lanes] struct {
	data [MaxLanes]T
}

// Data returns a copy of the lanes.
func (v Vec[T]) Data() [MaxLanes]T {
	return v.data
}

// Mask is the result of a lane comparison.
//
// Bit i is set if lane i is active.
type Mask uint8

// AllLanes is the Mask with every lane active.
const AllLanes Mask = 1<<MaxLanes - 1

// FirstN returns a Mask with lanes [0, n) active.
//
// n is clamped to [0, MaxLanes].
func FirstN(n int) Mask {
	n = min(max(n, 0), MaxLanes)
	return Mask(uint(1)<<n - 1)
}

// And returns the lanes active in both m and o.
func (m Mask) And(o Mask) Mask { return m & o }

// Or returns the lanes active in either m or o.
func (m Mask) Or(o Mask) Mask { return m | o }

// Not returns the lanes that are inactive in m.
func (m Mask) Not() Mask { return ^m & AllLanes }

// AllTrue reports whether every lane is active.
func (m Mask) AllTrue() bool { return m == AllLanes }

// AnyTrue reports whether at least one lane is active.
func (m Mask) AnyTrue() bool { return m != 0 }

// CountTrue returns the number of active lanes.
func (m Mask) CountTrue() int {
	return swar.PopCount(uint32(m))
}

// Zero returns a Vec with every lane set to zero.
func Zero[T Lanes]() Vec[T] {
	return Vec[T]{}
}

// Set returns a Vec with every lane set to x.
func Set[T Lanes](x T) Vec[T] {
	var v Vec[T]
	for i := range v.data {
		v.data[i] = x
	}
	return v
}

// Load returns a Vec holding the first MaxLanes elements of src.
//
// If src is shorter than MaxLanes the remaining lanes are zero.
func Load[T Lanes](src []T) Vec[T] {
	var v Vec[T]
	copy(v.data[:], src)
	return v
}

// Store writes the lanes of v to dst and returns the number of
// lanes written, which is min(len(dst), MaxLanes).
func Store[T Lanes](v Vec[T], dst []T) int {
	return copy(dst, v.data[:])
}

// Tiled returns a Vec that repeats tile across every lane.
//
// For example, Tiled(1, 2, 3) is [1 2 3 1 2 3 1 2].
func Tiled[T Lanes](tile ...T) Vec[T] {
	if len(tile) == 0 {
		panic("lane: empty tile")
	}
	var v Vec[T]
	for i := range v.data {
		v.data[i] = tile[i%len(tile)]
	}
	return v
}

// Iota returns [0 1 2 ... MaxLanes-1].
func Iota[T Lanes]() Vec[T] {
	var v Vec[T]
	for i := range v.data {
		v.data[i] = T(i)
	}
	return v
}
