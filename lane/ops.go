package lane

// Add returns a+b. Each lane wraps modulo 2^bits.
func Add[T Lanes](a, b Vec[T]) Vec[T] {
	for i := range a.data {
		a.data[i] += b.data[i]
	}
	return a
}

// Sub returns a-b. Each lane wraps modulo 2^bits.
func Sub[T Lanes](a, b Vec[T]) Vec[T] {
	for i := range a.data {
		a.data[i] -= b.data[i]
	}
	return a
}

// And returns a&b.
func And[T Lanes](a, b Vec[T]) Vec[T] {
	for i := range a.data {
		a.data[i] &= b.data[i]
	}
	return a
}

// Or returns a|b.
func Or[T Lanes](a, b Vec[T]) Vec[T] {
	for i := range a.data {
		a.data[i] |= b.data[i]
	}
	return a
}

// AndNot returns a&^b.
func AndNot[T Lanes](a, b Vec[T]) Vec[T] {
	for i := range a.data {
		a.data[i] &^= b.data[i]
	}
	return a
}

// ShiftLeft shifts every lane left by n bits.
func ShiftLeft[T Lanes](v Vec[T], n uint) Vec[T] {
	for i := range v.data {
		v.data[i] <<= n
	}
	return v
}

// ShiftRight shifts every lane right by n bits, filling with
// zeros.
func ShiftRight[T Lanes](v Vec[T], n uint) Vec[T] {
	for i := range v.data {
		v.data[i] >>= n
	}
	return v
}

// ShiftLeftLanes shifts lane i of v left by counts[i] bits.
func ShiftLeftLanes[T Lanes](v, counts Vec[T]) Vec[T] {
	for i := range v.data {
		v.data[i] <<= counts.data[i]
	}
	return v
}

// lessOrEq returns 1 if x <= y and 0 otherwise.
//
// Lanes are at most 32 bits wide, so y-x computed in 64 bits
// sets bit 63 exactly when x > y.
func lessOrEq[T Lanes](x, y T) Mask {
	return Mask((uint64(y)-uint64(x))>>63) ^ 1
}

// Equal returns the lanes where a == b.
func Equal[T Lanes](a, b Vec[T]) Mask {
	var m Mask
	for i := range a.data {
		x, y := a.data[i], b.data[i]
		m |= (lessOrEq(x, y) & lessOrEq(y, x)) << i
	}
	return m
}

// LessEqual returns the lanes where a <= b.
func LessEqual[T Lanes](a, b Vec[T]) Mask {
	var m Mask
	for i := range a.data {
		m |= lessOrEq(a.data[i], b.data[i]) << i
	}
	return m
}

// GreaterEqual returns the lanes where a >= b.
func GreaterEqual[T Lanes](a, b Vec[T]) Mask {
	return LessEqual(b, a)
}

// InRange returns the lanes where lo <= v <= hi.
func InRange[T Lanes](v Vec[T], lo, hi T) Mask {
	return GreaterEqual(v, Set(lo)).And(LessEqual(v, Set(hi)))
}

// VecFromMask returns a Vec with every bit set in the active
// lanes of m and zero elsewhere.
func VecFromMask[T Lanes](m Mask) Vec[T] {
	var v Vec[T]
	for i := range v.data {
		v.data[i] = 0 - T((m>>i)&1)
	}
	return v
}

// IfThenElse returns a in the lanes active in m and b elsewhere.
func IfThenElse[T Lanes](m Mask, a, b Vec[T]) Vec[T] {
	mv := VecFromMask[T](m)
	return Or(And(a, mv), AndNot(b, mv))
}

// TableLookupBytes returns a Vec where lane i is
// table[idx[i]].
//
// Lanes whose index is out of range are zero.
func TableLookupBytes(table, idx Vec[uint8]) Vec[uint8] {
	return TableLookupLanes(table, idx)
}

// TableLookupLanes returns a Vec where lane i is v[idx[i]].
//
// Lanes whose index is out of range are zero.
func TableLookupLanes[T Lanes](v, idx Vec[T]) Vec[T] {
	var r Vec[T]
	for i := range r.data {
		j := idx.data[i]
		// ok is all ones if j < MaxLanes, zero otherwise.
		ok := 0 - T(lessOrEq(j, MaxLanes-1))
		r.data[i] = v.data[j&(MaxLanes-1)] & ok
	}
	return r
}

// RotateLeft moves lane i+n into lane i, wrapping around.
//
// For example, RotateLeft([0 1 2 3 4 5 6 7], 1) is
// [1 2 3 4 5 6 7 0].
func RotateLeft[T Lanes](v Vec[T], n int) Vec[T] {
	var r Vec[T]
	for i := range r.data {
		r.data[i] = v.data[(i+n)&(MaxLanes-1)]
	}
	return r
}

// Promote zero-extends each lane of v to 16 bits.
func Promote(v Vec[uint8]) Vec[uint16] {
	var r Vec[uint16]
	for i := range r.data {
		r.data[i] = uint16(v.data[i])
	}
	return r
}

// Truncate keeps the low 8 bits of each lane of v.
func Truncate(v Vec[uint16]) Vec[uint8] {
	var r Vec[uint8]
	for i := range r.data {
		r.data[i] = uint8(v.data[i])
	}
	return r
}
