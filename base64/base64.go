package base64

import (
	"encoding/binary"
	"errors"
	"fmt"
	"slices"
)

// ErrInvalidByte is returned when the Base64-encoded input
// contains a byte outside of the standard alphabet.
//
// Every error returned by this package satisfies
// errors.Is(err, ErrInvalidByte).
var ErrInvalidByte = errors.New("base64: invalid byte")

// InvalidByteError describes the exact byte that made the input
// invalid.
type InvalidByteError byte

func (e InvalidByteError) Error() string {
	return fmt.Sprintf("base64: invalid byte: %#U", rune(e))
}

// Is reports whether target is ErrInvalidByte.
func (e InvalidByteError) Is(target error) bool {
	return target == ErrInvalidByte
}

// CorruptGroupError is the offset in the input of a group of up
// to four characters that contains at least one invalid byte.
type CorruptGroupError int64

func (e CorruptGroupError) Error() string {
	return fmt.Sprintf("base64: invalid byte in group at offset %d", int64(e))
}

// Is reports whether target is ErrInvalidByte.
func (e CorruptGroupError) Is(target error) bool {
	return target == ErrInvalidByte
}

// Decoder decodes Base64.
type Decoder interface {
	// AppendDecode appends the binary form of src to dst and
	// returns the extended buffer.
	AppendDecode(dst, src []byte) ([]byte, error)
}

// Encoding is a particular implementation of standard Base64
// decoding.
//
// All Encodings accept exactly the same inputs and produce
// exactly the same output for them. They differ in how they
// compute it and in how precisely they report errors.
//
// See the package docs for the exact input format.
type Encoding struct {
	name   string
	decode func(dst, src []byte) ([]byte, error)
}

var _ Decoder = (*Encoding)(nil)

// Scalar decodes one byte at a time. It is the reference
// implementation.
//
// Errors are InvalidByteError.
var Scalar = &Encoding{
	name:   "scalar",
	decode: AppendDecodeScalar,
}

// Vector decodes one group at a time using lane arithmetic.
//
// Errors are CorruptGroupError.
var Vector = &Encoding{
	name:   "vector",
	decode: AppendDecodeVector,
}

// Branchless decodes in constant time for the length of the
// input.
//
// The only error is ErrInvalidByte.
var Branchless = &Encoding{
	name:   "branchless",
	decode: AppendDecodeBranchless,
}

// Encodings returns every Encoding, starting with Scalar.
func Encodings() []*Encoding {
	return []*Encoding{Scalar, Vector, Branchless}
}

// Lookup returns the Encoding with the provided name.
func Lookup(name string) (*Encoding, bool) {
	for _, e := range Encodings() {
		if e.name == name {
			return e, true
		}
	}
	return nil, false
}

// String returns the name of the Encoding.
func (e *Encoding) String() string {
	return e.name
}

// DecodedLen returns the maximum length in bytes of n bytes of
// unpadded Base64-encoded data.
func (e *Encoding) DecodedLen(n int) int {
	return DecodedLen(n)
}

// AppendDecode appends the binary form of src to dst and
// returns the extended buffer.
//
// If src is invalid AppendDecode returns a non-nil error. The
// returned buffer still holds whatever was decoded before the
// error was detected.
func (e *Encoding) AppendDecode(dst, src []byte) ([]byte, error) {
	return e.decode(dst, src)
}

// DecodeString decodes s.
//
// If s is invalid DecodeString returns the bytes decoded before
// the error and a non-nil error.
func (e *Encoding) DecodeString(s string) ([]byte, error) {
	dst := make([]byte, 0, DecodedLen(len(s)))
	return e.AppendDecode(dst, []byte(s))
}

// DecodedLen returns the maximum length in bytes of n bytes of
// unpadded Base64-encoded data.
func DecodedLen(n int) int {
	return n/4*3 + groupLen(n%4)
}

// groupLen returns the number of bytes decoded from a group of
// n characters.
//
//	n:                1 2 3 4
//	n / 2:            0 1 1 2
//	n - n/2:          1 1 2 2
//	n / 4:            0 0 0 1
//	n - n/2 + n/4:    1 1 2 3
//
// n must be in [0, 4].
func groupLen(n int) int {
	return n - n/2 + n/4
}

// trimPadding removes at most two trailing '=' from src.
//
// Padding is not otherwise validated.
func trimPadding(src []byte) []byte {
	switch {
	case len(src) >= 2 && src[len(src)-1] == '=' && src[len(src)-2] == '=':
		return src[:len(src)-2]
	case len(src) >= 1 && src[len(src)-1] == '=':
		return src[:len(src)-1]
	default:
		return src
	}
}

// AppendDecodeScalar appends the binary form of src to dst and
// returns the extended buffer.
//
// src may end with up to two '=' padding characters. Decoding
// stops at the first invalid byte, which is returned as an
// InvalidByteError. Groups decoded before the invalid byte
// remain in the returned buffer.
func AppendDecodeScalar(dst, src []byte) ([]byte, error) {
	src = trimPadding(src)
	dst = slices.Grow(dst, DecodedLen(len(src)))

	for len(src) > 0 {
		n := min(len(src), 4)

		// At most 6*4 = 24 bits.
		var acc uint32
		for _, c := range src[:n] {
			s, ok := sextet(c)
			if !ok {
				return dst, InvalidByteError(c)
			}
			acc = acc<<6 | uint32(s)
		}
		// Left align the decoded bits.
		acc <<= 32 - 6*n

		var b [4]byte
		binary.BigEndian.PutUint32(b[:], acc)
		dst = append(dst, b[:groupLen(n)]...)
		src = src[n:]
	}
	return dst, nil
}

// sextet returns the 6-bit value of the Base64 character c.
func sextet(c byte) (byte, bool) {
	switch {
	case c >= 'A' && c <= 'Z':
		return c - 'A', true
	case c >= 'a' && c <= 'z':
		return c - 'a' + 26, true
	case c >= '0' && c <= '9':
		return c - '0' + 52, true
	case c == '+':
		return 62, true
	case c == '/':
		return 63, true
	default:
		return 0, false
	}
}
