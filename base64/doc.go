// Package base64 implements decoding of the standard Base64
// alphabet as specified by RFC 4648, in three interchangeable
// ways.
//
// Scalar decodes one byte at a time and is the reference
// implementation. Vector decodes each group of four characters
// with lane arithmetic (see package lane) and never branches on
// the value of a character. Branchless decodes in constant time
// for the length of the input.
//
// # Input format
//
// Input is a sequence of characters from the alphabet
//
//	ABCDEFGHIJKLMNOPQRSTUVWXYZ
//	abcdefghijklmnopqrstuvwxyz
//	0123456789
//	+/
//
// optionally followed by one or two '=' padding characters. The
// input is split into groups of four characters; the final
// group may be shorter. A group of 1, 2, 3, or 4 characters
// decodes to 1, 1, 2, or 3 bytes.
//
// # Comparison to encoding/base64
//
// This package is more permissive than encoding/base64. It does
// not check that the input length is a multiple of four, that
// padding is present or correct, or that unused trailing bits
// are zero. For example, all of these decode without error:
//
//	"a"      // 1 byte
//	"aaaa="  // 3 bytes
//	"aa="    // 1 byte
//
// It also rejects the newline characters '\r' and '\n' and '='
// anywhere but at the very end.
//
// On error, decoding is not rolled back. Scalar and Vector
// return the groups decoded before the error; Branchless
// returns everything it decoded.
package base64
