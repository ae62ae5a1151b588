// Package swar implements SIMD-within-a-register helpers.
//
// The functions in this package operate on whole machine words
// instead of branching on individual bits or bytes. Packages
// lane and base64 build on them.
package swar
