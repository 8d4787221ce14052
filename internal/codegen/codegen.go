// Package codegen generates the short shareable access codes that identify
// visibility groups. Codes are fixed-length, drawn uniformly from an
// uppercase alphanumeric alphabet using crypto/rand with rejection sampling
// to avoid modulo bias. The resulting space (36^8, about 2.8e12) makes
// collisions rare but not impossible; callers must still treat a uniqueness
// violation on insert as an expected outcome.
package codegen

import (
	"crypto/rand"
)

const (
	// CodeLen is the fixed length of every generated access code.
	CodeLen = 8

	// maxByteValue is the maximum value of a byte (2^8 - 1).
	maxByteValue = 255

	// byteRange is the total number of possible byte values (2^8).
	byteRange = 256
)

// codeChars is the 36-symbol alphabet codes are drawn from.
var codeChars = []byte("ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789")

// New returns a new random access code of CodeLen characters.
func New() string {
	return newLenChars(CodeLen, codeChars)
}

// newLenChars returns a new random string of the provided length, consisting
// of the provided byte slice of allowed characters (maximum 256).
func newLenChars(length int, chars []byte) string {
	clen := len(chars)
	if clen < 2 || clen > byteRange {
		panic("codegen: wrong charset length")
	}

	// Reject bytes above maxRb so every character stays equally likely.
	maxRb := maxByteValue - (byteRange % clen)

	buf := make([]byte, length*2) // storage for random bytes
	out := make([]byte, length)   // storage for result

	var i int // index in out
	for {
		if _, err := rand.Read(buf); err != nil {
			panic("codegen: error reading random bytes: " + err.Error())
		}

		for _, rb := range buf {
			c := int(rb)
			if c > maxRb {
				continue
			}

			out[i] = chars[c%clen]
			i++

			if i == length {
				return string(out)
			}
		}
	}
}
