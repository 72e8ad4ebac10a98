// Package codec implements the textual wire form of §4.2: a
// character-at-a-time incremental decoder and a streaming encoder that
// convert Draw instructions to and from a compact ASCII form suitable
// for pipes, files, and network transports.
package codec

import (
	"math"
)

// alphabet is the 64-character digit set used for every fixed-width
// numeric field and every compact identifier. Standard base64 ordering
// is reused since nothing here needs to interoperate with another
// base64 consumer; only internal consistency between Encode and Decode
// matters.
const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

var reverseAlphabet [256]int8

func init() {
	for i := range reverseAlphabet {
		reverseAlphabet[i] = -1
	}
	for i := 0; i < len(alphabet); i++ {
		reverseAlphabet[alphabet[i]] = int8(i)
	}
}

func digitValue(c byte) (int, bool) {
	v := reverseAlphabet[c]
	if v < 0 {
		return 0, false
	}
	return int(v), true
}

// appendU32 appends v as six base64 digits, little-endian 6-bit groups
// (§4.2 "u32 and f32 ... six base-64 digits, little-endian 6-bit
// groups").
func appendU32(dst []byte, v uint32) []byte {
	for i := 0; i < 6; i++ {
		dst = append(dst, alphabet[v&0x3f])
		v >>= 6
	}
	return dst
}

func appendF32(dst []byte, f float32) []byte {
	return appendU32(dst, math.Float32bits(f))
}

// readU32 reads six base64 digits starting at buf[0] and returns the
// decoded value and whether enough well-formed input was available.
func readU32(buf []byte) (uint32, bool) {
	if len(buf) < 6 {
		return 0, false
	}
	var v uint32
	for i := 0; i < 6; i++ {
		d, ok := digitValue(buf[i])
		if !ok {
			return 0, false
		}
		v |= uint32(d) << (6 * i)
	}
	return v, true
}

func readF32(buf []byte) (float32, bool) {
	v, ok := readU32(buf)
	if !ok {
		return 0, false
	}
	return math.Float32frombits(v), true
}

// appendCompactID appends v as a variable-length run of base64 digits:
// the top bit of each digit (0x20, since only 5 payload bits remain)
// is a continuation flag, clear on the final (most significant) digit,
// little-endian (§4.2 "compact unsigned identifiers").
func appendCompactID(dst []byte, v uint64) []byte {
	for {
		d := byte(v & 0x1f)
		v >>= 5
		if v != 0 {
			d |= 0x20
		}
		dst = append(dst, alphabet[d])
		if v == 0 {
			break
		}
	}
	return dst
}

// compactIDLen reports how many digits the compact id starting at
// buf[0] occupies, -1 if the run is not yet complete (more digits
// needed), or -2 if the buffer is malformed.
func compactIDLen(buf []byte) int {
	for i := 0; i < len(buf); i++ {
		d, ok := digitValue(buf[i])
		if !ok {
			return -2 // malformed
		}
		if d&0x20 == 0 {
			return i + 1
		}
	}
	return -1 // incomplete
}

// readCompactID decodes a compact id starting at buf[0]. On failure it
// returns ok=false with n set to compactIDLen's sentinel: -1 means more
// bytes are needed, -2 means the run is malformed.
func readCompactID(buf []byte) (uint64, int, bool) {
	n := compactIDLen(buf)
	if n < 0 {
		return 0, n, false
	}
	var v uint64
	for i := 0; i < n; i++ {
		d, _ := digitValue(buf[i])
		v |= uint64(d&0x1f) << (5 * i)
	}
	return v, n, true
}

// appendString appends a compact-id length prefix followed by s's raw
// bytes (§4.2 "Strings are length-prefixed").
func appendString(dst []byte, s string) []byte {
	dst = appendCompactID(dst, uint64(len(s)))
	return append(dst, s...)
}

// appendBytes appends a compact-id length prefix followed by b base64
// encoded in groups of 3 bytes -> 4 chars, the final group zero-padded
// (§4.2 "Byte blobs").
func appendBytes(dst []byte, b []byte) []byte {
	dst = appendCompactID(dst, uint64(len(b)))
	for i := 0; i < len(b); i += 3 {
		var group [3]byte
		n := copy(group[:], b[i:min(i+3, len(b))])
		dst = append(dst,
			alphabet[group[0]>>2],
			alphabet[(group[0]&0x03)<<4|group[1]>>4],
			alphabet[(group[1]&0x0f)<<2|group[2]>>6],
			alphabet[group[2]&0x3f],
		)
		_ = n
	}
	return dst
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// base64Len returns the total encoded length (in characters) of a byte
// blob of n raw bytes' base64 payload, not counting the length prefix.
func base64Len(n int) int {
	groups := (n + 2) / 3
	return groups * 4
}
