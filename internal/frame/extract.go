package frame

import (
	"bytes"
	"strings"
	"unicode/utf8"
)

// DefaultDelimiter terminates a record on the wire.
const DefaultDelimiter = ';'

// DefaultChunkSize is the number of bytes requested per device read.
const DefaultChunkSize = 12

// Extract returns the candidate frame carried by chunk after a read of n bytes.
// The whole chunk is searched for the delimiter, so a delimiter left over from
// an earlier read still qualifies, but only chunk[:n] is decoded. ok is false
// when the chunk holds no delimiter. Invalid UTF-8 is replaced with U+FFFD,
// one replacement per maximal invalid subsequence.
func Extract(chunk []byte, n int, delimiter byte) (candidate string, ok bool) {
	if bytes.IndexByte(chunk, delimiter) < 0 {
		return "", false
	}
	if n < 0 {
		n = 0
	}
	if n > len(chunk) {
		n = len(chunk)
	}
	return decodeLossy(chunk[:n]), true
}

// decodeLossy converts b to a string, substituting U+FFFD for each maximal
// subpart of an ill-formed sequence.
func decodeLossy(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}

	var sb strings.Builder
	sb.Grow(len(b) + 8)
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		if r != utf8.RuneError || size > 1 {
			sb.Write(b[:size])
			b = b[size:]
			continue
		}
		sb.WriteRune(utf8.RuneError)
		b = b[maximalSubpart(b):]
	}
	return sb.String()
}

// maximalSubpart returns the length of the ill-formed prefix of b that is
// replaced by a single U+FFFD. b[0] does not start a valid sequence.
func maximalSubpart(b []byte) int {
	var need int
	lo, hi := byte(0x80), byte(0xBF)
	switch c := b[0]; {
	case c >= 0xC2 && c <= 0xDF:
		need = 1
	case c == 0xE0:
		need, lo = 2, 0xA0
	case c == 0xED:
		need, hi = 2, 0x9F
	case c >= 0xE1 && c <= 0xEF:
		need = 2
	case c == 0xF0:
		need, lo = 3, 0x90
	case c == 0xF4:
		need, hi = 3, 0x8F
	case c >= 0xF1 && c <= 0xF3:
		need = 3
	default:
		return 1
	}

	i := 1
	for ; i <= need && i < len(b); i++ {
		if b[i] < lo || b[i] > hi {
			break
		}
		lo, hi = 0x80, 0xBF
	}
	return i
}
