// Package compress implements the LZ4 block codec: the fast compressor, the
// high-compression strategies (LZ4MID, LZ4HC, LZ4OPT), the safe decompressor,
// and the streaming states that carry match history across block boundaries.
//
// All entry points are synchronous and operate on caller-supplied byte
// slices. Compressed blocks are raw LZ4 sequences with no framing; the frame
// package wraps them into the LZ4 Frame container.
package compress

import (
	"encoding/binary"
	"math/bits"
)

const (
	// MinMatch is the minimum useful match length.
	MinMatch = 4
	// MaxInputSize is the largest input a block compressor accepts.
	MaxInputSize = 0x7E000000
	// MaxDistance is the furthest a match offset can reach back.
	MaxDistance = 65535

	// mfLimit: the last match must start at least this many bytes before
	// the block end.
	mfLimit = 12
	// lastLiterals: the final bytes of a block are always literals.
	lastLiterals = 5

	// Fast compressor hash table: 2^14 u32 entries.
	hashLog       = 14
	hashTableSize = 1 << hashLog

	// Acceleration factor for the fast compressor.
	minAcceleration = 1
	maxAcceleration = 65537
	skipTrigger     = 6
)

// hasher is the Knuth multiplicative constant shared by every 4-byte hash.
const hasher uint32 = 2654435761

// hashFast hashes a 4-byte sequence into the fast compressor's table.
func hashFast(u uint32) uint32 {
	return u * hasher >> (32 - hashLog)
}

// CompressBound returns the worst-case compressed size for an input of n
// bytes, or 0 when n exceeds MaxInputSize.
func CompressBound(n int) int {
	if n < 0 || n > MaxInputSize {
		return 0
	}
	return n + n/255 + 16
}

// matchLength counts equal bytes of a and b starting at their respective
// offsets, stopping when a byte differs or bLimit is reached in b.
func matchLength(a []byte, ai int, b []byte, bi, bLimit int) int {
	n := 0
	if hasFastUnaligned {
		for bi+n+8 <= bLimit {
			x := binary.LittleEndian.Uint64(a[ai+n:]) ^ binary.LittleEndian.Uint64(b[bi+n:])
			if x != 0 {
				return n + bits.TrailingZeros64(x)>>3
			}
			n += 8
		}
	}
	for bi+n < bLimit && a[ai+n] == b[bi+n] {
		n++
	}
	return n
}

// hasFastUnaligned reports whether unaligned multi-byte loads are cheap on
// this CPU. Set by the architecture-specific probes in cpu_*.go; when false
// the match-length counters fall back to byte-wise comparison.
var hasFastUnaligned bool
