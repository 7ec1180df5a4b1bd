package frame

import (
	"errors"

	"github.com/tarovik/lz4/compress"
)

// Sentinel errors of the frame layer. Block-level failures inside a frame
// surface as ErrDecompressionFailed; buffer sizing reuses the block codec's
// sentinel so callers dispatch on one identity.
var (
	// ErrOutputTooSmall mirrors the block codec's sentinel.
	ErrOutputTooSmall = compress.ErrOutputTooSmall
	// ErrInvalidState mirrors the block codec's sentinel for API misuse,
	// e.g. writing to a closed Writer.
	ErrInvalidState = compress.ErrInvalidState

	// ErrDecompressionFailed reports a malformed block inside a frame.
	ErrDecompressionFailed = errors.New("lz4: frame block decompression failed")
	// ErrFrameHeaderIncomplete is returned when the input ends inside the
	// frame header.
	ErrFrameHeaderIncomplete = errors.New("lz4: frame header incomplete")
	// ErrFrameTypeUnknown is returned on an unrecognized magic number.
	ErrFrameTypeUnknown = errors.New("lz4: unknown frame type")
	// ErrFrameSizeWrong is returned when a block body, block checksum or
	// content checksum is truncated.
	ErrFrameSizeWrong = errors.New("lz4: frame size wrong")
	// ErrHeaderVersionWrong is returned when the FLG version bits are not 01.
	ErrHeaderVersionWrong = errors.New("lz4: unsupported frame version")
	// ErrReservedFlagSet is returned when a reserved FLG/BD bit is set.
	ErrReservedFlagSet = errors.New("lz4: reserved bit set in frame header")
	// ErrMaxBlockSizeInvalid is returned on a block size id outside 4..7 or
	// a block exceeding the declared maximum.
	ErrMaxBlockSizeInvalid = errors.New("lz4: invalid maximum block size")
	// ErrHeaderChecksumInvalid is returned when the descriptor checksum
	// byte does not match.
	ErrHeaderChecksumInvalid = errors.New("lz4: frame header checksum mismatch")
	// ErrBlockChecksumInvalid is returned when a per-block checksum does
	// not match.
	ErrBlockChecksumInvalid = errors.New("lz4: block checksum mismatch")
	// ErrContentChecksumInvalid is returned when the whole-content checksum
	// does not match.
	ErrContentChecksumInvalid = errors.New("lz4: content checksum mismatch")
)
