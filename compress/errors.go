package compress

import "errors"

// Sentinel errors for block compression and decompression.
var (
	// ErrOutputTooSmall is returned when the destination buffer cannot hold
	// the produced bytes.
	ErrOutputTooSmall = errors.New("lz4: output buffer too small")
	// ErrInputTooLarge is returned when the input exceeds MaxInputSize.
	ErrInputTooLarge = errors.New("lz4: input exceeds maximum block size")
	// ErrCorruptedData is returned when a block is malformed: truncated
	// token or sequence, zero offset, or an offset reaching beyond the
	// prefix and dictionary windows.
	ErrCorruptedData = errors.New("lz4: corrupted block data")
	// ErrInvalidState reports streaming API misuse; the frame Writer
	// returns it for a Write after Close.
	ErrInvalidState = errors.New("lz4: invalid stream state")
)
