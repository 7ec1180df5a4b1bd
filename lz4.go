// Package lz4 provides a pure-Go implementation of the LZ4 compression
// format: the block codec (fast and high-compression modes), streaming
// block compression with cross-block match history, and the LZ4 Frame
// container with XXH32 checksums.
//
// The root package re-exports the full surface; the compress and frame
// subpackages hold the block codec and the frame format respectively.
package lz4

import (
	"io"

	"github.com/tarovik/lz4/compress"
	"github.com/tarovik/lz4/frame"
)

// Version constants
const (
	// Version of the library
	Version = "1.0.0"
	// VersionMajor is the major version number
	VersionMajor = 1
	// VersionMinor is the minor version number
	VersionMinor = 0
	// VersionPatch is the patch version number
	VersionPatch = 0
)

// Sentinel errors, re-exported from the subpackages.
var (
	ErrOutputTooSmall         = compress.ErrOutputTooSmall
	ErrInputTooLarge          = compress.ErrInputTooLarge
	ErrCorruptedData          = compress.ErrCorruptedData
	ErrInvalidState           = compress.ErrInvalidState
	ErrDecompressionFailed    = frame.ErrDecompressionFailed
	ErrFrameHeaderIncomplete  = frame.ErrFrameHeaderIncomplete
	ErrFrameTypeUnknown       = frame.ErrFrameTypeUnknown
	ErrFrameSizeWrong         = frame.ErrFrameSizeWrong
	ErrHeaderVersionWrong     = frame.ErrHeaderVersionWrong
	ErrReservedFlagSet        = frame.ErrReservedFlagSet
	ErrMaxBlockSizeInvalid    = frame.ErrMaxBlockSizeInvalid
	ErrHeaderChecksumInvalid  = frame.ErrHeaderChecksumInvalid
	ErrBlockChecksumInvalid   = frame.ErrBlockChecksumInvalid
	ErrContentChecksumInvalid = frame.ErrContentChecksumInvalid
)

// CompressBound returns the worst-case compressed size of a block of n
// bytes, or 0 when n exceeds the maximum input size.
func CompressBound(n int) int {
	return compress.CompressBound(n)
}

// CompressDefault compresses src into dst with the fast codec at its
// default acceleration and returns the number of bytes written.
func CompressDefault(src, dst []byte) (int, error) {
	return compress.CompressDefault(src, dst)
}

// CompressFast compresses src into dst with the fast codec. acceleration is
// clamped to [1, 65537]; higher values trade ratio for speed.
func CompressFast(src, dst []byte, acceleration int) (int, error) {
	return compress.CompressFast(src, dst, acceleration)
}

// CompressDestSize compresses the largest prefix of src that fits into dst,
// returning the bytes written and the source bytes consumed.
func CompressDestSize(src, dst []byte) (written, consumed int, err error) {
	return compress.CompressDestSize(src, dst)
}

// CompressHC compresses src into dst with the high-compression codec.
// Levels below 1 select the default level 9; other values clamp to [2, 12].
func CompressHC(src, dst []byte, level int) (int, error) {
	return compress.CompressHC(src, dst, compress.CompressionLevel(level))
}

// DecompressSafe decompresses a block, consuming all of src.
func DecompressSafe(src, dst []byte) (int, error) {
	return compress.DecompressSafe(src, dst)
}

// DecompressSafePartial decompresses at most targetLen bytes of a block,
// stopping cleanly once the target is reached.
func DecompressSafePartial(src, dst []byte, targetLen int) (int, error) {
	return compress.DecompressSafePartial(src, dst, targetLen)
}

// DecompressSafeUsingDict decompresses a block whose matches may reach back
// into a previously decoded, non-contiguous dictionary.
func DecompressSafeUsingDict(src, dst, dict []byte) (int, error) {
	return compress.DecompressSafeUsingDict(src, dst, dict)
}

// Streaming block compression and decompression.

// Stream is the streaming fast compressor.
type Stream = compress.Stream

// NewStream returns a streaming fast compressor.
func NewStream() *Stream { return compress.NewStream() }

// StreamHC is the streaming high-compression compressor.
type StreamHC = compress.StreamHC

// NewStreamHC returns a streaming HC compressor for the given level.
func NewStreamHC(level int) *StreamHC {
	return compress.NewStreamHC(compress.CompressionLevel(level))
}

// StreamDecoder is the streaming block decoder.
type StreamDecoder = compress.StreamDecoder

// NewStreamDecoder returns a streaming decoder with no history.
func NewStreamDecoder() *StreamDecoder { return compress.NewStreamDecoder() }

// Frame format.

// Preferences configure frame compression.
type Preferences = frame.Preferences

// FrameInfo describes a frame descriptor.
type FrameInfo = frame.FrameInfo

// BlockSizeID selects the maximum block size of a frame.
type BlockSizeID = frame.BlockSizeID

// BlockMode selects linked or independent blocks.
type BlockMode = frame.BlockMode

// CompressFrame compresses src into dst as one complete LZ4 frame.
func CompressFrame(src, dst []byte, prefs *Preferences) (int, error) {
	return frame.CompressFrame(src, dst, prefs)
}

// CompressFrameBound returns the worst-case frame size for n input bytes.
func CompressFrameBound(n int, prefs *Preferences) int {
	return frame.CompressFrameBound(n, prefs)
}

// DecompressFrame decompresses the frame at the start of src into dst.
func DecompressFrame(src, dst []byte) (int, error) {
	return frame.DecompressFrame(src, dst)
}

// FrameHeaderSize returns the header length of the frame starting at src.
func FrameHeaderSize(src []byte) (int, error) {
	return frame.HeaderSize(src)
}

// Reader is an io.Reader decompressing a stream of LZ4 frames.
type Reader = frame.Reader

// NewReader returns a Reader decompressing from r.
func NewReader(r io.Reader) *Reader { return frame.NewReader(r) }

// Writer is an io.WriteCloser compressing into an LZ4 frame.
type Writer = frame.Writer

// NewWriter returns a Writer with the default preferences.
func NewWriter(w io.Writer) *Writer { return frame.NewWriter(w) }

// NewWriterLevel is NewWriter at the given compression level.
func NewWriterLevel(w io.Writer, level int) *Writer {
	return frame.NewWriterLevel(w, level)
}
