// Package frame implements the LZ4 Frame container format: the bit-packed
// descriptor with its XXH32 header checksum, the block framing with optional
// per-block checksums, the whole-content checksum and skippable frames. It
// wraps the block codec from the compress package and offers both one-shot
// byte-slice entry points and io.Reader / io.Writer streaming.
package frame

import (
	"encoding/binary"

	"github.com/tarovik/lz4/compress"
	"github.com/tarovik/lz4/xxh32"
)

const (
	frameMagic uint32 = 0x184D2204

	// Skippable frames carry magic 0x184D2A50..0x184D2A5F.
	skippableMagic uint32 = 0x184D2A50
	skippableMask  uint32 = 0xFFFFFFF0

	// Descriptor flag byte (FLG) bits.
	flagVersion           = 0x40 // bits 7-6: version, must be 01
	flagBlockIndependence = 0x20
	flagBlockChecksum     = 0x10
	flagContentSize       = 0x08
	flagContentChecksum   = 0x04
	flagReserved          = 0x02
	flagDictID            = 0x01

	// Magic + FLG + BD + content size + dict id + header checksum.
	maxHeaderSize = 4 + 1 + 1 + 8 + 4 + 1
	// Magic + FLG + BD + header checksum.
	minHeaderSize = 7

	// Block header: bit 31 flags an uncompressed block.
	uncompressedBit = 0x80000000
)

// BlockSizeID selects the maximum block size of a frame.
type BlockSizeID uint8

const (
	// BlockSize64KB caps blocks at 64 KiB.
	BlockSize64KB BlockSizeID = 4 + iota
	// BlockSize256KB caps blocks at 256 KiB.
	BlockSize256KB
	// BlockSize1MB caps blocks at 1 MiB.
	BlockSize1MB
	// BlockSize4MB caps blocks at 4 MiB.
	BlockSize4MB
)

// Bytes returns the block size in bytes, or 0 for an invalid id.
func (b BlockSizeID) Bytes() int {
	switch b {
	case BlockSize64KB:
		return 64 << 10
	case BlockSize256KB:
		return 256 << 10
	case BlockSize1MB:
		return 1 << 20
	case BlockSize4MB:
		return 4 << 20
	}
	return 0
}

// BlockMode selects whether blocks may reference previous blocks.
type BlockMode uint8

const (
	// BlockLinked lets matches reach back into earlier blocks through the
	// 64 KiB window. The default, and the better ratio.
	BlockLinked BlockMode = iota
	// BlockIndependent makes every block self-contained, enabling
	// random-access and parallel decompression by the caller.
	BlockIndependent
)

// FrameInfo describes the frame descriptor.
type FrameInfo struct {
	BlockSizeID     BlockSizeID
	BlockMode       BlockMode
	BlockChecksum   bool
	ContentChecksum bool
	ContentSize     uint64 // 0 = absent
	DictID          uint32 // 0 = absent
}

// Preferences configure frame compression. The zero value selects linked
// 4 MiB blocks, no checksums, fast compression.
type Preferences struct {
	FrameInfo
	// Level selects the block compressor: values below 2 run the fast
	// codec (negative values raise its acceleration), 2 through 12 run the
	// corresponding HC level.
	Level int
}

// blockSize resolves the descriptor's block size, defaulting to 4 MiB.
func (i *FrameInfo) blockSize() int {
	if i.BlockSizeID == 0 {
		return BlockSize4MB.Bytes()
	}
	return i.BlockSizeID.Bytes()
}

// appendHeader serializes the descriptor, including its checksum byte.
func appendHeader(dst []byte, info *FrameInfo) []byte {
	start := len(dst)
	dst = binary.LittleEndian.AppendUint32(dst, frameMagic)

	flg := byte(flagVersion)
	if info.BlockMode == BlockIndependent {
		flg |= flagBlockIndependence
	}
	if info.BlockChecksum {
		flg |= flagBlockChecksum
	}
	if info.ContentSize != 0 {
		flg |= flagContentSize
	}
	if info.ContentChecksum {
		flg |= flagContentChecksum
	}
	if info.DictID != 0 {
		flg |= flagDictID
	}
	dst = append(dst, flg)

	bsid := info.BlockSizeID
	if bsid == 0 {
		bsid = BlockSize4MB
	}
	dst = append(dst, byte(bsid)<<4)

	if info.ContentSize != 0 {
		dst = binary.LittleEndian.AppendUint64(dst, info.ContentSize)
	}
	if info.DictID != 0 {
		dst = binary.LittleEndian.AppendUint32(dst, info.DictID)
	}

	// Header checksum: second byte of XXH32 over FLG..end.
	dst = append(dst, byte(xxh32.ChecksumZero(dst[start+4:])>>8))
	return dst
}

// ParseHeader decodes and validates a frame descriptor at the start of src.
// It returns the frame info and the header length consumed. Skippable-frame
// magics are rejected with ErrFrameTypeUnknown; DecompressFrame skips them
// before calling here.
func ParseHeader(src []byte) (FrameInfo, int, error) {
	var info FrameInfo

	if len(src) < minHeaderSize {
		return info, 0, ErrFrameHeaderIncomplete
	}
	if binary.LittleEndian.Uint32(src) != frameMagic {
		return info, 0, ErrFrameTypeUnknown
	}

	flg := src[4]
	if flg>>6 != 1 {
		return info, 0, ErrHeaderVersionWrong
	}
	if flg&flagReserved != 0 {
		return info, 0, ErrReservedFlagSet
	}
	bd := src[5]
	if bd&0x8F != 0 {
		return info, 0, ErrReservedFlagSet
	}
	bsid := BlockSizeID(bd >> 4 & 0x7)
	if bsid.Bytes() == 0 {
		return info, 0, ErrMaxBlockSizeInvalid
	}

	info.BlockSizeID = bsid
	if flg&flagBlockIndependence != 0 {
		info.BlockMode = BlockIndependent
	}
	info.BlockChecksum = flg&flagBlockChecksum != 0
	info.ContentChecksum = flg&flagContentChecksum != 0

	n := 6
	if flg&flagContentSize != 0 {
		if len(src) < n+8+1 {
			return info, 0, ErrFrameHeaderIncomplete
		}
		info.ContentSize = binary.LittleEndian.Uint64(src[n:])
		n += 8
	}
	if flg&flagDictID != 0 {
		if len(src) < n+4+1 {
			return info, 0, ErrFrameHeaderIncomplete
		}
		info.DictID = binary.LittleEndian.Uint32(src[n:])
		n += 4
	}
	if len(src) < n+1 {
		return info, 0, ErrFrameHeaderIncomplete
	}
	if src[n] != byte(xxh32.ChecksumZero(src[4:n])>>8) {
		return info, 0, ErrHeaderChecksumInvalid
	}
	return info, n + 1, nil
}

// HeaderSize returns the total header length of the frame starting at src,
// without fully validating it. A skippable frame reports 8 (magic + size).
func HeaderSize(src []byte) (int, error) {
	if len(src) < 5 {
		return 0, ErrFrameHeaderIncomplete
	}
	magic := binary.LittleEndian.Uint32(src)
	if magic&skippableMask == skippableMagic {
		return 8, nil
	}
	if magic != frameMagic {
		return 0, ErrFrameTypeUnknown
	}
	flg := src[4]
	n := minHeaderSize
	if flg&flagContentSize != 0 {
		n += 8
	}
	if flg&flagDictID != 0 {
		n += 4
	}
	return n, nil
}

// CompressFrameBound returns the worst-case frame size for n input bytes
// under the given preferences. prefs may be nil.
func CompressFrameBound(n int, prefs *Preferences) int {
	var info FrameInfo
	if prefs != nil {
		info = prefs.FrameInfo
	}
	bs := info.blockSize()
	nbBlocks := (n + bs - 1) / bs

	perBlock := 4 + compress.CompressBound(bs)
	if info.BlockChecksum {
		perBlock += 4
	}
	bound := maxHeaderSize + nbBlocks*perBlock + 4
	if info.ContentChecksum {
		bound += 4
	}
	return bound
}
