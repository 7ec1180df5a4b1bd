package frame

import (
	"encoding/binary"

	"github.com/tarovik/lz4/compress"
	"github.com/tarovik/lz4/xxh32"
)

// DecompressFrame decompresses the frame at the start of src into dst and
// returns the number of bytes written. Leading skippable frames are skipped.
// Checksums present in the frame are verified eagerly; any failure discards
// the output.
func DecompressFrame(src, dst []byte) (int, error) {
	si := 0

	// Skippable frames: magic, 4-byte length, opaque payload.
	for {
		if len(src)-si < 4 {
			return 0, ErrFrameHeaderIncomplete
		}
		magic := binary.LittleEndian.Uint32(src[si:])
		if magic&skippableMask != skippableMagic {
			break
		}
		if len(src)-si < 8 {
			return 0, ErrFrameHeaderIncomplete
		}
		skip := int(binary.LittleEndian.Uint32(src[si+4:]))
		si += 8
		if len(src)-si < skip {
			return 0, ErrFrameSizeWrong
		}
		si += skip
	}

	info, hLen, err := ParseHeader(src[si:])
	if err != nil {
		return 0, err
	}
	si += hLen

	bs := info.BlockSizeID.Bytes()
	var contentHash xxh32.XXH
	di := 0

	for {
		if len(src)-si < 4 {
			return 0, ErrFrameSizeWrong
		}
		blockHeader := binary.LittleEndian.Uint32(src[si:])
		si += 4
		if blockHeader == 0 {
			break // end marker
		}

		uncompressed := blockHeader&uncompressedBit != 0
		blockLen := int(blockHeader &^ uncompressedBit)
		if blockLen > bs {
			return 0, ErrMaxBlockSizeInvalid
		}
		if len(src)-si < blockLen {
			return 0, ErrFrameSizeWrong
		}
		block := src[si : si+blockLen]
		si += blockLen

		if info.BlockChecksum {
			if len(src)-si < 4 {
				return 0, ErrFrameSizeWrong
			}
			if binary.LittleEndian.Uint32(src[si:]) != xxh32.ChecksumZero(block) {
				return 0, ErrBlockChecksumInvalid
			}
			si += 4
		}

		var n int
		if uncompressed {
			if len(dst)-di < blockLen {
				return 0, ErrOutputTooSmall
			}
			n = copy(dst[di:], block)
		} else {
			// All prior output doubles as the dictionary, so linked-mode
			// matches reach back across block boundaries.
			n, err = compress.DecompressSafeUsingDict(block, dst[di:], dst[:di])
			if err != nil {
				if err == compress.ErrOutputTooSmall {
					return 0, ErrOutputTooSmall
				}
				return 0, ErrDecompressionFailed
			}
		}

		if info.ContentChecksum {
			contentHash.Write(dst[di : di+n])
		}
		di += n
	}

	if info.ContentChecksum {
		if len(src)-si < 4 {
			return 0, ErrFrameSizeWrong
		}
		if binary.LittleEndian.Uint32(src[si:]) != contentHash.Sum32() {
			return 0, ErrContentChecksumInvalid
		}
	}

	return di, nil
}
