package frame

import (
	"encoding/binary"
	"io"
	"sync"

	"github.com/tarovik/lz4/compress"
	"github.com/tarovik/lz4/xxh32"
)

// Reader is an io.Reader that decompresses a stream of LZ4 frames.
// Concatenated frames are decoded back to back; skippable frames are
// silently consumed.
type Reader struct {
	mu sync.Mutex
	r  io.Reader

	info       FrameInfo
	readHeader bool

	decompressed []byte // current block's output, served to the caller
	pos          int

	blockBuf []byte // decode destination, block size
	compBuf  []byte // compressed block input, block size
	history  []byte // linked mode: trailing window of prior output

	contentHash xxh32.XXH
}

// NewReader returns a Reader decompressing from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// Reset discards all state and switches the Reader to r.
func (r *Reader) Reset(src io.Reader) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.r = src
	r.readHeader = false
	r.decompressed = nil
	r.pos = 0
	r.history = r.history[:0]
	r.contentHash.Reset()
}

// Read implements io.Reader.
func (r *Reader) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for {
		if r.pos < len(r.decompressed) {
			n := copy(p, r.decompressed[r.pos:])
			r.pos += n
			return n, nil
		}

		if !r.readHeader {
			if err := r.readFrameHeader(); err != nil {
				return 0, err
			}
		}

		done, err := r.readBlock()
		if err != nil {
			return 0, err
		}
		if done {
			// Frame finished; loop to try a following frame. A clean EOF
			// there ends the stream.
			r.readHeader = false
			r.history = r.history[:0]
			r.contentHash.Reset()
		}
	}
}

// readFrameHeader consumes skippable frames and parses the next frame
// descriptor. io.EOF surfaces untouched when the stream ends cleanly at a
// frame boundary.
func (r *Reader) readFrameHeader() error {
	var hdr [maxHeaderSize]byte
	for {
		if _, err := io.ReadFull(r.r, hdr[:4]); err != nil {
			if err == io.ErrUnexpectedEOF {
				return ErrFrameHeaderIncomplete
			}
			return err
		}
		magic := binary.LittleEndian.Uint32(hdr[:4])
		if magic&skippableMask != skippableMagic {
			break
		}
		if _, err := io.ReadFull(r.r, hdr[4:8]); err != nil {
			return eofToIncomplete(err)
		}
		skip := int64(binary.LittleEndian.Uint32(hdr[4:8]))
		if _, err := io.CopyN(io.Discard, r.r, skip); err != nil {
			if err == io.EOF {
				return ErrFrameSizeWrong
			}
			return err
		}
	}

	if _, err := io.ReadFull(r.r, hdr[4:6]); err != nil {
		return eofToIncomplete(err)
	}
	n := 6
	flg := hdr[4]
	if flg&flagContentSize != 0 {
		n += 8
	}
	if flg&flagDictID != 0 {
		n += 4
	}
	n++ // header checksum
	if _, err := io.ReadFull(r.r, hdr[6:n]); err != nil {
		return eofToIncomplete(err)
	}

	info, _, err := ParseHeader(hdr[:n])
	if err != nil {
		return err
	}
	r.info = info
	r.readHeader = true

	bs := info.BlockSizeID.Bytes()
	if cap(r.blockBuf) < bs {
		r.blockBuf = make([]byte, bs)
		r.compBuf = make([]byte, bs)
	}
	r.decompressed = nil
	r.pos = 0
	return nil
}

// readBlock decodes the next block of the current frame. It reports
// done=true after consuming the end marker and the content checksum.
func (r *Reader) readBlock() (bool, error) {
	var word [4]byte
	if _, err := io.ReadFull(r.r, word[:]); err != nil {
		return false, eofToSizeWrong(err)
	}
	blockHeader := binary.LittleEndian.Uint32(word[:])

	if blockHeader == 0 {
		if r.info.ContentChecksum {
			if _, err := io.ReadFull(r.r, word[:]); err != nil {
				return false, eofToSizeWrong(err)
			}
			if binary.LittleEndian.Uint32(word[:]) != r.contentHash.Sum32() {
				return false, ErrContentChecksumInvalid
			}
		}
		return true, nil
	}

	uncompressed := blockHeader&uncompressedBit != 0
	blockLen := int(blockHeader &^ uncompressedBit)
	if blockLen > len(r.compBuf) {
		return false, ErrMaxBlockSizeInvalid
	}
	block := r.compBuf[:blockLen]
	if _, err := io.ReadFull(r.r, block); err != nil {
		return false, eofToSizeWrong(err)
	}

	if r.info.BlockChecksum {
		if _, err := io.ReadFull(r.r, word[:]); err != nil {
			return false, eofToSizeWrong(err)
		}
		if binary.LittleEndian.Uint32(word[:]) != xxh32.ChecksumZero(block) {
			return false, ErrBlockChecksumInvalid
		}
	}

	var out []byte
	if uncompressed {
		out = r.blockBuf[:copy(r.blockBuf, block)]
	} else {
		n, err := compress.DecompressSafeUsingDict(block, r.blockBuf, r.history)
		if err != nil {
			return false, ErrDecompressionFailed
		}
		out = r.blockBuf[:n]
	}

	if r.info.ContentChecksum {
		r.contentHash.Write(out)
	}
	if r.info.BlockMode == BlockLinked {
		r.history = append(r.history, out...)
		if len(r.history) > maxDictSize {
			keep := len(r.history) - maxDictSize
			r.history = r.history[:copy(r.history, r.history[keep:])]
		}
	}

	r.decompressed = out
	r.pos = 0
	return false, nil
}

func eofToIncomplete(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return ErrFrameHeaderIncomplete
	}
	return err
}

func eofToSizeWrong(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return ErrFrameSizeWrong
	}
	return err
}
