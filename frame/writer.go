package frame

import (
	"encoding/binary"
	"io"
	"sync"

	"github.com/tarovik/lz4/xxh32"
)

// maxDictSize is the window carried between blocks in linked mode.
const maxDictSize = 64 << 10

// Writer is an io.WriteCloser that compresses into an LZ4 frame.
type Writer struct {
	mu    sync.Mutex
	w     io.Writer
	prefs Preferences

	bc      blockCompressor
	buf     []byte // block accumulation, prefs block size
	bufUsed int
	out     []byte // assembled block: header + data + checksum
	hist    []byte // linked mode: history detached from buf after each block

	contentHash xxh32.XXH
	wroteHeader bool
	closed      bool
}

// NewWriter returns a Writer with the default preferences: linked 4 MiB
// blocks, fast compression, content checksum.
func NewWriter(w io.Writer) *Writer {
	return NewWriterOptions(w, Preferences{
		FrameInfo: FrameInfo{ContentChecksum: true},
	})
}

// NewWriterLevel is NewWriter at the given compression level.
func NewWriterLevel(w io.Writer, level int) *Writer {
	return NewWriterOptions(w, Preferences{
		FrameInfo: FrameInfo{ContentChecksum: true},
		Level:     level,
	})
}

// NewWriterOptions returns a Writer with explicit preferences. The content
// size field is ignored: a streaming writer does not know it up front.
func NewWriterOptions(w io.Writer, prefs Preferences) *Writer {
	prefs.ContentSize = 0
	z := &Writer{prefs: prefs}
	z.init(w)
	return z
}

func (z *Writer) init(w io.Writer) {
	bs := z.prefs.blockSize()
	z.w = w
	z.bc = newBlockCompressor(z.prefs.Level, z.prefs.BlockMode == BlockLinked)
	if z.buf == nil {
		z.buf = make([]byte, bs)
		z.out = make([]byte, 4+bs+4)
	}
	if z.prefs.BlockMode == BlockLinked && z.hist == nil {
		z.hist = make([]byte, maxDictSize)
	}
	z.bufUsed = 0
	z.contentHash.Reset()
	z.wroteHeader = false
	z.closed = false
}

// Reset discards the current state and switches the Writer to dst.
func (z *Writer) Reset(dst io.Writer) {
	z.mu.Lock()
	defer z.mu.Unlock()
	z.init(dst)
}

// Write implements io.Writer. Data is accumulated into block-size chunks;
// each full chunk is compressed and emitted.
func (z *Writer) Write(p []byte) (int, error) {
	z.mu.Lock()
	defer z.mu.Unlock()

	if z.closed {
		return 0, ErrInvalidState
	}
	if err := z.ensureHeader(); err != nil {
		return 0, err
	}

	var written int
	for len(p) > 0 {
		n := copy(z.buf[z.bufUsed:], p)
		z.bufUsed += n
		p = p[n:]
		written += n

		if z.bufUsed == len(z.buf) {
			if err := z.flushBlock(); err != nil {
				return written, err
			}
		}
	}
	return written, nil
}

// Close flushes pending data, writes the end marker and the content
// checksum, and marks the stream complete. It does not close the underlying
// writer.
func (z *Writer) Close() error {
	z.mu.Lock()
	defer z.mu.Unlock()

	if z.closed {
		return nil
	}
	if err := z.ensureHeader(); err != nil {
		return err
	}
	if z.bufUsed > 0 {
		if err := z.flushBlock(); err != nil {
			return err
		}
	}

	var tail [8]byte
	n := 4 // end marker, zero
	if z.prefs.ContentChecksum {
		binary.LittleEndian.PutUint32(tail[4:], z.contentHash.Sum32())
		n = 8
	}
	if _, err := z.w.Write(tail[:n]); err != nil {
		return err
	}
	z.closed = true
	return nil
}

func (z *Writer) ensureHeader() error {
	if z.wroteHeader {
		return nil
	}
	var hdr [maxHeaderSize]byte
	if _, err := z.w.Write(appendHeader(hdr[:0], &z.prefs.FrameInfo)); err != nil {
		return err
	}
	z.wroteHeader = true
	return nil
}

// flushBlock compresses and emits the buffered chunk as one frame block.
func (z *Writer) flushBlock() error {
	chunk := z.buf[:z.bufUsed]
	if z.prefs.ContentChecksum {
		z.contentHash.Write(chunk)
	}

	var stored []byte
	written, err := z.bc.compressBlock(chunk, z.out[4:4+len(chunk)-1])
	if err == nil && written > 0 {
		binary.LittleEndian.PutUint32(z.out[:4], uint32(written))
		stored = z.out[4 : 4+written]
	} else if err == nil || err == ErrOutputTooSmall {
		binary.LittleEndian.PutUint32(z.out[:4], uint32(len(chunk))|uncompressedBit)
		stored = z.out[4 : 4+copy(z.out[4:], chunk)]
	} else {
		return err
	}

	total := 4 + len(stored)
	if z.prefs.BlockChecksum {
		binary.LittleEndian.PutUint32(z.out[total:], xxh32.ChecksumZero(stored))
		total += 4
	}
	if _, err := z.w.Write(z.out[:total]); err != nil {
		return err
	}

	// The accumulation buffer is about to be overwritten: detach the
	// window into owned storage so linked matches survive the reuse.
	z.bc.saveHistory(z.hist)
	z.bufUsed = 0
	return nil
}
