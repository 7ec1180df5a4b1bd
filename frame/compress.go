package frame

import (
	"encoding/binary"

	"github.com/tarovik/lz4/compress"
	"github.com/tarovik/lz4/xxh32"
)

// blockCompressor compresses one chunk into dst, carrying history in linked
// mode. Returning ErrOutputTooSmall means the chunk is incompressible for
// the available room and is stored raw; history stays coherent either way.
type blockCompressor interface {
	compressBlock(chunk, dst []byte) (int, error)
	// saveHistory detaches the linked-mode window into buf so the caller
	// may reuse the buffer the last chunk lived in. No-op when blocks are
	// independent.
	saveHistory(buf []byte)
}

type fastBlockCompressor struct {
	stream       *compress.Stream
	acceleration int
	linked       bool
}

func (c *fastBlockCompressor) compressBlock(chunk, dst []byte) (int, error) {
	if c.linked {
		return c.stream.CompressContinue(chunk, dst, c.acceleration)
	}
	return compress.CompressFast(chunk, dst, c.acceleration)
}

func (c *fastBlockCompressor) saveHistory(buf []byte) {
	if c.linked {
		c.stream.SaveDict(buf)
	}
}

type hcBlockCompressor struct {
	stream *compress.StreamHC
	level  compress.CompressionLevel
	linked bool
}

func (c *hcBlockCompressor) compressBlock(chunk, dst []byte) (int, error) {
	if c.linked {
		return c.stream.CompressContinue(chunk, dst)
	}
	return compress.CompressHC(chunk, dst, c.level)
}

func (c *hcBlockCompressor) saveHistory(buf []byte) {
	if c.linked {
		c.stream.SaveDict(buf)
	}
}

// newBlockCompressor maps the frame-level compression level onto a block
// codec: levels below 2 run the fast codec (negative levels raise its
// acceleration), 2 through 12 the corresponding HC level.
func newBlockCompressor(level int, linked bool) blockCompressor {
	if level < 2 {
		acceleration := 1
		if level < 0 {
			acceleration = -level
		}
		c := &fastBlockCompressor{acceleration: acceleration, linked: linked}
		if linked {
			c.stream = compress.NewStream()
		}
		return c
	}
	if level > int(compress.MaxLevelHC) {
		level = int(compress.MaxLevelHC)
	}
	c := &hcBlockCompressor{level: compress.CompressionLevel(level), linked: linked}
	if linked {
		c.stream = compress.NewStreamHC(c.level)
	}
	return c
}

// CompressFrame compresses src into dst as one complete LZ4 frame and
// returns the number of bytes written. prefs may be nil for the defaults
// (linked 4 MiB blocks, fast compression, no checksums).
func CompressFrame(src, dst []byte, prefs *Preferences) (int, error) {
	var p Preferences
	if prefs != nil {
		p = *prefs
	}
	if p.ContentSize != 0 {
		p.ContentSize = uint64(len(src))
	}

	var hdr [maxHeaderSize]byte
	header := appendHeader(hdr[:0], &p.FrameInfo)
	if len(header) > len(dst) {
		return 0, ErrOutputTooSmall
	}
	di := copy(dst, header)

	bs := p.blockSize()
	linked := p.BlockMode == BlockLinked
	bc := newBlockCompressor(p.Level, linked)

	for off := 0; off < len(src); off += bs {
		chunk := src[off:min(off+bs, len(src))]

		if len(dst)-di < 4+len(chunk) {
			return 0, ErrOutputTooSmall
		}
		headerPos := di
		di += 4

		// Offer one byte less than the raw size: success means the block
		// genuinely shrank, anything else is stored uncompressed.
		written, err := bc.compressBlock(chunk, dst[di:di+len(chunk)-1])
		switch {
		case err == nil && written > 0:
			binary.LittleEndian.PutUint32(dst[headerPos:], uint32(written))
			di += written
		case err == nil || err == ErrOutputTooSmall:
			binary.LittleEndian.PutUint32(dst[headerPos:], uint32(len(chunk))|uncompressedBit)
			copy(dst[di:], chunk)
			written = len(chunk)
			di += written
		default:
			return 0, err
		}

		if p.BlockChecksum {
			if len(dst)-di < 4 {
				return 0, ErrOutputTooSmall
			}
			binary.LittleEndian.PutUint32(dst[di:], xxh32.ChecksumZero(dst[headerPos+4:headerPos+4+written]))
			di += 4
		}
	}

	if len(dst)-di < 4 {
		return 0, ErrOutputTooSmall
	}
	binary.LittleEndian.PutUint32(dst[di:], 0) // end marker
	di += 4

	if p.ContentChecksum {
		if len(dst)-di < 4 {
			return 0, ErrOutputTooSmall
		}
		binary.LittleEndian.PutUint32(dst[di:], xxh32.ChecksumZero(src))
		di += 4
	}

	return di, nil
}
