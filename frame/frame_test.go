package frame

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tarovik/lz4/xxh32"
)

func pseudoRandom(n int) []byte {
	data := make([]byte, n)
	state := uint32(0x9E3779B9)
	for i := range data {
		state ^= state << 13
		state ^= state >> 17
		state ^= state << 5
		data[i] = byte(state)
	}
	return data
}

func TestCompressFrameEmptyLayout(t *testing.T) {
	dst := make([]byte, 64)
	n, err := CompressFrame(nil, dst, nil)
	require.NoError(t, err)
	require.Equal(t, 11, n) // magic(4) + FLG + BD + HC + end marker(4)

	require.Equal(t, uint32(0x184D2204), binary.LittleEndian.Uint32(dst))
	require.Equal(t, byte(0x40), dst[4]) // version 01, linked, no options
	require.Equal(t, byte(0x70), dst[5]) // block size id 7 (4 MiB)
	require.Equal(t, byte(xxh32.ChecksumZero(dst[4:6])>>8), dst[6])
	require.Equal(t, uint32(0), binary.LittleEndian.Uint32(dst[7:]))
}

func TestCompressFrameEmptyWithContentChecksum(t *testing.T) {
	dst := make([]byte, 64)
	prefs := &Preferences{FrameInfo: FrameInfo{ContentChecksum: true}}
	n, err := CompressFrame(nil, dst, prefs)
	require.NoError(t, err)
	require.Equal(t, 15, n)
	require.Equal(t, xxh32.ChecksumZero(nil), binary.LittleEndian.Uint32(dst[11:]))

	out := make([]byte, 16)
	m, err := DecompressFrame(dst[:n], out)
	require.NoError(t, err)
	require.Equal(t, 0, m)
}

func TestFrameRoundTripAcrossPreferences(t *testing.T) {
	inputs := map[string][]byte{
		"empty":      nil,
		"tiny":       []byte("tiny"),
		"text":       bytes.Repeat([]byte("The quick brown fox jumps over the lazy dog. "), 100),
		"multiblock": bytes.Repeat([]byte("0123456789abcdef"), 10<<10), // 160 KiB
		"random":     pseudoRandom(70 << 10),
	}

	prefsGrid := []Preferences{
		{},
		{Level: 9},
		{Level: 12, FrameInfo: FrameInfo{BlockMode: BlockIndependent}},
		{FrameInfo: FrameInfo{BlockSizeID: BlockSize64KB}},
		{FrameInfo: FrameInfo{BlockSizeID: BlockSize64KB, BlockMode: BlockIndependent}},
		{FrameInfo: FrameInfo{ContentChecksum: true}},
		{FrameInfo: FrameInfo{BlockChecksum: true}},
		{FrameInfo: FrameInfo{BlockSizeID: BlockSize256KB, ContentChecksum: true, BlockChecksum: true}, Level: 5},
		{FrameInfo: FrameInfo{ContentSize: 1}}, // flag: actual size filled in
	}

	for name, src := range inputs {
		for i, prefs := range prefsGrid {
			t.Run(fmt.Sprintf("%s/prefs-%d", name, i), func(t *testing.T) {
				p := prefs
				dst := make([]byte, CompressFrameBound(len(src), &p))
				n, err := CompressFrame(src, dst, &p)
				require.NoError(t, err)

				out := make([]byte, len(src))
				m, err := DecompressFrame(dst[:n], out)
				require.NoError(t, err)
				require.Equal(t, len(src), m)
				require.True(t, bytes.Equal(out[:m], src))
			})
		}
	}
}

func TestFrameContentSizeHeader(t *testing.T) {
	src := []byte("some content with a declared size")
	prefs := &Preferences{FrameInfo: FrameInfo{ContentSize: 1}}
	dst := make([]byte, CompressFrameBound(len(src), prefs))
	n, err := CompressFrame(src, dst, prefs)
	require.NoError(t, err)

	info, hLen, err := ParseHeader(dst[:n])
	require.NoError(t, err)
	require.Equal(t, uint64(len(src)), info.ContentSize)
	require.Equal(t, 15, hLen)

	hs, err := HeaderSize(dst[:n])
	require.NoError(t, err)
	require.Equal(t, hLen, hs)
}

func TestFrameLowEntropyChecksumScenario(t *testing.T) {
	// 0..255 repeated 256 times, 64 KiB blocks, content checksum on.
	cycle := make([]byte, 256)
	for i := range cycle {
		cycle[i] = byte(i)
	}
	src := bytes.Repeat(cycle, 256)
	require.Equal(t, 65536, len(src))

	prefs := &Preferences{FrameInfo: FrameInfo{
		BlockSizeID:     BlockSize64KB,
		ContentChecksum: true,
	}}
	dst := make([]byte, CompressFrameBound(len(src), prefs))
	n, err := CompressFrame(src, dst, prefs)
	require.NoError(t, err)

	out := make([]byte, len(src))
	m, err := DecompressFrame(dst[:n], out)
	require.NoError(t, err)
	require.True(t, bytes.Equal(out[:m], src))

	// Corrupting the trailing checksum must be detected.
	corrupt := append([]byte(nil), dst[:n]...)
	for i := n - 4; i < n; i++ {
		corrupt[i] ^= 0xFF
	}
	_, err = DecompressFrame(corrupt, out)
	require.ErrorIs(t, err, ErrContentChecksumInvalid)
}

func TestFrameBitFlipNeverSilent(t *testing.T) {
	src := bytes.Repeat([]byte("integrity matters. "), 500)
	prefs := &Preferences{FrameInfo: FrameInfo{ContentChecksum: true}}
	dst := make([]byte, CompressFrameBound(len(src), prefs))
	n, err := CompressFrame(src, dst, prefs)
	require.NoError(t, err)

	hs, err := HeaderSize(dst[:n])
	require.NoError(t, err)

	out := make([]byte, len(src))
	for pos := hs + 4; pos < n; pos += 101 {
		corrupt := append([]byte(nil), dst[:n]...)
		corrupt[pos] ^= 0x01
		m, err := DecompressFrame(corrupt, out)
		if err == nil {
			// A flip may survive block decoding only if the content
			// checksum still catches it; a silent miscompare is a bug.
			require.True(t, bytes.Equal(out[:m], src),
				"silent corruption at offset %d", pos)
		}
	}
}

func TestDecompressFrameSkippable(t *testing.T) {
	src := []byte("payload after a skippable frame")
	prefs := &Preferences{}
	frameBuf := make([]byte, CompressFrameBound(len(src), prefs))
	n, err := CompressFrame(src, frameBuf, prefs)
	require.NoError(t, err)

	var full []byte
	full = binary.LittleEndian.AppendUint32(full, 0x184D2A50)
	full = binary.LittleEndian.AppendUint32(full, 5)
	full = append(full, "junk!"...)
	full = append(full, frameBuf[:n]...)

	out := make([]byte, len(src))
	m, err := DecompressFrame(full, out)
	require.NoError(t, err)
	require.True(t, bytes.Equal(out[:m], src))

	hs, err := HeaderSize(full)
	require.NoError(t, err)
	require.Equal(t, 8, hs)
}

func TestParseHeaderErrors(t *testing.T) {
	valid := func() []byte {
		dst := make([]byte, 64)
		n, err := CompressFrame(nil, dst, nil)
		require.NoError(t, err)
		return dst[:n]
	}

	t.Run("incomplete", func(t *testing.T) {
		_, _, err := ParseHeader(valid()[:5])
		require.ErrorIs(t, err, ErrFrameHeaderIncomplete)
	})
	t.Run("bad-magic", func(t *testing.T) {
		h := valid()
		h[0] ^= 0xFF
		_, _, err := ParseHeader(h)
		require.ErrorIs(t, err, ErrFrameTypeUnknown)
	})
	t.Run("bad-version", func(t *testing.T) {
		h := valid()
		h[4] = h[4]&0x3F | 0x80 // version 10
		_, _, err := ParseHeader(h)
		require.ErrorIs(t, err, ErrHeaderVersionWrong)
	})
	t.Run("reserved-flg-bit", func(t *testing.T) {
		h := valid()
		h[4] |= 0x02
		_, _, err := ParseHeader(h)
		require.ErrorIs(t, err, ErrReservedFlagSet)
	})
	t.Run("reserved-bd-bit", func(t *testing.T) {
		h := valid()
		h[5] |= 0x01
		_, _, err := ParseHeader(h)
		require.ErrorIs(t, err, ErrReservedFlagSet)
	})
	t.Run("bad-block-size", func(t *testing.T) {
		h := valid()
		h[5] = 0x30 // block size id 3
		_, _, err := ParseHeader(h)
		require.ErrorIs(t, err, ErrMaxBlockSizeInvalid)
	})
	t.Run("bad-header-checksum", func(t *testing.T) {
		h := valid()
		h[6] ^= 0xFF
		_, _, err := ParseHeader(h)
		require.ErrorIs(t, err, ErrHeaderChecksumInvalid)
	})
}

func TestDecompressFrameTruncated(t *testing.T) {
	src := bytes.Repeat([]byte("truncate me. "), 200)
	dst := make([]byte, CompressFrameBound(len(src), nil))
	n, err := CompressFrame(src, dst, nil)
	require.NoError(t, err)

	out := make([]byte, len(src))
	hs, err := HeaderSize(dst[:n])
	require.NoError(t, err)

	for _, cut := range []int{hs + 2, n - 2, n - 5} {
		_, err := DecompressFrame(dst[:cut], out)
		require.ErrorIs(t, err, ErrFrameSizeWrong, "cut at %d", cut)
	}
}

func TestBlockChecksumDetectsCorruption(t *testing.T) {
	src := bytes.Repeat([]byte("block checksum coverage. "), 300)
	prefs := &Preferences{FrameInfo: FrameInfo{BlockChecksum: true}}
	dst := make([]byte, CompressFrameBound(len(src), prefs))
	n, err := CompressFrame(src, dst, prefs)
	require.NoError(t, err)

	hs, err := HeaderSize(dst[:n])
	require.NoError(t, err)
	corrupt := append([]byte(nil), dst[:n]...)
	corrupt[hs+6] ^= 0x10 // inside the first block's data

	out := make([]byte, len(src))
	_, err = DecompressFrame(corrupt, out)
	require.ErrorIs(t, err, ErrBlockChecksumInvalid)
}

func TestCompressFrameBound(t *testing.T) {
	require.Equal(t, 23, CompressFrameBound(0, nil))

	prefs := &Preferences{FrameInfo: FrameInfo{
		BlockSizeID:     BlockSize64KB,
		ContentChecksum: true,
		BlockChecksum:   true,
	}}
	n := 100 << 10 // two 64 KiB blocks
	bs := BlockSize64KB.Bytes()
	want := 19 + 2*(4+bs+bs/255+16+4) + 4 + 4
	require.Equal(t, want, CompressFrameBound(n, prefs))
}
