package compress

import (
	"bytes"
	"testing"
)

func TestDecompressSafePartial(t *testing.T) {
	src := bytes.Repeat([]byte("The quick brown fox jumps over the lazy dog. "), 100)
	comp := make([]byte, CompressBound(len(src)))
	n, err := CompressDefault(src, comp)
	if err != nil {
		t.Fatal(err)
	}
	comp = comp[:n]

	for _, target := range []int{0, 1, 5, 63, 64, 1000, len(src) - 1, len(src), len(src) + 100} {
		dst := make([]byte, len(src)+100)
		w, err := DecompressSafePartial(comp, dst, target)
		if err != nil {
			t.Fatalf("target %d: %v", target, err)
		}
		if w > target {
			t.Fatalf("target %d: wrote %d bytes past target", target, w)
		}
		if !bytes.Equal(dst[:w], src[:w]) {
			t.Fatalf("target %d: prefix mismatch over %d bytes", target, w)
		}
		// The decoder must deliver the full target when input allows it.
		if want := min(target, len(src)); w < want {
			t.Fatalf("target %d: wrote only %d bytes", target, w)
		}
	}
}

func TestDecompressSafeCorrupted(t *testing.T) {
	tests := []struct {
		name string
		src  []byte
	}{
		// Token promises 4 literals, none present.
		{"truncated-literals", []byte{0x40}},
		// Extended literal length runs off the input.
		{"truncated-extension", []byte{0xF0, 0xFF, 0xFF}},
		// Literals then a zero offset.
		{"zero-offset", []byte{0x10, 'x', 0x00, 0x00}},
		// Offset far beyond what has been decoded.
		{"offset-too-far", []byte{0x10, 'x', 0xFF, 0xFF}},
		// Offset with a missing second byte.
		{"truncated-offset", []byte{0x10, 'x', 0x01}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := make([]byte, 256)
			if _, err := DecompressSafe(tt.src, dst); err != ErrCorruptedData {
				t.Fatalf("got %v, want ErrCorruptedData", err)
			}
		})
	}
}

func TestDecompressSafeEmpty(t *testing.T) {
	n, err := DecompressSafe(nil, make([]byte, 8))
	if n != 0 || err != nil {
		t.Fatalf("got (%d, %v), want (0, nil)", n, err)
	}
}

func TestDecompressSafeOutputTooSmall(t *testing.T) {
	src := bytes.Repeat([]byte("abcdefgh"), 100)
	comp := make([]byte, CompressBound(len(src)))
	n, err := CompressDefault(src, comp)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := DecompressSafe(comp[:n], make([]byte, len(src)/2)); err != ErrOutputTooSmall {
		t.Fatalf("got %v, want ErrOutputTooSmall", err)
	}
}

func TestDecompressSafeUsingDict(t *testing.T) {
	dict := []byte("The quick brown fox jumps over the lazy dog. ")
	src := append([]byte(nil), dict...)
	src = append(src, []byte("The quick brown fox naps beside the lazy dog. ")...)

	// Compress with a primed stream so matches reach into the dictionary.
	s := NewStream()
	s.LoadDict(dict)
	comp := make([]byte, CompressBound(len(src)))
	n, err := s.CompressContinue(src, comp, 1)
	if err != nil {
		t.Fatal(err)
	}

	out := make([]byte, len(src))
	m, err := DecompressSafeUsingDict(comp[:n], out, dict)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out[:m], src) {
		t.Fatalf("dictionary round-trip mismatch")
	}

	// Without the dictionary the back-references are unresolvable.
	if _, err := DecompressSafe(comp[:n], out); err == nil {
		t.Fatal("expected failure without dictionary")
	}
}

// Overlapping matches implement run-length encoding for any stride.
func TestDecompressOverlapStrides(t *testing.T) {
	for _, stride := range []int{1, 2, 3, 4, 7} {
		pattern := pseudoRandom(stride)
		src := bytes.Repeat(pattern, 4000/stride+1)
		comp, out, err := roundTripFast(src, 1)
		if err != nil {
			t.Fatalf("stride %d: %v", stride, err)
		}
		if !bytes.Equal(out, src) {
			t.Fatalf("stride %d: mismatch", stride)
		}
		if len(comp) > len(src)/4 {
			t.Fatalf("stride %d: runs should compress well, got %d/%d", stride, len(comp), len(src))
		}
	}
}
