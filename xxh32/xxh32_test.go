package xxh32

import (
	"bytes"
	"testing"
)

// Known-answer vectors for seed 0.
func TestChecksumZeroVectors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want uint32
	}{
		{"empty", nil, 0x02CC5D05},
		{"single-byte", []byte("a"), 0x550D7456},
		{"short", []byte("abc"), 0x32D153FF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ChecksumZero(tt.data); got != tt.want {
				t.Errorf("ChecksumZero(%q) = %#08x, want %#08x", tt.data, got, tt.want)
			}
		})
	}
}

func TestDigestMatchesOneShot(t *testing.T) {
	data := bytes.Repeat([]byte("0123456789abcdefghijklmnopqrstuvwxyz"), 100)

	sizes := []int{0, 1, 3, 4, 15, 16, 17, 31, 32, 33, 63, 255, 1024, len(data)}
	for _, n := range sizes {
		var x XXH
		x.Write(data[:n])
		if got, want := x.Sum32(), ChecksumZero(data[:n]); got != want {
			t.Errorf("size %d: digest = %#08x, one-shot = %#08x", n, got, want)
		}
	}
}

func TestDigestChunkedWrites(t *testing.T) {
	data := bytes.Repeat([]byte{0xDE, 0xAD, 0xBE, 0xEF, 0x42}, 1000)
	want := ChecksumZero(data)

	for _, chunk := range []int{1, 2, 5, 7, 13, 16, 64, 333} {
		var x XXH
		for off := 0; off < len(data); off += chunk {
			end := off + chunk
			if end > len(data) {
				end = len(data)
			}
			x.Write(data[off:end])
		}
		if got := x.Sum32(); got != want {
			t.Errorf("chunk size %d: got %#08x, want %#08x", chunk, got, want)
		}
	}
}

func TestDigestReset(t *testing.T) {
	var x XXH
	x.Write([]byte("stale state"))
	x.Reset()
	x.Write([]byte("abc"))
	if got := x.Sum32(); got != ChecksumZero([]byte("abc")) {
		t.Errorf("after Reset: got %#08x, want %#08x", got, ChecksumZero([]byte("abc")))
	}
}

func TestSumAppends(t *testing.T) {
	var x XXH
	x.Write([]byte("abc"))
	b := x.Sum([]byte{0x01})
	if len(b) != 5 || b[0] != 0x01 {
		t.Fatalf("Sum did not append: % x", b)
	}
}
