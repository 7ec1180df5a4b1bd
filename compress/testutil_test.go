package compress

import "bytes"

// testInputs is the shared input set for round-trip tests.
func testInputs() []struct {
	name string
	data []byte
} {
	return []struct {
		name string
		data []byte
	}{
		{name: "nil", data: nil},
		{name: "single-byte", data: []byte{0xAB}},
		{name: "short-text", data: []byte("hello world, lz4 test")},
		{name: "aaaa", data: []byte("AAAA")},
		{name: "repeated-pattern", data: bytes.Repeat([]byte("abc123"), 2000)},
		{name: "long-run", data: bytes.Repeat([]byte{0xFF}, 12000)},
		{name: "two-byte-run", data: bytes.Repeat([]byte{0xCA, 0xFE}, 6000)},
		{name: "byte-cycle", data: bytes.Repeat([]byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, 1200)},
		{name: "english", data: bytes.Repeat([]byte("The quick brown fox jumps over the lazy dog. "), 100)},
		{name: "pseudo-random", data: pseudoRandom(32 << 10)},
		{name: "mixed", data: append(pseudoRandom(4096), bytes.Repeat([]byte("lz4lz4"), 3000)...)},
	}
}

// pseudoRandom returns n deterministic, incompressible-looking bytes.
func pseudoRandom(n int) []byte {
	data := make([]byte, n)
	state := uint32(0x12345678)
	for i := range data {
		state ^= state << 13
		state ^= state >> 17
		state ^= state << 5
		data[i] = byte(state)
	}
	return data
}

// roundTripFast compresses with the fast codec and decompresses again.
func roundTripFast(src []byte, acceleration int) ([]byte, []byte, error) {
	comp := make([]byte, CompressBound(len(src)))
	n, err := CompressFast(src, comp, acceleration)
	if err != nil {
		return nil, nil, err
	}
	comp = comp[:n]
	out := make([]byte, len(src))
	m, err := DecompressSafe(comp, out)
	if err != nil {
		return comp, nil, err
	}
	return comp, out[:m], nil
}
