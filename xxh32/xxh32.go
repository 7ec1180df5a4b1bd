// Package xxh32 implements the 32-bit XXH hash. The LZ4 frame format uses it
// with seed 0 for the header checksum, the optional per-block checksums and
// the optional content checksum.
package xxh32

import (
	"encoding/binary"
	"math/bits"
)

var (
	prime1 uint32 = 2654435761
	prime2 uint32 = 2246822519
	prime3 uint32 = 3266489917
	prime4 uint32 = 668265263
	prime5 uint32 = 374761393
)

// ChecksumZero returns the XXH32 hash of input with seed 0.
func ChecksumZero(input []byte) uint32 {
	n := len(input)
	h32 := uint32(n)

	if n < 16 {
		h32 += prime5
	} else {
		v1 := uint32(prime1 + prime2)
		v2 := uint32(prime2)
		v3 := uint32(0)
		v4 := uint32(0) - prime1
		p := 0
		for p <= n-16 {
			sub := input[p:]
			v1 = rol13(v1+binary.LittleEndian.Uint32(sub)*prime2) * prime1
			v2 = rol13(v2+binary.LittleEndian.Uint32(sub[4:])*prime2) * prime1
			v3 = rol13(v3+binary.LittleEndian.Uint32(sub[8:])*prime2) * prime1
			v4 = rol13(v4+binary.LittleEndian.Uint32(sub[12:])*prime2) * prime1
			p += 16
		}
		input = input[p:]
		h32 += rol1(v1) + rol7(v2) + rol12(v3) + rol18(v4)
	}

	p := 0
	for p <= len(input)-4 {
		h32 += binary.LittleEndian.Uint32(input[p:]) * prime3
		h32 = rol17(h32) * prime4
		p += 4
	}
	for p < len(input) {
		h32 += uint32(input[p]) * prime5
		h32 = rol11(h32) * prime1
		p++
	}

	h32 ^= h32 >> 15
	h32 *= prime2
	h32 ^= h32 >> 13
	h32 *= prime3
	h32 ^= h32 >> 16

	return h32
}

// XXH is a rolling XXH32 state with seed 0. The zero value is ready to use.
type XXH struct {
	v1, v2, v3, v4 uint32
	totalLen       uint64
	buf            [16]byte
	bufused        int
}

// Reset returns the state to its initial (seed 0) value.
func (x *XXH) Reset() {
	*x = XXH{}
}

// Size returns the number of bytes of Sum32's checksum.
func (x *XXH) Size() int { return 4 }

// BlockSize returns the hash block size.
func (x *XXH) BlockSize() int { return 16 }

// Write feeds more data into the hash state. It never returns an error.
func (x *XXH) Write(input []byte) (int, error) {
	if x.totalLen == 0 {
		x.v1 = prime1 + prime2
		x.v2 = prime2
		x.v3 = 0
		x.v4 = uint32(0) - prime1
	}
	n := len(input)
	x.totalLen += uint64(n)

	if x.bufused+n < 16 {
		copy(x.buf[x.bufused:], input)
		x.bufused += n
		return n, nil
	}

	p := 0
	if x.bufused > 0 {
		p = 16 - x.bufused
		copy(x.buf[x.bufused:], input[:p])
		x.v1 = rol13(x.v1+binary.LittleEndian.Uint32(x.buf[:])*prime2) * prime1
		x.v2 = rol13(x.v2+binary.LittleEndian.Uint32(x.buf[4:])*prime2) * prime1
		x.v3 = rol13(x.v3+binary.LittleEndian.Uint32(x.buf[8:])*prime2) * prime1
		x.v4 = rol13(x.v4+binary.LittleEndian.Uint32(x.buf[12:])*prime2) * prime1
		x.bufused = 0
	}

	for p <= n-16 {
		sub := input[p:]
		x.v1 = rol13(x.v1+binary.LittleEndian.Uint32(sub)*prime2) * prime1
		x.v2 = rol13(x.v2+binary.LittleEndian.Uint32(sub[4:])*prime2) * prime1
		x.v3 = rol13(x.v3+binary.LittleEndian.Uint32(sub[8:])*prime2) * prime1
		x.v4 = rol13(x.v4+binary.LittleEndian.Uint32(sub[12:])*prime2) * prime1
		p += 16
	}

	copy(x.buf[:], input[p:])
	x.bufused = n - p
	return n, nil
}

// Sum32 returns the current hash value. It does not change the state.
func (x *XXH) Sum32() uint32 {
	var h32 uint32
	if x.totalLen >= 16 {
		h32 = rol1(x.v1) + rol7(x.v2) + rol12(x.v3) + rol18(x.v4)
	} else {
		h32 = prime5
	}
	h32 += uint32(x.totalLen)

	p := 0
	for p <= x.bufused-4 {
		h32 += binary.LittleEndian.Uint32(x.buf[p:]) * prime3
		h32 = rol17(h32) * prime4
		p += 4
	}
	for p < x.bufused {
		h32 += uint32(x.buf[p]) * prime5
		h32 = rol11(h32) * prime1
		p++
	}

	h32 ^= h32 >> 15
	h32 *= prime2
	h32 ^= h32 >> 13
	h32 *= prime3
	h32 ^= h32 >> 16

	return h32
}

// Sum appends the big-endian checksum to b and returns the result.
func (x *XXH) Sum(b []byte) []byte {
	h := x.Sum32()
	return append(b, byte(h>>24), byte(h>>16), byte(h>>8), byte(h))
}

func rol1(u uint32) uint32  { return bits.RotateLeft32(u, 1) }
func rol7(u uint32) uint32  { return bits.RotateLeft32(u, 7) }
func rol11(u uint32) uint32 { return bits.RotateLeft32(u, 11) }
func rol12(u uint32) uint32 { return bits.RotateLeft32(u, 12) }
func rol13(u uint32) uint32 { return bits.RotateLeft32(u, 13) }
func rol17(u uint32) uint32 { return bits.RotateLeft32(u, 17) }
func rol18(u uint32) uint32 { return bits.RotateLeft32(u, 18) }
