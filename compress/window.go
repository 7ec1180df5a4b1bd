package compress

import "encoding/binary"

// window resolves positions of a single monotonically increasing 32-bit
// index space onto two byte regions: the contiguous prefix (prefix[0] sits
// at index dictLimit) and an optional external dictionary covering
// [lowLimit, dictLimit) in disjoint memory. Indices are only dereferenced
// after the caller has checked them against lowLimit and the distance
// limit.
type window struct {
	prefix []byte // current contiguous window
	dict   []byte // external dictionary, disjoint memory

	dictLimit uint32 // index of prefix[0]
	lowLimit  uint32 // index of dict[0]
}

// endIndex is one past the last valid position of the window.
func (w *window) endIndex() uint32 {
	return w.dictLimit + uint32(len(w.prefix))
}

// byteAt resolves an index through the prefix or the external dictionary.
// The caller must have checked idx >= w.lowLimit.
func (w *window) byteAt(idx uint32) byte {
	if idx >= w.dictLimit {
		return w.prefix[idx-w.dictLimit]
	}
	return w.dict[idx-w.lowLimit]
}

// u32At reads 4 bytes at idx, crossing from the dictionary into the prefix
// when the dictionary ends mid-read.
func (w *window) u32At(idx uint32) uint32 {
	if idx >= w.dictLimit {
		return binary.LittleEndian.Uint32(w.prefix[idx-w.dictLimit:])
	}
	off := int(idx - w.lowLimit)
	if off+4 <= len(w.dict) {
		return binary.LittleEndian.Uint32(w.dict[off:])
	}
	var v uint32
	for i := 3; i >= 0; i-- {
		c := off + i
		var b byte
		if c < len(w.dict) {
			b = w.dict[c]
		} else if c-len(w.dict) < len(w.prefix) {
			b = w.prefix[c-len(w.dict)]
		}
		v = v<<8 | uint32(b)
	}
	return v
}

// matchLenAt counts matching bytes between candidate index m and position ip
// (in the prefix), bounded by iHigh on the current side. A dictionary
// candidate continues into the prefix once the dictionary runs out.
func (w *window) matchLenAt(m, ip, iHigh uint32) int {
	ipOff := int(ip - w.dictLimit)
	hiOff := int(iHigh - w.dictLimit)
	if m >= w.dictLimit {
		return matchLength(w.prefix, int(m-w.dictLimit), w.prefix, ipOff, hiOff)
	}
	dOff := int(m - w.lowLimit)
	n := 0
	for ipOff+n < hiOff {
		c := dOff + n
		var b byte
		if c < len(w.dict) {
			b = w.dict[c]
		} else {
			b = w.prefix[c-len(w.dict)]
		}
		if w.prefix[ipOff+n] != b {
			break
		}
		n++
	}
	return n
}
