package compress

import "encoding/binary"

// LZ4MID (level 2): a middle ground between the fast scan and the chain
// search. Two 2^14 tables overlay the HC hash table storage, one keyed on
// the 4-byte hash, one on the low 56 bits of the 8-byte value. No chains are
// maintained; ratio comes from the wider 8-byte key and from seeding the
// tables around committed matches.

const (
	midHashLog   = 14
	midTableSize = 1 << midHashLog

	// 64-bit golden ratio, applied to the low 56 bits of the 8-byte key.
	golden64 = 0x9E3779B185EBCA87
	mask56   = (1 << 56) - 1
)

func hashMid4(u uint32) uint32 {
	return u * hasher >> (32 - midHashLog)
}

func hashMid8(u uint64) uint32 {
	return uint32((u & mask56) * golden64 >> (64 - midHashLog))
}

// compressMID is the level 2 strategy.
func (s *hcState) compressMID(dst []byte, blockStart int) (int, error) {
	h4t := s.hashTable[:midTableSize]
	h8t := s.hashTable[midTableSize : 2*midTableSize]

	srcLen := len(s.prefix) - blockStart
	if srcLen < mfLimit+1 {
		return emitLastLiterals(dst, 0, s.prefix[blockStart:])
	}

	base := s.dictLimit + uint32(blockStart)
	end := base + uint32(srcLen)
	mfl := end - mfLimit
	matchLimitIdx := end - lastLiterals
	windowEnd := s.endIndex()

	anchor := base
	ip := base
	di := 0

	for ip <= mfl {
		ipOff := ip - s.dictLimit
		v8 := binary.LittleEndian.Uint64(s.prefix[ipOff:])
		h8 := hashMid8(v8)
		c8 := h8t[h8]
		h4 := hashMid4(uint32(v8))
		c4 := h4t[h4]
		h8t[h8] = ip
		h4t[h4] = ip

		lowest := s.lowLimit
		if ip-s.lowLimit > MaxDistance {
			lowest = ip - MaxDistance
		}

		var mIdx uint32
		mLen := 0

		// The 8-byte candidate wins outright when it matches at all.
		if c8 != 0 && c8 >= lowest && c8 < ip {
			if l := s.matchLenAt(c8, ip, matchLimitIdx); l >= MinMatch {
				mIdx, mLen = c8, l
			}
		}
		if mLen < MinMatch && c4 != 0 && c4 >= lowest && c4 < ip {
			if l := s.matchLenAt(c4, ip, matchLimitIdx); l >= MinMatch {
				mIdx, mLen = c4, l
				// An 8-byte candidate one byte ahead may run longer.
				if ip+1 <= mfl {
					v8b := binary.LittleEndian.Uint64(s.prefix[ipOff+1:])
					if c8b := h8t[hashMid8(v8b)]; c8b != 0 && c8b >= lowest && c8b < ip+1 {
						if l2 := s.matchLenAt(c8b, ip+1, matchLimitIdx); l2 > mLen {
							ip++
							mIdx, mLen = c8b, l2
						}
					}
				}
			}
		}

		if mLen < MinMatch {
			// Growing skip over incompressible stretches.
			ip += 1 + (ip-anchor)>>9
			continue
		}

		// Backward extension while preceding bytes agree.
		for ip > anchor && mIdx > s.lowLimit && s.prefix[ip-1-s.dictLimit] == s.byteAt(mIdx-1) {
			ip--
			mIdx--
			mLen++
		}

		offset := int(ip - mIdx)
		lit := s.prefix[anchor-s.dictLimit : ip-s.dictLimit]
		var err error
		di, err = emitSequence(dst, di, lit, mLen, offset)
		if err != nil {
			return 0, err
		}

		mEnd := ip + uint32(mLen)
		seedMID(h4t, h8t, s, ip+1, windowEnd)
		seedMID(h4t, h8t, s, ip+2, windowEnd)
		seedMID(h4t, h8t, s, mEnd-5, windowEnd)
		seedMID(h4t, h8t, s, mEnd-3, windowEnd)
		seedMID(h4t, h8t, s, mEnd-2, windowEnd)
		seedMID(h4t, h8t, s, mEnd-1, windowEnd)

		ip = mEnd
		anchor = ip
	}

	return emitLastLiterals(dst, di, s.prefix[anchor-s.dictLimit:])
}

// seedMID records pos in both tables when 8 bytes are readable there.
func seedMID(h4t, h8t []uint32, s *hcState, pos, windowEnd uint32) {
	if pos < s.dictLimit || pos+8 > windowEnd {
		return
	}
	v8 := binary.LittleEndian.Uint64(s.prefix[pos-s.dictLimit:])
	h8t[hashMid8(v8)] = pos
	h4t[hashMid4(uint32(v8))] = pos
}
