package compress

import "encoding/binary"

// Stream is the streaming fast compressor. It carries the hash table and up
// to 64 KiB of history across CompressContinue calls, so matches reach back
// into previous blocks. A Stream is owned by one goroutine at a time and its
// calls must be serialized.
type Stream struct {
	window
	table   [hashTableSize]uint32 // global indices; 0 means empty
	dictBuf []byte                // owned storage for retained history
}

// NewStream returns a streaming compressor ready for its first block.
func NewStream() *Stream {
	s := new(Stream)
	s.Reset()
	return s
}

// Reset drops all history and table state, keeping allocations.
func (s *Stream) Reset() {
	for i := range s.table {
		s.table[i] = 0
	}
	s.prefix = nil
	s.dict = nil
	s.dictLimit = hcStartIndex
	s.lowLimit = hcStartIndex
}

// LoadDict primes the stream with a dictionary, keeping at most its last
// 64 KiB. The dictionary bytes are borrowed and must stay valid and
// unchanged until the next Reset, LoadDict or SaveDict. It returns the
// number of bytes retained.
func (s *Stream) LoadDict(dict []byte) int {
	s.Reset()
	if len(dict) > MaxDistance+1 {
		dict = dict[len(dict)-(MaxDistance+1):]
	}
	s.prefix = dict
	for i := 0; i+MinMatch <= len(dict); i++ {
		idx := s.dictLimit + uint32(i)
		s.table[hashFast(binary.LittleEndian.Uint32(dict[i:]))] = idx
	}
	return len(dict)
}

// SaveDict copies the most recent history (up to 64 KiB, bounded by buf)
// into buf and rebases the stream onto it, so the caller may recycle the
// buffer that held the previous blocks. It returns the number of bytes
// saved.
func (s *Stream) SaveDict(buf []byte) int {
	n := len(s.prefix)
	if n > MaxDistance+1 {
		n = MaxDistance + 1
	}
	if n > len(buf) {
		n = len(buf)
	}
	copy(buf, s.prefix[len(s.prefix)-n:])
	s.dictLimit = s.endIndexBefore(n)
	s.prefix = buf[:n]
	s.lowLimit = s.dictLimit
	s.dict = nil
	return n
}

// endIndexBefore returns the index of the first byte of the n-byte tail of
// the old prefix, for rebasing onto a saved copy.
func (s *Stream) endIndexBefore(n int) uint32 {
	return s.endIndex() - uint32(n)
}

// CompressContinue compresses src as the next block of the stream. When src
// directly extends the previous block in memory the window stays
// contiguous; otherwise the last 64 KiB of the current prefix (the blocks
// since the previous discontinuity, or a loaded dictionary) are retained
// internally as the external dictionary, replacing any older one. Matches
// reach back across block boundaries either way.
func (s *Stream) CompressContinue(src, dst []byte, acceleration int) (int, error) {
	if len(src) == 0 {
		return 0, nil
	}
	if len(src) > MaxInputSize {
		return 0, ErrInputTooLarge
	}
	if acceleration < minAcceleration {
		acceleration = minAcceleration
	}
	if acceleration > maxAcceleration {
		acceleration = maxAcceleration
	}

	if s.endIndex() >= streamRebaseThreshold {
		s.renorm()
	}

	blockStart := 0
	switch {
	case len(s.prefix) == 0:
		s.prefix = src
	case s.extendsPrefix(src):
		blockStart = len(s.prefix)
		s.prefix = s.prefix[:len(s.prefix)+len(src)]
	default:
		s.rebase()
		s.prefix = src
	}

	return s.compressBlock(src, dst, blockStart, acceleration)
}

// extendsPrefix reports whether src begins exactly at the end of the
// current prefix within the same backing array.
func (s *Stream) extendsPrefix(src []byte) bool {
	p := s.prefix
	if cap(p) < len(p)+len(src) {
		return false
	}
	ext := p[: len(p)+1 : cap(p)]
	return &ext[len(p)] == &src[0]
}

// rebase retains the last 64 KiB of the prefix in owned storage and turns
// it into the external dictionary. Retaining a copy keeps the history valid
// even when the caller reuses or overwrites the previous block's buffer
// (ring-buffer usage), which stands in for pointer-overlap invalidation.
func (s *Stream) rebase() {
	n := len(s.prefix)
	if n > MaxDistance+1 {
		n = MaxDistance + 1
	}
	if cap(s.dictBuf) < n {
		s.dictBuf = make([]byte, MaxDistance+1)
	}
	copy(s.dictBuf[:n], s.prefix[len(s.prefix)-n:])

	end := s.endIndex()
	s.dict = s.dictBuf[:n]
	s.lowLimit = end - uint32(n)
	s.dictLimit = end
	s.prefix = nil
}

// renorm shifts the index space back toward its start, preventing 32-bit
// wrap on very long streams. Entries older than the window are dropped.
func (s *Stream) renorm() {
	shift := s.lowLimit - hcStartIndex
	if shift == 0 {
		return
	}
	for i, e := range s.table {
		if e >= s.lowLimit {
			s.table[i] = e - shift
		} else {
			s.table[i] = 0
		}
	}
	s.lowLimit -= shift
	s.dictLimit -= shift
}

// compressBlock runs the fast scan over the stream window. src is
// s.prefix[blockStart:].
func (s *Stream) compressBlock(src, dst []byte, blockStart, acceleration int) (int, error) {
	srcLen := len(src)
	if srcLen < mfLimit+1 {
		return emitLastLiterals(dst, 0, src)
	}

	base := s.dictLimit + uint32(blockStart)
	end := base + uint32(srcLen)
	mfl := end - mfLimit
	matchLimitIdx := end - lastLiterals

	anchor := base
	ip := base
	di := 0

	for {
		step := 1
		searchMatchNb := acceleration << skipTrigger
		var cand uint32
		var pattern uint32
		for {
			if ip > mfl {
				return emitLastLiterals(dst, di, s.prefix[anchor-s.dictLimit:])
			}
			pattern = binary.LittleEndian.Uint32(s.prefix[ip-s.dictLimit:])
			h := hashFast(pattern)
			cand = s.table[h]
			s.table[h] = ip
			lowest := s.lowLimit
			if ip-s.lowLimit > MaxDistance {
				lowest = ip - MaxDistance
			}
			if cand != 0 && cand >= lowest && cand < ip && s.u32At(cand) == pattern {
				break
			}
			ip += uint32(step)
			step = searchMatchNb >> skipTrigger
			searchMatchNb++
		}

		mLen := s.matchLenAt(cand, ip, matchLimitIdx)
		offset := int(ip - cand)

		lit := s.prefix[anchor-s.dictLimit : ip-s.dictLimit]
		var err error
		di, err = emitSequence(dst, di, lit, mLen, offset)
		if err != nil {
			return 0, err
		}

		ip += uint32(mLen)
		anchor = ip
		if ip > mfl {
			return emitLastLiterals(dst, di, s.prefix[anchor-s.dictLimit:])
		}
	}
}
