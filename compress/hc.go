package compress

import "encoding/binary"

// CompressionLevel selects the high-compression strategy and search effort.
type CompressionLevel int

const (
	// MinLevelHC is the lowest HC level (the LZ4MID strategy).
	MinLevelHC CompressionLevel = 2
	// DefaultLevelHC is the level used when none is given.
	DefaultLevelHC CompressionLevel = 9
	// MaxLevelHC is the strongest (and slowest) level.
	MaxLevelHC CompressionLevel = 12
)

const (
	// HC hash table: 2^15 u32 entries. LZ4MID overlays the same storage as
	// two 2^14 tables (4-byte and 8-byte keyed).
	hcHashLog   = 15
	hcTableSize = 1 << hcHashLog

	// Chain table: one u16 delta per position modulo 2^16; deltas saturate
	// at MaxDistance and 0 terminates a chain.
	chainSize = 1 << 16
	chainMask = chainSize - 1

	// Fresh windows start one full window into the index space so that a
	// zero table entry always reads as "empty".
	hcStartIndex = 1 << 16

	// Index rebase thresholds preventing 32-bit wrap.
	hcRebaseThreshold     = 1 << 30 // applied when an HC context is reused
	streamRebaseThreshold = 1 << 31 // applied on streaming continuation
)

type hcStrategy uint8

const (
	strategyMID hcStrategy = iota
	strategyChain
	strategyOpt
)

type hcParams struct {
	strategy  hcStrategy
	searches  int // chain walk attempt budget
	targetLen int // optimal parser: good-enough match cutoff
}

// Level table. Levels 10-12 run the optimal parser; levels >= 9 enable the
// repetitive-pattern rescue during match search.
var hcLevels = [MaxLevelHC + 1]hcParams{
	2:  {strategyMID, 0, 0},
	3:  {strategyChain, 4, 16},
	4:  {strategyChain, 8, 16},
	5:  {strategyChain, 16, 16},
	6:  {strategyChain, 32, 16},
	7:  {strategyChain, 64, 16},
	8:  {strategyChain, 128, 16},
	9:  {strategyChain, 256, 16},
	10: {strategyOpt, 96, 64},
	11: {strategyOpt, 512, 128},
	12: {strategyOpt, 16384, 4096},
}

// clampLevelHC maps an arbitrary level onto the supported range: levels
// below 1 select the default (9), everything else clamps into [2, 12].
func clampLevelHC(level CompressionLevel) CompressionLevel {
	switch {
	case level < 1:
		return DefaultLevelHC
	case level < MinLevelHC:
		return MinLevelHC
	case level > MaxLevelHC:
		return MaxLevelHC
	}
	return level
}

func hashHC(u uint32) uint32 {
	return u * hasher >> (32 - hcHashLog)
}

// hcState is the high-compression match-finder context. Positions live in a
// single monotonically increasing index space: prefix[0] sits at index
// dictLimit and the external dictionary covers [lowLimit, dictLimit).
// Invariant: lowLimit <= dictLimit <= nextToUpdate.
type hcState struct {
	window

	hashTable  [hcTableSize]uint32
	chainTable [chainSize]uint16

	nextToUpdate uint32 // first index not yet in the tables

	level         CompressionLevel
	favorDecSpeed bool // carried for API parity; no strategy consults it yet
}

func newHCState(level CompressionLevel) *hcState {
	s := new(hcState)
	s.reset(level)
	return s
}

// reset clears the tables and restarts the index space.
func (s *hcState) reset(level CompressionLevel) {
	for i := range s.hashTable {
		s.hashTable[i] = 0
	}
	for i := range s.chainTable {
		s.chainTable[i] = 0
	}
	s.prefix = nil
	s.dict = nil
	s.dictLimit = hcStartIndex
	s.lowLimit = hcStartIndex
	s.nextToUpdate = hcStartIndex
	s.level = clampLevelHC(level)
}

// insert hashes every position in [nextToUpdate, upTo) into the tables.
// Chain insertion is lazy: strategies call this just before searching.
func (s *hcState) insert(upTo uint32) {
	for i := s.nextToUpdate; i < upTo; i++ {
		h := hashHC(binary.LittleEndian.Uint32(s.prefix[i-s.dictLimit:]))
		prev := s.hashTable[h]
		delta := uint32(MaxDistance)
		if prev != 0 && prev <= i {
			if d := i - prev; d < MaxDistance {
				delta = d
			}
		}
		s.chainTable[i&chainMask] = uint16(delta)
		s.hashTable[h] = i
	}
	if upTo > s.nextToUpdate {
		s.nextToUpdate = upTo
	}
}

// patternPeriod reports the repeat period (1 or 2) of a 4-byte pattern, or 0
// when the pattern is aperiodic.
func patternPeriod(p uint32) int {
	if p&0xFFFF == p>>16 {
		if p&0xFF == p>>8&0xFF {
			return 1
		}
		return 2
	}
	return 0
}

// findWiderMatch inserts the positions before ip and walks the hash chain
// of ip for the longest match beating longest. A match may slide backwards while preceding bytes also
// match, down to iLow on the current side and to the window (or dictionary)
// base on the match side. Forward extension stops at iHigh. With rescue set,
// short-period repetitions are matched directly at their period, salvaging
// runs the bounded chain walk misses.
//
// Returns the match length (or the incoming longest when nothing better was
// found), the possibly moved-back start on the current side, and the match
// index aligned with that start.
func (s *hcState) findWiderMatch(ip, iLow, iHigh uint32, longest, attempts int, rescue bool) (int, uint32, uint32) {
	s.insert(ip)

	ipOff := int(ip - s.dictLimit)
	hiOff := int(iHigh - s.dictLimit)
	lowB := int(iLow - s.dictLimit)
	pattern := binary.LittleEndian.Uint32(s.prefix[ipOff:])

	lowestMatch := s.lowLimit
	if ip-s.lowLimit > MaxDistance {
		lowestMatch = ip - MaxDistance
	}

	bestStart := ip
	bestIdx := uint32(0)

	matchIndex := s.hashTable[hashHC(pattern)]
	for attempts > 0 && matchIndex >= lowestMatch && matchIndex != 0 {
		attempts--

		if matchIndex >= s.dictLimit {
			// Candidate inside the prefix window.
			mOff := int(matchIndex - s.dictLimit)
			if binary.LittleEndian.Uint32(s.prefix[mOff:]) == pattern {
				fwd := MinMatch + matchLength(s.prefix, mOff+MinMatch, s.prefix, ipOff+MinMatch, hiOff)
				back := 0
				for ipOff+back > lowB && mOff+back > 0 &&
					s.prefix[ipOff+back-1] == s.prefix[mOff+back-1] {
					back--
				}
				if total := fwd - back; total > longest {
					longest = total
					bestStart = ip + uint32(int32(back))
					bestIdx = matchIndex + uint32(int32(back))
				}
			}
		} else {
			// Candidate inside the external dictionary; the compare may run
			// off the dictionary end into the start of the prefix.
			dOff := int(matchIndex - s.lowLimit)
			if s.u32At(matchIndex) == pattern {
				fwd := s.matchLenAt(matchIndex, ip, iHigh)
				back := 0
				for ipOff+back > lowB && dOff+back > 0 &&
					s.prefix[ipOff+back-1] == s.dict[dOff+back-1] {
					back--
				}
				if total := fwd - back; total > longest {
					longest = total
					bestStart = ip + uint32(int32(back))
					bestIdx = matchIndex + uint32(int32(back))
				}
			}
		}

		delta := uint32(s.chainTable[matchIndex&chainMask])
		if delta == 0 || delta > matchIndex {
			break
		}
		matchIndex -= delta
	}

	// Repetitive-pattern rescue: an exhausted chain on a run of a 1- or
	// 2-byte pattern still admits a match at the period itself.
	if rescue {
		if p := patternPeriod(pattern); p > 0 && ipOff >= p && ip-uint32(p) >= lowestMatch &&
			periodHolds(s.prefix, ipOff, p) {
			fwd := MinMatch + matchLength(s.prefix, ipOff+MinMatch-p, s.prefix, ipOff+MinMatch, hiOff)
			back := 0
			for ipOff+back > lowB && ipOff+back > p &&
				s.prefix[ipOff+back-1] == s.prefix[ipOff+back-1-p] {
				back--
			}
			if total := fwd - back; total > longest {
				longest = total
				bestStart = ip + uint32(int32(back))
				bestIdx = bestStart - uint32(p)
			}
		}
	}

	return longest, bestStart, bestIdx
}

// periodHolds reports whether the p bytes just before off continue the
// p-periodic pattern starting at off, i.e. an offset-p match is valid there.
func periodHolds(buf []byte, off, p int) bool {
	for n := 0; n < p; n++ {
		if buf[off+n-p] != buf[off+n] {
			return false
		}
	}
	return true
}

// compressHashChain is the LZ4HC strategy (levels 3-9): greedy parse over
// the hash chains, one sequence per committed match.
func (s *hcState) compressHashChain(dst []byte, blockStart int, params hcParams) (int, error) {
	srcLen := len(s.prefix) - blockStart
	base := s.dictLimit + uint32(blockStart)
	end := base + uint32(srcLen)

	if srcLen < mfLimit+1 {
		return emitLastLiterals(dst, 0, s.prefix[blockStart:])
	}

	mfl := end - mfLimit
	matchLimitIdx := end - lastLiterals
	rescue := s.level >= 9

	anchor := base
	ip := base
	di := 0

	for ip <= mfl {
		mLen, start, mIdx := s.findWiderMatch(ip, anchor, matchLimitIdx, MinMatch-1, params.searches, rescue)
		if mLen < MinMatch {
			ip++
			continue
		}

		offset := int(start - mIdx)
		lit := s.prefix[anchor-s.dictLimit : start-s.dictLimit]
		var err error
		di, err = emitSequence(dst, di, lit, mLen, offset)
		if err != nil {
			return 0, err
		}

		ip = start + uint32(mLen)
		anchor = ip
	}

	return emitLastLiterals(dst, di, s.prefix[anchor-s.dictLimit:])
}

// CompressHC compresses src into dst with the high-compression codec.
// Levels below 1 select the default level 9; other values clamp to [2, 12].
// Level 2 runs LZ4MID, levels 3-9 the hash-chain search, levels 10-12 the
// optimal parser.
func CompressHC(src, dst []byte, level CompressionLevel) (int, error) {
	if len(src) == 0 {
		return 0, nil
	}
	if len(src) > MaxInputSize {
		return 0, ErrInputTooLarge
	}

	s := newHCState(level)
	s.prefix = src
	return s.compressBlock(dst, 0)
}

// compressBlock dispatches the strategy for the block starting at
// blockStart within the current prefix window.
func (s *hcState) compressBlock(dst []byte, blockStart int) (int, error) {
	params := hcLevels[s.level]
	switch params.strategy {
	case strategyMID:
		return s.compressMID(dst, blockStart)
	case strategyOpt:
		return s.compressOptimal(dst, blockStart, params)
	default:
		return s.compressHashChain(dst, blockStart, params)
	}
}
