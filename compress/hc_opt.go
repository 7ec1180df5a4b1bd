package compress

// LZ4OPT (levels 10-12): forward dynamic programming over a bounded window
// of positions. Each trellis entry prices the cheapest known encoding from
// the anchor to that position; matches found by the HC chain search relax
// prices, and the cheapest path is rewritten in place and emitted through
// the shared sequence encoder.

// optNum bounds the trellis; three extra entries pad the tail so literal
// lookahead never reads an unset slot.
const optNum = 4096

type optEntry struct {
	price  int32
	off    int32
	mlen   int32 // 1 = literal step
	litlen int32 // trailing literal run length, pre-anchor literals included
}

// litPrice is the cost in output bytes of a literal run of length l,
// excluding the token it shares with the following match.
func litPrice(l int) int {
	p := l
	if l >= 15 {
		p += 1 + (l-15)/255
	}
	return p
}

// seqPrice is the full cost of one sequence: token, literal run, offset and
// match length extension.
func seqPrice(litlen, mlen int) int {
	p := 3 + litPrice(litlen)
	if mlen >= 19 {
		p += 1 + (mlen-19)/255
	}
	return p
}

// literalStep extends e's trailing literal run by one byte.
func literalStep(e optEntry) optEntry {
	if e.mlen == 1 {
		run := int(e.litlen)
		return optEntry{
			price:  e.price - int32(litPrice(run)) + int32(litPrice(run+1)),
			mlen:   1,
			litlen: int32(run + 1),
		}
	}
	return optEntry{
		price:  e.price + int32(litPrice(1)),
		mlen:   1,
		litlen: 1,
	}
}

// compressOptimal is the levels 10-12 strategy.
func (s *hcState) compressOptimal(dst []byte, blockStart int, params hcParams) (int, error) {
	srcLen := len(s.prefix) - blockStart
	if srcLen < mfLimit+1 {
		return emitLastLiterals(dst, 0, s.prefix[blockStart:])
	}

	base := s.dictLimit + uint32(blockStart)
	end := base + uint32(srcLen)
	mfl := end - mfLimit
	matchLimitIdx := end - lastLiterals

	nbSearches := params.searches
	sufficientLen := params.targetLen
	if sufficientLen >= optNum {
		sufficientLen = optNum - 1
	}

	var opt [optNum + 3]optEntry

	anchor := base
	ip := base
	di := 0
	var err error

	for ip <= mfl {
		mLen, _, mIdx := s.findWiderMatch(ip, ip, matchLimitIdx, MinMatch-1, nbSearches, true)
		if mLen < MinMatch {
			ip++
			continue
		}
		firstOff := int(ip - mIdx)

		if mLen > sufficientLen {
			// Long match: not worth pricing alternatives.
			lit := s.prefix[anchor-s.dictLimit : ip-s.dictLimit]
			di, err = emitSequence(dst, di, lit, mLen, firstOff)
			if err != nil {
				return 0, err
			}
			ip += uint32(mLen)
			anchor = ip
			continue
		}

		llen := int(ip - anchor)

		// Seed the trellis with pure literals and the first match.
		for rPos := 0; rPos < MinMatch; rPos++ {
			opt[rPos] = optEntry{
				price:  int32(litPrice(llen + rPos)),
				mlen:   1,
				litlen: int32(llen + rPos),
			}
		}
		for ml := MinMatch; ml <= mLen; ml++ {
			opt[ml] = optEntry{
				price:  int32(seqPrice(llen, ml)),
				off:    int32(firstOff),
				mlen:   int32(ml),
				litlen: int32(llen),
			}
		}
		lastMatchPos := mLen
		for addLit := 1; addLit <= 3; addLit++ {
			opt[lastMatchPos+addLit] = literalStep(opt[lastMatchPos+addLit-1])
		}

		bestML := 0
		bestOff := 0
		endCur := 0
		immediate := false

		for cur := 1; cur < lastMatchPos; cur++ {
			if ip+uint32(cur) > mfl {
				break
			}
			// Keep the literal path dense so every backtraced entry is real.
			if le := literalStep(opt[cur-1]); le.price < opt[cur].price {
				opt[cur] = le
			}
			// No improvement possible past a position already priced lower.
			if opt[cur+1].price <= opt[cur].price {
				continue
			}

			curIdx := ip + uint32(cur)
			newLen, _, newIdx := s.findWiderMatch(curIdx, curIdx, matchLimitIdx, MinMatch-1, nbSearches, true)
			if newLen < MinMatch {
				continue
			}
			newOff := int(curIdx - newIdx)

			if newLen > sufficientLen || cur+newLen >= optNum {
				// Too long for the trellis: commit the path up to cur and
				// append this match.
				bestML, bestOff = newLen, newOff
				endCur = cur
				lastMatchPos = cur + 1
				immediate = true
				break
			}

			// Relax all lengths of the new match.
			ll := 0
			if opt[cur].mlen == 1 {
				ll = int(opt[cur].litlen)
			}
			runStartPrice := opt[cur].price - int32(litPrice(ll))
			for ml := MinMatch; ml <= newLen; ml++ {
				pos := cur + ml
				price := runStartPrice + int32(seqPrice(ll, ml))
				if pos > lastMatchPos || price < opt[pos].price {
					opt[pos] = optEntry{
						price:  price,
						off:    int32(newOff),
						mlen:   int32(ml),
						litlen: int32(ll),
					}
				}
			}
			if cur+newLen > lastMatchPos {
				lastMatchPos = cur + newLen
				for addLit := 1; addLit <= 3; addLit++ {
					opt[lastMatchPos+addLit] = literalStep(opt[lastMatchPos+addLit-1])
				}
			}
		}

		if !immediate {
			bestML = int(opt[lastMatchPos].mlen)
			bestOff = int(opt[lastMatchPos].off)
			endCur = lastMatchPos - bestML
		}

		di, ip, anchor, err = s.emitTrellis(dst, di, opt[:], endCur, bestML, bestOff, lastMatchPos, ip, anchor)
		if err != nil {
			return 0, err
		}
	}

	return emitLastLiterals(dst, di, s.prefix[anchor-s.dictLimit:])
}

// emitTrellis rewrites the chosen path so each entry sits at its step's
// start position, then walks it forward emitting sequences. endCur is the
// start of the final step (bestML/bestOff); lastMatchPos bounds the walk.
func (s *hcState) emitTrellis(dst []byte, di int, opt []optEntry, endCur, bestML, bestOff, lastMatchPos int, ip, anchor uint32) (int, uint32, uint32, error) {
	pos := endCur
	selML, selOff := bestML, bestOff
	for {
		nextML := int(opt[pos].mlen)
		nextOff := int(opt[pos].off)
		opt[pos].mlen = int32(selML)
		opt[pos].off = int32(selOff)
		selML, selOff = nextML, nextOff
		if nextML > pos {
			break
		}
		pos -= nextML
	}

	rPos := 0
	for rPos < lastMatchPos {
		ml := int(opt[rPos].mlen)
		off := int(opt[rPos].off)
		if ml == 1 {
			ip++
			rPos++
			continue
		}
		rPos += ml
		lit := s.prefix[anchor-s.dictLimit : ip-s.dictLimit]
		var err error
		di, err = emitSequence(dst, di, lit, ml, off)
		if err != nil {
			return 0, 0, 0, err
		}
		ip += uint32(ml)
		anchor = ip
	}
	return di, ip, anchor, nil
}
