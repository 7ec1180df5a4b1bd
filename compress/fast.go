package compress

import "encoding/binary"

// CompressFast compresses src into dst with the single-table fast strategy.
// acceleration trades ratio for speed and is clamped to [1, 65537]; higher
// values widen the probe stride over incompressible regions.
//
// The number of bytes written to dst is returned. An empty src writes
// nothing and returns 0.
func CompressFast(src, dst []byte, acceleration int) (int, error) {
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

	var table [hashTableSize]uint32
	return compressFast(&table, src, dst, acceleration)
}

// CompressDefault is CompressFast with the default acceleration of 1.
func CompressDefault(src, dst []byte) (int, error) {
	return CompressFast(src, dst, 1)
}

// compressFast runs the fast scan over a table cleared by the caller. Table
// entries are positions in src; 0 doubles as "empty", which is safe because
// the scan starts at position 1.
func compressFast(table *[hashTableSize]uint32, src, dst []byte, acceleration int) (int, error) {
	srcLen := len(src)
	if srcLen < mfLimit+1 {
		// Too short for any match: a single literals-only sequence.
		return emitLastLiterals(dst, 0, src)
	}

	mfLimitPos := srcLen - mfLimit
	matchLimit := srcLen - lastLiterals
	anchor := 0
	ip := 1
	di := 0

	for {
		// Probe for a 4-byte match with an adaptive stride: the stride
		// stays at the acceleration value for the first ~64 probes and
		// grows afterwards, skipping faster over incompressible data.
		step := 1
		searchMatchNb := acceleration << skipTrigger
		match := 0
		for {
			if ip > mfLimitPos {
				return emitLastLiterals(dst, di, src[anchor:])
			}
			h := hashFast(binary.LittleEndian.Uint32(src[ip:]))
			match = int(table[h])
			table[h] = uint32(ip)
			if match > 0 && match < ip && ip-match <= MaxDistance &&
				binary.LittleEndian.Uint32(src[match:]) == binary.LittleEndian.Uint32(src[ip:]) {
				break
			}
			ip += step
			step = searchMatchNb >> skipTrigger
			searchMatchNb++
		}

		// Measure the match beyond the verified 4 bytes, stopping so the
		// last 5 bytes of the block stay literal.
		mLen := MinMatch + matchLength(src, match+MinMatch, src, ip+MinMatch, matchLimit)
		offset := ip - match

		var err error
		di, err = emitSequence(dst, di, src[anchor:ip], mLen, offset)
		if err != nil {
			return 0, err
		}

		ip += mLen
		anchor = ip
		if ip > mfLimitPos {
			return emitLastLiterals(dst, di, src[anchor:])
		}
	}
}

// CompressDestSize compresses the largest prefix of src that fits into dst.
// It returns the number of bytes written and the number of source bytes
// consumed. The prefix is located by binary search over full compression
// attempts, so the result is itself a valid block.
func CompressDestSize(src, dst []byte) (written, consumed int, err error) {
	if len(src) == 0 {
		return 0, 0, nil
	}
	if len(src) > MaxInputSize {
		return 0, 0, ErrInputTooLarge
	}
	if len(dst) == 0 {
		return 0, 0, ErrOutputTooSmall
	}

	var table [hashTableSize]uint32

	// Common case: everything fits.
	if CompressBound(len(src)) <= len(dst) {
		n, err := compressFast(&table, src, dst, 1)
		return n, len(src), err
	}

	lo, hi := 0, len(src)
	for lo < hi {
		mid := (lo + hi + 1) / 2
		for i := range table {
			table[i] = 0
		}
		n, err := compressFast(&table, src[:mid], dst, 1)
		if err == nil {
			written, consumed = n, mid
			lo = mid
		} else if err == ErrOutputTooSmall {
			hi = mid - 1
		} else {
			return 0, 0, err
		}
	}
	if consumed == 0 {
		// Not even a one-byte prefix fits.
		return 0, 0, ErrOutputTooSmall
	}
	// Attempts after the best fit may have overwritten dst; redo it.
	for i := range table {
		table[i] = 0
	}
	written, err = compressFast(&table, src[:consumed], dst, 1)
	if err != nil {
		return 0, 0, err
	}
	return written, consumed, nil
}
