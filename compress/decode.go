package compress

// DecompressSafe decompresses the block in src into dst and returns the
// number of bytes written. The whole of src must be consumed; dst must be
// large enough for the full decompressed size.
func DecompressSafe(src, dst []byte) (int, error) {
	return decodeBlock(dst, 0, src, nil, len(dst), false)
}

// DecompressSafePartial decompresses at most targetLen bytes of the block in
// src into dst, stopping cleanly once the target is reached. It never writes
// past targetLen and tolerates input describing more data than requested.
func DecompressSafePartial(src, dst []byte, targetLen int) (int, error) {
	if targetLen < 0 {
		targetLen = 0
	}
	if targetLen > len(dst) {
		targetLen = len(dst)
	}
	return decodeBlock(dst, 0, src, nil, targetLen, true)
}

// DecompressSafeUsingDict decompresses a block whose matches may reach back
// into dict, a previously decoded region that is not contiguous with dst.
func DecompressSafeUsingDict(src, dst, dict []byte) (int, error) {
	return decodeBlock(dst, 0, src, dict, len(dst), false)
}

// decodeBlock is the core sequence decoder. Output is written into dst
// starting at index di; dst[:di] is the prefix window (prior contiguous
// output) and dict is the external dictionary logically preceding it.
// targetLen bounds the bytes produced beyond di. In partial mode the decoder
// stops once targetLen bytes are out, even mid-sequence; otherwise running
// out of room is an error and the entire input must be consumed.
//
// Returns the number of bytes written beyond di.
func decodeBlock(dst []byte, di int, src []byte, dict []byte, targetLen int, partial bool) (int, error) {
	if len(src) == 0 {
		return 0, nil
	}

	base := di
	limit := di + targetLen
	if limit > len(dst) {
		return 0, ErrOutputTooSmall
	}
	si := 0

	for {
		if si >= len(src) {
			return 0, ErrCorruptedData // truncated: no token
		}
		token := src[si]
		si++

		// Literals.
		litLen := int(token >> 4)
		if litLen == 0xF {
			for {
				if si >= len(src) {
					return 0, ErrCorruptedData
				}
				b := src[si]
				si++
				litLen += int(b)
				if b != 255 {
					break
				}
			}
		}
		if litLen > 0 {
			if si+litLen > len(src) {
				return 0, ErrCorruptedData
			}
			if di+litLen > limit {
				if partial {
					di += copy(dst[di:limit], src[si:si+litLen])
					return di - base, nil
				}
				return 0, ErrOutputTooSmall
			}
			di += copy(dst[di:], src[si:si+litLen])
			si += litLen
		}

		// The last sequence carries no match.
		if si >= len(src) {
			return di - base, nil
		}
		if partial && di >= limit {
			return di - base, nil
		}

		// Offset.
		if si+2 > len(src) {
			return 0, ErrCorruptedData
		}
		offset := int(src[si]) | int(src[si+1])<<8
		si += 2
		if offset == 0 {
			return 0, ErrCorruptedData
		}

		// Match length.
		mLen := int(token & 0xF)
		if mLen == 0xF {
			for {
				if si >= len(src) {
					return 0, ErrCorruptedData
				}
				b := src[si]
				si++
				mLen += int(b)
				if b != 255 {
					break
				}
			}
		}
		mLen += MinMatch

		if di+mLen > limit {
			if !partial {
				return 0, ErrOutputTooSmall
			}
			mLen = limit - di
		}

		mp := di - offset
		if mp >= 0 {
			// Match inside the prefix (dst[:di]).
			if offset >= mLen {
				di += copy(dst[di:di+mLen], dst[mp:mp+mLen])
			} else {
				// Overlapping copy: byte-wise propagation implements RLE
				// for any stride.
				for i := 0; i < mLen; i++ {
					dst[di+i] = dst[mp+i]
				}
				di += mLen
			}
		} else {
			// Match starts in the external dictionary.
			if -mp > len(dict) {
				return 0, ErrCorruptedData
			}
			ds := len(dict) + mp
			dictPart := -mp
			if dictPart > mLen {
				dictPart = mLen
			}
			di += copy(dst[di:], dict[ds:ds+dictPart])
			rest := mLen - dictPart
			if rest > 0 {
				// The match continues at the start of the prefix; it may
				// run into the write cursor, so propagate byte-wise.
				for i := 0; i < rest; i++ {
					dst[di+i] = dst[i]
				}
				di += rest
			}
		}

		if partial && di >= limit {
			return di - base, nil
		}
	}
}
