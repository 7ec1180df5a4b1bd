package compress

// StreamDecoder decodes a linked sequence of blocks, letting matches reach
// back into previously decoded data. After each call it remembers the last
// decoded region: when the next destination directly follows it in memory
// the window stays contiguous, otherwise the prior region serves as an
// external dictionary for exactly one call and is then dropped.
type StreamDecoder struct {
	prefix  []byte // last decoded region, inside the caller's buffer
	extDict []byte // pending external dictionary, consumed by one call
}

// NewStreamDecoder returns a streaming decoder with no history.
func NewStreamDecoder() *StreamDecoder {
	return new(StreamDecoder)
}

// SetStreamDecode resets the decoder, optionally installing dict as the
// history for the next DecompressContinue call. The dictionary is borrowed
// and consumed once.
func (d *StreamDecoder) SetStreamDecode(dict []byte) {
	d.prefix = nil
	d.extDict = dict
}

// DecompressContinue decodes the next block of the stream into dst and
// returns the number of bytes written. dst must remain valid and unchanged
// until the following call, which may read it as history.
func (d *StreamDecoder) DecompressContinue(src, dst []byte) (int, error) {
	// Contiguous continuation: dst starts exactly where the last decoded
	// region ended, so the window simply grows.
	if len(d.prefix) > 0 && len(dst) > 0 {
		p := d.prefix
		if cap(p) >= len(p)+len(dst) {
			win := p[: len(p)+len(dst) : cap(p)]
			if &win[len(p)] == &dst[0] {
				n, err := decodeBlock(win, len(p), src, d.extDict, len(dst), false)
				if err != nil {
					return 0, err
				}
				d.extDict = nil
				d.prefix = win[:len(p)+n]
				return n, nil
			}
		}
	}

	// Discontiguous: the prior region (or an installed dictionary) backs
	// this one call as the external dictionary.
	dict := d.extDict
	if dict == nil {
		dict = d.prefix
	}
	n, err := decodeBlock(dst, 0, src, dict, len(dst), false)
	if err != nil {
		return 0, err
	}
	d.extDict = nil
	d.prefix = dst[:n]
	return n, nil
}
