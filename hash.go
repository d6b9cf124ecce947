package drbg

// Hash_df from SP800-90A 10.3.1: derives exactly nbits bits from the
// concatenation of the seed parts.  Returns ceil(nbits/8) bytes; if nbits
// is not a multiple of 8, the result is right-aligned.
func hashDF(h HashFunc, nbits int, seed ...[]byte) []byte {
	outLen := (nbits + 7) / 8
	ret := make([]byte, 0, outLen+h.Size())
	hh := h.New()
	var hdr [5]byte // counter || no_of_bits_to_return
	encodeUint64Into(uint64(nbits), hdr[1:])
	for counter := byte(1); len(ret) < outLen; counter++ {
		hdr[0] = counter
		hh.Reset()
		hh.Write(hdr[:])
		for _, part := range seed {
			hh.Write(part)
		}
		ret = hh.Sum(ret)
	}
	ret = ret[:outLen]
	if nbits%8 != 0 {
		rightShiftBits(ret, uint(8-nbits%8))
	}
	return ret
}

// Hashgen from SP800-90A 10.1.1.4: fills out with H(v) || H(v+1) || ...
func hashgen(h HashFunc, v, out []byte) {
	data := make([]byte, len(v))
	copy(data, v)
	hh := h.New()
	buf := make([]byte, 0, h.Size())
	for off := 0; off < len(out); {
		hh.Reset()
		hh.Write(data)
		buf = hh.Sum(buf[:0])
		off += copy(out[off:], buf)
		incrementBE(data)
	}
}

// Computes H(prefix || parts...).
func hashPrefixed(h HashFunc, prefix byte, parts ...[]byte) []byte {
	hh := h.New()
	hh.Write([]byte{prefix})
	for _, part := range parts {
		hh.Write(part)
	}
	return hh.Sum(nil)
}
