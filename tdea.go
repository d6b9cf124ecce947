package drbg

// TDEA keys are kept as three 56-bit segments in the working state.
// expandKey turns such a 21-byte key into the 24-byte key with odd-parity
// bytes that crypto/des expects.
func expandKey(key []byte) []byte {
	if len(key) != 21 {
		panic("expandKey: TDEA key must be 21 bytes")
	}
	ret := make([]byte, 24)
	for i := 0; i < 3; i++ {
		padKey(key[7*i:7*i+7], ret[8*i:8*i+8])
	}
	return ret
}

// Spreads the 56 bits of in over the top seven bits of each byte of out
// and sets the low bit of each byte for odd parity.
func padKey(in, out []byte) {
	out[0] = in[0] & 0xfe
	out[1] = in[0]<<7 | (in[1]&0xfc)>>1
	out[2] = in[1]<<6 | (in[2]&0xf8)>>2
	out[3] = in[2]<<5 | (in[3]&0xf0)>>3
	out[4] = in[3]<<4 | (in[4]&0xe0)>>4
	out[5] = in[4]<<3 | (in[5]&0xc0)>>5
	out[6] = in[5]<<2 | (in[6]&0x80)>>6
	out[7] = in[6] << 1
	for i := 0; i < 8; i++ {
		b := out[i]
		p := (b>>1 ^ b>>2 ^ b>>3 ^ b>>4 ^ b>>5 ^ b>>6 ^ b>>7 ^ 1) & 1
		out[i] = b&0xfe | p
	}
}
