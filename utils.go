package drbg

import (
	"encoding/binary"

	"github.com/templexxx/xor"
)

// Encodes the given uint64 into the buffer out in Big Endian
func encodeUint64Into(x uint64, out []byte) {
	if len(out)%8 == 0 {
		binary.BigEndian.PutUint64(out[len(out)-8:], x)
		for i := 0; i < len(out)-8; i += 8 {
			binary.BigEndian.PutUint64(out[i:i+8], 0)
		}
	} else {
		for i := len(out) - 1; i >= 0; i-- {
			out[i] = byte(x)
			x >>= 8
		}
	}
}

// Encodes the given uint64 as [outLen]byte in Big Endian.
func encodeUint64(x uint64, outLen int) []byte {
	ret := make([]byte, outLen)
	encodeUint64Into(x, ret)
	return ret
}

// Interpret []byte as Big Endian int.
func decodeUint64(in []byte) (ret uint64) {
	for i := 0; i < len(in); i++ {
		ret |= uint64(in[i]) << uint64(8*(len(in)-1-i))
	}
	return
}

// Adds one to buf interpreted as a Big Endian integer.  Wraps around
// silently on overflow.
func incrementBE(buf []byte) {
	for i := len(buf) - 1; i >= 0; i-- {
		buf[i]++
		if buf[i] != 0 {
			return
		}
	}
}

// Sets dst[i] = a[i] ^ b[i+bOff] for every i in dst.
func xorInto(dst, a, b []byte, bOff int) {
	n := len(dst)
	if len(a) < n || len(b)-bOff < n {
		panic("xorInto: operand too short")
	}
	if n == 0 {
		return
	}
	xor.BytesSameLen(dst, a[:n], b[bOff:bOff+n])
}

// Adds shorter into longer, both interpreted as Big Endian integers,
// modulo 2^(8*len(longer)).
func addBE(longer, shorter []byte) {
	if len(shorter) > len(longer) {
		panic("addBE: shorter is longer than longer")
	}
	var carry uint16
	off := len(longer) - len(shorter)
	for i := len(shorter) - 1; i >= 0; i-- {
		carry += uint16(longer[off+i]) + uint16(shorter[i])
		longer[off+i] = byte(carry)
		carry >>= 8
	}
	for i := off - 1; i >= 0 && carry != 0; i-- {
		carry += uint16(longer[i])
		longer[i] = byte(carry)
		carry >>= 8
	}
}

// Shifts buf to the right by 0 < k < 8 bits.
func rightShiftBits(buf []byte, k uint) {
	if k == 0 || k >= 8 {
		panic("rightShiftBits: shift out of range")
	}
	var carry byte
	for i := 0; i < len(buf); i++ {
		b := buf[i]
		buf[i] = (b >> k) | carry
		carry = b << (8 - k)
	}
}

// Shifts buf to the left by 0 < k < 8 bits.  The top k bits are lost.
func leftShiftBits(buf []byte, k uint) {
	if k == 0 || k >= 8 {
		panic("leftShiftBits: shift out of range")
	}
	var carry byte
	for i := len(buf) - 1; i >= 0; i-- {
		b := buf[i]
		buf[i] = (b << k) | carry
		carry = b >> (8 - k)
	}
}

// Returns the concatenation of the given byte slices.
func concat(parts ...[]byte) []byte {
	n := 0
	for _, part := range parts {
		n += len(part)
	}
	ret := make([]byte, 0, n)
	for _, part := range parts {
		ret = append(ret, part...)
	}
	return ret
}
