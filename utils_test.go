package drbg

import (
	"bytes"
	"encoding/hex"
	"math/big"
	"math/rand"
	"testing"
)

// Returns start, start+1, ..., start+n-1 (mod 256).
func seq(n int, start byte) []byte {
	ret := make([]byte, n)
	for i := 0; i < n; i++ {
		ret[i] = start + byte(i)
	}
	return ret
}

func TestIncrementBE(t *testing.T) {
	buf := []byte{0x00, 0xff, 0xff}
	incrementBE(buf)
	if hex.EncodeToString(buf) != "010000" {
		t.Fatalf("incrementBE(00ffff) = %x", buf)
	}

	buf = []byte{0xff, 0xff}
	incrementBE(buf)
	if hex.EncodeToString(buf) != "0000" {
		t.Fatalf("incrementBE(ffff) = %x", buf)
	}

	// 2^16 increments of a 16-bit buffer wrap around.
	buf = make([]byte, 2)
	for i := 0; i < 1<<16; i++ {
		incrementBE(buf)
		if i == 0x1233 && hex.EncodeToString(buf) != "1234" {
			t.Fatalf("incrementBE went astray: %x", buf)
		}
	}
	if !bytes.Equal(buf, []byte{0, 0}) {
		t.Fatalf("incrementBE did not wrap around: %x", buf)
	}
}

func TestAddBE(t *testing.T) {
	rng := rand.New(rand.NewSource(37))
	for i := 0; i < 1000; i++ {
		longer := make([]byte, 1+rng.Intn(120))
		shorter := make([]byte, rng.Intn(len(longer)+1))
		rng.Read(longer)
		rng.Read(shorter)
		if i%10 == 0 {
			// force long carry chains
			for j := range longer {
				longer[j] = 0xff
			}
		}

		mod := new(big.Int).Lsh(big.NewInt(1), uint(8*len(longer)))
		expect := new(big.Int).SetBytes(longer)
		expect.Add(expect, new(big.Int).SetBytes(shorter))
		expect.Mod(expect, mod)

		addBE(longer, shorter)
		got := new(big.Int).SetBytes(longer)
		if got.Cmp(expect) != 0 {
			t.Fatalf("addBE: got %x instead of %x", got, expect)
		}
	}
}

func TestAddBEPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("addBE should panic when shorter is longer")
		}
	}()
	addBE(make([]byte, 2), make([]byte, 3))
}

func TestXorInto(t *testing.T) {
	a := seq(20, 0)
	b := seq(30, 0x80)
	dst := make([]byte, 20)
	xorInto(dst, a, b, 5)
	for i := 0; i < 20; i++ {
		if dst[i] != a[i]^b[i+5] {
			t.Fatalf("xorInto: byte %d is %x", i, dst[i])
		}
	}

	// in place
	xorInto(a, a, b, 10)
	for i := 0; i < 20; i++ {
		if a[i] != byte(i)^b[i+10] {
			t.Fatalf("xorInto in place: byte %d is %x", i, a[i])
		}
	}

	defer func() {
		if recover() == nil {
			t.Fatalf("xorInto should panic on short operands")
		}
	}()
	xorInto(dst, a, b, 11)
}

func TestShiftBits(t *testing.T) {
	buf := []byte{0x81, 0x80, 0x01}
	rightShiftBits(buf, 1)
	if hex.EncodeToString(buf) != "40c000" {
		t.Fatalf("rightShiftBits = %x", buf)
	}
	leftShiftBits(buf, 1)
	if hex.EncodeToString(buf) != "818000" {
		t.Fatalf("leftShiftBits = %x", buf)
	}

	rng := rand.New(rand.NewSource(1))
	for k := uint(1); k < 8; k++ {
		buf := make([]byte, 17)
		rng.Read(buf)
		buf[0] &= 0xff >> k
		orig := append([]byte{}, buf...)
		leftShiftBits(buf, k)
		x := new(big.Int).Lsh(new(big.Int).SetBytes(orig), k)
		if x.Cmp(new(big.Int).SetBytes(buf)) != 0 {
			t.Fatalf("leftShiftBits(%d) mismatch", k)
		}
		rightShiftBits(buf, k)
		if !bytes.Equal(buf, orig) {
			t.Fatalf("rightShiftBits(%d) does not undo leftShiftBits", k)
		}
	}
}

func TestEncodeUint64(t *testing.T) {
	if hex.EncodeToString(encodeUint64(0x0102030405, 4)) != "02030405" {
		t.Fatalf("encodeUint64 should truncate to the low bytes")
	}
	if hex.EncodeToString(encodeUint64(0x0102, 16)) !=
		"00000000000000000000000000000102" {
		t.Fatalf("encodeUint64 should pad with zeroes")
	}
	if decodeUint64([]byte{1, 2, 3}) != 0x010203 {
		t.Fatalf("decodeUint64")
	}
}

func TestConcat(t *testing.T) {
	ret := concat([]byte{1}, nil, []byte{}, []byte{2, 3})
	if !bytes.Equal(ret, []byte{1, 2, 3}) {
		t.Fatalf("concat = %x", ret)
	}
}
