package drbg

import (
	"encoding/hex"
	"testing"
)

func testExpandKey(key []byte, expect string, t *testing.T) {
	val := hex.EncodeToString(expandKey(key))
	if val != expect {
		t.Errorf("expandKey(%x) is %s instead of %s", key, val, expect)
	}
}

func TestExpandKey(t *testing.T) {
	testExpandKey(seq(21, 0x10), "1008454331a1542c168c0723a1d9703b1f0ec80413108c49", t)
	testExpandKey(mustDecodeHex("ffffffffffffffffffffffffffffffffffffffffff"),
		"fefefefefefefefefefefefefefefefefefefefefefefefe", t)
}

func TestExpandKeyParity(t *testing.T) {
	key := seq(21, 0xa3)
	for _, b := range expandKey(key) {
		ones := 0
		for i := uint(0); i < 8; i++ {
			ones += int(b>>i) & 1
		}
		if ones%2 != 1 {
			t.Fatalf("byte %02x does not have odd parity", b)
		}
	}
}
