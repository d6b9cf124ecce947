package drbg

import (
	"bytes"
	"io"
	"sync"
	"testing"
)

func TestRandomRead(t *testing.T) {
	r, err := NewRandomFromName("HMAC-SHA-256", NewSystemEntropySource(256),
		[]byte("test"), false)
	if err != nil {
		t.Fatalf("NewRandomFromName: %v", err)
	}
	var _ io.Reader = r

	buf := make([]byte, 3*randomChunkSize+17)
	n, err2 := r.Read(buf)
	if err2 != nil || n != len(buf) {
		t.Fatalf("Read: %d %v", n, err2)
	}
	if bytes.Equal(buf[:randomChunkSize], buf[randomChunkSize:2*randomChunkSize]) {
		t.Fatalf("Read returned repeating chunks")
	}

	if _, err = NewRandomFromName("HMAC-ROT13", NewSystemEntropySource(256),
		nil, false); err == nil {
		t.Fatalf("NewRandomFromName should fail on unknown names")
	}
}

func TestRandomMatchesDRBG(t *testing.T) {
	// Random splits requests into chunks of randomChunkSize.
	d1, _ := NewHash(SHA256, 256, newFixedEntropySource(seq(32, 0)), nil, nil)
	d2, _ := NewHash(SHA256, 256, newFixedEntropySource(seq(32, 0)), nil, nil)

	buf := make([]byte, randomChunkSize+10)
	if _, err := NewRandom(d1, false).Read(buf); err != nil {
		t.Fatalf("Read: %v", err)
	}
	first := runSteps("first", d2, []step{gen(randomChunkSize, nil)}, t)
	second := runSteps("second", d2, []step{gen(10, nil)}, t)
	if !bytes.Equal(buf, append(first, second...)) {
		t.Fatalf("Random does not match the underlying DRBG")
	}
}

func TestRandomAutoReseed(t *testing.T) {
	es := newFixedEntropySource(seq(32, 0), seq(32, 0x80))
	d, err := NewHMAC(SHA256, 256, es, nil, nil)
	if err != nil {
		t.Fatalf("NewHMAC: %v", err)
	}
	d.reseedCounter = hmacReseedMax + 1

	r := NewRandom(d, false)
	buf := make([]byte, 32)
	if _, err := r.Read(buf); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if d.reseedCounter != 2 {
		t.Fatalf("Random did not reseed the DRBG")
	}

	// The entropy source is exhausted now.
	d.reseedCounter = hmacReseedMax + 1
	if _, err := r.Read(buf); err == nil {
		t.Fatalf("Read should fail when reseeding fails")
	}
}

func TestRandomPredictionResistance(t *testing.T) {
	es := newFixedEntropySource(seq(32, 0), seq(32, 0x20), seq(32, 0x40))
	d, _ := NewHMAC(SHA256, 256, es, nil, nil)
	r := NewRandom(d, true)
	buf := make([]byte, 10)
	for i := 0; i < 2; i++ {
		if err := r.Generate(buf, []byte("ai")); err != nil {
			t.Fatalf("Generate %d: %v", i, err)
		}
	}
	if err := r.Generate(buf, nil); err == nil {
		t.Fatalf("Generate should fail once the entropy source is exhausted")
	}
}

func TestRandomConcurrent(t *testing.T) {
	r, err := NewRandomFromName("CTR-AES-256", NewSystemEntropySource(256),
		nil, false)
	if err != nil {
		t.Fatalf("NewRandomFromName: %v", err)
	}

	var wg sync.WaitGroup
	bufs := make([][]byte, 8)
	for i := range bufs {
		bufs[i] = make([]byte, 1000)
		wg.Add(1)
		go func(buf []byte) {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				if _, err := r.Read(buf); err != nil {
					t.Errorf("Read: %v", err)
					return
				}
			}
		}(bufs[i])
	}
	wg.Wait()

	for i := 1; i < len(bufs); i++ {
		if bytes.Equal(bufs[0], bufs[i]) {
			t.Fatalf("concurrent readers got the same output")
		}
	}
	if err = r.Reseed(nil); err != nil {
		t.Fatalf("Reseed: %v", err)
	}
}
