package drbg

import (
	"sync"
)

// Largest request Random passes to Generate in one go.  It fits the
// per-request limit of every mechanism.
const randomChunkSize = 512

// A goroutine-safe io.Reader on top of a DRBG.  Reseeds the DRBG when it
// signals that it needs to.
type Random struct {
	mux                 sync.Mutex
	d                   DRBG
	predictionResistant bool
}

// Returns a Random reading from d.  If predictionResistant is set, every
// request reseeds d first.
func NewRandom(d DRBG, predictionResistant bool) *Random {
	return &Random{d: d, predictionResistant: predictionResistant}
}

// Creates a named DRBG seeded from es wrapped in a Random.
func NewRandomFromName(name string, es EntropySource, pers []byte,
	predictionResistant bool) (*Random, Error) {
	d, err := NewFromName(name, es, pers, nil)
	if err != nil {
		return nil, err
	}
	return NewRandom(d, predictionResistant), nil
}

// Fills buf with random bytes.
func (r *Random) Read(buf []byte) (int, error) {
	if err := r.Generate(buf, nil); err != nil {
		return 0, err
	}
	return len(buf), nil
}

// Fills buf with random bytes mixing in the given additional input.
func (r *Random) Generate(buf, additionalInput []byte) Error {
	r.mux.Lock()
	defer r.mux.Unlock()

	for off := 0; off < len(buf); {
		end := off + randomChunkSize
		if end > len(buf) {
			end = len(buf)
		}
		n, err := r.d.Generate(buf[off:end], additionalInput,
			r.predictionResistant)
		if err != nil {
			return err
		}
		if n == -1 {
			log.Logf("Reseed interval reached; reseeding")
			if err = r.d.Reseed(additionalInput); err != nil {
				return err
			}
			continue
		}
		off = end
	}
	return nil
}

// Reseeds the underlying DRBG.
func (r *Random) Reseed(additionalInput []byte) Error {
	r.mux.Lock()
	defer r.mux.Unlock()
	return r.d.Reseed(additionalInput)
}
