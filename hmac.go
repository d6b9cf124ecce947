package drbg

import (
	"crypto/hmac"
)

const (
	hmacReseedMax      = 1 << 47
	hmacMaxRequestBits = 1 << 18
)

// HMAC_DRBG from SP800-90A section 10.1.2.
type HMACDRBG struct {
	h        HashFunc
	strength int
	es       EntropySource

	k             []byte
	v             []byte
	reseedCounter uint64
}

// Creates a new HMAC_DRBG using HMAC with the given hash function.
func NewHMAC(h HashFunc, strength int, es EntropySource,
	pers, nonce []byte) (*HMACDRBG, Error) {
	if err := checkStrength(strength, h.MaxSecurityStrength(), es); err != nil {
		return nil, err
	}
	entropy, err := getEntropy(es, (strength+7)/8)
	if err != nil {
		return nil, err
	}

	d := &HMACDRBG{
		h:        h,
		strength: strength,
		es:       es,
		k:        make([]byte, h.Size()),
		v:        make([]byte, h.Size()),
	}
	for i := 0; i < len(d.v); i++ {
		d.v[i] = 0x01
	}
	d.update(entropy, nonce, pers)
	d.reseedCounter = 1

	log.Logf("Instantiated HMAC_DRBG %s with strength %d", h, strength)
	return d, nil
}

func (d *HMACDRBG) BlockSize() int        { return 8 * d.h.Size() }
func (d *HMACDRBG) SecurityStrength() int { return d.strength }

// Computes HMAC(key, parts...)
func (d *HMACDRBG) mac(key []byte, parts ...[]byte) []byte {
	m := hmac.New(d.h.New, key)
	for _, part := range parts {
		m.Write(part)
	}
	return m.Sum(nil)
}

// HMAC_DRBG_Update from SP800-90A 10.1.2.2 on the concatenation of the
// given parts.  The second round only runs if there is any provided data.
func (d *HMACDRBG) update(provided ...[]byte) {
	present := false
	for _, part := range provided {
		if len(part) > 0 {
			present = true
			break
		}
	}

	for _, marker := range []byte{0x00, 0x01} {
		if marker == 0x01 && !present {
			return
		}
		parts := append([][]byte{d.v, {marker}}, provided...)
		d.k = d.mac(d.k, parts...)
		d.v = d.mac(d.k, d.v)
	}
}

func (d *HMACDRBG) Generate(out, additionalInput []byte,
	predictionResistant bool) (int, Error) {
	if len(out)*8 > hmacMaxRequestBits {
		return 0, wrapErrorf(ErrRequestTooLarge,
			"%d bits requested; at most %d allowed",
			len(out)*8, hmacMaxRequestBits)
	}
	if d.reseedCounter > hmacReseedMax {
		return -1, nil
	}

	if predictionResistant {
		if err := d.Reseed(additionalInput); err != nil {
			return 0, err
		}
		additionalInput = nil
	}

	if len(additionalInput) > 0 {
		d.update(additionalInput)
	}

	for off := 0; off < len(out); {
		d.v = d.mac(d.k, d.v)
		off += copy(out[off:], d.v)
	}

	// Runs even without additional input.
	d.update(additionalInput)
	d.reseedCounter++

	return len(out) * 8, nil
}

func (d *HMACDRBG) Reseed(additionalInput []byte) Error {
	entropy, err := getEntropy(d.es, (d.strength+7)/8)
	if err != nil {
		return err
	}
	d.update(entropy, additionalInput)
	d.reseedCounter = 1

	log.Logf("Reseeded HMAC_DRBG %s", d.h)
	return nil
}
