package drbg

const (
	hashReseedMax      = 1 << 47
	hashMaxRequestBits = 1 << 18
)

// Hash_DRBG from SP800-90A section 10.1.1.
type HashDRBG struct {
	h        HashFunc
	strength int
	es       EntropySource

	v             []byte // seedlen bits
	c             []byte // seedlen bits
	reseedCounter uint64
}

// Creates a new Hash_DRBG with the given hash function.
func NewHash(h HashFunc, strength int, es EntropySource,
	pers, nonce []byte) (*HashDRBG, Error) {
	if err := checkStrength(strength, h.MaxSecurityStrength(), es); err != nil {
		return nil, err
	}
	entropy, err := getEntropy(es, (strength+7)/8)
	if err != nil {
		return nil, err
	}

	d := &HashDRBG{h: h, strength: strength, es: es}
	d.v = hashDF(h, h.hashSeedLen(), entropy, nonce, pers)
	d.c = hashDF(h, h.hashSeedLen(), []byte{0x00}, d.v)
	d.reseedCounter = 1

	log.Logf("Instantiated Hash_DRBG %s with strength %d", h, strength)
	return d, nil
}

func (d *HashDRBG) BlockSize() int        { return 8 * d.h.Size() }
func (d *HashDRBG) SecurityStrength() int { return d.strength }

func (d *HashDRBG) Generate(out, additionalInput []byte,
	predictionResistant bool) (int, Error) {
	if len(out)*8 > hashMaxRequestBits {
		return 0, wrapErrorf(ErrRequestTooLarge,
			"%d bits requested; at most %d allowed",
			len(out)*8, hashMaxRequestBits)
	}
	if d.reseedCounter > hashReseedMax {
		return -1, nil
	}

	if predictionResistant {
		if err := d.Reseed(additionalInput); err != nil {
			return 0, err
		}
		additionalInput = nil
	}

	if len(additionalInput) > 0 {
		addBE(d.v, hashPrefixed(d.h, 0x02, d.v, additionalInput))
	}

	hashgen(d.h, d.v, out)

	// V = V + H(0x03 || V) + C + reseed_counter
	hv := hashPrefixed(d.h, 0x03, d.v)
	addBE(d.v, hv)
	addBE(d.v, d.c)
	addBE(d.v, encodeUint64(d.reseedCounter, 4))
	d.reseedCounter++

	return len(out) * 8, nil
}

func (d *HashDRBG) Reseed(additionalInput []byte) Error {
	entropy, err := getEntropy(d.es, (d.strength+7)/8)
	if err != nil {
		return err
	}

	d.v = hashDF(d.h, d.h.hashSeedLen(), []byte{0x01}, d.v, entropy,
		additionalInput)
	d.c = hashDF(d.h, d.h.hashSeedLen(), []byte{0x00}, d.v)
	d.reseedCounter = 1

	log.Logf("Reseeded Hash_DRBG %s", d.h)
	return nil
}
