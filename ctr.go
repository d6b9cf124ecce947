package drbg

import (
	"crypto/cipher"

	"github.com/templexxx/xorsimd"
)

// Initial key of Block_Cipher_df: 0x00 0x01 ... 0x1f truncated to keylen.
var dfKey = []byte{
	0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07,
	0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f,
	0x10, 0x11, 0x12, 0x13, 0x14, 0x15, 0x16, 0x17,
	0x18, 0x19, 0x1a, 0x1b, 0x1c, 0x1d, 0x1e, 0x1f,
}

// CTR_DRBG from SP800-90A section 10.2.1.
type CTRDRBG struct {
	c        CipherFunc
	strength int
	useDF    bool
	es       EntropySource

	key           []byte
	v             []byte
	block         cipher.Block // c keyed with key
	reseedCounter uint64
}

// Creates a new CTR_DRBG with the given block cipher.
//
// Without derivation function (useDF=false) the entropy source has to
// deliver at least seedlen = keylen + blocklen bits of full entropy, the
// nonce is ignored and the personalization string and additional inputs
// can be at most seedlen bits.
func NewCTR(c CipherFunc, strength int, useDF bool, es EntropySource,
	pers, nonce []byte) (*CTRDRBG, Error) {
	if strength > 256 {
		return nil, wrapErrorf(ErrStrengthNotSupported,
			"%d bits requested; derivation function supports at most 256",
			strength)
	}
	if err := checkStrength(strength, c.MaxSecurityStrength(), es); err != nil {
		return nil, err
	}

	d := &CTRDRBG{
		c:             c,
		strength:      strength,
		useDF:         useDF,
		es:            es,
		key:           make([]byte, c.KeySize()),
		v:             make([]byte, c.BlockSize()),
		reseedCounter: 1,
	}

	if !useDF && len(pers) > d.seedLen() {
		return nil, wrapErrorf(ErrInputTooLarge,
			"personalization string is %d bytes; at most %d allowed",
			len(pers), d.seedLen())
	}

	entropy, err := getEntropy(es, d.entropyLen())
	if err != nil {
		return nil, err
	}

	var seed []byte
	if useDF {
		seed = blockCipherDF(c, concat(entropy, nonce, pers), d.seedLen())
	} else {
		seed = d.padAndXor(entropy, pers)
	}

	d.block = c.newBlock(d.key)
	d.update(seed)

	log.Logf("Instantiated CTR_DRBG %s (df=%v) with strength %d",
		c, useDF, strength)
	return d, nil
}

func (d *CTRDRBG) seedLen() int {
	return len(d.key) + len(d.v)
}

// Number of bytes of entropy required per (re)seed.
func (d *CTRDRBG) entropyLen() int {
	if d.useDF {
		return (d.strength + 7) / 8
	}
	return d.seedLen()
}

func (d *CTRDRBG) BlockSize() int        { return 8 * len(d.v) }
func (d *CTRDRBG) SecurityStrength() int { return d.strength }

// Returns the first seedlen bytes of entropy XORed with input
// padded with zeroes.  Used when there is no derivation function.
func (d *CTRDRBG) padAndXor(entropy, input []byte) []byte {
	padded := make([]byte, d.seedLen())
	copy(padded, input)
	if entropy != nil {
		xorInto(padded, padded, entropy, 0)
	}
	return padded
}

// CTR_DRBG_Update from SP800-90A 10.2.1.2.  provided must be seedlen bytes.
func (d *CTRDRBG) update(provided []byte) {
	seedLen := d.seedLen()
	if len(provided) != seedLen {
		panic("ctr update: provided data has the wrong length")
	}
	bs := len(d.v)

	// Room for the last block, which might stick out.
	temp := make([]byte, seedLen+bs)
	for off := 0; off < seedLen; off += bs {
		incrementBE(d.v)
		d.block.Encrypt(temp[off:], d.v)
	}
	xorsimd.Bytes(temp, temp[:seedLen], provided)

	copy(d.key, temp[:len(d.key)])
	copy(d.v, temp[len(d.key):seedLen])
	d.block = d.c.newBlock(d.key)
}

func (d *CTRDRBG) Generate(out, additionalInput []byte,
	predictionResistant bool) (int, Error) {
	if len(out)*8 > d.c.maxRequestBits() {
		return 0, wrapErrorf(ErrRequestTooLarge,
			"%d bits requested; at most %d allowed",
			len(out)*8, d.c.maxRequestBits())
	}
	if !d.useDF && len(additionalInput) > d.seedLen() {
		return 0, wrapErrorf(ErrInputTooLarge,
			"additional input is %d bytes; at most %d allowed",
			len(additionalInput), d.seedLen())
	}
	if d.reseedCounter > d.c.reseedMax() {
		return -1, nil
	}

	if predictionResistant {
		if err := d.Reseed(additionalInput); err != nil {
			return 0, err
		}
		additionalInput = nil
	}

	var seed []byte
	if len(additionalInput) > 0 {
		if d.useDF {
			seed = blockCipherDF(d.c, additionalInput, d.seedLen())
		} else {
			seed = d.padAndXor(nil, additionalInput)
		}
		d.update(seed)
	} else {
		seed = make([]byte, d.seedLen())
	}

	bs := len(d.v)
	var buf []byte
	for off := 0; off < len(out); off += bs {
		incrementBE(d.v)
		if len(out)-off >= bs {
			d.block.Encrypt(out[off:], d.v)
			continue
		}
		if buf == nil {
			buf = make([]byte, bs)
		}
		d.block.Encrypt(buf, d.v)
		copy(out[off:], buf)
	}

	d.update(seed)
	d.reseedCounter++

	return len(out) * 8, nil
}

func (d *CTRDRBG) Reseed(additionalInput []byte) Error {
	if !d.useDF && len(additionalInput) > d.seedLen() {
		return wrapErrorf(ErrInputTooLarge,
			"additional input is %d bytes; at most %d allowed",
			len(additionalInput), d.seedLen())
	}

	entropy, err := getEntropy(d.es, d.entropyLen())
	if err != nil {
		return err
	}

	if d.useDF {
		d.update(blockCipherDF(d.c, concat(entropy, additionalInput),
			d.seedLen()))
	} else {
		d.update(d.padAndXor(entropy, additionalInput))
	}
	d.reseedCounter = 1

	log.Logf("Reseeded CTR_DRBG %s", d.c)
	return nil
}

// Block_Cipher_df from SP800-90A 10.3.2: derives nbytes bytes from input.
func blockCipherDF(c CipherFunc, input []byte, nbytes int) []byte {
	bs := c.BlockSize()
	keyLen := c.KeySize()

	// IV || S where S = L || N || input || 0x80 || 0x00 ... padded to
	// a multiple of the block length.
	sLen := ((8 + len(input) + 1 + bs - 1) / bs) * bs
	buf := make([]byte, bs+sLen)
	s := buf[bs:]
	encodeUint64Into(uint64(len(input)), s[0:4])
	encodeUint64Into(uint64(nbytes), s[4:8])
	copy(s[8:], input)
	s[8+len(input)] = 0x80

	block := c.newBlock(dfKey[:keyLen])
	temp := make([]byte, 0, keyLen+2*bs)
	for i := uint64(0); len(temp) < keyLen+bs; i++ {
		// IV is i padded with zeroes to the block length
		encodeUint64Into(i, buf[:4])
		temp = append(temp, bcc(block, buf)...)
	}

	block = c.newBlock(temp[:keyLen])
	x := make([]byte, bs)
	copy(x, temp[keyLen:keyLen+bs])

	ret := make([]byte, 0, nbytes+bs)
	for len(ret) < nbytes {
		block.Encrypt(x, x)
		ret = append(ret, x...)
	}
	return ret[:nbytes]
}

// BCC from SP800-90A 10.3.3: CBC-MAC of data with a zero IV.
func bcc(block cipher.Block, data []byte) []byte {
	bs := block.BlockSize()
	if len(data)%bs != 0 {
		panic("bcc: data is not a multiple of the block length")
	}
	cv := make([]byte, bs)
	for off := 0; off < len(data); off += bs {
		xorInto(cv, cv, data, off)
		block.Encrypt(cv, cv)
	}
	return cv
}
