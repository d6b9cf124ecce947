package drbg

import (
	"encoding/hex"

	"filippo.io/nistec"
)

const (
	dualECReseedMax    = 1 << 31
	dualECMaxInputBits = 1 << 12 // additional input, personalization, entropy
)

// A NIST curve point as implemented by filippo.io/nistec.
type nistPoint[T any] interface {
	SetBytes([]byte) (T, error)
	ScalarMult(T, []byte) (T, error)
	ScalarBaseMult([]byte) (T, error)
	BytesX() ([]byte, error)
}

// Returns the x-coordinate of scalar*Q, where Q is given by its
// uncompressed encoding q, or of scalar*G when q is nil.
func mulX[P nistPoint[P]](newPoint func() P, q, scalar []byte) (
	[]byte, error) {
	var r P
	var err error
	if q == nil {
		r, err = newPoint().ScalarBaseMult(scalar)
	} else {
		var qp P
		qp, err = newPoint().SetBytes(q)
		if err != nil {
			return nil, err
		}
		r, err = newPoint().ScalarMult(qp, scalar)
	}
	if err != nil {
		return nil, err
	}
	return r.BytesX()
}

// Curve and point Q used by Dual_EC_DRBG.  P is always the generator.
type dualECPointSet struct {
	curve    string
	strength int    // maximum security strength
	seedLen  int    // bits
	outLen   int    // bytes extracted per block
	qx, qy   string // default Q from SP800-90A appendix A.1
	q        []byte // uncompressed encoding of Q
	mul      func(q, scalar []byte) ([]byte, error)
}

var dualECPointSets = []*dualECPointSet{
	{
		curve:    "P-256",
		strength: 128,
		seedLen:  256,
		outLen:   30,
		qx:       "c97445f45cdef9f0d3e05e1e585fc297235b82b5be8ff3efca67c59852018192",
		qy:       "b28ef557ba31dfcbdd21ac46e2a91e3c304f44cb87058ada2cb815151e610046",
		mul: func(q, scalar []byte) ([]byte, error) {
			return mulX(nistec.NewP256Point, q, scalar)
		},
	},
	{
		curve:    "P-384",
		strength: 192,
		seedLen:  384,
		outLen:   46,
		qx: "8e722de3125bddb05580164bfe20b8b432216a62926c5750" +
			"2ceede31c47816edd1e89769124179d0b695106428815065",
		qy: "023b1660dd701d0839fd45eec36f9ee7b32e13b315dc0261" +
			"0aa1b636e346df671f790f84c5e09b05674dbb7e45c803dd",
		mul: func(q, scalar []byte) ([]byte, error) {
			return mulX(nistec.NewP384Point, q, scalar)
		},
	},
	{
		curve:    "P-521",
		strength: 256,
		seedLen:  521,
		outLen:   63,
		qx: "01b9fa3e518d683c6b65763694ac8efbaec6fab44f2276171a427265" +
			"07dd08add4c3b3f4c1ebc5b1222ddba077f722943b24c3edfa0f85fe" +
			"24d0c8c01591f0be6f63",
		qy: "01f3bdba585295d9a1110d1df1f9430ef8442c5018976ff3437ef91b" +
			"81dc0b8132c8d5c39c32d0e004a3092b7d327c0e7a4d26d2c7b69b58" +
			"f9066652911e457779de",
		mul: func(q, scalar []byte) ([]byte, error) {
			return mulX(nistec.NewP521Point, q, scalar)
		},
	},
}

func init() {
	for _, ps := range dualECPointSets {
		x, err := hex.DecodeString(ps.qx)
		if err != nil {
			panic(err)
		}
		y, err := hex.DecodeString(ps.qy)
		if err != nil {
			panic(err)
		}
		ps.q = concat([]byte{0x04}, x, y)
	}
}

// Dual_EC_DRBG from SP800-90A (2012) section 10.3.1.
//
// Dual_EC_DRBG was withdrawn from SP800-90A: the default points might
// hide a backdoor.  It is only here to interoperate with systems that
// still use it.
type DualECDRBG struct {
	h        HashFunc
	strength int
	es       EntropySource
	ps       *dualECPointSet

	s             []byte // ceil(seedlen/8) bytes
	reseedCounter uint64
}

// Creates a new Dual_EC_DRBG.  The curve is picked based on the
// requested strength: P-256 up to 128 bits, P-384 up to 192 bits and P-521
// up to 256 bits.
func NewDualEC(h HashFunc, strength int, es EntropySource,
	pers, nonce []byte) (*DualECDRBG, Error) {
	var ps *dualECPointSet
	for _, candidate := range dualECPointSets {
		if strength <= candidate.strength {
			ps = candidate
			break
		}
	}
	if ps == nil {
		return nil, wrapErrorf(ErrStrengthNotSupported,
			"%d bits requested; at most 256 supported", strength)
	}
	if h.MaxSecurityStrength() < ps.strength {
		return nil, wrapErrorf(ErrStrengthNotSupported,
			"%s supports at most %d bits; %s requires %d",
			h, h.MaxSecurityStrength(), ps.curve, ps.strength)
	}
	if err := checkStrength(strength, ps.strength, es); err != nil {
		return nil, err
	}
	if len(pers)*8 > dualECMaxInputBits {
		return nil, wrapErrorf(ErrInputTooLarge,
			"personalization string is %d bytes; at most %d allowed",
			len(pers), dualECMaxInputBits/8)
	}

	d := &DualECDRBG{h: h, strength: strength, es: es, ps: ps}
	entropy, err := d.getEntropy()
	if err != nil {
		return nil, err
	}
	d.s = hashDF(h, ps.seedLen, entropy, nonce, pers)

	log.Logf("Instantiated Dual_EC_DRBG %s %s with strength %d",
		ps.curve, h, strength)
	return d, nil
}

func (d *DualECDRBG) getEntropy() ([]byte, Error) {
	entropy, err := getEntropy(d.es, (d.strength+7)/8)
	if err != nil {
		return nil, err
	}
	if len(entropy)*8 > dualECMaxInputBits {
		return nil, wrapErrorf(ErrInputTooLarge,
			"entropy source returned %d bytes; at most %d allowed",
			len(entropy), dualECMaxInputBits/8)
	}
	return entropy, nil
}

func (d *DualECDRBG) BlockSize() int        { return 8 * d.ps.outLen }
func (d *DualECDRBG) SecurityStrength() int { return d.strength }

// Name of the curve in use, eg. P-256.
func (d *DualECDRBG) Curve() string { return d.ps.curve }

func (d *DualECDRBG) checkInput(additionalInput []byte) Error {
	if len(additionalInput)*8 > dualECMaxInputBits {
		return wrapErrorf(ErrInputTooLarge,
			"additional input is %d bytes; at most %d allowed",
			len(additionalInput), dualECMaxInputBits/8)
	}
	return nil
}

func (d *DualECDRBG) Generate(out, additionalInput []byte,
	predictionResistant bool) (int, Error) {
	if err := d.checkInput(additionalInput); err != nil {
		return 0, err
	}
	blocks := uint64((len(out) + d.ps.outLen - 1) / d.ps.outLen)
	if d.reseedCounter+blocks > dualECReseedMax {
		return -1, nil
	}

	if predictionResistant {
		if err := d.Reseed(additionalInput); err != nil {
			return 0, err
		}
		additionalInput = nil
	}

	// The additional input only enters through the first block.
	t := make([]byte, len(d.s))
	if len(additionalInput) > 0 && len(out) > 0 {
		xorInto(t, d.s, hashDF(d.h, d.ps.seedLen, additionalInput), 0)
	} else {
		copy(t, d.s)
	}

	var r []byte
	var err error
	for off := 0; off < len(out); off += d.ps.outLen {
		// s = x(t * P); r = x(s * Q)
		t, err = d.ps.mul(nil, t)
		if err != nil {
			return 0, wrapErrorf(err, "Dual_EC_DRBG")
		}
		r, err = d.ps.mul(d.ps.q, t)
		if err != nil {
			return 0, wrapErrorf(err, "Dual_EC_DRBG")
		}
		copy(out[off:], r[len(r)-d.ps.outLen:])
		d.reseedCounter++
	}

	d.s, err = d.ps.mul(nil, t)
	if err != nil {
		return 0, wrapErrorf(err, "Dual_EC_DRBG")
	}

	return len(out) * 8, nil
}

func (d *DualECDRBG) Reseed(additionalInput []byte) Error {
	if err := d.checkInput(additionalInput); err != nil {
		return err
	}
	entropy, err := d.getEntropy()
	if err != nil {
		return err
	}

	// pad8: left align s on a byte boundary
	s := make([]byte, len(d.s))
	copy(s, d.s)
	if d.ps.seedLen%8 != 0 {
		leftShiftBits(s, uint(8-d.ps.seedLen%8))
	}

	d.s = hashDF(d.h, d.ps.seedLen, s, entropy, additionalInput)
	d.reseedCounter = 0

	log.Logf("Reseeded Dual_EC_DRBG %s", d.ps.curve)
	return nil
}
