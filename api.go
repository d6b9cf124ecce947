// Go implementation of the deterministic random bit generators (DRBGs) of
// NIST SP800-90A: CTR_DRBG, Hash_DRBG, HMAC_DRBG and (for compatibility
// only) Dual_EC_DRBG.
//
// The generators themselves are not safe for concurrent use.  Wrap one
// in a Random to get a goroutine-safe io.Reader.
package drbg

// Contains the common API

// A deterministic random bit generator.
type DRBG interface {
	// Length in bits of a single output block of the underlying primitive.
	BlockSize() int

	// Security strength of this instance in bits.
	SecurityStrength() int

	// Fills out with pseudorandom bytes and returns the number of bits
	// generated.
	//
	// The optional additionalInput is mixed into the state before and after
	// generating.  If predictionResistant is set, the generator reseeds
	// from its entropy source first and the additionalInput is used for
	// that reseed instead.
	//
	// Returns -1 and leaves the state untouched if the generator has to be
	// reseeded before it can produce more output.
	Generate(out, additionalInput []byte, predictionResistant bool) (int, Error)

	// Reseeds the generator with fresh entropy from its entropy source and
	// the optional additionalInput.
	Reseed(additionalInput []byte) Error
}

// Source of the entropy used to seed and reseed a DRBG.
type EntropySource interface {
	// Number of bits of entropy returned by each GetEntropy call.
	EntropySize() int

	// Returns EntropySize() bits of fresh entropy.
	GetEntropy() ([]byte, error)
}

type Error interface {
	error
	Locked() bool // Is this error because something (like a file) was locked?
	Inner() error // Returns the wrapped error, if any
}

// Creates a new DRBG instance with the given parameters seeded from es.
//
// The personalization string pers and nonce are optional.
func New(params Params, es EntropySource, pers, nonce []byte) (DRBG, Error) {
	switch params.Mech {
	case CTR:
		d, err := NewCTR(params.Cipher, params.Strength, !params.NoDF,
			es, pers, nonce)
		if err != nil {
			return nil, err
		}
		return d, nil
	case Hash:
		d, err := NewHash(params.Hash, params.Strength, es, pers, nonce)
		if err != nil {
			return nil, err
		}
		return d, nil
	case HMAC:
		d, err := NewHMAC(params.Hash, params.Strength, es, pers, nonce)
		if err != nil {
			return nil, err
		}
		return d, nil
	case DualEC:
		d, err := NewDualEC(params.Hash, params.Strength, es, pers, nonce)
		if err != nil {
			return nil, err
		}
		return d, nil
	}
	return nil, errorf("Unknown mechanism %s", params.Mech)
}

// Creates a new instance of the named DRBG (see ListNames()).
func NewFromName(name string, es EntropySource, pers, nonce []byte) (
	DRBG, Error) {
	params := ParamsFromName(name)
	if params == nil {
		return nil, errorf("Unknown DRBG %s", name)
	}
	return New(*params, es, pers, nonce)
}

// Checks the requested strength against the maximum the primitive
// supports and against what the entropy source can deliver.
func checkStrength(strength, max int, es EntropySource) Error {
	if strength <= 0 || strength > max {
		return wrapErrorf(ErrStrengthNotSupported,
			"%d bits requested; at most %d supported", strength, max)
	}
	if es.EntropySize() < strength {
		return wrapErrorf(ErrInsufficientEntropy,
			"entropy source provides %d bits; %d required",
			es.EntropySize(), strength)
	}
	return nil
}

// Fetches entropy from es and checks that there is at least minLen bytes
// of it.
func getEntropy(es EntropySource, minLen int) ([]byte, Error) {
	entropy, err := es.GetEntropy()
	if err != nil {
		return nil, wrapErrorf(err, "Entropy source failed")
	}
	if len(entropy) < minLen {
		return nil, wrapErrorf(ErrInsufficientEntropy,
			"entropy source returned %d bytes; %d required",
			len(entropy), minLen)
	}
	return entropy, nil
}
