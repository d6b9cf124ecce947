package drbg

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/des"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"

	"golang.org/x/crypto/sha3"
	"golang.org/x/crypto/twofish"
)

// DRBG mechanism from SP800-90A
type Mechanism uint8

const (
	CTR    Mechanism = iota // block cipher in counter mode
	Hash                    // hash function
	HMAC                    // HMAC
	DualEC                  // Dual elliptic curve.  For compatibility only.
)

func (m Mechanism) String() string {
	switch m {
	case CTR:
		return "CTR"
	case Hash:
		return "Hash"
	case HMAC:
		return "HMAC"
	case DualEC:
		return "DualEC"
	}
	return fmt.Sprintf("Mechanism(%d)", uint8(m))
}

// Hash function used by the Hash, HMAC and DualEC mechanisms
type HashFunc uint8

const (
	SHA1 HashFunc = iota
	SHA224
	SHA256
	SHA384
	SHA512
	SHA512_224
	SHA512_256
	SHA3_224
	SHA3_256
	SHA3_384
	SHA3_512
)

// Returns a new hash.Hash computing this hash function.
func (h HashFunc) New() hash.Hash {
	switch h {
	case SHA1:
		return sha1.New()
	case SHA224:
		return sha256.New224()
	case SHA256:
		return sha256.New()
	case SHA384:
		return sha512.New384()
	case SHA512:
		return sha512.New()
	case SHA512_224:
		return sha512.New512_224()
	case SHA512_256:
		return sha512.New512_256()
	case SHA3_224:
		return sha3.New224()
	case SHA3_256:
		return sha3.New256()
	case SHA3_384:
		return sha3.New384()
	case SHA3_512:
		return sha3.New512()
	}
	panic(fmt.Sprintf("unknown hash function %d", uint8(h)))
}

// Size of the digest in bytes
func (h HashFunc) Size() int {
	switch h {
	case SHA1:
		return 20
	case SHA224, SHA512_224, SHA3_224:
		return 28
	case SHA256, SHA512_256, SHA3_256:
		return 32
	case SHA384, SHA3_384:
		return 48
	case SHA512, SHA3_512:
		return 64
	}
	panic(fmt.Sprintf("unknown hash function %d", uint8(h)))
}

// Maximum security strength in bits this hash function supports in
// a DRBG.  (See SP800-57 part 1.)
func (h HashFunc) MaxSecurityStrength() int {
	switch h {
	case SHA1:
		return 128
	case SHA224, SHA512_224, SHA3_224:
		return 192
	}
	return 256
}

// Length in bits of V and C in the Hash mechanism.
func (h HashFunc) hashSeedLen() int {
	if h.Size() > 32 {
		return 888
	}
	return 440
}

func (h HashFunc) String() string {
	switch h {
	case SHA1:
		return "SHA-1"
	case SHA224:
		return "SHA-224"
	case SHA256:
		return "SHA-256"
	case SHA384:
		return "SHA-384"
	case SHA512:
		return "SHA-512"
	case SHA512_224:
		return "SHA-512/224"
	case SHA512_256:
		return "SHA-512/256"
	case SHA3_224:
		return "SHA3-224"
	case SHA3_256:
		return "SHA3-256"
	case SHA3_384:
		return "SHA3-384"
	case SHA3_512:
		return "SHA3-512"
	}
	return fmt.Sprintf("HashFunc(%d)", uint8(h))
}

// Block cipher used by the CTR mechanism
type CipherFunc uint8

const (
	AES128 CipherFunc = iota
	AES192
	AES256
	TDEA // three-key triple DES
	Twofish128
	Twofish192
	Twofish256
)

// Length of the key as stored in the working state in bytes.  For TDEA
// this is 21: the parity bits are added by expandKey.
func (c CipherFunc) KeySize() int {
	switch c {
	case AES128, Twofish128:
		return 16
	case AES192, Twofish192:
		return 24
	case AES256, Twofish256:
		return 32
	case TDEA:
		return 21
	}
	panic(fmt.Sprintf("unknown cipher %d", uint8(c)))
}

// Block size in bytes
func (c CipherFunc) BlockSize() int {
	if c == TDEA {
		return des.BlockSize
	}
	return 16
}

// Maximum security strength in bits of this cipher with its key size.
func (c CipherFunc) MaxSecurityStrength() int {
	if c == TDEA {
		return 112
	}
	return c.KeySize() * 8
}

// Maximum number of generate calls between reseeds
func (c CipherFunc) reseedMax() uint64 {
	if c == TDEA {
		return 1 << 31
	}
	return 1 << 47
}

// Maximum number of bits per generate call
func (c CipherFunc) maxRequestBits() int {
	if c == TDEA {
		return 1 << 12
	}
	return 1 << 18
}

// Returns the block cipher keyed with the given working-state key.
func (c CipherFunc) newBlock(key []byte) cipher.Block {
	var ret cipher.Block
	var err error
	switch c {
	case AES128, AES192, AES256:
		ret, err = aes.NewCipher(key)
	case TDEA:
		ret, err = des.NewTripleDESCipher(expandKey(key))
	case Twofish128, Twofish192, Twofish256:
		ret, err = twofish.NewCipher(key)
	default:
		panic(fmt.Sprintf("unknown cipher %d", uint8(c)))
	}
	if err != nil {
		panic(fmt.Sprintf("cannot create %s cipher: %v", c, err))
	}
	return ret
}

func (c CipherFunc) String() string {
	switch c {
	case AES128:
		return "AES-128"
	case AES192:
		return "AES-192"
	case AES256:
		return "AES-256"
	case TDEA:
		return "TDEA"
	case Twofish128:
		return "Twofish-128"
	case Twofish192:
		return "Twofish-192"
	case Twofish256:
		return "Twofish-256"
	}
	return fmt.Sprintf("CipherFunc(%d)", uint8(c))
}

// Parameters of a DRBG instance
type Params struct {
	Mech     Mechanism  // which mechanism to use
	Hash     HashFunc   // hash function for Hash, HMAC and DualEC
	Cipher   CipherFunc // block cipher for CTR
	Strength int        // requested security strength in bits
	NoDF     bool       // CTR only: do not use the derivation function
}

// Entry in the registry of named instances
type regEntry struct {
	name   string // name, eg. HMAC-SHA-256
	params Params // parameters of the instance
}

// Registry of named DRBG instances
var registry []regEntry = []regEntry{
	{"CTR-AES-128", Params{CTR, 0, AES128, 128, false}},
	{"CTR-AES-192", Params{CTR, 0, AES192, 192, false}},
	{"CTR-AES-256", Params{CTR, 0, AES256, 256, false}},
	{"CTR-TDEA", Params{CTR, 0, TDEA, 112, false}},
	{"CTR-Twofish-128", Params{CTR, 0, Twofish128, 128, false}},
	{"CTR-Twofish-192", Params{CTR, 0, Twofish192, 192, false}},
	{"CTR-Twofish-256", Params{CTR, 0, Twofish256, 256, false}},

	{"CTR-AES-128-NoDF", Params{CTR, 0, AES128, 128, true}},
	{"CTR-AES-192-NoDF", Params{CTR, 0, AES192, 192, true}},
	{"CTR-AES-256-NoDF", Params{CTR, 0, AES256, 256, true}},
	{"CTR-TDEA-NoDF", Params{CTR, 0, TDEA, 112, true}},

	{"Hash-SHA-1", Params{Hash, SHA1, 0, 128, false}},
	{"Hash-SHA-224", Params{Hash, SHA224, 0, 192, false}},
	{"Hash-SHA-256", Params{Hash, SHA256, 0, 256, false}},
	{"Hash-SHA-384", Params{Hash, SHA384, 0, 256, false}},
	{"Hash-SHA-512", Params{Hash, SHA512, 0, 256, false}},
	{"Hash-SHA-512/224", Params{Hash, SHA512_224, 0, 192, false}},
	{"Hash-SHA-512/256", Params{Hash, SHA512_256, 0, 256, false}},
	{"Hash-SHA3-224", Params{Hash, SHA3_224, 0, 192, false}},
	{"Hash-SHA3-256", Params{Hash, SHA3_256, 0, 256, false}},
	{"Hash-SHA3-384", Params{Hash, SHA3_384, 0, 256, false}},
	{"Hash-SHA3-512", Params{Hash, SHA3_512, 0, 256, false}},

	{"HMAC-SHA-1", Params{HMAC, SHA1, 0, 128, false}},
	{"HMAC-SHA-224", Params{HMAC, SHA224, 0, 192, false}},
	{"HMAC-SHA-256", Params{HMAC, SHA256, 0, 256, false}},
	{"HMAC-SHA-384", Params{HMAC, SHA384, 0, 256, false}},
	{"HMAC-SHA-512", Params{HMAC, SHA512, 0, 256, false}},
	{"HMAC-SHA-512/224", Params{HMAC, SHA512_224, 0, 192, false}},
	{"HMAC-SHA-512/256", Params{HMAC, SHA512_256, 0, 256, false}},
	{"HMAC-SHA3-224", Params{HMAC, SHA3_224, 0, 192, false}},
	{"HMAC-SHA3-256", Params{HMAC, SHA3_256, 0, 256, false}},
	{"HMAC-SHA3-384", Params{HMAC, SHA3_384, 0, 256, false}},
	{"HMAC-SHA3-512", Params{HMAC, SHA3_512, 0, 256, false}},

	{"DualEC-P-256-SHA-256", Params{DualEC, SHA256, 0, 128, false}},
	{"DualEC-P-384-SHA-384", Params{DualEC, SHA384, 0, 192, false}},
	{"DualEC-P-521-SHA-512", Params{DualEC, SHA512, 0, 256, false}},
}

var registryNameLut map[string]regEntry

// Initializes instance lookup table.
func init() {
	registryNameLut = make(map[string]regEntry)
	for _, entry := range registry {
		registryNameLut[entry.name] = entry
	}
}

// Returns parameters for the named DRBG instance (and nil if there is no
// such instance).
func ParamsFromName(name string) *Params {
	entry, ok := registryNameLut[name]
	if !ok {
		return nil
	}
	return &entry.params
}

// List all named DRBG instances
func ListNames() (names []string) {
	names = make([]string, len(registry))
	for i, entry := range registry {
		names[i] = entry.name
	}
	return
}

// Returns the name of the instance with these parameters and an empty
// string if it has no name.
func (params Params) Name() string {
	for _, entry := range registry {
		if entry.params == params {
			return entry.name
		}
	}
	return ""
}

// Number of bits of entropy an instance with these parameters takes on
// each (re)seed.  Without derivation function CTR_DRBG needs a full seed.
func (params Params) EntropyBits() int {
	if params.Mech == CTR && params.NoDF {
		return 8 * (params.Cipher.KeySize() + params.Cipher.BlockSize())
	}
	return params.Strength
}
