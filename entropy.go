package drbg

// Entropy source reading from the operating system: getrandom(2) on Linux
// and crypto/rand elsewhere.
type systemEntropySource struct {
	bits int
}

// Returns an EntropySource that returns bits bits of entropy from the
// operating system on each call.
func NewSystemEntropySource(bits int) EntropySource {
	return &systemEntropySource{bits: bits}
}

func (es *systemEntropySource) EntropySize() int {
	return es.bits
}

func (es *systemEntropySource) GetEntropy() ([]byte, error) {
	buf := make([]byte, (es.bits+7)/8)
	if err := readSystemEntropy(buf); err != nil {
		return nil, err
	}
	return buf, nil
}
