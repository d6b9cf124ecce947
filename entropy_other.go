//go:build !linux
// +build !linux

package drbg

import (
	"crypto/rand"
	"io"
)

func readSystemEntropy(buf []byte) error {
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return wrapErrorf(err, "crypto/rand")
	}
	return nil
}
