//go:build linux
// +build linux

package drbg

import (
	"golang.org/x/sys/unix"
)

// Fills buf using getrandom(2), blocking until the kernel pool is
// initialized.
func readSystemEntropy(buf []byte) error {
	for off := 0; off < len(buf); {
		n, err := unix.Getrandom(buf[off:], 0)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return wrapErrorf(err, "getrandom")
		}
		off += n
	}
	return nil
}
