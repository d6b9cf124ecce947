package drbg

import (
	"bytes"
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
)

func createTestSeedFile(pool []byte, t *testing.T) string {
	dir, err := ioutil.TempDir("", "go-drbg-tests")
	if err != nil {
		t.Fatalf("TempDir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	path := filepath.Join(dir, "pool")
	if err := CreateSeedFile(path, pool); err != nil {
		t.Fatalf("CreateSeedFile: %v", err)
	}
	return path
}

func TestSeedFile(t *testing.T) {
	pool := seq(100, 0)
	path := createTestSeedFile(pool, t)

	sf, err := OpenSeedFile(path, 256)
	if err != nil {
		t.Fatalf("OpenSeedFile: %v", err)
	}
	if sf.EntropySize() != 256 || sf.Remaining() != 100 {
		t.Fatalf("fresh seed file has size %d and %d bytes left",
			sf.EntropySize(), sf.Remaining())
	}

	for i := 0; i < 3; i++ {
		entropy, err := sf.GetEntropy()
		if err != nil {
			t.Fatalf("GetEntropy %d: %v", i, err)
		}
		if !bytes.Equal(entropy, pool[32*i:32*(i+1)]) {
			t.Fatalf("GetEntropy %d returned %x", i, entropy)
		}
	}
	if sf.Remaining() != 4 {
		t.Fatalf("%d bytes left instead of 4", sf.Remaining())
	}

	_, err2 := sf.GetEntropy()
	if !errors.Is(err2, ErrPoolExhausted) {
		t.Fatalf("expected exhausted pool, got %v", err2)
	}
	if err = sf.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if sf.Remaining() != 0 {
		t.Fatalf("closed seed file has %d bytes left", sf.Remaining())
	}
	if _, err2 = sf.GetEntropy(); err2 == nil {
		t.Fatalf("GetEntropy should fail on a closed seed file")
	}

	// Used entropy is erased on disk.
	buf, err2 := ioutil.ReadFile(path)
	if err2 != nil {
		t.Fatalf("ReadFile: %v", err2)
	}
	if !bytes.Equal(buf[seedFileHeaderSize:seedFileHeaderSize+96],
		make([]byte, 96)) {
		t.Fatalf("used entropy was not erased")
	}
	if !bytes.Equal(buf[seedFileHeaderSize+96:], pool[96:]) {
		t.Fatalf("unused entropy was modified")
	}
}

func TestSeedFileReopen(t *testing.T) {
	pool := seq(64, 0x40)
	path := createTestSeedFile(pool, t)

	sf, err := OpenSeedFile(path, 128)
	if err != nil {
		t.Fatalf("OpenSeedFile: %v", err)
	}
	if _, err2 := sf.GetEntropy(); err2 != nil {
		t.Fatalf("GetEntropy: %v", err2)
	}
	sf.Close()

	sf, err = OpenSeedFile(path, 128)
	if err != nil {
		t.Fatalf("OpenSeedFile after use: %v", err)
	}
	defer sf.Close()
	if sf.Remaining() != 48 {
		t.Fatalf("%d bytes left after reopen instead of 48", sf.Remaining())
	}
	entropy, err2 := sf.GetEntropy()
	if err2 != nil {
		t.Fatalf("GetEntropy: %v", err2)
	}
	if !bytes.Equal(entropy, pool[16:32]) {
		t.Fatalf("GetEntropy after reopen returned %x", entropy)
	}
}

func TestSeedFileCreateExisting(t *testing.T) {
	path := createTestSeedFile(seq(32, 0), t)
	if err := CreateSeedFile(path, seq(32, 0)); err == nil {
		t.Fatalf("CreateSeedFile should not overwrite an existing file")
	}
}

func TestSeedFileLocked(t *testing.T) {
	path := createTestSeedFile(seq(32, 0), t)

	// Pretend our parent holds the lock.
	err := ioutil.WriteFile(path+".lock",
		[]byte(fmt.Sprintf("%d\n", os.Getppid())), 0644)
	if err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, err2 := OpenSeedFile(path, 128)
	if err2 == nil {
		t.Fatalf("OpenSeedFile should fail on a locked seed file")
	}
	if !err2.Locked() {
		t.Fatalf("OpenSeedFile: expected a locked error, got %v", err2)
	}

	os.Remove(path + ".lock")
	sf, err2 := OpenSeedFile(path, 128)
	if err2 != nil {
		t.Fatalf("OpenSeedFile after unlock: %v", err2)
	}
	sf.Close()
}

func TestSeedFileCorrupt(t *testing.T) {
	path := createTestSeedFile(seq(32, 0), t)

	buf, err := ioutil.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	buf[seedFileHeaderSize+3] ^= 1
	if err = ioutil.WriteFile(path, buf, 0600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err2 := OpenSeedFile(path, 128); err2 == nil {
		t.Fatalf("OpenSeedFile should detect the corrupted pool")
	}

	copy(buf, "NOTAPOOL")
	if err = ioutil.WriteFile(path, buf, 0600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err2 := OpenSeedFile(path, 128); err2 == nil {
		t.Fatalf("OpenSeedFile should reject files without magic")
	}
}

func TestSeedFileDRBG(t *testing.T) {
	path := createTestSeedFile(seq(128, 0), t)
	sf, err := OpenSeedFile(path, 256)
	if err != nil {
		t.Fatalf("OpenSeedFile: %v", err)
	}
	defer sf.Close()

	d, err := NewHMAC(SHA256, 256, sf, nil, nil)
	if err != nil {
		t.Fatalf("NewHMAC: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err = d.Reseed(nil); err != nil {
			t.Fatalf("Reseed %d: %v", i, err)
		}
	}
	if err = d.Reseed(nil); !errors.Is(err, ErrPoolExhausted) {
		t.Fatalf("Reseed should fail on exhausted pool, got %v", err)
	}
}
