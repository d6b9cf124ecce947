package drbg

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"

	"github.com/cespare/xxhash"
	"github.com/edsrzf/mmap-go"
	"github.com/nightlyone/lockfile"
)

const (
	seedFileMagic      = "DRBGPOOL"
	seedFileHeaderSize = 32
)

// EntropySource backed by a pool of pre-provisioned entropy on disk, for
// hosts that lack a trustworthy entropy source at runtime.  It consists of
// two files:
//
//	path/to/pool       header followed by the entropy pool
//	path/to/pool.lock  a lockfile
//
// The header is
//
//	magic  "DRBGPOOL"
//	size   size of the pool in bytes (uint64, Big Endian)
//	offset first unused byte of the pool (uint64, Big Endian)
//	check  xxhash64 of the pool
//
// Entropy is erased from the pool as it is handed out, so it is never
// used twice.
type SeedFile struct {
	mux   sync.Mutex
	flock lockfile.Lockfile // file lock
	path  string            // absolute path
	file  *os.File
	mm    mmap.MMap // the whole file
	bits  int       // bits returned by each GetEntropy
}

// Locks the seed file at the given (absolute) path.
func lockSeedFile(path string) (lockfile.Lockfile, Error) {
	lockFilePath := path + ".lock"
	flock, err := lockfile.New(lockFilePath)
	if err != nil {
		return flock, wrapErrorf(err, "Failed to create lockfile %s",
			lockFilePath)
	}

	err = flock.TryLock()
	if err == nil {
		return flock, nil
	}
	if _, ok := err.(interface {
		Temporary() bool
	}); ok {
		err2 := errorf("%s is locked", path)
		err2.locked = true
		return flock, err2
	}
	return flock, wrapErrorf(err, "Failed to lock %s", lockFilePath)
}

// Creates a new seed file at path containing the given entropy.
func CreateSeedFile(path string, pool []byte) Error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return wrapErrorf(err, "Could not turn %s into an absolute path", path)
	}

	flock, err2 := lockSeedFile(absPath)
	if err2 != nil {
		return err2
	}
	defer flock.Unlock()

	file, err := os.OpenFile(absPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return wrapErrorf(err, "Failed to create %s", absPath)
	}
	defer file.Close()

	buf := make([]byte, seedFileHeaderSize+len(pool))
	copy(buf, seedFileMagic)
	encodeUint64Into(uint64(len(pool)), buf[8:16])
	encodeUint64Into(0, buf[16:24])
	encodeUint64Into(xxhash.Sum64(pool), buf[24:32])
	copy(buf[seedFileHeaderSize:], pool)

	if _, err = file.Write(buf); err != nil {
		return wrapErrorf(err, "Failed to write %s", absPath)
	}
	if err = file.Sync(); err != nil {
		return wrapErrorf(err, "Failed to sync %s", absPath)
	}

	log.Logf("Created seed file %s with %d bytes", absPath, len(pool))
	return nil
}

// Opens the seed file at path.  Each GetEntropy returns bits bits from it.
// Do not forget to Close() it.
func OpenSeedFile(path string, bits int) (*SeedFile, Error) {
	var sf SeedFile
	var err error

	sf.bits = bits
	sf.path, err = filepath.Abs(path)
	if err != nil {
		return nil, wrapErrorf(err, "Could not turn %s into an absolute path", path)
	}

	var err2 Error
	sf.flock, err2 = lockSeedFile(sf.path)
	if err2 != nil {
		return nil, err2
	}

	sf.file, err = os.OpenFile(sf.path, os.O_RDWR, 0)
	if err != nil {
		sf.flock.Unlock()
		return nil, wrapErrorf(err, "Failed to open %s", sf.path)
	}

	sf.mm, err = mmap.Map(sf.file, mmap.RDWR, 0)
	if err != nil {
		sf.file.Close()
		sf.flock.Unlock()
		return nil, wrapErrorf(err, "Failed to mmap %s", sf.path)
	}

	if err2 = sf.check(); err2 != nil {
		sf.Close()
		return nil, err2
	}

	return &sf, nil
}

// Checks the header and checksum of the pool.
func (sf *SeedFile) check() Error {
	if len(sf.mm) < seedFileHeaderSize ||
		!bytes.Equal(sf.mm[:8], []byte(seedFileMagic)) {
		return errorf("%s is not a seed file", sf.path)
	}
	size := decodeUint64(sf.mm[8:16])
	if size != uint64(len(sf.mm)-seedFileHeaderSize) {
		return errorf("%s: pool size %d does not match file size", sf.path, size)
	}
	if sf.offset() > size {
		return errorf("%s: offset beyond end of pool", sf.path)
	}
	if xxhash.Sum64(sf.pool()) != decodeUint64(sf.mm[24:32]) {
		return errorf("%s: checksum mismatch", sf.path)
	}
	return nil
}

func (sf *SeedFile) pool() []byte   { return sf.mm[seedFileHeaderSize:] }
func (sf *SeedFile) offset() uint64 { return decodeUint64(sf.mm[16:24]) }

func (sf *SeedFile) EntropySize() int {
	return sf.bits
}

// Returns the number of unused bytes left in the pool, and 0 once the
// seed file is closed.
func (sf *SeedFile) Remaining() int {
	sf.mux.Lock()
	defer sf.mux.Unlock()
	if sf.mm == nil {
		return 0
	}
	return len(sf.pool()) - int(sf.offset())
}

func (sf *SeedFile) GetEntropy() ([]byte, error) {
	sf.mux.Lock()
	defer sf.mux.Unlock()

	if sf.mm == nil {
		return nil, errorf("%s is closed", sf.path)
	}

	n := uint64((sf.bits + 7) / 8)
	off := sf.offset()
	pool := sf.pool()
	if off+n > uint64(len(pool)) {
		log.Logf("Seed file %s is exhausted", sf.path)
		return nil, wrapErrorf(ErrPoolExhausted, "%s", sf.path)
	}

	ret := make([]byte, n)
	copy(ret, pool[off:off+n])
	for i := off; i < off+n; i++ {
		pool[i] = 0
	}
	encodeUint64Into(off+n, sf.mm[16:24])
	encodeUint64Into(xxhash.Sum64(pool), sf.mm[24:32])

	if err := sf.mm.Flush(); err != nil {
		return nil, wrapErrorf(err, "Failed to flush %s", sf.path)
	}

	log.Logf("Took %d bytes from seed file %s; %d left", n, sf.path,
		uint64(len(pool))-off-n)
	return ret, nil
}

// Unmaps and unlocks the seed file.
func (sf *SeedFile) Close() Error {
	sf.mux.Lock()
	defer sf.mux.Unlock()

	var ret Error
	if sf.mm != nil {
		if err := sf.mm.Unmap(); err != nil {
			ret = wrapErrorf(err, "Failed to unmap %s", sf.path)
		}
		sf.mm = nil
	}
	if sf.file != nil {
		if err := sf.file.Close(); err != nil && ret == nil {
			ret = wrapErrorf(err, "Failed to close %s", sf.path)
		}
		sf.file = nil
	}
	if err := sf.flock.Unlock(); err != nil && ret == nil {
		ret = wrapErrorf(err, "Failed to unlock %s", sf.path)
	}
	return ret
}
