package internals

import (
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"strings"

	"github.com/spf13/afero"
)

// HashAlgo is an alias for string, but specifically can only
// be one of the identifiers for hash algorithms.
type HashAlgo string

const (
	HashSHA256   HashAlgo = `sha-256`
	HashSHA512   HashAlgo = `sha-512`
	HashSHA3_512 HashAlgo = `sha-3-512`
)

// DefaultHashAlgorithm is used whenever no hash algorithm is requested explicitly
const DefaultHashAlgorithm HashAlgo = HashSHA256

// copyBufferSize bounds the memory used per file while hashing
const copyBufferSize = 32 * 1024

// SupportedHashAlgorithms returns the list of supported hash algorithms.
// The slice contains specified hash algorithm identifiers
func SupportedHashAlgorithms() []string {
	return []string{
		string(HashSHA256),
		string(HashSHA512),
		string(HashSHA3_512),
	}
}

// DigestSize returns the output size in bytes for a given hash algorithm.
func (h HashAlgo) DigestSize() int {
	switch h {
	case HashSHA256:
		return 32
	case HashSHA512:
		return 64
	case HashSHA3_512:
		return 64
	}
	return 0
}

// Algorithm returns a Hash instance for the given hash algorithm name.
func (h HashAlgo) Algorithm() Hash {
	switch h {
	case HashSHA256:
		return NewSHA256()
	case HashSHA512:
		return NewSHA512()
	case HashSHA3_512:
		return NewSHA3_512()
	}
	return DefaultHashAlgorithm.Algorithm()
}

// HashAlgorithmFromString returns a HashAlgo instance, give the hash algorithm's name as a string
func HashAlgorithmFromString(name string) (HashAlgo, error) {
	name = strings.ToLower(name)
	for _, algo := range SupportedHashAlgorithms() {
		if name == algo {
			return HashAlgo(algo), nil
		}
	}
	return DefaultHashAlgorithm, fmt.Errorf(`unknown hash algorithm %q`, name)
}

// Hash is a custom interface to define operations
// a hash algorithm needs to support to fingerprint file content
type Hash interface {
	// returns number of bytes of the digest
	Size() int
	// update hash state with content of file at given filepath; returns the number of bytes read
	ReadFile(afero.Fs, string) (int64, error)
	// update hash state with given bytes
	ReadBytes([]byte) error
	// reset hash state
	Reset()
	// get hash state digest
	Digest() []byte
	// get hash state digest represented as hexadecimal string
	HexDigest() string
	// get string representation of this hash algorithm
	Name() string
	// report every byte read by ReadFile to the given writer (nil disables reporting)
	SetProgress(io.Writer)
}

// digester implements Hash on top of a standard library hash.Hash.
// Algorithm-specific types embed it and add their name.
type digester struct {
	h        hash.Hash
	progress io.Writer
	buf      []byte
}

func newDigester(h hash.Hash) digester {
	return digester{h: h}
}

// Size returns the number of bytes of the digest
func (d *digester) Size() int {
	return d.h.Size()
}

// ReadFile streams the content of an entire file through the hash state.
// Only a fixed-size buffer is held in memory, independent of the file size.
func (d *digester) ReadFile(fs afero.Fs, filePath string) (int64, error) {
	fd, err := fs.Open(filePath)
	if err != nil {
		return 0, err
	}
	defer fd.Close()

	if d.buf == nil {
		d.buf = make([]byte, copyBufferSize)
	}

	var dst io.Writer = d.h
	if d.progress != nil {
		dst = io.MultiWriter(d.h, d.progress)
	}
	return io.CopyBuffer(dst, onlyReader{fd}, d.buf)
}

// ReadBytes updates the hash state with individual bytes
func (d *digester) ReadBytes(data []byte) error {
	_, err := d.h.Write(data)
	return err
}

// Reset resets the hash state
func (d *digester) Reset() {
	d.h.Reset()
}

// Digest returns the digest of the current hash state
func (d *digester) Digest() []byte {
	return d.h.Sum([]byte{})
}

// HexDigest returns the digest as lower-case hexadecimal string
func (d *digester) HexDigest() string {
	return hex.EncodeToString(d.Digest())
}

// SetProgress makes ReadFile report every byte read to w
func (d *digester) SetProgress(w io.Writer) {
	d.progress = w
}

// onlyReader hides WriterTo/ReaderFrom implementations so that
// io.CopyBuffer actually uses the provided buffer.
type onlyReader struct {
	io.Reader
}
