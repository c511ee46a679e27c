package internals

import (
	"crypto/sha256"
)

// SHA256 implements the Merkle–Damgård structure based, cryptographic hash algorithm invented by NSA (2001)
type SHA256 struct {
	digester
}

// NewSHA256 defines returns a properly initialized SHA256 instance
func NewSHA256() *SHA256 {
	return &SHA256{digester: newDigester(sha256.New())}
}

// Name returns the hash algorithm's name
func (c *SHA256) Name() string {
	return string(HashSHA256)
}
