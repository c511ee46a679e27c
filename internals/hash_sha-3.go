package internals

import (
	"golang.org/x/crypto/sha3"
)

// SHA3_512 implements the sponge construction based hash algorithm
// invented by Guido Bertoni, Joan Daemen, Michaël Peeters, and Gilles Van Assche (2008)
type SHA3_512 struct {
	digester
}

// NewSHA3_512 defines returns a properly initialized SHA3_512 instance
func NewSHA3_512() *SHA3_512 {
	return &SHA3_512{digester: newDigester(sha3.New512())}
}

// Name returns the hash algorithm's name
func (c *SHA3_512) Name() string {
	return string(HashSHA3_512)
}
