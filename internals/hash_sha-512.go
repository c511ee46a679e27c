package internals

import (
	"crypto/sha512"
)

// SHA512 implements the 512-bit variant of the SHA-2 family
type SHA512 struct {
	digester
}

func NewSHA512() *SHA512 {
	return &SHA512{digester: newDigester(sha512.New())}
}

func (c *SHA512) Name() string {
	return string(HashSHA512)
}
