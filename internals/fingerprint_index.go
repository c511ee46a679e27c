package internals

import (
	"context"
	"fmt"
	"io"
	"iter"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// ContentHash is the hexadecimal digest of a file's full content.
// Two files with equal ContentHash are considered duplicates.
type ContentHash string

// HashBucket lists all paths sharing one ContentHash in discovery order
type HashBucket struct {
	Hash  ContentHash
	Size  uint64
	Paths []string
}

// DuplicateGroup is a HashBucket with at least two members.
// The first member (in discovery order) is the one to keep.
type DuplicateGroup HashBucket

// Keep returns the path which is retained
func (g DuplicateGroup) Keep() string {
	return g.Paths[0]
}

// Candidates returns the paths which are deleted upon confirmation
func (g DuplicateGroup) Candidates() []string {
	return g.Paths[1:]
}

// SkippedFile is a file which could not be hashed and thus is part of no bucket
type SkippedFile struct {
	Path string
	Err  error
}

// FingerprintIndex maps content hashes to the files with that content.
// It is built by one producer and read by one consumer afterwards,
// so it uses no synchronization.
type FingerprintIndex struct {
	fs      afero.Fs
	hash    Hash
	buckets map[ContentHash]*HashBucket
	order   []ContentHash
	files   int
	skipped []SkippedFile

	// Progress receives every byte hashed, if non-nil
	Progress io.Writer
	Log      zerolog.Logger
}

// NewFingerprintIndex returns an empty index hashing file content read from fs
// with the given hash algorithm
func NewFingerprintIndex(fs afero.Fs, algo HashAlgo) *FingerprintIndex {
	return &FingerprintIndex{
		fs:      fs,
		hash:    algo.Algorithm(),
		buckets: make(map[ContentHash]*HashBucket),
		Log:     zerolog.Nop(),
	}
}

// HashAlgorithm returns the name of the hash algorithm in use
func (x *FingerprintIndex) HashAlgorithm() string {
	return x.hash.Name()
}

// Add hashes the file at filePath and appends it to the bucket of its digest.
// If the file cannot be read entirely, the index remains unchanged.
func (x *FingerprintIndex) Add(filePath string) error {
	x.hash.Reset()
	x.hash.SetProgress(x.Progress)
	size, err := x.hash.ReadFile(x.fs, filePath)
	if err != nil {
		return fmt.Errorf(`hashing file '%s': %w`, filePath, err)
	}

	digest := ContentHash(x.hash.HexDigest())
	bucket, ok := x.buckets[digest]
	if !ok {
		bucket = &HashBucket{Hash: digest, Size: uint64(size)}
		x.buckets[digest] = bucket
		x.order = append(x.order, digest)
	}
	bucket.Paths = append(bucket.Paths, filePath)
	x.files++

	x.Log.Debug().Str("path", filePath).Str("hash", string(digest)).Uint64("size", uint64(size)).Msg("file hashed")
	return nil
}

// Build adds every path of the sequence to the index. Files failing to hash
// are recorded as skipped and do not abort the build. Only a cancelled
// context does; then ctx.Err() is returned.
func (x *FingerprintIndex) Build(ctx context.Context, files iter.Seq[string]) error {
	for filePath := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := x.Add(filePath); err != nil {
			x.Log.Debug().Err(err).Str("path", filePath).Msg("skipping unreadable file")
			x.skipped = append(x.skipped, SkippedFile{Path: filePath, Err: err})
		}
	}
	return ctx.Err()
}

// Len returns the number of files successfully indexed
func (x *FingerprintIndex) Len() int {
	return x.files
}

// Skipped returns the files which could not be hashed
func (x *FingerprintIndex) Skipped() []SkippedFile {
	return x.skipped
}

// Buckets returns all buckets ordered by the discovery of their first member
func (x *FingerprintIndex) Buckets() []HashBucket {
	buckets := make([]HashBucket, 0, len(x.order))
	for _, digest := range x.order {
		b := x.buckets[digest]
		buckets = append(buckets, HashBucket{
			Hash:  b.Hash,
			Size:  b.Size,
			Paths: append([]string(nil), b.Paths...),
		})
	}
	return buckets
}

// DuplicateGroups returns all buckets with more than one member,
// ordered by the discovery of their first member
func (x *FingerprintIndex) DuplicateGroups() []DuplicateGroup {
	groups := make([]DuplicateGroup, 0)
	for _, bucket := range x.Buckets() {
		if len(bucket.Paths) > 1 {
			groups = append(groups, DuplicateGroup(bucket))
		}
	}
	return groups
}
