package internals

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/afero"
)

// sameContent compares the files at paths a and b byte by byte.
// Both files are read in fixed-size chunks in lockstep.
func sameContent(fs afero.Fs, a, b string) (bool, error) {
	fa, err := fs.Open(a)
	if err != nil {
		return false, fmt.Errorf(`opening '%s': %w`, a, err)
	}
	defer fa.Close()

	fb, err := fs.Open(b)
	if err != nil {
		return false, fmt.Errorf(`opening '%s': %w`, b, err)
	}
	defer fb.Close()

	bufA := make([]byte, copyBufferSize)
	bufB := make([]byte, copyBufferSize)
	for {
		na, errA := io.ReadFull(fa, bufA)
		nb, errB := io.ReadFull(fb, bufB)
		if !bytes.Equal(bufA[:na], bufB[:nb]) {
			return false, nil
		}

		endA, err := chunkEnd(errA)
		if err != nil {
			return false, fmt.Errorf(`reading '%s': %w`, a, err)
		}
		endB, err := chunkEnd(errB)
		if err != nil {
			return false, fmt.Errorf(`reading '%s': %w`, b, err)
		}
		if endA || endB {
			return endA == endB, nil
		}
	}
}

// chunkEnd interprets the error of io.ReadFull.
// It reports whether the end of file was reached.
func chunkEnd(err error) (bool, error) {
	switch {
	case err == nil:
		return false, nil
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return true, nil
	}
	return false, err
}
