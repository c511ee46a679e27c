package internals

import (
	"errors"
	"fmt"
	"iter"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// This module implements the traversal logic. The walk is lazy and
// single-threaded: a path is only produced once the consumer asks for it,
// and the consumer (the fingerprint index) hashes it before the walk
// continues. Only regular files are emitted.

// RootNotFoundError is returned when the root of a walk does not exist.
type RootNotFoundError struct {
	Path string
}

func (e RootNotFoundError) Error() string {
	return fmt.Sprintf(`root path '%s' does not exist`, e.Path)
}

// NotADirectoryError is returned when the root of a walk is not a directory.
type NotADirectoryError struct {
	Path string
}

func (e NotADirectoryError) Error() string {
	return fmt.Sprintf(`root path '%s' is not a directory`, e.Path)
}

// errStopWalk aborts afero.Walk once the consumer stopped iterating
var errStopWalk = errors.New("walk stopped by consumer")

// Walker enumerates all regular files below a root directory
type Walker struct {
	fs       afero.Fs
	root     string
	walkRoot string
	Log      zerolog.Logger
}

// NewWalker validates the root directory and returns a Walker for it.
// A missing root yields RootNotFoundError, a root which is not
// a directory yields NotADirectoryError.
func NewWalker(fs afero.Fs, root string) (*Walker, error) {
	info, err := fs.Stat(root)
	if errors.Is(err, os.ErrNotExist) {
		return nil, RootNotFoundError{Path: root}
	}
	if err != nil {
		return nil, fmt.Errorf(`inspecting root path '%s': %w`, root, err)
	}
	if !info.IsDir() {
		return nil, NotADirectoryError{Path: root}
	}

	w := &Walker{fs: fs, root: root, walkRoot: root, Log: zerolog.Nop()}

	// the root was named explicitly, so a symlinked root is followed once.
	// A trailing separator makes lstat resolve it; nothing below is followed.
	if lstater, ok := fs.(afero.Lstater); ok {
		linfo, _, err := lstater.LstatIfPossible(root)
		if err == nil && linfo.Mode()&os.ModeSymlink != 0 {
			w.walkRoot = root + string(filepath.Separator)
		}
	}

	return w, nil
}

// Root returns the root directory as given to NewWalker
func (w *Walker) Root() string {
	return w.root
}

// Files returns the lazy sequence of regular files below the root.
// Entries which cannot be inspected and directories which cannot be
// listed are skipped silently. Within one directory, entries are
// visited in lexical order.
func (w *Walker) Files() iter.Seq[string] {
	return func(yield func(string) bool) {
		err := afero.Walk(w.fs, w.walkRoot, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				w.Log.Debug().Err(err).Str("path", path).Bool("permission", isPermissionError(err)).
					Msg("skipping entry which cannot be inspected")
				return nil
			}

			if determineNodeType(info) != 'F' {
				return nil
			}

			if !yield(path) {
				return errStopWalk
			}
			return nil
		})
		if err != nil && !errors.Is(err, errStopWalk) {
			w.Log.Debug().Err(err).Str("root", w.root).Msg("walk terminated early")
		}
	}
}
