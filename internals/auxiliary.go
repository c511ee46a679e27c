package internals

import (
	"errors"
	"fmt"
	"os"
)

// HumanReadableBytes renders a byte count with binary unit prefixes
func HumanReadableBytes(count uint64) string {
	bytes := float64(count)
	units := []string{"bytes", "KiB", "MiB", "GiB", "TiB", "PiB"}
	for _, unit := range units {
		if bytes < 1024 {
			return fmt.Sprintf(`%.02f %s`, bytes, unit)
		}
		bytes /= 1024
	}
	return fmt.Sprintf(`%.02f EiB`, bytes)
}

// isPermissionError determines whether the given error indicates a permission error
func isPermissionError(err error) bool {
	return errors.Is(err, os.ErrPermission)
}

// determineNodeType obviously determines the node type for a give file represented by its os.FileInfo.
// 'F' is the only type the walker ever emits.
func determineNodeType(stat os.FileInfo) byte {
	mode := stat.Mode()
	switch {
	case mode&os.ModeDevice != 0:
		return 'C'
	case mode.IsDir():
		return 'D'
	case mode.IsRegular():
		return 'F'
	case mode&os.ModeSymlink != 0:
		return 'L'
	case mode&os.ModeNamedPipe != 0:
		return 'P'
	case mode&os.ModeSocket != 0:
		return 'S'
	}
	return 'X'
}
