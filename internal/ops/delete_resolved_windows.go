//go:build windows

package ops

import (
	"os"
	"path/filepath"
)

// deleteResolvedPath removes name inside parent. os.RemoveAll does not
// follow directory junctions or symlinks on Windows.
func deleteResolvedPath(parent, name string) error {
	target := filepath.Join(parent, name)
	if _, err := os.Lstat(target); err != nil {
		return err
	}
	return os.RemoveAll(target)
}
