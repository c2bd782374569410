//go:build !windows

package ops

import (
	"errors"
	"io/fs"
	"os"

	"golang.org/x/sys/unix"
)

// deleteResolvedPath removes name inside the already-resolved directory
// parent. Every step works on directory descriptors opened with O_NOFOLLOW,
// so a symlink swapped in during the delete is unlinked, not traversed.
func deleteResolvedPath(parent, name string) error {
	dirfd, err := unix.Open(parent, unix.O_RDONLY|unix.O_DIRECTORY|unix.O_CLOEXEC, 0)
	if err != nil {
		return mapErrno(err)
	}
	defer unix.Close(dirfd)
	return removeAt(dirfd, name)
}

func removeAt(dirfd int, name string) error {
	err := unix.Unlinkat(dirfd, name, 0)
	switch {
	case err == nil:
		return nil
	case !errors.Is(err, unix.EISDIR) && !errors.Is(err, unix.EPERM):
		return mapErrno(err)
	}

	if err := emptyDirAt(dirfd, name); err != nil {
		if errors.Is(err, unix.ENOTDIR) {
			// Replaced by a file since the first attempt.
			return mapErrno(unix.Unlinkat(dirfd, name, 0))
		}
		return err
	}
	return mapErrno(unix.Unlinkat(dirfd, name, unix.AT_REMOVEDIR))
}

// emptyDirAt removes every entry below the directory name.
func emptyDirAt(dirfd int, name string) error {
	fd, err := unix.Openat(dirfd, name, unix.O_RDONLY|unix.O_DIRECTORY|unix.O_NOFOLLOW|unix.O_CLOEXEC, 0)
	if err != nil {
		if errors.Is(err, unix.ENOTDIR) {
			return err
		}
		return mapErrno(err)
	}
	dir := os.NewFile(uintptr(fd), name)
	defer dir.Close()

	names, err := dir.Readdirnames(-1)
	if err != nil {
		return err
	}
	for _, child := range names {
		if err := removeAt(fd, child); err != nil {
			return err
		}
	}
	return nil
}

func mapErrno(err error) error {
	if errors.Is(err, unix.ENOENT) {
		return fs.ErrNotExist
	}
	return err
}
