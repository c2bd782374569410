package scanner

import (
	"io/fs"
	"os"
	"path/filepath"
)

// FS is the filesystem a Walker reads. Lstat must not follow symlinks.
type FS interface {
	Lstat(path string) (fs.FileInfo, error)
	ReadDirNames(path string) ([]string, error)
	Join(elem ...string) string
}

// BlockSizer is implemented by filesystems that know their allocation unit.
// Without it, estimated sizes round up to model.DefaultBlockSize.
type BlockSizer interface {
	BlockSize() int64
}

// LocalFS reads the host filesystem.
type LocalFS struct{}

func (LocalFS) Lstat(path string) (fs.FileInfo, error) { return os.Lstat(path) }

func (LocalFS) ReadDirNames(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return f.Readdirnames(-1)
}

func (LocalFS) Join(elem ...string) string { return filepath.Join(elem...) }
