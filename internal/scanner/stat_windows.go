//go:build windows

package scanner

import "io/fs"

// statInfo holds platform-specific file metadata.
type statInfo struct {
	inode  uint64
	dev    uint64
	blocks int64
	nlink  uint64
	ok     bool
}

// getStatInfo on Windows has no block count or inode; sizing falls back to
// the logical length and hardlinks are not deduplicated.
func getStatInfo(info fs.FileInfo) statInfo {
	return statInfo{}
}
