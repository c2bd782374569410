//go:build !windows

package scanner

import (
	"io/fs"
	"syscall"
)

// statInfo holds platform-specific file metadata.
type statInfo struct {
	inode  uint64
	dev    uint64
	blocks int64 // 512-byte units
	nlink  uint64
	ok     bool // true if platform stat was available
}

// getStatInfo extracts inode, device, block count and link count. Sources
// that do not return a *syscall.Stat_t (SFTP, synthetic filesystems) report
// ok=false.
func getStatInfo(info fs.FileInfo) statInfo {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok || stat == nil {
		return statInfo{}
	}
	return statInfo{
		inode:  stat.Ino,
		dev:    uint64(stat.Dev),
		blocks: int64(stat.Blocks),
		nlink:  uint64(stat.Nlink),
		ok:     true,
	}
}
