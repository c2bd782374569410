package model

import "strings"

// DefaultBlockSize is the allocation unit assumed when the filesystem does
// not report block counts.
const DefaultBlockSize = 4096

// BlockUnit is the unit of st_blocks on Unix.
const BlockUnit = 512

// AllocatedBytes rounds a logical size up to a whole number of blocks.
func AllocatedBytes(logical, blockSize int64) int64 {
	if logical <= 0 {
		return 0
	}
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	blocks := logical / blockSize
	if logical%blockSize != 0 {
		blocks++
	}
	if blocks > maxInt64/blockSize {
		return maxInt64
	}
	return blocks * blockSize
}

// Extension returns the lowercase suffix after the last dot in name, without
// the dot. Names without a dot, or whose only dot leads (".bashrc"), have no
// extension.
func Extension(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i <= 0 || i == len(name)-1 {
		return ""
	}
	if strings.ContainsAny(name[i+1:], `/\`) {
		return ""
	}
	return strings.ToLower(name[i+1:])
}
