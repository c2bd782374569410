package scanner

import (
	"errors"
	"io/fs"
	"path"
	"sort"
	"time"
)

// memFS is a synthetic filesystem whose FileInfo carries no platform stat
// data, which drives the walker down its logical-size path.
type memFS struct {
	entries    map[string]memEntry
	children   map[string][]string
	statErr    map[string]error
	readDirErr map[string]error
	onReadDir  func(path string)
	blockSize  int64
}

type memEntry struct {
	mode fs.FileMode
	size int64
}

func newMemFS() *memFS {
	m := &memFS{
		entries:    make(map[string]memEntry),
		children:   make(map[string][]string),
		statErr:    make(map[string]error),
		readDirErr: make(map[string]error),
	}
	m.entries["/"] = memEntry{mode: fs.ModeDir | 0o755}
	return m
}

func (m *memFS) put(p string, e memEntry) {
	if _, ok := m.entries[p]; !ok {
		dir := path.Dir(p)
		m.children[dir] = append(m.children[dir], path.Base(p))
	}
	m.entries[p] = e
}

func (m *memFS) mkdirAll(p string) {
	if p == "/" || p == "." {
		return
	}
	if _, ok := m.entries[p]; ok {
		return
	}
	m.mkdirAll(path.Dir(p))
	m.put(p, memEntry{mode: fs.ModeDir | 0o755})
}

func (m *memFS) file(p string, size int64) {
	m.mkdirAll(path.Dir(p))
	m.put(p, memEntry{mode: 0o644, size: size})
}

func (m *memFS) symlink(p string, size int64) {
	m.mkdirAll(path.Dir(p))
	m.put(p, memEntry{mode: fs.ModeSymlink | 0o777, size: size})
}

func (m *memFS) Lstat(p string) (fs.FileInfo, error) {
	if err, ok := m.statErr[p]; ok {
		return nil, err
	}
	e, ok := m.entries[p]
	if !ok {
		return nil, &fs.PathError{Op: "lstat", Path: p, Err: fs.ErrNotExist}
	}
	return memInfo{name: path.Base(p), e: e}, nil
}

func (m *memFS) ReadDirNames(p string) ([]string, error) {
	if m.onReadDir != nil {
		m.onReadDir(p)
	}
	if err, ok := m.readDirErr[p]; ok {
		return nil, err
	}
	names := append([]string(nil), m.children[p]...)
	sort.Strings(names)
	return names, nil
}

func (m *memFS) Join(elem ...string) string { return path.Join(elem...) }

func (m *memFS) BlockSize() int64 { return m.blockSize }

type memInfo struct {
	name string
	e    memEntry
}

func (i memInfo) Name() string       { return i.name }
func (i memInfo) Size() int64        { return i.e.size }
func (i memInfo) Mode() fs.FileMode  { return i.e.mode }
func (i memInfo) ModTime() time.Time { return time.Unix(1700000000, 0) }
func (i memInfo) IsDir() bool        { return i.e.mode.IsDir() }
func (i memInfo) Sys() any           { return nil }

var errDenied = errors.New("permission denied")
