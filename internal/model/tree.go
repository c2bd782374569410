package model

import (
	"errors"
	"path/filepath"
	"sort"
	"time"
)

const (
	maxInt64 = int64(^uint64(0) >> 1)
	minInt64 = -maxInt64 - 1
)

// NodeFlag represents special file attributes.
type NodeFlag uint8

const (
	FlagNone    NodeFlag = 0
	FlagSymlink NodeFlag = 1 << iota
	FlagError
	// FlagHardlink marks a later occurrence of an already counted inode.
	FlagHardlink
	// FlagUsageEstimated marks nodes whose sizes come from the logical
	// length because block counts were not available.
	FlagUsageEstimated
)

var (
	ErrNotFound   = errors.New("node not found")
	ErrRemoveRoot = errors.New("cannot remove scan root")
)

// Node is one filesystem entry in a scan result. Files and symlinks have
// nil Children; directories always have a non-nil slice.
type Node struct {
	Name      string
	Path      string
	IsDir     bool
	Size      int64
	Allocated int64
	FileCount int64
	DirCount  int64
	Mtime     time.Time
	Ext       string
	Inode     uint64
	Flag      NodeFlag
	Children  []*Node
	Parent    *Node
}

// NewDir returns an empty directory node.
func NewDir(name, path string, mtime time.Time) *Node {
	return &Node{
		Name:     name,
		Path:     path,
		IsDir:    true,
		Mtime:    mtime,
		Children: []*Node{},
	}
}

func (n *Node) IsSymlink() bool           { return n.Flag&FlagSymlink != 0 }
func (n *Node) HasError() bool            { return n.Flag&FlagError != 0 }
func (n *Node) IsDuplicateHardlink() bool { return n.Flag&FlagHardlink != 0 }
func (n *Node) UsageEstimated() bool      { return n.Flag&FlagUsageEstimated != 0 }

// ItemCount is the number of descendants (files plus directories).
func (n *Node) ItemCount() int64 {
	return saturatingAddInt64(n.FileCount, n.DirCount)
}

// Fold appends child and adds its totals to n. A directory child counts as
// one directory plus its own directory count; anything else counts as one
// file.
func (n *Node) Fold(child *Node) {
	child.Parent = n
	n.Children = append(n.Children, child)
	n.Size = saturatingAddInt64(n.Size, child.Size)
	n.Allocated = saturatingAddInt64(n.Allocated, child.Allocated)
	if child.IsDir {
		n.DirCount = saturatingAddInt64(n.DirCount, saturatingAddInt64(1, child.DirCount))
		n.FileCount = saturatingAddInt64(n.FileCount, child.FileCount)
	} else {
		n.FileCount = saturatingAddInt64(n.FileCount, 1)
	}
}

// SortChildrenBySize orders children by Size, largest first. Ties keep
// their scan order.
func (n *Node) SortChildrenBySize() {
	sort.SliceStable(n.Children, func(i, j int) bool {
		return n.Children[i].Size > n.Children[j].Size
	})
}

// Recompute rebuilds n's aggregates from its children, bottom-up.
func (n *Node) Recompute() {
	if !n.IsDir {
		return
	}
	children := n.Children
	n.Children = make([]*Node, 0, len(children))
	n.Size, n.Allocated, n.FileCount, n.DirCount = 0, 0, 0, 0
	for _, c := range children {
		c.Recompute()
		n.Fold(c)
	}
	n.SortChildrenBySize()
}

// Walk visits n and its descendants in pre-order. Returning false from fn
// skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	stack := []*Node{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(cur) {
			continue
		}
		for i := len(cur.Children) - 1; i >= 0; i-- {
			stack = append(stack, cur.Children[i])
		}
	}
}

// Find returns the node whose Path equals path, or nil.
func (n *Node) Find(path string) *Node {
	path = filepath.Clean(path)
	var found *Node
	n.Walk(func(c *Node) bool {
		if found != nil {
			return false
		}
		if filepath.Clean(c.Path) == path {
			found = c
			return false
		}
		// Only descend into directories that can contain path.
		return c == n || isWithin(path, c.Path)
	})
	return found
}

// Remove detaches the node at path from the tree rooted at n and subtracts
// its totals from every ancestor. Nothing on disk is touched.
func (n *Node) Remove(path string) (*Node, error) {
	target := n.Find(path)
	if target == nil {
		return nil, ErrNotFound
	}
	if target == n || target.Parent == nil {
		return nil, ErrRemoveRoot
	}

	dirs := int64(0)
	if target.IsDir {
		dirs = saturatingAddInt64(target.DirCount, 1)
	}
	files := target.FileCount
	if !target.IsDir {
		files = 1
	}

	parent := target.Parent
	for i, c := range parent.Children {
		if c == target {
			parent.Children = append(parent.Children[:i], parent.Children[i+1:]...)
			break
		}
	}
	for a := parent; a != nil; a = a.Parent {
		a.Size = clampSub(a.Size, target.Size)
		a.Allocated = clampSub(a.Allocated, target.Allocated)
		a.FileCount = clampSub(a.FileCount, files)
		a.DirCount = clampSub(a.DirCount, dirs)
	}
	target.Parent = nil
	return target, nil
}

// Depth is the number of ancestors above n.
func (n *Node) Depth() int {
	d := 0
	for p := n.Parent; p != nil; p = p.Parent {
		d++
	}
	return d
}

func isWithin(path, dir string) bool {
	rel, err := filepath.Rel(filepath.Clean(dir), path)
	if err != nil {
		return false
	}
	return rel != ".." && !hasDotDotPrefix(rel)
}

func hasDotDotPrefix(rel string) bool {
	return len(rel) >= 3 && rel[:2] == ".." && rel[2] == filepath.Separator
}

func clampSub(a, b int64) int64 {
	v := saturatingAddInt64(a, -b)
	if v < 0 {
		return 0
	}
	return v
}

func saturatingAddInt64(a, b int64) int64 {
	if b > 0 && a > maxInt64-b {
		return maxInt64
	}
	if b < 0 && a < minInt64-b {
		return minInt64
	}
	return a + b
}
