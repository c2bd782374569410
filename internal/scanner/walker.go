package scanner

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/sadopc/duview/internal/logging"
	"github.com/sadopc/duview/internal/model"
)

// inodeKey uniquely identifies a file across filesystems using both device and
// inode number. Using inode alone can cause false dedup on cross-filesystem scans.
type inodeKey struct {
	dev uint64
	ino uint64
}

// frame is a directory whose entries are still being visited.
type frame struct {
	node  *model.Node
	names []string
	next  int
}

// Walker performs one depth-first traversal. It is not safe for concurrent
// use; a Session owns exactly one.
type Walker struct {
	fs        FS
	opts      Options
	sessionID string
	cancelled *atomic.Bool
	seen      map[inodeKey]struct{}
	progress  chan<- Progress
	blockSize int64
	exclude   map[string]struct{}

	sinceYield int
	files      int64
	dirs       int64
	bytes      int64
	errors     int64
	start      time.Time
}

// NewWalker returns a walker over fsys. seen is the hardlink set for the
// session; cancelled may be nil when only ctx is used for cancellation.
func NewWalker(fsys FS, opts Options, sessionID string, cancelled *atomic.Bool, seen map[inodeKey]struct{}, progress chan<- Progress) *Walker {
	opts = opts.normalize()
	if cancelled == nil {
		cancelled = new(atomic.Bool)
	}
	if seen == nil {
		seen = make(map[inodeKey]struct{})
	}
	w := &Walker{
		fs:        fsys,
		opts:      opts,
		sessionID: sessionID,
		cancelled: cancelled,
		seen:      seen,
		progress:  progress,
		blockSize: model.DefaultBlockSize,
		exclude:   make(map[string]struct{}, len(opts.ExcludeNames)),
	}
	if bs, ok := fsys.(BlockSizer); ok && bs.BlockSize() > 0 {
		w.blockSize = bs.BlockSize()
	}
	for _, name := range opts.ExcludeNames {
		w.exclude[name] = struct{}{}
	}
	return w
}

// Walk scans root and returns its tree. A root that cannot be stat'd is an
// error; any failure below the root is recorded on the node and the walk
// continues. On cancellation Walk returns ErrCancelled and no tree.
func (w *Walker) Walk(ctx context.Context, root string) (*model.Node, error) {
	w.start = time.Now()
	if err := w.visit(ctx); err != nil {
		return nil, err
	}

	info, err := w.fs.Lstat(root)
	if err != nil {
		return nil, err
	}
	node := w.newNode(root, baseName(root), info)
	if !node.IsDir {
		return node, nil
	}

	stack := []*frame{w.open(node)}
	for {
		top := stack[len(stack)-1]
		if top.next >= len(top.names) {
			stack = stack[:len(stack)-1]
			w.finish(top.node)
			if len(stack) == 0 {
				return top.node, nil
			}
			stack[len(stack)-1].node.Fold(top.node)
			continue
		}

		name := top.names[top.next]
		top.next++
		if w.skip(name) {
			continue
		}
		if err := w.visit(ctx); err != nil {
			logging.Scanner.Printf("session %s: cancelled at %s", w.sessionID, top.node.Path)
			return nil, err
		}

		path := w.fs.Join(top.node.Path, name)
		info, err := w.fs.Lstat(path)
		if err != nil {
			top.node.Fold(w.errorLeaf(path, name, err))
			continue
		}
		child := w.newNode(path, name, info)
		if child.IsDir {
			stack = append(stack, w.open(child))
			continue
		}
		top.node.Fold(child)
	}
}

func (w *Walker) skip(name string) bool {
	if w.opts.SkipHidden && strings.HasPrefix(name, ".") {
		return true
	}
	_, excluded := w.exclude[name]
	return excluded
}

// visit runs before every node: it checks cancellation and yields every
// BatchSize entries, checking again after the yield.
func (w *Walker) visit(ctx context.Context) error {
	if w.isCancelled(ctx) {
		return ErrCancelled
	}
	w.sinceYield++
	if w.sinceYield < w.opts.BatchSize {
		return nil
	}
	w.sinceYield = 0
	w.opts.Yield()
	if w.isCancelled(ctx) {
		return ErrCancelled
	}
	return nil
}

func (w *Walker) isCancelled(ctx context.Context) bool {
	if w.cancelled.Load() {
		return true
	}
	if ctx != nil && ctx.Err() != nil {
		w.cancelled.Store(true)
		return true
	}
	return false
}

// open lists a directory. A listing failure flags the node and leaves it
// with no children.
func (w *Walker) open(node *model.Node) *frame {
	names, err := w.fs.ReadDirNames(node.Path)
	if err != nil {
		node.Flag |= model.FlagError
		w.errors++
		logging.Scanner.Printf("readdir %s: %v", node.Path, err)
		return &frame{node: node}
	}
	return &frame{node: node, names: names}
}

// finish sorts a completed directory and reports it.
func (w *Walker) finish(node *model.Node) {
	node.SortChildrenBySize()
	w.dirs++
	send(w.progress, Progress{
		SessionID:    w.sessionID,
		Path:         node.Path,
		Size:         node.Size,
		FilesScanned: w.files,
		DirsScanned:  w.dirs,
		BytesFound:   w.bytes,
		Errors:       w.errors,
		StartTime:    w.start,
		Duration:     time.Since(w.start),
	})
}

func (w *Walker) errorLeaf(path, name string, err error) *model.Node {
	w.errors++
	logging.Scanner.Printf("lstat %s: %v", path, err)
	return &model.Node{Name: name, Path: path, Flag: model.FlagError}
}

// newNode builds the node for one stat result. Directories come back empty;
// everything else is a finished leaf.
func (w *Walker) newNode(path, name string, info fs.FileInfo) *model.Node {
	mode := info.Mode()
	switch {
	case mode&fs.ModeSymlink != 0:
		w.files++
		size := info.Size()
		w.bytes += size
		return &model.Node{
			Name:      name,
			Path:      path,
			Size:      size,
			Allocated: model.AllocatedBytes(size, w.blockSize),
			FileCount: 1,
			Mtime:     info.ModTime(),
			Flag:      model.FlagSymlink,
		}
	case mode.IsDir():
		return model.NewDir(name, path, info.ModTime())
	default:
		w.files++
		n := &model.Node{
			Name:      name,
			Path:      path,
			FileCount: 1,
			Mtime:     info.ModTime(),
			Ext:       model.Extension(name),
		}
		w.sizeFile(n, info)
		w.bytes += n.Size
		return n
	}
}

// sizeFile applies hardlink dedup and block accounting. Without platform
// stat data the logical length is used and no dedup happens.
func (w *Walker) sizeFile(n *model.Node, info fs.FileInfo) {
	st := getStatInfo(info)
	if !st.ok {
		n.Size = info.Size()
		n.Allocated = model.AllocatedBytes(n.Size, w.blockSize)
		n.Flag |= model.FlagUsageEstimated
		return
	}

	n.Inode = st.inode
	if st.nlink > 1 {
		key := inodeKey{dev: st.dev, ino: st.inode}
		if _, dup := w.seen[key]; dup {
			n.Flag |= model.FlagHardlink
			return
		}
		w.seen[key] = struct{}{}
	}
	n.Size = st.blocks * model.BlockUnit
	n.Allocated = n.Size
}

func baseName(path string) string {
	name := filepath.Base(path)
	if name == "." || name == string(filepath.Separator) {
		return path
	}
	return name
}
