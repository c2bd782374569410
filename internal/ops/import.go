package ops

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sadopc/duview/internal/model"
)

// ImportJSON reads an ncdu export and rebuilds the tree with totals
// recomputed and children sorted by size.
func ImportJSON(path string) (*model.Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open import file: %w", err)
	}
	defer f.Close()
	return ImportFrom(f)
}

// ImportFrom is ImportJSON over a reader.
func ImportFrom(r io.Reader) (*model.Node, error) {
	// [version, minor, header, rootDir]
	var raw []json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if len(raw) < 4 {
		return nil, fmt.Errorf("invalid ncdu format: expected at least 4 elements, got %d", len(raw))
	}

	root, err := parseDir(raw[3], "")
	if err != nil {
		return nil, fmt.Errorf("cannot parse root directory: %w", err)
	}
	root.Recompute()
	return root, nil
}

func parseDir(data json.RawMessage, parentPath string) (*model.Node, error) {
	// A directory is an array: [{dir_entry}, child1, child2, ...]
	var elements []json.RawMessage
	if err := json.Unmarshal(data, &elements); err != nil {
		return nil, fmt.Errorf("directory is not an array: %w", err)
	}
	if len(elements) == 0 {
		return nil, fmt.Errorf("empty directory array")
	}

	var entry ncduEntry
	if err := json.Unmarshal(elements[0], &entry); err != nil {
		return nil, fmt.Errorf("cannot parse directory entry: %w", err)
	}
	path := entry.Name
	if parentPath != "" {
		path = filepath.Join(parentPath, entry.Name)
	}
	dir := nodeFromEntry(entry, path)
	dir.IsDir = true
	dir.Children = []*model.Node{}
	dir.Ext = ""
	dir.FileCount = 0

	for i := 1; i < len(elements); i++ {
		child := trimLeadingWhitespace(elements[i])
		switch {
		case len(child) > 0 && child[0] == '[':
			sub, err := parseDir(child, path)
			if err != nil {
				return nil, err
			}
			dir.Fold(sub)
		case len(child) > 0 && child[0] == '{':
			var fe ncduEntry
			if err := json.Unmarshal(child, &fe); err != nil {
				return nil, fmt.Errorf("cannot parse file entry: %w", err)
			}
			dir.Fold(nodeFromEntry(fe, filepath.Join(path, fe.Name)))
		default:
			return nil, fmt.Errorf("unexpected child element at index %d in %s", i, path)
		}
	}
	return dir, nil
}

func nodeFromEntry(e ncduEntry, path string) *model.Node {
	n := &model.Node{
		Name:      filepath.Base(e.Name),
		Path:      path,
		Size:      e.Asize,
		Allocated: e.Dsize,
		FileCount: 1,
		Inode:     e.Ino,
	}
	if e.Mtime != 0 {
		n.Mtime = time.Unix(e.Mtime, 0)
	}
	if e.Hlnkc {
		n.Flag |= model.FlagHardlink
	}
	if e.Err {
		n.Flag |= model.FlagError
	}
	if e.UsageEstimated {
		n.Flag |= model.FlagUsageEstimated
	}
	if e.Symlink {
		n.Flag |= model.FlagSymlink
	} else {
		n.Ext = model.Extension(n.Name)
	}
	return n
}

func trimLeadingWhitespace(data []byte) []byte {
	for i := 0; i < len(data); i++ {
		switch data[i] {
		case ' ', '\t', '\n', '\r':
			continue
		default:
			return data[i:]
		}
	}
	return nil
}
