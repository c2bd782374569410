package ops

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/sadopc/duview/internal/model"
)

// ncdu-compatible JSON format:
// [1, 0, {"progname":"duview","progver":"1.0","timestamp":1234567890},
//   [{"name":"/path","asize":123,"dsize":456},
//     {"name":"file1","asize":10,"dsize":20},
//     [{"name":"subdir","asize":30,"dsize":40},
//       {"name":"file2","asize":5,"dsize":10}
//     ]
//   ]
// ]
//
// asize carries the node's Size and dsize its Allocated bytes.

const progName = "duview"

type ncduHeader struct {
	Progname  string `json:"progname"`
	Progver   string `json:"progver"`
	Timestamp int64  `json:"timestamp"`
}

type ncduEntry struct {
	Name           string `json:"name"`
	Asize          int64  `json:"asize"`
	Dsize          int64  `json:"dsize,omitempty"`
	Ino            uint64 `json:"ino,omitempty"`
	Mtime          int64  `json:"mtime,omitempty"`
	Hlnkc          bool   `json:"hlnkc,omitempty"`
	Err            bool   `json:"read_error,omitempty"`
	Symlink        bool   `json:"symlink,omitempty"`
	UsageEstimated bool   `json:"usage_estimated,omitempty"`
}

func entryFor(n *model.Node) ncduEntry {
	e := ncduEntry{
		Name:           n.Name,
		Asize:          n.Size,
		Dsize:          n.Allocated,
		Ino:            n.Inode,
		Hlnkc:          n.IsDuplicateHardlink(),
		Err:            n.HasError(),
		Symlink:        n.IsSymlink(),
		UsageEstimated: n.UsageEstimated(),
	}
	if !n.Mtime.IsZero() {
		e.Mtime = n.Mtime.Unix()
	}
	return e
}

// errWriter wraps an io.Writer and captures the first write error.
// Subsequent writes after an error are no-ops, avoiding verbose per-call checks.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) WriteString(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = io.WriteString(ew.w, s)
}

func (ew *errWriter) Write(data []byte) (int, error) {
	if ew.err != nil {
		return 0, ew.err
	}
	n, err := ew.w.Write(data)
	if err != nil {
		ew.err = err
	}
	return n, err
}

func (ew *errWriter) writeJSON(v any) {
	if ew.err != nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		ew.err = err
		return
	}
	_, _ = ew.Write(data)
}

// ExportJSON writes the tree in ncdu format to path, or to stdout for "-".
// File targets are written to a temp file and renamed into place, so a
// failed export never leaves a partial file behind.
func ExportJSON(root *model.Node, path string, version string) (retErr error) {
	if path == "-" {
		return ExportTo(root, os.Stdout, version)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".duview-export-*.tmp")
	if err != nil {
		return fmt.Errorf("cannot create export file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if retErr != nil {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if err := ExportTo(root, tmp, version); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		// On Windows, Rename cannot replace an existing destination.
		if runtime.GOOS != "windows" {
			return err
		}
		if rmErr := os.Remove(path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			return fmt.Errorf("cannot replace export file %s: %w", path, err)
		}
		if err := os.Rename(tmpPath, path); err != nil {
			return err
		}
	}
	return nil
}

// ExportTo writes the tree in ncdu format to out.
func ExportTo(root *model.Node, out io.Writer, version string) error {
	if root == nil {
		return errors.New("nothing to export")
	}
	bw := bufio.NewWriterSize(out, 64*1024)
	ew := &errWriter{w: bw}

	if version == "" {
		version = "dev"
	}
	ew.WriteString("[1, 0, ")
	ew.writeJSON(ncduHeader{
		Progname:  progName,
		Progver:   version,
		Timestamp: time.Now().Unix(),
	})
	ew.WriteString(",\n")

	if root.IsDir {
		writeDir(ew, root)
	} else {
		// ncdu roots are always directories.
		ew.WriteString("[")
		ew.writeJSON(ncduEntry{Name: filepath.Dir(root.Path)})
		ew.WriteString(",\n")
		ew.writeJSON(entryFor(root))
		ew.WriteString("]")
	}

	ew.WriteString("\n]\n")
	if ew.err != nil {
		return ew.err
	}
	return bw.Flush()
}

func writeDir(ew *errWriter, dir *model.Node) {
	entry := entryFor(dir)
	if dir.Parent == nil {
		entry.Name = dir.Path
	}
	ew.WriteString("[")
	ew.writeJSON(entry)

	for _, child := range dir.Children {
		if ew.err != nil {
			return
		}
		ew.WriteString(",\n")
		if child.IsDir {
			writeDir(ew, child)
		} else {
			ew.writeJSON(entryFor(child))
		}
	}
	ew.WriteString("]")
}
