package ops

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Delete removes a file, symlink or directory tree at path. path must lie
// strictly inside rootPath, and no directory between them may be a symlink:
// the parent is resolved and must match its lexical position under the root.
// Symlinks themselves are removed, never followed.
func Delete(path string, rootPath string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("cannot resolve path %s: %w", path, err)
	}
	absRoot, err := filepath.Abs(rootPath)
	if err != nil {
		return fmt.Errorf("cannot resolve root %s: %w", rootPath, err)
	}

	rel, ok := within(absRoot, absPath)
	if !ok || rel == "." {
		return fmt.Errorf("refusing to delete %s: outside scan root %s", absPath, absRoot)
	}

	if _, err := os.Lstat(absPath); err != nil {
		return fmt.Errorf("cannot access %s: %w", absPath, err)
	}

	realRoot, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		return fmt.Errorf("cannot resolve root %s: %w", absRoot, err)
	}
	parent := filepath.Dir(absPath)
	realParent, err := filepath.EvalSymlinks(parent)
	if err != nil {
		return fmt.Errorf("cannot resolve %s: %w", parent, err)
	}
	wantRel, _ := within(absRoot, parent)
	gotRel, ok := within(realRoot, realParent)
	if !ok || gotRel != wantRel {
		return fmt.Errorf("refusing to delete %s: path crosses a symlinked directory", absPath)
	}

	if err := deleteResolvedPath(realParent, filepath.Base(absPath)); err != nil {
		return fmt.Errorf("delete %s: %w", absPath, err)
	}
	return nil
}

// within returns target relative to root and whether it stays inside root.
// Names that merely start with ".." (like "..foo") are inside.
func within(root, target string) (string, bool) {
	rel, err := filepath.Rel(root, target)
	if err != nil {
		return "", false
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return rel, false
	}
	return rel, true
}
