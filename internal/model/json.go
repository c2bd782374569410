package model

import (
	"encoding/json"
	"time"
)

type nodeJSON struct {
	Name                string    `json:"name"`
	Path                string    `json:"path"`
	IsDir               bool      `json:"isDirectory"`
	IsSymlink           bool      `json:"isSymlink"`
	Size                int64     `json:"size"`
	Allocated           int64     `json:"allocatedSize"`
	FileCount           int64     `json:"fileCount"`
	DirCount            int64     `json:"directoryCount"`
	Mtime               time.Time `json:"modifiedTime"`
	Ext                 string    `json:"extension"`
	HasError            bool      `json:"hasError"`
	IsDuplicateHardlink bool      `json:"isDuplicateHardlink"`
	UsageEstimated      bool      `json:"usageEstimated,omitempty"`
	Children            *[]*Node  `json:"children,omitempty"`
}

// MarshalJSON emits the node with its flags spelled out. Directories always
// carry a children array, files never do.
func (n *Node) MarshalJSON() ([]byte, error) {
	v := nodeJSON{
		Name:                n.Name,
		Path:                n.Path,
		IsDir:               n.IsDir,
		IsSymlink:           n.IsSymlink(),
		Size:                n.Size,
		Allocated:           n.Allocated,
		FileCount:           n.FileCount,
		DirCount:            n.DirCount,
		Mtime:               n.Mtime,
		Ext:                 n.Ext,
		HasError:            n.HasError(),
		IsDuplicateHardlink: n.IsDuplicateHardlink(),
		UsageEstimated:      n.UsageEstimated(),
	}
	if n.IsDir {
		children := n.Children
		if children == nil {
			children = []*Node{}
		}
		v.Children = &children
	}
	return json.Marshal(v)
}

// UnmarshalJSON restores a node and relinks its children to it.
func (n *Node) UnmarshalJSON(data []byte) error {
	var v nodeJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = Node{
		Name:      v.Name,
		Path:      v.Path,
		IsDir:     v.IsDir,
		Size:      v.Size,
		Allocated: v.Allocated,
		FileCount: v.FileCount,
		DirCount:  v.DirCount,
		Mtime:     v.Mtime,
		Ext:       v.Ext,
	}
	if v.IsSymlink {
		n.Flag |= FlagSymlink
	}
	if v.HasError {
		n.Flag |= FlagError
	}
	if v.IsDuplicateHardlink {
		n.Flag |= FlagHardlink
	}
	if v.UsageEstimated {
		n.Flag |= FlagUsageEstimated
	}
	if n.IsDir {
		n.Children = []*Node{}
		if v.Children != nil {
			n.Children = *v.Children
		}
		for _, c := range n.Children {
			c.Parent = n
		}
	}
	return nil
}
