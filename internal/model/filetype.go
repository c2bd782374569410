package model

import "sort"

// FileCategory represents a high-level file type category.
type FileCategory int

const (
	CatOther FileCategory = iota
	CatMedia
	CatCode
	CatArchive
	CatDocument
	CatSystem
	CatExecutable
)

var categoryNames = [...]string{
	CatOther:      "Other",
	CatMedia:      "Media",
	CatCode:       "Code",
	CatArchive:    "Archives",
	CatDocument:   "Documents",
	CatSystem:     "System",
	CatExecutable: "Executables",
}

var categoryColors = [...]string{
	CatOther:      "#ABB2BF",
	CatMedia:      "#E06C75",
	CatCode:       "#61AFEF",
	CatArchive:    "#E5C07B",
	CatDocument:   "#98C379",
	CatSystem:     "#C678DD",
	CatExecutable: "#D19A66",
}

// CategoryName returns the display name for a category.
func CategoryName(cat FileCategory) string {
	if cat < 0 || int(cat) >= len(categoryNames) {
		return categoryNames[CatOther]
	}
	return categoryNames[cat]
}

// CategoryColor returns the hex color for a category.
func CategoryColor(cat FileCategory) string {
	if cat < 0 || int(cat) >= len(categoryColors) {
		return categoryColors[CatOther]
	}
	return categoryColors[cat]
}

var extensionsByCategory = map[FileCategory][]string{
	CatMedia: {
		"jpg", "jpeg", "png", "gif", "bmp", "svg", "webp", "ico", "tiff", "tif",
		"psd", "raw", "cr2", "nef", "heic", "heif", "avif",
		"mp4", "mkv", "avi", "mov", "wmv", "flv", "webm", "m4v", "mpg", "mpeg",
		"mp3", "flac", "wav", "aac", "ogg", "m4a", "opus", "aiff", "mid",
	},
	CatCode: {
		"go", "py", "js", "jsx", "ts", "tsx", "rs", "c", "cpp", "cc", "h", "hpp",
		"java", "kt", "swift", "rb", "php", "cs", "scala", "ex", "exs", "hs",
		"lua", "r", "dart", "vue", "svelte", "html", "htm", "css", "scss",
		"sql", "sh", "bash", "zsh", "fish", "ps1", "bat", "zig", "asm", "pl",
		"json", "yaml", "yml", "toml", "xml", "proto", "graphql",
	},
	CatArchive: {
		"zip", "tar", "gz", "bz2", "xz", "zst", "lz4", "rar", "7z", "iso", "dmg",
		"pkg", "deb", "rpm", "snap", "appimage", "tgz", "jar", "war",
	},
	CatDocument: {
		"pdf", "doc", "docx", "xls", "xlsx", "ppt", "pptx", "odt", "ods", "odp",
		"rtf", "txt", "md", "rst", "tex", "csv", "tsv", "epub", "mobi", "pages",
	},
	CatSystem: {
		"log", "bak", "tmp", "temp", "swp", "pid", "lock", "cache", "sock",
		"dat", "db", "sqlite", "sqlite3", "plist", "ini", "cfg", "conf", "sys",
		"dll", "dylib", "so",
	},
	CatExecutable: {
		"exe", "app", "msi", "bin", "elf", "out", "wasm", "pyc", "class", "o", "a",
	},
}

var extMap = func() map[string]FileCategory {
	m := make(map[string]FileCategory)
	for cat, exts := range extensionsByCategory {
		for _, e := range exts {
			m[e] = cat
		}
	}
	return m
}()

// ClassifyExt returns the category for a lowercase, dotless extension.
func ClassifyExt(ext string) FileCategory {
	if cat, ok := extMap[ext]; ok {
		return cat
	}
	return CatOther
}

// ClassifyFile returns the category for a file name.
func ClassifyFile(name string) FileCategory {
	return ClassifyExt(Extension(name))
}

// CategoryTotal is one row of a breakdown.
type CategoryTotal struct {
	Category FileCategory
	Size     int64
	Count    int64
}

// CategoryBreakdown totals the files under root per category, largest first.
// Directories, symlinks and duplicate hardlinks are not counted.
func CategoryBreakdown(root *Node) []CategoryTotal {
	totals := make(map[FileCategory]*CategoryTotal)
	root.Walk(func(n *Node) bool {
		if n.IsDir || n.IsSymlink() || n.IsDuplicateHardlink() {
			return true
		}
		cat := ClassifyExt(n.Ext)
		t, ok := totals[cat]
		if !ok {
			t = &CategoryTotal{Category: cat}
			totals[cat] = t
		}
		t.Size = saturatingAddInt64(t.Size, n.Size)
		t.Count++
		return true
	})

	out := make([]CategoryTotal, 0, len(totals))
	for _, t := range totals {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Size != out[j].Size {
			return out[i].Size > out[j].Size
		}
		return out[i].Category < out[j].Category
	})
	return out
}
