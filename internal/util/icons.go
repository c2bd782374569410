package util

import (
	"strings"

	"github.com/sadopc/duview/internal/model"
)

// Icon picks a single glyph for a tree row. Flags win over names so a
// broken or linked entry is recognisable at a glance.
func Icon(n *model.Node) string {
	switch {
	case n == nil:
		return " "
	case n.HasError():
		return "⚠️"
	case n.IsSymlink():
		return "🔗"
	case n.IsDir:
		if icon, ok := dirIcons[strings.ToLower(n.Name)]; ok {
			return icon
		}
		return "📁"
	}
	if icon, ok := extIcons[n.Ext]; ok {
		return icon
	}
	return categoryIcons[model.ClassifyExt(n.Ext)]
}

var dirIcons = map[string]string{
	".git":         "🔀",
	"node_modules": "📦",
	"vendor":       "📦",
	".cache":       "💾",
	"cache":        "💾",
	"tmp":          "🕐",
	"build":        "🔨",
	"dist":         "📤",
	"target":       "🎯",
	"src":          "💻",
	"docs":         "📝",
	"bin":          "⚡",
}

// extIcons refines categoryIcons for a few very common extensions.
var extIcons = map[string]string{
	"go":   "🐹",
	"py":   "🐍",
	"rs":   "🦀",
	"md":   "📝",
	"pdf":  "📕",
	"log":  "📜",
	"lock": "🔒",
	"iso":  "💿",
	"dmg":  "💿",
	"sql":  "🗃️",
	"db":   "🗄️",
}

var categoryIcons = map[model.FileCategory]string{
	model.CatOther:      "📄",
	model.CatMedia:      "🎞️",
	model.CatCode:       "💻",
	model.CatArchive:    "📦",
	model.CatDocument:   "📄",
	model.CatSystem:     "⚙️",
	model.CatExecutable: "⚡",
}
