package util

import (
	"testing"

	"github.com/sadopc/duview/internal/model"
)

func TestIcon(t *testing.T) {
	tests := []struct {
		name string
		node *model.Node
		want string
	}{
		{"nil", nil, " "},
		{"error wins", &model.Node{Name: "x.go", Ext: "go", Flag: model.FlagError}, "⚠️"},
		{"symlink", &model.Node{Name: "l", Flag: model.FlagSymlink}, "🔗"},
		{"known dir", &model.Node{Name: "Node_Modules", IsDir: true}, "📦"},
		{"plain dir", &model.Node{Name: "photos", IsDir: true}, "📁"},
		{"extension", &model.Node{Name: "main.go", Ext: "go"}, "🐹"},
		{"category", &model.Node{Name: "a.tar", Ext: "tar"}, "📦"},
		{"unknown", &model.Node{Name: "README"}, "📄"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Icon(tt.node); got != tt.want {
				t.Errorf("Icon = %q, want %q", got, tt.want)
			}
		})
	}
}
