package discovery

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// createTree lays out files (content irrelevant) under a temp root.
func createTree(t *testing.T, files ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, f := range files {
		path := filepath.Join(root, f)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir failed: %v", err)
		}
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatalf("write failed: %v", err)
		}
	}
	return root
}

func TestFind(t *testing.T) {
	root := createTree(t, "b.png", "a.JPG", "notes.txt", "sub/c.png", "sub/deeper/d.gif")

	tests := []struct {
		name string
		exts []string
		mode Mode
		want []string
	}{
		{"top-level defaults", nil, TopLevel, []string{"a.JPG", "b.png"}},
		{"recursive defaults", nil, Recursive, []string{"a.JPG", "b.png", "sub/c.png", "sub/deeper/d.gif"}},
		{"png only without dot", []string{"PNG"}, Recursive, []string{"b.png", "sub/c.png"}},
		{"txt", []string{".txt"}, TopLevel, []string{"notes.txt"}},
		{"no match", []string{".webp"}, Recursive, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Find(root, tt.exts, tt.mode)
			if err != nil {
				t.Fatalf("Find failed: %v", err)
			}
			var want []string
			for _, w := range tt.want {
				want = append(want, filepath.Join(root, w))
			}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("got %v, want %v", got, want)
			}
		})
	}
}

func TestFind_BadRoot(t *testing.T) {
	if _, err := Find("/nonexistent/root", nil, Recursive); err == nil {
		t.Error("Find should fail for a missing root")
	}

	root := createTree(t, "a.png")
	if _, err := Find(filepath.Join(root, "a.png"), nil, TopLevel); err == nil {
		t.Error("Find should fail when root is a file")
	}
}

func TestNormalizeExtensions(t *testing.T) {
	got := normalizeExtensions([]string{"PNG", ".png", " jpg ", ""})
	want := []string{".png", ".jpg"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}
