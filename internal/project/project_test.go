package project

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func write(t *testing.T, path, text string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(text), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestFindConfigWalksUp(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, ConfigName), "[server]\n")
	deep := filepath.Join(root, "shaders", "pbr")
	if err := os.MkdirAll(deep, 0o755); err != nil {
		t.Fatal(err)
	}

	path, ok, err := FindConfig(deep)
	if err != nil || !ok {
		t.Fatalf("FindConfig: ok=%v err=%v", ok, err)
	}
	if want := filepath.Join(root, ConfigName); path != want {
		t.Fatalf("path = %q, want %q", path, want)
	}
	got, err := FindRoot(deep)
	if err != nil {
		t.Fatal(err)
	}
	if got != root {
		t.Fatalf("root = %q, want %q", got, root)
	}
}

func TestScan(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, "main.wgsl"), "fn main() {}\n")
	write(t, filepath.Join(root, "lib", "math.wgsl"), "fn f() {}\n")
	write(t, filepath.Join(root, "lib", "notes.txt"), "ignored")
	write(t, filepath.Join(root, ".git", "x.wgsl"), "hidden")

	files, err := Scan(context.Background(), []string{root, root, filepath.Join(root, "missing")}, nil)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("got %d files, want 2: %+v", len(files), files)
	}
	if filepath.Base(files[0].Path) != "math.wgsl" || files[1].Text != "fn main() {}\n" {
		t.Fatalf("unexpected files: %+v", files)
	}
}

func TestCombineDependsOnOrder(t *testing.T) {
	a, b := HashSource("a"), HashSource("b")
	if Combine(a, b) == Combine(b, a) {
		t.Fatal("Combine ignored order")
	}
	if Combine(a, b) != Combine(a, b) {
		t.Fatal("Combine is not deterministic")
	}
}
