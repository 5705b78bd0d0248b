package document

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"wgslsp/internal/source"
)

func writeFile(t *testing.T, dir, name, content string) source.Location {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return source.LocationFromPath(path)
}

func TestStoreIncrementalChange(t *testing.T) {
	s := NewStore()
	loc := source.Location("untitled:a")
	s.Open(loc, "fn f() {\n  return;\n}\n", 1)

	err := s.Change(loc, 2, []Change{
		{Range: &source.Range{Start: source.Position{Line: 1, Character: 2}, End: source.Position{Line: 1, Character: 8}}, Text: "let x = 1"},
		{Range: &source.Range{Start: source.Position{Line: 0, Character: 3}, End: source.Position{Line: 0, Character: 4}}, Text: "main"},
	}, source.UTF16)
	if err != nil {
		t.Fatalf("Change: %v", err)
	}
	got, _ := s.Text(loc)
	if got != "fn main() {\n  let x = 1;\n}\n" {
		t.Fatalf("unexpected text %q", got)
	}
	doc, _ := s.Get(loc)
	if doc.Version != 2 || doc.Owner() != ClientOwned {
		t.Fatalf("unexpected document state %+v", doc)
	}

	if err := s.Change(loc, 3, []Change{{Text: "whole"}}, source.UTF16); err != nil {
		t.Fatalf("full change: %v", err)
	}
	if got, _ := s.Text(loc); got != "whole" {
		t.Fatalf("unexpected text %q", got)
	}
}

func TestStoreChangeRejectsServerOwned(t *testing.T) {
	dir := t.TempDir()
	loc := writeFile(t, dir, "a.wgsl", "fn a() {}")
	s := NewStore()
	if _, err := s.ServerOpen(loc); err != nil {
		t.Fatalf("ServerOpen: %v", err)
	}
	err := s.Change(loc, 1, []Change{{Text: "x"}}, source.UTF16)
	if !errors.Is(err, ErrNotClientOwned) {
		t.Fatalf("expected ErrNotClientOwned, got %v", err)
	}
	if err := s.Change("untitled:missing", 1, nil, source.UTF16); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStoreCloseConvertsToServerOwned(t *testing.T) {
	dir := t.TempDir()
	loc := writeFile(t, dir, "a.wgsl", "on disk")
	s := NewStore()
	s.Open(loc, "in editor", 4)

	if err := s.Close(loc); err != nil {
		t.Fatalf("Close: %v", err)
	}
	doc, ok := s.Get(loc)
	if !ok {
		t.Fatal("closed document must stay known")
	}
	if doc.Owner() != ServerOwned || doc.Text() != "on disk" {
		t.Fatalf("unexpected document after close: %s %q", doc.Owner(), doc.Text())
	}
}

func TestStoreCloseKeepsTextWhenFileMissing(t *testing.T) {
	s := NewStore()
	loc := source.LocationFromPath(filepath.Join(t.TempDir(), "gone.wgsl"))
	s.Open(loc, "unsaved", 1)
	if err := s.Close(loc); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if got, _ := s.Text(loc); got != "unsaved" {
		t.Fatalf("expected editor text to survive, got %q", got)
	}
}

func TestStoreReloadAndRemove(t *testing.T) {
	dir := t.TempDir()
	loc := writeFile(t, dir, "a.wgsl", "v1")
	s := NewStore()
	if _, err := s.EnsureDocument(loc); err != nil {
		t.Fatalf("EnsureDocument: %v", err)
	}
	changed, err := s.Reload(loc)
	if err != nil || changed {
		t.Fatalf("Reload without change = %v, %v", changed, err)
	}
	writeFile(t, dir, "a.wgsl", "v2")
	changed, err = s.Reload(loc)
	if err != nil || !changed {
		t.Fatalf("Reload after change = %v, %v", changed, err)
	}
	if got, _ := s.Text(loc); got != "v2" {
		t.Fatalf("unexpected text %q", got)
	}

	s.Open(loc, "editor", 1)
	if s.Remove(loc) {
		t.Fatal("client-owned documents must not be removed")
	}
	_ = s.Close(loc)
	if !s.Remove(loc) {
		t.Fatal("expected removal")
	}
	if s.Len() != 0 {
		t.Fatalf("expected empty store, got %d", s.Len())
	}
}

func TestStoreServerOpenKeepsClientText(t *testing.T) {
	dir := t.TempDir()
	loc := writeFile(t, dir, "a.wgsl", "disk")
	s := NewStore()
	s.Open(loc, "editor", 1)
	doc, err := s.ServerOpen(loc)
	if err != nil {
		t.Fatalf("ServerOpen: %v", err)
	}
	if doc.Text() != "editor" {
		t.Fatalf("editor buffer was overwritten: %q", doc.Text())
	}
}

func TestStoreServerTextKeepsClientText(t *testing.T) {
	s := NewStore()
	loc := source.Location("file:///ws/a.wgsl")
	s.ServerText(loc, "disk")
	if doc, _ := s.Get(loc); doc.Owner() != ServerOwned || doc.Text() != "disk" {
		t.Fatalf("unexpected document: %v %q", doc.Owner(), doc.Text())
	}
	s.Open(loc, "editor", 1)
	s.ServerText(loc, "disk again")
	if text, _ := s.Text(loc); text != "editor" {
		t.Fatalf("text = %q", text)
	}
}
