package module

import (
	"reflect"
	"testing"

	"wgslsp/internal/source"
)

func TestPreprocessHeader(t *testing.T) {
	src := "#define_import_path lib::lights\n" +
		"#import lib::util\n" +
		"#import lib::math::{PI, TAU as tau}, \"shared/common.wgsl\"\n" +
		"  #import lib::bindings as b // comment\n" +
		"#importer nope\n" +
		"#import 1bad\n" +
		"fn f() {}\n"
	h := Preprocess("file:///a.wgsl", src)
	if !h.Explicit || h.Name != "lib::lights" {
		t.Fatalf("name = %q explicit=%v", h.Name, h.Explicit)
	}
	if got := src[h.NameSpan.Start:h.NameSpan.End]; got != "lib::lights" {
		t.Fatalf("name span covers %q", got)
	}
	want := []string{"lib::util", "lib::math", "shared/common.wgsl", "lib::bindings"}
	if got := h.ImportNames(); !reflect.DeepEqual(got, want) {
		t.Fatalf("imports = %v, want %v", got, want)
	}
	for _, imp := range h.Imports {
		if got := src[imp.Span.Start:imp.Span.End]; got != imp.Name {
			t.Errorf("span of %q covers %q", imp.Name, got)
		}
	}
}

func TestPreprocessFallsBackToLocation(t *testing.T) {
	h := Preprocess("file:///x/y.wgsl", "fn f() {}")
	if h.Explicit || h.Name != "file:///x/y.wgsl" {
		t.Fatalf("unexpected header %+v", h)
	}
	if len(h.Imports) != 0 {
		t.Fatalf("unexpected imports %+v", h.Imports)
	}
}

func TestPreprocessKeepsPartialImportList(t *testing.T) {
	h := Preprocess("a", "#import a::b, c::{d\n#import \"unterminated\n")
	if got := h.ImportNames(); !reflect.DeepEqual(got, []string{"a::b"}) {
		t.Fatalf("imports = %v", got)
	}
}

func TestIndexBindEvictsPreviousProvider(t *testing.T) {
	x := NewIndex()
	a, b := source.Location("file:///a"), source.Location("file:///b")
	x.Bind("lib", a)
	x.Put(&Entry{Location: a, Name: "lib"})

	dropped := x.Bind("lib", b)
	if len(dropped) != 1 || dropped[0].Location != a {
		t.Fatalf("dropped = %+v", dropped)
	}
	if loc, _ := x.Lookup("lib"); loc != b {
		t.Fatalf("lib bound to %s", loc)
	}
	if _, ok := x.NameOf(a); ok {
		t.Fatalf("a must lose its binding")
	}
	if _, ok := x.Entry(a); ok {
		t.Fatalf("a must lose its entry")
	}
}

func TestIndexRenameDropsEntry(t *testing.T) {
	x := NewIndex()
	a := source.Location("file:///a")
	x.Bind("old", a)
	x.Put(&Entry{Location: a, Name: "old"})
	dropped := x.Bind("new", a)
	if len(dropped) != 1 || dropped[0].Name != "old" {
		t.Fatalf("dropped = %+v", dropped)
	}
	if got := x.Names(); !reflect.DeepEqual(got, []string{"new"}) {
		t.Fatalf("names = %v", got)
	}
}

func TestIndexDropUnbinds(t *testing.T) {
	x := NewIndex()
	a := source.Location("file:///a")
	x.Bind("m", a)
	x.Put(&Entry{Location: a, Name: "m"})
	e, ok := x.Drop(a)
	if !ok || e.Name != "m" {
		t.Fatalf("drop = %+v, %v", e, ok)
	}
	if _, ok := x.Lookup("m"); ok {
		t.Fatalf("m still bound")
	}
	if _, ok := x.Drop(a); ok {
		t.Fatalf("second drop must report nothing")
	}
}

func TestIndexForget(t *testing.T) {
	x := NewIndex()
	a := source.Location("file:///a")
	x.Bind("m", a)
	x.Put(&Entry{Location: a, Name: "m"})
	if name, ok := x.Forget(a); !ok || name != "m" {
		t.Fatalf("forget = %q, %v", name, ok)
	}
	if len(x.Names()) != 0 || len(x.Entries()) != 0 {
		t.Fatalf("index not empty")
	}
}

func TestIndexPutUnboundPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	x := NewIndex()
	x.Put(&Entry{Location: "file:///a", Name: "ghost"})
}
