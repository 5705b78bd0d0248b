package source

import (
	"slices"
	"testing"
)

func TestDecodeStripsBOM(t *testing.T) {
	if got := Decode([]byte{0xEF, 0xBB, 0xBF, 'f', 'n'}); got != "fn" {
		t.Fatalf("Decode = %q", got)
	}
	if Decode([]byte("a\r\nb")) != "a\r\nb" {
		t.Fatal("line endings must be preserved")
	}
	if Decode([]byte{0xEF, 0xBB}) != "\xEF\xBB" {
		t.Fatal("a partial BOM is text")
	}
}

func TestLineIndex(t *testing.T) {
	if got := buildLineIndex("a\nbc\n\nd"); !slices.Equal(got, []uint32{1, 4, 5}) {
		t.Fatalf("line index = %v", got)
	}
	if got := buildLineIndex(""); len(got) != 0 {
		t.Fatalf("line index = %v", got)
	}
}
