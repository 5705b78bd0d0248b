package document

import (
	"math/rand"
	"strings"
	"testing"

	"wgslsp/internal/source"
)

func TestRopeReplaceMatchesStringEdits(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	want := strings.Repeat("fn main() -> f32 { return 1.0; }\n// é𝄞 comment\n", 80)
	rope := NewRope(want)

	inserts := []string{"", "x", "\n", "é", "𝄞𝄞", strings.Repeat("abc\n", 400)}
	for i := 0; i < 500; i++ {
		start := rng.Intn(len(want) + 1)
		end := start + rng.Intn(len(want)-start+1)
		if rng.Intn(3) == 0 {
			end = start
		}
		text := inserts[rng.Intn(len(inserts))]
		// keep edits on rune boundaries like an editor would
		for start > 0 && start < len(want) && !isRuneStart(want[start]) {
			start--
		}
		for end < len(want) && !isRuneStart(want[end]) {
			end++
		}
		if end < start {
			end = start
		}

		want = want[:start] + text + want[end:]
		rope.Replace(start, end, text)

		if rope.Len() != len(want) {
			t.Fatalf("step %d: Len = %d, want %d", i, rope.Len(), len(want))
		}
	}
	if got := rope.String(); got != want {
		t.Fatalf("rope diverged from reference text")
	}
	for _, c := range rope.chunks {
		if len(c.text) > maxChunk+4 {
			t.Fatalf("chunk too large: %d", len(c.text))
		}
		if c.lines != strings.Count(c.text, "\n") {
			t.Fatalf("stale line count")
		}
	}
}

func isRuneStart(b byte) bool { return b&0xC0 != 0x80 }

func TestRopeOffsetAt(t *testing.T) {
	rope := NewRope("ab\n𝄞cd\n\nlast")
	tests := []struct {
		pos  source.Position
		enc  source.Encoding
		want int
	}{
		{source.Position{Line: 0, Character: 1}, source.UTF32, 1},
		{source.Position{Line: 1, Character: 1}, source.UTF32, 7},
		{source.Position{Line: 1, Character: 2}, source.UTF16, 7},
		{source.Position{Line: 1, Character: 1}, source.UTF16, 3},
		{source.Position{Line: 1, Character: 99}, source.UTF32, 9},
		{source.Position{Line: 2, Character: 0}, source.UTF32, 10},
		{source.Position{Line: 3, Character: 2}, source.UTF32, 13},
		{source.Position{Line: 9, Character: 0}, source.UTF32, 15},
	}
	for _, tt := range tests {
		if got := rope.OffsetAt(tt.pos, tt.enc); got != tt.want {
			t.Errorf("OffsetAt(%+v, %s) = %d, want %d", tt.pos, tt.enc, got, tt.want)
		}
	}
}

func TestRopeReplaceClamps(t *testing.T) {
	rope := NewRope("abc")
	rope.Replace(-5, 99, "z")
	if rope.String() != "z" {
		t.Fatalf("got %q", rope.String())
	}
	rope.Replace(1, 1, "y")
	if rope.String() != "zy" {
		t.Fatalf("got %q", rope.String())
	}
	empty := NewRope("")
	empty.Replace(0, 0, "hi")
	if empty.String() != "hi" {
		t.Fatalf("got %q", empty.String())
	}
}
