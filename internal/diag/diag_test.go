package diag

import (
	"testing"

	"wgslsp/internal/source"
)

func TestBagLimitDedupAndFirst(t *testing.T) {
	bag := NewBag(2)

	Error(bag, SemReturnMismatch, source.Span{Start: 20, End: 25}, "late").Emit()
	Error(bag, SemReturnMismatch, source.Span{Start: 20, End: 25}, "late").Emit()
	Warning(bag, SemUnknownType, source.Span{Start: 1, End: 2}, "warn").Emit()
	Error(bag, SynUnexpectedToken, source.Span{Start: 5, End: 6}, "dropped by limit").Emit()

	if bag.Len() != 2 {
		t.Fatalf("expected 2 diagnostics, got %d", bag.Len())
	}
	first, ok := bag.First()
	if !ok || first.Message != "late" {
		t.Fatalf("First() = %+v, %v", first, ok)
	}
}

func TestFirstIgnoresWarnings(t *testing.T) {
	bag := NewBag(4)
	Warning(bag, SemUnknownType, source.Span{Start: 0, End: 1}, "warn").Emit()
	if _, ok := bag.First(); ok {
		t.Fatal("a warning is not an error")
	}
}

func TestBuilderNotesAndSingleEmit(t *testing.T) {
	bag := NewBag(4)
	b := Error(bag, SemReturnMismatch, source.Span{Start: 0, End: 10}, "mismatch").
		Note(source.Span{Start: 7, End: 8}, "this value")
	spans := b.Diagnostic().Spans()
	if len(spans) != 2 || spans[1] != (source.Span{Start: 7, End: 8}) {
		t.Fatalf("unexpected spans %v", spans)
	}
	b.Emit()
	b.Emit()
	if bag.Len() != 1 {
		t.Fatalf("emitted %d times", bag.Len())
	}
	Error(nil, SemReturnMismatch, source.Span{}, "nowhere").Emit()
}

func TestSeverityNames(t *testing.T) {
	if SevError.String() != "error" || SevWarning.String() != "warning" || SevInfo.String() != "info" {
		t.Fatal("unexpected severity names")
	}
}

func TestCodeID(t *testing.T) {
	tests := map[Code]string{
		LexBadNumber:       "LEX1003",
		SynExpectSemicolon: "SYN2003",
		SemMissingReturn:   "SEM3004",
		IOLoadFileError:    "IO4001",
		PrjImportCycle:     "PRJ5002",
		UnknownCode:        "E0000",
	}
	for code, want := range tests {
		if got := code.ID(); got != want {
			t.Errorf("%d.ID() = %q, want %q", code, got, want)
		}
	}
	if PrjImportCycle.Title() != "Import cycle" {
		t.Fatalf("unexpected title %q", PrjImportCycle.Title())
	}
}
