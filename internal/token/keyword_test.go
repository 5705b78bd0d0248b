package token

import (
	"testing"
)

func TestLookupKeyword_Positive(t *testing.T) {
	cases := map[string]Kind{
		"fn":           KwFn,
		"let":          KwLet,
		"return":       KwReturn,
		"const_assert": KwConstAssert,
		"continuing":   KwContinuing,
		"true":         KwTrue,
		"false":        KwFalse,
	}

	for lexeme, want := range cases {
		got, ok := LookupKeyword(lexeme)
		if !ok {
			t.Fatalf("LookupKeyword(%q) = !ok, want %v", lexeme, want)
		}
		if got != want {
			t.Fatalf("LookupKeyword(%q) = %v, want %v", lexeme, got, want)
		}
	}
}

func TestLookupKeyword_Negative(t *testing.T) {
	// имена типов и встроенных функций — Ident
	notKw := []string{"Fn", "RETURN", "f32", "vec3", "mat4x4", "textureSample", "import"}
	for _, s := range notKw {
		if k, ok := LookupKeyword(s); ok {
			t.Fatalf("LookupKeyword(%q) = %v, want !ok", s, k)
		}
	}
}

func TestKindString(t *testing.T) {
	if got := Semicolon.String(); got != "';'" {
		t.Fatalf("Semicolon.String() = %q", got)
	}
	if got := KwStruct.String(); got != "'struct'" {
		t.Fatalf("KwStruct.String() = %q", got)
	}
	if got := Ident.String(); got != "identifier" {
		t.Fatalf("Ident.String() = %q", got)
	}
}

func TestBinaryOf(t *testing.T) {
	if k, ok := BinaryOf(ShlAssign); !ok || k != Shl {
		t.Fatalf("BinaryOf(ShlAssign) = %v, %v", k, ok)
	}
	if _, ok := BinaryOf(Assign); ok {
		t.Fatalf("plain '=' has no binary operator")
	}
}
