package lexer_test

import (
	"fmt"
	"testing"

	"wgslsp/internal/diag"
	"wgslsp/internal/lexer"
	"wgslsp/internal/source"
	"wgslsp/internal/token"
)

// testReporter собирает все диагностики, полученные от лексера
type testReporter struct {
	diagnostics []diag.Diagnostic
}

func (r *testReporter) Report(d diag.Diagnostic) {
	r.diagnostics = append(r.diagnostics, d)
}

func (r *testReporter) messages() []string {
	out := make([]string, 0, len(r.diagnostics))
	for _, d := range r.diagnostics {
		out = append(out, fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message))
	}
	return out
}

func lexAll(t *testing.T, input string) ([]token.Token, *testReporter) {
	t.Helper()
	rep := &testReporter{}
	lx := lexer.New(input, lexer.Options{Reporter: rep})
	var toks []token.Token
	for {
		tok := lx.Next()
		if tok.Kind == token.EOF {
			return toks, rep
		}
		toks = append(toks, tok)
		if len(toks) > 10_000 {
			t.Fatalf("lexer did not terminate")
		}
	}
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func expectKinds(t *testing.T, input string, want ...token.Kind) {
	t.Helper()
	toks, rep := lexAll(t, input)
	if len(rep.diagnostics) > 0 {
		t.Fatalf("unexpected diagnostics for %q: %v", input, rep.messages())
	}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("%q: got %v, want %v", input, got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("%q: token %d = %v, want %v", input, i, got[i], want[i])
		}
	}
}

func TestFunctionHeader(t *testing.T) {
	expectKinds(t, "@fragment fn main(@location(0) uv: vec2<f32>) -> @location(0) vec4f {}",
		token.At, token.Ident, token.KwFn, token.Ident, token.LParen,
		token.At, token.Ident, token.LParen, token.IntLit, token.RParen,
		token.Ident, token.Colon, token.Ident, token.Lt, token.Ident, token.Gt, token.RParen,
		token.Arrow, token.At, token.Ident, token.LParen, token.IntLit, token.RParen,
		token.Ident, token.LBrace, token.RBrace)
}

func TestNumbers(t *testing.T) {
	cases := []struct {
		in   string
		kind token.Kind
	}{
		{"0", token.IntLit},
		{"123u", token.IntLit},
		{"7i", token.IntLit},
		{"0x1F", token.IntLit},
		{"1.0", token.FloatLit},
		{".5", token.FloatLit},
		{"1.", token.FloatLit},
		{"1e-3", token.FloatLit},
		{"2.5e+10f", token.FloatLit},
		{"1h", token.FloatLit},
		{"3f", token.FloatLit},
		{"0x1.8p3", token.FloatLit},
	}
	for _, tc := range cases {
		toks, rep := lexAll(t, tc.in)
		if len(rep.diagnostics) != 0 {
			t.Fatalf("%q: unexpected diagnostics %v", tc.in, rep.messages())
		}
		if len(toks) != 1 || toks[0].Kind != tc.kind || toks[0].Text != tc.in {
			t.Fatalf("%q: got %+v", tc.in, toks)
		}
	}
}

func TestBadNumbers(t *testing.T) {
	for _, in := range []string{"0x", "1e+", "1.5u", "12abc"} {
		_, rep := lexAll(t, in)
		if len(rep.diagnostics) == 0 || rep.diagnostics[0].Code != diag.LexBadNumber {
			t.Fatalf("%q: want LexBadNumber, got %v", in, rep.messages())
		}
	}
}

func TestOperatorsGreedy(t *testing.T) {
	expectKinds(t, "a<<=b>>=c::d->e&&f||g!=h<=i>=j++k--",
		token.Ident, token.ShlAssign, token.Ident, token.ShrAssign, token.Ident,
		token.ColonColon, token.Ident, token.Arrow, token.Ident, token.AndAnd,
		token.Ident, token.OrOr, token.Ident, token.BangEq, token.Ident,
		token.LtEq, token.Ident, token.GtEq, token.Ident, token.PlusPlus,
		token.Ident, token.MinusMinus)
}

func TestUnderscore(t *testing.T) {
	expectKinds(t, "_ = f(); __x _y", token.Underscore, token.Assign, token.Ident,
		token.LParen, token.RParen, token.Semicolon, token.Ident, token.Ident)
}

func TestComments(t *testing.T) {
	expectKinds(t, "// line\nlet /* a /* nested */ b */ x = 1; // tail",
		token.KwLet, token.Ident, token.Assign, token.IntLit, token.Semicolon)

	toks, rep := lexAll(t, "let x /* never closed")
	if len(toks) != 2 {
		t.Fatalf("want 2 tokens, got %v", kinds(toks))
	}
	if len(rep.diagnostics) != 1 || rep.diagnostics[0].Code != diag.LexUnterminatedBlockComment {
		t.Fatalf("want unterminated comment, got %v", rep.messages())
	}
}

func TestSpansMatchText(t *testing.T) {
	input := "const π = 3.14;\nvar<private> héllo: f32;"
	toks, rep := lexAll(t, input)
	if len(rep.diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", rep.messages())
	}
	for _, tok := range toks {
		if input[tok.Span.Start:tok.Span.End] != tok.Text {
			t.Fatalf("span %v does not match text %q", tok.Span, tok.Text)
		}
	}
	if toks[1].Text != "π" || toks[1].Kind != token.Ident {
		t.Fatalf("unicode identifier not recognized: %+v", toks[1])
	}
}

func TestUnknownCharacter(t *testing.T) {
	toks, rep := lexAll(t, "let a = 1 $ 2;")
	if len(rep.diagnostics) != 1 || rep.diagnostics[0].Code != diag.LexUnknownChar {
		t.Fatalf("want LexUnknownChar, got %v", rep.messages())
	}
	if toks[4].Kind != token.Invalid || toks[4].Span != (source.Span{Start: 10, End: 11}) {
		t.Fatalf("unexpected invalid token %+v", toks[4])
	}
}

func TestPeekDoesNotAdvance(t *testing.T) {
	lx := lexer.New("fn f", lexer.Options{})
	if lx.Peek().Kind != token.KwFn || lx.Peek().Kind != token.KwFn {
		t.Fatalf("peek must be stable")
	}
	if lx.Next().Kind != token.KwFn || lx.Next().Kind != token.Ident || lx.Next().Kind != token.EOF {
		t.Fatalf("unexpected token order")
	}
	if lx.Next().Kind != token.EOF {
		t.Fatalf("EOF must be sticky")
	}
}

func TestUnicodeBlankspaceAndUnderscore(t *testing.T) {
	toks, rep := lexAll(t, "let _ = _x;\u0085")
	if len(rep.diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", rep.messages())
	}
	if len(toks) != 5 {
		t.Fatalf("want 5 tokens, got %d: %+v", len(toks), toks)
	}
	if toks[1].Kind != token.Underscore || toks[3].Kind != token.Ident || toks[3].Text != "_x" {
		t.Fatalf("unexpected tokens %+v", toks)
	}
}
