package lexer

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"fortio.org/safecast"

	"wgslsp/internal/diag"
	"wgslsp/internal/token"
)

// nextRune decodes the rune at the cursor without consuming it.
func (lx *Lexer) nextRune() (rune, int) {
	if lx.cursor.EOF() {
		return utf8.RuneError, 0
	}
	if b := lx.cursor.Peek(); b < utf8.RuneSelf {
		return rune(b), 1
	}
	return utf8.DecodeRuneInString(lx.text[lx.cursor.Off:lx.cursor.Limit])
}

func (lx *Lexer) skip(size int) {
	n, err := safecast.Conv[uint32](size)
	if err != nil {
		panic(fmt.Errorf("lexer: rune size %d: %w", size, err))
	}
	lx.cursor.Off += n
}

// WGSL identifiers follow Unicode XID; letters, marks and connector
// punctuation approximate it.
func identStart(r rune) bool {
	if r < utf8.RuneSelf {
		return r == '_' || 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z'
	}
	return unicode.In(r, unicode.L, unicode.Nl, unicode.Other_ID_Start)
}

func identContinue(r rune) bool {
	if r < utf8.RuneSelf {
		return identStart(r) || isDec(byte(r))
	}
	return identStart(r) || unicode.In(r, unicode.Mn, unicode.Mc, unicode.Nd, unicode.Pc, unicode.Other_ID_Continue)
}

func isDec(b byte) bool { return '0' <= b && b <= '9' }

func isHex(b byte) bool {
	return isDec(b) || 'a' <= b && b <= 'f' || 'A' <= b && b <= 'F'
}

// scanWord lexes an identifier or keyword. A rune that cannot start one is
// reported, skipped, and ok is false.
func (lx *Lexer) scanWord() (tok token.Token, ok bool) {
	start := lx.cursor.Mark()
	r, size := lx.nextRune()
	if !identStart(r) {
		lx.skip(max(size, 1))
		lx.errLex(diag.LexUnknownChar, lx.cursor.SpanFrom(start), fmt.Sprintf("unexpected character %q", r))
		return token.Token{}, false
	}
	lx.skip(size)
	for {
		r, size = lx.nextRune()
		if size == 0 || !identContinue(r) {
			break
		}
		lx.skip(size)
	}
	tok = lx.emit(token.Ident, start)
	if kw, isKw := token.LookupKeyword(tok.Text); isKw {
		tok.Kind = kw
	}
	return tok, true
}
