package lexer

import (
	"wgslsp/internal/diag"
	"wgslsp/internal/token"
)

// Поддержка: 0, 123, 0x1F, 1.0, .5, 1e-3, 1.5e+10, 0x1.8p3 и суффиксы i/u/f/h.
// Суффикс остаётся в Token.Text; Kind ставим как IntLit/FloatLit по факту.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	kind := token.IntLit

	if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '0' && (b1 == 'x' || b1 == 'X') {
		lx.cursor.Bump()
		lx.cursor.Bump()
		digits := 0
		for isHex(lx.cursor.Peek()) {
			lx.cursor.Bump()
			digits++
		}
		if lx.cursor.Peek() == '.' {
			kind = token.FloatLit
			lx.cursor.Bump()
			for isHex(lx.cursor.Peek()) {
				lx.cursor.Bump()
				digits++
			}
		}
		if digits == 0 {
			lx.errLex(diag.LexBadNumber, lx.cursor.SpanFrom(start), "expected hexadecimal digits after '0x'")
		}
		if b := lx.cursor.Peek(); b == 'p' || b == 'P' {
			kind = token.FloatLit
			lx.scanExponent(start)
		}
		return lx.finishNumber(kind, start)
	}

	for isDec(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	if lx.cursor.Peek() == '.' {
		kind = token.FloatLit
		lx.cursor.Bump()
		for isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}
	if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
		kind = token.FloatLit
		lx.scanExponent(start)
	}
	return lx.finishNumber(kind, start)
}

func (lx *Lexer) scanExponent(start Mark) {
	lx.cursor.Bump() // e/E/p/P
	if b := lx.cursor.Peek(); b == '+' || b == '-' {
		lx.cursor.Bump()
	}
	if !isDec(lx.cursor.Peek()) {
		lx.errLex(diag.LexBadNumber, lx.cursor.SpanFrom(start), "expected exponent digits")
		return
	}
	for isDec(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
}

func (lx *Lexer) finishNumber(kind token.Kind, start Mark) token.Token {
	switch lx.cursor.Peek() {
	case 'i', 'u':
		if kind == token.FloatLit {
			lx.cursor.Bump()
			lx.errLex(diag.LexBadNumber, lx.cursor.SpanFrom(start), "integer suffix on a float literal")
			break
		}
		lx.cursor.Bump()
	case 'f', 'h':
		lx.cursor.Bump()
		kind = token.FloatLit
	}
	if identContinue(rune(lx.cursor.Peek())) {
		for identContinue(rune(lx.cursor.Peek())) {
			lx.cursor.Bump()
		}
		lx.errLex(diag.LexBadNumber, lx.cursor.SpanFrom(start), "invalid numeric literal")
	}
	return lx.emit(kind, start)
}

func (lx *Lexer) isNumberAfterDot() bool {
	b0, b1, ok := lx.cursor.Peek2()
	return ok && b0 == '.' && isDec(b1)
}
