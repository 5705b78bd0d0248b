package lexer

import (
	"fmt"
	"unicode/utf8"

	"wgslsp/internal/diag"
	"wgslsp/internal/source"
	"wgslsp/internal/token"
)

type Lexer struct {
	text   string
	cursor Cursor
	opts   Options
	look   *token.Token // 1 элементный буфер для токена
}

func New(text string, opts Options) *Lexer {
	return &Lexer{
		text:   text,
		cursor: NewCursor(text),
		opts:   opts,
	}
}

// Next возвращает следующий значимый токен; пробелы и комментарии пропускаются.
// После EOF всегда возвращает EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	for {
		lx.skipTrivia()
		if lx.cursor.EOF() {
			return token.Token{Kind: token.EOF, Span: lx.emptySpan()}
		}

		ch := lx.cursor.Peek()
		switch {
		case ch == '_':
			// одиночный '_' это отдельный токен, '_x' и '__x' это имена
			if _, b1, ok := lx.cursor.Peek2(); ok && (identContinue(rune(b1)) || b1 >= utf8.RuneSelf) {
				if tok, ok := lx.scanWord(); ok {
					return tok
				}
				continue
			}
			start := lx.cursor.Mark()
			lx.cursor.Bump()
			return lx.emit(token.Underscore, start)
		case identStart(rune(ch)) || ch >= utf8.RuneSelf:
			if tok, ok := lx.scanWord(); ok {
				return tok
			}
			continue
		case isDec(ch):
			return lx.scanNumber()
		case ch == '.' && lx.isNumberAfterDot():
			return lx.scanNumber()
		}

		if tok, ok := lx.scanOperatorOrPunct(); ok {
			return tok
		}
		start := lx.cursor.Mark()
		lx.cursor.Bump()
		sp := lx.cursor.SpanFrom(start)
		lx.errLex(diag.LexUnknownChar, sp, fmt.Sprintf("unexpected character %q", ch))
		return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text[sp.Start:sp.End]}
	}
}

// Peek возвращает следующий токен без продвижения.
func (lx *Lexer) Peek() token.Token {
	if lx.look == nil {
		tok := lx.Next()
		lx.look = &tok
	}
	return *lx.look
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{Start: lx.cursor.Off, End: lx.cursor.Off}
}

func (lx *Lexer) emit(k token.Kind, start Mark) token.Token {
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: k, Span: sp, Text: lx.text[sp.Start:sp.End]}
}
