package lexer

import (
	"wgslsp/internal/token"
)

// Жадность: сначала 3-символьные, затем 2-символьные, затем 1-символьные.
func (lx *Lexer) scanOperatorOrPunct() (token.Token, bool) {
	start := lx.cursor.Mark()
	emit := func(k token.Kind) (token.Token, bool) {
		return lx.emit(k, start), true
	}

	switch {
	case lx.try3('<', '<', '='):
		return emit(token.ShlAssign)
	case lx.try3('>', '>', '='):
		return emit(token.ShrAssign)
	case lx.try2(':', ':'):
		return emit(token.ColonColon)
	case lx.try2('-', '>'):
		return emit(token.Arrow)
	case lx.try2('&', '&'):
		return emit(token.AndAnd)
	case lx.try2('|', '|'):
		return emit(token.OrOr)
	case lx.try2('=', '='):
		return emit(token.EqEq)
	case lx.try2('!', '='):
		return emit(token.BangEq)
	case lx.try2('<', '='):
		return emit(token.LtEq)
	case lx.try2('>', '='):
		return emit(token.GtEq)
	case lx.try2('<', '<'):
		return emit(token.Shl)
	case lx.try2('>', '>'):
		return emit(token.Shr)
	case lx.try2('+', '+'):
		return emit(token.PlusPlus)
	case lx.try2('-', '-'):
		return emit(token.MinusMinus)
	case lx.try2('+', '='):
		return emit(token.PlusAssign)
	case lx.try2('-', '='):
		return emit(token.MinusAssign)
	case lx.try2('*', '='):
		return emit(token.StarAssign)
	case lx.try2('/', '='):
		return emit(token.SlashAssign)
	case lx.try2('%', '='):
		return emit(token.PercentAssign)
	case lx.try2('&', '='):
		return emit(token.AmpAssign)
	case lx.try2('|', '='):
		return emit(token.PipeAssign)
	case lx.try2('^', '='):
		return emit(token.CaretAssign)
	}

	single := map[byte]token.Kind{
		'@': token.At, '(': token.LParen, ')': token.RParen, '{': token.LBrace,
		'}': token.RBrace, '[': token.LBracket, ']': token.RBracket, '<': token.Lt,
		'>': token.Gt, '=': token.Assign, '+': token.Plus, '-': token.Minus,
		'*': token.Star, '/': token.Slash, '%': token.Percent, '&': token.Amp,
		'|': token.Pipe, '^': token.Caret, '~': token.Tilde, '!': token.Bang,
		':': token.Colon, ';': token.Semicolon, ',': token.Comma, '.': token.Dot,
	}
	if k, ok := single[lx.cursor.Peek()]; ok {
		lx.cursor.Bump()
		return emit(k)
	}
	return token.Token{}, false
}

func (lx *Lexer) try2(a, b byte) bool {
	b0, b1, ok := lx.cursor.Peek2()
	if !ok || b0 != a || b1 != b {
		return false
	}
	lx.cursor.Bump()
	lx.cursor.Bump()
	return true
}

func (lx *Lexer) try3(a, b, c byte) bool {
	off := lx.cursor.Off
	if off+2 >= lx.cursor.Limit {
		return false
	}
	if lx.text[off] != a || lx.text[off+1] != b || lx.text[off+2] != c {
		return false
	}
	lx.cursor.Off += 3
	return true
}
