package parser

import (
	"slices"

	"wgslsp/internal/ast"
	"wgslsp/internal/diag"
	"wgslsp/internal/lexer"
	"wgslsp/internal/source"
	"wgslsp/internal/token"
)

type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
}

// Enough - проверить, достигли ли мы максимального количества ошибок
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

// Parser — состояние парсера на один модуль
type Parser struct {
	lx       *lexer.Lexer
	tok      token.Token // текущий (ещё не съеденный) токен
	opts     Options
	lastSpan source.Span // span последнего съеденного токена для лучшей диагностики
	noGT     bool        // внутри списка шаблонных аргументов '>' закрывает список
}

// Parse разбирает текст одного модуля. Ошибки уходят в opts.Reporter;
// дерево возвращается всегда, с BadExpr на местах неразобранных выражений.
func Parse(text string, opts Options) *ast.File {
	lx := lexer.New(text, lexer.Options{Reporter: opts.Reporter})
	p := Parser{lx: lx, opts: opts}
	p.tok = lx.Next()
	return p.parseFile()
}

func (p *Parser) at(k token.Kind) bool {
	return p.tok.Kind == k
}

func (p *Parser) atOr(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.tok.Kind)
}

// IsError reports whether at least one error was emitted.
func (p *Parser) IsError() bool {
	return p.opts.CurrentErrors != 0
}

// parseFile — основной цикл верхнего уровня: пока не EOF — parseDecl.
func (p *Parser) parseFile() *ast.File {
	file := &ast.File{Sp: source.Span{Start: 0, End: 0}}
	for !p.at(token.EOF) && !p.opts.Enough() {
		if p.tok.Kind == token.Semicolon {
			p.advance()
			continue
		}
		before := p.tok.Span.Start
		decl, ok := p.parseDecl()
		if ok && decl != nil {
			file.Decls = append(file.Decls, decl)
			continue
		}
		p.resyncTop()
		if p.tok.Span.Start == before && !p.at(token.EOF) {
			p.advance()
		}
	}
	file.Sp.End = p.tok.Span.End
	return file
}

// resyncTop — восстановление после ошибки на верхнем уровне:
// прокручиваем до стартового токена следующего объявления с учётом скобок.
func (p *Parser) resyncTop() {
	depth := 0
	for !p.at(token.EOF) {
		switch p.tok.Kind {
		case token.LBrace:
			depth++
		case token.RBrace:
			depth--
			if depth <= 0 {
				p.advance()
				return
			}
		case token.Semicolon:
			if depth == 0 {
				p.advance()
				return
			}
		case token.KwFn, token.KwStruct, token.KwVar, token.KwConst, token.KwOverride,
			token.KwAlias, token.KwConstAssert, token.At:
			if depth == 0 {
				return
			}
		}
		p.advance()
	}
}

// resyncStmt прокручивает до конца текущего оператора внутри блока.
func (p *Parser) resyncStmt() {
	depth := 0
	for !p.at(token.EOF) {
		switch p.tok.Kind {
		case token.LBrace, token.LParen, token.LBracket:
			depth++
		case token.RParen, token.RBracket:
			if depth > 0 {
				depth--
			}
		case token.RBrace:
			if depth == 0 {
				return
			}
			depth--
		case token.Semicolon:
			if depth == 0 {
				p.advance()
				return
			}
		}
		p.advance()
	}
}
