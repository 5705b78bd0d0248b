package parser

import (
	"wgslsp/internal/ast"
	"wgslsp/internal/diag"
	"wgslsp/internal/source"
	"wgslsp/internal/token"
)

// binaryPrec — приоритеты бинарных операторов; 0 — не бинарный.
func (p *Parser) binaryPrec(k token.Kind) int {
	switch k {
	case token.OrOr:
		return 1
	case token.AndAnd:
		return 2
	case token.Pipe:
		return 3
	case token.Caret:
		return 4
	case token.Amp:
		return 5
	case token.EqEq, token.BangEq, token.Lt, token.LtEq:
		return 6
	case token.Gt, token.GtEq:
		if p.noGT {
			return 0
		}
		return 6
	case token.Shl:
		return 7
	case token.Shr:
		if p.noGT {
			return 0
		}
		return 7
	case token.Plus, token.Minus:
		return 8
	case token.Star, token.Slash, token.Percent:
		return 9
	default:
		return 0
	}
}

func (p *Parser) parseExpr() ast.Expr {
	return p.parseBinary(1)
}

func (p *Parser) parseBinary(minPrec int) ast.Expr {
	x := p.parseUnary()
	for {
		prec := p.binaryPrec(p.tok.Kind)
		if prec == 0 || prec < minPrec {
			return x
		}
		op := p.advance()
		y := p.parseBinary(prec + 1)
		x = &ast.BinaryExpr{Op: op.Kind, X: x, Y: y, Sp: x.Span().Cover(y.Span())}
	}
}

func (p *Parser) parseUnary() ast.Expr {
	switch p.tok.Kind {
	case token.Minus, token.Bang, token.Tilde, token.Amp, token.Star:
		op := p.advance()
		x := p.parseUnary()
		return &ast.UnaryExpr{Op: op.Kind, X: x, Sp: op.Span.Cover(x.Span())}
	}
	return p.parsePostfix(p.parsePrimary())
}

func (p *Parser) parsePostfix(x ast.Expr) ast.Expr {
	for {
		switch p.tok.Kind {
		case token.Dot:
			p.advance()
			member, ok := p.parseIdent()
			if !ok {
				return x
			}
			x = &ast.MemberExpr{X: x, Member: member, Sp: x.Span().Cover(member.Sp)}
		case token.LBracket:
			open := p.advance().Span
			saved := p.noGT
			p.noGT = false
			idx := p.parseExpr()
			p.noGT = saved
			p.expectClose(token.RBracket, open)
			x = &ast.IndexExpr{X: x, Index: idx, Sp: source.Span{Start: x.Span().Start, End: p.lastSpan.End}}
		default:
			return x
		}
	}
}

func (p *Parser) parsePrimary() ast.Expr {
	switch p.tok.Kind {
	case token.IntLit:
		tok := p.advance()
		return &ast.LitExpr{Kind: ast.LitInt, Text: tok.Text, Sp: tok.Span}
	case token.FloatLit:
		tok := p.advance()
		return &ast.LitExpr{Kind: ast.LitFloat, Text: tok.Text, Sp: tok.Span}
	case token.KwTrue, token.KwFalse:
		tok := p.advance()
		return &ast.LitExpr{Kind: ast.LitBool, Text: tok.Text, Sp: tok.Span}
	case token.Ident:
		name := p.parsePath()
		if p.at(token.Lt) && isTemplateGenerator(name.Last()) {
			if !p.parseTemplateArgs(name) {
				return &ast.BadExpr{Sp: name.Sp}
			}
		}
		if p.at(token.LParen) {
			return p.parseCall(name)
		}
		return name
	case token.LParen:
		open := p.advance().Span
		saved := p.noGT
		p.noGT = false
		x := p.parseExpr()
		p.noGT = saved
		p.expectClose(token.RParen, open)
		return &ast.ParenExpr{X: x, Sp: p.spanFrom(open)}
	default:
		sp := p.getDiagnosticSpan()
		p.report(diag.SynExpectExpression, sp, "expected expression, found "+describe(p.tok), nil)
		if !p.atOr(token.EOF, token.Semicolon, token.RBrace, token.RParen) {
			p.advance()
		}
		return &ast.BadExpr{Sp: sp}
	}
}

func (p *Parser) parseCall(callee *ast.NameExpr) ast.Expr {
	open := p.advance().Span // '('
	saved := p.noGT
	p.noGT = false
	defer func() { p.noGT = saved }()
	call := &ast.CallExpr{Callee: callee}
	for !p.atOr(token.RParen, token.EOF) {
		call.Args = append(call.Args, p.parseExpr())
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	p.expectClose(token.RParen, open)
	call.Sp = p.spanFrom(callee.Sp)
	return call
}
