package parser

import (
	"wgslsp/internal/ast"
	"wgslsp/internal/diag"
	"wgslsp/internal/source"
	"wgslsp/internal/token"
)

// parseDecl выбирает по первому токену нужный распознаватель объявления.
func (p *Parser) parseDecl() (ast.Decl, bool) {
	start := p.tok.Span
	attrs, ok := p.parseAttributes()
	if !ok {
		return nil, false
	}
	switch p.tok.Kind {
	case token.KwFn:
		return p.parseFn(start, attrs)
	case token.KwStruct:
		return p.parseStruct(start)
	case token.KwAlias:
		return p.parseAlias(start)
	case token.KwConst, token.KwOverride:
		return p.parseConst(start, attrs)
	case token.KwVar:
		return p.parseGlobalVar(start, attrs)
	case token.KwConstAssert:
		p.advance()
		cond := p.parseExpr()
		p.expectSemicolon()
		return &ast.ConstAssertDecl{Cond: cond, Sp: p.spanFrom(start)}, true
	case token.KwEnable, token.KwRequires, token.KwDiagnostic:
		return p.parseDirective(start)
	default:
		p.err(diag.SynUnexpectedTopLvl, "expected a declaration, found "+describe(p.tok))
		return nil, false
	}
}

func (p *Parser) parseAttributes() ([]*ast.Attribute, bool) {
	var attrs []*ast.Attribute
	for p.at(token.At) {
		at := p.advance()
		name, ok := p.attributeName()
		if !ok {
			return attrs, false
		}
		attr := &ast.Attribute{Name: name}
		if p.at(token.LParen) {
			open := p.advance().Span
			for !p.atOr(token.RParen, token.EOF) {
				attr.Args = append(attr.Args, p.parseExpr())
				if !p.at(token.Comma) {
					break
				}
				p.advance()
			}
			if !p.expectClose(token.RParen, open) {
				return attrs, false
			}
		}
		attr.Sp = p.spanFrom(at.Span)
		attrs = append(attrs, attr)
	}
	return attrs, true
}

// attributeName принимает и ключевые слова: @const, @diagnostic(...).
func (p *Parser) attributeName() (string, bool) {
	if p.at(token.Ident) || p.tok.IsKeyword() {
		return p.advance().Text, true
	}
	p.report(diag.SynBadAttribute, p.getDiagnosticSpan(), "expected attribute name, found "+describe(p.tok), nil)
	return "", false
}

func (p *Parser) parseIdent() (ast.Ident, bool) {
	tok, ok := p.expectIdent()
	if !ok {
		return ast.Ident{Sp: tok.Span}, false
	}
	return ast.Ident{Name: tok.Text, Sp: tok.Span}, true
}

func (p *Parser) parseFn(start source.Span, attrs []*ast.Attribute) (ast.Decl, bool) {
	p.advance() // fn
	name, ok := p.parseIdent()
	if !ok {
		return nil, false
	}
	fn := &ast.FnDecl{Attrs: attrs, Name: name}
	open, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "'('")
	if !ok {
		return nil, false
	}
	for !p.atOr(token.RParen, token.EOF) {
		pstart := p.tok.Span
		pattrs, ok := p.parseAttributes()
		if !ok {
			return nil, false
		}
		pname, ok := p.parseIdent()
		if !ok {
			return nil, false
		}
		if _, ok := p.expect(token.Colon, diag.SynExpectType, "':'"); !ok {
			return nil, false
		}
		ty, ok := p.parseType()
		if !ok {
			return nil, false
		}
		fn.Params = append(fn.Params, &ast.Param{Attrs: pattrs, Name: pname, Type: ty, Sp: p.spanFrom(pstart)})
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	if !p.expectClose(token.RParen, open.Span) {
		return nil, false
	}
	if p.at(token.Arrow) {
		p.advance()
		if fn.ResultAttrs, ok = p.parseAttributes(); !ok {
			return nil, false
		}
		if fn.Result, ok = p.parseType(); !ok {
			return nil, false
		}
	}
	body, ok := p.parseBlock()
	fn.Body = body
	fn.Sp = p.spanFrom(start)
	return fn, ok
}

func (p *Parser) parseStruct(start source.Span) (ast.Decl, bool) {
	p.advance() // struct
	name, ok := p.parseIdent()
	if !ok {
		return nil, false
	}
	st := &ast.StructDecl{Name: name}
	open, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "'{'")
	if !ok {
		return nil, false
	}
	for !p.atOr(token.RBrace, token.EOF) {
		mstart := p.tok.Span
		mattrs, ok := p.parseAttributes()
		if !ok {
			return nil, false
		}
		mname, ok := p.parseIdent()
		if !ok {
			return nil, false
		}
		if _, ok := p.expect(token.Colon, diag.SynExpectType, "':'"); !ok {
			return nil, false
		}
		ty, ok := p.parseType()
		if !ok {
			return nil, false
		}
		st.Members = append(st.Members, &ast.Member{Attrs: mattrs, Name: mname, Type: ty, Sp: p.spanFrom(mstart)})
		if !p.atOr(token.Comma, token.Semicolon) {
			break
		}
		p.advance()
	}
	if !p.expectClose(token.RBrace, open.Span) {
		return nil, false
	}
	if p.at(token.Semicolon) {
		p.advance()
	}
	st.Sp = p.spanFrom(start)
	return st, true
}

func (p *Parser) parseAlias(start source.Span) (ast.Decl, bool) {
	p.advance() // alias
	name, ok := p.parseIdent()
	if !ok {
		return nil, false
	}
	if _, ok := p.expect(token.Assign, diag.SynUnexpectedToken, "'='"); !ok {
		return nil, false
	}
	ty, ok := p.parseType()
	if !ok {
		return nil, false
	}
	p.expectSemicolon()
	return &ast.AliasDecl{Name: name, Type: ty, Sp: p.spanFrom(start)}, true
}

func (p *Parser) parseConst(start source.Span, attrs []*ast.Attribute) (ast.Decl, bool) {
	kw := p.advance()
	decl := &ast.ConstDecl{Attrs: attrs, Override: kw.Kind == token.KwOverride}
	name, ok := p.parseIdent()
	if !ok {
		return nil, false
	}
	decl.Name = name
	if p.at(token.Colon) {
		p.advance()
		if decl.Type, ok = p.parseType(); !ok {
			return nil, false
		}
	}
	if p.at(token.Assign) {
		p.advance()
		decl.Value = p.parseExpr()
	} else if !decl.Override {
		p.err(diag.SynExpectExpression, "const declaration requires an initializer")
		return nil, false
	}
	p.expectSemicolon()
	decl.Sp = p.spanFrom(start)
	return decl, true
}

func (p *Parser) parseGlobalVar(start source.Span, attrs []*ast.Attribute) (ast.Decl, bool) {
	space, access, name, ty, init, ok := p.parseVarCore()
	if !ok {
		return nil, false
	}
	p.expectSemicolon()
	return &ast.VarDecl{
		Attrs: attrs, Space: space, Access: access,
		Name: name, Type: ty, Init: init, Sp: p.spanFrom(start),
	}, true
}

// parseVarCore разбирает `var<space, access> name: T = init` без ';'.
func (p *Parser) parseVarCore() (space, access string, name ast.Ident, ty *ast.NameExpr, init ast.Expr, ok bool) {
	p.advance() // var
	if p.at(token.Lt) {
		open := p.advance().Span
		sp, ok := p.expectIdent()
		if !ok {
			return "", "", name, nil, nil, false
		}
		space = sp.Text
		if p.at(token.Comma) {
			p.advance()
			ac, ok := p.expectIdent()
			if !ok {
				return "", "", name, nil, nil, false
			}
			access = ac.Text
		}
		if !p.closeTemplate(open) {
			return "", "", name, nil, nil, false
		}
	}
	if name, ok = p.parseIdent(); !ok {
		return "", "", name, nil, nil, false
	}
	if p.at(token.Colon) {
		p.advance()
		if ty, ok = p.parseType(); !ok {
			return "", "", name, nil, nil, false
		}
	}
	if p.at(token.Assign) {
		p.advance()
		init = p.parseExpr()
	}
	return space, access, name, ty, init, true
}

func (p *Parser) parseDirective(start source.Span) (ast.Decl, bool) {
	kw := p.advance()
	d := &ast.DirectiveDecl{Keyword: kw.Text}
	if kw.Kind == token.KwDiagnostic {
		// diagnostic(severity, rule);
		open, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "'('")
		if !ok {
			return nil, false
		}
		for !p.atOr(token.RParen, token.EOF) {
			p.advance()
		}
		if !p.expectClose(token.RParen, open.Span) {
			return nil, false
		}
	} else {
		for {
			id, ok := p.parseIdent()
			if !ok {
				return nil, false
			}
			d.Names = append(d.Names, id)
			if !p.at(token.Comma) {
				break
			}
			p.advance()
		}
	}
	p.expectSemicolon()
	d.Sp = p.spanFrom(start)
	return d, true
}
