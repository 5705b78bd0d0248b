package parser

import (
	"wgslsp/internal/ast"
	"wgslsp/internal/diag"
	"wgslsp/internal/source"
	"wgslsp/internal/token"
)

func (p *Parser) parseBlock() (*ast.BlockStmt, bool) {
	open, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "'{'")
	if !ok {
		return &ast.BlockStmt{Sp: open.Span}, false
	}
	block := &ast.BlockStmt{}
	for !p.atOr(token.RBrace, token.EOF) && !p.opts.Enough() {
		before := p.tok.Span.Start
		stmt, ok := p.parseStmt()
		if ok {
			if stmt != nil {
				block.Stmts = append(block.Stmts, stmt)
			}
			continue
		}
		p.resyncStmt()
		if p.tok.Span.Start == before && !p.atOr(token.EOF, token.RBrace) {
			p.advance()
		}
	}
	closed := p.expectClose(token.RBrace, open.Span)
	block.Sp = p.spanFrom(open.Span)
	return block, closed
}

// parseStmt возвращает (nil, true) для пустого оператора ';'.
func (p *Parser) parseStmt() (ast.Stmt, bool) {
	start := p.tok.Span
	if p.at(token.At) {
		if _, ok := p.parseAttributes(); !ok {
			return nil, false
		}
	}
	switch p.tok.Kind {
	case token.Semicolon:
		p.advance()
		return nil, true
	case token.LBrace:
		return p.parseBlock()
	case token.KwReturn:
		p.advance()
		ret := &ast.ReturnStmt{}
		if !p.at(token.Semicolon) {
			ret.Value = p.parseExpr()
		}
		p.expectSemicolon()
		ret.Sp = p.spanFrom(start)
		return ret, true
	case token.KwIf:
		return p.parseIf()
	case token.KwFor:
		return p.parseFor()
	case token.KwWhile:
		p.advance()
		cond := p.parseExpr()
		body, ok := p.parseBlock()
		return &ast.WhileStmt{Cond: cond, Body: body, Sp: p.spanFrom(start)}, ok
	case token.KwLoop:
		return p.parseLoop()
	case token.KwSwitch:
		return p.parseSwitch()
	case token.KwBreak:
		p.advance()
		brk := &ast.BreakStmt{}
		if p.at(token.KwIf) {
			p.advance()
			brk.If = p.parseExpr()
		}
		p.expectSemicolon()
		brk.Sp = p.spanFrom(start)
		return brk, true
	case token.KwContinue:
		p.advance()
		p.expectSemicolon()
		return &ast.ContinueStmt{Sp: p.spanFrom(start)}, true
	case token.KwDiscard:
		p.advance()
		p.expectSemicolon()
		return &ast.DiscardStmt{Sp: p.spanFrom(start)}, true
	case token.KwConstAssert:
		p.advance()
		cond := p.parseExpr()
		p.expectSemicolon()
		return &ast.ConstAssertStmt{Cond: cond, Sp: p.spanFrom(start)}, true
	}
	stmt, ok := p.parseSimpleStmt()
	if !ok {
		return nil, false
	}
	// пропущенная ';' уже зарепорчена, оператор оставляем
	p.expectSemicolon()
	return stmt, true
}

// parseSimpleStmt разбирает объявление, присваивание, инкремент или вызов
// без завершающего ';' (их же допускает заголовок for).
func (p *Parser) parseSimpleStmt() (ast.Stmt, bool) {
	start := p.tok.Span
	switch p.tok.Kind {
	case token.KwLet, token.KwConst:
		kw := p.advance()
		decl := &ast.DeclStmt{Kind: ast.DeclLet}
		if kw.Kind == token.KwConst {
			decl.Kind = ast.DeclConst
		}
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
		if _, ok := p.expect(token.Assign, diag.SynUnexpectedToken, "'='"); !ok {
			return nil, false
		}
		decl.Init = p.parseExpr()
		decl.Sp = p.spanFrom(start)
		return decl, true
	case token.KwVar:
		space, _, name, ty, init, ok := p.parseVarCore()
		if !ok {
			return nil, false
		}
		return &ast.DeclStmt{Kind: ast.DeclVar, Name: name, Type: ty, Init: init, Space: space, Sp: p.spanFrom(start)}, true
	case token.Underscore:
		p.advance()
		if _, ok := p.expect(token.Assign, diag.SynUnexpectedToken, "'='"); !ok {
			return nil, false
		}
		rhs := p.parseExpr()
		return &ast.AssignStmt{Op: token.Assign, RHS: rhs, Sp: p.spanFrom(start)}, true
	}

	x := p.parseUnary()
	if _, bad := x.(*ast.BadExpr); bad {
		return nil, false
	}
	switch {
	case p.tok.IsAssignOp():
		op := p.advance()
		rhs := p.parseExpr()
		return &ast.AssignStmt{LHS: x, Op: op.Kind, RHS: rhs, Sp: p.spanFrom(start)}, true
	case p.atOr(token.PlusPlus, token.MinusMinus):
		op := p.advance()
		return &ast.IncDecStmt{X: x, Op: op.Kind, Sp: p.spanFrom(start)}, true
	}
	if call, ok := x.(*ast.CallExpr); ok {
		return &ast.CallStmt{Call: call, Sp: call.Sp}, true
	}
	p.report(diag.SynUnexpectedToken, x.Span(), "expression is not a statement", nil)
	return nil, false
}

func (p *Parser) parseIf() (ast.Stmt, bool) {
	start := p.advance().Span // if
	cond := p.parseExpr()
	then, ok := p.parseBlock()
	stmt := &ast.IfStmt{Cond: cond, Then: then}
	if ok && p.at(token.KwElse) {
		p.advance()
		if p.at(token.KwIf) {
			var elif ast.Stmt
			elif, ok = p.parseIf()
			stmt.Else = elif
		} else {
			var els *ast.BlockStmt
			els, ok = p.parseBlock()
			stmt.Else = els
		}
	}
	stmt.Sp = p.spanFrom(start)
	return stmt, ok
}

func (p *Parser) parseFor() (ast.Stmt, bool) {
	start := p.advance().Span // for
	open, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "'('")
	if !ok {
		return nil, false
	}
	stmt := &ast.ForStmt{}
	if !p.at(token.Semicolon) {
		if stmt.Init, ok = p.parseSimpleStmt(); !ok {
			return nil, false
		}
	}
	if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "';'"); !ok {
		return nil, false
	}
	if !p.at(token.Semicolon) {
		stmt.Cond = p.parseExpr()
	}
	if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "';'"); !ok {
		return nil, false
	}
	if !p.at(token.RParen) {
		if stmt.Update, ok = p.parseSimpleStmt(); !ok {
			return nil, false
		}
	}
	if !p.expectClose(token.RParen, open.Span) {
		return nil, false
	}
	stmt.Body, ok = p.parseBlock()
	stmt.Sp = p.spanFrom(start)
	return stmt, ok
}

func (p *Parser) parseLoop() (ast.Stmt, bool) {
	start := p.advance().Span // loop
	open, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "'{'")
	if !ok {
		return nil, false
	}
	body := &ast.BlockStmt{}
	stmt := &ast.LoopStmt{Body: body}
	for !p.atOr(token.RBrace, token.EOF) {
		if p.at(token.KwContinuing) {
			p.advance()
			if stmt.Continuing, ok = p.parseBlock(); !ok {
				return nil, false
			}
			break
		}
		before := p.tok.Span.Start
		s, ok := p.parseStmt()
		if ok {
			if s != nil {
				body.Stmts = append(body.Stmts, s)
			}
			continue
		}
		p.resyncStmt()
		if p.tok.Span.Start == before && !p.atOr(token.EOF, token.RBrace) {
			p.advance()
		}
	}
	closed := p.expectClose(token.RBrace, open.Span)
	body.Sp = p.spanFrom(open.Span)
	stmt.Sp = p.spanFrom(start)
	return stmt, closed
}

func (p *Parser) parseSwitch() (ast.Stmt, bool) {
	start := p.advance().Span // switch
	sel := p.parseExpr()
	open, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "'{'")
	if !ok {
		return nil, false
	}
	stmt := &ast.SwitchStmt{Selector: sel}
	for p.atOr(token.KwCase, token.KwDefault) {
		cstart := p.tok.Span
		clause := &ast.CaseClause{}
		if p.advance().Kind == token.KwDefault {
			clause.Default = true
		} else {
			for !p.atOr(token.Colon, token.LBrace, token.EOF) {
				if p.at(token.KwDefault) {
					p.advance()
					clause.Default = true
				} else {
					clause.Selectors = append(clause.Selectors, p.parseExpr())
				}
				if !p.at(token.Comma) {
					break
				}
				p.advance()
			}
		}
		if p.at(token.Colon) {
			p.advance()
		}
		if clause.Body, ok = p.parseBlock(); !ok {
			return nil, false
		}
		clause.Sp = p.spanFrom(cstart)
		stmt.Clauses = append(stmt.Clauses, clause)
	}
	closed := p.expectClose(token.RBrace, open.Span)
	stmt.Sp = source.Span{Start: start.Start, End: p.lastSpan.End}
	return stmt, closed
}
