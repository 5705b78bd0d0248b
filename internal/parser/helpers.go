package parser

import (
	"fmt"

	"wgslsp/internal/diag"
	"wgslsp/internal/source"
	"wgslsp/internal/token"
)

// advance — съедает текущий токен и обновляет lastSpan
func (p *Parser) advance() token.Token {
	tok := p.tok
	if tok.Kind != token.EOF {
		p.lastSpan = tok.Span
		p.tok = p.lx.Next()
	}
	return tok
}

// getDiagnosticSpan — возвращает лучший span для диагностики.
// На EOF указываем на позицию сразу после последнего съеденного токена.
func (p *Parser) getDiagnosticSpan() source.Span {
	if p.tok.Kind == token.EOF {
		return source.Span{Start: p.lastSpan.End, End: p.lastSpan.End}
	}
	return p.tok.Span
}

func describe(tok token.Token) string {
	switch tok.Kind {
	case token.EOF:
		return "end of file"
	case token.Ident, token.IntLit, token.FloatLit, token.Invalid:
		return fmt.Sprintf("'%s'", tok.Text)
	default:
		return tok.Kind.String()
	}
}

// expect — ожидаем конкретный токен. Если нет — репортим и возвращаем (invalid,false).
func (p *Parser) expect(k token.Kind, code diag.Code, what string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	diagSpan := p.getDiagnosticSpan()
	p.report(code, diagSpan, fmt.Sprintf("expected %s, found %s", what, describe(p.tok)), nil)
	return token.Token{Kind: token.Invalid, Span: diagSpan}, false
}

func (p *Parser) expectIdent() (token.Token, bool) {
	return p.expect(token.Ident, diag.SynExpectIdentifier, "identifier")
}

func (p *Parser) expectSemicolon() bool {
	if p.at(token.Semicolon) {
		p.advance()
		return true
	}
	sp := source.Span{Start: p.lastSpan.End, End: p.lastSpan.End}
	p.report(diag.SynExpectSemicolon, sp, fmt.Sprintf("expected ';', found %s", describe(p.tok)),
		[]diag.Note{{Span: p.getDiagnosticSpan(), Msg: "unexpected token"}})
	return false
}

// expectClose ждёт закрывающую скобку; при промахе указывает на открывающую.
func (p *Parser) expectClose(k token.Kind, open source.Span) bool {
	if p.at(k) {
		p.advance()
		return true
	}
	code := diag.SynUnexpectedToken
	if p.at(token.EOF) {
		code = diag.SynUnclosedDelim
	}
	p.report(code, p.getDiagnosticSpan(),
		fmt.Sprintf("expected %s, found %s", k, describe(p.tok)),
		[]diag.Note{{Span: open, Msg: "unclosed delimiter"}})
	return false
}

// closeTemplate съедает '>' в конце списка шаблонных аргументов, расщепляя
// '>>', '>=' и '>>=' на части.
func (p *Parser) closeTemplate(open source.Span) bool {
	rest := p.tok.Span
	rest.Start++
	switch p.tok.Kind {
	case token.Gt:
		p.advance()
		return true
	case token.Shr:
		p.lastSpan = source.Span{Start: p.tok.Span.Start, End: rest.Start}
		p.tok = token.Token{Kind: token.Gt, Span: rest, Text: ">"}
		return true
	case token.GtEq:
		p.lastSpan = source.Span{Start: p.tok.Span.Start, End: rest.Start}
		p.tok = token.Token{Kind: token.Assign, Span: rest, Text: "="}
		return true
	case token.ShrAssign:
		p.lastSpan = source.Span{Start: p.tok.Span.Start, End: rest.Start}
		p.tok = token.Token{Kind: token.GtEq, Span: rest, Text: ">="}
		return true
	}
	return p.expectClose(token.Gt, open)
}

func (p *Parser) err(code diag.Code, msg string) {
	p.report(code, p.getDiagnosticSpan(), msg, nil)
}

func (p *Parser) report(code diag.Code, sp source.Span, msg string, notes []diag.Note) {
	p.opts.CurrentErrors++
	if p.opts.Reporter == nil {
		return
	}
	if p.opts.MaxErrors == 0 || p.opts.CurrentErrors <= p.opts.MaxErrors {
		p.opts.Reporter.Report(diag.Diagnostic{Severity: diag.SevError, Code: code, Message: msg, Primary: sp, Notes: notes})
	}
}

func (p *Parser) spanFrom(start source.Span) source.Span {
	end := p.lastSpan.End
	if end < start.Start {
		end = start.Start
	}
	return source.Span{Start: start.Start, End: end}
}
