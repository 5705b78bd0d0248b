package parser

import (
	"strings"

	"wgslsp/internal/ast"
	"wgslsp/internal/diag"
	"wgslsp/internal/source"
	"wgslsp/internal/token"
)

// templateGenerators — имена, после которых '<' в выражении открывает
// список шаблонных аргументов, а не сравнение.
var templateGenerators = map[string]bool{
	"vec2": true, "vec3": true, "vec4": true,
	"mat2x2": true, "mat2x3": true, "mat2x4": true,
	"mat3x2": true, "mat3x3": true, "mat3x4": true,
	"mat4x2": true, "mat4x3": true, "mat4x4": true,
	"array": true, "ptr": true, "atomic": true, "bitcast": true,
}

func isTemplateGenerator(name string) bool {
	return templateGenerators[name] || strings.HasPrefix(name, "texture_")
}

// parseType разбирает ссылку на тип: путь с '::' и необязательный список
// шаблонных аргументов. В контексте типа '<' всегда открывает список.
func (p *Parser) parseType() (*ast.NameExpr, bool) {
	if !p.at(token.Ident) {
		p.err(diag.SynExpectType, "expected type, found "+describe(p.tok))
		return nil, false
	}
	name := p.parsePath()
	if p.at(token.Lt) {
		if !p.parseTemplateArgs(name) {
			return nil, false
		}
	}
	return name, true
}

// parsePath разбирает Ident ('::' Ident)*; текущий токен уже Ident.
func (p *Parser) parsePath() *ast.NameExpr {
	first := p.advance()
	name := &ast.NameExpr{Path: []string{first.Text}}
	for p.at(token.ColonColon) {
		p.advance()
		seg, ok := p.expectIdent()
		if !ok {
			break
		}
		name.Path = append(name.Path, seg.Text)
	}
	name.NameSp = p.spanFrom(first.Span)
	name.Sp = name.NameSp
	return name
}

func (p *Parser) parseTemplateArgs(name *ast.NameExpr) bool {
	open := p.advance().Span // '<'
	saved := p.noGT
	p.noGT = true
	defer func() { p.noGT = saved }()
	for !p.atOr(token.Gt, token.Shr, token.GtEq, token.ShrAssign, token.EOF) {
		var arg ast.Expr
		if p.at(token.Ident) {
			ty, ok := p.parseType()
			if !ok {
				return false
			}
			arg = ty
		} else {
			arg = p.parseExpr()
		}
		name.Template = append(name.Template, arg)
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	if !p.closeTemplate(open) {
		return false
	}
	name.Sp = source.Span{Start: name.NameSp.Start, End: p.lastSpan.End}
	return true
}
