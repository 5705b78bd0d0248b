package lexer

import (
	"wgslsp/internal/diag"
	"wgslsp/internal/source"
)

type Options struct {
	Reporter diag.Reporter // может быть nil — тогда ошибки игнорируем (но продолжаем лексить)
}

func (lx *Lexer) errLex(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(diag.Diagnostic{Severity: diag.SevError, Code: code, Message: msg, Primary: sp})
	}
}
