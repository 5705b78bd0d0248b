package token

var keywords = map[string]Kind{
	"alias":        KwAlias,
	"break":        KwBreak,
	"case":         KwCase,
	"const":        KwConst,
	"const_assert": KwConstAssert,
	"continue":     KwContinue,
	"continuing":   KwContinuing,
	"default":      KwDefault,
	"diagnostic":   KwDiagnostic,
	"discard":      KwDiscard,
	"else":         KwElse,
	"enable":       KwEnable,
	"false":        KwFalse,
	"fn":           KwFn,
	"for":          KwFor,
	"if":           KwIf,
	"let":          KwLet,
	"loop":         KwLoop,
	"override":     KwOverride,
	"requires":     KwRequires,
	"return":       KwReturn,
	"struct":       KwStruct,
	"switch":       KwSwitch,
	"true":         KwTrue,
	"var":          KwVar,
	"while":        KwWhile,
}

// LookupKeyword возвращает тип и bool если это ключевое слово.
// Ключевые слова регистрозависимые.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
