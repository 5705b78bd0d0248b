package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier token.
	Ident
	// IntLit represents an integer literal, optionally suffixed with 'i' or 'u'.
	IntLit
	// FloatLit represents a floating point literal, optionally suffixed with 'f' or 'h'.
	FloatLit

	KwAlias       // alias
	KwBreak       // break
	KwCase        // case
	KwConst       // const
	KwConstAssert // const_assert
	KwContinue    // continue
	KwContinuing  // continuing
	KwDefault     // default
	KwDiagnostic  // diagnostic
	KwDiscard     // discard
	KwElse        // else
	KwEnable      // enable
	KwFalse       // false
	KwFn          // fn
	KwFor         // for
	KwIf          // if
	KwLet         // let
	KwLoop        // loop
	KwOverride    // override
	KwRequires    // requires
	KwReturn      // return
	KwStruct      // struct
	KwSwitch      // switch
	KwTrue        // true
	KwVar         // var
	KwWhile       // while

	At            // @
	LParen        // (
	RParen        // )
	LBrace        // {
	RBrace        // }
	LBracket      // [
	RBracket      // ]
	Lt            // <
	Gt            // >
	LtEq          // <=
	GtEq          // >=
	EqEq          // ==
	BangEq        // !=
	Assign        // =
	Plus          // +
	Minus         // -
	Star          // *
	Slash         // /
	Percent       // %
	Amp           // &
	Pipe          // |
	Caret         // ^
	Tilde         // ~
	Bang          // !
	AndAnd        // &&
	OrOr          // ||
	Shl           // <<
	Shr           // >>
	Arrow         // ->
	Colon         // :
	ColonColon    // ::
	Semicolon     // ;
	Comma         // ,
	Dot           // .
	PlusPlus      // ++
	MinusMinus    // --
	PlusAssign    // +=
	MinusAssign   // -=
	StarAssign    // *=
	SlashAssign   // /=
	PercentAssign // %=
	AmpAssign     // &=
	PipeAssign    // |=
	CaretAssign   // ^=
	ShlAssign     // <<=
	ShrAssign     // >>=
	Underscore    // _
)

var kindNames = map[Kind]string{
	Invalid: "invalid", EOF: "end of file", Ident: "identifier",
	IntLit: "integer literal", FloatLit: "float literal",
	At: "'@'", LParen: "'('", RParen: "')'", LBrace: "'{'", RBrace: "'}'",
	LBracket: "'['", RBracket: "']'", Lt: "'<'", Gt: "'>'", LtEq: "'<='",
	GtEq: "'>='", EqEq: "'=='", BangEq: "'!='", Assign: "'='", Plus: "'+'",
	Minus: "'-'", Star: "'*'", Slash: "'/'", Percent: "'%'", Amp: "'&'",
	Pipe: "'|'", Caret: "'^'", Tilde: "'~'", Bang: "'!'", AndAnd: "'&&'",
	OrOr: "'||'", Shl: "'<<'", Shr: "'>>'", Arrow: "'->'", Colon: "':'",
	ColonColon: "'::'", Semicolon: "';'", Comma: "','", Dot: "'.'",
	PlusPlus: "'++'", MinusMinus: "'--'", PlusAssign: "'+='", MinusAssign: "'-='",
	StarAssign: "'*='", SlashAssign: "'/='", PercentAssign: "'%='",
	AmpAssign: "'&='", PipeAssign: "'|='", CaretAssign: "'^='",
	ShlAssign: "'<<='", ShrAssign: "'>>='", Underscore: "'_'",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	for word, kw := range keywords {
		if kw == k {
			return "'" + word + "'"
		}
	}
	return "unknown"
}
