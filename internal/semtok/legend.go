// Package semtok turns a linked module into LSP semantic tokens.
package semtok

// TokenType indexes Legend.Types.
type TokenType uint32

const (
	TypeType TokenType = iota
	TypeStruct
	TypeFunction
	TypeVariable
	TypeParameter
	TypeNumber
)

// Modifier is a bit in the token modifier set.
type Modifier uint32

const (
	ModReadonly Modifier = 1 << iota
	ModDefaultLibrary
)

// Legend is advertised in the server capabilities. Its order defines the
// indexes above.
type Legend struct {
	Types     []string `json:"tokenTypes"`
	Modifiers []string `json:"tokenModifiers"`
}

func DefaultLegend() Legend {
	return Legend{
		Types:     []string{"type", "struct", "function", "variable", "parameter", "number"},
		Modifiers: []string{"readonly", "defaultLibrary"},
	}
}
