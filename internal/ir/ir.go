// Package ir is the linked form of one composed module: its declarations
// and the expressions inside them, with spans local to the module's source.
package ir

import (
	"wgslsp/internal/source"
)

// AddressSpace of a global variable.
type AddressSpace uint8

const (
	SpaceHandle AddressSpace = iota // textures and samplers
	SpacePrivate
	SpaceWorkgroup
	SpaceUniform
	SpaceStorage
	SpacePushConstant
	SpaceFunction
)

// ParseAddressSpace maps the WGSL spelling to an AddressSpace.
func ParseAddressSpace(s string) AddressSpace {
	switch s {
	case "private":
		return SpacePrivate
	case "workgroup":
		return SpaceWorkgroup
	case "uniform":
		return SpaceUniform
	case "storage":
		return SpaceStorage
	case "push_constant":
		return SpacePushConstant
	case "function":
		return SpaceFunction
	default:
		return SpaceHandle
	}
}

func (s AddressSpace) String() string {
	switch s {
	case SpacePrivate:
		return "private"
	case SpaceWorkgroup:
		return "workgroup"
	case SpaceUniform:
		return "uniform"
	case SpaceStorage:
		return "storage"
	case SpacePushConstant:
		return "push_constant"
	case SpaceFunction:
		return "function"
	default:
		return "handle"
	}
}

type Access uint8

const (
	AccessRead Access = 1 << iota
	AccessWrite
)

// ExprKind classifies an expression the way editors colour it.
type ExprKind uint8

const (
	ExprLiteral ExprKind = iota
	ExprArgument
	ExprGlobal
	ExprConstant
	ExprLocal
	ExprCall
	ExprTypeRef
)

func (k ExprKind) String() string {
	switch k {
	case ExprArgument:
		return "argument"
	case ExprGlobal:
		return "global"
	case ExprConstant:
		return "constant"
	case ExprLocal:
		return "local"
	case ExprCall:
		return "call"
	case ExprTypeRef:
		return "type"
	default:
		return "literal"
	}
}

// Expr is one interesting expression occurrence.
type Expr struct {
	Kind ExprKind
	Span source.Span
	// Readonly is set for constants and read-only globals.
	Readonly bool
	// Builtin is set for calls to and references of predeclared names.
	Builtin bool
}

type Constant struct {
	Name     string
	NameSpan source.Span
	Span     source.Span
	Override bool
	Type     string
}

type Member struct {
	Name     string
	NameSpan source.Span
	Type     string
}

type TypeDef struct {
	Name     string
	NameSpan source.Span
	Span     source.Span
	Struct   bool
	Members  []Member
	Type     string // target of an alias
}

type Global struct {
	Name     string
	NameSpan source.Span
	Span     source.Span
	Space    AddressSpace
	Access   Access
	Type     string
}

// Readonly reports whether shaders cannot write the global.
func (g Global) Readonly() bool {
	switch g.Space {
	case SpaceUniform, SpaceHandle, SpacePushConstant:
		return true
	case SpaceStorage:
		return g.Access&AccessWrite == 0
	}
	return false
}

type Param struct {
	Name     string
	NameSpan source.Span
	Type     string
}

type Function struct {
	Name     string
	NameSpan source.Span
	Span     source.Span
	Stage    string // vertex, fragment, compute or ""
	Params   []Param
	Result   string
	Exprs    []Expr
}

// Module is the linked module. Exprs in ConstExprs belong to module-scope
// initializers.
type Module struct {
	Name       string
	Constants  []Constant
	Types      []TypeDef
	Globals    []Global
	Functions  []Function
	ConstExprs []Expr
}

// EntryPoints returns the functions carrying a stage attribute.
func (m *Module) EntryPoints() []Function {
	var out []Function
	for _, f := range m.Functions {
		if f.Stage != "" {
			out = append(out, f)
		}
	}
	return out
}
