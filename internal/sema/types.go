package sema

import (
	"fmt"
	"strings"
)

// TypeKind classifies a WGSL type.
type TypeKind uint8

const (
	TyInvalid TypeKind = iota
	TyBool
	TyI32
	TyU32
	TyF32
	TyF16
	TyVector
	TyMatrix
	TyArray
	TyStruct
	TyPointer
	TyAtomic
	TySampler
	TyTexture
	TyFunc
)

type Field struct {
	Name string
	Type *Type
}

// Type describes a WGSL type. A nil *Type means "unknown": an error has
// already been reported for it, so consumers stay silent.
type Type struct {
	Kind  TypeKind
	Elem  *Type // vector/matrix/array/pointer/atomic element, texture sample type
	N     int   // vector width, matrix columns, array length (0 = runtime sized, -1 = not constant)
	Rows  int   // matrix rows
	Name  string
	Space string // pointer address space

	Fields []Field // struct members

	Params []*Type // function signature
	Result *Type
}

var (
	Bool = &Type{Kind: TyBool}
	I32  = &Type{Kind: TyI32}
	U32  = &Type{Kind: TyU32}
	F32  = &Type{Kind: TyF32}
	F16  = &Type{Kind: TyF16}
)

func Vec(n int, elem *Type) *Type {
	if elem == nil {
		return nil
	}
	return &Type{Kind: TyVector, N: n, Elem: elem}
}

func Mat(cols, rows int, elem *Type) *Type {
	if elem == nil {
		return nil
	}
	return &Type{Kind: TyMatrix, N: cols, Rows: rows, Elem: elem}
}

func (t *Type) IsScalar() bool {
	return t != nil && t.Kind >= TyBool && t.Kind <= TyF16
}

func (t *Type) IsInteger() bool {
	return t != nil && (t.Kind == TyI32 || t.Kind == TyU32)
}

func (t *Type) IsFloat() bool {
	return t != nil && (t.Kind == TyF32 || t.Kind == TyF16)
}

func (t *Type) IsNumeric() bool {
	return t.IsInteger() || t.IsFloat()
}

// Scalar returns the scalar component of a scalar or vector type.
func (t *Type) Scalar() *Type {
	if t == nil {
		return nil
	}
	switch t.Kind {
	case TyVector, TyMatrix:
		return t.Elem
	}
	if t.IsScalar() {
		return t
	}
	return nil
}

// Identical reports whether a and b denote the same type. Unknown types are
// identical to everything.
func Identical(a, b *Type) bool {
	if a == nil || b == nil || a == b {
		return true
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case TyVector:
		return a.N == b.N && Identical(a.Elem, b.Elem)
	case TyMatrix:
		return a.N == b.N && a.Rows == b.Rows && Identical(a.Elem, b.Elem)
	case TyArray:
		if a.N >= 0 && b.N >= 0 && a.N != b.N {
			return false
		}
		return Identical(a.Elem, b.Elem)
	case TyPointer, TyAtomic:
		return Identical(a.Elem, b.Elem)
	case TyStruct:
		// структуры сравниваются по объявлению
		return false
	case TySampler, TyTexture:
		return a.Name == b.Name && Identical(a.Elem, b.Elem)
	case TyFunc:
		return false
	default:
		return true
	}
}

func (t *Type) String() string {
	if t == nil {
		return "{unknown}"
	}
	switch t.Kind {
	case TyBool:
		return "bool"
	case TyI32:
		return "i32"
	case TyU32:
		return "u32"
	case TyF32:
		return "f32"
	case TyF16:
		return "f16"
	case TyVector:
		return fmt.Sprintf("vec%d<%s>", t.N, t.Elem)
	case TyMatrix:
		return fmt.Sprintf("mat%dx%d<%s>", t.N, t.Rows, t.Elem)
	case TyArray:
		if t.N > 0 {
			return fmt.Sprintf("array<%s, %d>", t.Elem, t.N)
		}
		return fmt.Sprintf("array<%s>", t.Elem)
	case TyPointer:
		return fmt.Sprintf("ptr<%s, %s>", t.Space, t.Elem)
	case TyAtomic:
		return fmt.Sprintf("atomic<%s>", t.Elem)
	case TyTexture:
		if t.Elem != nil {
			return fmt.Sprintf("%s<%s>", t.Name, t.Elem)
		}
		return t.Name
	case TyFunc:
		parts := make([]string, len(t.Params))
		for i, p := range t.Params {
			parts[i] = p.String()
		}
		sig := "fn(" + strings.Join(parts, ", ") + ")"
		if t.Result != nil {
			sig += " -> " + t.Result.String()
		}
		return sig
	default:
		return t.Name
	}
}

// FieldByName looks up a struct member.
func (t *Type) FieldByName(name string) (*Type, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f.Type, true
		}
	}
	return nil, false
}
