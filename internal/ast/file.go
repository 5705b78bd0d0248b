package ast

import (
	"wgslsp/internal/source"
)

// Node is anything with a source span.
type Node interface {
	Span() source.Span
}

// Ident is a bare name together with where it was written.
type Ident struct {
	Name string
	Sp   source.Span
}

func (i Ident) Span() source.Span { return i.Sp }

type Attribute struct {
	Name string
	Args []Expr
	Sp   source.Span
}

func (a *Attribute) Span() source.Span { return a.Sp }

// FindAttr returns the first attribute with the given name.
func FindAttr(attrs []*Attribute, name string) *Attribute {
	for _, a := range attrs {
		if a.Name == name {
			return a
		}
	}
	return nil
}

type File struct {
	Decls []Decl
	Sp    source.Span
}

func (f *File) Span() source.Span { return f.Sp }
