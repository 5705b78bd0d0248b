// Package ast holds the syntax tree of one WGSL module source.
// All spans are byte offsets into the text the parser was given.
package ast
