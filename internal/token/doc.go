// Package token defines lexical token kinds for the WGSL front end.
// Invariants:
//   - Token.Text is a slice of the source text (no copies).
//   - Token.Span matches Text exactly (Start..End).
//   - Attributes are lexed as '@' (Kind: At) + Ident; no per-attribute token kinds.
//   - Built-in type names (f32, vec3, mat4x4, ...) are identifiers.
//     They are recognized by the semantic layer, not the lexer.
//   - '>>' and '>=' are lexed greedily; the parser splits them when it closes
//     a template list.
package token
