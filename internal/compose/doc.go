// Package compose turns shader modules with `#import` and conditional
// directives into composed modules that can be linked and validated.
//
// A module is added with AddComposableModule once every module it imports
// has been added. Directive lines and inactive `#ifdef` regions are blanked
// rather than removed, so offsets in the text the parser sees are offsets
// in the original source.
//
// Errors locate themselves in one of three ways, decided by ErrorKind: a
// raw offset into the module source, packed spans, or nothing. Packed spans
// address the unit buffer of the module being composed: the
// dependency-first concatenation of its transitive imports followed by the
// module itself. The low SpanShift bits of a packed value are the offset in
// that buffer; ErrSource.Offset is where the owning module starts in it.
package compose
