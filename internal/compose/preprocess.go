package compose

import (
	"fmt"
	"maps"
	"strings"
	"unicode"
	"unicode/utf8"

	"wgslsp/internal/source"
)

// define is a `#define` found in an active region.
type define struct {
	Name  string
	Value ShaderDefValue
	Pos   uint32
}

// preprocessed is a module source with its directives evaluated. Text has
// the same length and line structure as the input: directive lines and
// inactive regions are blanked so every offset still points at the same
// place in the original source.
type preprocessed struct {
	Name     string
	NameSpan source.Span
	Imports  []ImportDef
	Defines  []define
	Text     string
}

type condFrame struct {
	parent  bool // родительская ветка активна
	active  bool
	taken   bool
	sawElse bool
}

type preprocessor struct {
	src   string
	out   []byte
	defs  map[string]ShaderDefValue
	stack []condFrame
	es    ErrSource
	res   preprocessed
}

// preprocess evaluates conditional directives against defs, collects the
// module name, imports and defines, and blanks everything the parser must
// not see.
func preprocess(src string, defs map[string]ShaderDefValue, es ErrSource) (*preprocessed, *Error) {
	pp := &preprocessor{
		src:  src,
		out:  []byte(src),
		defs: maps.Clone(defs),
		es:   es,
	}
	if pp.defs == nil {
		pp.defs = make(map[string]ShaderDefValue)
	}
	for ls := 0; ls <= len(src); {
		le := strings.IndexByte(src[ls:], '\n')
		if le < 0 {
			le = len(src)
		} else {
			le += ls
		}
		if err := pp.line(ls, le); err != nil {
			return nil, err
		}
		ls = le + 1
	}
	if len(pp.stack) > 0 {
		return nil, positional(NotEnoughEndIfs, es, source.SafeUint32(len(src)), "missing #endif")
	}
	pp.res.Text = string(pp.out)
	return &pp.res, nil
}

func (pp *preprocessor) active() bool {
	if len(pp.stack) == 0 {
		return true
	}
	return pp.stack[len(pp.stack)-1].active
}

func (pp *preprocessor) blank(from, to int) {
	for i := from; i < to; i++ {
		if pp.out[i] != '\r' {
			pp.out[i] = ' '
		}
	}
}

func (pp *preprocessor) line(ls, le int) *Error {
	text := pp.src[ls:le]
	indent := len(text) - len(strings.TrimLeft(text, " \t"))
	if indent == len(text) || text[indent] != '#' {
		if !pp.active() {
			pp.blank(ls, le)
		}
		return nil
	}
	wordStart := indent + 1
	word := leadingIdent(text[wordStart:])
	restStart := wordStart + len(word)
	rest := text[restStart:]
	restOff := source.SafeUint32(ls + restStart)

	switch word {
	case "define_import_path":
		if pp.active() {
			pp.importPath(rest, restOff)
		}
	case "import":
		if pp.active() {
			defs, bad, ok := ParseImportList(rest, restOff)
			if !ok {
				return positional(ImportParseError, pp.es, bad, "failed to parse import")
			}
			pp.res.Imports = append(pp.res.Imports, defs...)
		}
	case "ifdef", "ifndef", "if":
		cond, err := pp.condition(word, rest, restOff)
		if err != nil {
			return err
		}
		parent := pp.active()
		pp.stack = append(pp.stack, condFrame{
			parent: parent,
			active: parent && cond,
			taken:  cond,
		})
	case "else":
		if err := pp.elseBranch(rest, restOff, source.SafeUint32(ls+indent)); err != nil {
			return err
		}
	case "endif":
		if len(pp.stack) == 0 {
			return positional(TooManyEndIfs, pp.es, source.SafeUint32(ls+indent), "#endif without matching #if")
		}
		pp.stack = pp.stack[:len(pp.stack)-1]
	case "define":
		if pp.active() {
			if err := pp.define(rest, restOff); err != nil {
				return err
			}
		}
	default:
		// не директива препроцессора: пусть разбирается парсер
		if !pp.active() {
			pp.blank(ls, le)
		}
		return nil
	}
	pp.blank(ls, le)
	return nil
}

func (pp *preprocessor) importPath(rest string, off uint32) {
	if pp.res.Name != "" {
		return
	}
	trimmed := strings.TrimLeft(rest, " \t")
	start := len(rest) - len(trimmed)
	name := strings.TrimSpace(stripComment(trimmed))
	if name == "" {
		return
	}
	pp.res.Name = name
	pp.res.NameSpan = source.Span{
		Start: off + source.SafeUint32(start),
		End:   off + source.SafeUint32(start+len(name)),
	}
}

// condition evaluates the argument of #ifdef, #ifndef or #if. Inactive
// regions are not evaluated.
func (pp *preprocessor) condition(word, rest string, off uint32) (bool, *Error) {
	trimmed := strings.TrimLeft(rest, " \t")
	at := off + source.SafeUint32(len(rest)-len(trimmed))
	name := leadingIdent(trimmed)
	if name == "" {
		return false, positional(UnknownShaderDef, pp.es, at, "expected a shader def name")
	}
	if !pp.active() {
		return false, nil
	}
	switch word {
	case "ifdef":
		_, ok := pp.defs[name]
		return ok, nil
	case "ifndef":
		_, ok := pp.defs[name]
		return !ok, nil
	}
	def, ok := pp.defs[name]
	if !ok {
		return false, positional(UnknownShaderDef, pp.es, at, fmt.Sprintf("unknown shader def '%s'", name))
	}
	tail := trimmed[len(name):]
	opText := strings.TrimLeft(tail, " \t")
	opAt := at + source.SafeUint32(len(name)+len(tail)-len(opText))
	opLen := 0
	for opLen < len(opText) && strings.IndexByte("=!<>", opText[opLen]) >= 0 {
		opLen++
	}
	op := opText[:opLen]
	if !validOperator(op) {
		return false, positional(UnknownShaderDefOperator, pp.es, opAt, fmt.Sprintf("unknown shader def operator '%s'", op))
	}
	valText := strings.TrimLeft(opText[opLen:], " \t")
	valAt := opAt + source.SafeUint32(len(opText)-len(valText))
	value := strings.TrimSpace(stripComment(valText))
	res, ok := def.compare(op, value)
	if !ok {
		return false, positional(InvalidShaderDefComparisonValue, pp.es, valAt,
			fmt.Sprintf("invalid comparison value '%s' for shader def '%s'", value, name))
	}
	return res, nil
}

func (pp *preprocessor) elseBranch(rest string, off, pos uint32) *Error {
	if len(pp.stack) == 0 {
		return positional(ElseWithoutCondition, pp.es, pos, "#else without matching #if")
	}
	top := &pp.stack[len(pp.stack)-1]
	if top.sawElse {
		return positional(ElseWithoutCondition, pp.es, pos, "#else after a final #else")
	}
	trimmed := strings.TrimLeft(rest, " \t")
	word := leadingIdent(trimmed)
	if word != "ifdef" && word != "ifndef" && word != "if" {
		top.sawElse = true
		top.active = top.parent && !top.taken
		top.taken = true
		return nil
	}
	if top.taken || !top.parent {
		top.active = false
		return nil
	}
	// оценка условия идёт в контексте родителя
	saved := pp.stack
	pp.stack = pp.stack[:len(pp.stack)-1]
	wordOff := off + source.SafeUint32(len(rest)-len(trimmed)+len(word))
	cond, err := pp.condition(word, trimmed[len(word):], wordOff)
	pp.stack = saved
	if err != nil {
		return err
	}
	top.active = cond
	top.taken = cond
	return nil
}

func (pp *preprocessor) define(rest string, off uint32) *Error {
	trimmed := strings.TrimLeft(rest, " \t")
	at := off + source.SafeUint32(len(rest)-len(trimmed))
	name := leadingIdent(trimmed)
	if name == "" {
		return positional(InvalidShaderDefDefinitionValue, pp.es, at, "expected a shader def name")
	}
	valText := strings.TrimLeft(trimmed[len(name):], " \t")
	valAt := at + source.SafeUint32(len(trimmed)-len(valText))
	raw := strings.TrimSpace(stripComment(valText))
	value, ok := ParseDefValue(raw)
	if !ok {
		return positional(InvalidShaderDefDefinitionValue, pp.es, valAt,
			fmt.Sprintf("invalid value '%s' for shader def '%s'", raw, name))
	}
	if prev, exists := pp.defs[name]; exists && prev != value {
		return newError(InconsistentShaderDefValue, pp.es,
			fmt.Sprintf("shader def '%s' is defined as %s but was %s", name, value, prev))
	}
	pp.defs[name] = value
	pp.res.Defines = append(pp.res.Defines, define{Name: name, Value: value, Pos: at})
	return nil
}

func leadingIdent(s string) string {
	i := 0
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			i += size
			continue
		}
		break
	}
	return s[:i]
}

func stripComment(s string) string {
	if i := strings.Index(s, "//"); i >= 0 {
		return s[:i]
	}
	return s
}
