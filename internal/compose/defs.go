package compose

import (
	"fmt"
	"strconv"
)

// DefKind is the type of a shader definition value.
type DefKind uint8

const (
	DefBool DefKind = iota
	DefInt
	DefUint
)

// ShaderDefValue is the value of a name usable in conditional directives.
type ShaderDefValue struct {
	Kind DefKind
	Bool bool
	Int  int64
	Uint uint64
}

func BoolDef(b bool) ShaderDefValue   { return ShaderDefValue{Kind: DefBool, Bool: b} }
func IntDef(n int64) ShaderDefValue   { return ShaderDefValue{Kind: DefInt, Int: n} }
func UintDef(n uint64) ShaderDefValue { return ShaderDefValue{Kind: DefUint, Uint: n} }

func (v ShaderDefValue) String() string {
	switch v.Kind {
	case DefInt:
		return strconv.FormatInt(v.Int, 10)
	case DefUint:
		return strconv.FormatUint(v.Uint, 10) + "u"
	default:
		return strconv.FormatBool(v.Bool)
	}
}

// ParseDefValue reads a `#define` value: true/false, a signed integer, or an
// unsigned integer with a `u` suffix. An empty value means true.
func ParseDefValue(s string) (ShaderDefValue, bool) {
	switch s {
	case "", "true":
		return BoolDef(true), true
	case "false":
		return BoolDef(false), true
	}
	if len(s) > 1 && s[len(s)-1] == 'u' {
		n, err := strconv.ParseUint(s[:len(s)-1], 10, 32)
		if err != nil {
			return ShaderDefValue{}, false
		}
		return UintDef(n), true
	}
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return ShaderDefValue{}, false
	}
	return IntDef(n), true
}

// DefFromAny converts a decoded config value (toml or JSON) into a shader
// definition.
func DefFromAny(v any) (ShaderDefValue, error) {
	switch x := v.(type) {
	case bool:
		return BoolDef(x), nil
	case int64:
		return IntDef(x), nil
	case int:
		return IntDef(int64(x)), nil
	case float64:
		if x != float64(int64(x)) {
			return ShaderDefValue{}, fmt.Errorf("shader def value %v is not an integer", x)
		}
		return IntDef(int64(x)), nil
	case string:
		if d, ok := ParseDefValue(x); ok {
			return d, nil
		}
		return ShaderDefValue{}, fmt.Errorf("invalid shader def value %q", x)
	default:
		return ShaderDefValue{}, fmt.Errorf("unsupported shader def value of type %T", v)
	}
}

// compare evaluates `def op value` where value is parsed with the def's own
// type. ok is false when value does not parse as that type.
func (v ShaderDefValue) compare(op, value string) (result, ok bool) {
	var c int
	switch v.Kind {
	case DefBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return false, false
		}
		switch op {
		case "==":
			return v.Bool == b, true
		case "!=":
			return v.Bool != b, true
		}
		return false, false
	case DefInt:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return false, false
		}
		c = cmpOrdered(v.Int, n)
	case DefUint:
		n, err := strconv.ParseUint(trimU(value), 10, 64)
		if err != nil {
			return false, false
		}
		c = cmpOrdered(v.Uint, n)
	}
	switch op {
	case "==":
		return c == 0, true
	case "!=":
		return c != 0, true
	case "<":
		return c < 0, true
	case "<=":
		return c <= 0, true
	case ">":
		return c > 0, true
	case ">=":
		return c >= 0, true
	}
	return false, false
}

func trimU(s string) string {
	if len(s) > 1 && s[len(s)-1] == 'u' {
		return s[:len(s)-1]
	}
	return s
}

func cmpOrdered[T int64 | uint64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func validOperator(op string) bool {
	switch op {
	case "==", "!=", "<", "<=", ">", ">=":
		return true
	}
	return false
}
