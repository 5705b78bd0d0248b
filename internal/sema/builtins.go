package sema

import (
	"strings"
)

// builtinTypeNames — предопределённые имена типов. Шаблонные генераторы
// (vec3, array, ptr, ...) тоже здесь; их аргументы разбирает typeExpr.
var builtinTypeNames = map[string]bool{
	"bool": true, "i32": true, "u32": true, "f32": true, "f16": true,
	"vec2": true, "vec3": true, "vec4": true,
	"array": true, "ptr": true, "atomic": true,
	"sampler": true, "sampler_comparison": true,
}

func isBuiltinType(name string) bool {
	if builtinTypeNames[name] || strings.HasPrefix(name, "texture_") {
		return true
	}
	if _, _, ok := vecShorthand(name); ok {
		return true
	}
	if _, _, _, ok := matShape(name); ok {
		return true
	}
	return false
}

// vecShorthand разбирает vec3f, vec2i, vec4u, vec3h.
func vecShorthand(name string) (int, *Type, bool) {
	if len(name) != 5 || !strings.HasPrefix(name, "vec") {
		return 0, nil, false
	}
	n := int(name[3] - '0')
	if n < 2 || n > 4 {
		return 0, nil, false
	}
	elem := scalarSuffix(name[4])
	return n, elem, elem != nil
}

// matShape разбирает matCxR и matCxR{f,h}; elem == nil без суффикса.
func matShape(name string) (cols, rows int, elem *Type, ok bool) {
	if len(name) < 6 || !strings.HasPrefix(name, "mat") || name[4] != 'x' {
		return 0, 0, nil, false
	}
	cols, rows = int(name[3]-'0'), int(name[5]-'0')
	if cols < 2 || cols > 4 || rows < 2 || rows > 4 {
		return 0, 0, nil, false
	}
	switch len(name) {
	case 6:
		return cols, rows, nil, true
	case 7:
		if name[6] == 'f' || name[6] == 'h' {
			return cols, rows, scalarSuffix(name[6]), true
		}
	}
	return 0, 0, nil, false
}

func scalarSuffix(b byte) *Type {
	switch b {
	case 'f':
		return F32
	case 'h':
		return F16
	case 'i':
		return I32
	case 'u':
		return U32
	default:
		return nil
	}
}

func scalarByName(name string) *Type {
	switch name {
	case "bool":
		return Bool
	case "i32":
		return I32
	case "u32":
		return U32
	case "f32":
		return F32
	case "f16":
		return F16
	default:
		return nil
	}
}

// builtinRule вычисляет тип результата встроенной функции по типам аргументов.
// nil — результат неизвестен или функция ничего не возвращает.
type builtinRule func(args []*Type) *Type

func arg0(args []*Type) *Type {
	if len(args) == 0 {
		return nil
	}
	return args[0]
}

func scalarOfArg0(args []*Type) *Type { return arg0(args).Scalar() }
func returnsBool([]*Type) *Type       { return Bool }
func returnsU32([]*Type) *Type        { return U32 }
func returnsF32([]*Type) *Type        { return F32 }
func returnsVoid([]*Type) *Type       { return nil }

func pointee(args []*Type) *Type {
	t := arg0(args)
	if t == nil || t.Kind != TyPointer {
		return nil
	}
	return t.Elem
}

func atomicValue(args []*Type) *Type {
	t := pointee(args)
	if t == nil || t.Kind != TyAtomic {
		return nil
	}
	return t.Elem
}

func textureSample(args []*Type) *Type {
	t := arg0(args)
	if t == nil || t.Kind != TyTexture {
		return nil
	}
	if strings.HasPrefix(t.Name, "texture_depth") {
		return F32
	}
	if t.Elem != nil {
		return Vec(4, t.Elem)
	}
	return Vec(4, F32)
}

func unpackVec(n int) builtinRule {
	return func([]*Type) *Type { return Vec(n, F32) }
}

var builtinFuncs = map[string]builtinRule{
	"all": returnsBool, "any": returnsBool, "select": arg0,
	"arrayLength": returnsU32,

	"dot": scalarOfArg0, "length": scalarOfArg0, "distance": scalarOfArg0, "determinant": scalarOfArg0,

	"atomicLoad": atomicValue, "atomicAdd": atomicValue, "atomicSub": atomicValue,
	"atomicMax": atomicValue, "atomicMin": atomicValue, "atomicAnd": atomicValue,
	"atomicOr": atomicValue, "atomicXor": atomicValue, "atomicExchange": atomicValue,
	"atomicCompareExchangeWeak": returnsVoid,
	"atomicStore":               returnsVoid,
	"workgroupUniformLoad":      pointee,

	"textureSample": textureSample, "textureSampleLevel": textureSample,
	"textureSampleBias": textureSample, "textureSampleGrad": textureSample,
	"textureSampleBaseClampToEdge": textureSample,
	"textureLoad":                  textureSample, "textureGather": textureSample,
	"textureSampleCompare": returnsF32, "textureSampleCompareLevel": returnsF32,
	"textureGatherCompare": unpackVec(4),
	"textureDimensions":    returnsVoid,
	"textureNumLayers":     returnsU32, "textureNumLevels": returnsU32, "textureNumSamples": returnsU32,
	"textureStore": returnsVoid,

	"pack4x8snorm": returnsU32, "pack4x8unorm": returnsU32, "pack2x16snorm": returnsU32,
	"pack2x16unorm": returnsU32, "pack2x16float": returnsU32,
	"unpack4x8snorm": unpackVec(4), "unpack4x8unorm": unpackVec(4),
	"unpack2x16snorm": unpackVec(2), "unpack2x16unorm": unpackVec(2), "unpack2x16float": unpackVec(2),

	"workgroupBarrier": returnsVoid, "storageBarrier": returnsVoid, "textureBarrier": returnsVoid,

	"modf": returnsVoid, "frexp": returnsVoid,
	"bitcast": returnsVoid, // тип результата берётся из шаблона
}

// функции, возвращающие тип первого аргумента
var sameAsArg0 = []string{
	"abs", "acos", "acosh", "asin", "asinh", "atan", "atanh", "atan2", "ceil", "clamp",
	"cos", "cosh", "cross", "degrees", "exp", "exp2", "floor", "fma", "fract",
	"inverseSqrt", "ldexp", "log", "log2", "max", "min", "mix", "normalize", "pow",
	"quantizeToF16", "radians", "reflect", "refract", "round", "saturate", "sign",
	"sin", "sinh", "smoothstep", "sqrt", "step", "tan", "tanh", "trunc", "faceForward",
	"dpdx", "dpdy", "dpdxCoarse", "dpdyCoarse", "dpdxFine", "dpdyFine",
	"fwidth", "fwidthCoarse", "fwidthFine",
	"countOneBits", "countLeadingZeros", "countTrailingZeros", "reverseBits",
	"firstLeadingBit", "firstTrailingBit", "extractBits", "insertBits",
}

func init() {
	for _, name := range sameAsArg0 {
		builtinFuncs[name] = arg0
	}
	builtinFuncs["transpose"] = func(args []*Type) *Type {
		t := arg0(args)
		if t == nil || t.Kind != TyMatrix {
			return nil
		}
		return Mat(t.Rows, t.N, t.Elem)
	}
}

func isBuiltinFunc(name string) bool {
	_, ok := builtinFuncs[name]
	return ok
}
