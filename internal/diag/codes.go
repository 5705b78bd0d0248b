package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка - на первое время
	UnknownCode Code = 0

	// Лексические
	LexUnknownChar              Code = 1001
	LexUnterminatedBlockComment Code = 1002
	LexBadNumber                Code = 1003

	// Парсерные
	SynUnexpectedToken  Code = 2001
	SynUnclosedDelim    Code = 2002
	SynExpectSemicolon  Code = 2003
	SynExpectIdentifier Code = 2004
	SynExpectType       Code = 2005
	SynExpectExpression Code = 2006
	SynBadAttribute     Code = 2007
	SynUnexpectedTopLvl Code = 2008

	// Семантические
	SemUndefinedName    Code = 3001
	SemDuplicateDecl    Code = 3002
	SemReturnMismatch   Code = 3003
	SemMissingReturn    Code = 3004
	SemVoidReturnValue  Code = 3005
	SemConditionNotBool Code = 3006
	SemOperandMismatch  Code = 3007
	SemInitMismatch     Code = 3008
	SemArgCount         Code = 3009
	SemAssignImmutable  Code = 3010
	SemUnknownType      Code = 3011
	SemNotCallable      Code = 3012

	// IO
	IOLoadFileError Code = 4001

	// Модули и композиция
	PrjImportNotFound      Code = 5001
	PrjImportCycle         Code = 5002
	PrjImportParse         Code = 5003
	PrjConditionalBalance  Code = 5004
	PrjShaderDef           Code = 5005
	PrjRedirect            Code = 5006
	PrjNoModuleName        Code = 5007
	PrjHeaderValidation    Code = 5008
	PrjDependencyFailed    Code = 5009
	PrjDecorationInSource  Code = 5010
	PrjInvalidIdentifier   Code = 5011
	PrjBackend             Code = 5012
	PrjShaderValidation    Code = 5013
	PrjParse               Code = 5014
	PrjInconsistentDefault Code = 5015
)

var codeDescription = map[Code]string{
	UnknownCode:                 "Unknown error",
	LexUnknownChar:              "Unknown character",
	LexUnterminatedBlockComment: "Unterminated block comment",
	LexBadNumber:                "Malformed numeric literal",
	SynUnexpectedToken:          "Unexpected token",
	SynUnclosedDelim:            "Unclosed delimiter",
	SynExpectSemicolon:          "Expected ';'",
	SynExpectIdentifier:         "Expected identifier",
	SynExpectType:               "Expected type",
	SynExpectExpression:         "Expected expression",
	SynBadAttribute:             "Malformed attribute",
	SynUnexpectedTopLvl:         "Unexpected top-level item",
	SemUndefinedName:            "Undefined name",
	SemDuplicateDecl:            "Duplicate declaration",
	SemReturnMismatch:           "Return type mismatch",
	SemMissingReturn:            "Missing return",
	SemVoidReturnValue:          "Value returned from void function",
	SemConditionNotBool:         "Condition is not bool",
	SemOperandMismatch:          "Operand type mismatch",
	SemInitMismatch:             "Initializer type mismatch",
	SemArgCount:                 "Wrong number of arguments",
	SemAssignImmutable:          "Assignment to immutable value",
	SemUnknownType:              "Unknown type",
	SemNotCallable:              "Not callable",
	IOLoadFileError:             "Failed to load file",
	PrjImportNotFound:           "Import not found",
	PrjImportCycle:              "Import cycle",
	PrjImportParse:              "Malformed import",
	PrjConditionalBalance:       "Unbalanced conditional directives",
	PrjShaderDef:                "Invalid shader definition",
	PrjRedirect:                 "Import redirect failed",
	PrjNoModuleName:             "Missing module name",
	PrjHeaderValidation:         "Import header validation failed",
	PrjDependencyFailed:         "Imported module has errors",
	PrjDecorationInSource:       "Reserved decoration in source",
	PrjInvalidIdentifier:        "Invalid identifier",
	PrjBackend:                  "Backend error",
	PrjShaderValidation:         "Shader validation failed",
	PrjParse:                    "Shader parse error",
	PrjInconsistentDefault:      "Inconsistent shader definition value",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
