package compose

import (
	"fmt"

	"wgslsp/internal/source"
)

// ErrorKind classifies composer failures. The kind decides how a failure is
// turned into a diagnostic: positional kinds carry a raw offset, labeled
// kinds carry packed spans, the rest carry no location at all.
type ErrorKind uint8

const (
	DecorationInSource ErrorKind = iota + 1
	InvalidIdentifier
	ImportNotFound
	ImportParseError
	NotEnoughEndIfs
	TooManyEndIfs
	ElseWithoutCondition
	UnknownShaderDef
	UnknownShaderDefOperator
	InvalidShaderDefComparisonValue
	InvalidShaderDefDefinitionValue
	DefineInModule
	InconsistentShaderDefValue
	BackendError
	RedirectError
	NoModuleName
	HeaderValidationError
	ShaderValidationError
	ParseError
)

var kindNames = [...]string{
	DecorationInSource:              "DecorationInSource",
	InvalidIdentifier:               "InvalidIdentifier",
	ImportNotFound:                  "ImportNotFound",
	ImportParseError:                "ImportParseError",
	NotEnoughEndIfs:                 "NotEnoughEndIfs",
	TooManyEndIfs:                   "TooManyEndIfs",
	ElseWithoutCondition:            "ElseWithoutCondition",
	UnknownShaderDef:                "UnknownShaderDef",
	UnknownShaderDefOperator:        "UnknownShaderDefOperator",
	InvalidShaderDefComparisonValue: "InvalidShaderDefComparisonValue",
	InvalidShaderDefDefinitionValue: "InvalidShaderDefDefinitionValue",
	DefineInModule:                  "DefineInModule",
	InconsistentShaderDefValue:      "InconsistentShaderDefValue",
	BackendError:                    "BackendError",
	RedirectError:                   "RedirectError",
	NoModuleName:                    "NoModuleName",
	HeaderValidationError:           "HeaderValidationError",
	ShaderValidationError:           "ShaderValidationError",
	ParseError:                      "ParseError",
}

func (k ErrorKind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("ErrorKind(%d)", k)
}

// Positional reports whether errors of this kind carry a raw offset into
// the module source in Error.Pos.
func (k ErrorKind) Positional() bool {
	switch k {
	case ImportNotFound, ImportParseError, NotEnoughEndIfs, TooManyEndIfs,
		ElseWithoutCondition, UnknownShaderDef, UnknownShaderDefOperator,
		InvalidShaderDefComparisonValue, DefineInModule, InvalidShaderDefDefinitionValue:
		return true
	}
	return false
}

// Labeled reports whether errors of this kind carry packed labels.
func (k ErrorKind) Labeled() bool {
	switch k {
	case HeaderValidationError, ShaderValidationError, ParseError:
		return true
	}
	return false
}

// Structural reports whether the failure prevents the module from being
// composed at all.
func (k ErrorKind) Structural() bool {
	return k != ShaderValidationError
}

// PackedSpan is a span in unit-buffer addressing: the low SpanShift bits of
// each end are the offset into the concatenated unit, the bits above carry
// the segment tag.
type PackedSpan struct {
	Start uint32
	End   uint32
}

// Label is one contributing location of a labeled error.
type Label struct {
	Span    PackedSpan
	Message string
}

// ErrSource identifies the module an error belongs to. Offset is where the
// module's source starts inside the unit buffer the packed spans address.
type ErrSource struct {
	Name   string
	Path   string
	Source string
	Offset uint32
}

// Error is a composer failure. Which location fields are set depends on
// Kind: Pos for positional kinds, Range for DecorationInSource, At for
// InvalidIdentifier and Labels for labeled kinds.
type Error struct {
	Kind    ErrorKind
	Source  ErrSource
	Pos     uint32
	Range   source.Span
	At      PackedSpan
	Labels  []Label
	Message string
}

func (e *Error) Error() string {
	if e.Source.Name != "" {
		return fmt.Sprintf("%s: %s", e.Source.Name, e.Message)
	}
	return e.Message
}

func newError(kind ErrorKind, src ErrSource, msg string) *Error {
	return &Error{Kind: kind, Source: src, Message: msg}
}

func positional(kind ErrorKind, src ErrSource, pos uint32, msg string) *Error {
	e := newError(kind, src, msg)
	e.Pos = pos
	return e
}
