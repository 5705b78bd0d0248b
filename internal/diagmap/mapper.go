package diagmap

import (
	"errors"
	"strings"

	"wgslsp/internal/compose"
	"wgslsp/internal/diag"
	"wgslsp/internal/source"
)

// Decode turns a packed span end into an offset local to the source that
// starts at sourceOffset in the unit buffer. Offsets before the source
// saturate at zero.
func Decode(packed, sourceOffset uint32) uint32 {
	off := packed & compose.SpanMask
	if off < sourceOffset {
		return 0
	}
	return off - sourceOffset
}

// Pack is the inverse of Decode for a segment tag.
func Pack(tag, sourceOffset, local uint32) uint32 {
	return compose.Pack(tag, sourceOffset+local)
}

// DecodeSpan decodes both ends of a packed span.
func DecodeSpan(p compose.PackedSpan, sourceOffset uint32) source.Span {
	return source.Span{Start: Decode(p.Start, sourceOffset), End: Decode(p.End, sourceOffset)}
}

// Site is where a graph error happened: a span in the text of a file,
// without any unit-buffer addressing.
type Site struct {
	Location source.Location
	// Module is the name of the module the file provides.
	Module string
	Text   string
	Span   source.Span
	Code   diag.Code
}

// Located is implemented by errors that know their own site.
type Located interface {
	error
	Site() Site
}

// Mapper converts validation failures into per-file diagnostics.
type Mapper struct {
	Encoding source.Encoding
}

// Map turns the failure of validating the document at loc, whose text is
// text, into diagnostic sets. The first publication is for the file the
// failure belongs to. When that is not loc, a second publication puts a
// marker on loc at the first occurrence of the failing module's name.
func (m Mapper) Map(err error, loc source.Location, text string) []Publication {
	var (
		owner  source.Location
		module string
		d      Diagnostic
	)
	var ce *compose.Error
	var located Located
	switch {
	case errors.As(err, &ce):
		owner, module = source.Location(ce.Source.Path), ce.Source.Name
		d = m.composeDiagnostic(ce, owner)
	case errors.As(err, &located):
		site := located.Site()
		owner, module = site.Location, site.Module
		t := source.NewText(site.Text)
		d = Diagnostic{
			Range:    t.RangeOf(site.Span, m.Encoding),
			Severity: diag.SevError,
			Code:     site.Code,
			Message:  err.Error(),
		}
	default:
		return []Publication{{Location: loc, Diagnostics: []Diagnostic{{
			Severity: diag.SevError,
			Message:  err.Error(),
		}}}}
	}
	if owner == "" {
		owner = loc
	}
	pubs := []Publication{{Location: owner, Diagnostics: []Diagnostic{d}}}
	if owner != loc {
		pubs = append(pubs, Publication{Location: loc, Diagnostics: []Diagnostic{m.attribution(loc, text, module, owner, d)}})
	}
	return pubs
}

// attribution builds the marker placed on the validated file when the
// failure lives in one of its imports.
func (m Mapper) attribution(loc source.Location, text, module string, owner source.Location, cause Diagnostic) Diagnostic {
	start := max(strings.Index(text, module), 0)
	end := start
	if strings.HasPrefix(text[start:], module) {
		end = start + len(module)
	}
	t := source.NewText(text)
	sp := source.Span{Start: source.SafeUint32(start), End: source.SafeUint32(end)}
	return Diagnostic{
		Range:    t.RangeOf(sp, m.Encoding),
		Severity: diag.SevError,
		Code:     diag.PrjDependencyFailed,
		Message:  "Error in module: " + module,
		Related:  []Related{{Location: owner, Range: cause.Range, Message: cause.Message}},
	}
}

func (m Mapper) composeDiagnostic(ce *compose.Error, owner source.Location) Diagnostic {
	t := source.NewText(ce.Source.Source)
	d := Diagnostic{Severity: diag.SevError, Code: kindCode(ce.Kind), Message: ce.Message}
	switch {
	case ce.Kind == compose.DecorationInSource:
		d.Range = t.RangeOf(ce.Range, m.Encoding)
	case ce.Kind == compose.InvalidIdentifier:
		d.Range = t.RangeOf(DecodeSpan(ce.At, ce.Source.Offset), m.Encoding)
	case ce.Kind.Positional():
		d.Range = t.RangeOf(source.Span{Start: ce.Pos, End: ce.Pos}, m.Encoding)
	case ce.Kind.Labeled() && len(ce.Labels) > 0:
		m.withLabels(&d, t, ce, owner)
	}
	return d
}

// withLabels picks the primary range among the labels: the widest one (the
// last of equally wide ones), or the first other label lying inside it.
// Every label becomes related information.
func (m Mapper) withLabels(d *Diagnostic, t *source.Text, ce *compose.Error, owner source.Location) {
	spans := make([]source.Span, len(ce.Labels))
	widest := 0
	for i, l := range ce.Labels {
		spans[i] = DecodeSpan(l.Span, ce.Source.Offset)
		if spans[i].Len() >= spans[widest].Len() {
			widest = i
		}
	}
	primary := spans[widest]
	for _, sp := range spans {
		if sp != spans[widest] && spans[widest].Contains(sp) {
			primary = sp
			break
		}
	}
	d.Range = t.RangeOf(primary, m.Encoding)
	for i, l := range ce.Labels {
		d.Related = append(d.Related, Related{
			Location: owner,
			Range:    t.RangeOf(spans[i], m.Encoding),
			Message:  l.Message,
		})
	}
}

func kindCode(k compose.ErrorKind) diag.Code {
	switch k {
	case compose.DecorationInSource:
		return diag.PrjDecorationInSource
	case compose.InvalidIdentifier:
		return diag.PrjInvalidIdentifier
	case compose.ImportNotFound:
		return diag.PrjImportNotFound
	case compose.ImportParseError:
		return diag.PrjImportParse
	case compose.NotEnoughEndIfs, compose.TooManyEndIfs, compose.ElseWithoutCondition:
		return diag.PrjConditionalBalance
	case compose.UnknownShaderDef, compose.UnknownShaderDefOperator,
		compose.InvalidShaderDefComparisonValue, compose.InvalidShaderDefDefinitionValue,
		compose.DefineInModule:
		return diag.PrjShaderDef
	case compose.InconsistentShaderDefValue:
		return diag.PrjInconsistentDefault
	case compose.BackendError:
		return diag.PrjBackend
	case compose.RedirectError:
		return diag.PrjRedirect
	case compose.NoModuleName:
		return diag.PrjNoModuleName
	case compose.HeaderValidationError:
		return diag.PrjHeaderValidation
	case compose.ShaderValidationError:
		return diag.PrjShaderValidation
	case compose.ParseError:
		return diag.PrjParse
	}
	return diag.UnknownCode
}
