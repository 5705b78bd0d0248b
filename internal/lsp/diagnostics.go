package lsp

import (
	"wgslsp/internal/diag"
	"wgslsp/internal/diagmap"
)

const diagnosticSource = "wgslsp"

func toLSP(d diagmap.Diagnostic) lspDiagnostic {
	out := lspDiagnostic{
		Range:    d.Range,
		Severity: severity(d.Severity),
		Source:   diagnosticSource,
		Message:  d.Message,
	}
	if d.Code != diag.UnknownCode {
		out.Code = d.Code.ID()
	}
	for _, r := range d.Related {
		out.RelatedInformation = append(out.RelatedInformation, relatedInformation{
			Location: location{URI: r.Location.String(), Range: r.Range},
			Message:  r.Message,
		})
	}
	return out
}

func severity(s diag.Severity) int {
	switch s {
	case diag.SevError:
		return 1
	case diag.SevWarning:
		return 2
	default:
		return 3
	}
}
