package diagfmt

import (
	"encoding/json"
	"io"

	"wgslsp/internal/diagmap"
	"wgslsp/internal/source"
)

// LocationJSON — место в файле, строки и колонки с единицы.
type LocationJSON struct {
	File      string `json:"file"`
	StartLine int    `json:"start_line"`
	StartCol  int    `json:"start_col"`
	EndLine   int    `json:"end_line"`
	EndCol    int    `json:"end_col"`
}

// NoteJSON — связанная информация диагностики.
type NoteJSON struct {
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

// DiagnosticJSON — диагностика в JSON формате.
type DiagnosticJSON struct {
	Severity string       `json:"severity"`
	Code     string       `json:"code,omitempty"`
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
	Notes    []NoteJSON   `json:"notes,omitempty"`
}

// DiagnosticsOutput — корневая структура JSON вывода.
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
	Errors      int              `json:"errors"`
	Warnings    int              `json:"warnings"`
}

func makeLocation(loc source.Location, r source.Range, mode PathMode, base string) LocationJSON {
	return LocationJSON{
		File:      formatPath(loc, mode, base),
		StartLine: r.Start.Line + 1,
		StartCol:  r.Start.Character + 1,
		EndLine:   r.End.Line + 1,
		EndCol:    r.End.Character + 1,
	}
}

// BuildDiagnosticsOutput формирует структуру JSON-вывода без сериализации.
// Count is the total before Max truncation.
func BuildDiagnosticsOutput(files []File, opts JSONOpts) DiagnosticsOutput {
	out := DiagnosticsOutput{Diagnostics: []DiagnosticJSON{}}
	out.Errors, out.Warnings = Count(files)
	for _, f := range files {
		for _, d := range f.Diagnostics {
			out.Count++
			if opts.Max > 0 && len(out.Diagnostics) >= opts.Max {
				continue
			}
			out.Diagnostics = append(out.Diagnostics, diagnosticJSON(f.Location, d, opts))
		}
	}
	return out
}

func diagnosticJSON(loc source.Location, d diagmap.Diagnostic, opts JSONOpts) DiagnosticJSON {
	dj := DiagnosticJSON{
		Severity: d.Severity.String(),
		Message:  d.Message,
		Location: makeLocation(loc, d.Range, opts.PathMode, opts.BaseDir),
	}
	if d.Code != 0 {
		dj.Code = d.Code.ID()
	}
	if opts.IncludeNotes {
		for _, rel := range d.Related {
			dj.Notes = append(dj.Notes, NoteJSON{
				Message:  rel.Message,
				Location: makeLocation(rel.Location, rel.Range, opts.PathMode, opts.BaseDir),
			})
		}
	}
	return dj
}

// JSON writes the diagnostics of files as indented JSON.
func JSON(w io.Writer, files []File, opts JSONOpts) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildDiagnosticsOutput(files, opts))
}
