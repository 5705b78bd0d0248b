package diagfmt

import (
	"wgslsp/internal/diag"
	"wgslsp/internal/diagmap"
	"wgslsp/internal/source"
)

// File is the diagnostic set published for one document together with the
// text the ranges refer to.
type File struct {
	Location    source.Location
	Text        string
	Diagnostics []diagmap.Diagnostic
}

// Count returns the number of errors and warnings across files.
func Count(files []File) (errors, warnings int) {
	for _, f := range files {
		for _, d := range f.Diagnostics {
			switch d.Severity {
			case diag.SevError:
				errors++
			case diag.SevWarning:
				warnings++
			}
		}
	}
	return errors, warnings
}
