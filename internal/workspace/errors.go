package workspace

import (
	"fmt"
	"strings"

	"go.trai.ch/zerr"

	"wgslsp/internal/diag"
	"wgslsp/internal/diagmap"
	"wgslsp/internal/source"
)

// ErrUnknownDocument is returned when validation is requested for a
// location the text store does not know.
var ErrUnknownDocument = zerr.New("unknown document")

// ImportNotFoundError reports an import whose name no file provides. It is
// found before the composer is involved.
type ImportNotFoundError struct {
	// Location is the importing file.
	Location source.Location
	// Module is the importing file's module name.
	Module string
	Text   string
	// Span covers the unbound name in Text.
	Span source.Span
	Name string
}

func (e *ImportNotFoundError) Error() string {
	return "Import not found: " + e.Name
}

func (e *ImportNotFoundError) Site() diagmap.Site {
	return diagmap.Site{Location: e.Location, Module: e.Module, Text: e.Text, Span: e.Span, Code: diag.PrjImportNotFound}
}

// ImportCycleError reports an import that leads back to a module still
// being resolved.
type ImportCycleError struct {
	Location source.Location
	Module   string
	Text     string
	Span     source.Span
	Name     string
	// Path lists the module names of the cycle, starting and ending with
	// the same module.
	Path []string
}

func (e *ImportCycleError) Error() string {
	return fmt.Sprintf("Import cycle: %s", strings.Join(e.Path, " -> "))
}

func (e *ImportCycleError) Site() diagmap.Site {
	return diagmap.Site{Location: e.Location, Module: e.Module, Text: e.Text, Span: e.Span, Code: diag.PrjImportCycle}
}
