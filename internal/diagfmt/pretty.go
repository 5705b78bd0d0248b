package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"wgslsp/internal/diag"
	"wgslsp/internal/diagmap"
	"wgslsp/internal/source"
)

type palette struct {
	on      bool
	err     *color.Color
	warn    *color.Color
	info    *color.Color
	bold    *color.Color
	gutter  *color.Color
	pointer *color.Color
}

func newPalette(on bool) palette {
	return palette{
		on:      on,
		err:     color.New(color.FgRed, color.Bold),
		warn:    color.New(color.FgYellow, color.Bold),
		info:    color.New(color.FgCyan, color.Bold),
		bold:    color.New(color.Bold),
		gutter:  color.New(color.FgBlue),
		pointer: color.New(color.FgGreen, color.Bold),
	}
}

func (p palette) paint(c *color.Color, s string) string {
	if !p.on {
		return s
	}
	c.EnableColor()
	return c.Sprint(s)
}

func (p palette) severity(sev diag.Severity) string {
	switch sev {
	case diag.SevError:
		return p.paint(p.err, sev.String())
	case diag.SevWarning:
		return p.paint(p.warn, sev.String())
	}
	return p.paint(p.info, sev.String())
}

// Pretty форматирует диагностики в человекочитаемый вид:
//
//	<path>:<line>:<col>: <severity>[<CODE>]: <message>
//
// затем строку исходника с подчёркиванием ^~~~ и заметки из Related.
func Pretty(w io.Writer, files []File, opts PrettyOpts) error {
	p := newPalette(opts.Color)
	for _, f := range files {
		text := source.NewText(f.Text)
		path := formatPath(f.Location, opts.PathMode, opts.BaseDir)
		for _, d := range f.Diagnostics {
			if err := prettyOne(w, p, text, path, d, opts); err != nil {
				return err
			}
		}
	}
	return nil
}

func prettyOne(w io.Writer, p palette, text *source.Text, path string, d diagmap.Diagnostic, opts PrettyOpts) error {
	var sb strings.Builder
	start := d.Range.Start
	fmt.Fprintf(&sb, "%s: %s", p.paint(p.bold, fmt.Sprintf("%s:%d:%d", path, start.Line+1, start.Character+1)), p.severity(d.Severity))
	if d.Code != diag.UnknownCode {
		fmt.Fprintf(&sb, "[%s]", d.Code.ID())
	}
	fmt.Fprintf(&sb, ": %s\n", p.paint(p.bold, d.Message))

	if start.Line < text.LineCount() {
		first := max(start.Line-int(max(opts.Context, 0)), 0)
		width := len(strconv.Itoa(start.Line + 1))
		pad := strings.Repeat(" ", width)
		bar := p.paint(p.gutter, "|")
		fmt.Fprintf(&sb, "%s %s\n", pad, bar)
		for ln := first; ln <= start.Line; ln++ {
			line := strings.TrimRight(text.Line(ln), "\r\n")
			gutter := p.paint(p.gutter, fmt.Sprintf("%*d |", width, ln+1))
			if line == "" {
				fmt.Fprintf(&sb, "%s\n", gutter)
			} else {
				fmt.Fprintf(&sb, "%s %s\n", gutter, line)
			}
		}
		lead, marks := underline(text, d.Range, opts.Encoding)
		fmt.Fprintf(&sb, "%s %s %s%s\n", pad, bar, lead, p.paint(p.pointer, marks))
	}

	if opts.ShowNotes {
		for _, rel := range d.Related {
			loc := formatPath(rel.Location, opts.PathMode, opts.BaseDir)
			fmt.Fprintf(&sb, "%s = note: %s:%d:%d: %s\n",
				strings.Repeat(" ", len(strconv.Itoa(start.Line+1))),
				loc, rel.Range.Start.Line+1, rel.Range.Start.Character+1, rel.Message)
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// underline returns the padding up to the range start and the marker run
// below it. Tabs are kept so the marker lines up with the source line.
func underline(text *source.Text, r source.Range, enc source.Encoding) (lead, marks string) {
	line := strings.TrimRight(text.Line(r.Start.Line), "\r\n")
	lineStart := int(text.OffsetAt(source.Position{Line: r.Start.Line}, enc))
	from := min(max(int(text.OffsetAt(r.Start, enc))-lineStart, 0), len(line))
	to := len(line)
	if r.End.Line == r.Start.Line {
		to = min(max(int(text.OffsetAt(r.End, enc))-lineStart, from), len(line))
	}

	var lb strings.Builder
	for _, ch := range line[:from] {
		if ch == '\t' {
			lb.WriteByte('\t')
			continue
		}
		lb.WriteString(strings.Repeat(" ", runewidth.RuneWidth(ch)))
	}
	n := max(runewidth.StringWidth(line[from:to]), 1)
	return lb.String(), "^" + strings.Repeat("~", n-1)
}

// Summary prints the closing line of a check run.
func Summary(w io.Writer, files []File, checked int, colored bool) error {
	p := newPalette(colored)
	errs, warns := Count(files)
	var status string
	switch {
	case errs > 0:
		status = p.paint(p.err, "failed")
	case warns > 0:
		status = p.paint(p.warn, "passed with warnings")
	default:
		status = p.paint(p.pointer, "ok")
	}
	_, err := fmt.Fprintf(w, "%s: %d %s, %d %s in %d %s\n", status,
		errs, plural(errs, "error"), warns, plural(warns, "warning"), checked, plural(checked, "file"))
	return err
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
