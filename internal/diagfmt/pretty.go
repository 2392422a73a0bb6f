package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"strata/internal/diag"
	"strata/internal/source"
)

var (
	errColor  = color.New(color.FgRed, color.Bold)
	warnColor = color.New(color.FgYellow, color.Bold)
	infoColor = color.New(color.FgCyan)
	hintColor = color.New(color.FgHiBlack)
	posColor  = color.New(color.Bold)
)

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes.
func Pretty(w io.Writer, bag *diag.Bag, file *source.File, opts PrettyOpts) {
	for _, d := range bag.Items() {
		writeDiagnostic(w, d, file, opts)
	}
}

func writeDiagnostic(w io.Writer, d diag.Diagnostic, file *source.File, opts PrettyOpts) {
	start, _ := file.Resolve(d.Primary)
	path := formatPath(file, opts.PathMode)

	sev := d.Severity.String()
	code := d.Code.ID()
	if opts.Color {
		sev = severityColor(d.Severity).Sprint(sev)
		path = posColor.Sprint(path)
	}
	fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n", path, start.Line, start.Col, sev, code, d.Message)

	writeContext(w, file, d.Primary, opts)

	if opts.ShowNotes {
		for _, n := range d.Notes {
			nStart, _ := file.Resolve(n.Span)
			fmt.Fprintf(w, "  note: %s (%d:%d)\n", n.Msg, nStart.Line, nStart.Col)
		}
	}
	if opts.ShowFixes {
		for _, f := range d.Fixes {
			fmt.Fprintf(w, "  fix: %s\n", f.Title)
		}
	}
}

// writeContext печатает строку исходника и каретку ^~~~ под спаном.
// Ширина подчёркивания считается через runewidth, табы раскрываются.
func writeContext(w io.Writer, file *source.File, span source.Span, opts PrettyOpts) {
	start, end := file.Resolve(span)
	line := file.GetLine(start.Line)
	if line == "" && start.Line != 1 {
		return
	}

	fmt.Fprintf(w, "  %4d | %s\n", start.Line, expandTabs(line))

	// Префикс до начала спана в экранных колонках.
	colStart := int(start.Col) - 1
	if colStart > len(line) {
		colStart = len(line)
	}
	pad := runewidth.StringWidth(expandTabs(line[:colStart]))

	width := 1
	if end.Line == start.Line && int(end.Col) > int(start.Col) {
		colEnd := int(end.Col) - 1
		if colEnd > len(line) {
			colEnd = len(line)
		}
		width = runewidth.StringWidth(expandTabs(line[colStart:colEnd]))
		if width < 1 {
			width = 1
		}
	}

	marker := "^" + strings.Repeat("~", width-1)
	if opts.Color {
		marker = errColor.Sprint(marker)
	}
	fmt.Fprintf(w, "       | %s%s\n", strings.Repeat(" ", pad), marker)
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}

func severityColor(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return errColor
	case diag.SevWarning:
		return warnColor
	case diag.SevInfo:
		return infoColor
	default:
		return hintColor
	}
}

func formatPath(file *source.File, mode PathMode) string {
	switch mode {
	case PathModeAbsolute:
		return file.FormatPath("absolute", "")
	case PathModeRelative:
		return file.FormatPath("relative", "")
	case PathModeBasename:
		return file.FormatPath("basename", "")
	default:
		return file.FormatPath("auto", "")
	}
}
