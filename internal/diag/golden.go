package diag

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"quill/internal/source"
)

type goldenDiagnostic struct {
	Severity string
	Code     string
	Path     string
	Line     uint32
	Column   uint32
	Message  string
}

// FormatGoldenDiagnostics renders diagnostics into a stable, single-line-per-entry
// representation suitable for golden files. Diagnostics are sorted by primary
// position so the output does not depend on discovery order; each note stays
// right after the diagnostic it belongs to.
func FormatGoldenDiagnostics(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	return formatDiagnostics(diags, fs, includeNotes, true)
}

// FormatShortDiagnostics renders one line per diagnostic in the order given.
// It is the CLI's --format=short output.
func FormatShortDiagnostics(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	return formatDiagnostics(diags, fs, includeNotes, false)
}

func formatDiagnostics(diags []Diagnostic, fs *source.FileSet, includeNotes, sorted bool) string {
	if fs == nil || len(diags) == 0 {
		return ""
	}

	// группа = строка диагностики и её заметки, заметки не отрываются от родителя
	groups := make([][]goldenDiagnostic, 0, len(diags))
	for i := range diags {
		if rows := appendDiagnostic(nil, &diags[i], fs, includeNotes); len(rows) > 0 {
			groups = append(groups, rows)
		}
	}

	if sorted {
		sort.SliceStable(groups, func(i, j int) bool {
			return goldenLess(groups[i][0], groups[j][0])
		})
	}

	var b strings.Builder
	first := true
	for _, rows := range groups {
		for _, d := range rows {
			if !first {
				b.WriteByte('\n')
			}
			first = false
			fmt.Fprintf(&b, "%s %s %s:%d:%d %s", d.Severity, d.Code, d.Path, d.Line, d.Column, d.Message)
		}
	}
	return b.String()
}

func goldenLess(di, dj goldenDiagnostic) bool {
	if di.Path != dj.Path {
		return di.Path < dj.Path
	}
	if di.Line != dj.Line {
		return di.Line < dj.Line
	}
	if di.Column != dj.Column {
		return di.Column < dj.Column
	}
	if di.Severity != dj.Severity {
		return di.Severity < dj.Severity
	}
	if di.Code != dj.Code {
		return di.Code < dj.Code
	}
	return di.Message < dj.Message
}

// appendDiagnostic adds the row of d and, with includeNotes, one row per
// note. Spans outside fs are skipped.
func appendDiagnostic(out []goldenDiagnostic, d *Diagnostic, fs *source.FileSet, includeNotes bool) []goldenDiagnostic {
	code := d.Code.ID()
	if loc, ok := resolveSpan(fs, d.Primary); ok {
		out = append(out, goldenDiagnostic{
			Severity: d.Severity.Label(),
			Code:     code,
			Path:     loc.Path,
			Line:     loc.Line,
			Column:   loc.Column,
			Message:  sanitizeMessage(d.Message),
		})
	}
	if !includeNotes {
		return out
	}
	for _, note := range d.Notes {
		if loc, ok := resolveSpan(fs, note.Span); ok {
			out = append(out, goldenDiagnostic{
				Severity: "note",
				Code:     code,
				Path:     loc.Path,
				Line:     loc.Line,
				Column:   loc.Column,
				Message:  sanitizeMessage(note.Msg),
			})
		}
	}
	return out
}

type resolvedSpan struct {
	Path   string
	Line   uint32
	Column uint32
}

func resolveSpan(fs *source.FileSet, span source.Span) (resolvedSpan, bool) {
	if int(span.File) >= fs.Len() {
		return resolvedSpan{}, false
	}
	file := fs.Get(span.File)
	start, _ := fs.Resolve(span)
	return resolvedSpan{
		Path:   normalizePath(file.FormatPath("relative", fs.BaseDir())),
		Line:   start.Line,
		Column: start.Col,
	}, true
}

func normalizePath(path string) string {
	p := filepath.ToSlash(path)
	for strings.HasPrefix(p, "./") {
		p = strings.TrimPrefix(p, "./")
	}
	return p
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}
