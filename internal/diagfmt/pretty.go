package diagfmt

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/fatih/color"

	"quill/internal/diag"
	"quill/internal/source"
)

// palette держит цвета одного рендера; глобальный color.NoColor не трогаем.
type palette struct {
	err, warn, info *color.Color
	primary         *color.Color
	secondary       *color.Color
	gutter          *color.Color
	help            *color.Color
	bold            *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:       color.New(color.FgRed, color.Bold),
		warn:      color.New(color.FgYellow, color.Bold),
		info:      color.New(color.FgCyan, color.Bold),
		primary:   color.New(color.FgRed),
		secondary: color.New(color.FgYellow),
		gutter:    color.New(color.FgBlue, color.Bold),
		help:      color.New(color.FgCyan),
		bold:      color.New(color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.primary, p.secondary, p.gutter, p.help, p.bold} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevWarning:
		return p.warn
	case diag.SevInfo:
		return p.info
	default:
		return p.err
	}
}

func (p palette) label(style diag.LabelStyle) *color.Color {
	if style == diag.LabelSecondary {
		return p.secondary
	}
	return p.primary
}

// Render formats one diagnostic and returns the text.
//
//	error[SYN2002]: Unclosed delimiter `(`
//	 --> main.ql:1:1
//	  |
//	1 | (1 + 2
//	  | ^ unclosed delimiter opened here
//	  |       - expected `)` to match
//	  = help: insert `)`
func Render(d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) string {
	var sb strings.Builder
	renderTo(&sb, d, fs, opts, newPalette(opts.Color))
	return sb.String()
}

// Pretty форматирует диагностики bag в человекочитаемый вид в порядке добавления.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	pal := newPalette(opts.Color)
	var sb strings.Builder
	for i, d := range bag.Items() {
		if i > 0 {
			sb.WriteByte('\n')
		}
		renderTo(&sb, d, fs, opts, pal)
	}
	if dropped := bag.Dropped(); dropped > 0 {
		fmt.Fprintf(&sb, "\n... and %d more diagnostic(s) not shown\n", dropped)
	}
	io.WriteString(w, sb.String()) //nolint:errcheck
}

func renderTo(sb *strings.Builder, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, pal palette) {
	sev := pal.severity(d.Severity)
	sb.WriteString(sev.Sprintf("%s[%s]", d.Severity.Label(), d.Code.ID()))
	sb.WriteString(pal.bold.Sprintf(": %s", d.Message))
	sb.WriteByte('\n')

	file := fileOf(fs, d.Primary)
	if file == nil {
		// Без исходника печатаем только заголовок и заметки.
		renderTrailer(sb, d, fs, opts, pal, "")
		return
	}

	labels := d.Labels
	if len(labels) == 0 {
		labels = []diag.Label{{Span: d.Primary, Style: diag.LabelPrimary}}
	}
	ex := buildExcerpt(file, labels, opts.Context)
	pad := strings.Repeat(" ", ex.gutterWidth)

	pos := file.LineCol(d.Primary.Start)
	fmt.Fprintf(sb, "%s%s %s:%d:%d\n", pad, pal.gutter.Sprint("-->"),
		displayPath(file, fs, opts.PathMode), pos.Line, pos.Col)
	fmt.Fprintf(sb, "%s %s\n", pad, pal.gutter.Sprint("|"))

	prev := uint32(0)
	for _, line := range ex.lines {
		if prev != 0 && line.num > prev+1 {
			fmt.Fprintf(sb, "%s\n", pal.gutter.Sprint("..."))
		}
		prev = line.num

		num := strconv.FormatUint(uint64(line.num), 10)
		fmt.Fprintf(sb, "%s%s %s", strings.Repeat(" ", ex.gutterWidth-len(num)), pal.gutter.Sprint(num), pal.gutter.Sprint("|"))
		if line.text != "" {
			sb.WriteByte(' ')
			sb.WriteString(line.text)
		}
		sb.WriteByte('\n')

		for _, m := range line.marks {
			c := pal.label(m.style)
			caret := "^"
			if m.style == diag.LabelSecondary {
				caret = "-"
			}
			underline := strings.Repeat(" ", m.col) + c.Sprint(strings.Repeat(caret, m.width))
			if m.msg != "" {
				underline += " " + c.Sprint(m.msg)
			}
			fmt.Fprintf(sb, "%s %s %s\n", pad, pal.gutter.Sprint("|"), underline)
		}
	}

	renderTrailer(sb, d, fs, opts, pal, pad)
}

func renderTrailer(sb *strings.Builder, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, pal palette, pad string) {
	if opts.ShowNotes {
		for _, n := range d.Notes {
			fmt.Fprintf(sb, "%s %s %s\n", pad, pal.gutter.Sprint("="), pal.bold.Sprint("note:")+" "+n.Msg)
		}
	}
	if !opts.ShowFixes {
		return
	}
	for _, fix := range d.Fixes {
		fmt.Fprintf(sb, "%s %s %s\n", pad, pal.gutter.Sprint("="), pal.help.Sprint("help:")+" "+fix.Title)
		if !opts.ShowPreview {
			continue
		}
		for _, edit := range fix.Edits {
			preview, err := buildFixEditPreview(fs, edit)
			if err != nil {
				continue
			}
			for _, l := range preview.before {
				fmt.Fprintf(sb, "%s   %s\n", pad, pal.primary.Sprint("- "+expandTabs(l)))
			}
			for _, l := range preview.after {
				fmt.Fprintf(sb, "%s   %s\n", pad, pal.help.Sprint("+ "+expandTabs(l)))
			}
		}
	}
}

func displayPath(f *source.File, fs *source.FileSet, mode PathMode) string {
	switch mode {
	case PathModeAbsolute:
		return f.FormatPath("absolute", "")
	case PathModeRelative:
		return f.FormatPath("relative", fs.BaseDir())
	case PathModeBasename:
		return f.FormatPath("basename", "")
	default:
		return f.FormatPath("auto", fs.BaseDir())
	}
}

// Emitter renders every reported diagnostic to W as soon as it arrives.
// It is the default diag.Reporter of the CLI; Render is its in-memory form.
type Emitter struct {
	mu   sync.Mutex
	W    io.Writer
	FS   *source.FileSet
	Opts PrettyOpts

	pal     palette
	palInit bool
	count   int
}

// NewEmitter writes to w, or to stderr when w is nil.
func NewEmitter(w io.Writer, fs *source.FileSet, opts PrettyOpts) *Emitter {
	if w == nil {
		w = os.Stderr
	}
	return &Emitter{W: w, FS: fs, Opts: opts}
}

func (e *Emitter) Report(d diag.Diagnostic) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.palInit {
		e.pal = newPalette(e.Opts.Color)
		e.palInit = true
	}
	var sb strings.Builder
	if e.count > 0 {
		sb.WriteByte('\n')
	}
	renderTo(&sb, d, e.FS, e.Opts, e.pal)
	e.count++
	io.WriteString(e.W, sb.String()) //nolint:errcheck
}

// Count returns how many diagnostics were emitted.
func (e *Emitter) Count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.count
}
