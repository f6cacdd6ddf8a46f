package diagfmt

import (
	"slices"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"quill/internal/diag"
	"quill/internal/source"
)

// mark — подчёркивание части одной строки.
type mark struct {
	col   int // display column (0-based)
	width int
	msg   string
	style diag.LabelStyle
}

type excerptLine struct {
	num   uint32
	text  string // tabs expanded
	marks []mark
}

type excerpt struct {
	lines       []excerptLine
	gutterWidth int
}

// buildExcerpt collects the lines touched by labels plus context lines around them.
// A label spanning several lines is underlined on each; its message goes on the last one.
func buildExcerpt(f *source.File, labels []diag.Label, context int) excerpt {
	context = max(context, 0)
	lineCount := f.LineCount()
	marks := make(map[uint32][]mark)
	shown := make(map[uint32]struct{})

	for _, l := range labels {
		start, end := clampSpan(f, l.Span)
		first := f.LineCol(start).Line
		last := first
		if end > start {
			last = f.LineCol(end - 1).Line
		}

		for ln := first; ln <= last; ln++ {
			raw := f.GetLine(ln)
			lineStart := f.LineStart(ln)
			lineEnd := lineStart + uint32(len(raw)) // #nosec G115 -- line length is bounded by content length

			from := max(start, lineStart) - lineStart
			to := max(min(end, lineEnd)-lineStart, from)

			m := mark{
				col:   displayWidth(raw[:from]),
				width: max(displayWidth(raw[from:to]), 1),
				style: l.Style,
			}
			if ln == last {
				m.msg = l.Msg
			}
			marks[ln] = append(marks[ln], m)

			lo := uint32(1)
			if ln > uint32(context) { // #nosec G115 -- context is non-negative
				lo = ln - uint32(context) // #nosec G115
			}
			hi := min(ln+uint32(context), max(lineCount, ln)) // #nosec G115
			for k := lo; k <= hi; k++ {
				shown[k] = struct{}{}
			}
		}
	}

	nums := make([]uint32, 0, len(shown))
	for n := range shown {
		nums = append(nums, n)
	}
	slices.Sort(nums)

	ex := excerpt{lines: make([]excerptLine, 0, len(nums))}
	for _, n := range nums {
		ms := marks[n]
		slices.SortStableFunc(ms, func(a, b mark) int { return a.col - b.col })
		ex.lines = append(ex.lines, excerptLine{num: n, text: expandTabs(f.GetLine(n)), marks: ms})
	}
	if len(nums) > 0 {
		ex.gutterWidth = len(strconv.FormatUint(uint64(nums[len(nums)-1]), 10))
	}
	return ex
}

func clampSpan(f *source.File, sp source.Span) (start, end uint32) {
	n := uint32(len(f.Content)) // #nosec G115 -- FileSet.Add checks the size
	start, end = min(sp.Start, n), min(sp.End, n)
	if end < start {
		end = start
	}
	return start, end
}

// displayWidth returns the terminal width of s with tabs expanded.
func displayWidth(s string) int {
	w := 0
	for _, r := range s {
		if r == '\t' {
			w += TabWidth
			continue
		}
		w += runewidth.RuneWidth(r)
	}
	return w
}

func expandTabs(s string) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", TabWidth))
}
