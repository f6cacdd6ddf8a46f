package fix

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"quill/internal/diag"
	"quill/internal/driver"
	"quill/internal/source"
)

// ErrNoFixes is returned when no fixes were applied.
var ErrNoFixes = errors.New("no applicable fixes found")

// AppliedFix records a successfully applied fix.
type AppliedFix struct {
	Title     string
	Code      diag.Code
	Message   string
	EditCount int
}

// SkippedFix captures a skipped fix with a reason.
type SkippedFix struct {
	Title  string
	Reason string
}

// ApplyResult is the rewritten content plus what happened to every fix.
type ApplyResult struct {
	Content []byte
	Applied []AppliedFix
	Skipped []SkippedFix
}

type candidate struct {
	diag  diag.Diagnostic
	fix   diag.Fix
	order int
}

// Apply rewrites file.Content with every non-conflicting fix carried by
// diagnostics. Fixes are taken in source order; a fix whose edits overlap an
// already accepted one is skipped. The file itself is not modified.
func Apply(file *source.File, diagnostics []diag.Diagnostic) (*ApplyResult, error) {
	if file == nil {
		return nil, fmt.Errorf("fix: file is nil")
	}
	result := &ApplyResult{Content: file.Content}

	var cands []candidate
	for _, d := range diagnostics {
		for _, fx := range d.Fixes {
			if len(fx.Edits) == 0 {
				result.Skipped = append(result.Skipped, SkippedFix{Title: fx.Title, Reason: "fix has no edits"})
				continue
			}
			cands = append(cands, candidate{diag: d, fix: fx, order: len(cands)})
		}
	}
	if len(cands) == 0 {
		return result, ErrNoFixes
	}
	sort.SliceStable(cands, func(i, j int) bool {
		si, sj := firstStart(cands[i].fix), firstStart(cands[j].fix)
		if si != sj {
			return si < sj
		}
		return cands[i].order < cands[j].order
	})

	size := uint32(len(file.Content))
	var accepted []diag.FixEdit
	for _, c := range cands {
		if reason := checkEdits(file.ID, size, accepted, c.fix.Edits); reason != "" {
			result.Skipped = append(result.Skipped, SkippedFix{Title: c.fix.Title, Reason: reason})
			continue
		}
		accepted = append(accepted, c.fix.Edits...)
		result.Applied = append(result.Applied, AppliedFix{
			Title:     c.fix.Title,
			Code:      c.diag.Code,
			Message:   c.diag.Message,
			EditCount: len(c.fix.Edits),
		})
	}
	if len(result.Applied) == 0 {
		return result, ErrNoFixes
	}
	result.Content = applyEdits(file.Content, accepted)
	return result, nil
}

func firstStart(fx diag.Fix) uint32 {
	start := fx.Edits[0].Span.Start
	for _, e := range fx.Edits[1:] {
		start = min(start, e.Span.Start)
	}
	return start
}

// checkEdits returns a skip reason, or "" when edits can be accepted.
func checkEdits(id source.FileID, size uint32, accepted, edits []diag.FixEdit) string {
	for i, e := range edits {
		if e.Span.File != id {
			return "edit targets another file"
		}
		if e.Span.Start > e.Span.End || e.Span.End > size {
			return "edit span out of range"
		}
		for _, prev := range accepted {
			if spansConflict(prev.Span, e.Span) {
				return "conflicts with a previously applied edit"
			}
		}
		for _, other := range edits[:i] {
			if spansConflict(other.Span, e.Span) {
				return "fix edits overlap each other"
			}
		}
	}
	return ""
}

// spansConflict reports whether two edit spans overlap.
// Spans are half-open. Two insertions never conflict; an insertion conflicts
// with a replacement only strictly inside it.
func spansConflict(a, b source.Span) bool {
	if a.Start == a.End && b.Start == b.End {
		return false
	}
	if a.Start == a.End {
		return b.Start < a.Start && a.Start < b.End
	}
	if b.Start == b.End {
		return a.Start < b.Start && b.Start < a.End
	}
	return a.Start < b.End && b.Start < a.End
}

// applyEdits применяет правки с конца файла, чтобы смещения не съезжали.
// Правки с одинаковым началом идут в обратном порядке принятия: тогда
// принятая раньше вставка оказывается левее.
func applyEdits(content []byte, edits []diag.FixEdit) []byte {
	order := make([]int, len(edits))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		a, b := edits[order[i]].Span, edits[order[j]].Span
		if a.Start != b.Start {
			return a.Start > b.Start
		}
		if a.End != b.End {
			return a.End > b.End
		}
		return order[i] > order[j]
	})
	out := append([]byte(nil), content...)
	for _, idx := range order {
		e := edits[idx]
		tail := append([]byte(nil), out[e.Span.End:]...)
		out = append(append(out[:e.Span.Start], e.NewText...), tail...)
	}
	return out
}

// RepairResult is the outcome of Repair.
type RepairResult struct {
	Content []byte
	Applied []AppliedFix
	Rounds  int
	// Final is the pipeline run on Content.
	Final *driver.RunResult
}

// Repair alternates pipeline runs and Apply until the input parses, no fix
// applies, or maxRounds is reached. The parser stops at the first failure,
// so each round usually repairs one delimiter.
func Repair(ctx context.Context, name string, content []byte, maxRounds int, opts driver.Options) (*RepairResult, error) {
	if maxRounds <= 0 {
		maxRounds = 16
	}
	opts.Reporter = nil
	out := &RepairResult{Content: content}
	for {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		res := driver.RunSource(ctx, name, out.Content, opts)
		out.Final = res
		if !res.Status.Failed() || out.Rounds >= maxRounds {
			return out, nil
		}
		applied, err := Apply(res.File, res.Bag.Items())
		if errors.Is(err, ErrNoFixes) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out.Rounds++
		out.Content = applied.Content
		out.Applied = append(out.Applied, applied.Applied...)
	}
}
