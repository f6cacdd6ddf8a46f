package diagfmt

import (
	"fmt"
	"strings"

	"quill/internal/diag"
	"quill/internal/source"
)

type fixEditPreview struct {
	before []string
	after  []string
}

// buildFixEditPreview returns the lines touched by edit before and after applying it.
func buildFixEditPreview(fs *source.FileSet, edit diag.FixEdit) (fixEditPreview, error) {
	file := fileOf(fs, edit.Span)
	if file == nil {
		return fixEditPreview{}, fmt.Errorf("file %d not found in FileSet", edit.Span.File)
	}

	start, end := clampSpan(file, edit.Span)
	startLine := file.LineCol(start).Line
	endLine := max(file.LineCol(end).Line, startLine)

	blockStart := file.LineStart(startLine)
	blockEnd := file.LineStart(endLine) + uint32(len(file.GetLine(endLine))) // #nosec G115 -- bounded by content length
	blockEnd = max(blockEnd, blockStart)

	original := file.Content[blockStart:blockEnd]
	relStart := int(start - blockStart)
	relEnd := int(end - blockStart)
	if relStart > len(original) || relEnd < relStart || relEnd > len(original) {
		return fixEditPreview{}, fmt.Errorf("edit span %d..%d out of range for preview block", edit.Span.Start, edit.Span.End)
	}

	after := make([]byte, 0, len(original)+len(edit.NewText))
	after = append(after, original[:relStart]...)
	after = append(after, edit.NewText...)
	after = append(after, original[relEnd:]...)

	return fixEditPreview{
		before: splitPreviewLines(original),
		after:  splitPreviewLines(after),
	}, nil
}

func splitPreviewLines(content []byte) []string {
	if len(content) == 0 {
		return nil
	}
	// хвостовой \n не даёт лишней пустой строки
	return strings.Split(strings.TrimRight(string(content), "\n"), "\n")
}
