package diag

import (
	"quill/internal/source"
)

// LabelStyle selects how a label is drawn.
type LabelStyle uint8

const (
	// LabelPrimary marks the span the diagnostic is about (red).
	LabelPrimary LabelStyle = iota
	// LabelSecondary marks related context (yellow).
	LabelSecondary
)

// Label underlines a span in the source excerpt.
type Label struct {
	Span  source.Span
	Msg   string
	Style LabelStyle
}

type Note struct {
	Span source.Span
	Msg  string
}

type FixEdit struct {
	Span    source.Span
	NewText string
}

type Fix struct {
	Title string
	Edits []FixEdit
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Labels   []Label
	Notes    []Note
	Fixes    []Fix
}
