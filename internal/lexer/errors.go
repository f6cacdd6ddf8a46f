package lexer

import (
	"fmt"

	"quill/internal/diag"
	"quill/internal/source"
)

// Error is a lexical error. Found is the offending source text (may be empty).
type Error struct {
	Code    diag.Code
	Span    source.Span
	Found   string
	Message string
}

func (e Error) Error() string {
	return fmt.Sprintf("%s at %d..%d: %s", e.Code.ID(), e.Span.Start, e.Span.End, e.Message)
}

// IsUnknownChar reports whether the error is an unrecognized character.
func (e Error) IsUnknownChar() bool {
	return e.Code == diag.LexUnknownChar
}
