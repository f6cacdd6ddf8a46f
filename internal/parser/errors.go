package parser

import (
	"fmt"

	"quill/internal/diag"
	"quill/internal/source"
	"quill/internal/token"
)

// Reason discriminates the variants of Error.
type Reason uint8

const (
	// ReasonUnexpected: the token at Span is not one of Expected.
	ReasonUnexpected Reason = iota
	// ReasonUnclosed: the delimiter opened at Span was never closed.
	ReasonUnclosed
	// ReasonCustom: a grammar rule or a post-parse check raised Message.
	ReasonCustom
)

func (r Reason) String() string {
	switch r {
	case ReasonUnexpected:
		return "unexpected"
	case ReasonUnclosed:
		return "unclosed"
	case ReasonCustom:
		return "custom"
	default:
		return fmt.Sprintf("Reason(%d)", uint8(r))
	}
}

// Error is a syntax error. Fields beyond Reason and Span are meaningful only
// for the variants that document them.
type Error struct {
	Reason Reason
	// Unexpected: span of Found. Unclosed: span of the opening delimiter.
	// Custom: the span the message refers to.
	Span source.Span

	// Unexpected, Unclosed: the token at the failure point (EOF at end of input).
	Found token.Token
	// Unexpected, Unclosed: kinds that would have been accepted at the failure point.
	Expected []token.Kind

	// Unclosed only.
	Delimiter     token.Kind
	ExpectedClose token.Kind

	// Custom only.
	Message string
	Code    diag.Code
}

// FoundEOF reports whether the failure happened at end of input.
func (e Error) FoundEOF() bool {
	return e.Found.Kind == token.EOF
}

// At returns the span of the failure point. For Unclosed it differs from Span.
func (e Error) At() source.Span {
	if e.Reason == ReasonCustom {
		return e.Span
	}
	return e.Found.Span
}

func (e Error) Error() string {
	switch e.Reason {
	case ReasonUnclosed:
		return fmt.Sprintf("%d..%d: unclosed %s, expected %s", e.Span.Start, e.Span.End,
			e.Delimiter.Describe(), e.ExpectedClose.Describe())
	case ReasonCustom:
		return fmt.Sprintf("%d..%d: %s", e.Span.Start, e.Span.End, e.Message)
	default:
		found := "'" + e.Found.Text + "'"
		if e.FoundEOF() {
			found = "end of input"
		}
		return fmt.Sprintf("%d..%d: unexpected %s, expected %s", e.Span.Start, e.Span.End,
			found, token.DescribeKinds(e.Expected))
	}
}

func customError(code diag.Code, sp source.Span, msg string) Error {
	return Error{Reason: ReasonCustom, Span: sp, Code: code, Message: msg}
}
