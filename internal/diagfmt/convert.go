package diagfmt

import (
	"fmt"

	"quill/internal/diag"
	"quill/internal/lexer"
	"quill/internal/parser"
	"quill/internal/source"
	"quill/internal/token"
)

// unexpectedMessage builds "<Unexpected token in input | Unexpected end of input>, expected <list>".
func unexpectedMessage(atEOF bool, expected []token.Kind) string {
	head := "Unexpected token in input"
	if atEOF {
		head = "Unexpected end of input"
	}
	return head + ", expected " + token.DescribeKinds(expected)
}

func unexpectedLabel(found string, atEOF bool) string {
	if atEOF {
		return "Unexpected token end of file"
	}
	return "Unexpected token " + found
}

// LexDiagnostic converts a lexical error into a diagnostic.
// Unknown characters are reported like unexpected tokens.
func LexDiagnostic(e lexer.Error) diag.Diagnostic {
	if e.IsUnknownChar() {
		return diag.NewError(e.Code, e.Span, unexpectedMessage(false, nil)).
			WithLabel(e.Span, unexpectedLabel(e.Found, false), diag.LabelPrimary)
	}

	msg := e.Message
	if msg == "" {
		msg = e.Code.Title()
	}
	d := diag.NewError(e.Code, e.Span, msg).
		WithLabel(e.Span, lexLabel(e), diag.LabelPrimary)
	switch e.Code {
	case diag.LexUnterminatedString:
		d = d.WithFix("close the string", diag.FixEdit{Span: e.Span.ZeroideToEnd(), NewText: `"`})
	case diag.LexUnterminatedBlockComment:
		d = d.WithFix("close the comment", diag.FixEdit{Span: e.Span.ZeroideToEnd(), NewText: "*/"})
	}
	return d
}

func lexLabel(e lexer.Error) string {
	switch e.Code {
	case diag.LexUnterminatedString:
		return "string literal starts here"
	case diag.LexUnterminatedBlockComment:
		return "comment opened here"
	case diag.LexBadNumber:
		return "invalid number literal"
	case diag.LexBadEscape:
		return "unknown escape sequence"
	case diag.LexNumberOutOfRange:
		return "does not fit into 64 bits"
	default:
		return e.Message
	}
}

// ParseDiagnostic converts a syntax error into a diagnostic.
func ParseDiagnostic(e parser.Error) diag.Diagnostic {
	switch e.Reason {
	case parser.ReasonUnexpected:
		atEOF := e.FoundEOF()
		return diag.NewError(e.DiagCode(), e.Span, unexpectedMessage(atEOF, e.Expected)).
			WithLabel(e.Span, unexpectedLabel(e.Found.Text, atEOF), diag.LabelPrimary)

	case parser.ReasonUnclosed:
		open, closer := e.Delimiter.Text(), e.ExpectedClose.Text()
		at := e.At()
		d := diag.NewError(e.DiagCode(), e.Span, fmt.Sprintf("Unclosed delimiter `%s`", open)).
			WithLabel(e.Span, "unclosed delimiter opened here", diag.LabelPrimary).
			WithLabel(at, fmt.Sprintf("expected `%s` to match", closer), diag.LabelSecondary).
			WithFix(fmt.Sprintf("insert `%s`", closer), diag.FixEdit{Span: at.ZeroideToStart(), NewText: closer})
		if !e.FoundEOF() {
			d = d.WithNote(at, fmt.Sprintf("found `%s` instead", e.Found.Text))
		}
		return d

	case parser.ReasonCustom:
		return diag.NewError(e.DiagCode(), e.Span, e.Message).
			WithLabel(e.Span, e.DiagCode().Title(), diag.LabelPrimary)

	default:
		panic(fmt.Sprintf("diagfmt: unhandled parse error reason %v", e.Reason))
	}
}

// LexDiagnostics converts errors in order and reports each to r.
func LexDiagnostics(errs []lexer.Error, r diag.Reporter) {
	for _, e := range errs {
		r.Report(LexDiagnostic(e))
	}
}

// ParseDiagnostics converts errors in order and reports each to r.
func ParseDiagnostics(errs []parser.Error, r diag.Reporter) {
	for _, e := range errs {
		r.Report(ParseDiagnostic(e))
	}
}

// fileOf returns the file a diagnostic points into, or nil.
func fileOf(fs *source.FileSet, sp source.Span) *source.File {
	if fs == nil || int(sp.File) >= fs.Len() {
		return nil
	}
	return fs.Get(sp.File)
}
