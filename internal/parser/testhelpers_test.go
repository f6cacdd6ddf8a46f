package parser

import (
	"testing"

	"quill/internal/ast"
	"quill/internal/lexer"
	"quill/internal/source"
	"quill/internal/token"
)

func lex(t *testing.T, input string) []token.Token {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.ql", []byte(input)))
	toks, errs := lexer.Tokenize(file, lexer.Options{})
	if len(errs) != 0 {
		t.Fatalf("unexpected lex errors for %q: %v", input, errs)
	}
	return toks
}

func parseOK(t *testing.T, input string) *ast.File {
	t.Helper()
	file, errs := Parse(lex(t, input), Options{})
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors for %q: %v", input, errs)
	}
	if file == nil {
		t.Fatalf("nil file for %q", input)
	}
	return file
}

func parseErr(t *testing.T, input string) Error {
	t.Helper()
	file, errs := Parse(lex(t, input), Options{})
	if file != nil {
		t.Fatalf("expected failure for %q", input)
	}
	if len(errs) != 1 {
		t.Fatalf("expected exactly one error for %q, got %d: %v", input, len(errs), errs)
	}
	return errs[0]
}

func span(start, end uint32) source.Span {
	return source.Span{Start: start, End: end}
}

// firstExpr достаёт выражение из первого ExprStmt.
func firstExpr(t *testing.T, file *ast.File) ast.Expr {
	t.Helper()
	if len(file.Stmts) == 0 {
		t.Fatalf("no statements")
	}
	es, ok := file.Stmts[0].(*ast.ExprStmt)
	if !ok {
		t.Fatalf("first statement is %T, want *ast.ExprStmt", file.Stmts[0])
	}
	return es.X
}
