package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"quill/internal/ast"
	"quill/internal/source"
	"quill/internal/token"
)

// CheckSpanInvariants runs the span invariants on a parsed file:
// 1) the root span starts at 0, points into sf and ends within the content
// 2) every node span lies inside its parent's span
// 3) the root span covers the union of statement spans
func CheckSpanInvariants(f *ast.File, sf *source.File) error {
	if f == nil || sf == nil {
		return fmt.Errorf("nil file")
	}

	// 1) root span sanity
	if f.Span.Start != 0 {
		return fmt.Errorf("root span does not start at 0: %v", f.Span)
	}
	if f.Span.File != sf.ID {
		return fmt.Errorf("root span points to different file id: got=%d want=%d", f.Span.File, sf.ID)
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if f.Span.End > lenContent {
		return fmt.Errorf("root span end beyond content: %d > %d", f.Span.End, lenContent)
	}

	// 2) children inside parents
	if err := checkChildren(f, sf.ID); err != nil {
		return err
	}

	// 3) root covers the union of statements
	if len(f.Stmts) > 0 {
		union := f.Stmts[0].GetSpan()
		for _, s := range f.Stmts[1:] {
			union = union.Cover(s.GetSpan())
		}
		if !f.Span.Contains(union) {
			return fmt.Errorf("root span %v does not cover statements %v", f.Span, union)
		}
	}
	return nil
}

func checkChildren(parent ast.Node, id source.FileID) error {
	ps := parent.GetSpan()
	for _, c := range ast.Children(parent) {
		cs := c.GetSpan()
		if cs.File != id {
			return fmt.Errorf("%s span file mismatch: got=%d want=%d", ast.NodeName(c), cs.File, id)
		}
		if cs.Empty() {
			return fmt.Errorf("empty %s span %v", ast.NodeName(c), cs)
		}
		if !ps.Contains(cs) {
			return fmt.Errorf("%s span %v is outside %s span %v", ast.NodeName(c), cs, ast.NodeName(parent), ps)
		}
		if err := checkChildren(c, id); err != nil {
			return err
		}
	}
	return nil
}

// CheckTokenInvariants verifies a successful token sequence: spans are
// ordered and disjoint, each token's text is its source slice, and the
// sequence ends with exactly one empty EOF token.
func CheckTokenInvariants(toks []token.Token, sf *source.File) error {
	if len(toks) == 0 {
		return fmt.Errorf("empty token sequence")
	}
	var prevEnd uint32
	for i, tok := range toks {
		if tok.Span.Start < prevEnd {
			return fmt.Errorf("token %d (%s) overlaps the previous one: %v", i, tok.Kind, tok.Span)
		}
		prevEnd = tok.Span.End

		last := i == len(toks)-1
		if tok.Kind == token.EOF {
			if !last {
				return fmt.Errorf("EOF at position %d before the end", i)
			}
			if !tok.Span.Empty() || tok.Text != "" {
				return fmt.Errorf("EOF token is not empty: %v %q", tok.Span, tok.Text)
			}
			continue
		}
		if last {
			return fmt.Errorf("sequence does not end with EOF")
		}
		if got := sf.Slice(tok.Span); got != tok.Text {
			return fmt.Errorf("token %d text %q differs from source %q", i, tok.Text, got)
		}
	}
	return nil
}
