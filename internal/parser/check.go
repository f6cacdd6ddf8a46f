package parser

import (
	"fmt"

	"quill/internal/ast"
	"quill/internal/diag"
)

// MaxArgs is the largest number of call arguments or function parameters.
const MaxArgs = 255

// checker collects post-parse errors up to max; the rest are only counted.
type checker struct {
	max     int
	errs    []Error
	dropped int
}

func (c *checker) report(e Error) {
	if c.max > 0 && len(c.errs) >= c.max {
		c.dropped++
		return
	}
	c.errs = append(c.errs, e)
}

// check runs the post-parse rules over a successfully parsed file and
// returns their errors in discovery order plus the number dropped by maxErrors.
func check(file *ast.File, maxErrors int) ([]Error, int) {
	c := &checker{max: maxErrors}
	ast.Inspect(file, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.AssignExpr:
			if !isAssignable(n.Target) {
				c.report(customError(diag.SynInvalidAssignTarget, n.Target.GetSpan(), "invalid assignment target"))
			}
		case *ast.FnStmt:
			c.checkParams(n.Params)
		case *ast.FnExpr:
			c.checkParams(n.Params)
		case *ast.CallExpr:
			if len(n.Args) > MaxArgs {
				c.report(customError(diag.SynTooManyArgs, n.Args[MaxArgs].GetSpan(),
					fmt.Sprintf("too many arguments (%d, at most %d)", len(n.Args), MaxArgs)))
			}
		}
		return true
	})
	return c.errs, c.dropped
}

func isAssignable(x ast.Expr) bool {
	switch x.(type) {
	case *ast.IdentExpr, *ast.IndexExpr, *ast.MemberExpr:
		return true
	default:
		return false
	}
}

func (c *checker) checkParams(params []ast.Ident) {
	seen := make(map[string]struct{}, len(params))
	for _, p := range params {
		if _, dup := seen[p.Name]; dup {
			c.report(customError(diag.SynDuplicateParam, p.Span, fmt.Sprintf("duplicate parameter `%s`", p.Name)))
			continue
		}
		seen[p.Name] = struct{}{}
	}
	if len(params) > MaxArgs {
		c.report(customError(diag.SynTooManyArgs, params[MaxArgs].Span,
			fmt.Sprintf("too many parameters (%d, at most %d)", len(params), MaxArgs)))
	}
}
