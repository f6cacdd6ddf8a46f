package parser

import (
	"quill/internal/ast"
	"quill/internal/token"
	"quill/internal/trace"
)

// stmt is the statement rule; at trace.LevelRule each attempt becomes a span
// whose detail is the node produced or "fail".
func (p *Parser) stmt(c cursor) (ast.Stmt, cursor, bool) {
	if p.rules == nil {
		return p.anyStmt(c)
	}
	span := trace.Begin(p.rules, trace.ScopeRule, "stmt", p.span).
		WithCount("at", int(p.tok(c).Span.Start))
	s, next, ok := p.anyStmt(c)
	if !ok {
		span.End("fail")
		return s, next, ok
	}
	span.WithCount("tokens", int(next-c)).End(ast.NodeName(s))
	return s, next, ok
}

func (p *Parser) anyStmt(c cursor) (ast.Stmt, cursor, bool) {
	return choice(p, c,
		p.letStmt,
		p.fnStmt,
		p.ifStmt,
		p.whileStmt,
		p.forStmt,
		p.returnStmt,
		p.breakStmt,
		p.continueStmt,
		p.blockStmt,
		p.exprStmt,
	)
}

// letStmt = "let" IDENT "=" expr ";"
func (p *Parser) letStmt(start cursor) (ast.Stmt, cursor, bool) {
	_, c, ok := p.expect(start, token.KwLet)
	if !ok {
		return nil, start, false
	}
	name, c, ok := p.ident(c)
	if !ok {
		return nil, start, false
	}
	if _, c, ok = p.expect(c, token.Assign); !ok {
		return nil, start, false
	}
	value, c, ok := p.expr(c)
	if !ok {
		return nil, start, false
	}
	if _, c, ok = p.expect(c, token.Semicolon); !ok {
		return nil, start, false
	}
	return ast.NewLetStmt(p.spanFrom(start, c), name, value), c, true
}

// fnStmt = "fn" IDENT params block
func (p *Parser) fnStmt(start cursor) (ast.Stmt, cursor, bool) {
	_, c, ok := p.expect(start, token.KwFn)
	if !ok {
		return nil, start, false
	}
	name, c, ok := p.ident(c)
	if !ok {
		return nil, start, false
	}
	params, c, ok := p.params(c)
	if !ok {
		return nil, start, false
	}
	body, c, ok := p.block(c)
	if !ok {
		return nil, start, false
	}
	return ast.NewFnStmt(p.spanFrom(start, c), name, params, body), c, true
}

// params = "(" [IDENT {"," IDENT} [","]] ")"
func (p *Parser) params(c cursor) ([]ast.Ident, cursor, bool) {
	list, _, next, ok := delimited(p, c, token.LParen, token.RParen, func(c cursor) ([]ast.Ident, cursor, bool) {
		return sepBy(p, c, p.ident, token.Comma)
	})
	return list, next, ok
}

// ifStmt = "if" expr block ["else" (ifStmt | block)]
func (p *Parser) ifStmt(start cursor) (ast.Stmt, cursor, bool) {
	_, c, ok := p.expect(start, token.KwIf)
	if !ok {
		return nil, start, false
	}
	cond, c, ok := p.expr(c)
	if !ok {
		return nil, start, false
	}
	then, c, ok := p.block(c)
	if !ok {
		return nil, start, false
	}

	var els ast.Stmt
	if _, next, hasElse := p.expect(c, token.KwElse); hasElse {
		if !p.nest(next) {
			return nil, start, false
		}
		els, c, ok = choice(p, next, p.ifStmt, p.blockStmt)
		p.unnest()
		if !ok {
			return nil, start, false
		}
	}
	return ast.NewIfStmt(p.spanFrom(start, c), cond, then, els), c, true
}

// whileStmt = "while" expr block
func (p *Parser) whileStmt(start cursor) (ast.Stmt, cursor, bool) {
	_, c, ok := p.expect(start, token.KwWhile)
	if !ok {
		return nil, start, false
	}
	cond, c, ok := p.expr(c)
	if !ok {
		return nil, start, false
	}
	body, c, ok := p.block(c)
	if !ok {
		return nil, start, false
	}
	return ast.NewWhileStmt(p.spanFrom(start, c), cond, body), c, true
}

// forStmt = "for" IDENT "in" expr block
func (p *Parser) forStmt(start cursor) (ast.Stmt, cursor, bool) {
	_, c, ok := p.expect(start, token.KwFor)
	if !ok {
		return nil, start, false
	}
	v, c, ok := p.ident(c)
	if !ok {
		return nil, start, false
	}
	if _, c, ok = p.expect(c, token.KwIn); !ok {
		return nil, start, false
	}
	iter, c, ok := p.expr(c)
	if !ok {
		return nil, start, false
	}
	body, c, ok := p.block(c)
	if !ok {
		return nil, start, false
	}
	return ast.NewForStmt(p.spanFrom(start, c), v, iter, body), c, true
}

// returnStmt = "return" [expr] ";"
func (p *Parser) returnStmt(start cursor) (ast.Stmt, cursor, bool) {
	_, c, ok := p.expect(start, token.KwReturn)
	if !ok {
		return nil, start, false
	}
	value, c, _ := optional(c, p.expr)
	if _, c, ok = p.expect(c, token.Semicolon); !ok {
		return nil, start, false
	}
	return ast.NewReturnStmt(p.spanFrom(start, c), value), c, true
}

func (p *Parser) breakStmt(start cursor) (ast.Stmt, cursor, bool) {
	c, ok := p.keywordStmt(start, token.KwBreak)
	if !ok {
		return nil, start, false
	}
	return ast.NewBreakStmt(p.spanFrom(start, c)), c, true
}

func (p *Parser) continueStmt(start cursor) (ast.Stmt, cursor, bool) {
	c, ok := p.keywordStmt(start, token.KwContinue)
	if !ok {
		return nil, start, false
	}
	return ast.NewContinueStmt(p.spanFrom(start, c)), c, true
}

// keywordStmt = kw ";"
func (p *Parser) keywordStmt(c cursor, kw token.Kind) (cursor, bool) {
	_, c, ok := p.expect(c, kw)
	if !ok {
		return c, false
	}
	_, c, ok = p.expect(c, token.Semicolon)
	return c, ok
}

// block = "{" stmt* "}"
func (p *Parser) block(c cursor) (*ast.BlockStmt, cursor, bool) {
	if !p.nest(c) {
		return nil, c, false
	}
	defer p.unnest()
	stmts, sp, next, ok := delimited(p, c, token.LBrace, token.RBrace, func(c cursor) ([]ast.Stmt, cursor, bool) {
		return many(p, c, p.stmt)
	})
	if !ok {
		return nil, c, false
	}
	return ast.NewBlockStmt(sp, stmts), next, true
}

func (p *Parser) blockStmt(c cursor) (ast.Stmt, cursor, bool) {
	b, next, ok := p.block(c)
	if !ok {
		return nil, c, false
	}
	return b, next, true
}

// exprStmt = expr ";"
func (p *Parser) exprStmt(start cursor) (ast.Stmt, cursor, bool) {
	x, c, ok := p.expr(start)
	if !ok {
		return nil, start, false
	}
	if _, c, ok = p.expect(c, token.Semicolon); !ok {
		return nil, start, false
	}
	return ast.NewExprStmt(p.spanFrom(start, c), x), c, true
}
