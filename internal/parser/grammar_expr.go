package parser

import (
	"quill/internal/ast"
	"quill/internal/token"
)

// expr = assign
func (p *Parser) expr(c cursor) (ast.Expr, cursor, bool) {
	if !p.nest(c) {
		return nil, c, false
	}
	defer p.unnest()
	return p.assign(c)
}

// assign = or [assignOp assign]
func (p *Parser) assign(start cursor) (ast.Expr, cursor, bool) {
	target, c, ok := p.binary(start, 0)
	if !ok {
		return nil, start, false
	}
	op, next, ok := p.expectAny(c, assignOps)
	if !ok {
		return target, c, true
	}
	value, next, ok := p.expr(next)
	if !ok {
		return nil, start, false
	}
	// Правильность цели проверяется после разбора (check.go).
	return ast.NewAssignExpr(op.Kind, target, value), next, true
}

// binary parses the precedence level at index level and everything tighter.
func (p *Parser) binary(start cursor, level int) (ast.Expr, cursor, bool) {
	if level == len(binaryLevels) {
		return p.unary(start)
	}
	lv := binaryLevels[level]

	left, c, ok := p.binary(start, level+1)
	if !ok {
		return nil, start, false
	}
	for {
		op, next, ok := p.expectAny(c, lv.ops)
		if !ok {
			return left, c, true
		}
		right, next, ok := p.binary(next, level+1)
		if !ok {
			return nil, start, false
		}
		left = ast.NewBinaryExpr(op.Kind, left, right)
		c = next
		if lv.single {
			return left, c, true
		}
	}
}

// unary = ("!"|"-") unary | postfix
func (p *Parser) unary(start cursor) (ast.Expr, cursor, bool) {
	op, c, ok := p.expectAny(start, unaryOps)
	if !ok {
		return p.postfix(start)
	}
	if !p.nest(c) {
		return nil, start, false
	}
	operand, c, ok := p.unary(c)
	p.unnest()
	if !ok {
		return nil, start, false
	}
	return ast.NewUnaryExpr(op.Span.Cover(operand.GetSpan()), op.Kind, operand), c, true
}

// postfix = primary {call | index | member}
// Once the opening token of a suffix matched, the suffix must complete.
func (p *Parser) postfix(start cursor) (ast.Expr, cursor, bool) {
	x, c, ok := p.primary(start)
	if !ok {
		return nil, start, false
	}
	for {
		switch p.tok(c).Kind {
		case token.LParen:
			args, sp, next, ok := delimited(p, c, token.LParen, token.RParen, p.exprList)
			if !ok {
				return nil, start, false
			}
			x, c = ast.NewCallExpr(x.GetSpan().Cover(sp), x, args), next
		case token.LBracket:
			idx, sp, next, ok := delimited(p, c, token.LBracket, token.RBracket, p.expr)
			if !ok {
				return nil, start, false
			}
			x, c = ast.NewIndexExpr(x.GetSpan().Cover(sp), x, idx), next
		case token.Dot:
			name, next, ok := p.ident(c + 1)
			if !ok {
				return nil, start, false
			}
			x, c = ast.NewMemberExpr(x.GetSpan().Cover(name.Span), x, name), next
		default:
			p.far.offer(c, postfixOps)
			return x, c, true
		}
	}
}

func (p *Parser) exprList(c cursor) ([]ast.Expr, cursor, bool) {
	return sepBy(p, c, p.expr, token.Comma)
}

// primary = literal | IDENT | group | list | fnLit
func (p *Parser) primary(c cursor) (ast.Expr, cursor, bool) {
	return choice(p, c,
		p.literal,
		p.identExpr,
		p.group,
		p.list,
		p.fnLit,
	)
}

func (p *Parser) literal(c cursor) (ast.Expr, cursor, bool) {
	t, next, ok := p.expectAny(c, literalKinds)
	if !ok {
		return nil, c, false
	}
	return ast.NewLiteralExpr(t.Span, t.Lit), next, true
}

func (p *Parser) identExpr(c cursor) (ast.Expr, cursor, bool) {
	id, next, ok := p.ident(c)
	if !ok {
		return nil, c, false
	}
	return ast.NewIdentExpr(id.Span, id.Name), next, true
}

// group = "(" expr ")"
func (p *Parser) group(c cursor) (ast.Expr, cursor, bool) {
	inner, sp, next, ok := delimited(p, c, token.LParen, token.RParen, p.expr)
	if !ok {
		return nil, c, false
	}
	return ast.NewGroupExpr(sp, inner), next, true
}

// list = "[" [expr {"," expr} [","]] "]"
func (p *Parser) list(c cursor) (ast.Expr, cursor, bool) {
	elems, sp, next, ok := delimited(p, c, token.LBracket, token.RBracket, p.exprList)
	if !ok {
		return nil, c, false
	}
	return ast.NewListExpr(sp, elems), next, true
}

// fnLit = "fn" params block
func (p *Parser) fnLit(start cursor) (ast.Expr, cursor, bool) {
	_, c, ok := p.expect(start, token.KwFn)
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
	return ast.NewFnExpr(p.spanFrom(start, c), params, body), c, true
}
