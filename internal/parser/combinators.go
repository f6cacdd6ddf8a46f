package parser

import (
	"quill/internal/diag"
	"quill/internal/source"
	"quill/internal/token"
)

// Правило: чистая функция от позиции к (узел, новая позиция) или отказу.
// При отказе правило возвращает исходную позицию и сообщает причину в p.far.

func (p *Parser) noProgress(c cursor) {
	p.far.offerCustom(c, customError(diag.SynNoProgress, p.tok(c).Span, "rule made no progress"))
}

// choice tries the alternatives in order and returns the first success.
func choice[T any](p *Parser, c cursor, alts ...func(cursor) (T, cursor, bool)) (T, cursor, bool) {
	var zero T
	for _, alt := range alts {
		v, next, ok := alt(c)
		if !ok {
			continue
		}
		if next == c {
			p.noProgress(c)
			return zero, c, false
		}
		return v, next, true
	}
	return zero, c, false
}

// many applies item until it fails. The failure of the last attempt is
// left in p.far; many itself always succeeds unless item stalls.
func many[T any](p *Parser, c cursor, item func(cursor) (T, cursor, bool)) ([]T, cursor, bool) {
	var out []T
	for {
		v, next, ok := item(c)
		if !ok {
			return out, c, true
		}
		if next == c {
			p.noProgress(c)
			return nil, c, false
		}
		out = append(out, v)
		c = next
	}
}

// sepBy parses zero or more items separated by sep, allowing a trailing sep.
func sepBy[T any](p *Parser, c cursor, item func(cursor) (T, cursor, bool), sep token.Kind) ([]T, cursor, bool) {
	var out []T
	for {
		v, next, ok := item(c)
		if !ok {
			return out, c, true
		}
		if next == c {
			p.noProgress(c)
			return nil, c, false
		}
		out = append(out, v)
		c = next

		if _, next, ok = p.expect(c, sep); !ok {
			return out, c, true
		}
		c = next
	}
}

// optional never fails; present reports whether item matched.
func optional[T any](c cursor, item func(cursor) (T, cursor, bool)) (v T, next cursor, present bool) {
	v, next, ok := item(c)
	if !ok {
		var zero T
		return zero, c, false
	}
	return v, next, true
}

// delimited parses open inner close and returns the span from open to close.
// If the closer is missing and the parser stopped on EOF, on a different
// closing delimiter, or (inside parentheses and brackets) on a token that
// only occurs at statement level, the failure is marked as an unclosed open.
func delimited[T any](p *Parser, c cursor, open, closer token.Kind, inner func(cursor) (T, cursor, bool)) (T, source.Span, cursor, bool) {
	var zero T
	start := c
	openTok, c, ok := p.expect(c, open)
	if !ok {
		return zero, source.Span{}, start, false
	}
	v, c, ok := inner(c)
	if !ok {
		return zero, source.Span{}, start, false
	}
	closeTok, next, ok := p.expect(c, closer)
	if !ok {
		if unclosedAt(closeTok.Kind, closer) {
			p.far.markUnclosed(c, openTok, closer)
		}
		return zero, source.Span{}, start, false
	}
	return v, openTok.Span.Cover(closeTok.Span), next, true
}

func unclosedAt(found, closer token.Kind) bool {
	switch {
	case found == token.EOF:
		return true
	case found.IsCloser():
		return found != closer
	case closer == token.RBrace:
		return false
	default:
		return stmtBoundary.Has(found)
	}
}
