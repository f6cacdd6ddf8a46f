package parser

import (
	"fmt"

	"quill/internal/ast"
	"quill/internal/diag"
	"quill/internal/source"
	"quill/internal/token"
	"quill/internal/trace"
)

// Options tunes a single Parse invocation.
type Options struct {
	// MaxErrors caps the number of post-parse check errors (0 = unlimited).
	MaxErrors int
	// Tracer receives a "parse" span, and at trace.LevelRule a "stmt" span
	// per attempted statement; nil disables tracing.
	Tracer trace.Tracer
	// ParentSpan is the trace span the parse span nests under.
	ParentSpan uint64
}

// MaxDepth bounds the nesting of expressions, blocks and else-if chains.
const MaxDepth = 1000

// cursor — индекс токена во входном срезе.
type cursor int

// Parser holds the per-invocation state: the token slice and the
// furthest-failure record. Rules never mutate anything else.
type Parser struct {
	toks  []token.Token
	opts  Options
	far   furthest
	depth int
	rules trace.Tracer // nil, если правила не трассируются
	span  uint64
}

func newParser(tokens []token.Token, opts Options) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != token.EOF {
		var sp source.Span
		if n := len(tokens); n > 0 {
			sp = tokens[n-1].Span.ZeroideToEnd()
		}
		tokens = append(tokens[:len(tokens):len(tokens)], token.Token{Kind: token.EOF, Span: sp})
	}
	return &Parser{toks: tokens, opts: opts}
}

// Result is the outcome of ParseFile.
type Result struct {
	File   *ast.File
	Errors []Error
	// Dropped counts post-parse errors discarded by Options.MaxErrors.
	Dropped int
}

// Parse builds the syntax tree of a token sequence produced by the lexer.
// On success it returns the file and no errors; on failure a nil file and
// at least one error. The token slice is not modified.
func Parse(tokens []token.Token, opts Options) (*ast.File, []Error) {
	res := ParseFile(tokens, opts)
	return res.File, res.Errors
}

// ParseFile is Parse that also reports how many errors were dropped.
func ParseFile(tokens []token.Token, opts Options) Result {
	span := trace.Begin(opts.Tracer, trace.ScopePass, "parse", opts.ParentSpan)

	p := newParser(tokens, opts)
	if trace.Enabled(opts.Tracer, trace.ScopeRule) {
		p.rules, p.span = opts.Tracer, span.ID()
	}
	file, _, ok := p.file(0)
	if !ok {
		err := p.far.toError(p.tok(p.far.pos))
		trace.Point(p.rules, trace.ScopeRule, "furthest", err.Error(), span.ID())
		span.WithCount("errors", 1).End(err.Reason.String())
		return Result{Errors: []Error{err}}
	}

	if errs, dropped := check(file, opts.MaxErrors); len(errs) > 0 {
		span.WithCount("errors", len(errs)+dropped).End("check")
		return Result{Errors: errs, Dropped: dropped}
	}

	span.WithCount("stmts", len(file.Stmts)).End("")
	return Result{File: file}
}

// nest входит на уровень вложенности; false — предел превышен, отказ записан.
func (p *Parser) nest(c cursor) bool {
	if p.depth >= MaxDepth {
		p.far.offerCustom(c, customError(diag.SynTooDeep, p.tok(c).Span,
			fmt.Sprintf("nesting too deep (more than %d levels)", MaxDepth)))
		return false
	}
	p.depth++
	return true
}

func (p *Parser) unnest() { p.depth-- }

// tok returns the token at c; past the end it keeps returning EOF.
func (p *Parser) tok(c cursor) token.Token {
	if int(c) >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[c]
}

// expect consumes one token of kind k or records the failure.
func (p *Parser) expect(c cursor, k token.Kind) (token.Token, cursor, bool) {
	t := p.tok(c)
	if t.Kind == k {
		return t, c + 1, true
	}
	p.far.offer(c, token.SetOf(k))
	return t, c, false
}

// expectAny consumes one token whose kind is in set.
func (p *Parser) expectAny(c cursor, set token.KindSet) (token.Token, cursor, bool) {
	t := p.tok(c)
	if set.Has(t.Kind) {
		return t, c + 1, true
	}
	p.far.offer(c, set)
	return t, c, false
}

// ident consumes an identifier.
func (p *Parser) ident(c cursor) (ast.Ident, cursor, bool) {
	t, next, ok := p.expect(c, token.Ident)
	if !ok {
		return ast.Ident{}, c, false
	}
	return ast.Ident{Name: t.Text, Span: t.Span}, next, true
}

// spanFrom covers tokens [from, to).
func (p *Parser) spanFrom(from, to cursor) source.Span {
	start := p.tok(from).Span
	if to <= from {
		return start.ZeroideToStart()
	}
	return start.Cover(p.tok(to - 1).Span)
}

// file = stmt* EOF
func (p *Parser) file(c cursor) (*ast.File, cursor, bool) {
	stmts, c, ok := many(p, c, p.stmt)
	if !ok {
		return nil, c, false
	}
	if _, _, ok := p.expect(c, token.EOF); !ok {
		return nil, c, false
	}

	eof := p.tok(c)
	sp := source.Span{File: eof.Span.File}
	if c > 0 {
		sp.End = p.tok(c - 1).Span.End
	}
	return ast.NewFile(sp, stmts), c, true
}
