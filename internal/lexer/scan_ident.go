package lexer

import (
	"unicode/utf8"

	"quill/internal/token"
)

// scanIdentOrKeyword reads an identifier and classifies it with
// token.LookupKeyword. Keywords are lower-case only; Text is the exact
// source slice. A non-letter rune is handed to scanOperatorOrPunct, which
// reports it as unknown.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()

	if r, _ := lx.cursor.PeekRune(); r >= utf8.RuneSelf && !isIdentStartRune(r) {
		return lx.scanOperatorOrPunct()
	}
	lx.cursor.BumpRune()
	// хвост может смешивать ASCII и Unicode
	for {
		lx.cursor.EatWhile(isIdentContinueByte)
		r, size := lx.cursor.PeekRune()
		if size == 0 || r < utf8.RuneSelf || !isIdentContinueRune(r) {
			break
		}
		lx.cursor.BumpRune()
	}

	sp := lx.cursor.SpanFrom(start)
	text := lx.text(sp)
	if k, ok := token.LookupKeyword(text); ok {
		return token.Token{Kind: k, Span: sp, Text: text, Lit: token.KeywordLiteral(k)}
	}
	return token.Token{Kind: token.Ident, Span: sp, Text: text}
}
