package lexer

import (
	"quill/internal/diag"
	"quill/internal/token"
)

// collectLeadingTrivia gathers the trivia in front of the next significant
// token into lx.hold. Runs of blanks and runs of newlines each become one
// item; comments are one item each. A block comment nests and, when left
// open, runs to the end of the file with an error.
func (lx *Lexer) collectLeadingTrivia() {
	lx.hold = lx.hold[:0]
	for !lx.cursor.EOF() {
		start := lx.cursor.Mark()
		switch b := lx.cursor.Peek(); {
		case isSpace(b):
			lx.cursor.EatWhile(isSpace)
			lx.keepTrivia(token.TriviaSpace, start)
		case b == '\n':
			lx.cursor.EatWhile(func(b byte) bool { return b == '\n' })
			lx.keepTrivia(token.TriviaNewline, start)
		case lx.lineComment():
			lx.keepTrivia(token.TriviaLineComment, start)
		case lx.blockComment():
			lx.keepTrivia(token.TriviaBlockComment, start)
		default:
			return
		}
	}
}

func (lx *Lexer) keepTrivia(kind token.TriviaKind, start Mark) {
	sp := lx.cursor.SpanFrom(start)
	lx.hold = append(lx.hold, token.Trivia{Kind: kind, Span: sp, Text: lx.text(sp)})
}

// lineComment съедает "//..." до перевода строки (не включая его)
func (lx *Lexer) lineComment() bool {
	if b0, b1, ok := lx.cursor.Peek2(); !ok || b0 != '/' || b1 != '/' {
		return false
	}
	lx.cursor.EatWhile(func(b byte) bool { return b != '\n' })
	return true
}

// blockComment съедает "/* ... */" с учётом вложенности
func (lx *Lexer) blockComment() bool {
	if b0, b1, ok := lx.cursor.Peek2(); !ok || b0 != '/' || b1 != '*' {
		return false
	}
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	lx.cursor.Bump()
	for depth := 1; depth > 0; {
		b0, b1, ok := lx.cursor.Peek2()
		switch {
		case !ok:
			// остался максимум один байт: комментарий не закрыт
			lx.cursor.Bump()
			lx.errLex(diag.LexUnterminatedBlockComment, lx.cursor.SpanFrom(start), "unterminated block comment")
			return true
		case b0 == '/' && b1 == '*':
			depth++
		case b0 == '*' && b1 == '/':
			depth--
		default:
			lx.cursor.Bump()
			continue
		}
		lx.cursor.Bump()
		lx.cursor.Bump()
	}
	return true
}
