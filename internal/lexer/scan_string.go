package lexer

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"quill/internal/diag"
	"quill/internal/source"
	"quill/internal/token"
)

// "..." с escape \n \t \r \\ \" \' \0 \u{...}; перевод строки внутри литерала — ошибка.
// Span и Text включают кавычки, Lit содержит декодированное значение.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening '"'

	var val strings.Builder
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch b {
		case '"':
			lx.cursor.Bump()
			sp := lx.cursor.SpanFrom(start)
			return token.Token{Kind: token.StringLit, Span: sp, Text: lx.text(sp), Lit: token.StringValue(val.String())}
		case '\\':
			lx.scanEscape(&val)
			continue
		case '\n':
			sp := lx.cursor.SpanFrom(start)
			lx.errLex(diag.LexUnterminatedString, sp, "unterminated string literal")
			return token.Token{Kind: token.StringLit, Span: sp, Text: lx.text(sp)}
		}
		val.WriteRune(lx.cursor.BumpRune())
	}
	// EOF без закрывающей кавычки
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnterminatedString, sp, "unterminated string literal")
	return token.Token{Kind: token.StringLit, Span: sp, Text: lx.text(sp)}
}

func (lx *Lexer) scanEscape(val *strings.Builder) {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '\'
	if lx.cursor.EOF() {
		return
	}
	c := lx.cursor.Peek()
	switch c {
	case 'n':
		val.WriteByte('\n')
	case 't':
		val.WriteByte('\t')
	case 'r':
		val.WriteByte('\r')
	case '0':
		val.WriteByte(0)
	case '\\', '"', '\'':
		val.WriteByte(c)
	case 'u':
		lx.cursor.Bump()
		lx.scanUnicodeEscape(start, val)
		return
	case '\n':
		// незакрытую строку зафиксирует scanString
		return
	default:
		lx.cursor.BumpRune()
		lx.errLex(diag.LexBadEscape, lx.cursor.SpanFrom(start), "unknown escape sequence")
		return
	}
	lx.cursor.Bump()
}

// \u{XXXX}: от 1 до 6 шестнадцатеричных цифр, валидная руна.
func (lx *Lexer) scanUnicodeEscape(start Mark, val *strings.Builder) {
	bad := func() {
		lx.errLex(diag.LexBadEscape, lx.cursor.SpanFrom(start), "invalid unicode escape, expected \\u{XXXX}")
	}
	if !lx.cursor.Eat('{') {
		bad()
		return
	}
	digitsStart := lx.cursor.Off
	lx.cursor.EatWhile(isHex)
	digits := lx.text(source.Span{Start: digitsStart, End: lx.cursor.Off})
	if !lx.cursor.Eat('}') || digits == "" || len(digits) > 6 {
		bad()
		return
	}
	v, err := strconv.ParseUint(digits, 16, 32)
	if err != nil || !utf8.ValidRune(rune(v)) { // #nosec G115 -- at most 6 hex digits
		bad()
		return
	}
	val.WriteRune(rune(v)) // #nosec G115 -- validated above
}
