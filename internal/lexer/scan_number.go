package lexer

import (
	"errors"
	"strconv"
	"strings"

	"quill/internal/diag"
	"quill/internal/token"
)

// Поддержка: 0, 123, 1_000, 0b..., 0o..., 0x..., 1.0, .5, 1e-3, 1.0e+10.
// Неверные формы — ошибка в errLex; токен всё равно завершаем, чтобы продолжить сканирование.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	kind := token.IntLit
	radix := 10

	switch {
	case lx.cursor.Peek() == '.':
		// ведущая точка — формат ".digits", вызваны после isNumberAfterDot
		lx.cursor.Bump()
		kind = token.FloatLit
		lx.eatDigits(isDec)
		lx.scanExponent(&kind)

	case lx.cursor.Peek() == '0' && lx.radixPrefix() != 0:
		radix = lx.radixPrefix()
		lx.cursor.Bump()
		lx.cursor.Bump()
		switch radix {
		case 2:
			lx.eatDigits(isBin)
		case 8:
			lx.eatDigits(isOct)
		default:
			lx.eatDigits(isHex)
		}

	default:
		lx.eatDigits(isDec)
		// дробная часть только если за точкой цифра: "1..2" и "1.foo" точку не трогают
		if lx.isNumberAfterDot() {
			lx.cursor.Bump()
			kind = token.FloatLit
			lx.eatDigits(isDec)
		}
		lx.scanExponent(&kind)
	}

	// хвост из букв/цифр ("0b102", "12abc") — часть того же ошибочного литерала
	bad := lx.cursor.EatWhile(isIdentContinueByte) > 0

	sp := lx.cursor.SpanFrom(start)
	text := lx.text(sp)
	tok := token.Token{Kind: kind, Span: sp, Text: text}
	if bad {
		lx.errLex(diag.LexBadNumber, sp, "invalid digit or suffix in number literal")
		return tok
	}

	digits, ok := cleanDigits(text, radix)
	if !ok {
		lx.errLex(diag.LexBadNumber, sp, "malformed number literal")
		return tok
	}

	if kind == token.FloatLit {
		v, err := strconv.ParseFloat(digits, 64)
		if err != nil {
			lx.errLex(diag.LexNumberOutOfRange, sp, "float literal out of range")
			return tok
		}
		tok.Lit = token.FloatValue(v)
		return tok
	}

	v, err := strconv.ParseInt(digits, radix, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			lx.errLex(diag.LexNumberOutOfRange, sp, "integer literal out of range")
		} else {
			lx.errLex(diag.LexBadNumber, sp, "malformed number literal")
		}
		return tok
	}
	tok.Lit = token.IntValue(v)
	return tok
}

// radixPrefix распознаёт 0b/0o/0x; 0 — префикса нет.
func (lx *Lexer) radixPrefix() int {
	b0, b1, ok := lx.cursor.Peek2()
	if !ok || b0 != '0' {
		return 0
	}
	switch b1 {
	case 'b', 'B':
		return 2
	case 'o', 'O':
		return 8
	case 'x', 'X':
		return 16
	}
	return 0
}

func (lx *Lexer) eatDigits(pred func(byte) bool) {
	lx.cursor.EatWhile(func(b byte) bool { return pred(b) || b == '_' })
}

func (lx *Lexer) scanExponent(kind *token.Kind) {
	if b := lx.cursor.Peek(); b != 'e' && b != 'E' {
		return
	}
	m := lx.cursor.Mark()
	lx.cursor.Bump()
	if b := lx.cursor.Peek(); b == '+' || b == '-' {
		lx.cursor.Bump()
	}
	if !isDec(lx.cursor.Peek()) {
		// "1e" / "1e+" — экспоненты нет, хвост разберёт проверка суффикса
		lx.cursor.Reset(m)
		return
	}
	*kind = token.FloatLit
	lx.eatDigits(isDec)
}

// cleanDigits убирает префикс основания и '_' между цифрами.
// '_' в начале, в конце, рядом с точкой/экспонентой или подряд — ошибка.
func cleanDigits(text string, radix int) (string, bool) {
	body := text
	if radix != 10 {
		body = text[2:]
		if body == "" {
			return "", false
		}
	}
	// в десятичном теле 'e' — экспонента, а не цифра
	isDigit := isDec
	if radix == 16 {
		isDigit = isHex
	}
	var b strings.Builder
	b.Grow(len(body))
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '_' {
			b.WriteByte(c)
			continue
		}
		// после префикса основания '_' допустим сразу: 0x_ff
		leading := i == 0 && radix != 10
		if i == len(body)-1 || (!leading && (i == 0 || !isDigit(body[i-1]))) || !isDigit(body[i+1]) {
			return "", false
		}
	}
	out := b.String()
	if out == "" {
		return "", false
	}
	return out, true
}
