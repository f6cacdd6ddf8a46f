package lexer

import (
	"unicode"
	"unicode/utf8"
)

// класс ASCII-байта; байты от 0x80 разбираются как руны
type byteClass uint8

const (
	clsIdentStart byteClass = 1 << iota
	clsDigit
	clsHexLetter
	clsSpace
)

var asciiClass = func() (t [utf8.RuneSelf]byteClass) {
	for b := 'a'; b <= 'z'; b++ {
		t[b] |= clsIdentStart
		t[b-'a'+'A'] |= clsIdentStart
	}
	for b := 'a'; b <= 'f'; b++ {
		t[b] |= clsHexLetter
		t[b-'a'+'A'] |= clsHexLetter
	}
	for b := '0'; b <= '9'; b++ {
		t[b] |= clsDigit
	}
	t['_'] |= clsIdentStart
	// '\n' не пробел: перевод строки — отдельная trivia
	for _, b := range " \t\r\f\v" {
		t[b] |= clsSpace
	}
	return t
}()

func hasClass(b byte, cls byteClass) bool {
	return b < utf8.RuneSelf && asciiClass[b]&cls != 0
}

func isIdentStartByte(b byte) bool    { return hasClass(b, clsIdentStart) }
func isIdentContinueByte(b byte) bool { return hasClass(b, clsIdentStart|clsDigit) }
func isSpace(b byte) bool             { return hasClass(b, clsSpace) }
func isDec(b byte) bool               { return hasClass(b, clsDigit) }
func isHex(b byte) bool               { return hasClass(b, clsDigit|clsHexLetter) }
func isBin(b byte) bool               { return b == '0' || b == '1' }
func isOct(b byte) bool               { return b >= '0' && b <= '7' }

func isIdentStartRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentContinueRune(r rune) bool {
	return isIdentStartRune(r) || unicode.IsDigit(r)
}

// ".5": точка, за которой сразу цифра, начинает число
func (lx *Lexer) isNumberAfterDot() bool {
	b0, b1, ok := lx.cursor.Peek2()
	return ok && b0 == '.' && isDec(b1)
}
