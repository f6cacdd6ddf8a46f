package lexer

import (
	"unicode/utf8"

	"quill/internal/source"
	"quill/internal/token"
)

type Lexer struct {
	file    *source.File
	cursor  Cursor
	opts    Options
	look    *token.Token   // 1 элементный буфер для токена
	hold    []token.Trivia // накопленные leading trivia
	errs    []Error
	dropped int
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
	}
}

// Result is the outcome of Scan.
type Result struct {
	Tokens []token.Token
	Errors []Error
	// Dropped counts errors discarded because of Options.MaxErrors.
	Dropped int
}

// Tokenize сканирует весь файл. Результат «всё или ничего»: либо полная
// последовательность токенов, заканчивающаяся ровно одним EOF, либо все ошибки.
func Tokenize(file *source.File, opts Options) ([]token.Token, []Error) {
	res := Scan(file, opts)
	return res.Tokens, res.Errors
}

// Scan is Tokenize that also reports how many errors were dropped.
func Scan(file *source.File, opts Options) Result {
	lx := New(file, opts)
	tokens := make([]token.Token, 0, len(file.Content)/4+1)
	for {
		tok := lx.Next()
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	if errs := lx.Errors(); len(errs) > 0 {
		return Result{Errors: errs, Dropped: lx.Dropped()}
	}
	return Result{Tokens: tokens}
}

// Errors returns the errors recorded so far, in discovery order.
func (lx *Lexer) Errors() []Error {
	return lx.errs
}

// Dropped returns how many errors were discarded because of Options.MaxErrors.
func (lx *Lexer) Dropped() int {
	return lx.dropped
}

// Next возвращает следующий **значимый** токен с уже собранным Leading.
// После EOF всегда возвращает EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	lx.collectLeadingTrivia()

	// Leading из hold к EOF не приклеиваем
	if lx.cursor.EOF() {
		lx.hold = nil
		return token.Token{
			Kind: token.EOF,
			Span: lx.emptySpan(),
		}
	}

	ch := lx.cursor.Peek()
	var tok token.Token

	switch {
	case isIdentStartByte(ch):
		tok = lx.scanIdentOrKeyword()

	case ch >= utf8.RuneSelf:
		// Возможный Unicode идентификатор → scanIdentOrKeyword() разберётся
		tok = lx.scanIdentOrKeyword()

	case isDec(ch):
		tok = lx.scanNumber()

	case ch == '.' && lx.isNumberAfterDot():
		tok = lx.scanNumber()

	case ch == '"':
		tok = lx.scanString()

	default:
		tok = lx.scanOperatorOrPunct()
	}

	tok.Leading = lx.hold
	lx.hold = nil
	return tok
}

// Peek возвращает следующий токен, не потребляя его.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}

func (lx *Lexer) text(sp source.Span) string {
	return string(lx.file.Content[sp.Start:sp.End])
}
