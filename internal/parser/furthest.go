package parser

import (
	"quill/internal/diag"
	"quill/internal/token"
)

// unclosedMark: на позиции отказа ожидался закрывающий разделитель для open.
type unclosedMark struct {
	open  token.Token
	close token.Kind
}

// furthest — аккумулятор «самого дальнего» отказа.
// Отказ дальше текущего заменяет запись, отказ на той же позиции
// объединяет множества ожидаемых токенов, более ранний отбрасывается.
type furthest struct {
	set      bool
	pos      cursor
	expected token.KindSet
	unclosed *unclosedMark
	custom   *Error
}

// advance делает pos текущей позицией записи; false — отказ раньше записи.
func (f *furthest) advance(pos cursor) bool {
	switch {
	case !f.set || pos > f.pos:
		*f = furthest{set: true, pos: pos}
		return true
	case pos == f.pos:
		return true
	default:
		return false
	}
}

func (f *furthest) offer(pos cursor, expected token.KindSet) {
	if f.advance(pos) {
		f.expected = f.expected.Union(expected)
	}
}

// markUnclosed вешает пометку, только если отказ на pos и есть самый дальний.
func (f *furthest) markUnclosed(pos cursor, open token.Token, closer token.Kind) {
	if f.set && f.pos == pos && f.unclosed == nil {
		f.unclosed = &unclosedMark{open: open, close: closer}
	}
}

func (f *furthest) offerCustom(pos cursor, err Error) {
	if f.advance(pos) && f.custom == nil {
		f.custom = &err
	}
}

// toError превращает запись в ошибку разбора; found — токен на позиции отказа.
func (f *furthest) toError(found token.Token) Error {
	switch {
	case f.custom != nil:
		return *f.custom
	case f.unclosed != nil:
		return Error{
			Reason:        ReasonUnclosed,
			Span:          f.unclosed.open.Span,
			Found:         found,
			Expected:      f.expected.Kinds(),
			Delimiter:     f.unclosed.open.Kind,
			ExpectedClose: f.unclosed.close,
		}
	default:
		return Error{
			Reason:   ReasonUnexpected,
			Span:     found.Span,
			Found:    found,
			Expected: f.expected.Kinds(),
		}
	}
}

// DiagCode returns the diagnostic code used when rendering e.
func (e Error) DiagCode() diag.Code {
	switch e.Reason {
	case ReasonCustom:
		return e.Code
	case ReasonUnclosed:
		switch e.Delimiter {
		case token.LParen:
			return diag.SynUnclosedParen
		case token.LBrace:
			return diag.SynUnclosedBrace
		case token.LBracket:
			return diag.SynUnclosedBracket
		}
		return diag.SynUnclosedDelimiter
	default:
		if e.FoundEOF() {
			return diag.SynUnexpectedEOF
		}
		return diag.SynUnexpectedToken
	}
}
