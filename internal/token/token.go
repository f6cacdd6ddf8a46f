package token

import (
	"quill/internal/source"
)

// Token represents a single source token with its location, literal payload and trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Lit     Literal
	Leading []Trivia
}

// IsLiteral reports whether the token is a numeric, boolean, nil or string literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, FloatLit, StringLit, KwTrue, KwFalse, KwNil:
		return true
	default:
		return false
	}
}

// IsPunctOrOp reports whether the token is a punctuation or operator.
func (t Token) IsPunctOrOp() bool {
	return t.Kind >= Plus && t.Kind < kindCount
}

// IsKeyword reports whether the token is a language keyword.
func (t Token) IsKeyword() bool {
	return t.Kind >= KwLet && t.Kind <= KwNil
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// IsEOF reports whether the token terminates the stream.
func (t Token) IsEOF() bool { return t.Kind == EOF }
