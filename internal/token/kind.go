package token

import "fmt"

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier token.
	Ident
	// KwLet represents the 'let' keyword.
	KwLet // let
	// KwFn represents the 'fn' keyword.
	KwFn // fn
	// KwIf represents the 'if' keyword.
	KwIf // if
	// KwElse represents the 'else' keyword.
	KwElse // else
	// KwWhile represents the 'while' keyword.
	KwWhile // while
	// KwFor represents the 'for' keyword.
	KwFor // for
	// KwIn represents the 'in' keyword.
	KwIn // in
	// KwReturn represents the 'return' keyword.
	KwReturn // return
	// KwBreak represents the 'break' keyword.
	KwBreak // break
	// KwContinue represents the 'continue' keyword.
	KwContinue // continue
	// KwTrue represents the 'true' keyword.
	KwTrue // true
	// KwFalse represents the 'false' keyword.
	KwFalse // false
	// KwNil represents the 'nil' keyword.
	KwNil // nil

	// IntLit represents the integer literal token.
	IntLit
	// FloatLit represents the float literal token.
	FloatLit
	// StringLit represents the string literal token.
	StringLit

	// Plus represents the plus operator token.
	Plus // +
	// Minus represents the minus operator token.
	Minus // -
	// Star represents the star operator token.
	Star // *
	// Slash represents the slash operator token.
	Slash // /
	// Percent represents the percent operator token.
	Percent // %
	// Assign represents the assign operator token.
	Assign // =
	// PlusAssign represents the plus assign operator token.
	PlusAssign // +=
	// MinusAssign represents the minus assign operator token.
	MinusAssign // -=
	// StarAssign represents the star assign operator token.
	StarAssign // *=
	// SlashAssign represents the slash assign operator token.
	SlashAssign // /=
	// PercentAssign represents the percent assign operator token.
	PercentAssign // %=
	// EqEq represents the eq eq operator token.
	EqEq // ==
	// Bang represents the bang operator token.
	Bang // !
	// BangEq represents the bang eq operator token.
	BangEq // !=
	// Lt represents the lt operator token.
	Lt // <
	// LtEq represents the lt eq operator token.
	LtEq // <=
	// Gt represents the gt operator token.
	Gt // >
	// GtEq represents the gt eq operator token.
	GtEq // >=
	// AndAnd represents the and and operator token.
	AndAnd // &&
	// OrOr represents the or or operator token.
	OrOr // ||
	// Semicolon represents the semicolon token.
	Semicolon // ;
	// Comma represents the comma token.
	Comma // ,
	// Dot represents the dot operator token.
	Dot // .
	// DotDot represents the range operator token.
	DotDot // ..
	// LParen represents the left parenthesis token.
	LParen // (
	// RParen represents the right parenthesis token.
	RParen // )
	// LBrace represents the left brace token.
	LBrace // {
	// RBrace represents the right brace token.
	RBrace // }
	// LBracket represents the left bracket token.
	LBracket // [
	// RBracket represents the right bracket token.
	RBracket // ]

	kindCount
)

var kindNames = [kindCount]string{
	Invalid:       "Invalid",
	EOF:           "EOF",
	Ident:         "Ident",
	KwLet:         "KwLet",
	KwFn:          "KwFn",
	KwIf:          "KwIf",
	KwElse:        "KwElse",
	KwWhile:       "KwWhile",
	KwFor:         "KwFor",
	KwIn:          "KwIn",
	KwReturn:      "KwReturn",
	KwBreak:       "KwBreak",
	KwContinue:    "KwContinue",
	KwTrue:        "KwTrue",
	KwFalse:       "KwFalse",
	KwNil:         "KwNil",
	IntLit:        "IntLit",
	FloatLit:      "FloatLit",
	StringLit:     "StringLit",
	Plus:          "Plus",
	Minus:         "Minus",
	Star:          "Star",
	Slash:         "Slash",
	Percent:       "Percent",
	Assign:        "Assign",
	PlusAssign:    "PlusAssign",
	MinusAssign:   "MinusAssign",
	StarAssign:    "StarAssign",
	SlashAssign:   "SlashAssign",
	PercentAssign: "PercentAssign",
	EqEq:          "EqEq",
	Bang:          "Bang",
	BangEq:        "BangEq",
	Lt:            "Lt",
	LtEq:          "LtEq",
	Gt:            "Gt",
	GtEq:          "GtEq",
	AndAnd:        "AndAnd",
	OrOr:          "OrOr",
	Semicolon:     "Semicolon",
	Comma:         "Comma",
	Dot:           "Dot",
	DotDot:        "DotDot",
	LParen:        "LParen",
	RParen:        "RParen",
	LBrace:        "LBrace",
	RBrace:        "RBrace",
	LBracket:      "LBracket",
	RBracket:      "RBracket",
}

// fixed text of keywords and punctuation; empty for variable-text kinds
var kindText = [kindCount]string{
	KwLet:         "let",
	KwFn:          "fn",
	KwIf:          "if",
	KwElse:        "else",
	KwWhile:       "while",
	KwFor:         "for",
	KwIn:          "in",
	KwReturn:      "return",
	KwBreak:       "break",
	KwContinue:    "continue",
	KwTrue:        "true",
	KwFalse:       "false",
	KwNil:         "nil",
	Plus:          "+",
	Minus:         "-",
	Star:          "*",
	Slash:         "/",
	Percent:       "%",
	Assign:        "=",
	PlusAssign:    "+=",
	MinusAssign:   "-=",
	StarAssign:    "*=",
	SlashAssign:   "/=",
	PercentAssign: "%=",
	EqEq:          "==",
	Bang:          "!",
	BangEq:        "!=",
	Lt:            "<",
	LtEq:          "<=",
	Gt:            ">",
	GtEq:          ">=",
	AndAnd:        "&&",
	OrOr:          "||",
	Semicolon:     ";",
	Comma:         ",",
	Dot:           ".",
	DotDot:        "..",
	LParen:        "(",
	RParen:        ")",
	LBrace:        "{",
	RBrace:        "}",
	LBracket:      "[",
	RBracket:      "]",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Text returns the fixed spelling of a keyword or punctuation kind, or "".
func (k Kind) Text() string {
	if int(k) < len(kindText) {
		return kindText[k]
	}
	return ""
}

// Describe returns the human-readable name used in "expected ..." lists.
func (k Kind) Describe() string {
	switch k {
	case EOF:
		return "end of input"
	case Ident:
		return "identifier"
	case IntLit:
		return "integer"
	case FloatLit:
		return "float"
	case StringLit:
		return "string"
	case Invalid:
		return "invalid token"
	}
	if text := k.Text(); text != "" {
		return "'" + text + "'"
	}
	return k.String()
}

// Closer returns the closing delimiter for an opening one.
func (k Kind) Closer() (Kind, bool) {
	switch k {
	case LParen:
		return RParen, true
	case LBrace:
		return RBrace, true
	case LBracket:
		return RBracket, true
	default:
		return Invalid, false
	}
}

// IsCloser reports whether k closes a delimited group.
func (k Kind) IsCloser() bool {
	return k == RParen || k == RBrace || k == RBracket
}
