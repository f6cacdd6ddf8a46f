package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка - на первое время
	UnknownCode Code = 0
	// Лексические
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004
	LexBadEscape                Code = 1005
	LexNumberOutOfRange         Code = 1006

	// Парсерные
	SynInfo                Code = 2000
	SynUnexpectedToken     Code = 2001
	SynUnclosedDelimiter   Code = 2002
	SynUnexpectedEOF       Code = 2003
	SynUnclosedParen       Code = 2006
	SynUnclosedBrace       Code = 2007
	SynUnclosedBracket     Code = 2008
	SynInvalidAssignTarget Code = 2031
	SynDuplicateParam      Code = 2032
	SynTooManyArgs         Code = 2033
	SynNoProgress          Code = 2034
	SynTooDeep             Code = 2035
)

var (
	codeDescription = map[Code]string{
		UnknownCode:                 "Unknown error",
		LexInfo:                     "Lexical information",
		LexUnknownChar:              "Unknown character",
		LexUnterminatedString:       "Unterminated string",
		LexUnterminatedBlockComment: "Unterminated block comment",
		LexBadNumber:                "Bad number",
		LexBadEscape:                "Bad escape sequence",
		LexNumberOutOfRange:         "Number literal out of range",
		SynInfo:                     "Syntax information",
		SynUnexpectedToken:          "Unexpected token",
		SynUnclosedDelimiter:        "Unclosed delimiter",
		SynUnexpectedEOF:            "Unexpected end of input",
		SynUnclosedParen:            "Unclosed parenthesis",
		SynUnclosedBrace:            "Unclosed brace",
		SynUnclosedBracket:          "Unclosed bracket",
		SynInvalidAssignTarget:      "Invalid assignment target",
		SynDuplicateParam:           "Duplicate parameter",
		SynTooManyArgs:              "Too many arguments",
		SynNoProgress:               "Grammar rule made no progress",
		SynTooDeep:                  "Nesting too deep",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
