package token

var keywords = map[string]Kind{
	"let":      KwLet,
	"fn":       KwFn,
	"if":       KwIf,
	"else":     KwElse,
	"while":    KwWhile,
	"for":      KwFor,
	"in":       KwIn,
	"return":   KwReturn,
	"break":    KwBreak,
	"continue": KwContinue,
	"true":     KwTrue,
	"false":    KwFalse,
	"nil":      KwNil,
}

// LookupKeyword возвращает тип и bool если это ключевое слово.
// Ключевые слова регистрозависимые — только lowercase версии распознаются.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}

// KeywordLiteral returns the literal payload carried by value keywords.
func KeywordLiteral(k Kind) Literal {
	switch k {
	case KwTrue:
		return BoolValue(true)
	case KwFalse:
		return BoolValue(false)
	case KwNil:
		return NilValue()
	default:
		return Literal{}
	}
}
