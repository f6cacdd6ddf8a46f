package lexer

import (
	"quill/internal/diag"
	"quill/internal/token"
)

// scanOperatorOrPunct tries two-byte operators before single bytes, so "<="
// never splits into "<" and "=".
func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()
	emit := func(k token.Kind) token.Token {
		sp := lx.cursor.SpanFrom(start)
		return token.Token{Kind: k, Span: sp, Text: lx.text(sp)}
	}

	if b0, b1, ok := lx.cursor.Peek2(); ok {
		if k, ok := pairOps[[2]byte{b0, b1}]; ok {
			lx.cursor.Bump()
			lx.cursor.Bump()
			return emit(k)
		}
	}
	if k, ok := singleCharOps[lx.cursor.Peek()]; ok {
		lx.cursor.Bump()
		return emit(k)
	}

	// неизвестный символ: съедаем руну целиком, фиксируем ошибку и продолжаем
	lx.cursor.BumpRune()
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnknownChar, sp, "unknown character")
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
}

var pairOps = map[[2]byte]token.Kind{
	{'.', '.'}: token.DotDot,
	{'&', '&'}: token.AndAnd,
	{'|', '|'}: token.OrOr,
	{'=', '='}: token.EqEq,
	{'!', '='}: token.BangEq,
	{'<', '='}: token.LtEq,
	{'>', '='}: token.GtEq,
	{'+', '='}: token.PlusAssign,
	{'-', '='}: token.MinusAssign,
	{'*', '='}: token.StarAssign,
	{'/', '='}: token.SlashAssign,
	{'%', '='}: token.PercentAssign,
}

var singleCharOps = map[byte]token.Kind{
	'+': token.Plus,
	'-': token.Minus,
	'*': token.Star,
	'/': token.Slash,
	'%': token.Percent,
	'=': token.Assign,
	'!': token.Bang,
	'<': token.Lt,
	'>': token.Gt,
	';': token.Semicolon,
	',': token.Comma,
	'.': token.Dot,
	'(': token.LParen,
	')': token.RParen,
	'{': token.LBrace,
	'}': token.RBrace,
	'[': token.LBracket,
	']': token.RBracket,
}
