package parser

import "quill/internal/token"

// binaryLevel describes one precedence level of left-associative binary operators.
type binaryLevel struct {
	ops token.KindSet
	// single: at most one operator at this level (a..b is not chainable).
	single bool
}

// binaryLevels is ordered from the loosest binding level to the tightest.
var binaryLevels = [...]binaryLevel{
	{ops: token.SetOf(token.OrOr)},
	{ops: token.SetOf(token.AndAnd)},
	{ops: token.SetOf(token.EqEq, token.BangEq)},
	{ops: token.SetOf(token.Lt, token.LtEq, token.Gt, token.GtEq)},
	{ops: token.SetOf(token.DotDot), single: true},
	{ops: token.SetOf(token.Plus, token.Minus)},
	{ops: token.SetOf(token.Star, token.Slash, token.Percent)},
}

var (
	assignOps = token.SetOf(token.Assign, token.PlusAssign, token.MinusAssign,
		token.StarAssign, token.SlashAssign, token.PercentAssign)

	unaryOps = token.SetOf(token.Bang, token.Minus)

	literalKinds = token.SetOf(token.IntLit, token.FloatLit, token.StringLit,
		token.KwTrue, token.KwFalse, token.KwNil)

	postfixOps = token.SetOf(token.LParen, token.LBracket, token.Dot)

	// stmtBoundary: токены, которые не могут стоять внутри ( ) или [ ].
	stmtBoundary = token.SetOf(token.Semicolon, token.KwLet, token.KwIf, token.KwElse,
		token.KwWhile, token.KwFor, token.KwReturn, token.KwBreak, token.KwContinue)
)
