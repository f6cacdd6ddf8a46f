package token

import (
	"strconv"
)

// LitKind selects the active variant of a Literal.
type LitKind uint8

const (
	// LitNone marks a token without literal payload.
	LitNone LitKind = iota
	LitInt
	LitFloat
	LitString
	LitBool
	LitNil
)

func (k LitKind) String() string {
	switch k {
	case LitInt:
		return "int"
	case LitFloat:
		return "float"
	case LitString:
		return "string"
	case LitBool:
		return "bool"
	case LitNil:
		return "nil"
	default:
		return "none"
	}
}

// Literal is the decoded value of a literal token. Only the field selected by Kind is meaningful.
type Literal struct {
	Kind  LitKind
	Int   int64
	Float float64
	Str   string
	Bool  bool
}

func IntValue(v int64) Literal     { return Literal{Kind: LitInt, Int: v} }
func FloatValue(v float64) Literal { return Literal{Kind: LitFloat, Float: v} }
func StringValue(v string) Literal { return Literal{Kind: LitString, Str: v} }
func BoolValue(v bool) Literal     { return Literal{Kind: LitBool, Bool: v} }
func NilValue() Literal            { return Literal{Kind: LitNil} }

// String renders the payload the way the debug printers show it.
func (l Literal) String() string {
	switch l.Kind {
	case LitInt:
		return strconv.FormatInt(l.Int, 10)
	case LitFloat:
		return strconv.FormatFloat(l.Float, 'g', -1, 64)
	case LitString:
		return strconv.Quote(l.Str)
	case LitBool:
		return strconv.FormatBool(l.Bool)
	case LitNil:
		return "nil"
	default:
		return ""
	}
}
