package parser

import (
	"reflect"
	"strings"
	"testing"

	"quill/internal/ast"
	"quill/internal/diag"
	"quill/internal/token"
)

func TestParseStatements(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", nil},
		{"let x = 1;", []string{"Let"}},
		{"fn add(a, b) { return a + b; }", []string{"Fn"}},
		{"let f = fn(x,) { return; };", []string{"Let"}},
		{"if a { } else if b { x; } else { }", []string{"If"}},
		{"while i < 10 { i += 1; }", []string{"While"}},
		{"for i in 0..10 { break; continue; }", []string{"For"}},
		{"{ let y = [1, 2, 3,]; } y;", []string{"Block", "ExprStmt"}},
		{"fn (x) { }(1);", []string{"ExprStmt"}},
		{"a.b(c)[d] = -!f;", []string{"ExprStmt"}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			file := parseOK(t, tt.input)
			got := make([]string, 0, len(file.Stmts))
			for _, s := range file.Stmts {
				got = append(got, ast.NodeName(s))
			}
			if len(got) == 0 {
				got = nil
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("statements = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPrecedence(t *testing.T) {
	x := firstExpr(t, parseOK(t, "1 + 2 * 3 == 7 || !ok;"))

	or, ok := x.(*ast.BinaryExpr)
	if !ok || or.Op != token.OrOr {
		t.Fatalf("root = %T, want || binary", x)
	}
	eq, ok := or.Left.(*ast.BinaryExpr)
	if !ok || eq.Op != token.EqEq {
		t.Fatalf("left of || = %T, want == binary", or.Left)
	}
	add, ok := eq.Left.(*ast.BinaryExpr)
	if !ok || add.Op != token.Plus {
		t.Fatalf("left of == = %T, want + binary", eq.Left)
	}
	if mul, ok := add.Right.(*ast.BinaryExpr); !ok || mul.Op != token.Star {
		t.Fatalf("right of + = %T, want * binary", add.Right)
	}
	if _, ok := or.Right.(*ast.UnaryExpr); !ok {
		t.Fatalf("right of || = %T, want unary", or.Right)
	}
	if sp := x.GetSpan(); sp.Start != 0 || sp.End != 21 {
		t.Fatalf("expression span = %v", sp)
	}
}

func TestLeftAndRightAssociativity(t *testing.T) {
	sub := firstExpr(t, parseOK(t, "a - b - c;")).(*ast.BinaryExpr)
	if _, ok := sub.Left.(*ast.BinaryExpr); !ok {
		t.Fatalf("a - b - c must group to the left")
	}

	as := firstExpr(t, parseOK(t, "a = b = c;")).(*ast.AssignExpr)
	if _, ok := as.Value.(*ast.AssignExpr); !ok {
		t.Fatalf("a = b = c must group to the right")
	}
}

func TestPostfixChain(t *testing.T) {
	x := firstExpr(t, parseOK(t, "f(1, 2,)[0].y;"))
	member, ok := x.(*ast.MemberExpr)
	if !ok || member.Name.Name != "y" {
		t.Fatalf("root = %T, want member .y", x)
	}
	index, ok := member.Target.(*ast.IndexExpr)
	if !ok {
		t.Fatalf("member target = %T", member.Target)
	}
	call, ok := index.Target.(*ast.CallExpr)
	if !ok || len(call.Args) != 2 {
		t.Fatalf("index target = %T", index.Target)
	}
	if sp := x.GetSpan(); sp != span(0, 13) {
		t.Fatalf("span = %v, want 0..13", sp)
	}
}

func TestLiteralValues(t *testing.T) {
	lst := firstExpr(t, parseOK(t, `[42, 1.5, "s", true, nil];`)).(*ast.ListExpr)
	want := []token.LitKind{token.LitInt, token.LitFloat, token.LitString, token.LitBool, token.LitNil}
	if len(lst.Elems) != len(want) {
		t.Fatalf("elems = %d", len(lst.Elems))
	}
	for i, e := range lst.Elems {
		lit, ok := e.(*ast.LiteralExpr)
		if !ok || lit.Value.Kind != want[i] {
			t.Fatalf("elem %d = %#v, want %v", i, e, want[i])
		}
	}
	if lst.Elems[0].(*ast.LiteralExpr).Value.Int != 42 {
		t.Fatalf("int payload lost")
	}
}

func TestRootSpan(t *testing.T) {
	tests := []struct {
		input string
		end   uint32
	}{
		{"", 0},
		{"   \n\t", 0},
		{"x;", 2},
		{"let x = 1;  // trailing\n", 10},
		{"  /* lead */ x;\n\n", 15},
	}
	for _, tt := range tests {
		file := parseOK(t, tt.input)
		if file.Span != span(0, tt.end) {
			t.Errorf("%q: root span = %v, want 0..%d", tt.input, file.Span, tt.end)
		}
	}
}

func TestUnclosedDelimiter(t *testing.T) {
	tests := []struct {
		input  string
		open   token.Kind
		closer token.Kind
		span   uint32
		found  token.Kind
	}{
		{"(1 + 2", token.LParen, token.RParen, 0, token.EOF},
		{"(1]", token.LParen, token.RParen, 0, token.RBracket},
		{"x; { let a = 1;", token.LBrace, token.RBrace, 3, token.EOF},
		{"f(1, 2", token.LParen, token.RParen, 1, token.EOF},
		{"[1, (2)", token.LBracket, token.RBracket, 0, token.EOF},
		{"(1 + 2;", token.LParen, token.RParen, 0, token.Semicolon},
		{"f(1, 2 ;", token.LParen, token.RParen, 1, token.Semicolon},
		{"let x = (1 + 2 let y = 3;", token.LParen, token.RParen, 8, token.KwLet},
		{"xs[1 while", token.LBracket, token.RBracket, 2, token.KwWhile},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := parseErr(t, tt.input)
			if err.Reason != ReasonUnclosed {
				t.Fatalf("reason = %v (%v), want unclosed", err.Reason, err)
			}
			if err.Span != span(tt.span, tt.span+1) {
				t.Fatalf("span = %v, want the opening delimiter at %d", err.Span, tt.span)
			}
			if err.Delimiter != tt.open || err.ExpectedClose != tt.closer {
				t.Fatalf("delimiters = %v/%v", err.Delimiter, err.ExpectedClose)
			}
			if err.Found.Kind != tt.found {
				t.Fatalf("found = %v, want %v", err.Found.Kind, tt.found)
			}
		})
	}
}

func TestStatementTokensInsideBlockAreNotUnclosed(t *testing.T) {
	for _, input := range []string{"{ let a = 1 }", "(1 + 2 3);"} {
		err := parseErr(t, input)
		if err.Reason != ReasonUnexpected {
			t.Fatalf("%q: reason = %v (%v), want unexpected", input, err.Reason, err)
		}
	}
}

func TestNestingDepthLimit(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"parens", strings.Repeat("(", 200000) + "1"},
		{"unary", strings.Repeat("-", 200000) + "1;"},
		{"blocks", strings.Repeat("{", 5000)},
		{"else-if", strings.Repeat("if a {} else ", 5000) + "{}"},
		{"assign", strings.Repeat("a = ", 5000) + "1;"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := parseErr(t, tt.input)
			if err.Reason != ReasonCustom || err.DiagCode() != diag.SynTooDeep {
				t.Fatalf("got %v, want nesting too deep", err)
			}
		})
	}

	err := parseErr(t, strings.Repeat("(", 200000)+"1")
	if err.Span.Start != MaxDepth {
		t.Fatalf("span = %v, want the token at depth %d", err.Span, MaxDepth)
	}

	parseOK(t, strings.Repeat("(", MaxDepth/2)+"1"+strings.Repeat(")", MaxDepth/2)+";")
}

func TestUnexpectedEndOfInput(t *testing.T) {
	err := parseErr(t, "let")
	if err.Reason != ReasonUnexpected || !err.FoundEOF() {
		t.Fatalf("got %v, want unexpected end of input", err)
	}
	if err.Span != span(3, 3) {
		t.Fatalf("span = %v", err.Span)
	}
	if got := token.DescribeKinds(err.Expected); got != "identifier" {
		t.Fatalf("expected = %q", got)
	}
	if err.DiagCode() != diag.SynUnexpectedEOF {
		t.Fatalf("code = %v", err.DiagCode())
	}
}

func TestUnexpectedTokenExpectedSet(t *testing.T) {
	err := parseErr(t, "let x = ;")
	if err.Reason != ReasonUnexpected || err.Found.Kind != token.Semicolon {
		t.Fatalf("got %v", err)
	}
	if err.Span != span(8, 9) {
		t.Fatalf("span = %v", err.Span)
	}
	want := "identifier, 'fn', 'true', 'false', 'nil', integer, float, string, '-', '!', '(', '['"
	if got := token.DescribeKinds(err.Expected); got != want {
		t.Fatalf("expected =\n  %s\nwant\n  %s", got, want)
	}
	if err.DiagCode() != diag.SynUnexpectedToken {
		t.Fatalf("code = %v", err.DiagCode())
	}
}

func TestRangeIsNotChainable(t *testing.T) {
	err := parseErr(t, "1..2..3;")
	if err.Found.Kind != token.DotDot || err.Span != span(4, 6) {
		t.Fatalf("got %v", err)
	}
}

func TestPostParseChecks(t *testing.T) {
	input := "1 = x; fn f(a, a) {} f() = 2;"
	file, errs := Parse(lex(t, input), Options{})
	if file != nil {
		t.Fatalf("file must be nil when checks fail")
	}
	want := []struct {
		code diag.Code
		sp   [2]uint32
	}{
		{diag.SynInvalidAssignTarget, [2]uint32{0, 1}},
		{diag.SynDuplicateParam, [2]uint32{15, 16}},
		{diag.SynInvalidAssignTarget, [2]uint32{21, 24}},
	}
	if len(errs) != len(want) {
		t.Fatalf("got %d errors: %v", len(errs), errs)
	}
	for i, w := range want {
		if errs[i].Reason != ReasonCustom || errs[i].Code != w.code {
			t.Errorf("error %d = %v, want code %v", i, errs[i], w.code)
		}
		if errs[i].Span != span(w.sp[0], w.sp[1]) {
			t.Errorf("error %d span = %v, want %v", i, errs[i].Span, w.sp)
		}
	}

	res := ParseFile(lex(t, input), Options{MaxErrors: 1})
	if len(res.Errors) != 1 || res.Dropped != len(want)-1 {
		t.Fatalf("MaxErrors=1 produced %d errors, %d dropped", len(res.Errors), res.Dropped)
	}
}

func TestTooManyArguments(t *testing.T) {
	args := strings.Repeat("x, ", MaxArgs+1)
	err := parseErr(t, "f("+args+");")
	if err.Code != diag.SynTooManyArgs {
		t.Fatalf("got %v", err)
	}
}

func TestParseIsDeterministic(t *testing.T) {
	inputs := []string{"fn f(a) { return a * 2; } f(3);", "let = 1;", "(1 + 2"}
	for _, in := range inputs {
		toks := lex(t, in)
		f1, e1 := Parse(toks, Options{})
		f2, e2 := Parse(toks, Options{})
		if !reflect.DeepEqual(f1, f2) || !reflect.DeepEqual(e1, e2) {
			t.Fatalf("%q: results differ between runs", in)
		}
	}
}

func TestParseWithoutEOF(t *testing.T) {
	file, errs := Parse(nil, Options{})
	if len(errs) != 0 || file == nil || len(file.Stmts) != 0 {
		t.Fatalf("empty token slice: %v %v", file, errs)
	}
}
