package lexer_test

import (
	"strings"
	"testing"

	"quill/internal/diag"
	"quill/internal/lexer"
	"quill/internal/source"
	"quill/internal/token"
)

func makeFile(input string) *source.File {
	fs := source.NewFileSet()
	return fs.Get(fs.AddVirtual("test.ql", []byte(input)))
}

func tokenize(t *testing.T, input string) []token.Token {
	t.Helper()
	toks, errs := lexer.Tokenize(makeFile(input), lexer.Options{})
	if len(errs) != 0 {
		t.Fatalf("unexpected lex errors for %q: %v", input, errs)
	}
	return toks
}

// expectTokens проверяет последовательность токенов (без EOF)
func expectTokens(t *testing.T, input string, expected []token.Kind) {
	t.Helper()
	toks := tokenize(t, input)
	toks = toks[:len(toks)-1]
	if len(toks) != len(expected) {
		kinds := make([]string, 0, len(toks))
		for _, tk := range toks {
			kinds = append(kinds, tk.Kind.String())
		}
		t.Fatalf("input %q: expected %d tokens, got %d: %s", input, len(expected), len(toks), strings.Join(kinds, " "))
	}
	for i, tok := range toks {
		if tok.Kind != expected[i] {
			t.Errorf("token %d: expected %v, got %v (text %q)", i, expected[i], tok.Kind, tok.Text)
		}
	}
}

func TestOperatorsLongestMatch(t *testing.T) {
	expectTokens(t, "a+=b==c!=d<=e>=f&&g||h..i", []token.Kind{
		token.Ident, token.PlusAssign, token.Ident, token.EqEq, token.Ident, token.BangEq,
		token.Ident, token.LtEq, token.Ident, token.GtEq, token.Ident, token.AndAnd,
		token.Ident, token.OrOr, token.Ident, token.DotDot, token.Ident,
	})
	expectTokens(t, "(){}[];,.!", []token.Kind{
		token.LParen, token.RParen, token.LBrace, token.RBrace, token.LBracket, token.RBracket,
		token.Semicolon, token.Comma, token.Dot, token.Bang,
	})
}

func TestKeywordsAndIdents(t *testing.T) {
	expectTokens(t, "let fn if else while for in return break continue letter _x имя", []token.Kind{
		token.KwLet, token.KwFn, token.KwIf, token.KwElse, token.KwWhile, token.KwFor, token.KwIn,
		token.KwReturn, token.KwBreak, token.KwContinue, token.Ident, token.Ident, token.Ident,
	})
}

func TestLiteralPayloads(t *testing.T) {
	tests := []struct {
		input string
		kind  token.Kind
		lit   token.Literal
	}{
		{"42", token.IntLit, token.IntValue(42)},
		{"1_000", token.IntLit, token.IntValue(1000)},
		{"0x_ff", token.IntLit, token.IntValue(255)},
		{"0b1010", token.IntLit, token.IntValue(10)},
		{"0o17", token.IntLit, token.IntValue(15)},
		{"017", token.IntLit, token.IntValue(17)},
		{"1.5", token.FloatLit, token.FloatValue(1.5)},
		{".25", token.FloatLit, token.FloatValue(0.25)},
		{"2e3", token.FloatLit, token.FloatValue(2000)},
		{"1.5E-1", token.FloatLit, token.FloatValue(0.15)},
		{`"hi\n\"there\""`, token.StringLit, token.StringValue("hi\n\"there\"")},
		{`"\u{1F600}"`, token.StringLit, token.StringValue("\U0001F600")},
		{"true", token.KwTrue, token.BoolValue(true)},
		{"false", token.KwFalse, token.BoolValue(false)},
		{"nil", token.KwNil, token.NilValue()},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			toks := tokenize(t, tt.input)
			if len(toks) != 2 {
				t.Fatalf("expected literal + EOF, got %d tokens", len(toks))
			}
			tok := toks[0]
			if tok.Kind != tt.kind {
				t.Fatalf("kind = %v, want %v", tok.Kind, tt.kind)
			}
			if tok.Lit != tt.lit {
				t.Fatalf("lit = %+v, want %+v", tok.Lit, tt.lit)
			}
			if !tok.IsLiteral() {
				t.Fatalf("%v must be a literal token", tok.Kind)
			}
			// span покрывает весь литерал, включая кавычки
			if tok.Text != tt.input || int(tok.Span.Len()) != len(tt.input) {
				t.Fatalf("text/span mismatch: %q %+v", tok.Text, tok.Span)
			}
		})
	}
}

func TestRangeAfterIntIsNotFloat(t *testing.T) {
	expectTokens(t, "1..5", []token.Kind{token.IntLit, token.DotDot, token.IntLit})
	expectTokens(t, "x.len", []token.Kind{token.Ident, token.Dot, token.Ident})
}

func TestTriviaSkipped(t *testing.T) {
	src := "// comment\nlet /* block /* nested */ */ x = 1;\r\n"
	toks := tokenize(t, src)
	if toks[0].Kind != token.KwLet {
		t.Fatalf("first token = %v", toks[0].Kind)
	}
	if len(toks[0].Leading) != 2 || toks[0].Leading[0].Kind != token.TriviaLineComment {
		t.Fatalf("leading trivia = %+v", toks[0].Leading)
	}
	if toks[1].Leading[1].Kind != token.TriviaBlockComment {
		t.Fatalf("block comment trivia missing: %+v", toks[1].Leading)
	}
}

func TestEOFInvariants(t *testing.T) {
	for _, input := range []string{"", "   ", "let x = 1;", "x // trailing"} {
		toks := tokenize(t, input)
		eofs := 0
		for _, tk := range toks {
			if tk.Kind == token.EOF {
				eofs++
			}
		}
		last := toks[len(toks)-1]
		if eofs != 1 || last.Kind != token.EOF {
			t.Fatalf("%q: expected exactly one trailing EOF", input)
		}
		if !last.Span.Empty() || int(last.Span.Start) != len(input) {
			t.Fatalf("%q: EOF span = %+v", input, last.Span)
		}
		// спаны не пересекаются и не убывают
		for i := 1; i < len(toks); i++ {
			if toks[i].Span.Start < toks[i-1].Span.End {
				t.Fatalf("%q: overlapping spans at %d", input, i)
			}
		}
	}
}

func TestErrorsAreCollectedAndScanningContinues(t *testing.T) {
	toks, errs := lexer.Tokenize(makeFile("1 $ 2 @ 3"), lexer.Options{})
	if toks != nil {
		t.Fatalf("tokens must be nil on failure")
	}
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %d: %v", len(errs), errs)
	}
	wantStarts := []uint32{2, 6}
	for i, e := range errs {
		if e.Code != diag.LexUnknownChar || !e.IsUnknownChar() {
			t.Errorf("error %d code = %v", i, e.Code)
		}
		if e.Span.Start != wantStarts[i] || e.Span.Len() != 1 {
			t.Errorf("error %d span = %+v", i, e.Span)
		}
	}
	if errs[0].Found != "$" || errs[1].Found != "@" {
		t.Errorf("found = %q, %q", errs[0].Found, errs[1].Found)
	}
}

func TestUnknownMultibyteCharIsOneError(t *testing.T) {
	_, errs := lexer.Tokenize(makeFile("a € b"), lexer.Options{})
	if len(errs) != 1 || errs[0].Found != "€" || errs[0].Span.Len() != 3 {
		t.Fatalf("errs = %+v", errs)
	}
}

func TestMalformedInputs(t *testing.T) {
	tests := []struct {
		input string
		code  diag.Code
		start uint32
		end   uint32
	}{
		{`"abc`, diag.LexUnterminatedString, 0, 4},
		{"\"ab\ncd\"", diag.LexUnterminatedString, 0, 3},
		{"/* open", diag.LexUnterminatedBlockComment, 0, 7},
		{"0b102", diag.LexBadNumber, 0, 5},
		{"12abc", diag.LexBadNumber, 0, 5},
		{"1__0", diag.LexBadNumber, 0, 4},
		{"1_e5", diag.LexBadNumber, 0, 4},
		{"1e_5", diag.LexBadNumber, 0, 4},
		{"1.5_e3", diag.LexBadNumber, 0, 6},
		{"0x", diag.LexBadNumber, 0, 2},
		{"99999999999999999999", diag.LexNumberOutOfRange, 0, 20},
		{`"a\qb"`, diag.LexBadEscape, 2, 4},
		{`"\u{zz}"`, diag.LexBadEscape, 1, 4},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			toks, errs := lexer.Tokenize(makeFile(tt.input), lexer.Options{})
			if toks != nil || len(errs) == 0 {
				t.Fatalf("expected failure, got %d tokens", len(toks))
			}
			e := errs[0]
			if e.Code != tt.code {
				t.Fatalf("code = %v, want %v", e.Code.ID(), tt.code.ID())
			}
			if e.Span.Start != tt.start || e.Span.End != tt.end {
				t.Fatalf("span = %d..%d, want %d..%d", e.Span.Start, e.Span.End, tt.start, tt.end)
			}
		})
	}
}

func TestMaxErrors(t *testing.T) {
	lx := lexer.New(makeFile("$ $ $ $"), lexer.Options{MaxErrors: 2})
	for lx.Next().Kind != token.EOF {
	}
	if len(lx.Errors()) != 2 || lx.Dropped() != 2 {
		t.Fatalf("errors=%d dropped=%d", len(lx.Errors()), lx.Dropped())
	}
}

func TestScanReportsDropped(t *testing.T) {
	res := lexer.Scan(makeFile(strings.Repeat("$ ", 150)), lexer.Options{MaxErrors: 100})
	if res.Tokens != nil {
		t.Fatalf("tokens must be nil on failure")
	}
	if len(res.Errors) != 100 || res.Dropped != 50 {
		t.Fatalf("errors=%d dropped=%d", len(res.Errors), res.Dropped)
	}

	res = lexer.Scan(makeFile("let x = 1;"), lexer.Options{MaxErrors: 1})
	if len(res.Errors) != 0 || res.Dropped != 0 || len(res.Tokens) != 6 {
		t.Fatalf("clean input: %+v", res)
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	lx := lexer.New(makeFile("a b"), lexer.Options{})
	if p := lx.Peek(); p.Text != "a" {
		t.Fatalf("Peek = %q", p.Text)
	}
	if n := lx.Next(); n.Text != "a" {
		t.Fatalf("Next after Peek = %q", n.Text)
	}
	if n := lx.Next(); n.Text != "b" {
		t.Fatalf("second Next = %q", n.Text)
	}
}

func TestTokenizeIsDeterministic(t *testing.T) {
	src := "fn f(a, b) { return a + b * 2.5; }"
	a := tokenize(t, src)
	b := tokenize(t, src)
	if len(a) != len(b) {
		t.Fatalf("length differs")
	}
	for i := range a {
		if a[i].Kind != b[i].Kind || a[i].Span != b[i].Span || a[i].Lit != b[i].Lit {
			t.Fatalf("token %d differs", i)
		}
	}
}
