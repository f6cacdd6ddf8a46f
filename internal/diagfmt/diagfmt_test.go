package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quill/internal/diag"
	"quill/internal/lexer"
	"quill/internal/parser"
	"quill/internal/source"
)

func plainOpts() PrettyOpts {
	return PrettyOpts{Context: 1, ShowNotes: true, ShowFixes: true}
}

func addFile(input string) (*source.FileSet, *source.File) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.ql", []byte(input))
	return fs, fs.Get(id)
}

// diagnose прогоняет лексер и парсер и возвращает диагностики в порядке ошибок.
func diagnose(t *testing.T, input string) (*source.FileSet, []diag.Diagnostic) {
	t.Helper()
	fs, file := addFile(input)
	bag := diag.NewBag(0)
	toks, lexErrs := lexer.Tokenize(file, lexer.Options{})
	if len(lexErrs) > 0 {
		LexDiagnostics(lexErrs, diag.BagReporter{Bag: bag})
		return fs, bag.Items()
	}
	_, parseErrs := parser.Parse(toks, parser.Options{})
	ParseDiagnostics(parseErrs, diag.BagReporter{Bag: bag})
	return fs, bag.Items()
}

func TestRenderUnclosed(t *testing.T) {
	fs, diags := diagnose(t, "(1 + 2")
	require.Len(t, diags, 1)

	want := strings.Join([]string{
		"error[SYN2006]: Unclosed delimiter `(`",
		" --> test.ql:1:1",
		"  |",
		"1 | (1 + 2",
		"  | ^ unclosed delimiter opened here",
		"  |       - expected `)` to match",
		"  = help: insert `)`",
		"",
	}, "\n")
	assert.Equal(t, want, Render(diags[0], fs, plainOpts()))
}

func TestRenderUnexpectedEndOfInput(t *testing.T) {
	fs, diags := diagnose(t, "let")
	require.Len(t, diags, 1)
	d := diags[0]
	assert.Equal(t, "Unexpected end of input, expected identifier", d.Message)
	assert.Equal(t, diag.SynUnexpectedEOF, d.Code)

	out := Render(d, fs, plainOpts())
	assert.Contains(t, out, "1 | let\n")
	assert.Contains(t, out, "  |    ^ Unexpected token end of file\n")
}

func TestRenderUnexpectedToken(t *testing.T) {
	_, diags := diagnose(t, "let x = 1 2;")
	require.Len(t, diags, 1)
	assert.True(t, strings.HasPrefix(diags[0].Message, "Unexpected token in input, expected "))
	label, ok := diags[0].PrimaryLabel()
	require.True(t, ok)
	assert.Equal(t, "Unexpected token 2", label.Msg)
}

func TestLexErrorsRenderedInOrder(t *testing.T) {
	fs, diags := diagnose(t, "1 $ 2 @ 3")
	require.Len(t, diags, 2)

	for i, ch := range []string{"$", "@"} {
		assert.Equal(t, "Unexpected token in input, expected something else", diags[i].Message)
		label, ok := diags[i].PrimaryLabel()
		require.True(t, ok)
		assert.Equal(t, "Unexpected token "+ch, label.Msg)
	}

	bag := diag.NewBag(0)
	for _, d := range diags {
		bag.Add(d)
	}
	var buf bytes.Buffer
	require.NoError(t, Short(&buf, bag, fs))
	assert.Equal(t,
		"error LEX1001 test.ql:1:3 Unexpected token in input, expected something else\n"+
			"error LEX1001 test.ql:1:7 Unexpected token in input, expected something else\n",
		buf.String())

	buf.Reset()
	Pretty(&buf, bag, fs, plainOpts())
	out := buf.String()
	first := strings.Index(out, "Unexpected token $")
	second := strings.Index(out, "Unexpected token @")
	assert.True(t, first >= 0 && second > first, "reports must keep error order:\n%s", out)
}

func TestRenderTabsAndWideRunes(t *testing.T) {
	fs, diags := diagnose(t, "\tlet s = \"日本\"  1;")
	require.Len(t, diags, 1)
	out := Render(diags[0], fs, plainOpts())
	assert.Contains(t, out, "1 |     let s = \"日本\"  1;\n")
	assert.Contains(t, out, "  | "+strings.Repeat(" ", 20)+"^ Unexpected token 1\n")
}

func TestRenderMultiLineSpan(t *testing.T) {
	fs, file := addFile("ab\ncd\nef\n")
	sp := source.Span{File: file.ID, Start: 1, End: 4}
	d := diag.NewError(diag.SynInvalidAssignTarget, sp, "spans lines").
		WithLabel(sp, "here", diag.LabelPrimary)

	opts := plainOpts()
	opts.Context = 0
	want := strings.Join([]string{
		"error[SYN2031]: spans lines",
		" --> test.ql:1:2",
		"  |",
		"1 | ab",
		"  |  ^",
		"2 | cd",
		"  | ^ here",
		"",
	}, "\n")
	assert.Equal(t, want, Render(d, fs, opts))
}

func TestRenderContextElision(t *testing.T) {
	fs, file := addFile("a\nb\nc\nd\ne\nf\ng\n")
	d := diag.NewError(diag.SynInvalidAssignTarget, source.Span{File: file.ID, Start: 0, End: 1}, "two places").
		WithLabel(source.Span{File: file.ID, Start: 0, End: 1}, "first", diag.LabelPrimary).
		WithLabel(source.Span{File: file.ID, Start: 12, End: 13}, "second", diag.LabelSecondary)

	out := Render(d, fs, plainOpts())
	assert.Contains(t, out, "1 | a\n")
	assert.Contains(t, out, "2 | b\n")
	assert.Contains(t, out, "...\n")
	assert.Contains(t, out, "7 | g\n")
	assert.NotContains(t, out, "4 | d")
}

func TestColorIsPerRenderer(t *testing.T) {
	fs, diags := diagnose(t, "let")
	require.Len(t, diags, 1)

	colored := plainOpts()
	colored.Color = true
	assert.Contains(t, Render(diags[0], fs, colored), "\x1b[")
	assert.NotContains(t, Render(diags[0], fs, plainOpts()), "\x1b[")
}

func TestRenderIsDeterministic(t *testing.T) {
	fs, diags := diagnose(t, "fn f(a) { return (a + ; }")
	require.NotEmpty(t, diags)
	assert.Equal(t, Render(diags[0], fs, plainOpts()), Render(diags[0], fs, plainOpts()))
}

func TestEmitter(t *testing.T) {
	fs, diags := diagnose(t, "1 $ 2 @ 3")
	var buf bytes.Buffer
	em := NewEmitter(&buf, fs, plainOpts())
	for _, d := range diags {
		em.Report(d)
	}
	assert.Equal(t, 2, em.Count())
	assert.Equal(t, Render(diags[0], fs, plainOpts())+"\n"+Render(diags[1], fs, plainOpts()), buf.String())
}

func TestPostParseChecksRendered(t *testing.T) {
	_, diags := diagnose(t, "1 = 2; fn f(a, a) {}")
	require.Len(t, diags, 2)
	assert.Equal(t, "invalid assignment target", diags[0].Message)
	assert.Equal(t, diag.SynDuplicateParam, diags[1].Code)
}

func TestJSONOutput(t *testing.T) {
	fs, diags := diagnose(t, "(1 + 2")
	bag := diag.NewBag(0)
	bag.Add(diags[0])

	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, bag, fs, JSONOpts{IncludePositions: true, IncludeFixes: true, IncludePreviews: true}))

	var out DiagnosticsOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Equal(t, 1, out.Count)
	d := out.Diagnostics[0]
	assert.Equal(t, "SYN2006", d.Code)
	assert.Equal(t, uint32(1), d.Location.StartLine)
	require.Len(t, d.Labels, 2)
	assert.Equal(t, "secondary", d.Labels[1].Style)
	require.Len(t, d.Fixes, 1)
	require.Len(t, d.Fixes[0].Edits, 1)
	assert.Equal(t, []string{"(1 + 2)"}, d.Fixes[0].Edits[0].AfterLines)
}

func TestFormatASTTree(t *testing.T) {
	fs, file := addFile("let x = 1 + 2;")
	toks, lexErrs := lexer.Tokenize(file, lexer.Options{})
	require.Empty(t, lexErrs)
	tree, errs := parser.Parse(toks, parser.Options{})
	require.Empty(t, errs)

	var buf bytes.Buffer
	require.NoError(t, FormatASTTree(&buf, tree, fs))
	want := strings.Join([]string{
		"test.ql (span: 1:1-1:15)",
		"└─ Let x (span: 1:1-1:15)",
		"   └─ Binary + (span: 1:9-1:14)",
		"      ├─ Literal int(1) (span: 1:9-1:10)",
		"      └─ Literal int(2) (span: 1:13-1:14)",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())

	buf.Reset()
	require.NoError(t, FormatASTJSON(&buf, tree))
	var node ASTNodeOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &node))
	assert.Equal(t, "File", node.Type)
	require.Len(t, node.Children, 1)
	assert.Equal(t, "x", node.Children[0].Fields["name"])
}

func TestFormatTokens(t *testing.T) {
	fs, file := addFile("x = 0x1F;")
	toks, lexErrs := lexer.Tokenize(file, lexer.Options{})
	require.Empty(t, lexErrs)

	var buf bytes.Buffer
	require.NoError(t, FormatTokensPretty(&buf, toks, fs))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, len(toks))
	assert.Contains(t, lines[2], `"0x1F" = 31`)

	buf.Reset()
	require.NoError(t, FormatTokensJSON(&buf, toks))
	var out []TokenOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "EOF", out[len(out)-1].Kind)
}
