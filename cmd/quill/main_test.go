package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"quill/internal/diagfmt"
	"quill/internal/token"
)

// execute runs the CLI with a private quill.toml so the host environment
// cannot change defaults.
func execute(t *testing.T, dir string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	cfgPath := filepath.Join(dir, "quill.toml")
	if _, statErr := os.Stat(cfgPath); errors.Is(statErr, os.ErrNotExist) {
		require.NoError(t, os.WriteFile(cfgPath, []byte("[diagnostics]\ncolor = \"off\"\n"), 0o600))
	}
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config", cfgPath}, args...))
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeScript(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRunPrintsTokensAndTree(t *testing.T) {
	dir := t.TempDir()
	path := writeScript(t, dir, "ok.ql", "let x = 1 + 2;")

	stdout, stderr, err := execute(t, dir, "run", path)
	require.NoError(t, err)
	require.Empty(t, stderr)
	require.Contains(t, stdout, "Let x")
	require.Contains(t, stdout, "Binary +")
	require.Contains(t, stdout, token.EOF.String())
}

func TestRunReportsDiagnostics(t *testing.T) {
	dir := t.TempDir()
	path := writeScript(t, dir, "open.ql", "(1 + 2")

	stdout, stderr, err := execute(t, dir, "run", path)
	require.ErrorIs(t, err, errDiagnostics)
	require.Empty(t, stdout)
	require.Contains(t, stderr, "error[SYN2006]: Unclosed delimiter `(`")
	require.Contains(t, stderr, "1 | (1 + 2")
	require.Contains(t, stderr, "^ unclosed delimiter opened here")
}

func TestRunReportsEveryLexError(t *testing.T) {
	dir := t.TempDir()
	path := writeScript(t, dir, "lex.ql", "1 $ 2 @ 3")

	_, stderr, err := execute(t, dir, "run", path)
	require.ErrorIs(t, err, errDiagnostics)
	require.Equal(t, 2, strings.Count(stderr, "error[LEX1001]"))
	require.Less(t, strings.Index(stderr, "Unexpected token $"), strings.Index(stderr, "Unexpected token @"))
}

func TestRunMissingFileIsFatal(t *testing.T) {
	dir := t.TempDir()
	_, stderr, err := execute(t, dir, "run", filepath.Join(dir, "missing.ql"))
	require.Error(t, err)
	require.NotErrorIs(t, err, errDiagnostics)
	require.ErrorIs(t, err, os.ErrNotExist)
	require.Empty(t, stderr)
}

func TestTokenizeJSON(t *testing.T) {
	dir := t.TempDir()
	path := writeScript(t, dir, "t.ql", "let a = 0x1F; // hi\n")

	stdout, _, err := execute(t, dir, "tokenize", "--format", "json", path)
	require.NoError(t, err)

	var toks []diagfmt.TokenOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &toks))
	require.NotEmpty(t, toks)
	require.Equal(t, token.EOF.String(), toks[len(toks)-1].Kind)
}

func TestTokenizeIgnoresParseErrors(t *testing.T) {
	dir := t.TempDir()
	path := writeScript(t, dir, "t.ql", "let let (")

	_, _, err := execute(t, dir, "tokenize", path)
	require.NoError(t, err)
}

func TestParseJSON(t *testing.T) {
	dir := t.TempDir()
	path := writeScript(t, dir, "p.ql", "fn f(a) { return a; }")

	stdout, _, err := execute(t, dir, "parse", "--format", "json", path)
	require.NoError(t, err)

	var root diagfmt.ASTNodeOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &root))
	require.Equal(t, "File", root.Type)
	require.Len(t, root.Children, 1)
}

func TestCheckDirectoryShortFormat(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	writeScript(t, src, "a.ql", "let a = 1;")
	writeScript(t, src, "b.ql", "let b = ;")
	writeScript(t, src, "nested/c.ql", "1 $ 2")

	stdout, stderr, err := execute(t, dir, "check", "--ui", "off", "--format", "short", "--jobs", "2", src)
	require.ErrorIs(t, err, errDiagnostics)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 2)
	require.Contains(t, lines[0], "SYN")
	require.Contains(t, lines[1], "LEX1001")
	require.Contains(t, stderr, "checked 3 files (0 cached): 2 failed")
}

func TestCheckCleanDirectory(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	writeScript(t, src, "a.ql", "let a = [1, 2, 3];")

	_, stderr, err := execute(t, dir, "--quiet", "check", "--ui", "off", src)
	require.NoError(t, err)
	require.Empty(t, stderr)
}

func TestCheckTimingsTable(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	writeScript(t, src, "a.ql", "let a = 1;")

	_, stderr, err := execute(t, dir, "--timings", "check", "--ui", "off", src)
	require.NoError(t, err)
	require.Contains(t, stderr, "lex")
	require.Contains(t, stderr, "parse")
	require.Contains(t, stderr, "total")
}

func TestConfigOverriddenByFlags(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "quill.toml"), []byte(`
[diagnostics]
color = "off"
max = 1

[check]
extensions = [".qs"]
`), 0o600))
	src := filepath.Join(dir, "src")
	writeScript(t, src, "a.qs", "1 $ 2 @ 3")
	writeScript(t, src, "b.ql", "$")

	stdout, _, err := execute(t, dir, "check", "--ui", "off", "--format", "short", src)
	require.ErrorIs(t, err, errDiagnostics)
	require.Equal(t, 1, strings.Count(stdout, "LEX1001"), "max = 1 and only .qs files")

	stdout, _, err = execute(t, dir, "--max-diagnostics", "0", "check", "--ui", "off", "--format", "short", src)
	require.ErrorIs(t, err, errDiagnostics)
	require.Equal(t, 2, strings.Count(stdout, "LEX1001"))
}

func TestBadConfigIsFatal(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "quill.toml"), []byte("[diagnostics]\ncolor = \"maybe\"\n"), 0o600))

	_, _, err := execute(t, dir, "version")
	require.Error(t, err)
	require.Contains(t, err.Error(), "[diagnostics].color")
}

func TestVersionJSON(t *testing.T) {
	dir := t.TempDir()
	stdout, _, err := execute(t, dir, "version", "--format", "json")
	require.NoError(t, err)

	var payload versionPayload
	require.NoError(t, json.Unmarshal([]byte(stdout), &payload))
	require.Equal(t, "quill", payload.Tool)
	require.NotEmpty(t, payload.Version)
}

func TestTraceToFile(t *testing.T) {
	dir := t.TempDir()
	path := writeScript(t, dir, "ok.ql", "let x = 1;")
	tracePath := filepath.Join(dir, "trace.ndjson")

	_, _, err := execute(t, dir, "--trace", tracePath, "parse", path)
	require.NoError(t, err)

	data, err := os.ReadFile(tracePath)
	require.NoError(t, err)
	require.Contains(t, string(data), `"lex"`)
	require.Contains(t, string(data), `"parse"`)
	require.Contains(t, string(data), "run_id")
}

func TestFixPrintsRepairedSource(t *testing.T) {
	dir := t.TempDir()
	path := writeScript(t, dir, "fix.ql", "let a = f(1, [2")

	stdout, stderr, err := execute(t, dir, "fix", path)
	require.ErrorIs(t, err, errDiagnostics)
	require.Equal(t, "let a = f(1, [2])", stdout)
	require.Contains(t, stderr, "fixed [SYN2008]: insert `]`")
	require.Contains(t, stderr, "fixed [SYN2006]: insert `)`")
	require.Contains(t, stderr, "error[SYN2003]")

	data, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	require.Equal(t, "let a = f(1, [2", string(data))
}

func TestFixWriteRewritesFile(t *testing.T) {
	dir := t.TempDir()
	path := writeScript(t, dir, "fix.ql", "{ let a = (1 + 2);")

	stdout, stderr, err := execute(t, dir, "fix", "--write", path)
	require.NoError(t, err)
	require.Empty(t, stdout)
	require.Contains(t, stderr, "fixed [SYN2007]: insert `}`")

	data, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	require.Equal(t, "{ let a = (1 + 2);}", string(data))
}

func TestRunNotesDroppedLexErrors(t *testing.T) {
	dir := t.TempDir()
	path := writeScript(t, dir, "many.ql", strings.Repeat("$ ", 5))

	_, stderr, err := execute(t, dir, "--max-diagnostics", "2", "run", path)
	require.ErrorIs(t, err, errDiagnostics)
	require.Equal(t, 2, strings.Count(stderr, "error[LEX1001]"))
	require.Contains(t, stderr, "note: 3 more diagnostics not shown")
}

func TestParseReportsUnclosedBeforeSemicolon(t *testing.T) {
	dir := t.TempDir()
	path := writeScript(t, dir, "semi.ql", "let x = (1 + 2;")

	_, stderr, err := execute(t, dir, "parse", path)
	require.ErrorIs(t, err, errDiagnostics)
	require.Contains(t, stderr, "error[SYN2006]: Unclosed delimiter `(`")
	require.Contains(t, stderr, "found `;` instead")
}
