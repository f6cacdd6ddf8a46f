package driver

import (
	"context"
	"fmt"

	"quill/internal/ast"
	"quill/internal/diag"
	"quill/internal/diagfmt"
	"quill/internal/lexer"
	"quill/internal/observ"
	"quill/internal/parser"
	"quill/internal/source"
	"quill/internal/token"
	"quill/internal/trace"
)

// Status is the terminal state of one pipeline run.
type Status uint8

const (
	// StatusParsed: both phases succeeded, Tokens and AST are set.
	StatusParsed Status = iota
	// StatusLexFailed: the lexer reported errors, the parser never ran.
	StatusLexFailed
	// StatusParseFailed: tokens are valid but the parser rejected them.
	StatusParseFailed
)

func (s Status) String() string {
	switch s {
	case StatusParsed:
		return "parsed"
	case StatusLexFailed:
		return "lex-failed"
	case StatusParseFailed:
		return "parse-failed"
	default:
		return "unknown"
	}
}

// Failed reports whether the run ended in an error state.
func (s Status) Failed() bool { return s != StatusParsed }

// Options configure Run, RunFile and CheckDir.
type Options struct {
	// FileSet receives files loaded by RunFile; nil means a fresh set per call.
	FileSet *source.FileSet
	// Reporter receives every diagnostic in order; nil keeps them in the Bag only.
	Reporter diag.Reporter
	// MaxDiagnostics caps diagnostics kept per file (0 = unlimited).
	MaxDiagnostics int
	// Timer collects phase timings for Run/RunFile; CheckDir uses a timer per file.
	Timer *observ.Timer
	// Cache short-circuits CheckDir for files whose content was seen before.
	Cache *DiskCache
	// CacheSalt is mixed into cache keys (rendering options that affect stored output).
	CacheSalt string
	// Progress receives per-file events from CheckDir.
	Progress ProgressSink
	// Extensions selects files for CheckDir; empty means ".ql".
	Extensions []string
	// Jobs limits CheckDir parallelism; <= 0 means GOMAXPROCS.
	Jobs int
}

// RunResult is the outcome of one lex → parse invocation.
type RunResult struct {
	Status      Status
	FileSet     *source.FileSet
	File        *source.File
	Tokens      []token.Token
	AST         *ast.File
	LexErrors   []lexer.Error
	ParseErrors []parser.Error
	// Bag holds the converted diagnostics in error order.
	Bag *diag.Bag
}

// LexResult is the outcome of the lexing phase alone.
type LexResult struct {
	File   *source.File
	Tokens []token.Token
	Errors []lexer.Error
	Bag    *diag.Bag
}

// Failed reports whether lexing produced errors.
func (r *LexResult) Failed() bool { return len(r.Errors) > 0 }

// Lex runs only the lexing phase. Errors are converted and forwarded to
// opts.Reporter; on failure Tokens is nil.
func Lex(ctx context.Context, file *source.File, opts Options) *LexResult {
	res := &LexResult{File: file, Bag: diag.NewBag(opts.MaxDiagnostics)}
	res.Tokens, res.Errors = lex(ctx, file, opts, res.Bag)
	return res
}

func lex(ctx context.Context, file *source.File, opts Options, bag *diag.Bag) ([]token.Token, []lexer.Error) {
	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "lex", trace.CurrentSpan(ctx).SpanID)
	idx := opts.Timer.Begin("lex")
	scanned := lexer.Scan(file, lexer.Options{MaxErrors: opts.MaxDiagnostics})
	if errs := scanned.Errors; len(errs) > 0 {
		total := len(errs) + scanned.Dropped
		opts.Timer.End(idx, fmt.Sprintf("%d errors", total))
		span.WithCount("errors", total).End("failed")
		diagfmt.LexDiagnostics(errs, diag.MultiReporter{diag.BagReporter{Bag: bag}, opts.Reporter})
		bag.NoteDropped(scanned.Dropped)
		return nil, errs
	}
	opts.Timer.End(idx, fmt.Sprintf("%d tokens", len(scanned.Tokens)))
	span.WithCount("tokens", len(scanned.Tokens)).End("")
	return scanned.Tokens, nil
}

// Run lexes and parses one file. A lexing failure short-circuits: the
// parser is not invoked. On failure every error is converted and forwarded
// to opts.Reporter before Run returns.
func Run(ctx context.Context, file *source.File, opts Options) *RunResult {
	res := &RunResult{File: file, Bag: diag.NewBag(opts.MaxDiagnostics)}

	tokens, lexErrs := lex(ctx, file, opts, res.Bag)
	if len(lexErrs) > 0 {
		res.Status = StatusLexFailed
		res.LexErrors = lexErrs
		return res
	}
	res.Tokens = tokens

	idx := opts.Timer.Begin("parse")
	pr := parser.ParseFile(tokens, parser.Options{
		MaxErrors:  opts.MaxDiagnostics,
		Tracer:     trace.FromContext(ctx),
		ParentSpan: trace.CurrentSpan(ctx).SpanID,
	})
	parsed, parseErrs := pr.File, pr.Errors
	if len(parseErrs) > 0 {
		opts.Timer.End(idx, fmt.Sprintf("%d errors", len(parseErrs)+pr.Dropped))
		res.Status = StatusParseFailed
		res.ParseErrors = parseErrs
		diagfmt.ParseDiagnostics(parseErrs, diag.MultiReporter{diag.BagReporter{Bag: res.Bag}, opts.Reporter})
		res.Bag.NoteDropped(pr.Dropped)
		return res
	}
	opts.Timer.End(idx, fmt.Sprintf("%d statements", len(parsed.Stmts)))
	res.Status = StatusParsed
	res.AST = parsed
	return res
}

// RunFile loads path into opts.FileSet (or a fresh one) and runs the pipeline on it.
// Load failures (missing file, invalid UTF-8) are returned as errors, not diagnostics.
func RunFile(ctx context.Context, path string, opts Options) (*RunResult, error) {
	fs := opts.FileSet
	if fs == nil {
		fs = source.NewFileSet()
	}
	idx := opts.Timer.Begin("load")
	id, err := fs.Load(path)
	opts.Timer.End(idx, "")
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	res := Run(ctx, fs.Get(id), opts)
	res.FileSet = fs
	return res, nil
}

// RunSource runs the pipeline on in-memory content registered as a virtual file.
func RunSource(ctx context.Context, name string, content []byte, opts Options) *RunResult {
	fs := source.NewFileSet()
	id := fs.AddVirtual(name, content)
	res := Run(ctx, fs.Get(id), opts)
	res.FileSet = fs
	return res
}
