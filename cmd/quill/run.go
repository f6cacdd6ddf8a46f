package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"quill/internal/diagfmt"
	"quill/internal/driver"
	"quill/internal/observ"
	"quill/internal/source"
	"quill/internal/trace"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run [flags] file.ql",
		Short: "Lex and parse a script, printing its tokens and syntax tree",
		Long: `Run reads a .ql file and runs the lexer and parser on it.
On success the token sequence and the syntax tree are printed to stdout;
otherwise every diagnostic is rendered to stderr and the exit status is 1.`,
		Args: cobra.ExactArgs(1),
		RunE: withTracing(runRun),
	}
}

func runRun(cmd *cobra.Command, args []string) error {
	st := settingsFrom(cmd)
	errOut := cmd.ErrOrStderr()

	fs := source.NewFileSet()
	emitter := diagfmt.NewEmitter(errOut, fs, st.prettyOpts(errOut))
	timer := observ.NewTimer()

	res, err := driver.RunFile(cmd.Context(), args[0], driver.Options{
		FileSet:        fs,
		Reporter:       emitter,
		MaxDiagnostics: st.maxDiagnostics,
		Timer:          timer,
	})
	if err != nil {
		return err
	}
	defer func() { printTimings(errOut, st, "run", timer.Report()) }()

	if res.Status.Failed() {
		reportDropped(cmd, res.Bag.Dropped())
		return errDiagnostics
	}

	out := cmd.OutOrStdout()
	idx := timer.Begin("render")
	defer func() { timer.End(idx, "") }()
	_, span := trace.StartSpan(cmd.Context(), trace.ScopePass, "render")
	defer span.End("")
	if err := diagfmt.FormatTokensPretty(out, res.Tokens, fs); err != nil {
		return err
	}
	fmt.Fprintln(out)
	return diagfmt.FormatASTTree(out, res.AST, fs)
}

func reportDropped(cmd *cobra.Command, dropped int) {
	if dropped > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "note: %d more diagnostics not shown (--max-diagnostics)\n", dropped)
	}
}
