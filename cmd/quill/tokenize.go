package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"quill/internal/diagfmt"
	"quill/internal/driver"
	"quill/internal/observ"
	"quill/internal/source"
)

func newTokenizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokenize [flags] file.ql",
		Short: "Tokenize a quill source file",
		Long:  `Tokenize breaks down a quill source file into its constituent tokens`,
		Args:  cobra.ExactArgs(1),
		RunE:  withTracing(runTokenize),
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	return cmd
}

func runTokenize(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}
	st := settingsFrom(cmd)
	errOut := cmd.ErrOrStderr()

	fs := source.NewFileSet()
	timer := observ.NewTimer()
	idx := timer.Begin("load")
	id, err := fs.Load(args[0])
	timer.End(idx, "")
	if err != nil {
		return fmt.Errorf("load %s: %w", args[0], err)
	}

	res := driver.Lex(cmd.Context(), fs.Get(id), driver.Options{
		Reporter:       diagfmt.NewEmitter(errOut, fs, st.prettyOpts(errOut)),
		MaxDiagnostics: st.maxDiagnostics,
		Timer:          timer,
	})
	defer func() { printTimings(errOut, st, "tokenize", timer.Report()) }()
	if res.Failed() {
		reportDropped(cmd, res.Bag.Dropped())
		return errDiagnostics
	}

	// Выводим токены в выбранном формате
	switch format {
	case "json":
		return diagfmt.FormatTokensJSON(cmd.OutOrStdout(), res.Tokens)
	default:
		return diagfmt.FormatTokensPretty(cmd.OutOrStdout(), res.Tokens, fs)
	}
}
