package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"quill/internal/diagfmt"
	"quill/internal/driver"
	"quill/internal/observ"
	"quill/internal/source"
)

func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [flags] file.ql",
		Short: "Parse a quill source file and print its syntax tree",
		Args:  cobra.ExactArgs(1),
		RunE:  withTracing(runParse),
	}
	cmd.Flags().String("format", "tree", "output format (tree|json)")
	return cmd
}

func runParse(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "tree" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}
	st := settingsFrom(cmd)
	errOut := cmd.ErrOrStderr()

	fs := source.NewFileSet()
	timer := observ.NewTimer()
	res, err := driver.RunFile(cmd.Context(), args[0], driver.Options{
		FileSet:        fs,
		Reporter:       diagfmt.NewEmitter(errOut, fs, st.prettyOpts(errOut)),
		MaxDiagnostics: st.maxDiagnostics,
		Timer:          timer,
	})
	if err != nil {
		return err
	}
	defer func() { printTimings(errOut, st, "parse", timer.Report()) }()
	if res.Status.Failed() {
		reportDropped(cmd, res.Bag.Dropped())
		return errDiagnostics
	}

	if format == "json" {
		return diagfmt.FormatASTJSON(cmd.OutOrStdout(), res.AST)
	}
	return diagfmt.FormatASTTree(cmd.OutOrStdout(), res.AST, fs)
}
